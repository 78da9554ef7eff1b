package handler

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"receiptscan/internal/config"
	"receiptscan/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin: parse, delegate to the service, translate errors.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.ReceiptService, proc service.Processor, sched config.SchedulerConfig) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api/receipts")
	api.Get("/", ListReceipts(svc))
	api.Post("/upload", UploadReceipt(svc))
	api.Get("/:id/file", DownloadReceiptFile(svc))
	api.Get("/:id/url", PresignReceiptFile(svc))
	api.Post("/:id/approve", ApproveReceipt(svc))
	api.Post("/:id/repeat-analysis", RepeatAnalysis(svc))
	api.Put("/:id", UpdateReceiptFields(svc))
	api.Delete("/:id", DeleteReceipt(svc))

	// On-demand triggers for the scheduled tasks.
	api.Post("/process", RunProcessing(proc, sched.BatchSize))
	api.Post("/analyze-next", AnalyzeNext(proc))
	api.Post("/recover", RunRecovery(proc, sched.Staleness))
}

// HealthCheck reports whether the database dependency is reachable.
//
// @Summary Health check
// @Tags ops
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness probe.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// ListReceipts returns every receipt (without file bytes).
//
// @Summary List receipts
// @Tags receipts
// @Produce json
// @Success 200 {array} model.Receipt
// @Router /api/receipts [get]
func ListReceipts(svc service.ReceiptService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		receipts, err := svc.FindAll(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(receipts)
	}
}

// UploadReceipt accepts a receipt file (multipart/form-data, field name: file)
// and creates a new pending receipt.
//
// @Summary Upload a receipt file
// @Tags receipts
// @Accept mpfd
// @Produce json
// @Param file formData file true "receipt file"
// @Success 201 {object} model.Receipt
// @Failure 409 {object} errorPayload
// @Router /api/receipts/upload [post]
func UploadReceipt(svc service.ReceiptService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		rec, err := svc.Upload(c.UserContext(), f, fh.Filename, ct, fh.Size)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	}
}

// DownloadReceiptFile streams the stored file bytes inline.
//
// @Summary Download the stored receipt file
// @Tags receipts
// @Produce octet-stream
// @Param id path string true "receipt id"
// @Success 200 {file} binary
// @Router /api/receipts/{id}/file [get]
func DownloadReceiptFile(svc service.ReceiptService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := receiptID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		file, err := svc.FindFile(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		c.Set(fiber.HeaderContentType, file.ContentType)
		c.Set(fiber.HeaderContentDisposition, `inline; filename="`+file.FileName+`"`)
		return c.SendStream(file.Content, int(file.Size))
	}
}

// PresignReceiptFile returns a time-limited download URL for the stored file.
//
// @Summary Presigned URL for the stored receipt file
// @Tags receipts
// @Produce json
// @Param id path string true "receipt id"
// @Success 200 {object} map[string]string
// @Router /api/receipts/{id}/url [get]
func PresignReceiptFile(svc service.ReceiptService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := receiptID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		url, err := svc.PresignFile(c.UserContext(), id, 15*time.Minute)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"url": url})
	}
}

// ApproveReceipt finalizes a reviewed receipt.
//
// @Summary Approve a reviewed receipt
// @Tags receipts
// @Param id path string true "receipt id"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /api/receipts/{id}/approve [post]
func ApproveReceipt(svc service.ReceiptService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := receiptID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Approve(c.UserContext(), id); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RepeatAnalysis sends a receipt back through the analysis pipeline.
//
// @Summary Re-run analysis for a receipt
// @Tags receipts
// @Param id path string true "receipt id"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /api/receipts/{id}/repeat-analysis [post]
func RepeatAnalysis(svc service.ReceiptService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := receiptID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.RepeatAnalysis(c.UserContext(), id); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// UpdateReceiptFields applies operator edits to the extracted fields.
//
// @Summary Update extracted receipt fields
// @Tags receipts
// @Accept json
// @Param id path string true "receipt id"
// @Param patch body service.FieldPatch true "field values"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /api/receipts/{id} [put]
func UpdateReceiptFields(svc service.ReceiptService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := receiptID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var patch service.FieldPatch
		if err := c.BodyParser(&patch); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if err := svc.UpdateFields(c.UserContext(), id, patch); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DeleteReceipt removes a receipt and its stored file.
//
// @Summary Delete a receipt
// @Tags receipts
// @Param id path string true "receipt id"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /api/receipts/{id} [delete]
func DeleteReceipt(svc service.ReceiptService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := receiptID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RunProcessing triggers one processing run on demand.
//
// @Summary Run one processing batch now
// @Tags pipeline
// @Produce json
// @Success 200 {object} service.ProcessReport
// @Router /api/receipts/process [post]
func RunProcessing(proc service.Processor, batchSize int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		report, err := proc.ProcessBatch(c.UserContext(), batchSize)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(report)
	}
}

// AnalyzeNext processes the single oldest pending receipt, if any.
//
// @Summary Analyze the next pending receipt
// @Tags pipeline
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /api/receipts/analyze-next [post]
func AnalyzeNext(proc service.Processor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		processed, err := proc.ProcessNext(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"processed": processed})
	}
}

// RunRecovery triggers one recovery sweep on demand.
//
// @Summary Run one recovery sweep now
// @Tags pipeline
// @Produce json
// @Success 200 {object} map[string]int
// @Router /api/receipts/recover [post]
func RunRecovery(proc service.Processor, staleness time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		count, err := proc.RecoverStale(c.UserContext(), staleness)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"recovered": count})
	}
}

func receiptID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// serviceError translates service-level sentinel errors into the
// standardized error envelope.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "receipt not found")
	case errors.Is(err, service.ErrDuplicateName):
		return writeError(c, fiber.StatusConflict, "DUPLICATE_FILE_NAME", "a file with the same name was already uploaded")
	case errors.Is(err, service.ErrInvalidState):
		return writeError(c, fiber.StatusConflict, "INVALID_STATE", "operation not allowed in current receipt state")
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
