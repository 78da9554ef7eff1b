package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"receiptscan/internal/lifecycle"
	"receiptscan/internal/model"
	"receiptscan/internal/repository"
	"receiptscan/internal/storage"
)

var (
	ErrIDRequired    = errors.New("id is required")
	ErrNotFound      = errors.New("receipt not found")
	ErrDuplicateName = errors.New("a file with the same name was already uploaded")
	ErrReaderNil     = errors.New("reader is nil")
	ErrInvalidState  = errors.New("operation not allowed in current receipt state")
)

// FieldPatch carries the operator-editable extracted fields.
// Nil entries clear the corresponding field.
type FieldPatch struct {
	ReceiptNumber      *string    `json:"receipt_number"`
	ReceiptTotal       *float64   `json:"receipt_total"`
	ReceiptDate        *time.Time `json:"receipt_date"`
	ReceiptDescription *string    `json:"receipt_description"`
	CompanyName        *string    `json:"company_name"`
	CompanyAddress     *string    `json:"company_address"`
	CompanyPhone       *string    `json:"company_phone"`
	TaxCategory        *string    `json:"tax_category"`
	TaxSubCategory     *string    `json:"tax_sub_category"`
}

// ReceiptFile pairs a receipt's stored bytes with the metadata needed to
// serve them inline.
type ReceiptFile struct {
	FileName    string
	ContentType string
	Size        int64
	Content     io.ReadCloser
}

// ReceiptService defines the operator-facing use cases for receipts.
type ReceiptService interface {
	// Upload stores the file bytes in object storage and creates the receipt
	// row in its initial pending state. A duplicate original file name is
	// rejected with ErrDuplicateName before anything is written.
	Upload(ctx context.Context, r io.Reader, fileName string, contentType string, size int64) (*model.Receipt, error)

	// FindAll returns every receipt, newest first.
	FindAll(ctx context.Context) ([]model.Receipt, error)

	// FindFile returns the stored file bytes of a receipt for inline display.
	FindFile(ctx context.Context, id string) (*ReceiptFile, error)

	// PresignFile returns a time-limited download URL for the stored file.
	PresignFile(ctx context.Context, id string, expiry time.Duration) (string, error)

	// Approve finalizes a reviewed receipt.
	Approve(ctx context.Context, id string) error

	// RepeatAnalysis sends a receipt back to the start of the pipeline,
	// clearing any recorded error. Calling it on an already-pending receipt
	// only bumps its timestamp.
	RepeatAnalysis(ctx context.Context, id string) error

	// UpdateFields applies operator edits to the extracted fields.
	UpdateFields(ctx context.Context, id string, patch FieldPatch) error

	// Delete removes a receipt's stored object and row.
	Delete(ctx context.Context, id string) error
}

type receiptService struct {
	store storage.Storage
	repo  repository.ReceiptRepository
	now   func() time.Time
}

// NewReceiptService constructs a new ReceiptService.
func NewReceiptService(store storage.Storage, repo repository.ReceiptRepository) ReceiptService {
	return &receiptService{store: store, repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *receiptService) Upload(ctx context.Context, r io.Reader, fileName string, contentType string, size int64) (*model.Receipt, error) {
	if r == nil {
		return nil, ErrReaderNil
	}

	exists, err := s.repo.ExistsByName(ctx, fileName)
	if err != nil {
		return nil, fmt.Errorf("check existing name: %w", err)
	}
	if exists {
		return nil, ErrDuplicateName
	}

	id := uuid.New().String()
	key := filepath.ToSlash(filepath.Join("receipts", id+filepath.Ext(fileName)))

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": fileName,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	now := s.now()
	rec := &model.Receipt{
		ID:          id,
		FileName:    fileName,
		ContentType: contentType,
		StoragePath: objInfo.Key,
		Size:        objInfo.Size,
		State:       model.StateUploadComplete,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, rec); err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return rec, nil
}

func (s *receiptService) FindAll(ctx context.Context) ([]model.Receipt, error) {
	return s.repo.FindAll(ctx)
}

func (s *receiptService) FindFile(ctx context.Context, id string) (*ReceiptFile, error) {
	rec, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	content, info, err := s.store.Get(ctx, rec.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("fetch stored file: %w", err)
	}
	return &ReceiptFile{
		FileName:    rec.FileName,
		ContentType: rec.ContentType,
		Size:        info.Size,
		Content:     content,
	}, nil
}

func (s *receiptService) PresignFile(ctx context.Context, id string, expiry time.Duration) (string, error) {
	rec, err := s.find(ctx, id)
	if err != nil {
		return "", err
	}
	url, err := s.store.PresignGet(ctx, rec.StoragePath, expiry)
	if err != nil {
		return "", fmt.Errorf("presign stored file: %w", err)
	}
	return url, nil
}

func (s *receiptService) Approve(ctx context.Context, id string) error {
	rec, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	t, err := lifecycle.Next(rec.State, lifecycle.EventApprove)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	s.apply(rec, t)
	return s.repo.Update(ctx, rec)
}

func (s *receiptService) RepeatAnalysis(ctx context.Context, id string) error {
	rec, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	t, err := lifecycle.Next(rec.State, lifecycle.EventRepeat)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	s.apply(rec, t)
	return s.repo.Update(ctx, rec)
}

func (s *receiptService) UpdateFields(ctx context.Context, id string, patch FieldPatch) error {
	rec, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	rec.ReceiptNumber = patch.ReceiptNumber
	rec.ReceiptTotal = patch.ReceiptTotal
	rec.ReceiptDate = patch.ReceiptDate
	rec.ReceiptDescription = patch.ReceiptDescription
	rec.CompanyName = patch.CompanyName
	rec.CompanyAddress = patch.CompanyAddress
	rec.CompanyPhone = patch.CompanyPhone
	rec.TaxCategory = patch.TaxCategory
	rec.TaxSubCategory = patch.TaxSubCategory

	// Editing a reviewed receipt marks it as under revision; in any other
	// state the edit is saved without moving the receipt.
	if t, err := lifecycle.Next(rec.State, lifecycle.EventRevise); err == nil {
		rec.State = t.Next
	}
	rec.UpdatedAt = s.now()

	return s.repo.Update(ctx, rec)
}

func (s *receiptService) Delete(ctx context.Context, id string) error {
	rec, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	// Delete from storage first; if this fails, keep the row so the stored
	// object is never orphaned without a reference.
	if err := s.store.Delete(ctx, rec.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

func (s *receiptService) find(ctx context.Context, id string) (*model.Receipt, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (s *receiptService) apply(rec *model.Receipt, t lifecycle.Transition) {
	rec.State = t.Next
	if t.ClearError {
		rec.Error = nil
	}
	rec.UpdatedAt = s.now()
}
