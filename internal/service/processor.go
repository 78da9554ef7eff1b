package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"receiptscan/internal/analyzer"
	"receiptscan/internal/lifecycle"
	"receiptscan/internal/metrics"
	"receiptscan/internal/model"
	"receiptscan/internal/repository"
	"receiptscan/internal/storage"
)

// ProcessReport summarizes one processing run.
type ProcessReport struct {
	Claimed   int           `json:"claimed"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Processor drives receipts through the analysis stage of the pipeline and
// recovers receipts abandoned mid-flight.
//
// Only store-level I/O failures are returned as errors; a single receipt's
// analysis failure is recorded on that receipt and never aborts a run.
type Processor interface {
	// ProcessBatch claims up to batchSize pending receipts, analyzes them
	// concurrently and persists the outcome.
	ProcessBatch(ctx context.Context, batchSize int) (*ProcessReport, error)

	// ProcessNext is the single-receipt variant of ProcessBatch. It reports
	// whether a candidate receipt was found.
	ProcessNext(ctx context.Context) (bool, error)

	// RecoverStale resets receipts stuck in the active state for longer than
	// staleness back to pending and returns how many were reset.
	RecoverStale(ctx context.Context, staleness time.Duration) (int, error)
}

type processor struct {
	repo     repository.ReceiptRepository
	store    storage.Storage
	analyzer analyzer.Analyzer
	pipeline *metrics.Pipeline
	logger   *slog.Logger
	now      func() time.Time
}

// NewProcessor constructs a Processor. pipeline may be nil when metrics are
// not wired (tests).
func NewProcessor(repo repository.ReceiptRepository, store storage.Storage, a analyzer.Analyzer, pipeline *metrics.Pipeline, logger *slog.Logger) Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &processor{
		repo:     repo,
		store:    store,
		analyzer: a,
		pipeline: pipeline,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (p *processor) ProcessBatch(ctx context.Context, batchSize int) (*ProcessReport, error) {
	start := time.Now()

	candidates, err := p.repo.FindByStateLimited(ctx, model.StateUploadComplete, batchSize)
	if err != nil {
		return nil, fmt.Errorf("select pending receipts: %w", err)
	}
	if len(candidates) == 0 {
		return &ProcessReport{Elapsed: time.Since(start)}, nil
	}

	// Claim the whole batch in one persisted update before any analyzer work
	// starts. A crash after this point leaves the receipts in the active
	// state, where the recovery sweep can find them.
	batch := make([]*model.Receipt, len(candidates))
	for i := range candidates {
		rec := &candidates[i]
		t, err := lifecycle.Next(rec.State, lifecycle.EventClaim)
		if err != nil {
			return nil, err
		}
		p.apply(rec, t)
		batch[i] = rec
	}
	if err := p.repo.UpdateBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("claim batch: %w", err)
	}

	// Each goroutine owns its receipt exclusively until the WaitGroup is
	// done; nothing else reads or writes the batch during this phase.
	var wg sync.WaitGroup
	for _, rec := range batch {
		wg.Add(1)
		go func(rec *model.Receipt) {
			defer wg.Done()
			p.analyzeOne(ctx, rec)
		}(rec)
	}
	wg.Wait()

	if err := p.repo.UpdateBatch(ctx, batch); err != nil {
		// The receipts stay active in the store; the recovery sweep will
		// return them to pending once they go stale.
		return nil, fmt.Errorf("finalize batch: %w", err)
	}

	report := &ProcessReport{Claimed: len(batch), Elapsed: time.Since(start)}
	for _, rec := range batch {
		if rec.State.Failed() {
			report.Failed++
		} else {
			report.Succeeded++
		}
	}
	p.countProcessed(report)

	p.logger.Info("processing run finished",
		"claimed", report.Claimed,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"elapsed_ms", report.Elapsed.Milliseconds(),
	)
	return report, nil
}

func (p *processor) ProcessNext(ctx context.Context) (bool, error) {
	rec, err := p.repo.FindOneByStateAndUpdatedBefore(ctx, model.StateUploadComplete, p.now())
	if err != nil {
		return false, fmt.Errorf("select pending receipt: %w", err)
	}
	if rec == nil {
		return false, nil
	}

	t, err := lifecycle.Next(rec.State, lifecycle.EventClaim)
	if err != nil {
		return false, err
	}
	p.apply(rec, t)
	if err := p.repo.Update(ctx, rec); err != nil {
		return false, fmt.Errorf("claim receipt: %w", err)
	}

	p.analyzeOne(ctx, rec)

	if err := p.repo.Update(ctx, rec); err != nil {
		return false, fmt.Errorf("finalize receipt: %w", err)
	}

	report := &ProcessReport{Claimed: 1}
	if rec.State.Failed() {
		report.Failed = 1
	} else {
		report.Succeeded = 1
	}
	p.countProcessed(report)
	return true, nil
}

func (p *processor) RecoverStale(ctx context.Context, staleness time.Duration) (int, error) {
	threshold := p.now().Add(-staleness)

	count := 0
	for {
		rec, err := p.repo.FindOneByStateAndUpdatedBefore(ctx, model.StateAnalysisActive, threshold)
		if err != nil {
			return count, fmt.Errorf("select stale receipt: %w", err)
		}
		if rec == nil {
			break
		}

		p.logger.Warn("recovering stale receipt", "id", rec.ID, "file_name", rec.FileName, "stale_since", rec.UpdatedAt)

		t, err := lifecycle.Next(rec.State, lifecycle.EventRecover)
		if err != nil {
			return count, err
		}
		p.apply(rec, t)
		if err := p.repo.Update(ctx, rec); err != nil {
			return count, fmt.Errorf("reset stale receipt: %w", err)
		}
		count++
		if p.pipeline != nil {
			p.pipeline.ReceiptsRecovered.Inc()
		}
	}
	return count, nil
}

// analyzeOne runs the analyzer on one claimed receipt and records the outcome
// on the receipt itself. It never returns an error: failures end up in the
// receipt's failed state with the message preserved.
func (p *processor) analyzeOne(ctx context.Context, rec *model.Receipt) {
	p.logger.Info("analyzing receipt", "id", rec.ID, "file_name", rec.FileName)

	ext, err := p.fetchAndAnalyze(ctx, rec)
	if err != nil {
		p.logger.Error("receipt analysis failed", "id", rec.ID, "file_name", rec.FileName, "error", err)
		t, tErr := lifecycle.Next(rec.State, lifecycle.EventAnalysisFailed)
		if tErr != nil {
			return
		}
		p.apply(rec, t)
		msg := err.Error()
		rec.Error = &msg
		return
	}

	rec.ReceiptNumber = ext.ReceiptNumber
	rec.ReceiptTotal = ext.ReceiptTotal
	rec.ReceiptDate = ext.ReceiptDate
	rec.ReceiptDescription = ext.ReceiptDescription
	rec.CompanyName = ext.CompanyName
	rec.CompanyAddress = ext.CompanyAddress
	rec.CompanyPhone = ext.CompanyPhone
	rec.TaxCategory = ext.TaxCategory
	rec.TaxSubCategory = ext.TaxSubCategory

	t, tErr := lifecycle.Next(rec.State, lifecycle.EventAnalysisSucceeded)
	if tErr != nil {
		return
	}
	p.apply(rec, t)
}

func (p *processor) fetchAndAnalyze(ctx context.Context, rec *model.Receipt) (*analyzer.Extraction, error) {
	content, _, err := p.store.Get(ctx, rec.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("fetch stored file: %w", err)
	}
	defer content.Close()

	data, err := io.ReadAll(content)
	if err != nil {
		return nil, fmt.Errorf("read stored file: %w", err)
	}

	return p.analyzer.Analyze(ctx, rec.ContentType, data)
}

func (p *processor) apply(rec *model.Receipt, t lifecycle.Transition) {
	rec.State = t.Next
	if t.ClearError {
		rec.Error = nil
	}
	rec.UpdatedAt = p.now()
}

func (p *processor) countProcessed(r *ProcessReport) {
	if p.pipeline == nil {
		return
	}
	p.pipeline.ReceiptsProcessed.WithLabelValues(metrics.ResultSuccess).Add(float64(r.Succeeded))
	p.pipeline.ReceiptsProcessed.WithLabelValues(metrics.ResultFailure).Add(float64(r.Failed))
}
