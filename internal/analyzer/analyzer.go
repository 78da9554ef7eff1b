// Package analyzer turns receipt file bytes into structured fields using a
// vision-capable language model. Two backends are supported: a single-call
// OpenAI pipeline and a two-stage Ollama pipeline (recognize then analyze).
// The backend is chosen at construction time from configuration.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"receiptscan/internal/config"
)

// Extraction holds the fields recovered from one receipt.
// Fields the model could not read are nil.
type Extraction struct {
	ReceiptNumber      *string
	ReceiptTotal       *float64
	ReceiptDate        *time.Time
	ReceiptDescription *string
	CompanyName        *string
	CompanyAddress     *string
	CompanyPhone       *string
	TaxCategory        *string
	TaxSubCategory     *string
}

// Analyzer extracts structured receipt fields from file bytes.
// Implementations may take seconds per call and may fail transiently;
// callers own the retry-at-receipt-level policy.
type Analyzer interface {
	Analyze(ctx context.Context, contentType string, data []byte) (*Extraction, error)
}

// New selects and constructs the configured backend.
func New(cfg config.AnalyzerConfig, logger *slog.Logger) (Analyzer, error) {
	switch cfg.Backend {
	case config.AnalyzerBackendOpenAI:
		return NewOpenAI(cfg.OpenAI, logger), nil
	case config.AnalyzerBackendOllama:
		return NewOllama(cfg.Ollama, logger), nil
	default:
		return nil, fmt.Errorf("unknown analyzer backend %q", cfg.Backend)
	}
}
