// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.
package repository

import (
	"context"
	"time"

	"receiptscan/internal/model"
)

// ReceiptRepository defines data access for receipts using SQL queries only.
// No business logic here — strictly persistence operations.
//
// Every write is expected to persist UpdatedAt exactly as set by the caller;
// the claim/recovery logic in the service layer depends on it.
type ReceiptRepository interface {
	// ExistsByName reports whether a receipt with the given original file name exists.
	ExistsByName(ctx context.Context, fileName string) (bool, error)

	// FindAll returns every receipt ordered newest-created-first.
	FindAll(ctx context.Context) ([]model.Receipt, error)

	// FindByID returns a receipt by its ID, or (nil, nil) when absent.
	FindByID(ctx context.Context, id string) (*model.Receipt, error)

	// FindOneByStateAndUpdatedBefore returns the oldest-created receipt in the
	// given state whose UpdatedAt is at or before the threshold, or (nil, nil)
	// when none qualifies.
	FindOneByStateAndUpdatedBefore(ctx context.Context, state model.State, updatedBefore time.Time) (*model.Receipt, error)

	// FindByStateLimited returns up to limit receipts in the given state,
	// ordered created_at ASC with id ASC as the deterministic tie-break.
	FindByStateLimited(ctx context.Context, state model.State, limit int) ([]model.Receipt, error)

	// Insert stores a new receipt row.
	Insert(ctx context.Context, r *model.Receipt) error

	// Update overwrites all mutable columns of an existing row.
	Update(ctx context.Context, r *model.Receipt) error

	// UpdateBatch overwrites all mutable columns of each row in one transaction.
	UpdateBatch(ctx context.Context, receipts []*model.Receipt) error

	// Delete removes a receipt by ID. It returns nil if the row did not exist.
	Delete(ctx context.Context, id string) error
}
