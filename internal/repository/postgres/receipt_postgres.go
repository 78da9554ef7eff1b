package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"receiptscan/internal/model"
	"receiptscan/internal/repository"
)

// ReceiptPostgres is a PostgreSQL implementation of repository.ReceiptRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type ReceiptPostgres struct {
	db *sql.DB
}

// NewReceiptPostgres creates a new ReceiptPostgres repository.
func NewReceiptPostgres(db *sql.DB) *ReceiptPostgres {
	return &ReceiptPostgres{db: db}
}

var _ repository.ReceiptRepository = (*ReceiptPostgres)(nil)

const receiptColumns = `
	id, file_name, content_type, storage_path, size,
	receipt_number, receipt_total, receipt_date, receipt_description,
	company_name, company_address, company_phone,
	tax_category, tax_sub_category,
	state, error, created_at, updated_at
`

// ExistsByName reports whether a row with the given original file name exists.
func (r *ReceiptPostgres) ExistsByName(ctx context.Context, fileName string) (bool, error) {
	const q = `SELECT COUNT(*) FROM receipts WHERE file_name = $1`
	var n int
	if err := r.db.QueryRowContext(ctx, q, fileName).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// FindAll returns every receipt, newest first.
func (r *ReceiptPostgres) FindAll(ctx context.Context) ([]model.Receipt, error) {
	q := `SELECT ` + receiptColumns + ` FROM receipts ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Receipt, 0)
	for rows.Next() {
		rec, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID fetches a single receipt by its ID.
func (r *ReceiptPostgres) FindByID(ctx context.Context, id string) (*model.Receipt, error) {
	q := `SELECT ` + receiptColumns + ` FROM receipts WHERE id = $1`
	rec, err := scanReceipt(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// FindOneByStateAndUpdatedBefore returns the oldest-created receipt in the
// given state updated at or before the threshold.
func (r *ReceiptPostgres) FindOneByStateAndUpdatedBefore(ctx context.Context, state model.State, updatedBefore time.Time) (*model.Receipt, error) {
	q := `SELECT ` + receiptColumns + `
		FROM receipts
		WHERE state = $1 AND updated_at <= $2
		ORDER BY created_at ASC, id ASC
		LIMIT 1`
	rec, err := scanReceipt(r.db.QueryRowContext(ctx, q, string(state), updatedBefore))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// FindByStateLimited returns up to limit receipts in the given state,
// oldest created first with id as a stable tie-break.
func (r *ReceiptPostgres) FindByStateLimited(ctx context.Context, state model.State, limit int) ([]model.Receipt, error) {
	q := `SELECT ` + receiptColumns + `
		FROM receipts
		WHERE state = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, q, string(state), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Receipt, 0, limit)
	for rows.Next() {
		rec, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Insert stores a new receipt row.
func (r *ReceiptPostgres) Insert(ctx context.Context, rec *model.Receipt) error {
	const q = `
		INSERT INTO receipts (
			id, file_name, content_type, storage_path, size,
			receipt_number, receipt_total, receipt_date, receipt_description,
			company_name, company_address, company_phone,
			tax_category, tax_sub_category,
			state, error, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err := r.db.ExecContext(ctx, q, updateArgs(rec)...)
	return err
}

// Update overwrites all mutable columns of an existing row.
func (r *ReceiptPostgres) Update(ctx context.Context, rec *model.Receipt) error {
	_, err := r.db.ExecContext(ctx, updateQuery, updateArgs(rec)...)
	return err
}

// UpdateBatch overwrites each row inside a single transaction so a batch
// claim or finalize is persisted atomically.
func (r *ReceiptPostgres) UpdateBatch(ctx context.Context, receipts []*model.Receipt) error {
	if len(receipts) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, rec := range receipts {
		if _, err := tx.ExecContext(ctx, updateQuery, updateArgs(rec)...); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return fmt.Errorf("update batch: %v; rollback failed: %v", err, rbErr)
			}
			return err
		}
	}
	return tx.Commit()
}

// Delete removes a receipt by ID. It does not return an error if the row does not exist.
func (r *ReceiptPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM receipts WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

const updateQuery = `
	UPDATE receipts
	SET
		file_name = $2,
		content_type = $3,
		storage_path = $4,
		size = $5,
		receipt_number = $6,
		receipt_total = $7,
		receipt_date = $8,
		receipt_description = $9,
		company_name = $10,
		company_address = $11,
		company_phone = $12,
		tax_category = $13,
		tax_sub_category = $14,
		state = $15,
		error = $16,
		created_at = $17,
		updated_at = $18
	WHERE id = $1
`

func updateArgs(rec *model.Receipt) []any {
	return []any{
		rec.ID,
		rec.FileName,
		rec.ContentType,
		rec.StoragePath,
		rec.Size,
		rec.ReceiptNumber,
		rec.ReceiptTotal,
		rec.ReceiptDate,
		rec.ReceiptDescription,
		rec.CompanyName,
		rec.CompanyAddress,
		rec.CompanyPhone,
		rec.TaxCategory,
		rec.TaxSubCategory,
		string(rec.State),
		rec.Error,
		rec.CreatedAt,
		rec.UpdatedAt,
	}
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanReceipt(s scanner) (*model.Receipt, error) {
	var (
		rec   model.Receipt
		state string
	)
	if err := s.Scan(
		&rec.ID,
		&rec.FileName,
		&rec.ContentType,
		&rec.StoragePath,
		&rec.Size,
		&rec.ReceiptNumber,
		&rec.ReceiptTotal,
		&rec.ReceiptDate,
		&rec.ReceiptDescription,
		&rec.CompanyName,
		&rec.CompanyAddress,
		&rec.CompanyPhone,
		&rec.TaxCategory,
		&rec.TaxSubCategory,
		&state,
		&rec.Error,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	rec.State = model.State(state)
	return &rec, nil
}
