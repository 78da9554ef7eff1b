package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"receiptscan/internal/model"
)

var receiptTestColumns = []string{
	"id", "file_name", "content_type", "storage_path", "size",
	"receipt_number", "receipt_total", "receipt_date", "receipt_description",
	"company_name", "company_address", "company_phone",
	"tax_category", "tax_sub_category",
	"state", "error", "created_at", "updated_at",
}

func receiptRow(rec *model.Receipt) *sqlmock.Rows {
	return sqlmock.NewRows(receiptTestColumns).AddRow(
		rec.ID, rec.FileName, rec.ContentType, rec.StoragePath, rec.Size,
		rec.ReceiptNumber, rec.ReceiptTotal, rec.ReceiptDate, rec.ReceiptDescription,
		rec.CompanyName, rec.CompanyAddress, rec.CompanyPhone,
		rec.TaxCategory, rec.TaxSubCategory,
		string(rec.State), rec.Error, rec.CreatedAt, rec.UpdatedAt,
	)
}

func testReceipt(id string, state model.State) *model.Receipt {
	now := time.Now().UTC().Truncate(time.Second)
	return &model.Receipt{
		ID:          id,
		FileName:    id + ".jpg",
		ContentType: "image/jpeg",
		StoragePath: "receipts/" + id + ".jpg",
		Size:        123,
		State:       state,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func newMockRepo(t *testing.T) (*ReceiptPostgres, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	return NewReceiptPostgres(db), mock, func() { db.Close() }
}

func TestReceiptPostgres_ExistsByName(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()
	ctx := context.Background()

	t.Run("exists", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT").
			WithArgs("receipt.jpg").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByName(ctx, "receipt.jpg")
		assert.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("does not exist", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT").
			WithArgs("other.jpg").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsByName(ctx, "other.jpg")
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReceiptPostgres_FindByID(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rec := testReceipt("rec-1", model.StateAnalysisComplete)
		mock.ExpectQuery("SELECT (.+) FROM receipts WHERE id = ?").
			WithArgs("rec-1").
			WillReturnRows(receiptRow(rec))

		got, err := repo.FindByID(ctx, "rec-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "rec-1", got.ID)
		assert.Equal(t, model.StateAnalysisComplete, got.State)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM receipts WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		got, err := repo.FindByID(ctx, "missing")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReceiptPostgres_FindOneByStateAndUpdatedBefore(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()
	ctx := context.Background()
	threshold := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		rec := testReceipt("stale-1", model.StateAnalysisActive)
		mock.ExpectQuery("SELECT (.+) FROM receipts\\s+WHERE state = (.+) AND updated_at <= (.+) ORDER BY created_at ASC").
			WithArgs(string(model.StateAnalysisActive), threshold).
			WillReturnRows(receiptRow(rec))

		got, err := repo.FindOneByStateAndUpdatedBefore(ctx, model.StateAnalysisActive, threshold)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "stale-1", got.ID)
	})

	t.Run("none stale", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM receipts").
			WithArgs(string(model.StateAnalysisActive), threshold).
			WillReturnError(sql.ErrNoRows)

		got, err := repo.FindOneByStateAndUpdatedBefore(ctx, model.StateAnalysisActive, threshold)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReceiptPostgres_FindByStateLimited(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()
	ctx := context.Background()

	rec1 := testReceipt("rec-1", model.StateUploadComplete)
	rec2 := testReceipt("rec-2", model.StateUploadComplete)
	rows := receiptRow(rec1).AddRow(
		rec2.ID, rec2.FileName, rec2.ContentType, rec2.StoragePath, rec2.Size,
		rec2.ReceiptNumber, rec2.ReceiptTotal, rec2.ReceiptDate, rec2.ReceiptDescription,
		rec2.CompanyName, rec2.CompanyAddress, rec2.CompanyPhone,
		rec2.TaxCategory, rec2.TaxSubCategory,
		string(rec2.State), rec2.Error, rec2.CreatedAt, rec2.UpdatedAt,
	)

	mock.ExpectQuery("SELECT (.+) FROM receipts\\s+WHERE state = (.+) ORDER BY created_at ASC, id ASC\\s+LIMIT").
		WithArgs(string(model.StateUploadComplete), 5).
		WillReturnRows(rows)

	got, err := repo.FindByStateLimited(ctx, model.StateUploadComplete, 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "rec-1", got[0].ID)
	assert.Equal(t, "rec-2", got[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReceiptPostgres_Insert(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()
	ctx := context.Background()

	rec := testReceipt("rec-1", model.StateUploadComplete)

	mock.ExpectExec("INSERT INTO receipts").
		WithArgs(
			rec.ID, rec.FileName, rec.ContentType, rec.StoragePath, rec.Size,
			nil, nil, nil, nil, nil, nil, nil, nil, nil,
			string(rec.State), nil, rec.CreatedAt, rec.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Insert(ctx, rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReceiptPostgres_Update(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()
	ctx := context.Background()

	rec := testReceipt("rec-1", model.StateAnalysisComplete)
	total := 42.90
	rec.ReceiptTotal = &total

	mock.ExpectExec("UPDATE receipts").
		WithArgs(
			rec.ID, rec.FileName, rec.ContentType, rec.StoragePath, rec.Size,
			nil, &total, nil, nil, nil, nil, nil, nil, nil,
			string(rec.State), nil, rec.CreatedAt, rec.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Update(ctx, rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReceiptPostgres_UpdateBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("commits all updates in one transaction", func(t *testing.T) {
		repo, mock, closeDB := newMockRepo(t)
		defer closeDB()

		rec1 := testReceipt("rec-1", model.StateAnalysisActive)
		rec2 := testReceipt("rec-2", model.StateAnalysisActive)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE receipts").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE receipts").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.UpdateBatch(ctx, []*model.Receipt{rec1, rec2})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		repo, mock, closeDB := newMockRepo(t)
		defer closeDB()

		rec1 := testReceipt("rec-1", model.StateAnalysisActive)
		rec2 := testReceipt("rec-2", model.StateAnalysisActive)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE receipts").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE receipts").WillReturnError(errors.New("constraint violation"))
		mock.ExpectRollback()

		err := repo.UpdateBatch(ctx, []*model.Receipt{rec1, rec2})
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		repo, mock, closeDB := newMockRepo(t)
		defer closeDB()

		assert.NoError(t, repo.UpdateBatch(ctx, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReceiptPostgres_Delete(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()
	ctx := context.Background()

	t.Run("deletes existing row", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM receipts WHERE id = ?").
			WithArgs("rec-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, "rec-1"))
	})

	t.Run("missing row is not an error", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM receipts WHERE id = ?").
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, repo.Delete(ctx, "missing"))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
