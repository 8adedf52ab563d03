package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/egma/backend/internal/domain/crm"
	"github.com/egma/backend/internal/domain/shared"
)

// newMockInvoiceRepository creates a GormInvoiceRepository with a mocked SQL connection
func newMockInvoiceRepository(t *testing.T) (*GormInvoiceRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormInvoiceRepository(gormDB), mock, mockDB
}

func invoiceRows(id uuid.UUID) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "created_at", "updated_at", "invoice_number", "currency",
		"client_name", "client_email", "items", "payments",
		"subtotal", "tax_total", "total_amount", "amount_paid", "amount_due",
		"status", "issued_date", "due_date",
	}).AddRow(
		id, now, now, "EGMA-INV-0001", "INR",
		"Acme Pvt Ltd", "billing@acme.test", []byte(`[{"description":"Design","quantity":1,"unit_price":"500","tax_rate":"18"}]`), []byte(`[]`),
		decimal.NewFromInt(500), decimal.NewFromInt(90), decimal.NewFromInt(590), decimal.Zero, decimal.NewFromInt(590),
		"pending", now, now.AddDate(0, 0, 30),
	)
}

func TestGormInvoiceRepository_FindByID(t *testing.T) {
	t.Run("finds existing invoice", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(invoiceID, 1).
			WillReturnRows(invoiceRows(invoiceID))

		invoice, err := repo.FindByID(context.Background(), invoiceID)

		assert.NoError(t, err)
		require.NotNil(t, invoice)
		assert.Equal(t, invoiceID, invoice.ID)
		assert.Equal(t, "EGMA-INV-0001", invoice.InvoiceNumber)
		assert.Equal(t, crm.InvoiceStatusPending, invoice.Status)
		require.Len(t, invoice.Items, 1)
		assert.Equal(t, "Design", invoice.Items[0].Description)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent invoice", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(invoiceID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		invoice, err := repo.FindByID(context.Background(), invoiceID)

		assert.Error(t, err)
		assert.Nil(t, invoice)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_FindByProjectID(t *testing.T) {
	t.Run("finds invoice bound to project", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		projectID := uuid.New()
		invoiceID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE project_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(projectID, 1).
			WillReturnRows(invoiceRows(invoiceID))

		invoice, err := repo.FindByProjectID(context.Background(), projectID)

		assert.NoError(t, err)
		require.NotNil(t, invoice)
		assert.Equal(t, invoiceID, invoice.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when project has no invoice", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE project_id = \$1 ORDER BY .* LIMIT .*`).
			WillReturnError(gorm.ErrRecordNotFound)

		invoice, err := repo.FindByProjectID(context.Background(), uuid.New())

		assert.Nil(t, invoice)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_FindByStatus(t *testing.T) {
	t.Run("filters by status with pagination", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE status = \$1 ORDER BY created_at DESC LIMIT .*`).
			WithArgs(crm.InvoiceStatusPending, 20).
			WillReturnRows(invoiceRows(invoiceID))

		invoices, err := repo.FindByStatus(context.Background(), crm.InvoiceStatusPending, shared.DefaultFilter())

		assert.NoError(t, err)
		require.Len(t, invoices, 1)
		assert.Equal(t, invoiceID, invoices[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_Delete(t *testing.T) {
	t.Run("deletes existing invoice", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()

		mock.ExpectExec(`DELETE FROM "invoices" WHERE id = \$1`).
			WithArgs(invoiceID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), invoiceID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when nothing was deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()

		mock.ExpectExec(`DELETE FROM "invoices" WHERE id = \$1`).
			WithArgs(invoiceID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), invoiceID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_CountByStatus(t *testing.T) {
	t.Run("counts invoices in status", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "invoices" WHERE status = \$1`).
			WithArgs(crm.InvoiceStatusOverdue).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		count, err := repo.CountByStatus(context.Background(), crm.InvoiceStatusOverdue)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
