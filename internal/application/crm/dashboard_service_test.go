package crm

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/egma/backend/internal/domain/crm"
	"github.com/egma/backend/internal/domain/shared"
)

func TestDashboardService_StatsAndFinancialSummary(t *testing.T) {
	invoiceRepo := newFakeInvoiceRepo()
	projectRepo := newFakeProjectRepo()
	clock := shared.FixedClock{Time: testNow}
	logger := zap.NewNop()

	invoiceService := NewInvoiceService(invoiceRepo, projectRepo, crm.RandomInvoiceNumbers{}, clock, logger)
	dashboard := NewDashboardService(projectRepo, invoiceRepo, logger)

	seedProject(t, projectRepo)
	seedProject(t, projectRepo)

	// One invoice partially paid, one untouched, one overdue, one cancelled.
	mkInvoice := func(total int64, due bool) *InvoiceResponse {
		req := CreateInvoiceRequest{
			Client: ContactInfoRequest{Name: "Acme Studios", Email: "ceo@acme.example"},
			Items: []LineItemRequest{
				{Description: "Work", Quantity: 1, UnitPrice: decimal.NewFromInt(total)},
			},
			DueDate: testNow.AddDate(0, 1, 0),
		}
		if due {
			req.DueDate = testNow.AddDate(0, 0, -1)
		}
		resp, err := invoiceService.Create(context.Background(), req)
		require.NoError(t, err)
		return resp
	}

	partiallyPaid := mkInvoice(1000, false)
	_, err := invoiceService.AddPayment(context.Background(), partiallyPaid.ID, AddPaymentRequest{
		Amount: decimal.NewFromInt(400),
		Method: "cash",
	})
	require.NoError(t, err)

	mkInvoice(500, false)

	overdue := mkInvoice(300, true)
	_, err = invoiceService.AddPayment(context.Background(), overdue.ID, AddPaymentRequest{
		Amount: decimal.NewFromInt(100),
		Method: "cash",
	})
	require.NoError(t, err)

	cancelled := mkInvoice(900, false)
	stored, err := invoiceRepo.FindByID(context.Background(), cancelled.ID)
	require.NoError(t, err)
	require.NoError(t, stored.Cancel(testNow))
	require.NoError(t, invoiceRepo.Save(context.Background(), stored))

	stats, err := dashboard.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalProjects)
	assert.True(t, stats.TotalRevenue.Equal(decimal.NewFromInt(500)))

	summary, err := dashboard.FinancialSummary(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.TotalInvoiced.Equal(decimal.NewFromInt(1800)), "cancelled invoices stay out of the totals")
	assert.True(t, summary.TotalReceived.Equal(decimal.NewFromInt(500)))
	assert.True(t, summary.TotalOutstanding.Equal(decimal.NewFromInt(1300)))
	assert.Equal(t, int64(1), summary.OverdueInvoices)
}
