package printing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egma/backend/internal/domain/crm"
	"github.com/egma/backend/internal/domain/shared/valueobject"
)

func newTestInvoice(t *testing.T) *crm.Invoice {
	t.Helper()

	items := crm.LineItems{
		{Description: "Brand identity design", Quantity: 1, UnitPrice: decimal.NewFromInt(50000), TaxRate: decimal.NewFromInt(18)},
		{Description: "Landing page build", Quantity: 2, UnitPrice: decimal.NewFromInt(15000), TaxRate: decimal.NewFromInt(18)},
	}

	issued := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	due := issued.AddDate(0, 0, 30)

	inv, err := crm.NewInvoice(
		crm.ContactInfo{Name: "Acme Studios", Email: "billing@acme.example", Address: "12 MG Road, Bengaluru"},
		valueobject.INR,
		issued, due, items, decimal.Zero,
	)
	require.NoError(t, err)

	inv.InvoiceNumber = "EGMA-INV-0042"
	inv.Recalculate(issued)
	return inv
}

func TestInvoiceDocumentBuilder_BuildRenderRequest(t *testing.T) {
	builder := NewInvoiceDocumentBuilder(NewTemplateEngine())

	inv := newTestInvoice(t)
	req, err := builder.BuildRenderRequest(context.Background(), inv)
	require.NoError(t, err)

	assert.Equal(t, PaperSizeA4, req.PaperSize)
	assert.Equal(t, OrientationPortrait, req.Orientation)
	assert.Equal(t, "Invoice EGMA-INV-0042", req.Title)

	assert.Contains(t, req.HTML, "EGMA-INV-0042")
	assert.Contains(t, req.HTML, "Acme Studios")
	assert.Contains(t, req.HTML, "Brand identity design")
	// 50000 + 30000 subtotal, 18% tax
	assert.Contains(t, req.HTML, "₹80,000.00")
	assert.Contains(t, req.HTML, "₹14,400.00")
	assert.Contains(t, req.HTML, "₹94,400.00")
	assert.Contains(t, req.HTML, "01 May 2025")
	assert.Contains(t, req.HTML, "31 May 2025")
}

func TestInvoiceDocumentBuilder_PaymentsSection(t *testing.T) {
	builder := NewInvoiceDocumentBuilder(nil)

	inv := newTestInvoice(t)
	payment, err := crm.NewUPIPayment(decimal.NewFromInt(40000), time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC), "TXN-88", "acme@upi")
	require.NoError(t, err)
	require.NoError(t, inv.AddPayment(payment))
	inv.Recalculate(time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC))

	req, err := builder.BuildRenderRequest(context.Background(), inv)
	require.NoError(t, err)

	assert.Contains(t, req.HTML, "Payments Received")
	assert.Contains(t, req.HTML, "₹40,000.00")
	assert.Contains(t, req.HTML, "Balance Due")
	assert.Contains(t, req.HTML, "₹54,400.00")
	assert.Contains(t, req.HTML, "Partially Paid")
}

func TestInvoiceDocumentBuilder_EscapesClientInput(t *testing.T) {
	builder := NewInvoiceDocumentBuilder(nil)

	inv := newTestInvoice(t)
	inv.Notes = "<script>alert('x')</script>"

	req, err := builder.BuildRenderRequest(context.Background(), inv)
	require.NoError(t, err)

	assert.NotContains(t, req.HTML, "<script>alert")
	assert.Contains(t, req.HTML, "&lt;script&gt;")
}

func TestInvoiceDocumentBuilder_NilInvoice(t *testing.T) {
	builder := NewInvoiceDocumentBuilder(nil)

	_, err := builder.BuildRenderRequest(context.Background(), nil)
	require.Error(t, err)

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)
}
