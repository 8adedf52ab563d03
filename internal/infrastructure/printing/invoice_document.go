package printing

import (
	"context"
	"embed"

	"github.com/egma/backend/internal/domain/crm"
)

//go:embed templates/*.html
var templateFS embed.FS

const invoiceTemplatePath = "templates/invoice_a4.html"

// InvoiceDocumentBuilder turns an invoice aggregate into a render request
// for the PDF pipeline.
type InvoiceDocumentBuilder struct {
	engine *TemplateEngine
}

// NewInvoiceDocumentBuilder creates a builder backed by the given template engine
func NewInvoiceDocumentBuilder(engine *TemplateEngine) *InvoiceDocumentBuilder {
	if engine == nil {
		engine = NewTemplateEngine()
	}
	return &InvoiceDocumentBuilder{engine: engine}
}

// invoiceTemplateData is the data bound to the invoice template
type invoiceTemplateData struct {
	Invoice        *crm.Invoice
	CurrencySymbol string
}

// BuildRenderRequest renders the invoice template and wraps it in an
// A4 portrait render request
func (b *InvoiceDocumentBuilder) BuildRenderRequest(ctx context.Context, inv *crm.Invoice) (*RenderRequest, error) {
	if inv == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "invoice is nil", nil)
	}

	content, err := templateFS.ReadFile(invoiceTemplatePath)
	if err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to load invoice template", err)
	}

	data := &invoiceTemplateData{
		Invoice:        inv,
		CurrencySymbol: inv.CurrencySymbol(),
	}

	html, err := b.engine.RenderString(ctx, "invoice_a4", string(content), data)
	if err != nil {
		return nil, err
	}

	return &RenderRequest{
		HTML:        html,
		PaperSize:   PaperSizeA4,
		Orientation: OrientationPortrait,
		Margins:     DefaultMargins(),
		Title:       "Invoice " + inv.InvoiceNumber,
	}, nil
}
