package crm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/egma/backend/internal/domain/crm"
	"github.com/egma/backend/internal/infrastructure/printing"
)

// Document is a generated file ready to be sent to the client
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

// DocumentService generates downloadable documents for CRM entities:
// invoice PDFs rendered through headless Chrome and proposal DOCX files.
type DocumentService struct {
	invoiceRepo  crm.InvoiceRepository
	proposalRepo crm.ProposalRepository
	builder      *printing.InvoiceDocumentBuilder
	renderer     printing.PDFRenderer
	docxWriter   *printing.ProposalDocxWriter
	logger       *zap.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	invoiceRepo crm.InvoiceRepository,
	proposalRepo crm.ProposalRepository,
	builder *printing.InvoiceDocumentBuilder,
	renderer printing.PDFRenderer,
	docxWriter *printing.ProposalDocxWriter,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		invoiceRepo:  invoiceRepo,
		proposalRepo: proposalRepo,
		builder:      builder,
		renderer:     renderer,
		docxWriter:   docxWriter,
		logger:       logger,
	}
}

// InvoicePDF renders the invoice as an A4 PDF
func (s *DocumentService) InvoicePDF(ctx context.Context, id uuid.UUID) (*Document, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req, err := s.builder.BuildRenderRequest(ctx, inv)
	if err != nil {
		return nil, err
	}

	result, err := s.renderer.Render(ctx, req)
	if err != nil {
		s.logger.Error("Invoice PDF rendering failed",
			zap.String("invoice_id", id.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Invoice PDF rendered",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.Int("page_count", result.PageCount),
		zap.Duration("duration", result.RenderDuration))

	return &Document{
		Filename:    fmt.Sprintf("%s.pdf", inv.InvoiceNumber),
		ContentType: "application/pdf",
		Data:        result.PDFData,
	}, nil
}

// ProposalDocx builds the proposal as a Word document
func (s *DocumentService) ProposalDocx(ctx context.Context, id uuid.UUID) (*Document, error) {
	p, err := s.proposalRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := s.docxWriter.Write(p)
	if err != nil {
		s.logger.Error("Proposal DOCX generation failed",
			zap.String("proposal_id", id.String()),
			zap.Error(err))
		return nil, err
	}

	return &Document{
		Filename:    fmt.Sprintf("%s.docx", documentSlug(p.Title)),
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Data:        data,
	}, nil
}

// documentSlug turns a title into a safe filename stem
func documentSlug(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "proposal"
	}
	return slug
}
