package crm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/egma/backend/internal/domain/crm"
	"github.com/egma/backend/internal/domain/shared"
	"github.com/egma/backend/internal/domain/shared/valueobject"
)

// generatedInvoiceDueDays is the payment window applied to invoices
// generated from a project.
const generatedInvoiceDueDays = 30

// InvoiceService handles invoice business operations, including the
// cross-entity writes that keep the owning project's denormalized fields in
// step. Those secondary writes are best effort: a failure is logged and
// swallowed so the primary operation still succeeds.
type InvoiceService struct {
	invoiceRepo crm.InvoiceRepository
	projectRepo crm.ProjectRepository
	numbers     crm.InvoiceNumberGenerator
	clock       shared.Clock
	logger      *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo crm.InvoiceRepository,
	projectRepo crm.ProjectRepository,
	numbers crm.InvoiceNumberGenerator,
	clock shared.Clock,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		projectRepo: projectRepo,
		numbers:     numbers,
		clock:       clock,
		logger:      logger,
	}
}

// Create creates a new invoice. When a project is referenced, the project's
// invoice pointer is updated as a best-effort secondary write.
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	now := s.clock.Now()

	issuedDate := now
	if req.IssuedDate != nil {
		issuedDate = *req.IssuedDate
	}

	inv, err := crm.NewInvoice(
		req.Client.toDomain(),
		valueobject.Currency(req.Currency),
		issuedDate,
		req.DueDate,
		toLineItems(req.Items),
		req.Discount,
	)
	if err != nil {
		return nil, err
	}

	if req.Agency != nil {
		inv.Agency = req.Agency.toDomain()
	}
	inv.ProjectID = req.ProjectID
	inv.Notes = req.Notes
	inv.Terms = req.Terms

	inv.EnsureNumber(s.numbers)
	inv.Recalculate(now)

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	if inv.ProjectID != nil {
		s.attachInvoiceToProject(ctx, *inv.ProjectID, inv.ID, now)
	}

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// GenerateFromProject creates an invoice for the project's total budget with
// a single line item. A project can hold at most one invoice.
func (s *InvoiceService) GenerateFromProject(ctx context.Context, projectID uuid.UUID) (*InvoiceResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.InvoiceID != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Project already has an invoice")
	}

	now := s.clock.Now()
	items := crm.LineItems{
		{
			Description: "Payment for project: " + project.Name,
			Quantity:    1,
			UnitPrice:   project.TotalBudget,
			TaxRate:     decimal.Zero,
		},
	}

	inv, err := crm.NewInvoice(
		project.Client,
		valueobject.DefaultCurrency,
		now,
		now.AddDate(0, 0, generatedInvoiceDueDays),
		items,
		decimal.Zero,
	)
	if err != nil {
		return nil, err
	}
	inv.ProjectID = &project.ID

	inv.EnsureNumber(s.numbers)
	inv.Recalculate(now)

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.attachInvoiceToProject(ctx, project.ID, inv.ID, now)

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// List retrieves invoices matching the filter
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) (*shared.Paginated[InvoiceResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	f.Search = filter.Search
	if filter.ProjectID != "" {
		projectID, err := uuid.Parse(filter.ProjectID)
		if err != nil {
			return nil, shared.NewValidationError("project_id is not a valid UUID")
		}
		f.Filters["project_id"] = projectID
	}

	var (
		invoices []crm.Invoice
		total    int64
		err      error
	)
	if filter.Status != "" {
		status := crm.InvoiceStatus(filter.Status)
		if !status.IsValid() {
			return nil, shared.NewValidationError("invoice status is not valid: " + filter.Status)
		}
		invoices, err = s.invoiceRepo.FindByStatus(ctx, status, f)
		if err != nil {
			return nil, err
		}
		total, err = s.invoiceRepo.CountByStatus(ctx, status)
	} else {
		invoices, err = s.invoiceRepo.FindAll(ctx, f)
		if err != nil {
			return nil, err
		}
		total, err = s.invoiceRepo.Count(ctx, f)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		responses = append(responses, ToInvoiceResponse(&invoices[i]))
	}

	result := shared.NewPaginated(responses, total, f.Page, f.PageSize)
	return &result, nil
}

// Update applies the given changes and recomputes all derived amounts. The
// caller can never set amounts directly; they are always re-derived.
func (s *InvoiceService) Update(ctx context.Context, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()

	if req.Client != nil {
		inv.Client = req.Client.toDomain()
	}
	if req.Agency != nil {
		inv.Agency = req.Agency.toDomain()
	}
	if req.Items != nil {
		inv.Items = toLineItems(*req.Items)
	}
	if req.Discount != nil {
		inv.Discount = *req.Discount
	}
	if req.IssuedDate != nil {
		inv.IssuedDate = *req.IssuedDate
	}
	if req.DueDate != nil {
		inv.DueDate = *req.DueDate
	}
	if req.Notes != nil {
		inv.Notes = *req.Notes
	}
	if req.Terms != nil {
		inv.Terms = *req.Terms
	}
	if req.Status != nil {
		inv.Status = crm.InvoiceStatus(*req.Status)
	}

	if err := inv.Validate(); err != nil {
		return nil, err
	}

	inv.Recalculate(now)
	inv.Touch(now)

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// Delete removes an invoice. The owning project's invoice pointer is cleared
// first as a best-effort secondary write, so a failed clear leaves an
// orphaned invoice rather than a project pointing at a deleted record.
func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if inv.ProjectID != nil {
		s.detachInvoiceFromProject(ctx, *inv.ProjectID, id)
	}

	return s.invoiceRepo.Delete(ctx, id)
}

// AddPayment appends a payment to the invoice ledger, recomputes the
// financial state and mirrors the amount paid onto the owning project.
func (s *InvoiceService) AddPayment(ctx context.Context, id uuid.UUID, req AddPaymentRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	date := now
	if req.Date != nil {
		date = *req.Date
	}

	record, err := s.buildPaymentRecord(req, date)
	if err != nil {
		return nil, err
	}

	if err := inv.AddPayment(record); err != nil {
		return nil, err
	}

	inv.Recalculate(now)
	inv.Touch(now)

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	if inv.ProjectID != nil {
		s.syncAmountReceived(ctx, *inv.ProjectID, inv.AmountPaid, now)
	}

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// PaymentStatus returns the payment ledger and financial summary of an invoice
func (s *InvoiceService) PaymentStatus(ctx context.Context, id uuid.UUID) (*PaymentStatusResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &PaymentStatusResponse{
		InvoiceNumber: inv.InvoiceNumber,
		Status:        inv.Status.String(),
		TotalAmount:   inv.TotalAmount,
		AmountPaid:    inv.AmountPaid,
		AmountDue:     inv.AmountDue,
		DueDate:       inv.DueDate,
		Payments:      toPaymentResponses(inv.Payments),
	}, nil
}

// buildPaymentRecord maps the request onto the method-specific constructor so
// each payment method demands exactly the fields it needs.
func (s *InvoiceService) buildPaymentRecord(req AddPaymentRequest, date time.Time) (crm.PaymentRecord, error) {
	var (
		record crm.PaymentRecord
		err    error
	)
	method := crm.PaymentMethod(req.Method)
	switch method {
	case crm.PaymentMethodBankTransfer:
		record, err = crm.NewBankTransferPayment(req.Amount, date, req.TransactionID, req.AccountNumber)
	case crm.PaymentMethodCreditCard:
		record, err = crm.NewCreditCardPayment(req.Amount, date, req.TransactionID, req.CardLast4Digits)
	case crm.PaymentMethodCash:
		record, err = crm.NewCashPayment(req.Amount, date)
	case crm.PaymentMethodCrypto:
		record, err = crm.NewCryptoPayment(req.Amount, date, req.TransactionID, req.CryptoWalletAddress)
	case crm.PaymentMethodCheque:
		record, err = crm.NewChequePayment(req.Amount, date, req.TransactionID, req.ChequeNumber)
	case crm.PaymentMethodUPI:
		record, err = crm.NewUPIPayment(req.Amount, date, req.TransactionID, req.UPIID)
	default:
		record, err = crm.NewGenericPayment(method, req.Amount, date, req.TransactionID)
	}
	if err != nil {
		return crm.PaymentRecord{}, err
	}
	record.Notes = req.Notes
	return record, nil
}

// attachInvoiceToProject is a best-effort secondary write
func (s *InvoiceService) attachInvoiceToProject(ctx context.Context, projectID, invoiceID uuid.UUID, now time.Time) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		s.logger.Warn("failed to load project while attaching invoice",
			zap.String("project_id", projectID.String()),
			zap.String("invoice_id", invoiceID.String()),
			zap.Error(err))
		return
	}
	project.AttachInvoice(invoiceID, now)
	if err := s.projectRepo.Save(ctx, project); err != nil {
		s.logger.Warn("failed to attach invoice to project",
			zap.String("project_id", projectID.String()),
			zap.String("invoice_id", invoiceID.String()),
			zap.Error(err))
	}
}

// detachInvoiceFromProject is a best-effort secondary write
func (s *InvoiceService) detachInvoiceFromProject(ctx context.Context, projectID, invoiceID uuid.UUID) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		s.logger.Warn("failed to load project while detaching invoice",
			zap.String("project_id", projectID.String()),
			zap.String("invoice_id", invoiceID.String()),
			zap.Error(err))
		return
	}
	if project.InvoiceID == nil || *project.InvoiceID != invoiceID {
		return
	}
	project.DetachInvoice(s.clock.Now())
	if err := s.projectRepo.Save(ctx, project); err != nil {
		s.logger.Warn("failed to detach invoice from project",
			zap.String("project_id", projectID.String()),
			zap.String("invoice_id", invoiceID.String()),
			zap.Error(err))
	}
}

// syncAmountReceived is a best-effort secondary write
func (s *InvoiceService) syncAmountReceived(ctx context.Context, projectID uuid.UUID, amountPaid decimal.Decimal, now time.Time) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		s.logger.Warn("failed to load project while syncing amount received",
			zap.String("project_id", projectID.String()),
			zap.Error(err))
		return
	}
	project.SetAmountReceived(amountPaid, now)
	if err := s.projectRepo.Save(ctx, project); err != nil {
		s.logger.Warn("failed to sync amount received to project",
			zap.String("project_id", projectID.String()),
			zap.Error(err))
	}
}
