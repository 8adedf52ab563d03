package crm

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/egma/backend/internal/domain/crm"
)

// =============================================================================
// Shared DTOs
// =============================================================================

// ContactInfoRequest carries the billing party details of a request
type ContactInfoRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Email   string `json:"email" binding:"required,email,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Address string `json:"address" binding:"max=500"`
}

func (r ContactInfoRequest) toDomain() crm.ContactInfo {
	return crm.ContactInfo{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
	}
}

// ContactInfoResponse represents a billing party in API responses
type ContactInfoResponse struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

func toContactResponse(c crm.ContactInfo) ContactInfoResponse {
	return ContactInfoResponse(c)
}

// =============================================================================
// Invoice DTOs
// =============================================================================

// LineItemRequest represents one billable entry in a request
type LineItemRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Quantity    int64           `json:"quantity" binding:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

func toLineItems(items []LineItemRequest) crm.LineItems {
	out := make(crm.LineItems, 0, len(items))
	for _, it := range items {
		out = append(out, crm.LineItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
		})
	}
	return out
}

// CreateInvoiceRequest represents a request to create a new invoice
type CreateInvoiceRequest struct {
	ProjectID  *uuid.UUID          `json:"project_id"`
	Currency   string              `json:"currency" binding:"omitempty,len=3"`
	Client     ContactInfoRequest  `json:"client" binding:"required"`
	Agency     *ContactInfoRequest `json:"agency"`
	Items      []LineItemRequest   `json:"items" binding:"dive"`
	Discount   decimal.Decimal     `json:"discount"`
	IssuedDate *time.Time          `json:"issued_date"`
	DueDate    time.Time           `json:"due_date" binding:"required"`
	Notes      string              `json:"notes" binding:"max=2000"`
	Terms      string              `json:"terms" binding:"max=2000"`
}

// UpdateInvoiceRequest represents a request to update an invoice.
// Nil fields are left untouched; derived amounts are always recomputed.
type UpdateInvoiceRequest struct {
	Client     *ContactInfoRequest `json:"client"`
	Agency     *ContactInfoRequest `json:"agency"`
	Items      *[]LineItemRequest  `json:"items" binding:"omitempty,dive"`
	Discount   *decimal.Decimal    `json:"discount"`
	IssuedDate *time.Time          `json:"issued_date"`
	DueDate    *time.Time          `json:"due_date"`
	Status     *string             `json:"status" binding:"omitempty,oneof=draft pending paid partially_paid overdue cancelled"`
	Notes      *string             `json:"notes" binding:"omitempty,max=2000"`
	Terms      *string             `json:"terms" binding:"omitempty,max=2000"`
}

// AddPaymentRequest represents a request to append a payment to an invoice
type AddPaymentRequest struct {
	Amount              decimal.Decimal `json:"amount" binding:"required"`
	Date                *time.Time      `json:"date"`
	Method              string          `json:"method" binding:"required,oneof=bank-transfer credit-card paypal cash crypto cheque upi other"`
	TransactionID       string          `json:"transaction_id" binding:"max=100"`
	AccountNumber       string          `json:"account_number" binding:"max=50"`
	CardLast4Digits     string          `json:"card_last4_digits" binding:"omitempty,len=4"`
	CryptoWalletAddress string          `json:"crypto_wallet_address" binding:"max=200"`
	ChequeNumber        string          `json:"cheque_number" binding:"max=50"`
	UPIID               string          `json:"upi_id" binding:"max=100"`
	Notes               string          `json:"notes" binding:"max=500"`
}

// InvoiceListFilter represents query filters for listing invoices
type InvoiceListFilter struct {
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	Status    string `form:"status"`
	ProjectID string `form:"project_id"`
	Search    string `form:"search"`
	OrderBy   string `form:"order_by"`
	OrderDir  string `form:"order_dir"`
}

// PaymentRecordResponse represents a ledger entry in API responses
type PaymentRecordResponse struct {
	ID                  uuid.UUID       `json:"id"`
	Amount              decimal.Decimal `json:"amount"`
	Date                time.Time       `json:"date"`
	Method              string          `json:"method"`
	TransactionID       string          `json:"transaction_id,omitempty"`
	AccountNumber       string          `json:"account_number,omitempty"`
	CardLast4Digits     string          `json:"card_last4_digits,omitempty"`
	CryptoWalletAddress string          `json:"crypto_wallet_address,omitempty"`
	ChequeNumber        string          `json:"cheque_number,omitempty"`
	UPIID               string          `json:"upi_id,omitempty"`
	Notes               string          `json:"notes,omitempty"`
}

func toPaymentResponses(records crm.PaymentRecords) []PaymentRecordResponse {
	out := make([]PaymentRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, PaymentRecordResponse{
			ID:                  r.ID,
			Amount:              r.Amount,
			Date:                r.Date,
			Method:              r.Method.String(),
			TransactionID:       r.TransactionID,
			AccountNumber:       r.AccountNumber,
			CardLast4Digits:     r.CardLast4Digits,
			CryptoWalletAddress: r.CryptoWalletAddress,
			ChequeNumber:        r.ChequeNumber,
			UPIID:               r.UPIID,
			Notes:               r.Notes,
		})
	}
	return out
}

// LineItemResponse represents a line item with its derived figures
type LineItemResponse struct {
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	LineTotal   decimal.Decimal `json:"line_total"`
	LineTax     decimal.Decimal `json:"line_tax"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID             uuid.UUID               `json:"id"`
	InvoiceNumber  string                  `json:"invoice_number"`
	ProjectID      *uuid.UUID              `json:"project_id,omitempty"`
	Currency       string                  `json:"currency"`
	CurrencySymbol string                  `json:"currency_symbol"`
	Agency         ContactInfoResponse     `json:"agency"`
	Client         ContactInfoResponse     `json:"client"`
	Items          []LineItemResponse      `json:"items"`
	Payments       []PaymentRecordResponse `json:"payments"`
	Subtotal       decimal.Decimal         `json:"subtotal"`
	TaxTotal       decimal.Decimal         `json:"tax_total"`
	Discount       decimal.Decimal         `json:"discount"`
	TotalAmount    decimal.Decimal         `json:"total_amount"`
	AmountPaid     decimal.Decimal         `json:"amount_paid"`
	AmountDue      decimal.Decimal         `json:"amount_due"`
	Status         string                  `json:"status"`
	IssuedDate     time.Time               `json:"issued_date"`
	DueDate        time.Time               `json:"due_date"`
	Notes          string                  `json:"notes,omitempty"`
	Terms          string                  `json:"terms,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// ToInvoiceResponse maps an invoice aggregate to its API representation
func ToInvoiceResponse(inv *crm.Invoice) InvoiceResponse {
	items := make([]LineItemResponse, 0, len(inv.Items))
	for _, li := range inv.Items {
		items = append(items, LineItemResponse{
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			TaxRate:     li.TaxRate,
			LineTotal:   li.Total(),
			LineTax:     li.Tax(),
		})
	}

	return InvoiceResponse{
		ID:             inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		ProjectID:      inv.ProjectID,
		Currency:       string(inv.Currency),
		CurrencySymbol: inv.CurrencySymbol(),
		Agency:         toContactResponse(inv.Agency),
		Client:         toContactResponse(inv.Client),
		Items:          items,
		Payments:       toPaymentResponses(inv.Payments),
		Subtotal:       inv.Subtotal,
		TaxTotal:       inv.TaxTotal,
		Discount:       inv.Discount,
		TotalAmount:    inv.TotalAmount,
		AmountPaid:     inv.AmountPaid,
		AmountDue:      inv.AmountDue,
		Status:         inv.Status.String(),
		IssuedDate:     inv.IssuedDate,
		DueDate:        inv.DueDate,
		Notes:          inv.Notes,
		Terms:          inv.Terms,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
}

// PaymentStatusResponse summarizes the financial state of an invoice
type PaymentStatusResponse struct {
	InvoiceNumber string                  `json:"invoice_number"`
	Status        string                  `json:"status"`
	TotalAmount   decimal.Decimal         `json:"total_amount"`
	AmountPaid    decimal.Decimal         `json:"amount_paid"`
	AmountDue     decimal.Decimal         `json:"amount_due"`
	DueDate       time.Time               `json:"due_date"`
	Payments      []PaymentRecordResponse `json:"payments"`
}

// =============================================================================
// Project DTOs
// =============================================================================

// CreateProjectRequest represents a request to create a new project
type CreateProjectRequest struct {
	Name        string             `json:"name" binding:"required,min=1,max=200"`
	Client      ContactInfoRequest `json:"client" binding:"required"`
	Status      string             `json:"status" binding:"omitempty,oneof=pending in-progress completed on-hold cancelled"`
	Priority    string             `json:"priority" binding:"omitempty,oneof=low medium high"`
	StartDate   time.Time          `json:"start_date" binding:"required"`
	EndDate     *time.Time         `json:"end_date"`
	TotalBudget decimal.Decimal    `json:"total_budget" binding:"required"`
	Description string             `json:"description" binding:"max=2000"`
}

// UpdateProjectRequest represents a request to update a project
type UpdateProjectRequest struct {
	Name           *string             `json:"name" binding:"omitempty,min=1,max=200"`
	Client         *ContactInfoRequest `json:"client"`
	Status         *string             `json:"status" binding:"omitempty,oneof=pending in-progress completed on-hold cancelled"`
	Priority       *string             `json:"priority" binding:"omitempty,oneof=low medium high"`
	StartDate      *time.Time          `json:"start_date"`
	EndDate        *time.Time          `json:"end_date"`
	TotalBudget    *decimal.Decimal    `json:"total_budget"`
	AmountReceived *decimal.Decimal    `json:"amount_received"`
	Description    *string             `json:"description" binding:"omitempty,max=2000"`
}

// ProjectListFilter represents query filters for listing projects
type ProjectListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Status   string `form:"status"`
	Priority string `form:"priority"`
	Search   string `form:"search"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// ProposalRefResponse represents a project's denormalized proposal summary
type ProposalRefResponse struct {
	ID       uuid.UUID  `json:"id"`
	Status   string     `json:"status"`
	SentDate *time.Time `json:"sent_date,omitempty"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID             uuid.UUID            `json:"id"`
	Name           string               `json:"name"`
	Client         ContactInfoResponse  `json:"client"`
	Proposal       *ProposalRefResponse `json:"proposal,omitempty"`
	InvoiceID      *uuid.UUID           `json:"invoice_id,omitempty"`
	Status         string               `json:"status"`
	Priority       string               `json:"priority"`
	StartDate      time.Time            `json:"start_date"`
	EndDate        *time.Time           `json:"end_date,omitempty"`
	TotalBudget    decimal.Decimal      `json:"total_budget"`
	AmountReceived decimal.Decimal      `json:"amount_received"`
	AmountPending  decimal.Decimal      `json:"amount_pending"`
	Description    string               `json:"description,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// ToProjectResponse maps a project aggregate to its API representation
func ToProjectResponse(p *crm.Project) ProjectResponse {
	var proposal *ProposalRefResponse
	if p.Proposal != nil {
		proposal = &ProposalRefResponse{
			ID:       p.Proposal.ID,
			Status:   string(p.Proposal.Status),
			SentDate: p.Proposal.SentDate,
		}
	}

	return ProjectResponse{
		ID:             p.ID,
		Name:           p.Name,
		Client:         toContactResponse(p.Client),
		Proposal:       proposal,
		InvoiceID:      p.InvoiceID,
		Status:         p.Status.String(),
		Priority:       string(p.Priority),
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		TotalBudget:    p.TotalBudget,
		AmountReceived: p.AmountReceived,
		AmountPending:  p.AmountPending(),
		Description:    p.Description,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// =============================================================================
// Proposal DTOs
// =============================================================================

// CreateProposalRequest represents a request to create a new proposal
type CreateProposalRequest struct {
	ProjectID      *uuid.UUID         `json:"project_id"`
	Client         ContactInfoRequest `json:"client" binding:"required"`
	Title          string             `json:"title" binding:"required,min=1,max=200"`
	Description    string             `json:"description" binding:"required,max=5000"`
	Scope          string             `json:"scope" binding:"required,max=5000"`
	Deliverables   []string           `json:"deliverables" binding:"omitempty,dive,max=500"`
	Timeline       string             `json:"timeline" binding:"required,max=500"`
	Currency       string             `json:"currency" binding:"omitempty,len=3"`
	BudgetEstimate decimal.Decimal    `json:"budget_estimate" binding:"required"`
	Terms          string             `json:"terms" binding:"max=2000"`
	Status         string             `json:"status" binding:"omitempty,oneof=draft sent accepted rejected negotiating"`
	Notes          string             `json:"notes" binding:"max=2000"`
}

// UpdateProposalRequest represents a request to update a proposal
type UpdateProposalRequest struct {
	ProjectID      *uuid.UUID          `json:"project_id"`
	Client         *ContactInfoRequest `json:"client"`
	Title          *string             `json:"title" binding:"omitempty,min=1,max=200"`
	Description    *string             `json:"description" binding:"omitempty,max=5000"`
	Scope          *string             `json:"scope" binding:"omitempty,max=5000"`
	Deliverables   *[]string           `json:"deliverables" binding:"omitempty,dive,max=500"`
	Timeline       *string             `json:"timeline" binding:"omitempty,max=500"`
	BudgetEstimate *decimal.Decimal    `json:"budget_estimate"`
	Terms          *string             `json:"terms" binding:"omitempty,max=2000"`
	Status         *string             `json:"status" binding:"omitempty,oneof=draft sent accepted rejected negotiating"`
	Notes          *string             `json:"notes" binding:"omitempty,max=2000"`
}

// ChangeProposalStatusRequest represents a request to move a proposal's status
type ChangeProposalStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft sent accepted rejected negotiating"`
}

// ProposalListFilter represents query filters for listing proposals
type ProposalListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Status   string `form:"status"`
	Search   string `form:"search"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// ProposalResponse represents a proposal in API responses
type ProposalResponse struct {
	ID             uuid.UUID           `json:"id"`
	ProjectID      *uuid.UUID          `json:"project_id,omitempty"`
	Client         ContactInfoResponse `json:"client"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Scope          string              `json:"scope"`
	Deliverables   []string            `json:"deliverables"`
	Timeline       string              `json:"timeline"`
	Currency       string              `json:"currency"`
	BudgetEstimate decimal.Decimal     `json:"budget_estimate"`
	Terms          string              `json:"terms,omitempty"`
	Status         string              `json:"status"`
	SentDate       *time.Time          `json:"sent_date,omitempty"`
	Notes          string              `json:"notes,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// ToProposalResponse maps a proposal aggregate to its API representation
func ToProposalResponse(p *crm.Proposal) ProposalResponse {
	return ProposalResponse{
		ID:             p.ID,
		ProjectID:      p.ProjectID,
		Client:         toContactResponse(p.Client),
		Title:          p.Title,
		Description:    p.Description,
		Scope:          p.Scope,
		Deliverables:   p.Deliverables,
		Timeline:       p.Timeline,
		Currency:       string(p.Currency),
		BudgetEstimate: p.BudgetEstimate,
		Terms:          p.Terms,
		Status:         p.Status.String(),
		SentDate:       p.SentDate,
		Notes:          p.Notes,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// =============================================================================
// Dashboard DTOs
// =============================================================================

// DashboardStatsResponse represents the headline numbers for the dashboard
type DashboardStatsResponse struct {
	TotalProjects   int64           `json:"total_projects"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	PendingInvoices int64           `json:"pending_invoices"`
}

// FinancialSummaryResponse aggregates invoice money figures
type FinancialSummaryResponse struct {
	TotalInvoiced    decimal.Decimal `json:"total_invoiced"`
	TotalReceived    decimal.Decimal `json:"total_received"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	OverdueInvoices  int64           `json:"overdue_invoices"`
}
