package crm

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/egma/backend/internal/domain/shared"
	"github.com/egma/backend/internal/domain/shared/valueobject"
)

// InvoiceStatus represents the payment status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusPending       InvoiceStatus = "pending"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusOverdue       InvoiceStatus = "overdue"
	InvoiceStatusCancelled     InvoiceStatus = "cancelled"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusPending, InvoiceStatusPartiallyPaid,
		InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the invoice can no longer accept payments
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusCancelled
}

// ContactInfo holds the identifying details of a billing party
type ContactInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// DefaultAgencyInfo returns the agency side of an invoice when the caller
// supplies none
func DefaultAgencyInfo() ContactInfo {
	return ContactInfo{
		Name:  "EGMA",
		Email: "hello@egma.agency",
	}
}

// Invoice is the aggregate root for billing. All money figures below the
// line items are derived: Recalculate rewrites them from the items and the
// payment ledger, and they are never trusted from caller input.
type Invoice struct {
	shared.BaseEntity
	InvoiceNumber string               `json:"invoice_number"`
	ProjectID     *uuid.UUID           `json:"project_id,omitempty"`
	Currency      valueobject.Currency `json:"currency"`
	Agency        ContactInfo          `json:"agency"`
	Client        ContactInfo          `json:"client"`
	Items         LineItems            `json:"items"`
	Payments      PaymentRecords       `json:"payments"`
	Subtotal      decimal.Decimal      `json:"subtotal"`
	TaxTotal      decimal.Decimal      `json:"tax_total"`
	Discount      decimal.Decimal      `json:"discount"`
	TotalAmount   decimal.Decimal      `json:"total_amount"`
	AmountPaid    decimal.Decimal      `json:"amount_paid"`
	AmountDue     decimal.Decimal      `json:"amount_due"`
	Status        InvoiceStatus        `json:"status"`
	IssuedDate    time.Time            `json:"issued_date"`
	DueDate       time.Time            `json:"due_date"`
	Notes         string               `json:"notes,omitempty"`
	Terms         string               `json:"terms,omitempty"`
}

// NewInvoice creates a draft invoice. Derived amounts stay zero until the
// first Recalculate.
func NewInvoice(client ContactInfo, currency valueobject.Currency, issuedDate, dueDate time.Time, items LineItems, discount decimal.Decimal) (*Invoice, error) {
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	inv := &Invoice{
		BaseEntity: shared.NewBaseEntity(),
		Currency:   currency,
		Agency:     DefaultAgencyInfo(),
		Client:     client,
		Items:      items,
		Payments:   PaymentRecords{},
		Discount:   discount,
		Status:     InvoiceStatusDraft,
		IssuedDate: issuedDate,
		DueDate:    dueDate,
	}
	if inv.Items == nil {
		inv.Items = LineItems{}
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	return inv, nil
}

// Validate checks the invoice invariants that must hold before any persist
func (inv *Invoice) Validate() error {
	if inv.Client.Name == "" {
		return NewInvalidInvoiceError("client name is required")
	}
	if inv.Client.Email == "" {
		return NewInvalidInvoiceError("client email is required")
	}
	if inv.DueDate.IsZero() {
		return NewInvalidInvoiceError("due date is required")
	}
	if !inv.Currency.IsValid() {
		return NewInvalidInvoiceError("currency is not supported: " + string(inv.Currency))
	}
	if inv.Discount.IsNegative() {
		return NewInvalidInvoiceError("discount cannot be negative")
	}
	for _, li := range inv.Items {
		if err := li.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// AddPayment validates and appends a payment record to the ledger. The
// append is all or nothing: a record that fails validation leaves the
// invoice untouched. Totals are not recomputed here; callers run
// Recalculate before persisting.
func (inv *Invoice) AddPayment(record PaymentRecord) error {
	if inv.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot add a payment to a cancelled invoice")
	}
	if err := record.Validate(); err != nil {
		return err
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	inv.Payments = append(inv.Payments, record)
	return nil
}

// Cancel marks the invoice cancelled. Cancellation is an external trigger,
// never derived by Recalculate, and survives subsequent recomputes.
func (inv *Invoice) Cancel(now time.Time) error {
	if inv.Status == InvoiceStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already cancelled")
	}
	inv.Status = InvoiceStatusCancelled
	inv.Touch(now)
	return nil
}

// Recalculate derives the financial state of the invoice from its line
// items and payment ledger:
//
//  1. subtotal, tax total and total amount from the line items and discount
//  2. amount paid from the payment ledger
//  3. amount due = total - paid (may go negative on overpayment)
//  4. status from the amounts, preserving draft while unpaid and never
//     touching cancelled
//  5. overdue overrules the derived status when past due with money owed
//
// Idempotent: calling it again with unchanged inputs yields identical state.
func (inv *Invoice) Recalculate(now time.Time) {
	totals := CalculateTotals(inv.Items, inv.Discount)
	inv.Subtotal = totals.Subtotal
	inv.TaxTotal = totals.TaxTotal
	inv.TotalAmount = totals.TotalAmount
	inv.AmountPaid = inv.Payments.Total()
	inv.AmountDue = inv.TotalAmount.Sub(inv.AmountPaid)

	// Cancellation is terminal and only ever set through Cancel; amounts
	// stay current but the status is left alone, even when past due.
	if inv.Status == InvoiceStatusCancelled {
		return
	}

	switch {
	case inv.AmountPaid.IsZero():
		if inv.Status != InvoiceStatusDraft {
			inv.Status = InvoiceStatusPending
		}
	case inv.AmountPaid.LessThan(inv.TotalAmount):
		inv.Status = InvoiceStatusPartiallyPaid
	default:
		inv.Status = InvoiceStatusPaid
	}

	if now.After(inv.DueDate) && inv.AmountDue.IsPositive() {
		inv.Status = InvoiceStatusOverdue
	}
}

// EnsureNumber assigns an invoice number exactly once. Subsequent calls are
// no-ops, keeping Recalculate plus EnsureNumber stable across repeated saves.
func (inv *Invoice) EnsureNumber(numbers InvoiceNumberGenerator) {
	if inv.InvoiceNumber == "" {
		inv.InvoiceNumber = numbers.Next()
	}
}

// CurrencySymbol returns the display symbol for the invoice currency
func (inv *Invoice) CurrencySymbol() string {
	return inv.Currency.Symbol()
}

// PaymentCount returns the number of payments in the ledger
func (inv *Invoice) PaymentCount() int {
	return len(inv.Payments)
}

// IsPaid returns true if the invoice is fully paid
func (inv *Invoice) IsPaid() bool {
	return inv.Status == InvoiceStatusPaid
}

// IsOutstanding returns true if money is still owed on a live invoice
func (inv *Invoice) IsOutstanding() bool {
	return !inv.Status.IsTerminal() && inv.AmountDue.IsPositive()
}
