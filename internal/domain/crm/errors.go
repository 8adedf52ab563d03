package crm

import "github.com/egma/backend/internal/domain/shared"

// NewInvalidPaymentError creates a validation error for a rejected payment record
func NewInvalidPaymentError(message string) *shared.DomainError {
	return shared.NewDomainError("INVALID_PAYMENT", message)
}

// NewInvalidInvoiceError creates a validation error for an invoice that fails its invariants
func NewInvalidInvoiceError(message string) *shared.DomainError {
	return shared.NewDomainError("INVALID_INVOICE", message)
}

// NewInvalidProjectError creates a validation error for a project that fails its invariants
func NewInvalidProjectError(message string) *shared.DomainError {
	return shared.NewDomainError("INVALID_PROJECT", message)
}

// NewInvalidProposalError creates a validation error for a proposal that fails its invariants
func NewInvalidProposalError(message string) *shared.DomainError {
	return shared.NewDomainError("INVALID_PROPOSAL", message)
}
