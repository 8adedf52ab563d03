package crm

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/egma/backend/internal/domain/shared"
)

// ProjectStatus represents the delivery status of a project
type ProjectStatus string

const (
	ProjectStatusPending    ProjectStatus = "pending"
	ProjectStatusInProgress ProjectStatus = "in-progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusOnHold     ProjectStatus = "on-hold"
	ProjectStatusCancelled  ProjectStatus = "cancelled"
)

// IsValid checks if the status is a valid ProjectStatus
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusPending, ProjectStatusInProgress, ProjectStatusCompleted,
		ProjectStatusOnHold, ProjectStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ProjectStatus
func (s ProjectStatus) String() string {
	return string(s)
}

// ProjectPriority represents how urgent a project is
type ProjectPriority string

const (
	ProjectPriorityLow    ProjectPriority = "low"
	ProjectPriorityMedium ProjectPriority = "medium"
	ProjectPriorityHigh   ProjectPriority = "high"
)

// IsValid checks if the priority is a valid ProjectPriority
func (p ProjectPriority) IsValid() bool {
	return p == ProjectPriorityLow || p == ProjectPriorityMedium || p == ProjectPriorityHigh
}

// ProposalRefStatus is the proposal state as seen from the owning project.
// It is a mapped mirror of ProposalStatus, not the proposal's own enum.
type ProposalRefStatus string

const (
	ProposalRefStatusNotSent       ProposalRefStatus = "not_sent"
	ProposalRefStatusSent          ProposalRefStatus = "sent"
	ProposalRefStatusAccepted      ProposalRefStatus = "accepted"
	ProposalRefStatusRejected      ProposalRefStatus = "rejected"
	ProposalRefStatusNeedsRevision ProposalRefStatus = "needs_revision"
)

// IsValid checks if the status is a valid ProposalRefStatus
func (s ProposalRefStatus) IsValid() bool {
	switch s {
	case ProposalRefStatusNotSent, ProposalRefStatusSent, ProposalRefStatusAccepted,
		ProposalRefStatusRejected, ProposalRefStatusNeedsRevision:
		return true
	}
	return false
}

// ProposalRef is the denormalized summary of the latest proposal linked to a
// project. A project holds a single slot: linking a new proposal overwrites
// the previous summary (last write wins).
type ProposalRef struct {
	ID       uuid.UUID         `json:"id"`
	Status   ProposalRefStatus `json:"status"`
	SentDate *time.Time        `json:"sent_date,omitempty"`
}

// Project is the aggregate root for agency engagements. It carries
// denormalized summaries of its latest proposal and invoice; those fields
// are written by the application layer's sync logic, never by joins.
type Project struct {
	shared.BaseEntity
	Name           string          `json:"name"`
	Client         ContactInfo     `json:"client"`
	Proposal       *ProposalRef    `json:"proposal,omitempty"`
	InvoiceID      *uuid.UUID      `json:"invoice_id,omitempty"`
	Status         ProjectStatus   `json:"status"`
	Priority       ProjectPriority `json:"priority"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        *time.Time      `json:"end_date,omitempty"`
	TotalBudget    decimal.Decimal `json:"total_budget"`
	AmountReceived decimal.Decimal `json:"amount_received"`
	Description    string          `json:"description,omitempty"`
}

// NewProject creates a project in pending status
func NewProject(name string, client ContactInfo, startDate time.Time, totalBudget decimal.Decimal) (*Project, error) {
	p := &Project{
		BaseEntity:     shared.NewBaseEntity(),
		Name:           name,
		Client:         client,
		Status:         ProjectStatusPending,
		Priority:       ProjectPriorityMedium,
		StartDate:      startDate,
		TotalBudget:    totalBudget,
		AmountReceived: decimal.Zero,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the project invariants
func (p *Project) Validate() error {
	if p.Name == "" {
		return NewInvalidProjectError("project name is required")
	}
	if p.Client.Name == "" {
		return NewInvalidProjectError("client name is required")
	}
	if p.Client.Email == "" {
		return NewInvalidProjectError("client email is required")
	}
	if p.StartDate.IsZero() {
		return NewInvalidProjectError("start date is required")
	}
	if p.TotalBudget.IsNegative() {
		return NewInvalidProjectError("total budget cannot be negative")
	}
	if !p.Status.IsValid() {
		return NewInvalidProjectError("project status is not valid: " + p.Status.String())
	}
	if !p.Priority.IsValid() {
		return NewInvalidProjectError("project priority is not valid: " + string(p.Priority))
	}
	if p.Proposal != nil && !p.Proposal.Status.IsValid() {
		return NewInvalidProjectError("proposal reference status is not valid")
	}
	return nil
}

// AmountPending returns the budget not yet received
func (p *Project) AmountPending() decimal.Decimal {
	return p.TotalBudget.Sub(p.AmountReceived)
}

// SetProposalRef overwrites the proposal summary slot
func (p *Project) SetProposalRef(ref ProposalRef, now time.Time) {
	p.Proposal = &ref
	p.Touch(now)
}

// ClearProposalRef removes the proposal summary, but only when the slot
// still points at the given proposal. A summary that was since overwritten
// by a different proposal is left alone.
func (p *Project) ClearProposalRef(proposalID uuid.UUID, now time.Time) bool {
	if p.Proposal == nil || p.Proposal.ID != proposalID {
		return false
	}
	p.Proposal = nil
	p.Touch(now)
	return true
}

// AttachInvoice records the 1:1 invoice reference
func (p *Project) AttachInvoice(invoiceID uuid.UUID, now time.Time) {
	p.InvoiceID = &invoiceID
	p.Touch(now)
}

// DetachInvoice clears the invoice reference
func (p *Project) DetachInvoice(now time.Time) {
	p.InvoiceID = nil
	p.Touch(now)
}

// SetAmountReceived records how much of the budget has been paid so far
func (p *Project) SetAmountReceived(amount decimal.Decimal, now time.Time) {
	p.AmountReceived = amount
	p.Touch(now)
}
