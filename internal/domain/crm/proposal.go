package crm

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/egma/backend/internal/domain/shared"
	"github.com/egma/backend/internal/domain/shared/valueobject"
)

// ProposalStatus represents the negotiation state of a proposal
type ProposalStatus string

const (
	ProposalStatusDraft       ProposalStatus = "draft"
	ProposalStatusSent        ProposalStatus = "sent"
	ProposalStatusAccepted    ProposalStatus = "accepted"
	ProposalStatusRejected    ProposalStatus = "rejected"
	ProposalStatusNegotiating ProposalStatus = "negotiating"
)

// IsValid checks if the status is a valid ProposalStatus
func (s ProposalStatus) IsValid() bool {
	switch s {
	case ProposalStatusDraft, ProposalStatusSent, ProposalStatusAccepted,
		ProposalStatusRejected, ProposalStatusNegotiating:
		return true
	}
	return false
}

// String returns the string representation of ProposalStatus
func (s ProposalStatus) String() string {
	return string(s)
}

// ProjectRefStatus maps the proposal status to the enum a project stores in
// its proposal summary slot
func (s ProposalStatus) ProjectRefStatus() ProposalRefStatus {
	switch s {
	case ProposalStatusSent:
		return ProposalRefStatusSent
	case ProposalStatusAccepted:
		return ProposalRefStatusAccepted
	case ProposalStatusRejected:
		return ProposalRefStatusRejected
	case ProposalStatusNegotiating:
		return ProposalRefStatusNeedsRevision
	default:
		return ProposalRefStatusNotSent
	}
}

// StringList is a slice of strings stored as a JSONB column
type StringList []string

// Value implements driver.Valuer interface for GORM to store as JSONB
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan StringList: unsupported type")
	}

	if len(bytes) == 0 {
		*l = StringList{}
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// Proposal is the aggregate root for pitches sent to clients. It may
// reference a project; the project side only keeps a denormalized summary
// maintained by the application layer.
type Proposal struct {
	shared.BaseEntity
	ProjectID      *uuid.UUID           `json:"project_id,omitempty"`
	Client         ContactInfo          `json:"client"`
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	Scope          string               `json:"scope"`
	Deliverables   StringList           `json:"deliverables"`
	Timeline       string               `json:"timeline"`
	Currency       valueobject.Currency `json:"currency"`
	BudgetEstimate decimal.Decimal      `json:"budget_estimate"`
	Terms          string               `json:"terms,omitempty"`
	Status         ProposalStatus       `json:"status"`
	SentDate       *time.Time           `json:"sent_date,omitempty"`
	Notes          string               `json:"notes,omitempty"`
}

// NewProposal creates a draft proposal
func NewProposal(title string, client ContactInfo, description, scope, timeline string, budgetEstimate decimal.Decimal, currency valueobject.Currency) (*Proposal, error) {
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	p := &Proposal{
		BaseEntity:     shared.NewBaseEntity(),
		Client:         client,
		Title:          title,
		Description:    description,
		Scope:          scope,
		Deliverables:   StringList{},
		Timeline:       timeline,
		Currency:       currency,
		BudgetEstimate: budgetEstimate,
		Status:         ProposalStatusDraft,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the proposal invariants
func (p *Proposal) Validate() error {
	if p.Title == "" {
		return NewInvalidProposalError("proposal title is required")
	}
	if p.Client.Name == "" {
		return NewInvalidProposalError("client name is required")
	}
	if p.Client.Email == "" {
		return NewInvalidProposalError("client email is required")
	}
	if p.Description == "" {
		return NewInvalidProposalError("proposal description is required")
	}
	if p.Scope == "" {
		return NewInvalidProposalError("proposal scope is required")
	}
	if p.Timeline == "" {
		return NewInvalidProposalError("proposal timeline is required")
	}
	if p.BudgetEstimate.IsNegative() {
		return NewInvalidProposalError("budget estimate cannot be negative")
	}
	if !p.Currency.IsValid() {
		return NewInvalidProposalError("currency is not supported: " + string(p.Currency))
	}
	if !p.Status.IsValid() {
		return NewInvalidProposalError("proposal status is not valid: " + p.Status.String())
	}
	return nil
}

// ChangeStatus moves the proposal into a new status. The sent date is
// stamped exactly once, on the first transition into sent, and never
// rewritten afterwards.
func (p *Proposal) ChangeStatus(status ProposalStatus, now time.Time) error {
	if !status.IsValid() {
		return NewInvalidProposalError("proposal status is not valid: " + status.String())
	}
	p.Status = status
	if status == ProposalStatusSent && p.SentDate == nil {
		sent := now
		p.SentDate = &sent
	}
	p.Touch(now)
	return nil
}

// LinkProject points the proposal at a project
func (p *Proposal) LinkProject(projectID uuid.UUID, now time.Time) error {
	if projectID == uuid.Nil {
		return shared.ErrInvalidInput
	}
	p.ProjectID = &projectID
	p.Touch(now)
	return nil
}

// UnlinkProject clears the project reference
func (p *Proposal) UnlinkProject(now time.Time) {
	p.ProjectID = nil
	p.Touch(now)
}

// Ref returns the denormalized summary a linked project should store
func (p *Proposal) Ref() ProposalRef {
	return ProposalRef{
		ID:       p.ID,
		Status:   p.Status.ProjectRefStatus(),
		SentDate: p.SentDate,
	}
}
