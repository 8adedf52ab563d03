package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/egma/backend/internal/domain/crm"
	"github.com/egma/backend/internal/domain/shared/valueobject"
)

// InvoiceModel is the persistence model for the Invoice aggregate. Line
// items and the payment ledger live inside the aggregate and are stored as
// JSONB columns rather than child tables.
type InvoiceModel struct {
	BaseModel
	InvoiceNumber string               `gorm:"type:varchar(50);uniqueIndex"`
	ProjectID     *uuid.UUID           `gorm:"type:uuid;index"`
	Currency      valueobject.Currency `gorm:"type:varchar(10);not null;default:'INR'"`
	AgencyName    string               `gorm:"type:varchar(200)"`
	AgencyEmail   string               `gorm:"type:varchar(200)"`
	AgencyPhone   string               `gorm:"type:varchar(50)"`
	AgencyAddress string               `gorm:"type:text"`
	ClientName    string               `gorm:"type:varchar(200);not null"`
	ClientEmail   string               `gorm:"type:varchar(200);not null;index"`
	ClientPhone   string               `gorm:"type:varchar(50)"`
	ClientAddress string               `gorm:"type:text"`
	Items         crm.LineItems        `gorm:"type:jsonb;not null;default:'[]'"`
	Payments      crm.PaymentRecords   `gorm:"type:jsonb;not null;default:'[]'"`
	Subtotal      decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	TaxTotal      decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Discount      decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount   decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	AmountPaid    decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	AmountDue     decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Status        crm.InvoiceStatus    `gorm:"type:varchar(20);not null;default:'draft';index"`
	IssuedDate    time.Time            `gorm:"not null"`
	DueDate       time.Time            `gorm:"not null;index"`
	Notes         string               `gorm:"type:text"`
	Terms         string               `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *crm.Invoice {
	inv := &crm.Invoice{
		BaseEntity:    m.BaseModel.ToDomain(),
		InvoiceNumber: m.InvoiceNumber,
		ProjectID:     m.ProjectID,
		Currency:      m.Currency,
		Agency: crm.ContactInfo{
			Name:    m.AgencyName,
			Email:   m.AgencyEmail,
			Phone:   m.AgencyPhone,
			Address: m.AgencyAddress,
		},
		Client: crm.ContactInfo{
			Name:    m.ClientName,
			Email:   m.ClientEmail,
			Phone:   m.ClientPhone,
			Address: m.ClientAddress,
		},
		Items:       m.Items,
		Payments:    m.Payments,
		Subtotal:    m.Subtotal,
		TaxTotal:    m.TaxTotal,
		Discount:    m.Discount,
		TotalAmount: m.TotalAmount,
		AmountPaid:  m.AmountPaid,
		AmountDue:   m.AmountDue,
		Status:      m.Status,
		IssuedDate:  m.IssuedDate,
		DueDate:     m.DueDate,
		Notes:       m.Notes,
		Terms:       m.Terms,
	}
	if inv.Items == nil {
		inv.Items = crm.LineItems{}
	}
	if inv.Payments == nil {
		inv.Payments = crm.PaymentRecords{}
	}
	return inv
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(inv *crm.Invoice) {
	m.FromDomainBaseEntity(inv.BaseEntity)
	m.InvoiceNumber = inv.InvoiceNumber
	m.ProjectID = inv.ProjectID
	m.Currency = inv.Currency
	m.AgencyName = inv.Agency.Name
	m.AgencyEmail = inv.Agency.Email
	m.AgencyPhone = inv.Agency.Phone
	m.AgencyAddress = inv.Agency.Address
	m.ClientName = inv.Client.Name
	m.ClientEmail = inv.Client.Email
	m.ClientPhone = inv.Client.Phone
	m.ClientAddress = inv.Client.Address
	m.Items = inv.Items
	m.Payments = inv.Payments
	m.Subtotal = inv.Subtotal
	m.TaxTotal = inv.TaxTotal
	m.Discount = inv.Discount
	m.TotalAmount = inv.TotalAmount
	m.AmountPaid = inv.AmountPaid
	m.AmountDue = inv.AmountDue
	m.Status = inv.Status
	m.IssuedDate = inv.IssuedDate
	m.DueDate = inv.DueDate
	m.Notes = inv.Notes
	m.Terms = inv.Terms
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice entity.
func InvoiceModelFromDomain(inv *crm.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// ProjectModel is the persistence model for the Project aggregate. The
// proposal summary slot is flattened into nullable columns; a NULL
// proposal_id means the slot is empty.
type ProjectModel struct {
	BaseModel
	Name             string            `gorm:"type:varchar(200);not null"`
	ClientName       string            `gorm:"type:varchar(200);not null"`
	ClientEmail      string            `gorm:"type:varchar(200);not null;index"`
	ClientPhone      string            `gorm:"type:varchar(50)"`
	ClientAddress    string            `gorm:"type:text"`
	ProposalID       *uuid.UUID        `gorm:"type:uuid;index"`
	ProposalStatus   string            `gorm:"type:varchar(20)"`
	ProposalSentDate *time.Time
	InvoiceID        *uuid.UUID        `gorm:"type:uuid;index"`
	Status           crm.ProjectStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Priority         crm.ProjectPriority `gorm:"type:varchar(20);not null;default:'medium'"`
	StartDate        time.Time         `gorm:"not null"`
	EndDate          *time.Time
	TotalBudget      decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	AmountReceived   decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Description      string            `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ProjectModel) TableName() string {
	return "projects"
}

// ToDomain converts the persistence model to a domain Project entity.
func (m *ProjectModel) ToDomain() *crm.Project {
	p := &crm.Project{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Client: crm.ContactInfo{
			Name:    m.ClientName,
			Email:   m.ClientEmail,
			Phone:   m.ClientPhone,
			Address: m.ClientAddress,
		},
		InvoiceID:      m.InvoiceID,
		Status:         m.Status,
		Priority:       m.Priority,
		StartDate:      m.StartDate,
		EndDate:        m.EndDate,
		TotalBudget:    m.TotalBudget,
		AmountReceived: m.AmountReceived,
		Description:    m.Description,
	}
	if m.ProposalID != nil {
		p.Proposal = &crm.ProposalRef{
			ID:       *m.ProposalID,
			Status:   crm.ProposalRefStatus(m.ProposalStatus),
			SentDate: m.ProposalSentDate,
		}
	}
	return p
}

// FromDomain populates the persistence model from a domain Project entity.
func (m *ProjectModel) FromDomain(p *crm.Project) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.ClientName = p.Client.Name
	m.ClientEmail = p.Client.Email
	m.ClientPhone = p.Client.Phone
	m.ClientAddress = p.Client.Address
	m.InvoiceID = p.InvoiceID
	m.Status = p.Status
	m.Priority = p.Priority
	m.StartDate = p.StartDate
	m.EndDate = p.EndDate
	m.TotalBudget = p.TotalBudget
	m.AmountReceived = p.AmountReceived
	m.Description = p.Description
	if p.Proposal != nil {
		proposalID := p.Proposal.ID
		m.ProposalID = &proposalID
		m.ProposalStatus = string(p.Proposal.Status)
		m.ProposalSentDate = p.Proposal.SentDate
	} else {
		m.ProposalID = nil
		m.ProposalStatus = ""
		m.ProposalSentDate = nil
	}
}

// ProjectModelFromDomain creates a new persistence model from a domain Project entity.
func ProjectModelFromDomain(p *crm.Project) *ProjectModel {
	m := &ProjectModel{}
	m.FromDomain(p)
	return m
}

// ProposalModel is the persistence model for the Proposal aggregate.
type ProposalModel struct {
	BaseModel
	ProjectID      *uuid.UUID           `gorm:"type:uuid;index"`
	ClientName     string               `gorm:"type:varchar(200);not null"`
	ClientEmail    string               `gorm:"type:varchar(200);not null;index"`
	ClientPhone    string               `gorm:"type:varchar(50)"`
	ClientAddress  string               `gorm:"type:text"`
	Title          string               `gorm:"type:varchar(200);not null"`
	Description    string               `gorm:"type:text;not null"`
	Scope          string               `gorm:"type:text;not null"`
	Deliverables   crm.StringList       `gorm:"type:jsonb;not null;default:'[]'"`
	Timeline       string               `gorm:"type:varchar(200);not null"`
	Currency       valueobject.Currency `gorm:"type:varchar(10);not null;default:'INR'"`
	BudgetEstimate decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Terms          string               `gorm:"type:text"`
	Status         crm.ProposalStatus   `gorm:"type:varchar(20);not null;default:'draft';index"`
	SentDate       *time.Time
	Notes          string               `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ProposalModel) TableName() string {
	return "proposals"
}

// ToDomain converts the persistence model to a domain Proposal entity.
func (m *ProposalModel) ToDomain() *crm.Proposal {
	p := &crm.Proposal{
		BaseEntity: m.BaseModel.ToDomain(),
		ProjectID:  m.ProjectID,
		Client: crm.ContactInfo{
			Name:    m.ClientName,
			Email:   m.ClientEmail,
			Phone:   m.ClientPhone,
			Address: m.ClientAddress,
		},
		Title:          m.Title,
		Description:    m.Description,
		Scope:          m.Scope,
		Deliverables:   m.Deliverables,
		Timeline:       m.Timeline,
		Currency:       m.Currency,
		BudgetEstimate: m.BudgetEstimate,
		Terms:          m.Terms,
		Status:         m.Status,
		SentDate:       m.SentDate,
		Notes:          m.Notes,
	}
	if p.Deliverables == nil {
		p.Deliverables = crm.StringList{}
	}
	return p
}

// FromDomain populates the persistence model from a domain Proposal entity.
func (m *ProposalModel) FromDomain(p *crm.Proposal) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.ProjectID = p.ProjectID
	m.ClientName = p.Client.Name
	m.ClientEmail = p.Client.Email
	m.ClientPhone = p.Client.Phone
	m.ClientAddress = p.Client.Address
	m.Title = p.Title
	m.Description = p.Description
	m.Scope = p.Scope
	m.Deliverables = p.Deliverables
	m.Timeline = p.Timeline
	m.Currency = p.Currency
	m.BudgetEstimate = p.BudgetEstimate
	m.Terms = p.Terms
	m.Status = p.Status
	m.SentDate = p.SentDate
	m.Notes = p.Notes
}

// ProposalModelFromDomain creates a new persistence model from a domain Proposal entity.
func ProposalModelFromDomain(p *crm.Proposal) *ProposalModel {
	m := &ProposalModel{}
	m.FromDomain(p)
	return m
}
