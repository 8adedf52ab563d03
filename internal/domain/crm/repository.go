package crm

import (
	"context"

	"github.com/google/uuid"

	"github.com/egma/backend/internal/domain/shared"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByProjectID finds the invoice bound to a project, if any
	FindByProjectID(ctx context.Context, projectID uuid.UUID) (*Invoice, error)

	// FindAll finds all invoices matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, error)

	// FindByStatus finds invoices in the given status
	FindByStatus(ctx context.Context, status InvoiceStatus, filter shared.Filter) ([]Invoice, error)

	// Save creates or updates an invoice
	Save(ctx context.Context, invoice *Invoice) error

	// Delete deletes an invoice
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts invoices matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts invoices in the given status
	CountByStatus(ctx context.Context, status InvoiceStatus) (int64, error)
}

// ProjectRepository defines the interface for project persistence
type ProjectRepository interface {
	// FindByID finds a project by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)

	// FindAll finds all projects matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Project, error)

	// FindByStatus finds projects in the given status
	FindByStatus(ctx context.Context, status ProjectStatus, filter shared.Filter) ([]Project, error)

	// Save creates or updates a project
	Save(ctx context.Context, project *Project) error

	// Delete deletes a project
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts projects matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// ProposalRepository defines the interface for proposal persistence
type ProposalRepository interface {
	// FindByID finds a proposal by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Proposal, error)

	// FindByProjectID finds proposals referencing a project
	FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]Proposal, error)

	// FindAll finds all proposals matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Proposal, error)

	// FindByStatus finds proposals in the given status
	FindByStatus(ctx context.Context, status ProposalStatus, filter shared.Filter) ([]Proposal, error)

	// Save creates or updates a proposal
	Save(ctx context.Context, proposal *Proposal) error

	// Delete deletes a proposal
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts proposals matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
