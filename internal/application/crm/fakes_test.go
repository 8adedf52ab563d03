package crm

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/egma/backend/internal/domain/crm"
	"github.com/egma/backend/internal/domain/shared"
)

// In-memory repositories with injectable failures, used to exercise the
// best-effort cross-entity writes without a database.

type fakeInvoiceRepo struct {
	invoices  map[uuid.UUID]*crm.Invoice
	saveErr   error
	deleteErr error
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[uuid.UUID]*crm.Invoice)}
}

func (r *fakeInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*crm.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvoiceRepo) FindByProjectID(_ context.Context, projectID uuid.UUID) (*crm.Invoice, error) {
	for _, inv := range r.invoices {
		if inv.ProjectID != nil && *inv.ProjectID == projectID {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeInvoiceRepo) FindAll(_ context.Context, filter shared.Filter) ([]crm.Invoice, error) {
	all := make([]crm.Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		all = append(all, *inv)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return paginate(all, filter), nil
}

func (r *fakeInvoiceRepo) FindByStatus(_ context.Context, status crm.InvoiceStatus, filter shared.Filter) ([]crm.Invoice, error) {
	matched := make([]crm.Invoice, 0)
	for _, inv := range r.invoices {
		if inv.Status == status {
			matched = append(matched, *inv)
		}
	}
	return paginate(matched, filter), nil
}

func (r *fakeInvoiceRepo) Save(_ context.Context, invoice *crm.Invoice) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	cp := *invoice
	r.invoices[invoice.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.invoices[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.invoices, id)
	return nil
}

func (r *fakeInvoiceRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.invoices)), nil
}

func (r *fakeInvoiceRepo) CountByStatus(_ context.Context, status crm.InvoiceStatus) (int64, error) {
	var n int64
	for _, inv := range r.invoices {
		if inv.Status == status {
			n++
		}
	}
	return n, nil
}

type fakeProjectRepo struct {
	projects map[uuid.UUID]*crm.Project
	saveErr  error
	findErr  error
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[uuid.UUID]*crm.Project)}
}

func (r *fakeProjectRepo) FindByID(_ context.Context, id uuid.UUID) (*crm.Project, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.projects[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProjectRepo) FindAll(_ context.Context, filter shared.Filter) ([]crm.Project, error) {
	all := make([]crm.Project, 0, len(r.projects))
	for _, p := range r.projects {
		all = append(all, *p)
	}
	return paginate(all, filter), nil
}

func (r *fakeProjectRepo) FindByStatus(_ context.Context, status crm.ProjectStatus, filter shared.Filter) ([]crm.Project, error) {
	matched := make([]crm.Project, 0)
	for _, p := range r.projects {
		if p.Status == status {
			matched = append(matched, *p)
		}
	}
	return paginate(matched, filter), nil
}

func (r *fakeProjectRepo) Save(_ context.Context, project *crm.Project) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	cp := *project
	r.projects[project.ID] = &cp
	return nil
}

func (r *fakeProjectRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.projects[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

func (r *fakeProjectRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.projects)), nil
}

type fakeProposalRepo struct {
	proposals map[uuid.UUID]*crm.Proposal
	saveErr   error
}

func newFakeProposalRepo() *fakeProposalRepo {
	return &fakeProposalRepo{proposals: make(map[uuid.UUID]*crm.Proposal)}
}

func (r *fakeProposalRepo) FindByID(_ context.Context, id uuid.UUID) (*crm.Proposal, error) {
	p, ok := r.proposals[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProposalRepo) FindByProjectID(_ context.Context, projectID uuid.UUID) ([]crm.Proposal, error) {
	matched := make([]crm.Proposal, 0)
	for _, p := range r.proposals {
		if p.ProjectID != nil && *p.ProjectID == projectID {
			matched = append(matched, *p)
		}
	}
	return matched, nil
}

func (r *fakeProposalRepo) FindAll(_ context.Context, filter shared.Filter) ([]crm.Proposal, error) {
	all := make([]crm.Proposal, 0, len(r.proposals))
	for _, p := range r.proposals {
		all = append(all, *p)
	}
	return paginate(all, filter), nil
}

func (r *fakeProposalRepo) FindByStatus(_ context.Context, status crm.ProposalStatus, filter shared.Filter) ([]crm.Proposal, error) {
	matched := make([]crm.Proposal, 0)
	for _, p := range r.proposals {
		if p.Status == status {
			matched = append(matched, *p)
		}
	}
	return paginate(matched, filter), nil
}

func (r *fakeProposalRepo) Save(_ context.Context, proposal *crm.Proposal) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	cp := *proposal
	r.proposals[proposal.ID] = &cp
	return nil
}

func (r *fakeProposalRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.proposals[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.proposals, id)
	return nil
}

func (r *fakeProposalRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.proposals)), nil
}

func paginate[T any](items []T, filter shared.Filter) []T {
	start := (filter.Page - 1) * filter.PageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + filter.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
