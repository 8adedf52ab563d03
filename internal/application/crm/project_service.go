package crm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/egma/backend/internal/domain/crm"
	"github.com/egma/backend/internal/domain/shared"
)

// ProjectService handles project business operations
type ProjectService struct {
	projectRepo crm.ProjectRepository
	invoiceRepo crm.InvoiceRepository
	clock       shared.Clock
	logger      *zap.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	projectRepo crm.ProjectRepository,
	invoiceRepo crm.InvoiceRepository,
	clock shared.Clock,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		invoiceRepo: invoiceRepo,
		clock:       clock,
		logger:      logger,
	}
}

// Create creates a new project
func (s *ProjectService) Create(ctx context.Context, req CreateProjectRequest) (*ProjectResponse, error) {
	project, err := crm.NewProject(req.Name, req.Client.toDomain(), req.StartDate, req.TotalBudget)
	if err != nil {
		return nil, err
	}

	if req.Status != "" {
		project.Status = crm.ProjectStatus(req.Status)
	}
	if req.Priority != "" {
		project.Priority = crm.ProjectPriority(req.Priority)
	}
	project.EndDate = req.EndDate
	project.Description = req.Description

	if err := project.Validate(); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Save(ctx, project); err != nil {
		return nil, err
	}

	resp := ToProjectResponse(project)
	return &resp, nil
}

// GetByID retrieves a project by ID
func (s *ProjectService) GetByID(ctx context.Context, id uuid.UUID) (*ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProjectResponse(project)
	return &resp, nil
}

// List retrieves projects matching the filter
func (s *ProjectService) List(ctx context.Context, filter ProjectListFilter) (*shared.Paginated[ProjectResponse], error) {
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
	if filter.Priority != "" {
		f.Filters["priority"] = filter.Priority
	}

	var (
		projects []crm.Project
		err      error
	)
	if filter.Status != "" {
		status := crm.ProjectStatus(filter.Status)
		if !status.IsValid() {
			return nil, shared.NewValidationError("project status is not valid: " + filter.Status)
		}
		projects, err = s.projectRepo.FindByStatus(ctx, status, f)
	} else {
		projects, err = s.projectRepo.FindAll(ctx, f)
	}
	if err != nil {
		return nil, err
	}

	countFilter := f
	if filter.Status != "" {
		countFilter.Filters["status"] = filter.Status
	}
	total, err := s.projectRepo.Count(ctx, countFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		responses = append(responses, ToProjectResponse(&projects[i]))
	}

	result := shared.NewPaginated(responses, total, f.Page, f.PageSize)
	return &result, nil
}

// Update applies the given changes to a project
func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, req UpdateProjectRequest) (*ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Client != nil {
		project.Client = req.Client.toDomain()
	}
	if req.Status != nil {
		project.Status = crm.ProjectStatus(*req.Status)
	}
	if req.Priority != nil {
		project.Priority = crm.ProjectPriority(*req.Priority)
	}
	if req.StartDate != nil {
		project.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		project.EndDate = req.EndDate
	}
	if req.TotalBudget != nil {
		project.TotalBudget = *req.TotalBudget
	}
	if req.AmountReceived != nil {
		project.AmountReceived = *req.AmountReceived
	}
	if req.Description != nil {
		project.Description = *req.Description
	}

	if err := project.Validate(); err != nil {
		return nil, err
	}

	project.Touch(s.clock.Now())

	if err := s.projectRepo.Save(ctx, project); err != nil {
		return nil, err
	}

	resp := ToProjectResponse(project)
	return &resp, nil
}

// Delete removes a project and its invoice. The invoice delete is part of
// the primary operation, not best effort: a project must not leave an
// orphaned invoice behind, so a failed cascade aborts the delete.
func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if project.InvoiceID != nil {
		if err := s.invoiceRepo.Delete(ctx, *project.InvoiceID); err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
	}

	return s.projectRepo.Delete(ctx, id)
}
