package crm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/egma/backend/internal/domain/crm"
	"github.com/egma/backend/internal/domain/shared"
	"github.com/egma/backend/internal/domain/shared/valueobject"
)

// ProposalService handles proposal business operations. A proposal that
// references a project maintains a denormalized summary on the project side;
// those writes happen after the proposal itself is persisted and are best
// effort, so the two aggregates may briefly disagree.
type ProposalService struct {
	proposalRepo crm.ProposalRepository
	projectRepo  crm.ProjectRepository
	clock        shared.Clock
	logger       *zap.Logger
}

// NewProposalService creates a new ProposalService
func NewProposalService(
	proposalRepo crm.ProposalRepository,
	projectRepo crm.ProjectRepository,
	clock shared.Clock,
	logger *zap.Logger,
) *ProposalService {
	return &ProposalService{
		proposalRepo: proposalRepo,
		projectRepo:  projectRepo,
		clock:        clock,
		logger:       logger,
	}
}

// Create creates a new proposal and, when a project is referenced, writes
// the proposal summary onto it.
func (s *ProposalService) Create(ctx context.Context, req CreateProposalRequest) (*ProposalResponse, error) {
	now := s.clock.Now()

	proposal, err := crm.NewProposal(
		req.Title,
		req.Client.toDomain(),
		req.Description,
		req.Scope,
		req.Timeline,
		req.BudgetEstimate,
		valueobject.Currency(req.Currency),
	)
	if err != nil {
		return nil, err
	}

	proposal.Deliverables = crm.StringList(req.Deliverables)
	proposal.Terms = req.Terms
	proposal.Notes = req.Notes

	if req.Status != "" {
		if err := proposal.ChangeStatus(crm.ProposalStatus(req.Status), now); err != nil {
			return nil, err
		}
	}
	if req.ProjectID != nil {
		if _, err := s.projectRepo.FindByID(ctx, *req.ProjectID); err != nil {
			return nil, err
		}
		if err := proposal.LinkProject(*req.ProjectID, now); err != nil {
			return nil, err
		}
	}

	if err := s.proposalRepo.Save(ctx, proposal); err != nil {
		return nil, err
	}

	if proposal.ProjectID != nil {
		s.syncProposalRef(ctx, *proposal.ProjectID, proposal, now)
	}

	resp := ToProposalResponse(proposal)
	return &resp, nil
}

// GetByID retrieves a proposal by ID
func (s *ProposalService) GetByID(ctx context.Context, id uuid.UUID) (*ProposalResponse, error) {
	proposal, err := s.proposalRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProposalResponse(proposal)
	return &resp, nil
}

// List retrieves proposals matching the filter
func (s *ProposalService) List(ctx context.Context, filter ProposalListFilter) (*shared.Paginated[ProposalResponse], error) {
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

	var (
		proposals []crm.Proposal
		err       error
	)
	if filter.Status != "" {
		status := crm.ProposalStatus(filter.Status)
		if !status.IsValid() {
			return nil, shared.NewValidationError("proposal status is not valid: " + filter.Status)
		}
		proposals, err = s.proposalRepo.FindByStatus(ctx, status, f)
	} else {
		proposals, err = s.proposalRepo.FindAll(ctx, f)
	}
	if err != nil {
		return nil, err
	}

	countFilter := f
	if filter.Status != "" {
		countFilter.Filters["status"] = filter.Status
	}
	total, err := s.proposalRepo.Count(ctx, countFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]ProposalResponse, 0, len(proposals))
	for i := range proposals {
		responses = append(responses, ToProposalResponse(&proposals[i]))
	}

	result := shared.NewPaginated(responses, total, f.Page, f.PageSize)
	return &result, nil
}

// Update applies the given changes to a proposal. When the project reference
// moves, the old project's summary slot is cleared (only if it still points
// at this proposal) and the new project receives a fresh summary. The two
// secondary writes run sequentially and are each best effort.
func (s *ProposalService) Update(ctx context.Context, id uuid.UUID, req UpdateProposalRequest) (*ProposalResponse, error) {
	proposal, err := s.proposalRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	oldProjectID := proposal.ProjectID

	if req.Client != nil {
		proposal.Client = req.Client.toDomain()
	}
	if req.Title != nil {
		proposal.Title = *req.Title
	}
	if req.Description != nil {
		proposal.Description = *req.Description
	}
	if req.Scope != nil {
		proposal.Scope = *req.Scope
	}
	if req.Deliverables != nil {
		proposal.Deliverables = crm.StringList(*req.Deliverables)
	}
	if req.Timeline != nil {
		proposal.Timeline = *req.Timeline
	}
	if req.BudgetEstimate != nil {
		proposal.BudgetEstimate = *req.BudgetEstimate
	}
	if req.Terms != nil {
		proposal.Terms = *req.Terms
	}
	if req.Notes != nil {
		proposal.Notes = *req.Notes
	}
	if req.Status != nil {
		if err := proposal.ChangeStatus(crm.ProposalStatus(*req.Status), now); err != nil {
			return nil, err
		}
	}

	projectChanged := false
	if req.ProjectID != nil && (oldProjectID == nil || *oldProjectID != *req.ProjectID) {
		if _, err := s.projectRepo.FindByID(ctx, *req.ProjectID); err != nil {
			return nil, err
		}
		if err := proposal.LinkProject(*req.ProjectID, now); err != nil {
			return nil, err
		}
		projectChanged = true
	}

	if err := proposal.Validate(); err != nil {
		return nil, err
	}
	proposal.Touch(now)

	if err := s.proposalRepo.Save(ctx, proposal); err != nil {
		return nil, err
	}

	if projectChanged && oldProjectID != nil {
		s.clearProposalRef(ctx, *oldProjectID, proposal.ID, now)
	}
	if proposal.ProjectID != nil {
		s.syncProposalRef(ctx, *proposal.ProjectID, proposal, now)
	}

	resp := ToProposalResponse(proposal)
	return &resp, nil
}

// ChangeStatus moves the proposal to a new status and refreshes the summary
// on the linked project
func (s *ProposalService) ChangeStatus(ctx context.Context, id uuid.UUID, status crm.ProposalStatus) (*ProposalResponse, error) {
	proposal, err := s.proposalRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := proposal.ChangeStatus(status, now); err != nil {
		return nil, err
	}

	if err := s.proposalRepo.Save(ctx, proposal); err != nil {
		return nil, err
	}

	if proposal.ProjectID != nil {
		s.syncProposalRef(ctx, *proposal.ProjectID, proposal, now)
	}

	resp := ToProposalResponse(proposal)
	return &resp, nil
}

// LinkToProject points an existing proposal at a project
func (s *ProposalService) LinkToProject(ctx context.Context, id, projectID uuid.UUID) (*ProposalResponse, error) {
	proposal, err := s.proposalRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	oldProjectID := proposal.ProjectID

	if err := proposal.LinkProject(projectID, now); err != nil {
		return nil, err
	}

	if err := s.proposalRepo.Save(ctx, proposal); err != nil {
		return nil, err
	}

	if oldProjectID != nil && *oldProjectID != projectID {
		s.clearProposalRef(ctx, *oldProjectID, proposal.ID, now)
	}
	s.syncProposalRef(ctx, projectID, proposal, now)

	resp := ToProposalResponse(proposal)
	return &resp, nil
}

// Delete removes a proposal. The linked project's summary slot is cleared
// afterwards, but only when it still points at this proposal.
func (s *ProposalService) Delete(ctx context.Context, id uuid.UUID) error {
	proposal, err := s.proposalRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.proposalRepo.Delete(ctx, id); err != nil {
		return err
	}

	if proposal.ProjectID != nil {
		s.clearProposalRef(ctx, *proposal.ProjectID, proposal.ID, s.clock.Now())
	}
	return nil
}

// syncProposalRef is a best-effort secondary write: it overwrites the
// project's proposal summary slot (last write wins).
func (s *ProposalService) syncProposalRef(ctx context.Context, projectID uuid.UUID, proposal *crm.Proposal, now time.Time) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		s.logger.Warn("failed to load project while syncing proposal summary",
			zap.String("project_id", projectID.String()),
			zap.String("proposal_id", proposal.ID.String()),
			zap.Error(err))
		return
	}
	project.SetProposalRef(proposal.Ref(), now)
	if err := s.projectRepo.Save(ctx, project); err != nil {
		s.logger.Warn("failed to sync proposal summary to project",
			zap.String("project_id", projectID.String()),
			zap.String("proposal_id", proposal.ID.String()),
			zap.Error(err))
	}
}

// clearProposalRef is a best-effort secondary write
func (s *ProposalService) clearProposalRef(ctx context.Context, projectID, proposalID uuid.UUID, now time.Time) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		s.logger.Warn("failed to load project while clearing proposal summary",
			zap.String("project_id", projectID.String()),
			zap.String("proposal_id", proposalID.String()),
			zap.Error(err))
		return
	}
	if !project.ClearProposalRef(proposalID, now) {
		return
	}
	if err := s.projectRepo.Save(ctx, project); err != nil {
		s.logger.Warn("failed to clear proposal summary from project",
			zap.String("project_id", projectID.String()),
			zap.String("proposal_id", proposalID.String()),
			zap.Error(err))
	}
}
