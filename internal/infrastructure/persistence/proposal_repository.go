package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/egma/backend/internal/domain/crm"
	"github.com/egma/backend/internal/domain/shared"
	"github.com/egma/backend/internal/infrastructure/persistence/models"
)

// GormProposalRepository implements ProposalRepository using GORM
type GormProposalRepository struct {
	db *gorm.DB
}

// NewGormProposalRepository creates a new GormProposalRepository
func NewGormProposalRepository(db *gorm.DB) *GormProposalRepository {
	return &GormProposalRepository{db: db}
}

// FindByID finds a proposal by its ID
func (r *GormProposalRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Proposal, error) {
	var model models.ProposalModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByProjectID finds proposals referencing a project
func (r *GormProposalRepository) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]crm.Proposal, error) {
	var proposalModels []models.ProposalModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&proposalModels).Error; err != nil {
		return nil, err
	}

	proposals := make([]crm.Proposal, len(proposalModels))
	for i, model := range proposalModels {
		proposals[i] = *model.ToDomain()
	}
	return proposals, nil
}

// FindAll finds all proposals matching the filter
func (r *GormProposalRepository) FindAll(ctx context.Context, filter shared.Filter) ([]crm.Proposal, error) {
	var proposalModels []models.ProposalModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProposalModel{}), filter)

	if err := query.Find(&proposalModels).Error; err != nil {
		return nil, err
	}

	proposals := make([]crm.Proposal, len(proposalModels))
	for i, model := range proposalModels {
		proposals[i] = *model.ToDomain()
	}
	return proposals, nil
}

// FindByStatus finds proposals in the given status
func (r *GormProposalRepository) FindByStatus(ctx context.Context, status crm.ProposalStatus, filter shared.Filter) ([]crm.Proposal, error) {
	var proposalModels []models.ProposalModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.ProposalModel{}).
			Where("status = ?", status),
		filter,
	)

	if err := query.Find(&proposalModels).Error; err != nil {
		return nil, err
	}

	proposals := make([]crm.Proposal, len(proposalModels))
	for i, model := range proposalModels {
		proposals[i] = *model.ToDomain()
	}
	return proposals, nil
}

// Save creates or updates a proposal
func (r *GormProposalRepository) Save(ctx context.Context, proposal *crm.Proposal) error {
	model := models.ProposalModelFromDomain(proposal)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a proposal
func (r *GormProposalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProposalModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts proposals matching the filter
func (r *GormProposalRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ProposalModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormProposalRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply sorting with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, ProposalSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	// Apply pagination
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		offset := (filter.Page - 1) * filter.PageSize
		if offset > 0 {
			query = query.Offset(offset)
		}
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormProposalRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(title ILIKE ? OR client_name ILIKE ? OR client_email ILIKE ?)",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "project_id":
			query = query.Where("project_id = ?", value)
		}
	}

	return query
}

// Ensure GormProposalRepository implements ProposalRepository
var _ crm.ProposalRepository = (*GormProposalRepository)(nil)
