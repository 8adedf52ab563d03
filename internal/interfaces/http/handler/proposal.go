package handler

import (
	"net/http"

	crmapp "github.com/egma/backend/internal/application/crm"
	"github.com/egma/backend/internal/domain/crm"
	"github.com/egma/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProposalHandler handles proposal API endpoints
type ProposalHandler struct {
	BaseHandler
	proposalService *crmapp.ProposalService
	documentService *crmapp.DocumentService
}

// NewProposalHandler creates a new ProposalHandler
func NewProposalHandler(proposalService *crmapp.ProposalService, documentService *crmapp.DocumentService) *ProposalHandler {
	return &ProposalHandler{
		proposalService: proposalService,
		documentService: documentService,
	}
}

// Create creates a new proposal
func (h *ProposalHandler) Create(c *gin.Context) {
	var req crmapp.CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	proposal, err := h.proposalService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, proposal)
}

// Get returns a single proposal
func (h *ProposalHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid proposal ID")
		return
	}

	proposal, err := h.proposalService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, proposal)
}

// List returns a page of proposals
func (h *ProposalHandler) List(c *gin.Context) {
	var filter crmapp.ProposalListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.proposalService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update updates a proposal
func (h *ProposalHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid proposal ID")
		return
	}

	var req crmapp.UpdateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	proposal, err := h.proposalService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, proposal)
}

// ChangeStatus moves a proposal through its lifecycle
func (h *ProposalHandler) ChangeStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid proposal ID")
		return
	}

	var req crmapp.ChangeProposalStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	proposal, err := h.proposalService.ChangeStatus(c.Request.Context(), id, crm.ProposalStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, proposal)
}

// LinkToProject binds a proposal to a project
func (h *ProposalHandler) LinkToProject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid proposal ID")
		return
	}

	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}

	proposal, err := h.proposalService.LinkToProject(c.Request.Context(), id, projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, proposal)
}

// Delete deletes a proposal
func (h *ProposalHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid proposal ID")
		return
	}

	if err := h.proposalService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Document downloads the proposal as a Word document
func (h *ProposalHandler) Document(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid proposal ID")
		return
	}

	doc, err := h.documentService.ProposalDocx(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}
