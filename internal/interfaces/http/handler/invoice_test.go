package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	crmapp "github.com/egma/backend/internal/application/crm"
	"github.com/egma/backend/internal/domain/crm"
	"github.com/egma/backend/internal/domain/shared"
	"github.com/egma/backend/internal/domain/shared/valueobject"
	"github.com/egma/backend/internal/infrastructure/printing"
	"github.com/egma/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockInvoiceRepository implements crm.InvoiceRepository for testing
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByProjectID(ctx context.Context, projectID uuid.UUID) (*crm.Invoice, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]crm.Invoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]crm.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByStatus(ctx context.Context, status crm.InvoiceStatus, filter shared.Filter) ([]crm.Invoice, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]crm.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *crm.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) CountByStatus(ctx context.Context, status crm.InvoiceStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockProjectRepository implements crm.ProjectRepository for testing
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Project), args.Error(1)
}

func (m *MockProjectRepository) FindAll(ctx context.Context, filter shared.Filter) ([]crm.Project, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]crm.Project), args.Error(1)
}

func (m *MockProjectRepository) FindByStatus(ctx context.Context, status crm.ProjectStatus, filter shared.Filter) ([]crm.Project, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]crm.Project), args.Error(1)
}

func (m *MockProjectRepository) Save(ctx context.Context, project *crm.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProjectRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockProposalRepository implements crm.ProposalRepository for testing
type MockProposalRepository struct {
	mock.Mock
}

func (m *MockProposalRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Proposal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Proposal), args.Error(1)
}

func (m *MockProposalRepository) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]crm.Proposal, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]crm.Proposal), args.Error(1)
}

func (m *MockProposalRepository) FindAll(ctx context.Context, filter shared.Filter) ([]crm.Proposal, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]crm.Proposal), args.Error(1)
}

func (m *MockProposalRepository) FindByStatus(ctx context.Context, status crm.ProposalStatus, filter shared.Filter) ([]crm.Proposal, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]crm.Proposal), args.Error(1)
}

func (m *MockProposalRepository) Save(ctx context.Context, proposal *crm.Proposal) error {
	args := m.Called(ctx, proposal)
	return args.Error(0)
}

func (m *MockProposalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProposalRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// stubNumbers returns a fixed invoice number
type stubNumbers struct{}

func (stubNumbers) Next() string { return "INV-2025-0001" }

// stubRenderer returns canned PDF bytes
type stubRenderer struct{}

func (stubRenderer) Render(_ context.Context, _ *printing.RenderRequest) (*printing.RenderResult, error) {
	return &printing.RenderResult{PDFData: []byte("%PDF-1.4 stub"), PageCount: 1}, nil
}

func (stubRenderer) Close() error { return nil }

func newInvoiceHandlerFixture(invoiceRepo *MockInvoiceRepository, projectRepo *MockProjectRepository) *InvoiceHandler {
	clock := shared.FixedClock{Time: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	invoiceService := crmapp.NewInvoiceService(invoiceRepo, projectRepo, stubNumbers{}, clock, zap.NewNop())
	documentService := crmapp.NewDocumentService(
		invoiceRepo,
		&MockProposalRepository{},
		printing.NewInvoiceDocumentBuilder(nil),
		stubRenderer{},
		printing.NewProposalDocxWriter(),
		zap.NewNop(),
	)
	return NewInvoiceHandler(invoiceService, documentService)
}

func newInvoiceRouter(h *InvoiceHandler) *gin.Engine {
	router := gin.New()
	api := router.Group("/api/v1/invoices")
	api.POST("", h.Create)
	api.GET("/:id", h.Get)
	api.POST("/:id/payments", h.AddPayment)
	api.GET("/:id/payment-status", h.PaymentStatus)
	api.GET("/:id/pdf", h.PDF)
	return router
}

func sampleInvoice(t *testing.T) *crm.Invoice {
	t.Helper()
	inv, err := crm.NewInvoice(
		crm.ContactInfo{Name: "Globex", Email: "ap@globex.test"},
		valueobject.Currency("INR"),
		time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC),
		crm.LineItems{
			{Description: "Brand refresh", Quantity: 1, UnitPrice: decimal.NewFromInt(100000), TaxRate: decimal.NewFromInt(18)},
		},
		decimal.Zero,
	)
	require.NoError(t, err)
	inv.InvoiceNumber = "INV-2025-0042"
	inv.Recalculate(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	return inv
}

func TestInvoiceHandler_Create(t *testing.T) {
	invoiceRepo := &MockInvoiceRepository{}
	projectRepo := &MockProjectRepository{}
	invoiceRepo.On("Save", mock.Anything, mock.AnythingOfType("*crm.Invoice")).Return(nil)

	h := newInvoiceHandlerFixture(invoiceRepo, projectRepo)
	router := newInvoiceRouter(h)

	body := map[string]any{
		"currency": "INR",
		"client":   map[string]any{"name": "Globex", "email": "ap@globex.test"},
		"items": []map[string]any{
			{"description": "Brand refresh", "quantity": 1, "unit_price": "100000", "tax_rate": "18"},
		},
		"due_date": "2025-06-30T00:00:00Z",
	}
	payload, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Success bool                   `json:"success"`
		Data    crmapp.InvoiceResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "INV-2025-0001", resp.Data.InvoiceNumber)
	assert.True(t, resp.Data.Subtotal.Equal(decimal.NewFromInt(100000)))
	assert.True(t, resp.Data.TaxTotal.Equal(decimal.NewFromInt(18000)))
	assert.True(t, resp.Data.TotalAmount.Equal(decimal.NewFromInt(118000)))
	assert.Equal(t, "draft", resp.Data.Status)
	invoiceRepo.AssertExpectations(t)
}

func TestInvoiceHandler_Create_ValidationError(t *testing.T) {
	h := newInvoiceHandlerFixture(&MockInvoiceRepository{}, &MockProjectRepository{})
	router := newInvoiceRouter(h)

	// Missing required client and due_date
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), dto.ErrCodeValidation)
}

func TestInvoiceHandler_Get_NotFound(t *testing.T) {
	invoiceRepo := &MockInvoiceRepository{}
	invoiceRepo.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

	h := newInvoiceHandlerFixture(invoiceRepo, &MockProjectRepository{})
	router := newInvoiceRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), dto.ErrCodeNotFound)
}

func TestInvoiceHandler_Get_InvalidID(t *testing.T) {
	h := newInvoiceHandlerFixture(&MockInvoiceRepository{}, &MockProjectRepository{})
	router := newInvoiceRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInvoiceHandler_AddPayment(t *testing.T) {
	inv := sampleInvoice(t)

	invoiceRepo := &MockInvoiceRepository{}
	invoiceRepo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
	invoiceRepo.On("Save", mock.Anything, mock.AnythingOfType("*crm.Invoice")).Return(nil)

	h := newInvoiceHandlerFixture(invoiceRepo, &MockProjectRepository{})
	router := newInvoiceRouter(h)

	body := map[string]any{
		"amount": "50000",
		"method": "upi",
		"upi_id": "globex@okbank",
	}
	payload, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/"+inv.ID.String()+"/payments", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data crmapp.InvoiceResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Data.AmountPaid.Equal(decimal.NewFromInt(50000)))
	assert.True(t, resp.Data.AmountDue.Equal(decimal.NewFromInt(68000)))
	assert.Equal(t, "partially_paid", resp.Data.Status)
}

func TestInvoiceHandler_AddPayment_NegativeAmount(t *testing.T) {
	inv := sampleInvoice(t)

	invoiceRepo := &MockInvoiceRepository{}
	invoiceRepo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)

	h := newInvoiceHandlerFixture(invoiceRepo, &MockProjectRepository{})
	router := newInvoiceRouter(h)

	body := map[string]any{
		"amount": "-100",
		"method": "cash",
	}
	payload, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/"+inv.ID.String()+"/payments", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), dto.ErrCodeInvalidPayment)
}

func TestInvoiceHandler_PaymentStatus(t *testing.T) {
	inv := sampleInvoice(t)

	invoiceRepo := &MockInvoiceRepository{}
	invoiceRepo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)

	h := newInvoiceHandlerFixture(invoiceRepo, &MockProjectRepository{})
	router := newInvoiceRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/"+inv.ID.String()+"/payment-status", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data crmapp.PaymentStatusResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INV-2025-0042", resp.Data.InvoiceNumber)
	assert.True(t, resp.Data.AmountDue.Equal(decimal.NewFromInt(118000)))
}

func TestInvoiceHandler_PDF(t *testing.T) {
	inv := sampleInvoice(t)

	invoiceRepo := &MockInvoiceRepository{}
	invoiceRepo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)

	h := newInvoiceHandlerFixture(invoiceRepo, &MockProjectRepository{})
	router := newInvoiceRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/"+inv.ID.String()+"/pdf", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "INV-2025-0042.pdf")
	assert.NotEmpty(t, rec.Body.Bytes())
}
