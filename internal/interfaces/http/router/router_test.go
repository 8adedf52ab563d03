package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRouter_DefaultsToV1(t *testing.T) {
	engine := gin.New()

	invoices := NewDomainGroup("invoices", "/invoices")
	invoices.GET("", func(c *gin.Context) {
		c.String(http.StatusOK, "invoice list")
	})

	NewRouter(engine).Register(invoices).Setup()

	rec := serve(engine, http.MethodGet, "/api/v1/invoices")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "invoice list", rec.Body.String())
}

func TestRouter_WithAPIVersion(t *testing.T) {
	engine := gin.New()

	projects := NewDomainGroup("projects", "/projects")
	projects.GET("", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	NewRouter(engine, WithAPIVersion("v2")).Register(projects).Setup()

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v2/projects").Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/projects").Code)
}

func TestDomainGroup_AllMethods(t *testing.T) {
	engine := gin.New()

	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	invoices := NewDomainGroup("invoices", "/invoices")
	invoices.POST("", ok).
		GET("/:id", ok).
		PUT("/:id", ok).
		PATCH("/:id/status", ok).
		DELETE("/:id", ok)

	api := engine.Group("/api/v1")
	invoices.RegisterRoutes(api)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/invoices"},
		{http.MethodGet, "/api/v1/invoices/inv-1"},
		{http.MethodPut, "/api/v1/invoices/inv-1"},
		{http.MethodPatch, "/api/v1/invoices/inv-1/status"},
		{http.MethodDelete, "/api/v1/invoices/inv-1"},
	}
	for _, tt := range tests {
		assert.Equal(t, http.StatusOK, serve(engine, tt.method, tt.path).Code,
			"%s %s", tt.method, tt.path)
	}
}

func TestDomainGroup_HandlerChains(t *testing.T) {
	engine := gin.New()

	proposals := NewDomainGroup("proposals", "/proposals")
	proposals.GET("/:id/document",
		func(c *gin.Context) {
			c.Header("Content-Disposition", `attachment; filename="proposal.docx"`)
			c.Next()
		},
		func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

	api := engine.Group("/api/v1")
	proposals.RegisterRoutes(api)

	rec := serve(engine, http.MethodGet, "/api/v1/proposals/p-1/document")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "proposal.docx")
}

func TestRouter_MountsMultipleDomains(t *testing.T) {
	engine := gin.New()

	projects := NewDomainGroup("projects", "/projects")
	projects.GET("", func(c *gin.Context) { c.String(http.StatusOK, "projects") })

	dashboard := NewDomainGroup("dashboard", "/dashboard")
	dashboard.GET("/stats", func(c *gin.Context) { c.String(http.StatusOK, "stats") })

	NewRouter(engine).Register(projects).Register(dashboard).Setup()

	assert.Equal(t, "projects", serve(engine, http.MethodGet, "/api/v1/projects").Body.String())
	assert.Equal(t, "stats", serve(engine, http.MethodGet, "/api/v1/dashboard/stats").Body.String())
}
