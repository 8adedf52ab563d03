package router

import (
	"github.com/egma/backend/internal/interfaces/http/handler"
)

// AuthRoutes builds the authentication route group
func AuthRoutes(h *handler.AuthHandler) *DomainGroup {
	g := NewDomainGroup("auth", "/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/refresh", h.Refresh)
	g.POST("/logout", h.Logout)
	g.GET("/me", h.Me)
	g.POST("/change-password", h.ChangePassword)
	return g
}

// ProjectRoutes builds the project route group
func ProjectRoutes(h *handler.ProjectHandler) *DomainGroup {
	g := NewDomainGroup("projects", "/projects")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	return g
}

// ProposalRoutes builds the proposal route group
func ProposalRoutes(h *handler.ProposalHandler) *DomainGroup {
	g := NewDomainGroup("proposals", "/proposals")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.PATCH("/:id/status", h.ChangeStatus)
	g.POST("/:id/link/:projectId", h.LinkToProject)
	g.GET("/:id/document", h.Document)
	return g
}

// InvoiceRoutes builds the invoice route group
func InvoiceRoutes(h *handler.InvoiceHandler) *DomainGroup {
	g := NewDomainGroup("invoices", "/invoices")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.POST("/generate/:projectId", h.GenerateFromProject)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/payments", h.AddPayment)
	g.GET("/:id/payment-status", h.PaymentStatus)
	g.GET("/:id/pdf", h.PDF)
	return g
}

// DashboardRoutes builds the dashboard route group
func DashboardRoutes(h *handler.DashboardHandler) *DomainGroup {
	g := NewDomainGroup("dashboard", "/dashboard")
	g.GET("/stats", h.Stats)
	g.GET("/financial-summary", h.FinancialSummary)
	return g
}

// SystemRoutes builds the system route group
func SystemRoutes(h *handler.SystemHandler) *DomainGroup {
	g := NewDomainGroup("system", "/system")
	g.GET("/info", h.GetSystemInfo)
	return g
}
