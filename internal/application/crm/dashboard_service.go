package crm

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/egma/backend/internal/domain/crm"
	"github.com/egma/backend/internal/domain/shared"
)

// dashboardScanPageSize bounds how many invoices are loaded per page when
// aggregating money figures in memory.
const dashboardScanPageSize = 500

// DashboardService aggregates headline numbers across projects and invoices
type DashboardService struct {
	projectRepo crm.ProjectRepository
	invoiceRepo crm.InvoiceRepository
	logger      *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	projectRepo crm.ProjectRepository,
	invoiceRepo crm.InvoiceRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		projectRepo: projectRepo,
		invoiceRepo: invoiceRepo,
		logger:      logger,
	}
}

// Stats returns the headline dashboard numbers
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStatsResponse, error) {
	totalProjects, err := s.projectRepo.Count(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}

	pendingInvoices, err := s.invoiceRepo.CountByStatus(ctx, crm.InvoiceStatusPending)
	if err != nil {
		return nil, err
	}

	totalRevenue := decimal.Zero
	err = s.scanInvoices(ctx, func(inv *crm.Invoice) {
		totalRevenue = totalRevenue.Add(inv.AmountPaid)
	})
	if err != nil {
		return nil, err
	}

	return &DashboardStatsResponse{
		TotalProjects:   totalProjects,
		TotalRevenue:    totalRevenue,
		PendingInvoices: pendingInvoices,
	}, nil
}

// FinancialSummary aggregates invoiced, received and outstanding amounts
// across all live invoices. Cancelled invoices are excluded from the totals.
func (s *DashboardService) FinancialSummary(ctx context.Context) (*FinancialSummaryResponse, error) {
	var (
		totalInvoiced    = decimal.Zero
		totalReceived    = decimal.Zero
		totalOutstanding = decimal.Zero
		overdueCount     int64
	)

	err := s.scanInvoices(ctx, func(inv *crm.Invoice) {
		if inv.Status.IsTerminal() {
			return
		}
		totalInvoiced = totalInvoiced.Add(inv.TotalAmount)
		totalReceived = totalReceived.Add(inv.AmountPaid)
		if inv.AmountDue.IsPositive() {
			totalOutstanding = totalOutstanding.Add(inv.AmountDue)
		}
		if inv.Status == crm.InvoiceStatusOverdue {
			overdueCount++
		}
	})
	if err != nil {
		return nil, err
	}

	return &FinancialSummaryResponse{
		TotalInvoiced:    totalInvoiced,
		TotalReceived:    totalReceived,
		TotalOutstanding: totalOutstanding,
		OverdueInvoices:  overdueCount,
	}, nil
}

// scanInvoices walks all invoices page by page and feeds them to fn
func (s *DashboardService) scanInvoices(ctx context.Context, fn func(*crm.Invoice)) error {
	filter := shared.DefaultFilter()
	filter.PageSize = dashboardScanPageSize

	for page := 1; ; page++ {
		filter.Page = page
		invoices, err := s.invoiceRepo.FindAll(ctx, filter)
		if err != nil {
			return err
		}
		for i := range invoices {
			fn(&invoices[i])
		}
		if len(invoices) < filter.PageSize {
			return nil
		}
	}
}
