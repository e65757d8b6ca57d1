package handler

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ardikasatria/gymdesk/internal/service"
)

// DefaultExpiringWindowDays is the dashboard's expiring-soon horizon.
const DefaultExpiringWindowDays = 7

// ReportHandler handles reporting and export endpoints
type ReportHandler struct {
	reportService *service.ReportService
	exportService *service.ExportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService, exportService *service.ExportService) *ReportHandler {
	return &ReportHandler{reportService: reportService, exportService: exportService}
}

// Dashboard handles GET /v1/reports/dashboard
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	days := c.QueryInt("expiring_within_days", DefaultExpiringWindowDays)
	stats, err := h.reportService.DashboardStats(c.UserContext(), days)
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// Revenue handles GET /v1/reports/revenue
// Query params: from, to (YYYY-MM-DD, required).
func (h *ReportHandler) Revenue(c *fiber.Ctx) error {
	summary, err := h.reportService.RevenueSummary(c.UserContext(), c.Query("from"), c.Query("to"))
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// ExpiringMemberships handles GET /v1/reports/expiring
func (h *ReportHandler) ExpiringMemberships(c *fiber.Ctx) error {
	days := c.QueryInt("within_days", DefaultExpiringWindowDays)
	expiring, err := h.reportService.ExpiringMemberships(c.UserContext(), days)
	if err != nil {
		return err
	}
	return c.JSON(expiring)
}

// ExportCheckIns handles GET /v1/reports/export/checkins
// Query params: from, to (YYYY-MM-DD, required), member_id (optional).
func (h *ReportHandler) ExportCheckIns(c *fiber.Ctx) error {
	data, err := h.exportService.CheckInHistoryCSV(c.UserContext(), c.Query("from"), c.Query("to"), c.Query("member_id"))
	if err != nil {
		return err
	}
	return sendCSV(c, fmt.Sprintf("checkins-%s", time.Now().Format("20060102")), data)
}

// ExportFinancial handles GET /v1/reports/export/financial
// Query params: from, to (YYYY-MM-DD, required), status (optional).
func (h *ReportHandler) ExportFinancial(c *fiber.Ctx) error {
	data, err := h.exportService.FinancialCSV(c.UserContext(), c.Query("from"), c.Query("to"), c.Query("status"))
	if err != nil {
		return err
	}
	return sendCSV(c, fmt.Sprintf("financial-%s", time.Now().Format("20060102")), data)
}

func sendCSV(c *fiber.Ctx, name string, data []byte) error {
	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, name))
	return c.Send(data)
}
