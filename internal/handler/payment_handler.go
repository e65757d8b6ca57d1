package handler

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/ardikasatria/gymdesk/internal/repository"
	"github.com/ardikasatria/gymdesk/internal/service"
)

// PaymentHandler handles payment recorder endpoints
type PaymentHandler struct {
	paymentService *service.PaymentService
	invoiceDocs    *service.InvoiceDocService
	cacheRepo      *repository.RedisCacheRepository
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *service.PaymentService, invoiceDocs *service.InvoiceDocService, cacheRepo *repository.RedisCacheRepository) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		invoiceDocs:    invoiceDocs,
		cacheRepo:      cacheRepo,
	}
}

// RecordPaymentRequest is the payload for a manual payment record
type RecordPaymentRequest struct {
	MemberID      string `json:"member_id"`
	MembershipID  string `json:"membership_id"`
	Amount        int64  `json:"amount"`
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes"`
}

// RecordPayment handles POST /v1/payments
func (h *PaymentHandler) RecordPayment(c *fiber.Ctx) error {
	var req RecordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body: " + err.Error(),
		})
	}

	payment, err := h.paymentService.RecordPayment(c.UserContext(), service.RecordPaymentInput{
		MemberID:      req.MemberID,
		MembershipID:  req.MembershipID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		return err
	}

	h.invalidateReports(c)
	return c.Status(fiber.StatusCreated).JSON(payment)
}

// ListPayments handles GET /v1/payments
// Query params: from, to (YYYY-MM-DD, required), status (optional).
func (h *PaymentHandler) ListPayments(c *fiber.Ctx) error {
	payments, err := h.paymentService.ListPayments(c.UserContext(), c.Query("from"), c.Query("to"), c.Query("status"))
	if err != nil {
		return err
	}
	return c.JSON(payments)
}

// GetPayment handles GET /v1/payments/:id
func (h *PaymentHandler) GetPayment(c *fiber.Ctx) error {
	payment, err := h.paymentService.GetPayment(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(payment)
}

// ListMemberPayments handles GET /v1/members/:id/payments
func (h *PaymentHandler) ListMemberPayments(c *fiber.Ctx) error {
	payments, err := h.paymentService.ListMemberPayments(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(payments)
}

// DeletePayment handles DELETE /v1/payments/:id. The linked membership
// keeps its dates and status.
func (h *PaymentHandler) DeletePayment(c *fiber.Ctx) error {
	if err := h.paymentService.DeletePayment(c.UserContext(), c.Params("id")); err != nil {
		return err
	}

	h.invalidateReports(c)
	return c.JSON(fiber.Map{"success": true})
}

// InvoiceDocument handles GET /v1/payments/:id/invoice and returns a
// printable HTML document.
func (h *PaymentHandler) InvoiceDocument(c *fiber.Ctx) error {
	doc, err := h.invoiceDocs.Render(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.Send(doc)
}

func (h *PaymentHandler) invalidateReports(c *fiber.Ctx) {
	if h.cacheRepo == nil {
		return
	}
	if err := h.cacheRepo.InvalidateReports(c.UserContext()); err != nil {
		log.Printf("[Payment] Failed to invalidate report cache: %v", err)
	}
}
