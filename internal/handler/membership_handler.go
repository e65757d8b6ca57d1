package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ardikasatria/gymdesk/internal/service"
)

// MembershipHandler handles membership ledger endpoints
type MembershipHandler struct {
	membershipService *service.MembershipService
}

// NewMembershipHandler creates a new MembershipHandler
func NewMembershipHandler(membershipService *service.MembershipService) *MembershipHandler {
	return &MembershipHandler{membershipService: membershipService}
}

// CreateMembershipRequest is the payload for opening a membership
type CreateMembershipRequest struct {
	MemberID  string `json:"member_id"`
	PackageID string `json:"package_id"`
	Notes     string `json:"notes"`
}

// CreateMembership handles POST /v1/memberships. The response carries
// the membership and, when the dependent payment step failed, a
// payment_warning field instead of an error status.
func (h *MembershipHandler) CreateMembership(c *fiber.Ctx) error {
	var req CreateMembershipRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body: " + err.Error(),
		})
	}

	result, err := h.membershipService.CreateMembership(c.UserContext(), req.MemberID, req.PackageID, req.Notes)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// GetMembership handles GET /v1/memberships/:id
func (h *MembershipHandler) GetMembership(c *fiber.Ctx) error {
	membership, err := h.membershipService.GetMembership(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(membership)
}

// ListMemberMemberships handles GET /v1/members/:id/memberships
func (h *MembershipHandler) ListMemberMemberships(c *fiber.Ctx) error {
	memberships, err := h.membershipService.ListMemberMemberships(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(memberships)
}

// GetActiveMembership handles GET /v1/members/:id/memberships/active
func (h *MembershipHandler) GetActiveMembership(c *fiber.Ctx) error {
	membership, err := h.membershipService.ActiveMembership(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(membership)
}

// CancelMembership handles POST /v1/memberships/:id/cancel
func (h *MembershipHandler) CancelMembership(c *fiber.Ctx) error {
	if err := h.membershipService.CancelMembership(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
