package handler

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ardikasatria/gymdesk/internal/domain"
	"github.com/ardikasatria/gymdesk/internal/repository"
	"github.com/ardikasatria/gymdesk/internal/service"
)

// TodayCheckInsCacheTTL bounds how stale the front desk board can get.
const TodayCheckInsCacheTTL = 30 * time.Second

// CheckInHandler handles check-in tracker endpoints
type CheckInHandler struct {
	checkInService *service.CheckInService
	cacheRepo      *repository.RedisCacheRepository
}

// NewCheckInHandler creates a new CheckInHandler
func NewCheckInHandler(checkInService *service.CheckInService, cacheRepo *repository.RedisCacheRepository) *CheckInHandler {
	return &CheckInHandler{checkInService: checkInService, cacheRepo: cacheRepo}
}

// CheckInRequest is the payload for recording an arrival
type CheckInRequest struct {
	MemberID string `json:"member_id"`
}

// CheckIn handles POST /v1/checkins
func (h *CheckInHandler) CheckIn(c *fiber.Ctx) error {
	var req CheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body: " + err.Error(),
		})
	}

	checkIn, err := h.checkInService.CheckIn(c.UserContext(), req.MemberID)
	if err != nil {
		return err
	}

	h.invalidateDay(c, checkIn.CheckInDate)
	return c.Status(fiber.StatusCreated).JSON(checkIn)
}

// CheckOut handles POST /v1/checkins/:id/checkout
func (h *CheckInHandler) CheckOut(c *fiber.Ctx) error {
	checkIn, err := h.checkInService.CheckOut(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	h.invalidateDay(c, checkIn.CheckInDate)
	return c.JSON(checkIn)
}

// DeleteCheckIn handles DELETE /v1/checkins/:id
func (h *CheckInHandler) DeleteCheckIn(c *fiber.Ctx) error {
	checkIn, err := h.checkInService.GetCheckIn(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if err := h.checkInService.DeleteCheckIn(c.UserContext(), checkIn.ID); err != nil {
		return err
	}

	h.invalidateDay(c, checkIn.CheckInDate)
	return c.JSON(fiber.Map{"success": true})
}

// TodayCheckIns handles GET /v1/checkins/today. The list is served from
// a short-lived cache; every check-in mutation drops the day's key.
func (h *CheckInHandler) TodayCheckIns(c *fiber.Ctx) error {
	today := time.Now().Format(domain.DateLayout)

	if h.cacheRepo != nil {
		var cached []*domain.CheckIn
		if err := h.cacheRepo.GetTodayCheckIns(c.UserContext(), today, &cached); err == nil {
			return c.JSON(cached)
		}
	}

	checkIns, err := h.checkInService.TodayCheckIns(c.UserContext())
	if err != nil {
		return err
	}

	if h.cacheRepo != nil {
		if err := h.cacheRepo.SetTodayCheckIns(c.UserContext(), today, checkIns, TodayCheckInsCacheTTL); err != nil {
			log.Printf("[CheckIn] Failed to cache today's check-ins: %v", err)
		}
	}
	return c.JSON(checkIns)
}

// History handles GET /v1/checkins
// Query params: from, to (YYYY-MM-DD, required), member_id (optional).
func (h *CheckInHandler) History(c *fiber.Ctx) error {
	checkIns, err := h.checkInService.History(c.UserContext(), c.Query("from"), c.Query("to"), c.Query("member_id"))
	if err != nil {
		return err
	}
	return c.JSON(checkIns)
}

// MemberToday handles GET /v1/members/:id/checkins/today. A 404 means
// the member has not checked in today.
func (h *CheckInHandler) MemberToday(c *fiber.Ctx) error {
	checkIn, err := h.checkInService.MemberCheckInToday(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "no check-in today",
			})
		}
		return err
	}
	return c.JSON(checkIn)
}

func (h *CheckInHandler) invalidateDay(c *fiber.Ctx, date string) {
	if h.cacheRepo == nil {
		return
	}
	if err := h.cacheRepo.InvalidateCheckInDay(c.UserContext(), date); err != nil {
		log.Printf("[CheckIn] Failed to invalidate check-in cache for %s: %v", date, err)
	}
	if err := h.cacheRepo.InvalidateReports(c.UserContext()); err != nil {
		log.Printf("[CheckIn] Failed to invalidate report cache: %v", err)
	}
}
