package handler

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/ardikasatria/gymdesk/internal/domain"
	"github.com/ardikasatria/gymdesk/internal/service"
)

// MemberHandler handles member directory endpoints
type MemberHandler struct {
	memberService *service.MemberService
	memberRepo    domain.MemberRepository
	maxUploadMB   int64
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(memberService *service.MemberService, memberRepo domain.MemberRepository, maxUploadMB int64) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
		memberRepo:    memberRepo,
		maxUploadMB:   maxUploadMB,
	}
}

// MemberRequest is the payload for create and update
type MemberRequest struct {
	FullName         string `json:"full_name"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	DateOfBirth      string `json:"date_of_birth"`
	Gender           string `json:"gender"`
	Address          string `json:"address"`
	EmergencyName    string `json:"emergency_name"`
	EmergencyContact string `json:"emergency_contact"`
	JoinDate         string `json:"join_date"`
}

func (r *MemberRequest) toDomain() *domain.Member {
	return &domain.Member{
		FullName:         r.FullName,
		Phone:            r.Phone,
		Email:            r.Email,
		DateOfBirth:      r.DateOfBirth,
		Gender:           r.Gender,
		Address:          r.Address,
		EmergencyName:    r.EmergencyName,
		EmergencyContact: r.EmergencyContact,
		JoinDate:         r.JoinDate,
	}
}

// CreateMember handles POST /v1/members
func (h *MemberHandler) CreateMember(c *fiber.Ctx) error {
	var req MemberRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body: " + err.Error(),
		})
	}

	member, err := h.memberService.CreateMember(c.UserContext(), req.toDomain())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(member)
}

// ListMembers handles GET /v1/members
// Query params: active=true limits to active members, q searches by
// code, name or phone.
func (h *MemberHandler) ListMembers(c *fiber.Ctx) error {
	if q := c.Query("q"); q != "" {
		limit := int64(c.QueryInt("limit", 20))
		members, err := h.memberRepo.Search(c.UserContext(), q, limit)
		if err != nil {
			return err
		}
		return c.JSON(members)
	}

	if c.QueryBool("active", false) {
		members, err := h.memberRepo.GetActiveMembers(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(members)
	}

	members, err := h.memberRepo.GetAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(members)
}

// GetMember handles GET /v1/members/:id
func (h *MemberHandler) GetMember(c *fiber.Ctx) error {
	member, err := h.memberRepo.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(member)
}

// UpdateMember handles PUT /v1/members/:id
func (h *MemberHandler) UpdateMember(c *fiber.Ctx) error {
	var req MemberRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body: " + err.Error(),
		})
	}

	existing, err := h.memberRepo.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	member := req.toDomain()
	member.ID = existing.ID
	member.IsActive = existing.IsActive
	member.PhotoURL = existing.PhotoURL
	if member.JoinDate == "" {
		member.JoinDate = existing.JoinDate
	}

	if err := h.memberService.UpdateMember(c.UserContext(), member); err != nil {
		return err
	}
	return c.JSON(member)
}

// DeleteMember handles DELETE /v1/members/:id. Memberships, payments
// and check-ins of the member go with it.
func (h *MemberHandler) DeleteMember(c *fiber.Ctx) error {
	if err := h.memberService.DeleteMember(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// UploadPhoto handles POST /v1/members/:id/photo
func (h *MemberHandler) UploadPhoto(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid multipart form: " + err.Error(),
		})
	}

	files := form.File["photo"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "missing 'photo' field in form data",
		})
	}

	fileHeader := files[0]
	if fileHeader.Size > h.maxUploadMB*1024*1024 {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"success": false,
			"error":   "photo exceeds upload size limit",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "failed to open uploaded file",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "failed to read uploaded file",
		})
	}

	url, err := h.memberService.UploadPhoto(c.UserContext(), c.Params("id"), data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "photo_url": url})
}
