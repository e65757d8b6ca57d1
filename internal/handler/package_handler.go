package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ardikasatria/gymdesk/internal/domain"
	"github.com/ardikasatria/gymdesk/internal/service"
)

// PackageHandler handles package catalog endpoints
type PackageHandler struct {
	packageService *service.PackageService
	packageRepo    domain.PackageRepository
}

// NewPackageHandler creates a new PackageHandler
func NewPackageHandler(packageService *service.PackageService, packageRepo domain.PackageRepository) *PackageHandler {
	return &PackageHandler{packageService: packageService, packageRepo: packageRepo}
}

// PackageRequest is the payload for create and update
type PackageRequest struct {
	PackageName  string `json:"package_name"`
	Description  string `json:"description"`
	DurationDays int    `json:"duration_days"`
	Price        int64  `json:"price"`
	IsActive     *bool  `json:"is_active"`
}

// CreatePackage handles POST /v1/packages
func (h *PackageHandler) CreatePackage(c *fiber.Ctx) error {
	var req PackageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body: " + err.Error(),
		})
	}

	pkg := &domain.Package{
		PackageName:  req.PackageName,
		Description:  req.Description,
		DurationDays: req.DurationDays,
		Price:        req.Price,
		IsActive:     true,
	}
	if req.IsActive != nil {
		pkg.IsActive = *req.IsActive
	}

	if err := h.packageService.CreatePackage(c.UserContext(), pkg); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(pkg)
}

// ListPackages handles GET /v1/packages
// Query param active=true limits to packages offered for new signups.
func (h *PackageHandler) ListPackages(c *fiber.Ctx) error {
	if c.QueryBool("active", false) {
		packages, err := h.packageRepo.GetActivePackages(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(packages)
	}

	packages, err := h.packageRepo.GetAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(packages)
}

// GetPackage handles GET /v1/packages/:id
func (h *PackageHandler) GetPackage(c *fiber.Ctx) error {
	pkg, err := h.packageRepo.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(pkg)
}

// UpdatePackage handles PUT /v1/packages/:id. Existing memberships keep
// the price and duration they were sold with.
func (h *PackageHandler) UpdatePackage(c *fiber.Ctx) error {
	var req PackageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body: " + err.Error(),
		})
	}

	existing, err := h.packageRepo.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	pkg := &domain.Package{
		ID:           existing.ID,
		PackageName:  req.PackageName,
		Description:  req.Description,
		DurationDays: req.DurationDays,
		Price:        req.Price,
		IsActive:     existing.IsActive,
	}
	if req.IsActive != nil {
		pkg.IsActive = *req.IsActive
	}

	if err := h.packageService.UpdatePackage(c.UserContext(), pkg); err != nil {
		return err
	}
	return c.JSON(pkg)
}

// DeletePackage handles DELETE /v1/packages/:id. A package referenced
// by an active membership cannot be removed.
func (h *PackageHandler) DeletePackage(c *fiber.Ctx) error {
	if err := h.packageService.DeletePackage(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
