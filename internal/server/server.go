package server

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ardikasatria/gymdesk/internal/config"
	"github.com/ardikasatria/gymdesk/internal/domain"
	"github.com/ardikasatria/gymdesk/internal/handler"
	"github.com/ardikasatria/gymdesk/internal/middleware"
	"github.com/ardikasatria/gymdesk/internal/repository"
	"github.com/ardikasatria/gymdesk/internal/service"
	"github.com/ardikasatria/gymdesk/internal/telemetry"
)

// idempotencyTTL is how long a correlation ID shields against a retry.
const idempotencyTTL = 10 * time.Minute

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config      *config.Config
	MongoDB     *mongo.Database
	RedisClient *redis.Client
	AuthClient  service.FirebaseAuthClient
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	ctx := context.Background()

	// Initialize repositories. Constructors that create unique indexes
	// can fail; without those indexes the duplicate guards are gone, so
	// this is fatal.
	memberRepo, err := repository.NewMongoMemberRepository(ctx, deps.MongoDB)
	if err != nil {
		log.Fatalf("failed to initialize member repository: %v", err)
	}
	checkInRepo, err := repository.NewMongoCheckInRepository(ctx, deps.MongoDB)
	if err != nil {
		log.Fatalf("failed to initialize check-in repository: %v", err)
	}
	paymentRepo, err := repository.NewMongoPaymentRepository(ctx, deps.MongoDB)
	if err != nil {
		log.Fatalf("failed to initialize payment repository: %v", err)
	}
	packageRepo := repository.NewMongoPackageRepository(deps.MongoDB)
	membershipRepo := repository.NewMongoMembershipRepository(deps.MongoDB)
	counterRepo := repository.NewMongoCounterRepository(deps.MongoDB)
	staffRepo := repository.NewMongoStaffRepository(deps.MongoDB)
	cacheRepo := repository.NewRedisCacheRepository(deps.RedisClient)

	// Photo storage is optional; without it the photo endpoint reports
	// the storage as unavailable.
	var fileRepo domain.FileRepository
	if deps.Config.S3.Endpoint != "" {
		if s3Repo, err := repository.NewSeaweedS3Repository(ctx, deps.Config.S3); err != nil {
			log.Printf("Warning: Failed to initialize S3 repository: %v", err)
		} else {
			fileRepo = s3Repo
		}
	}

	// Initialize services
	paymentService := service.NewPaymentService(paymentRepo, counterRepo)
	membershipService := service.NewMembershipService(membershipRepo, packageRepo, memberRepo, paymentService)
	checkInService := service.NewCheckInService(checkInRepo, membershipService)
	memberService := service.NewMemberService(memberRepo, membershipRepo, paymentRepo, checkInRepo, counterRepo, fileRepo)
	packageService := service.NewPackageService(packageRepo, membershipRepo)
	reportService := service.NewReportService(memberRepo, paymentRepo, checkInRepo, membershipRepo, cacheRepo)
	exportService := service.NewExportService(memberRepo, checkInRepo, paymentRepo)
	invoiceDocService := service.NewInvoiceDocService(paymentRepo, memberRepo, membershipRepo, packageRepo)
	authService := service.NewAuthService(staffRepo, deps.AuthClient, deps.Config.JWT.Secret)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	memberHandler := handler.NewMemberHandler(memberService, memberRepo, deps.Config.Server.MaxUploadSizeMB)
	packageHandler := handler.NewPackageHandler(packageService, packageRepo)
	membershipHandler := handler.NewMembershipHandler(membershipService)
	checkInHandler := handler.NewCheckInHandler(checkInService, cacheRepo)
	paymentHandler := handler.NewPaymentHandler(paymentService, invoiceDocService, cacheRepo)
	reportHandler := handler.NewReportHandler(reportService, exportService)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Gymdesk API",
		BodyLimit:    int(deps.Config.Server.MaxUploadSizeMB * 1024 * 1024),
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	if deps.Config.OTEL.Enabled {
		app.Use(telemetry.FiberMiddleware())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Correlation-ID",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "gymdesk",
		})
	})

	// API v1 routes
	v1 := app.Group("/v1")

	// Auth endpoints (public)
	auth := v1.Group("/auth")
	auth.Post("/login", authHandler.LoginOrRegister)

	// Everything else is staff-only
	api := v1.Group("")
	api.Use(middleware.VerifyGymdeskToken(deps.Config.JWT.Secret))
	api.Use(middleware.AuthorizeRole(domain.RoleAdmin, domain.RoleStaff))
	api.Use(middleware.IdempotencyMiddleware(deps.RedisClient, idempotencyTTL))

	// Member directory
	members := api.Group("/members")
	members.Post("/", memberHandler.CreateMember)
	members.Get("/", memberHandler.ListMembers)
	members.Get("/:id", memberHandler.GetMember)
	members.Put("/:id", memberHandler.UpdateMember)
	members.Post("/:id/photo", memberHandler.UploadPhoto)
	members.Get("/:id/memberships", membershipHandler.ListMemberMemberships)
	members.Get("/:id/memberships/active", membershipHandler.GetActiveMembership)
	members.Get("/:id/payments", paymentHandler.ListMemberPayments)
	members.Get("/:id/checkins/today", checkInHandler.MemberToday)
	// Member deletion cascades; admin only.
	members.Delete("/:id", middleware.AuthorizeRole(domain.RoleAdmin), memberHandler.DeleteMember)

	// Package catalog
	packages := api.Group("/packages")
	packages.Get("/", packageHandler.ListPackages)
	packages.Get("/:id", packageHandler.GetPackage)
	packages.Post("/", middleware.AuthorizeRole(domain.RoleAdmin), packageHandler.CreatePackage)
	packages.Put("/:id", middleware.AuthorizeRole(domain.RoleAdmin), packageHandler.UpdatePackage)
	packages.Delete("/:id", middleware.AuthorizeRole(domain.RoleAdmin), packageHandler.DeletePackage)

	// Membership ledger
	memberships := api.Group("/memberships")
	memberships.Post("/", membershipHandler.CreateMembership)
	memberships.Get("/:id", membershipHandler.GetMembership)
	memberships.Post("/:id/cancel", membershipHandler.CancelMembership)

	// Check-in tracker
	checkins := api.Group("/checkins")
	checkins.Post("/", checkInHandler.CheckIn)
	checkins.Get("/", checkInHandler.History)
	checkins.Get("/today", checkInHandler.TodayCheckIns)
	checkins.Post("/:id/checkout", checkInHandler.CheckOut)
	checkins.Delete("/:id", middleware.AuthorizeRole(domain.RoleAdmin), checkInHandler.DeleteCheckIn)

	// Payment recorder
	payments := api.Group("/payments")
	payments.Post("/", paymentHandler.RecordPayment)
	payments.Get("/", paymentHandler.ListPayments)
	payments.Get("/:id", paymentHandler.GetPayment)
	payments.Get("/:id/invoice", paymentHandler.InvoiceDocument)
	payments.Delete("/:id", middleware.AuthorizeRole(domain.RoleAdmin), paymentHandler.DeletePayment)

	// Reports and exports
	reports := api.Group("/reports")
	reports.Get("/dashboard", reportHandler.Dashboard)
	reports.Get("/revenue", reportHandler.Revenue)
	reports.Get("/expiring", reportHandler.ExpiringMemberships)
	reports.Get("/export/checkins", reportHandler.ExportCheckIns)
	reports.Get("/export/financial", reportHandler.ExportFinancial)

	return app
}

// customErrorHandler maps the domain error taxonomy onto HTTP statuses.
// Handlers return service errors as-is and this is the single place
// deciding the wire shape.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
	case errors.Is(err, domain.ErrNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		code = fiber.StatusConflict
	case errors.Is(err, domain.ErrPreconditionFailed):
		code = fiber.StatusPreconditionFailed
	case errors.Is(err, domain.ErrValidation):
		code = fiber.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		code = fiber.StatusForbidden
	case errors.Is(err, domain.ErrTransient):
		code = fiber.StatusServiceUnavailable
	}

	if code == fiber.StatusInternalServerError {
		log.Printf("Error: %v", err)
	}
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
