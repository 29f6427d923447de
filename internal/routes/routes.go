package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/cache"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/config"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/handlers"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/models"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/services"
)

// Deps are the collaborators the HTTP app is built from. Cache, Notifier and
// LimiterStorage may be nil. The websocket route is mounted only with a running Hub.
type Deps struct {
	Config         config.Config
	DB             *gorm.DB
	Log            *logrus.Logger
	Hub            *realtime.Hub
	Cache          cache.Cache
	Notifier       services.Notifier
	LimiterStorage fiber.Storage
	// Ping reports backing-store health for /health.
	Ping func() error
}

func NewApp(d Deps) *fiber.App {
	cfg := d.Config
	if d.Log == nil {
		d.Log = logrus.New()
	}

	app := fiber.New(fiber.Config{
		AppName:      "gigboard",
		ErrorHandler: handlers.ErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(d.Log))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-Id, X-Active-Role",
		ExposeHeaders: "Content-Length, X-Request-Id, Retry-After",
	}))
	if cfg.RateLimitMax > 0 {
		app.Use(middleware.RateLimit(cfg.RateLimitMax, time.Duration(cfg.RateLimitWindow)*time.Second, d.LimiterStorage))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if d.Ping != nil {
			if err := d.Ping(); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"success": false, "status": "degraded"})
			}
		}
		return c.JSON(fiber.Map{"success": true, "status": "ok"})
	})

	authS := services.NewAuthService(d.DB, cfg.JWTSecret, cfg.JWTExpiresMin, cfg.BcryptCost)
	jobS := services.NewJobService(d.DB, d.Cache, time.Duration(cfg.JobCacheTTL)*time.Second)
	hiringS := services.NewHiringService(d.DB, jobS, d.Notifier)

	authH := handlers.NewAuthHandler(authS)
	jobH := handlers.NewJobHandler(jobS)
	appH := handlers.NewJobApplicationHandler(hiringS)
	statusH := handlers.NewApplicationStatusHandler(hiringS)
	savedH := handlers.NewSavedJobHandler(services.NewSavedJobService(d.DB))
	skillH := handlers.NewSkillHandler(services.NewSkillService(d.DB))
	projectH := handlers.NewProjectHandler(services.NewProjectService(d.DB))
	userH := handlers.NewUserHandler(services.NewUserService(d.DB))
	categoryH := handlers.NewCategoryHandler(jobS)
	dashboardH := handlers.NewDashboardHandler(services.NewDashboardService(d.DB))

	jwt := middleware.JWTFromBearer(cfg.JWTSecret)
	locals := middleware.AttachJWTLocals()
	client := middleware.RequireHeldRoles(authS.HeldRoles, string(models.RoleClient))
	freelancer := middleware.RequireHeldRoles(authS.HeldRoles, string(models.RoleFreelancer))

	// authed prefixes the token middleware; public and protected routes share prefixes
	authed := func(hs ...fiber.Handler) []fiber.Handler {
		return append([]fiber.Handler{jwt, locals}, hs...)
	}

	api := app.Group("/api")

	// auth
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/logout", authH.Logout)
	api.Get("/auth/profile", authed(authH.Profile)...)
	api.Post("/auth/switch-role", authed(authH.SwitchRole)...)
	if cfg.GoogleEnabled() {
		googleH := &handlers.GoogleOAuthHandler{
			Auth:            authS,
			GoogleClientID:  cfg.GoogleClientID,
			GoogleSecret:    cfg.GoogleSecret,
			GoogleRedirect:  cfg.GoogleRedirect,
			FrontendBaseURL: cfg.FrontendBaseURL,
		}
		api.Get("/auth/google/start", googleH.GoogleStart)
		api.Get("/auth/google/callback", googleH.GoogleCallback)
	}

	// jobs
	api.Post("/jobs/job", authed(client, jobH.Create)...)
	api.Get("/jobs/jobposts", jobH.ListOpen)
	api.Get("/jobs/user", authed(client, jobH.ListMine)...)
	api.Get("/jobs/categories", categoryH.GetCategories)
	api.Get("/jobs/:id", jobH.Get)
	api.Put("/jobs/:id", authed(client, jobH.Update)...)
	api.Delete("/jobs/:id", authed(client, jobH.Delete)...)

	// applications
	api.Post("/job-applications", authed(freelancer, appH.Apply)...)
	api.Get("/job-applications/job/:job_id", authed(client, appH.ListForJob)...)
	api.Get("/job-applications/user", authed(freelancer, appH.ListMine)...)

	// hiring
	api.Patch("/application-status/:id/hire", authed(client, statusH.Hire)...)
	api.Patch("/application-status/:id/reject", authed(client, statusH.Reject)...)
	api.Get("/application-status/:jobId/status", authed(freelancer, statusH.Status)...)

	// saved jobs
	api.Post("/saved-jobs", authed(freelancer, savedH.Toggle)...)
	api.Get("/saved-jobs", authed(freelancer, savedH.List)...)
	api.Delete("/saved-jobs/delete/:job_id", authed(freelancer, savedH.Remove)...)

	// skills & projects
	api.Post("/skill", authed(freelancer, skillH.Create)...)
	api.Get("/skill/user", authed(skillH.ListMine)...)
	api.Get("/skill/user/:user_id", skillH.ListByUser)
	api.Put("/skill/:id", authed(freelancer, skillH.Update)...)
	api.Delete("/skill/:id", authed(freelancer, skillH.Delete)...)

	api.Post("/projects", authed(freelancer, projectH.Create)...)
	api.Get("/projects/skill/:skill_id", projectH.ListBySkill)
	api.Put("/projects/:id", authed(freelancer, projectH.Update)...)
	api.Delete("/projects/:id", authed(freelancer, projectH.Delete)...)

	// profile
	api.Put("/contact/update", authed(userH.UpsertContact)...)
	api.Get("/contact/:id", userH.GetContact)
	api.Get("/users/:id", userH.Get)
	api.Put("/users/:id", authed(userH.Update)...)

	dashboardH.Routes(api, []fiber.Handler{jwt, locals}, client, freelancer)

	if d.Hub != nil {
		notifyH := handlers.NewNotificationHandler(d.Hub, cfg.JWTSecret, d.Log)
		app.Get("/ws/notifications", notifyH.Upgrade, websocket.New(notifyH.Stream))
	}

	return app
}
