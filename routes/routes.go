package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"taskflow/config"
	controller "taskflow/controllers"
	"taskflow/middleware"
	"taskflow/utils"
)

// SetupRoutes wires all controllers onto the app.
func SetupRoutes(app *fiber.App, db *gorm.DB, issuer *utils.TokenIssuer, cfg *config.Config, logger *logrus.Logger) {
	authController := controller.NewAuthController(db, issuer, logger)
	teamController := controller.NewTeamController(db, logger)
	taskController := controller.NewTaskController(db, logger)

	protected := middleware.Protected(db, issuer)
	authLimit := middleware.AuthRateLimiter(cfg)

	// Health check endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "active",
			"version": "1.0.0",
			"message": "Taskflow-API is Running",
		})
	})

	api := app.Group("/api/v1")

	// Public auth endpoints are rate limited per client IP
	auth := api.Group("/auth")
	auth.Post("/register", authLimit, authController.Register)
	auth.Post("/login", authLimit, authController.Login)
	auth.Post("/refresh", authLimit, authController.RefreshToken)
	auth.Get("/getUser", protected, authController.GetUser)

	teams := api.Group("/teams", protected)
	teams.Post("/", teamController.CreateTeam)
	teams.Get("/", teamController.GetMyTeams)
	teams.Get("/:id", teamController.GetTeam)
	teams.Put("/:id", teamController.UpdateTeam)
	teams.Post("/:id/members", teamController.AddMember)
	teams.Delete("/:id/members/:userId", teamController.RemoveMember)
	teams.Delete("/:id", teamController.DeleteTeam)

	tasks := api.Group("/tasks", protected)
	tasks.Post("/", taskController.CreateTask)
	tasks.Get("/my-tasks", taskController.GetMyTasks)
	tasks.Get("/team/:teamId", taskController.GetTeamTasks)
	tasks.Get("/:id", taskController.GetTask)
	tasks.Put("/:id", taskController.UpdateTask)
	tasks.Delete("/:id", taskController.DeleteTask)

	// 404 fallback
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "The requested resource was not found",
		})
	})
}
