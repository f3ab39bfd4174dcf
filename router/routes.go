package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	handler "github.com/youngamerican68/Property-Perfect/handlers"
	appmw "github.com/youngamerican68/Property-Perfect/middleware"
)

func SetupRoutes(app *fiber.App) {
	api := app.Group("/api", logger.New())
	api.Get("/hello", handler.Hello)

	// Auth
	auth := api.Group("/auth")
	auth.Post("/login", handler.Login)

	// Enhancement
	api.Post("/enhance", appmw.AuthMiddleware(), handler.EnhancePhoto)
	api.Get("/jobs", appmw.AuthMiddleware(), handler.ListJobs)

	// Payments
	api.Post("/create-checkout-session", appmw.AuthMiddleware(), handler.CreateCheckoutSession)
	api.Post("/stripe-webhook", handler.StripeWebhook)

	// User
	user := api.Group("/user")
	user.Get("/", handler.GetUser)
	user.Post("/", handler.CreateUser)
	user.Put("/", handler.UpdateUser)
	user.Delete("/", handler.DeleteUser)

	// Admin
	admin := api.Group("/admin")
	admin.Get("/stats", handler.AdminStats)
	admin.Post("/emergency-toggle", handler.EmergencyToggle)
}
