package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/socialmentor/internal/config"
	"github.com/example/socialmentor/internal/handlers"
	"github.com/example/socialmentor/internal/middleware"
	"github.com/example/socialmentor/internal/models"
	"github.com/example/socialmentor/internal/services"
	"github.com/example/socialmentor/internal/store"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, st store.Store, cfg *config.Config, events services.EventPublisher) {
	telegram := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)

	donationService := services.NewDonationService(st, events, telegram)
	volunteerService := services.NewVolunteerService(st, events, telegram)
	adminService := services.NewAdminService(st)

	authHandler := handlers.NewAuthHandler(st, cfg)
	donationHandler := handlers.NewDonationHandler(donationService, st)
	volunteerHandler := handlers.NewVolunteerHandler(volunteerService, st)
	adminHandler := handlers.NewAdminHandler(adminService)

	authRequired := middleware.AuthMiddleware(cfg, st)
	donorOnly := middleware.RequireRole(models.RoleDonor)
	volunteerOnly := middleware.RequireRole(models.RoleVolunteer)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", authRequired, authHandler.Me)

	// Donor routes
	donations := api.Group("/donations", authRequired)
	donations.Post("/", donorOnly, donationHandler.Create)
	donations.Get("/my-donations", donorOnly, donationHandler.MyDonations)
	donations.Get("/:id", donationHandler.Get)
	donations.Put("/:id", donorOnly, donationHandler.Update)
	donations.Delete("/:id", donorOnly, donationHandler.Delete)

	// Volunteer routes; the leaderboard is public.
	volunteers := api.Group("/volunteers")
	volunteers.Get("/leaderboard", volunteerHandler.Leaderboard)
	volunteers.Get("/available-tasks", authRequired, volunteerOnly, volunteerHandler.AvailableTasks)
	volunteers.Post("/accept/:donationId", authRequired, volunteerOnly, volunteerHandler.Accept)
	volunteers.Get("/my-tasks", authRequired, volunteerOnly, volunteerHandler.MyTasks)
	volunteers.Put("/update-status/:donationId", authRequired, volunteerOnly, volunteerHandler.UpdateStatus)
	volunteers.Put("/update-location/:donationId", authRequired, volunteerOnly, volunteerHandler.UpdateLocation)
	volunteers.Get("/track/:donationId", authRequired, volunteerHandler.Track)

	// Admin routes
	admin := api.Group("/admin", authRequired, adminOnly)
	admin.Get("/donations", adminHandler.Donations)
	admin.Get("/volunteers", adminHandler.Volunteers)
	admin.Get("/donors", adminHandler.Donors)
	admin.Get("/stats", adminHandler.Stats)
}
