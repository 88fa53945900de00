package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/socialmentor/internal/config"
	"github.com/example/socialmentor/internal/database"
	"github.com/example/socialmentor/internal/queue"
	"github.com/example/socialmentor/internal/routes"
	"github.com/example/socialmentor/internal/services"
	"github.com/example/socialmentor/internal/store"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)
	st := store.New(db)

	var events services.EventPublisher
	if cfg.RabbitURL != "" {
		conn, ch, err := queue.Connect(cfg.RabbitURL)
		if err != nil {
			log.Printf("RabbitMQ unavailable, lifecycle events disabled: %v", err)
		} else {
			defer conn.Close()
			defer ch.Close()
			publisher, err := queue.NewPublisher(ch, cfg.EventsQueue)
			if err != nil {
				log.Printf("queue declare failed, lifecycle events disabled: %v", err)
			} else {
				events = publisher
			}
		}
	}

	app := fiber.New(fiber.Config{
		AppName: "Social Mentor Backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Social Mentor API is running"})
	})

	routes.Register(app, st, cfg, events)

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
