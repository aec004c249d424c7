package main

import (
	"log"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"boutique_backend/config"
	"boutique_backend/internal/bot"
	"boutique_backend/internal/gateway"
)

func main() {
	cfg := config.LoadConfig()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer logger.Sync()

	store, err := bot.OpenStore(cfg.BotDBPath)
	if err != nil {
		logger.Fatal("failed to open document store", zap.Error(err))
	}

	hub := gateway.NewHub(logger)
	go hub.Run()

	gw := &gateway.BridgeGateway{
		Hub:      hub,
		Fallback: gateway.NewHTTPGateway(cfg.GatewayURL, logger),
	}

	engine := bot.NewEngine(store, bot.NewSessionStore(), gw, cfg.BotAdminPassword, logger)

	app := fiber.New(fiber.Config{
		AppName: "Content Bot",
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "success"})
	})

	// Webhook transport: the gateway pushes one update per request.
	app.Post("/webhook", func(c *fiber.Ctx) error {
		var update gateway.Update
		if err := c.BodyParser(&update); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid update"})
		}
		engine.HandleUpdate(update)
		return c.JSON(fiber.Map{"ok": true})
	})

	// Stream transport: a gateway bridge holds a websocket and exchanges
	// updates and replies over it.
	app.Use("/gateway/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/gateway/ws", websocket.New(func(conn *websocket.Conn) {
		client := &gateway.Client{
			Hub:    hub,
			Conn:   conn,
			Send:   make(chan []byte, 256),
			Handle: engine.HandleUpdate,
			Log:    logger,
		}

		client.Hub.Register <- client

		go client.WritePump()
		client.ReadPump()
	}))

	logger.Info("content bot starting",
		zap.String("host", cfg.HOST),
		zap.String("port", cfg.BotPort))

	if err := app.Listen(cfg.HOST + ":" + cfg.BotPort); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
