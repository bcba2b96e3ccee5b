// Package api wires the HTTP surface: routes, middleware and the
// error-to-status mapping.
package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ecocaval/Bate-Papo-UOL-API/internal/auth"
	"github.com/ecocaval/Bate-Papo-UOL-API/internal/middleware"
	"github.com/ecocaval/Bate-Papo-UOL-API/internal/service"
	"github.com/ecocaval/Bate-Papo-UOL-API/internal/ws"
)

// NewServer builds the fiber app. hub, issuer and limiter are optional.
func NewServer(svc *service.ChatService, issuer *auth.Issuer, hub *ws.Hub, limiter *middleware.RateLimiter) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Use(middleware.Recovery())
	app.Use(middleware.Logger())
	app.Use(middleware.Identity(issuer))
	if limiter != nil {
		app.Use(limiter.Middleware())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	h := NewHandlers(svc)
	app.Post("/participants", h.join)
	app.Get("/participants", h.participants)
	app.Post("/messages", h.postMessage)
	app.Get("/messages", h.listMessages)
	app.Put("/messages/:id", h.editMessage)
	app.Delete("/messages/:id", h.deleteMessage)
	app.Post("/status", h.heartbeat)

	if hub != nil {
		app.Get("/ws", ws.NewHandler(hub))
	}

	return app
}
