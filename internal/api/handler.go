package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ecocaval/Bate-Papo-UOL-API/internal/apperr"
	"github.com/ecocaval/Bate-Papo-UOL-API/internal/domain"
	"github.com/ecocaval/Bate-Papo-UOL-API/internal/middleware"
	"github.com/ecocaval/Bate-Papo-UOL-API/internal/service"
	"github.com/ecocaval/Bate-Papo-UOL-API/internal/validation"
)

type Handlers struct {
	svc *service.ChatService
}

func NewHandlers(svc *service.ChatService) *Handlers {
	return &Handlers{svc: svc}
}

func (h *Handlers) join(c *fiber.Ctx) error {
	var req domain.JoinRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid body"})
	}
	token, err := h.svc.Join(c.Context(), req)
	if err != nil {
		return fail(c, err)
	}
	if token != "" {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"token": token})
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (h *Handlers) participants(c *fiber.Ctx) error {
	ps, err := h.svc.Participants(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(ps)
}

func (h *Handlers) postMessage(c *fiber.Ctx) error {
	var req domain.MessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid body"})
	}
	m, err := h.svc.Post(c.Context(), middleware.User(c), req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

func (h *Handlers) listMessages(c *fiber.Ctx) error {
	var limit int64
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return fail(c, apperr.ErrInvalidLimit)
		}
		limit = n
	}
	msgs, err := h.svc.Messages(c.Context(), middleware.User(c), limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(msgs)
}

func (h *Handlers) heartbeat(c *fiber.Ctx) error {
	if err := h.svc.Heartbeat(c.Context(), middleware.User(c)); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *Handlers) editMessage(c *fiber.Ctx) error {
	var req domain.MessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := h.svc.Edit(c.Context(), middleware.User(c), c.Params("id"), req); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *Handlers) deleteMessage(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), middleware.User(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// fail maps service errors onto the response status taxonomy. Anything
// unrecognized is a server fault: logged in full, generic body out.
func fail(c *fiber.Ctx, err error) error {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"errors": verr.Fields})
	case errors.Is(err, apperr.ErrUnknownSender), errors.Is(err, apperr.ErrInvalidLimit):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.OriginalURL()).Msg("request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}
