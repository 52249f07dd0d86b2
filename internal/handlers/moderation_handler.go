package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/izlanproject/izlan-backend/internal/auth"
	"github.com/izlanproject/izlan-backend/internal/dto"
	"github.com/izlanproject/izlan-backend/internal/models"
	"github.com/izlanproject/izlan-backend/internal/services"
)

// ModerationHandler exposes the review surface: listing pending work,
// inspecting a request, deciding it, and row-level history lookups.
type ModerationHandler struct {
	moderation *services.ModerationService
}

func NewModerationHandler(moderation *services.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderation: moderation}
}

func (h *ModerationHandler) ListRequests(c *fiber.Ctx) error {
	status := c.Query("status", "pending")
	requests, err := h.moderation.ListRequests(status)
	if err != nil {
		return internalError(c, "Failed to list moderation requests", err)
	}
	return c.JSON(requests)
}

func (h *ModerationHandler) GetRequest(c *fiber.Ctx) error {
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid request ID")
	}
	request, err := h.moderation.GetRequest(requestID)
	if err != nil {
		return internalError(c, "Failed to fetch moderation request", err)
	}
	if request == nil {
		return notFound(c)
	}
	return c.JSON(request)
}

func (h *ModerationHandler) ApproveRequest(c *fiber.Ctx) error {
	return h.review(c, h.moderation.ApproveRequest)
}

func (h *ModerationHandler) RejectRequest(c *fiber.Ctx) error {
	return h.review(c, h.moderation.RejectRequest)
}

func (h *ModerationHandler) review(c *fiber.Ctx, decide func(uuid.UUID, uuid.UUID, *string) (*models.ModerationRequest, error)) error {
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid request ID")
	}
	reviewerID, err := auth.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
	}

	var body dto.ReviewRequest
	// Empty body is fine: the decision note is optional.
	_ = c.BodyParser(&body)

	request, err := decide(requestID, reviewerID, body.DecisionNote)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			return notFound(c)
		case errors.Is(err, services.ErrRequestNotPending):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: true, Message: "Request is not pending"})
		default:
			return internalError(c, "Failed to review moderation request", err)
		}
	}
	return c.JSON(request)
}

func (h *ModerationHandler) TargetHistory(c *fiber.Ctx) error {
	tableName := c.Params("table")
	if !services.AllowedTable(tableName) {
		return badRequest(c, "Unknown table")
	}
	history, err := h.moderation.HistoryForTarget(tableName, map[string]interface{}{"id": c.Params("id")})
	if err != nil {
		return internalError(c, "Failed to fetch moderation history", err)
	}
	return c.JSON(history)
}
