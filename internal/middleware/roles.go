package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/izlanproject/izlan-backend/internal/auth"
	"github.com/izlanproject/izlan-backend/internal/dto"
	"github.com/izlanproject/izlan-backend/internal/services"
)

// RequireModerator admits moderator-or-above callers only. The role is
// resolved from the database on every request so revocations take
// effect immediately.
func RequireModerator(roles *services.RoleService) fiber.Handler {
	return requireTier(roles, services.TierModerator, "Moderator role required")
}

func RequireAdmin(roles *services.RoleService) fiber.Handler {
	return requireTier(roles, services.TierAdmin, "Admin role required")
}

func requireTier(roles *services.RoleService, minimum services.RoleTier, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil || userID == uuid.Nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		tier, err := roles.Tier(userID)
		if err != nil {
			slog.Error("role resolution failed", "user_id", userID.String(), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Internal error",
			})
		}
		if tier < minimum {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: message,
			})
		}
		return c.Next()
	}
}
