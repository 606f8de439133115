package server

import (
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFlags handles GET /api/v1/flags
// @Summary Evaluated feature flags
// @Description Admin-only view of every configured flag evaluated for the requesting user.
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /flags [get]
func (s *Server) GetFlags(c *fiber.Ctx) error {
	id := s.identityFromLocals(c)
	if !id.IsAdmin {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Admin access required"))
	}

	return c.JSON(s.flags.Snapshot(id.UserID))
}
