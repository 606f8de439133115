// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFollows handles GET /api/v1/follow/
// @Summary List the authenticated user's follow edges
// @Description Optionally filtered: search=user=<name>, search=author=<name>, or a bare term matching either side.
// @Tags follow
// @Produce json
// @Param search query string false "Filter term"
// @Success 200 {array} FollowDTO
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /follow/ [get]
func (s *Server) GetFollows(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	follows, err := s.followService.List(c.Context(), userID, c.Query("search"))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(toFollowDTOs(follows))
}

// CreateFollow handles POST /api/v1/follow/
// @Summary Follow an author
// @Description Strict entry point: unknown author is 404, self-follow and duplicate edges are 400.
// @Tags follow
// @Accept json
// @Produce json
// @Param request body object{author=string} true "Author username"
// @Success 201 {object} FollowDTO
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /follow/ [post]
func (s *Server) CreateFollow(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Author string `json:"author"`
	}
	if err := c.BodyParser(&req); err != nil || req.Author == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Author username is required"))
	}

	follow, err := s.followService.Follow(c.Context(), userID, req.Author)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toFollowDTO(follow))
}

// DeleteFollow handles DELETE /api/v1/follow/:username
// @Summary Unfollow an author
// @Description Idempotent: unfollowing an author you do not follow succeeds.
// @Tags follow
// @Param username path string true "Author username"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /follow/{username} [delete]
func (s *Server) DeleteFollow(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	username := c.Params("username")

	if err := s.followService.Unfollow(c.Context(), userID, username); err != nil {
		return models.RespondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
