// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetGroups handles GET /api/v1/groups/
// @Summary List groups
// @Tags groups
// @Produce json
// @Success 200 {array} models.Group
// @Router /groups/ [get]
func (s *Server) GetGroups(c *fiber.Ctx) error {
	groups, err := s.groupService.ListGroups(c.Context())
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(groups)
}

// GetGroup handles GET /api/v1/groups/:id
// @Summary Get a group
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} models.Group
// @Failure 404 {object} models.ErrorResponse
// @Router /groups/{id} [get]
func (s *Server) GetGroup(c *fiber.Ctx) error {
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	group, err := s.groupService.GetGroup(c.Context(), groupID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(group)
}

// CreateGroup handles POST /api/v1/groups/
// @Summary Create a group
// @Description Create a topic group. Admin only.
// @Tags groups
// @Accept json
// @Produce json
// @Param request body object{title=string,slug=string,description=string} true "Group"
// @Success 201 {object} models.Group
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /groups/ [post]
func (s *Server) CreateGroup(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	group, err := s.groupService.CreateGroup(c.Context(), service.CreateGroupInput{
		Identity:    s.identityFromLocals(c),
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(group)
}

// UpdateGroup handles PUT and PATCH /api/v1/groups/:id
// @Summary Update a group
// @Description Update a group's title, slug or description. Admin only.
// @Tags groups
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param request body object{title=string,slug=string,description=string} true "Fields to update"
// @Success 200 {object} models.Group
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /groups/{id} [patch]
func (s *Server) UpdateGroup(c *fiber.Ctx) error {
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       *string `json:"title"`
		Slug        *string `json:"slug"`
		Description *string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	group, err := s.groupService.UpdateGroup(c.Context(), service.UpdateGroupInput{
		Identity:    s.identityFromLocals(c),
		GroupID:     groupID,
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(group)
}

// DeleteGroup handles DELETE /api/v1/groups/:id
// @Summary Delete a group
// @Description Delete a group. Its posts survive with the group reference cleared. Admin only.
// @Tags groups
// @Param id path int true "Group ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /groups/{id} [delete]
func (s *Server) DeleteGroup(c *fiber.Ctx) error {
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.groupService.DeleteGroup(c.Context(), s.identityFromLocals(c), groupID); err != nil {
		return models.RespondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
