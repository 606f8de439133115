// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// postRequest is the request body for creating and updating posts. Pointer
// fields make "absent" distinguishable from "explicitly cleared" on update.
type postRequest struct {
	Text     *string `json:"text"`
	Group    *uint   `json:"group"`
	ImageURL *string `json:"image_url"`
}

// GetPosts handles GET /api/v1/posts/
// @Summary List posts
// @Description List posts, newest first, optionally filtered by group
// @Tags posts
// @Produce json
// @Param group query int false "Group ID filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} PostDTO
// @Router /posts/ [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	id := s.optionalIdentity(c)

	var groupID *uint
	if g := c.QueryInt("group", 0); g > 0 {
		gid := uint(g)
		groupID = &gid
	}

	posts, err := s.postService.ListPosts(c.Context(), id, groupID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(toPostDTOs(posts))
}

// GetPost handles GET /api/v1/posts/:id
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} PostDTO
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	id := s.optionalIdentity(c)

	post, err := s.postService.GetPost(c.Context(), id, postID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(toPostDTO(post))
}

// CreatePost handles POST /api/v1/posts/
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Param request body postRequest true "Post"
// @Success 201 {object} PostDTO
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/ [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in := service.CreatePostInput{
		Identity: s.identityFromLocals(c),
		GroupID:  req.Group,
	}
	if req.Text != nil {
		in.Text = *req.Text
	}
	if req.ImageURL != nil {
		in.ImageURL = *req.ImageURL
	}

	post, err := s.postService.CreatePost(c.Context(), in)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPostDTO(post))
}

// UpdatePost handles PUT and PATCH /api/v1/posts/:id
// @Summary Update a post
// @Description Update a post's text, group or image. The publication date never changes.
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body postRequest true "Fields to update"
// @Success 200 {object} PostDTO
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [patch]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	// BodyParser cannot distinguish a missing "group" key from an explicit
	// null, so clearing the group goes through "group": 0.
	in := service.UpdatePostInput{
		Identity: s.identityFromLocals(c),
		PostID:   postID,
		Text:     req.Text,
		ImageURL: req.ImageURL,
	}
	if req.Group != nil {
		in.GroupSet = true
		if *req.Group != 0 {
			in.GroupID = req.Group
		}
	}

	post, err := s.postService.UpdatePost(c.Context(), in)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(toPostDTO(post))
}

// DeletePost handles DELETE /api/v1/posts/:id
// @Summary Delete a post
// @Tags posts
// @Param id path int true "Post ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), s.identityFromLocals(c), postID); err != nil {
		return models.RespondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetFeed handles GET /api/v1/feed/
// @Summary Personalized feed
// @Description Posts authored by users the authenticated user follows, newest first
// @Tags follow
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} PostDTO
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /feed/ [get]
func (s *Server) GetFeed(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	userID := c.Locals("userID").(uint)

	posts, err := s.followService.Feed(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(toPostDTOs(posts))
}
