// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/policy"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "commentId" -> "comment ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		prefix := param[:len(param)-2]
		words := splitCamel(prefix)
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// identityFromLocals builds the acting identity for a request that passed
// AuthRequired.
func (s *Server) identityFromLocals(c *fiber.Ctx) policy.Identity {
	userID, _ := c.Locals("userID").(uint)
	isAdmin, _ := c.Locals("isAdmin").(bool)
	return policy.Identity{UserID: userID, Authenticated: userID != 0, IsAdmin: isAdmin}
}

// optionalIdentity resolves the acting identity from a bearer token if one
// is present and valid, and falls back to the anonymous identity. Open
// read endpoints use it so the configured policy still sees who is asking.
func (s *Server) optionalIdentity(c *fiber.Ctx) policy.Identity {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return policy.Anonymous
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return policy.Anonymous
	}

	claims, err := s.tokens.Parse(parts[1])
	if err != nil || claims.Type != "access" {
		return policy.Anonymous
	}
	if s.isJTIRevoked(c.Context(), claims.JTI) {
		return policy.Anonymous
	}

	user, err := s.userRepo.GetByID(c.Context(), claims.UserID)
	if err != nil {
		return policy.Anonymous
	}

	return policy.Identity{UserID: user.ID, Authenticated: true, IsAdmin: user.IsAdmin}
}

// isJTIRevoked reports whether the token ID is on the Redis blacklist.
// Without Redis revocation is unavailable and tokens live out their TTL.
func (s *Server) isJTIRevoked(ctx context.Context, jti string) bool {
	if jti == "" || s.redis == nil {
		return false
	}
	blacklisted, err := s.redis.Exists(ctx, "blacklist:"+jti).Result()
	if err != nil {
		middleware.RedisErrors.WithLabelValues("exists").Inc()
		return false
	}
	return blacklisted > 0
}
