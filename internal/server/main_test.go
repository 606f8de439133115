package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"quill/internal/auth"
	"quill/internal/config"
	"quill/internal/database"
	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/service"
	"quill/internal/web"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testPassword satisfies the signup password rules.
const testPassword = "Sup3rSecretPhrase"

// newTestServer builds a server backed by a fresh in-memory sqlite
// database and returns it together with a routed Fiber app. Redis and
// the metrics middleware are left out; both are optional at runtime.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive and shared.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := &config.Config{
		JWTSecret: "handler-test-secret-key-0123456789ab",
		Env:       "test",
	}

	s := &Server{
		config:      cfg,
		db:          db,
		tokens:      auth.NewManager(cfg.JWTSecret),
		userRepo:    repository.NewUserRepository(db),
		postRepo:    repository.NewPostRepository(db),
		commentRepo: repository.NewCommentRepository(db),
		groupRepo:   repository.NewGroupRepository(db),
		followRepo:  repository.NewFollowRepository(db),
	}
	s.userService = service.NewUserService(s.userRepo)
	s.postService = service.NewPostService(s.postRepo, s.groupRepo, cfg.PostsPolicy())
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo, cfg.CommentsPolicy())
	s.groupService = service.NewGroupService(s.groupRepo)
	s.followService = service.NewFollowService(s.followRepo, s.userRepo, s.postRepo)
	s.web = web.New(web.Deps{
		Tokens:   s.tokens,
		Users:    s.userService,
		Posts:    s.postService,
		Comments: s.commentService,
		Groups:   s.groupService,
		Follows:  s.followService,
	})

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

// createUser inserts a user whose password is testPassword.
func createUser(t *testing.T, s *Server, username string) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
	}
	require.NoError(t, s.db.Create(user).Error)
	return user
}

func createAdmin(t *testing.T, s *Server, username string) *models.User {
	t.Helper()

	user := createUser(t, s, username)
	require.NoError(t, s.db.Model(user).Update("is_admin", true).Error)
	user.IsAdmin = true
	return user
}

// accessToken issues an access token for the user.
func accessToken(t *testing.T, s *Server, user *models.User) string {
	t.Helper()

	token, err := s.tokens.Generate(user.ID, user.Username, auth.TypeAccess, auth.AccessTTL)
	require.NoError(t, err)
	return token
}

// jsonRequest builds a request with an optional JSON body and bearer token.
func jsonRequest(t *testing.T, method, target string, body any, token string) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// decodeBody unmarshals the response body into out.
func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()

	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// createPostAs publishes a post through the API and returns its response body.
func createPostAs(t *testing.T, app *fiber.App, token, text string, groupID *uint) PostDTO {
	t.Helper()

	body := map[string]any{"text": text}
	if groupID != nil {
		body["group"] = *groupID
	}
	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/posts/", body, token))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var post PostDTO
	decodeBody(t, resp, &post)
	return post
}
