package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"quill/internal/auth"
	"quill/internal/database"
	"quill/internal/models"
	"quill/internal/policy"
	"quill/internal/repository"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPassword = "Sup3rSecretPhrase"

type testEnv struct {
	db     *gorm.DB
	tokens *auth.Manager
	app    *fiber.App
}

// newTestEnv wires the page handlers to services backed by an in-memory
// sqlite database and returns a routed app.
func newTestEnv(t *testing.T) *testEnv {
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

	tokens := auth.NewManager("web-test-secret-key-0123456789abcdef")

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	followRepo := repository.NewFollowRepository(db)

	handlers := New(Deps{
		Tokens:   tokens,
		Users:    service.NewUserService(userRepo),
		Posts:    service.NewPostService(postRepo, groupRepo, policy.OwnResourceOnly),
		Comments: service.NewCommentService(commentRepo, postRepo, policy.OwnResourceOnly),
		Groups:   service.NewGroupService(groupRepo),
		Follows:  service.NewFollowService(followRepo, userRepo, postRepo),
	})

	app := fiber.New()
	handlers.Register(app)

	return &testEnv{db: db, tokens: tokens, app: app}
}

func (e *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) createPost(t *testing.T, author *models.User, text string) *models.Post {
	t.Helper()

	post := &models.Post{Text: text, AuthorID: author.ID}
	require.NoError(t, e.db.Create(post).Error)
	return post
}

// sessionFor issues the cookie value a logged-in browser would carry.
func (e *testEnv) sessionFor(t *testing.T, user *models.User) string {
	t.Helper()

	token, err := e.tokens.Generate(user.ID, user.Username, auth.TypeAccess, auth.AccessTTL)
	require.NoError(t, err)
	return token
}

// get performs a GET with an optional session cookie.
func (e *testEnv) get(t *testing.T, target, session string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if session != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: session})
	}
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	return resp
}

// postForm submits a form with an optional session cookie.
func (e *testEnv) postForm(t *testing.T, target string, form url.Values, session string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if session != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: session})
	}
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	return resp
}

func bodyString(t *testing.T, resp *http.Response) string {
	t.Helper()

	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

func TestIndexPage(t *testing.T) {
	env := newTestEnv(t)
	leo := env.createUser(t, "leo")
	env.createPost(t, leo, "an old entry")
	env.createPost(t, leo, "the freshest thoughts")

	resp := env.get(t, "/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := bodyString(t, resp)
	assert.Contains(t, body, "the freshest thoughts")
	assert.Contains(t, body, "an old entry")
	// Newest post comes first.
	assert.Less(t, strings.Index(body, "the freshest thoughts"), strings.Index(body, "an old entry"))
	// Visitors see login and signup links.
	assert.Contains(t, body, "/login")
	assert.Contains(t, body, "/signup")
}

func TestIndexPagination(t *testing.T) {
	env := newTestEnv(t)
	leo := env.createUser(t, "leo")
	for i := 0; i < pageSize+1; i++ {
		env.createPost(t, leo, "entry")
	}

	resp := env.get(t, "/?page=2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := bodyString(t, resp)
	// The second page holds the single overflow post and links back.
	assert.Equal(t, 1, strings.Count(body, "entry"))
	assert.Contains(t, body, "?page=1")
}

func TestNotFoundPage(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/no/such/page/anywhere/", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "Page not found")
}
