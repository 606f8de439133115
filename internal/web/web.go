// Package web serves the server-rendered HTML pages. It speaks to the same
// services as the JSON API but with softer edges: unauthenticated visitors
// are redirected instead of rejected, and follow actions are forgiving.
package web

import (
	"bytes"
	"embed"
	"html/template"
	"strconv"

	"quill/internal/auth"
	"quill/internal/featureflags"
	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/policy"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

// sessionCookie carries the web session's JWT.
const sessionCookie = "quill_session"

const pageSize = 10

// Deps are the collaborators the web handlers need. Flags may be nil,
// which leaves every flag off.
type Deps struct {
	Tokens   *auth.Manager
	Flags    *featureflags.Manager
	Users    *service.UserService
	Posts    *service.PostService
	Comments *service.CommentService
	Groups   *service.GroupService
	Follows  *service.FollowService
}

// Handlers renders the HTML pages.
type Handlers struct {
	deps      Deps
	templates map[string]*template.Template
}

// pages each get the layout plus their own content template.
var pages = []string{
	"index", "group", "profile", "post", "new_post", "edit_post",
	"follow", "login", "signup", "404", "500",
}

func New(deps Deps) *Handlers {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		templates[page] = template.Must(template.ParseFS(
			templateFS, "templates/layout.html", "templates/partials.html", "templates/"+page+".html"))
	}
	return &Handlers{deps: deps, templates: templates}
}

// Register mounts the page routes. Call it after the API routes: the
// profile routes match at the top level and would shadow anything
// registered later.
func (h *Handlers) Register(app *fiber.App) {
	app.Get("/", h.Index)
	app.Get("/group/:slug/", h.GroupPage)

	app.Get("/login", h.LoginForm)
	app.Post("/login", h.Login)
	app.Post("/logout", h.Logout)
	app.Get("/signup", h.SignupForm)
	app.Post("/signup", h.Signup)

	app.Get("/new/", h.NewPostForm)
	app.Post("/new/", h.CreatePost)

	app.Get("/follow/", h.FeedPage)

	app.Get("/:username/", h.Profile)
	app.Get("/:username/follow/", h.Follow)
	app.Post("/:username/follow/", h.Follow)
	app.Get("/:username/unfollow/", h.Unfollow)
	app.Post("/:username/unfollow/", h.Unfollow)
	app.Get("/:username/:postID/", h.PostDetail)
	app.Get("/:username/:postID/edit/", h.EditPostForm)
	app.Post("/:username/:postID/edit/", h.EditPost)
	app.Post("/:username/:postID/comment", h.AddComment)

	// Anything still unmatched is a 404 page.
	app.Use(h.NotFound)
}

// currentUser resolves the session cookie to a user, or nil for visitors.
func (h *Handlers) currentUser(c *fiber.Ctx) *models.User {
	cookie := c.Cookies(sessionCookie)
	if cookie == "" {
		return nil
	}
	claims, err := h.deps.Tokens.Parse(cookie)
	if err != nil || claims.Type != auth.TypeAccess {
		return nil
	}
	user, err := h.deps.Users.GetUserByID(c.Context(), claims.UserID)
	if err != nil {
		return nil
	}
	middleware.SetUserContext(c, user.ID)
	return user
}

func identityOf(user *models.User) policy.Identity {
	if user == nil {
		return policy.Anonymous
	}
	return policy.Identity{UserID: user.ID, Authenticated: true, IsAdmin: user.IsAdmin}
}

// pageData is the payload handed to every template.
type pageData struct {
	User  *models.User
	Title string
	Data  any
}

func (h *Handlers) render(c *fiber.Ctx, status int, page, title string, user *models.User, data any) error {
	tmpl, ok := h.templates[page]
	if !ok {
		return h.renderError(c, user)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", pageData{User: user, Title: title, Data: data}); err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "template render failed",
			"page", page, "error", err)
		return h.renderError(c, user)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}

// NotFound renders the custom 404 page.
func (h *Handlers) NotFound(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusNotFound, "404", "Page not found", h.currentUser(c), nil)
}

func (h *Handlers) renderError(c *fiber.Ctx, user *models.User) error {
	tmpl := h.templates["500"]
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", pageData{User: user, Title: "Server error"}); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Server error")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(fiber.StatusInternalServerError).Send(buf.Bytes())
}

// fail maps a service error to the right page: 404 page for missing
// resources, login redirect for auth failures, error page otherwise.
func (h *Handlers) fail(c *fiber.Ctx, user *models.User, err error) error {
	switch {
	case models.IsNotFound(err):
		return h.NotFound(c)
	case models.IsUnauthorized(err):
		return c.Redirect("/login", fiber.StatusFound)
	default:
		middleware.Logger.ErrorContext(c.UserContext(), "page request failed", "error", err)
		return h.renderError(c, user)
	}
}

// parsePage reads the ?page query parameter, 1-based.
func parsePage(c *fiber.Ctx) int {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	return page
}

// pagination describes prev/next links for a listing page.
type pagination struct {
	Page    int
	HasPrev bool
	HasNext bool
	Prev    int
	Next    int
}

func paginate(page, got int) pagination {
	return pagination{
		Page:    page,
		HasPrev: page > 1,
		HasNext: got == pageSize,
		Prev:    page - 1,
		Next:    page + 1,
	}
}

func parsePostID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("postID"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
