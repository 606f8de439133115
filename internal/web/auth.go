package web

import (
	"time"

	"quill/internal/auth"
	"quill/internal/models"
	"quill/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type loginData struct {
	Username string
	FieldErr string
}

// LoginForm handles GET /login
func (h *Handlers) LoginForm(c *fiber.Ctx) error {
	if user := h.currentUser(c); user != nil {
		return c.Redirect("/", fiber.StatusFound)
	}
	return h.render(c, fiber.StatusOK, "login", "Log in", nil, loginData{})
}

// Login handles POST /login: on success a session cookie carries the JWT.
func (h *Handlers) Login(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	user, err := h.deps.Users.GetUserByUsername(c.Context(), username)
	if err == nil {
		if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); cmpErr != nil {
			err = cmpErr
		}
	}
	if err != nil {
		return h.render(c, fiber.StatusOK, "login", "Log in", nil, loginData{
			Username: username,
			FieldErr: "Invalid username or password",
		})
	}

	token, err := h.deps.Tokens.Generate(user.ID, user.Username, auth.TypeAccess, auth.AccessTTL)
	if err != nil {
		return h.renderError(c, nil)
	}

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Expires:  time.Now().Add(auth.AccessTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return c.Redirect("/", fiber.StatusFound)
}

// Logout handles POST /logout
func (h *Handlers) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return c.Redirect("/", fiber.StatusFound)
}

type signupData struct {
	Username string
	Email    string
	FieldErr string
}

// SignupForm handles GET /signup
func (h *Handlers) SignupForm(c *fiber.Ctx) error {
	if user := h.currentUser(c); user != nil {
		return c.Redirect("/", fiber.StatusFound)
	}
	return h.render(c, fiber.StatusOK, "signup", "Sign up", nil, signupData{})
}

// Signup handles POST /signup
func (h *Handlers) Signup(c *fiber.Ctx) error {
	if h.deps.Flags.Enabled("disable_signups", 0) {
		return c.Redirect("/login", fiber.StatusFound)
	}

	username := c.FormValue("username")
	email := c.FormValue("email")
	password := c.FormValue("password")

	rerender := func(msg string) error {
		return h.render(c, fiber.StatusOK, "signup", "Sign up", nil, signupData{
			Username: username,
			Email:    email,
			FieldErr: msg,
		})
	}

	if username == "" || email == "" || password == "" {
		return rerender("All fields are required")
	}
	if err := validation.ValidateUsername(username); err != nil {
		return rerender(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return rerender(err.Error())
	}
	if err := validation.ValidatePassword(password); err != nil {
		return rerender(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return h.renderError(c, nil)
	}

	user := &models.User{Username: username, Email: email, Password: string(hashed)}
	if err := h.deps.Users.CreateUser(c.Context(), user); err != nil {
		if models.IsValidation(err) {
			return rerender(validationMessage(err))
		}
		return h.renderError(c, nil)
	}

	return c.Redirect("/login", fiber.StatusFound)
}
