package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"petcare/internal/domain"
	"petcare/internal/log"
	"petcare/internal/services"
	"petcare/internal/validate"
)

type AuthHandler struct {
	Auth         *services.AuthService
	CookieSecure bool
}

func (h *AuthHandler) sessionCookie(value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     "sid",
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.CookieSecure,
		Expires:  expires,
	}
}

// startSession issues a fresh sid cookie after a successful login or signup
// and drops whatever session the browser arrived with.
func (h *AuthHandler) startSession(c *fiber.Ctx, sid string) {
	if old := c.Cookies("sid"); old != "" && old != sid {
		if err := h.Auth.Logout(c.UserContext(), old); err != nil {
			log.Error(c, "auth.session.drop.fail", err, nil)
		}
	}
	c.Cookie(h.sessionCookie(sid, time.Time{}))
}

func (h *AuthHandler) SignupForm(c *fiber.Ctx) error {
	return render(c, "signup", fiber.Map{})
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	in := services.SignupInput{
		Username: c.FormValue("username"),
		Email:    c.FormValue("email"),
		Phone:    c.FormValue("phone_number"),
		Password: c.FormValue("password1"),
		Confirm:  c.FormValue("password2"),
	}
	form := fiber.Map{"Username": in.Username, "Email": in.Email, "Phone": in.Phone}

	sid := uuid.NewString()
	u, err := h.Auth.Signup(c.UserContext(), sid, in)
	if err != nil {
		if ve, ok := domain.IsValidation(err); ok {
			log.Security(c, "auth.signup.invalid", map[string]any{"field": ve.Field})
			form["Err"] = ve.Reason
			return render(c.Status(fiber.StatusBadRequest), "signup", form)
		}
		if errors.Is(err, domain.ErrDuplicate) {
			log.Security(c, "auth.signup.duplicate", map[string]any{"username": in.Username})
			form["Err"] = userMessage(err)
			return render(c.Status(fiber.StatusConflict), "signup", form)
		}
		return err
	}
	h.startSession(c, sid)
	setUser(c, u)
	log.Audit(c, "auth.signup", map[string]any{"username": u.Username})
	return c.Redirect("/")
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": "", "Next": validate.NextPath(c.Query("next"))})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := uuid.NewString()
	username := c.FormValue("username")
	pass := c.FormValue("password")
	next := validate.NextPath(c.FormValue("next"))
	fail := func(reason string) error {
		log.Security(c, "auth.login.fail", map[string]any{"username": username, "reason": reason})
		return render(c.Status(fiber.StatusUnauthorized), "login", fiber.Map{"Err": "Invalid username or password", "Next": next})
	}

	if _, ok := validate.Username(username); !ok {
		return fail("bad_format")
	}
	if pass == "" || len(pass) > 128 {
		return fail("bad_password_format")
	}
	u, err := h.Auth.Login(c.UserContext(), sid, username, pass)
	if err != nil {
		if errors.Is(err, services.ErrBadCreds) {
			return fail("bad_credentials")
		}
		return err
	}

	h.startSession(c, sid)
	setUser(c, u)
	log.Audit(c, "auth.login.success", map[string]any{"username": u.Username})
	return c.Redirect(next)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sid := c.Cookies("sid"); sid != "" {
		if err := h.Auth.Logout(c.UserContext(), sid); err != nil {
			return err
		}
	}
	c.Cookie(h.sessionCookie("", time.Now().Add(-1*time.Hour)))
	log.Audit(c, "auth.logout", nil)
	return c.Redirect("/")
}
