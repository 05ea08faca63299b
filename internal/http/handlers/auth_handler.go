package handlers

import (
	"errors"
	"time"

	applog "threadline/internal/log"
	"threadline/internal/services"
	"threadline/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	return render(c, "login", fiber.Map{"Err": "", "Msg": "", "CSRFToken": tok})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	email := c.FormValue("email")
	pass := c.FormValue("password")
	if _, ok := validate.Email(email); !ok || !validate.Password(pass) {
		applog.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_format"})
		return c.Status(401).Render("login", fiber.Map{"Err": "Invalid email or password", "CSRFToken": c.Cookies("csrf_")})
	}

	if _, err := h.Auth.Login(sid, email, pass); err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": email})
		return c.Status(401).Render("login", fiber.Map{"Err": "Invalid email or password", "CSRFToken": c.Cookies("csrf_")})
	}

	applog.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.Redirect("/admin")
}

// SendLink handles POST /admin/login/link. The response is the same whether
// or not the address is allow-listed.
func (h *AuthHandler) SendLink(c *fiber.Ctx) error {
	email, ok := validate.Email(c.FormValue("email"))
	msg := "If that address is on the admin list, a sign-in link is on its way."
	if !ok {
		return c.Status(400).Render("login", fiber.Map{"Err": "Please enter a valid email address", "CSRFToken": c.Cookies("csrf_")})
	}

	if err := h.Auth.SendLoginLink(email); err != nil {
		if errors.Is(err, services.ErrBadCreds) {
			applog.Security(c, "auth.link.unknown", map[string]any{"email": email})
		} else {
			applog.Error(c, "auth.link.fail", err, map[string]any{"email": email})
		}
	} else {
		applog.Audit(c, "auth.link.sent", map[string]any{"email": email})
	}
	return render(c, "login", fiber.Map{"Msg": msg})
}

// FinishLogin handles GET /admin/login/verify?token= from the emailed link.
func (h *AuthHandler) FinishLogin(c *fiber.Ctx) error {
	sid := ensureSID(c)
	token := c.Query("token")
	if token == "" {
		return c.Redirect("/admin/login")
	}
	a, err := h.Auth.VerifyLoginLink(sid, token)
	if err != nil {
		applog.Security(c, "auth.link.verify.fail", map[string]any{"token": token})
		return c.Status(401).Render("login", fiber.Map{"Err": "That sign-in link is invalid or expired.", "CSRFToken": c.Cookies("csrf_")})
	}
	applog.Audit(c, "auth.link.verify.success", map[string]any{"email": a.Email})
	return c.Redirect("/admin")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	// Expire cookie
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	applog.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/")
}
