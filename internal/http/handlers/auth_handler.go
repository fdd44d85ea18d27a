package handlers

import (
	"time"

	"supplyhub/internal/log"
	"supplyhub/internal/services"
	"supplyhub/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // set true behind HTTPS
		})
	}
	return sid
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	if c.Locals("user") != nil {
		return c.Redirect("/dashboard")
	}
	registered := c.Query("registered") != ""
	return render(c, "login", fiber.Map{"Err": "", "Registered": registered})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	email := c.FormValue("email")
	pass := c.FormValue("password")
	if _, ok := validate.Email(email); !ok || pass == "" {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_format"})
		return c.Status(401).Render("login", fiber.Map{"Err": "Invalid email or password", "CSRFToken": c.Cookies("csrf_")})
	}

	_, err := h.Auth.Login(sid, email, pass)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		return c.Status(401).Render("login", fiber.Map{"Err": "Invalid email or password", "CSRFToken": c.Cookies("csrf_")})
	}

	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.Redirect("/dashboard")
}

func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	if c.Locals("user") != nil {
		return c.Redirect("/dashboard")
	}
	return render(c, "register", fiber.Map{"Err": "", "Name": "", "Email": "", "Role": ""})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	name := c.FormValue("name")
	email := c.FormValue("email")
	pass := c.FormValue("password")
	role := c.FormValue("role")

	_, err := h.Auth.Register(name, email, pass, role)
	if err != nil {
		log.Security(c, "auth.register.fail", map[string]any{"email": email})
		return c.Status(httpStatus(err)).Render("register", fiber.Map{
			"Err": err.Error(), "Name": name, "Email": email, "Role": role,
			"CSRFToken": c.Cookies("csrf_"),
		})
	}

	log.Audit(c, "auth.register.success", map[string]any{"email": email, "role": role})
	return c.Redirect("/login?registered=1")
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
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/")
}
