package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"supplyhub/internal/config"
	"supplyhub/internal/domain"
	"supplyhub/internal/http/handlers"
	"supplyhub/internal/repos"
	"supplyhub/internal/services"
)

// newTestApp wires the full route surface against an in-memory store,
// mirroring cmd/supplyhub/main.go minus rate limiting.
func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(requestid.New())
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	app.Use(csrf.New(csrf.Config{
		KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax",
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(string(c.Request().URI().Path()), "/api/")
		},
	}))

	deps := handlers.NewDeps(db, config.Config{DBDSN: ":memory:"}, authSvc)

	app.Get("/", deps.ListingHandler.Home)
	app.Get("/login", authH.LoginForm)
	app.Post("/login", authH.Login)
	app.Get("/register", authH.RegisterForm)
	app.Post("/register", authH.Register)
	app.Post("/logout", authH.Logout)
	app.Get("/dashboard", handlers.RequireUser(authSvc), deps.DashboardHandler.Dashboard)

	supplier := handlers.RequireRole(authSvc, domain.RoleSupplier)
	buyer := handlers.RequireRole(authSvc, domain.RoleBuyer)
	app.Get("/listings/new", supplier, deps.ListingHandler.NewForm)
	app.Post("/listings", supplier, deps.ListingHandler.Create)
	app.Get("/listings/mine", supplier, deps.ListingHandler.Mine)
	app.Get("/listings/:id/edit", supplier, deps.ListingHandler.EditForm)
	app.Post("/listings/:id", supplier, deps.ListingHandler.Update)

	app.Post("/requests/new", buyer, deps.RequestHandler.Create)
	app.Get("/requests", supplier, deps.RequestHandler.Incoming)
	app.Post("/requests/:id/status", supplier, deps.RequestHandler.UpdateStatus)
	app.Post("/requests/:id/payment", supplier, deps.RequestHandler.MarkPaid)
	app.Get("/my-requests", buyer, deps.RequestHandler.Mine)

	api := app.Group("/api/v1")
	api.Post("/requests/:id/status", deps.RequestHandler.UpdateStatusAPI)
	api.Post("/requests/:id/payment", deps.RequestHandler.MarkPaidAPI)

	return app, db
}

func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// fetchCSRF grabs a fresh token from the login page.
func fetchCSRF(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/login", nil))
	if err != nil {
		t.Fatal(err)
	}
	tok := cookieValue(resp, "csrf_")
	if tok == "" {
		t.Fatal("csrf token missing")
	}
	return tok
}

// loginAs performs the form login and returns the bound session cookie.
func loginAs(t *testing.T, app *fiber.App, email, password string) (sid, csrfTok string) {
	t.Helper()
	csrfTok = fetchCSRF(t, app)

	form := url.Values{"csrf": {csrfTok}, "email": {email}, "password": {password}}
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("login for %s expected redirect, got %d", email, resp.StatusCode)
	}
	sid = cookieValue(resp, "sid")
	if sid == "" {
		t.Fatal("sid cookie missing after login")
	}
	return sid, csrfTok
}

// postForm submits an authenticated form POST.
func postForm(t *testing.T, app *fiber.App, path, sid, csrfTok string, form url.Values) *http.Response {
	t.Helper()
	form.Set("csrf", csrfTok)
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func get(t *testing.T, app *fiber.App, path, sid string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}
