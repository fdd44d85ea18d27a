package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	html "github.com/gofiber/template/html/v2"
	"golang.org/x/crypto/bcrypt"

	"supplyhub/internal/http/handlers"
	"supplyhub/internal/repos"
	"supplyhub/internal/services"
)

// Seeded passwords are hashed, never plaintext.
func TestPasswordsSeededAreHashed(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	var hashes []string
	if err := db.Select(&hashes, `SELECT password_hash FROM users`); err != nil {
		t.Fatalf("select hashes: %v", err)
	}
	if len(hashes) == 0 {
		t.Fatal("no users seeded")
	}
	for _, h := range hashes {
		if strings.Contains(h, "password123") {
			t.Fatalf("hash contains plaintext password")
		}
		if !strings.HasPrefix(h, "$2") {
			t.Fatalf("unexpected hash format: %s", h)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(h), []byte("password123")); err != nil {
			t.Fatalf("seed hash does not validate known password: %v", err)
		}
	}
}

func TestLoginSuccessAndFail(t *testing.T) {
	app, _ := newTestApp(t)

	csrfTok := fetchCSRF(t, app)

	// bad password -> 401
	resp := postForm(t, app, "/login", "", csrfTok, url.Values{
		"email": {"buyer@example.com"}, "password": {"wrongpass"},
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad creds, got %d", resp.StatusCode)
	}

	// good password -> redirect to dashboard
	sid, _ := loginAs(t, app, "buyer@example.com", "password123")
	resp = get(t, app, "/dashboard", sid)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard after login expected 200, got %d", resp.StatusCode)
	}
}

func TestRegisterThenLogin(t *testing.T) {
	app, db := newTestApp(t)
	csrfTok := fetchCSRF(t, app)

	resp := postForm(t, app, "/register", "", csrfTok, url.Values{
		"name": {"Nina Buyer"}, "email": {"nina@example.com"},
		"password": {"secret123"}, "role": {"buyer"},
	})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("register expected redirect, got %d", resp.StatusCode)
	}

	var role string
	if err := db.Get(&role, `SELECT role FROM users WHERE email='nina@example.com'`); err != nil {
		t.Fatalf("registered user missing: %v", err)
	}
	if role != "buyer" {
		t.Fatalf("want buyer role, got %s", role)
	}

	if sid, _ := loginAs(t, app, "nina@example.com", "secret123"); sid == "" {
		t.Fatal("fresh account should be able to log in")
	}
}

func TestRegisterRejects(t *testing.T) {
	app, _ := newTestApp(t)
	csrfTok := fetchCSRF(t, app)

	// duplicate email
	resp := postForm(t, app, "/register", "", csrfTok, url.Values{
		"name": {"Clone"}, "email": {"buyer@example.com"},
		"password": {"secret123"}, "role": {"buyer"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate email expected 400, got %d", resp.StatusCode)
	}

	// bogus role
	resp = postForm(t, app, "/register", "", csrfTok, url.Values{
		"name": {"Root"}, "email": {"root@example.com"},
		"password": {"secret123"}, "role": {"admin"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad role expected 400, got %d", resp.StatusCode)
	}

	// short password
	resp = postForm(t, app, "/register", "", csrfTok, url.Values{
		"name": {"Shorty"}, "email": {"short@example.com"},
		"password": {"12345"}, "role": {"buyer"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("short password expected 400, got %d", resp.StatusCode)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	app, _ := newTestApp(t)
	sid, csrfTok := loginAs(t, app, "supplier@example.com", "password123")

	resp := postForm(t, app, "/logout", sid, csrfTok, url.Values{})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("logout expected redirect, got %d", resp.StatusCode)
	}

	// the session no longer resolves; protected page redirects to login
	resp = get(t, app, "/listings/mine", sid)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("stale session should redirect, got %d", resp.StatusCode)
	}
}

// Login throttling with a dedicated per-route limiter, as wired in main.
func TestLoginThrottle(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))
	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{Max: 2, Expiration: time.Minute}), authH.Login)

	respLogin, _ := app.Test(httptest.NewRequest("GET", "/login", nil))
	csrfTok := cookieValue(respLogin, "csrf_")
	if csrfTok == "" {
		t.Fatal("csrf token missing")
	}

	send := func() *http.Response {
		form := strings.NewReader("csrf=" + csrfTok + "&email=buyer@example.com&password=wrongpass")
		req := httptest.NewRequest("POST", "/login", form)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		return resp
	}

	send()
	send()
	if resp := send(); resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after throttle, got %d", resp.StatusCode)
	}
}
