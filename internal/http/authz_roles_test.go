package handlers_test

import (
	"net/http"
	"net/url"
	"testing"
)

// Role gates on every protected route: anonymous visitors go to /login,
// wrong-role users bounce to /dashboard.
func TestRoleGates(t *testing.T) {
	app, _ := newTestApp(t)
	buyerSid, _ := loginAs(t, app, "buyer@example.com", "password123")
	supplierSid, _ := loginAs(t, app, "supplier@example.com", "password123")

	supplierOnly := []string{"/listings/new", "/listings/mine", "/requests"}
	buyerOnly := []string{"/my-requests"}

	for _, path := range append(append([]string{}, supplierOnly...), buyerOnly...) {
		resp := get(t, app, path, "")
		if resp.StatusCode != http.StatusFound {
			t.Errorf("anonymous %s: want redirect, got %d", path, resp.StatusCode)
		}
		if loc := resp.Header.Get("Location"); loc != "/login" {
			t.Errorf("anonymous %s: want /login, got %q", path, loc)
		}
	}

	for _, path := range supplierOnly {
		resp := get(t, app, path, buyerSid)
		if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/dashboard" {
			t.Errorf("buyer on %s: want bounce to /dashboard, got %d %q", path, resp.StatusCode, resp.Header.Get("Location"))
		}
		resp = get(t, app, path, supplierSid)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("supplier on %s: want 200, got %d", path, resp.StatusCode)
		}
	}

	for _, path := range buyerOnly {
		resp := get(t, app, path, supplierSid)
		if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/dashboard" {
			t.Errorf("supplier on %s: want bounce to /dashboard, got %d %q", path, resp.StatusCode, resp.Header.Get("Location"))
		}
		resp = get(t, app, path, buyerSid)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("buyer on %s: want 200, got %d", path, resp.StatusCode)
		}
	}
}

// A buyer cannot reach the supplier-only mutation endpoints at all.
func TestBuyerCannotMutateRequests(t *testing.T) {
	app, db := newTestApp(t)
	buyerSid, csrfTok := loginAs(t, app, "buyer@example.com", "password123")

	// buyer files a request against a seeded listing
	resp := postForm(t, app, "/requests/new", buyerSid, csrfTok, url.Values{
		"listing_id": {"lst-steel"}, "requested_quantity": {"2"},
	})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("request create expected redirect, got %d", resp.StatusCode)
	}
	var reqID string
	if err := db.Get(&reqID, `SELECT id FROM requests LIMIT 1`); err != nil {
		t.Fatal(err)
	}

	// the route gate bounces the buyer before the handler runs
	resp = postForm(t, app, "/requests/"+reqID+"/status", buyerSid, csrfTok, url.Values{"status": {"accepted"}})
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/dashboard" {
		t.Fatalf("buyer status change: want bounce, got %d", resp.StatusCode)
	}
	var status string
	if err := db.Get(&status, `SELECT status FROM requests WHERE id=?`, reqID); err != nil {
		t.Fatal(err)
	}
	if status != "pending" {
		t.Fatalf("buyer mutated status: %s", status)
	}
}

// Ownership is enforced inside the engine, not just at the route gate: a
// second supplier passes the role gate but gets 403 on someone else's request.
func TestSupplierCannotTouchForeignRequest(t *testing.T) {
	app, db := newTestApp(t)
	buyerSid, csrfTok := loginAs(t, app, "buyer@example.com", "password123")

	// register a rival supplier
	resp := postForm(t, app, "/register", "", csrfTok, url.Values{
		"name": {"Rival Supplier"}, "email": {"rival@example.com"},
		"password": {"secret123"}, "role": {"supplier"},
	})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("register rival: %d", resp.StatusCode)
	}
	rivalSid, _ := loginAs(t, app, "rival@example.com", "secret123")

	resp = postForm(t, app, "/requests/new", buyerSid, csrfTok, url.Values{
		"listing_id": {"lst-steel"}, "requested_quantity": {"1"},
	})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("request create: %d", resp.StatusCode)
	}
	var reqID string
	if err := db.Get(&reqID, `SELECT id FROM requests LIMIT 1`); err != nil {
		t.Fatal(err)
	}

	resp = postForm(t, app, "/requests/"+reqID+"/status", rivalSid, csrfTok, url.Values{"status": {"accepted"}})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("rival supplier: want 403, got %d", resp.StatusCode)
	}
	resp = postForm(t, app, "/requests/"+reqID+"/payment", rivalSid, csrfTok, url.Values{})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("rival supplier payment: want 403, got %d", resp.StatusCode)
	}
}

// Same for listings: the rival supplier cannot edit another supplier's listing.
func TestSupplierCannotEditForeignListing(t *testing.T) {
	app, _ := newTestApp(t)
	_, csrfTok := loginAs(t, app, "buyer@example.com", "password123")

	resp := postForm(t, app, "/register", "", csrfTok, url.Values{
		"name": {"Rival Supplier"}, "email": {"rival2@example.com"},
		"password": {"secret123"}, "role": {"supplier"},
	})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("register rival: %d", resp.StatusCode)
	}
	rivalSid, _ := loginAs(t, app, "rival2@example.com", "secret123")

	// edit form for a seeded listing owned by u-supplier
	resp = get(t, app, "/listings/lst-steel/edit", rivalSid)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("foreign edit form: want 403, got %d", resp.StatusCode)
	}

	resp = postForm(t, app, "/listings/lst-steel", rivalSid, csrfTok, url.Values{
		"category": {"raw_material"}, "name": {"Hijacked"}, "description": {""},
		"quantity_available": {"1"}, "unit": {"kg"}, "location_country": {"X"},
		"pricing_mode": {"fixed"}, "unit_price": {"0.01"}, "is_active": {"on"},
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("foreign update: want 403, got %d", resp.StatusCode)
	}
}
