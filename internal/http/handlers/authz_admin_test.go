package handlers_test

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"threadline/internal/repos"
)

func TestAdminRoutesRequireSession(t *testing.T) {
	app, _ := newStoreApp(t)

	for _, path := range []string{"/admin", "/admin/orders", "/admin/inventory", "/admin/leads"} {
		resp, err := app.Test(getReq(path, ""))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusFound {
			t.Fatalf("%s: want redirect for anonymous, got %d", path, resp.StatusCode)
		}
		if loc := resp.Header.Get("Location"); loc != "/admin/login" {
			t.Fatalf("%s: want redirect to /admin/login, got %q", path, loc)
		}
	}
}

func TestAdminDashboardWithBoundSession(t *testing.T) {
	app, db := newStoreApp(t)

	if err := repos.SeedAdmin(db, "owner@example.com", "Owner", "Sup3rSecret"); err != nil {
		t.Fatal(err)
	}

	// Sign in through the real login handler
	resp, err := app.Test(formReq("/admin/login", "sid-admin", url.Values{
		"email": {"owner@example.com"}, "password": {"Sup3rSecret"},
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("login: want redirect, got %d", resp.StatusCode)
	}

	resp, err = app.Test(getReq("/admin", "sid-admin"))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard: want 200, got %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), "Dashboard") {
		t.Fatalf("dashboard page looks wrong: %s", body)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	app, db := newStoreApp(t)

	if err := repos.SeedAdmin(db, "owner@example.com", "Owner", "Sup3rSecret"); err != nil {
		t.Fatal(err)
	}

	resp, err := app.Test(formReq("/admin/login", "sid-x", url.Values{
		"email": {"owner@example.com"}, "password": {"WrongPass1"},
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", resp.StatusCode)
	}

	// Session stays anonymous
	resp, err = app.Test(getReq("/admin", "sid-x"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("bad login must not grant access, got %d", resp.StatusCode)
	}
}

func TestLogoutDropsAdminAccess(t *testing.T) {
	app, db := newStoreApp(t)

	if err := repos.SeedAdmin(db, "owner@example.com", "Owner", "Sup3rSecret"); err != nil {
		t.Fatal(err)
	}
	if _, err := app.Test(formReq("/admin/login", "sid-admin", url.Values{
		"email": {"owner@example.com"}, "password": {"Sup3rSecret"},
	})); err != nil {
		t.Fatal(err)
	}

	if _, err := app.Test(formReq("/logout", "sid-admin", url.Values{})); err != nil {
		t.Fatal(err)
	}

	resp, err := app.Test(getReq("/admin", "sid-admin"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("want redirect after logout, got %d", resp.StatusCode)
	}
}

func TestAdminUpdatesOrderStatus(t *testing.T) {
	app, db := newStoreApp(t)

	if err := repos.SeedAdmin(db, "owner@example.com", "Owner", "Sup3rSecret"); err != nil {
		t.Fatal(err)
	}
	if _, err := app.Test(formReq("/admin/login", "sid-admin", url.Values{
		"email": {"owner@example.com"}, "password": {"Sup3rSecret"},
	})); err != nil {
		t.Fatal(err)
	}

	// Place an order directly
	orders := repos.NewOrderRepo(db)
	// reuse the storefront: one oxford M is always seeded in stock
	if _, err := app.Test(formReq("/cart", "sid-shopper", url.Values{
		"productId": {"p-oxford"}, "size": {"M"}, "qty": {"1"},
	})); err != nil {
		t.Fatal(err)
	}
	if _, err := app.Test(formReq("/checkout", "sid-shopper", url.Values{
		"name": {"Jane"}, "phone": {"555-0100"},
	})); err != nil {
		t.Fatal(err)
	}

	sums, err := orders.ListLatest(1)
	if err != nil || len(sums) != 1 {
		t.Fatalf("expected one order, got %v (%v)", sums, err)
	}
	id := sums[0].OrderID

	resp, err := app.Test(formReq("/admin/orders/"+id+"/status", "sid-admin", url.Values{
		"status": {"Packed"},
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status update: want redirect, got %d", resp.StatusCode)
	}

	o, _, err := orders.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if o.Status != "Packed" {
		t.Fatalf("want status Packed, got %s", o.Status)
	}
}
