package handlers_test

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"threadline/internal/domain"
	"threadline/internal/repos"
	"threadline/internal/services"
)

const trackMissMsg = "Order not found. Please check your Order ID and Phone Number."

func TestTrackOrderHappyPath(t *testing.T) {
	app, db := newStoreApp(t)

	svc := services.NewOrderService(repos.NewOrderRepo(db))
	id, err := svc.Create("Jane Doe", "555-0100", []domain.CartItem{{
		ProductID: "p-oxford", Name: "Classic Oxford Shirt", Size: "M", Quantity: 2, Price: 49.99,
	}})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.SetStatus(id, domain.StatusShipped); err != nil {
		t.Fatal(err)
	}

	resp, err := app.Test(formReq("/track-order", "", url.Values{
		"orderId": {strings.ToLower(id)}, // lookup is case-insensitive
		"phone":   {"555-0100"},
	}))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", resp.StatusCode, body)
	}
	for _, want := range []string{id, "Classic Oxford Shirt", "99.98", "Shipped"} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("tracking page missing %q: %s", want, body)
		}
	}
}

func TestTrackOrderWrongPhone(t *testing.T) {
	app, db := newStoreApp(t)

	svc := services.NewOrderService(repos.NewOrderRepo(db))
	id, err := svc.Create("Jane Doe", "555-0100", []domain.CartItem{{
		ProductID: "p-oxford", Name: "Classic Oxford Shirt", Size: "M", Quantity: 1, Price: 49.99,
	}})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := app.Test(formReq("/track-order", "", url.Values{
		"orderId": {id}, "phone": {"555-9999"},
	}))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("want 404, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), trackMissMsg) {
		t.Fatalf("missing not-found message: %s", body)
	}
	if strings.Contains(string(body), "Jane Doe") {
		t.Fatalf("miss must not leak order data: %s", body)
	}
}

func TestTrackOrderMalformedID(t *testing.T) {
	app, _ := newStoreApp(t)

	resp, err := app.Test(formReq("/track-order", "", url.Values{
		"orderId": {"'; DROP TABLE orders;--"}, "phone": {"555-0100"},
	}))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), trackMissMsg) {
		t.Fatalf("missing not-found message: %s", body)
	}
}
