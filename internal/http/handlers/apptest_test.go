package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"threadline/internal/config"
	"threadline/internal/http/handlers"
	"threadline/internal/mail"
	"threadline/internal/repos"
	"threadline/internal/services"
)

// newStoreApp wires the full route table against an in-memory database and
// the real templates. CSRF is left out so form posts stay one-shot.
func newStoreApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{MediaDir: "../../../web/media", WhatsAppNumber: "1234567890"}
	authSvc := &services.AuthService{Admins: repos.NewAdminRepo(db), Mail: mail.LogSender{}, BaseURL: "http://localhost:3000"}
	authH := &handlers.AuthHandler{Auth: authSvc}
	deps := handlers.NewDeps(db, cfg, authSvc)

	engine := html.New("../../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(requestid.New())

	app.Get("/", deps.CatalogHandler.Home)
	app.Get("/products", deps.CatalogHandler.List)
	app.Get("/products/:slug", deps.CatalogHandler.Detail)
	app.Get("/api/v1/availability", deps.CatalogHandler.Availability)

	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/update", deps.CartHandler.Update)
	app.Post("/cart/remove", deps.CartHandler.Remove)
	app.Get("/checkout", deps.OrderHandler.Checkout)
	app.Post("/checkout", deps.OrderHandler.Place)

	app.Get("/track-order", deps.OrderHandler.TrackForm)
	app.Post("/track-order", deps.OrderHandler.Track)

	app.Get("/admin/login", authH.LoginForm)
	app.Post("/admin/login", authH.Login)
	app.Post("/logout", authH.Logout)

	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/", deps.AdminHandler.Dashboard)
	admin.Get("/orders", deps.AdminHandler.OrdersPage)
	admin.Post("/orders/:id/status", deps.AdminHandler.UpdateOrderStatus)
	admin.Get("/inventory", deps.AdminHandler.Inventory)
	admin.Post("/inventory", deps.AdminHandler.UpdateStock)
	admin.Get("/leads", deps.AdminHandler.Leads)

	return app, db
}

// formReq builds an urlencoded POST carrying the given session cookie.
func formReq(path, sid string, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	return req
}

func getReq(path, sid string) *http.Request {
	req := httptest.NewRequest("GET", path, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	return req
}
