package handlers

import (
	"strings"

	"threadline/internal/domain"
	applog "threadline/internal/log"
	"threadline/internal/services"
	"threadline/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
	Inv     *services.InventoryService
}

func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	featured, err := h.Catalog.Featured(6)
	if err != nil {
		applog.Error(c, "home.load", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the storefront"})
	}
	return render(c, "home", fiber.Map{"Featured": featured, "Categories": domain.Categories})
}

// List serves /products with optional ?category= and ?q= filters.
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	if category == "all" {
		category = ""
	}
	if category != "" && !domain.ValidCategory(category) {
		applog.Security(c, "validation.fail", map[string]any{"field": "category", "value": category})
		category = ""
	}
	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	if len(q) > 50 {
		q = q[:50]
	}

	products, err := h.Catalog.ListProducts(category, q, 1, 24)
	if err != nil {
		applog.Error(c, "products.list", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products"})
	}
	return render(c, "products", fiber.Map{
		"Products": products, "Category": category, "Q": q, "Categories": domain.Categories,
	})
}

// Detail serves /products/:slug with the variant size/stock matrix.
func (h *CatalogHandler) Detail(c *fiber.Ctx) error {
	slug, ok := validate.Slug(c.Params("slug"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "slug"})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	page, err := h.Catalog.GetBySlug(slug)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	return render(c, "product", fiber.Map{"P": page.Product, "Variants": page.Variants})
}

// Availability is the JSON stock probe: GET /api/v1/availability?productId=&size=
func (h *CatalogHandler) Availability(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Query("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing productId"})
	}
	size := strings.TrimSpace(c.Query("size"))
	if !domain.ValidSize(size) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown size"})
	}
	avail, err := h.Inv.CheckAvailability(productID, size)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(avail)
}
