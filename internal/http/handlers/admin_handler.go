package handlers

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"threadline/internal/domain"
	applog "threadline/internal/log"
	"threadline/internal/repos"
	"threadline/internal/services"
	"threadline/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdminHandler struct {
	Order    *services.OrderService
	Inv      *services.InventoryService
	Prods    *repos.ProductRepo
	Orders   *repos.OrderRepo
	MediaDir string
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	byStatus, err := h.Orders.CountByStatus()
	if err != nil {
		applog.Error(c, "admin.dashboard.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load dashboard"})
	}
	productCount, _ := h.Prods.Count()
	lowStock, _ := h.Prods.LowStockCount(3)

	totalOrders := 0
	for _, n := range byStatus {
		totalOrders += n
	}
	return render(c, "admin_dashboard", fiber.Map{
		"ByStatus": byStatus, "Statuses": domain.Statuses,
		"TotalOrders": totalOrders, "ProductCount": productCount, "LowStock": lowStock,
	})
}

// GET /admin/orders
func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	ords, err := h.Orders.ListLatest(100)
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "admin_orders", fiber.Map{"Orders": ords, "Statuses": domain.Statuses})
}

// POST /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	status := c.FormValue("status")
	if id == "" || status == "" {
		return c.Status(400).SendString("missing id or status")
	}
	if err := h.Order.SetStatus(id, status); err != nil {
		applog.Error(c, "admin.orders.update.fail", err, map[string]any{"order_id": id, "status": status})
		return c.Status(400).SendString("could not update status")
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": status})
	return c.Redirect("/admin/orders")
}

// GET /admin/inventory
func (h *AdminHandler) Inventory(c *fiber.Ctx) error {
	rows, err := h.Inv.ListAll()
	if err != nil {
		applog.Error(c, "admin.inventory.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load inventory"})
	}
	return render(c, "admin_inventory", fiber.Map{"Rows": rows})
}

// POST /admin/inventory
func (h *AdminHandler) UpdateStock(c *fiber.Ctx) error {
	pid, okID := validate.ID(c.FormValue("product_id"))
	size := strings.TrimSpace(c.FormValue("size"))
	stock, okStock := validate.Stock(c.FormValue("stock"))
	if !okID || !okStock || !domain.ValidSize(size) {
		return c.Status(400).SendString("invalid input")
	}
	if err := h.Inv.SetStock(pid, size, stock); err != nil {
		applog.Error(c, "admin.inventory.save.fail", err, map[string]any{"product": pid, "size": size, "stock": stock})
		return c.Status(400).SendString("could not save stock")
	}
	applog.Audit(c, "admin.inventory.save", map[string]any{"product": pid, "size": size, "stock": stock})
	return c.Redirect("/admin/inventory")
}

// GET /admin/leads
func (h *AdminHandler) Leads(c *fiber.Ctx) error {
	leads, err := h.Order.Leads()
	if err != nil {
		applog.Error(c, "admin.leads.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load leads"})
	}
	return render(c, "admin_leads", fiber.Map{"Leads": leads})
}

// GET /admin/products
func (h *AdminHandler) ProductsPage(c *fiber.Ctx) error {
	products, err := h.Prods.List("", "", 200, 0)
	if err != nil {
		applog.Error(c, "admin.products.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products"})
	}
	return render(c, "admin_products", fiber.Map{"Products": products})
}

// GET /admin/products/new and /admin/products/:id/edit
func (h *AdminHandler) ProductForm(c *fiber.Ctx) error {
	data := fiber.Map{"Sizes": domain.Sizes, "Categories": domain.Categories}
	if id := c.Params("id"); id != "" {
		p, err := h.Prods.Get(id)
		if err != nil {
			return c.Status(404).Render("notfound", fiber.Map{"Message": "Product not found"})
		}
		vs, _ := h.Prods.Variants(id)
		bySize := map[string]*domain.ProductVariant{}
		for i := range vs {
			bySize[vs[i].Size] = &vs[i]
		}
		data["P"] = p
		data["VariantBySize"] = bySize
		data["Tags"] = strings.Join(p.Tags(), ", ")
	}
	return render(c, "admin_product_form", data)
}

// POST /admin/products saves a new or edited product, its variant matrix,
// and an optional uploaded image.
func (h *AdminHandler) SaveProduct(c *fiber.Ctx) error {
	name, okName := validate.Name(c.FormValue("name"))
	slug, okSlug := validate.Slug(c.FormValue("slug"))
	price, okPrice := validate.Price(c.FormValue("price"))
	category := strings.TrimSpace(c.FormValue("category"))
	if !okName || !okSlug || !okPrice || !domain.ValidCategory(category) {
		applog.Security(c, "validation.fail", map[string]any{"form": "product"})
		return c.Status(400).SendString("invalid product fields")
	}

	id := c.FormValue("id")
	var existing domain.Product
	if id != "" {
		var err error
		existing, err = h.Prods.Get(id)
		if err != nil {
			return c.Status(404).SendString("product not found")
		}
	} else {
		id = uuid.NewString()
	}

	var tags []string
	for _, t := range strings.Split(c.FormValue("tags"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, strings.ToLower(t))
		}
	}

	images := existing.Images()
	if path, err := h.saveImage(c, id); err != nil {
		applog.Error(c, "admin.products.image.fail", err, map[string]any{"product": id})
		return c.Status(400).SendString("could not save image")
	} else if path != "" {
		images = append([]string{path}, images...)
	}

	var variants []domain.ProductVariant
	for _, size := range domain.Sizes {
		raw := strings.TrimSpace(c.FormValue("stock_" + size))
		if raw == "" {
			continue
		}
		stock, ok := validate.Stock(raw)
		if !ok {
			return c.Status(400).SendString("invalid stock for size " + size)
		}
		vprice := price
		if pv, ok := validate.Price(c.FormValue("price_" + size)); ok && pv > 0 {
			vprice = pv
		}
		variants = append(variants, domain.ProductVariant{ProductID: id, Size: size, Stock: stock, Price: vprice})
	}

	p := domain.Product{
		ID:          id,
		Slug:        slug,
		Name:        name,
		Category:    category,
		Description: strings.TrimSpace(c.FormValue("description")),
		Price:       price,
		TagsJSON:    domain.ToJSONList(tags),
		ImagesJSON:  domain.ToJSONList(images),
		Active:      c.FormValue("active", "1") != "0",
	}
	if err := h.Prods.Save(p, variants); err != nil {
		applog.Error(c, "admin.products.save.fail", err, map[string]any{"product": id})
		return c.Status(400).SendString("could not save product")
	}
	applog.Audit(c, "admin.products.save", map[string]any{"product": id, "variants": len(variants)})
	return c.Redirect("/admin/products")
}

// POST /admin/products/:id/delete
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	if err := h.Prods.Delete(id); err != nil {
		applog.Error(c, "admin.products.delete.fail", err, map[string]any{"product": id})
		return c.Status(400).SendString("could not delete product")
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product": id})
	return c.Redirect("/admin/products")
}

var errBadImageType = errors.New("unsupported image type")

// saveImage stores an uploaded product image under the media dir and returns
// its media-relative path, or "" when no file was uploaded.
func (h *AdminHandler) saveImage(c *fiber.Ctx, productID string) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil || fh == nil {
		return "", nil
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return "", errBadImageType
	}
	rel := filepath.Join("products", productID, uuid.NewString()+ext)
	dst := filepath.Join(h.MediaDir, rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	if err := c.SaveFile(fh, dst); err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
