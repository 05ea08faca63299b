package handlers

import (
	"strings"

	"threadline/internal/domain"
	applog "threadline/internal/log"
	"threadline/internal/services"
	"threadline/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	st, err := h.Cart.Load(ensureSID(c))
	if err != nil {
		applog.Error(c, "cart.load", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	return render(c, "cart", fiber.Map{
		"Items": st.Items(), "Total": st.Total(), "Count": st.Count(),
	})
}

// Add handles POST /cart (productId, size, qty).
func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(400).SendString("missing productId")
	}
	size := strings.TrimSpace(c.FormValue("size"))
	if !domain.ValidSize(size) {
		applog.Security(c, "validation.fail", map[string]any{"field": "size"})
		return c.Status(400).SendString("unknown size")
	}
	qty := validate.Qty(c.FormValue("qty"))

	if err := h.Cart.Add(sid, productID, size, qty); err != nil {
		applog.Error(c, "cart.add.fail", err, map[string]any{"product": productID, "size": size})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	applog.Info(c, "cart.add", map[string]any{"product": productID, "size": size, "qty": qty})
	return c.Redirect("/cart")
}

// Update handles POST /cart/update; a quantity of zero removes the line.
func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	size := strings.TrimSpace(c.FormValue("size"))
	if !ok || !domain.ValidSize(size) {
		return c.Status(400).SendString("invalid input")
	}
	qty, _ := validate.Stock(c.FormValue("qty")) // 0 allowed here: behaves as remove

	if err := h.Cart.UpdateQuantity(sid, productID, size, qty); err != nil {
		applog.Error(c, "cart.update.fail", err, map[string]any{"product": productID, "size": size})
		return c.Status(500).SendString("could not update cart")
	}
	return c.Redirect("/cart")
}

// Remove handles POST /cart/remove.
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	size := strings.TrimSpace(c.FormValue("size"))
	if !ok || !domain.ValidSize(size) {
		return c.Status(400).SendString("invalid input")
	}
	if err := h.Cart.Remove(sid, productID, size); err != nil {
		applog.Error(c, "cart.remove.fail", err, map[string]any{"product": productID, "size": size})
		return c.Status(500).SendString("could not update cart")
	}
	applog.Info(c, "cart.remove", map[string]any{"product": productID, "size": size})
	return c.Redirect("/cart")
}
