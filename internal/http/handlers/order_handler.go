package handlers

import (
	"errors"

	"threadline/internal/domain"
	applog "threadline/internal/log"
	"threadline/internal/repos"
	"threadline/internal/services"
	"threadline/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Cart           *services.CartService
	Order          *services.OrderService
	WhatsAppNumber string
}

func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	st, err := h.Cart.Load(ensureSID(c))
	if err != nil {
		applog.Error(c, "checkout.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	return render(c, "checkout", fiber.Map{"Items": st.Items(), "Total": st.Total()})
}

// Place handles POST /checkout: validates contact info, creates the order,
// clears the cart, and shows the confirmation page with the WhatsApp
// hand-off link.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c)

	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "name"})
		return h.checkoutError(c, "Please enter your name.")
	}
	phone, ok := validate.Phone(c.FormValue("phone"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "phone"})
		return h.checkoutError(c, "Please enter a valid phone number.")
	}

	st, err := h.Cart.Load(sid)
	if err != nil {
		applog.Error(c, "checkout.load", err, nil)
		return h.checkoutError(c, "Could not load your cart. Please try again.")
	}
	items := st.Items()

	orderID, err := h.Order.Create(name, phone, items)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			return h.checkoutError(c, "Your cart is empty.")
		case errors.Is(err, repos.ErrInsufficientStock):
			applog.Security(c, "order.place.fail", map[string]any{"sid": sid, "error": err.Error()})
			return h.checkoutError(c, "Some items are no longer in stock. Please review your cart.")
		default:
			applog.Error(c, "order.place.fail", err, map[string]any{"sid": sid})
			return h.checkoutError(c, "There was a problem placing your order. Please try again.")
		}
	}

	st.Clear()
	applog.Audit(c, "order.place", map[string]any{"order_id": orderID, "items": len(items)})

	total := 0.0
	for _, it := range items {
		total += it.Subtotal()
	}
	waLink := services.WhatsAppLink(h.WhatsAppNumber, orderID, name, phone, items)
	return render(c, "order_confirmed", fiber.Map{
		"OrderID": orderID, "Name": name, "Items": items, "Total": total, "WhatsAppURL": waLink,
	})
}

func (h *OrderHandler) checkoutError(c *fiber.Ctx, msg string) error {
	st, err := h.Cart.Load(ensureSID(c))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(msg)
	}
	return c.Status(fiber.StatusBadRequest).Render("checkout", fiber.Map{
		"Items": st.Items(), "Total": st.Total(), "Err": msg,
		"CSRFToken": c.Cookies("csrf_"),
	})
}

// TrackForm serves the lookup form; Track answers it. The id+phone pair acts
// as the access check, so a miss never leaks partial data.
func (h *OrderHandler) TrackForm(c *fiber.Ctx) error {
	return render(c, "track_order", fiber.Map{"Statuses": domain.Statuses})
}

func (h *OrderHandler) Track(c *fiber.Ctx) error {
	orderID, ok := validate.OrderID(c.FormValue("orderId"))
	phone, okPhone := validate.Phone(c.FormValue("phone"))
	if !ok || !okPhone {
		return c.Status(fiber.StatusBadRequest).Render("track_order", fiber.Map{
			"Statuses":  domain.Statuses,
			"Err":       "Order not found. Please check your Order ID and Phone Number.",
			"CSRFToken": c.Cookies("csrf_"),
		})
	}

	o, items, err := h.Order.Track(orderID, phone)
	if err != nil {
		if !errors.Is(err, services.ErrOrderNotFound) {
			applog.Error(c, "order.track.fail", err, nil)
		}
		return c.Status(fiber.StatusNotFound).Render("track_order", fiber.Map{
			"Statuses":  domain.Statuses,
			"Err":       "Order not found. Please check your Order ID and Phone Number.",
			"CSRFToken": c.Cookies("csrf_"),
		})
	}

	total := 0.0
	for _, it := range items {
		total += it.Subtotal()
	}
	return render(c, "track_order", fiber.Map{
		"Statuses":    domain.Statuses,
		"Order":       o,
		"Items":       items,
		"Total":       total,
		"StatusIndex": domain.StatusIndex(o.Status),
	})
}
