package services

import (
	"fmt"
	"net/url"
	"strings"

	"threadline/internal/domain"
)

// WhatsAppLink builds the wa.me hand-off URL shown after checkout. It is a
// pre-filled message, not an API integration; the shopper sends it to the
// store's number to confirm the order.
func WhatsAppLink(number, orderID, name, phone string, items []domain.CartItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*New Order: %s*\n\n*Name:* %s\n*Phone:* %s\n\n*Items:*\n", orderID, name, phone)
	total := 0.0
	for _, it := range items {
		fmt.Fprintf(&b, "- %s (%s) x %d @ $%.2f\n", it.Name, it.Size, it.Quantity, it.Price)
		total += it.Subtotal()
	}
	fmt.Fprintf(&b, "\n*Total: $%.2f*", total)
	return "https://wa.me/" + number + "?text=" + url.QueryEscape(b.String())
}
