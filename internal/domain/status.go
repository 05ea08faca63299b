package domain

// Order statuses in conventional fulfillment order. The tracking page
// highlights every status up to and including the current one; admins may
// set any status from any status (corrections must stay possible).
const (
	StatusPending   = "Pending"
	StatusConfirmed = "Confirmed"
	StatusPacked    = "Packed"
	StatusShipped   = "Shipped"
	StatusDelivered = "Delivered"
)

var Statuses = []string{StatusPending, StatusConfirmed, StatusPacked, StatusShipped, StatusDelivered}

func ValidStatus(s string) bool {
	return StatusIndex(s) >= 0
}

// StatusIndex returns the position of s in the fulfillment sequence, or -1.
func StatusIndex(s string) int {
	for i, v := range Statuses {
		if v == s {
			return i
		}
	}
	return -1
}
