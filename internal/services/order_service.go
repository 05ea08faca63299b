package services

import (
	"crypto/rand"
	"database/sql"
	"errors"
	"strings"

	"threadline/internal/domain"
	"threadline/internal/repos"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrOrderNotFound = errors.New("order not found")
	ErrUnknownStatus = errors.New("unknown order status")
)

// Order ids are the fixed store prefix plus six random base-36 characters,
// e.g. MM90-4F7K2A. They double as the customer's tracking key.
const orderIDPrefix = "MM90"

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

type OrderService struct {
	Orders *repos.OrderRepo
}

func NewOrderService(orders *repos.OrderRepo) *OrderService {
	return &OrderService{Orders: orders}
}

// Create persists a new order from a finalized cart and contact info. The
// item snapshot and the stock decrement commit atomically; the initial
// status is always Pending. Returns the generated order id.
func (s *OrderService) Create(name, phone string, items []domain.CartItem) (string, error) {
	if len(items) == 0 {
		return "", ErrEmptyCart
	}
	o := domain.Order{
		Name:   strings.TrimSpace(name),
		Phone:  strings.TrimSpace(phone),
		Status: domain.StatusPending,
	}

	// Collisions in a 36^6 space are rare but not impossible; regenerate
	// instead of failing the checkout.
	var err error
	for attempt := 0; attempt < 5; attempt++ {
		o.OrderID = NewOrderID()
		err = s.Orders.Create(o, items)
		if err == nil {
			return o.OrderID, nil
		}
		if !repos.IsDuplicateID(err) {
			return "", err
		}
	}
	return "", err
}

// NewOrderID generates a human-readable order identifier.
func NewOrderID() string {
	b := make([]byte, 6)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = base36[int(b[i])%len(base36)]
	}
	return orderIDPrefix + "-" + string(b)
}

// Track is the sole customer-facing read path: both the order id (compared
// case-insensitively) and the phone (exact, trimmed) must match. Knowledge
// of the pair substitutes for a login.
func (s *OrderService) Track(orderID, phone string) (domain.Order, []domain.CartItem, error) {
	orderID = strings.ToUpper(strings.TrimSpace(orderID))
	phone = strings.TrimSpace(phone)
	o, items, err := s.Orders.FindByIDAndPhone(orderID, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, nil, ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, nil, err
	}
	return o, items, nil
}

// SetStatus overwrites an order's status (admin action). The value must be
// one of the known statuses; transitions are otherwise unconstrained so an
// admin can correct a mis-set order.
func (s *OrderService) SetStatus(orderID, status string) error {
	if !domain.ValidStatus(status) {
		return ErrUnknownStatus
	}
	ok, err := s.Orders.UpdateStatus(orderID, status)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOrderNotFound
	}
	return nil
}

func (s *OrderService) Leads() ([]repos.LeadRow, error) {
	return s.Orders.Leads()
}
