package repos

import (
	"errors"
	"fmt"
	"strings"

	"threadline/internal/domain"

	"github.com/jmoiron/sqlx"
)

// ErrInsufficientStock is returned when an order line exceeds variant stock.
var ErrInsufficientStock = errors.New("insufficient stock")

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// Create inserts the order header and its item snapshot, and decrements
// variant stock, all in one transaction. A guarded UPDATE keeps stock from
// going negative under concurrent checkouts.
func (r *OrderRepo) Create(o domain.Order, items []domain.CartItem) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, it := range items {
		res, err := tx.Exec(`
		  UPDATE product_variants
		  SET stock = stock - ?
		  WHERE product_id = ? AND size = ? AND stock >= ?
		`, it.Quantity, it.ProductID, it.Size, it.Quantity)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("%w: %s (%s)", ErrInsufficientStock, it.ProductID, it.Size)
		}
	}

	if _, err := tx.Exec(`
	  INSERT INTO orders(order_id, customer_name, phone, status, created_at)
	  VALUES(?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, o.OrderID, o.Name, o.Phone, o.Status); err != nil {
		return err
	}
	for _, it := range items {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id, product_id, name, image, size, qty, price)
		  VALUES(?, ?, ?, ?, ?, ?, ?)
		`, o.OrderID, it.ProductID, it.Name, it.Image, it.Size, it.Quantity, it.Price); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// IsDuplicateID reports whether err is the unique-key violation raised when
// a generated order id collides with an existing one.
func IsDuplicateID(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: orders.order_id")
}

// FindByIDAndPhone is the customer-facing lookup. Both values must match;
// the id comparison is case-insensitive, the phone comparison exact.
func (r *OrderRepo) FindByIDAndPhone(orderID, phone string) (domain.Order, []domain.CartItem, error) {
	var o domain.Order
	if err := r.db.Get(&o, `
	  SELECT order_id, customer_name, phone, status, created_at
	  FROM orders
	  WHERE UPPER(order_id) = UPPER(?) AND phone = ?
	`, orderID, phone); err != nil {
		return domain.Order{}, nil, err
	}
	items, err := r.items(o.OrderID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	return o, items, nil
}

func (r *OrderRepo) Get(orderID string) (domain.Order, []domain.CartItem, error) {
	var o domain.Order
	if err := r.db.Get(&o, `
	  SELECT order_id, customer_name, phone, status, created_at
	  FROM orders WHERE order_id = ?
	`, orderID); err != nil {
		return domain.Order{}, nil, err
	}
	items, err := r.items(orderID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	return o, items, nil
}

func (r *OrderRepo) items(orderID string) ([]domain.CartItem, error) {
	var items []domain.CartItem
	err := r.db.Select(&items, `
	  SELECT product_id, name, COALESCE(image,'') AS image, size, qty, price
	  FROM order_items
	  WHERE order_id = ?
	  ORDER BY name, size
	`, orderID)
	return items, err
}

// Admin list summary.
type OrderSummary struct {
	OrderID   string  `db:"order_id"`
	Name      string  `db:"customer_name"`
	Phone     string  `db:"phone"`
	Status    string  `db:"status"`
	CreatedAt string  `db:"created_at"`
	ItemCount int     `db:"item_count"`
	Total     float64 `db:"total"`
}

func (r *OrderRepo) ListLatest(limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []OrderSummary
	err := r.db.Select(&out, `
	  SELECT o.order_id, o.customer_name, o.phone, o.status, o.created_at,
	         COUNT(oi.product_id) AS item_count,
	         COALESCE(SUM(oi.qty * oi.price), 0) AS total
	  FROM orders o
	  LEFT JOIN order_items oi ON oi.order_id = o.order_id
	  GROUP BY o.order_id
	  ORDER BY datetime(o.created_at) DESC
	  LIMIT ?
	`, limit)
	return out, err
}

// UpdateStatus overwrites the order status. The caller validates the value.
func (r *OrderRepo) UpdateStatus(orderID, status string) (bool, error) {
	res, err := r.db.Exec(`UPDATE orders SET status = ? WHERE UPPER(order_id) = UPPER(?)`, status, orderID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *OrderRepo) CountByStatus() (map[string]int, error) {
	var rows []struct {
		Status string `db:"status"`
		N      int    `db:"n"`
	}
	if err := r.db.Select(&rows, `SELECT status, COUNT(*) AS n FROM orders GROUP BY status`); err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}

// LeadRow aggregates orders per phone number for the admin leads page.
type LeadRow struct {
	Name       string  `db:"name"`
	Phone      string  `db:"phone"`
	OrderCount int     `db:"order_count"`
	OrderIDs   string  `db:"order_ids"` // comma-separated
	TotalSpent float64 `db:"total_spent"`
}

func (l LeadRow) Orders() []string {
	if l.OrderIDs == "" {
		return nil
	}
	return strings.Split(l.OrderIDs, ",")
}

func (r *OrderRepo) Leads() ([]LeadRow, error) {
	var out []LeadRow
	err := r.db.Select(&out, `
	  SELECT o.phone,
	         (SELECT customer_name FROM orders x
	          WHERE x.phone = o.phone
	          ORDER BY datetime(x.created_at) DESC LIMIT 1) AS name,
	         COUNT(DISTINCT o.order_id) AS order_count,
	         GROUP_CONCAT(DISTINCT o.order_id) AS order_ids,
	         COALESCE(SUM(oi.qty * oi.price), 0) AS total_spent
	  FROM orders o
	  LEFT JOIN order_items oi ON oi.order_id = o.order_id
	  GROUP BY o.phone
	  ORDER BY total_spent DESC
	`)
	return out, err
}
