package repos

import (
	"threadline/internal/domain"

	"github.com/jmoiron/sqlx"
)

// CartRepo persists cart snapshots keyed by session id. It implements
// cart.Persister: the full snapshot is rewritten on every save, and saving
// an empty cart deletes the snapshot instead of storing an empty list.
type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

func (r *CartRepo) Load(sessionID string) ([]domain.CartItem, error) {
	var out []domain.CartItem
	err := r.db.Select(&out, `
	  SELECT product_id, name, COALESCE(image,'') AS image, size, qty, price
	  FROM cart_items
	  WHERE session_id = ?
	  ORDER BY rowid
	`, sessionID)
	return out, err
}

func (r *CartRepo) Save(sessionID string, items []domain.CartItem) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM cart_items WHERE session_id = ?`, sessionID); err != nil {
		return err
	}
	for _, it := range items {
		if _, err := tx.Exec(`
		  INSERT INTO cart_items(session_id, product_id, size, name, image, qty, price, updated_at)
		  VALUES(?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		`, sessionID, it.ProductID, it.Size, it.Name, it.Image, it.Quantity, it.Price); err != nil {
			return err
		}
	}
	return tx.Commit()
}
