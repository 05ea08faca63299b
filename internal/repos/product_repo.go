package repos

import (
	"time"

	"threadline/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, slug, name, category, COALESCE(description,'') AS description, price,
  COALESCE(tags_json,'') AS tags_json, COALESCE(images_json,'') AS images_json,
  active, created_at, COALESCE(updated_at,'') AS updated_at`

// List returns active products, optionally filtered by category and a
// name/tag keyword, newest first.
func (r *ProductRepo) List(category, q string, limit, offset int) ([]domain.Product, error) {
	where := `active = 1`
	args := []any{}
	if category != "" {
		where += ` AND category = ?`
		args = append(args, category)
	}
	if q != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(tags_json) LIKE ?)`
		args = append(args, "%"+q+"%", "%"+q+"%")
	}
	args = append(args, limit, offset)

	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE `+where+`
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?`, args...)
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) GetBySlug(slug string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE slug = ? AND active = 1`, slug)
	return p, err
}

func (r *ProductRepo) Variants(productID string) ([]domain.ProductVariant, error) {
	var out []domain.ProductVariant
	err := r.db.Select(&out, `
	  SELECT product_id, size, stock, price
	  FROM product_variants
	  WHERE product_id = ?
	  ORDER BY CASE size WHEN 'S' THEN 0 WHEN 'M' THEN 1 WHEN 'L' THEN 2 WHEN 'XL' THEN 3 ELSE 4 END
	`, productID)
	return out, err
}

func (r *ProductRepo) Variant(productID, size string) (domain.ProductVariant, error) {
	var v domain.ProductVariant
	err := r.db.Get(&v, `
	  SELECT product_id, size, stock, price
	  FROM product_variants
	  WHERE product_id = ? AND size = ?`, productID, size)
	return v, err
}

// Save upserts a product header and replaces its variant set in one
// transaction. Admin product-form path.
func (r *ProductRepo) Save(p domain.Product, variants []domain.ProductVariant) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(`
	  INSERT INTO products(id,slug,name,category,description,price,tags_json,images_json,active,created_at,updated_at)
	  VALUES(?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP,NULL)
	  ON CONFLICT(id) DO UPDATE SET
	    slug=excluded.slug, name=excluded.name, category=excluded.category,
	    description=excluded.description, price=excluded.price,
	    tags_json=excluded.tags_json, images_json=excluded.images_json,
	    active=excluded.active, updated_at=?
	`, p.ID, p.Slug, p.Name, p.Category, p.Description, p.Price, p.TagsJSON, p.ImagesJSON, p.Active, now); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM product_variants WHERE product_id = ?`, p.ID); err != nil {
		return err
	}
	for _, v := range variants {
		if _, err := tx.Exec(`
		  INSERT INTO product_variants(product_id,size,stock,price) VALUES(?,?,?,?)
		`, p.ID, v.Size, v.Stock, v.Price); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *ProductRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	return err
}

func (r *ProductRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE active = 1`)
	return n, err
}

// Inventory rows for the admin stock page.
type InventoryRow struct {
	ProductID string  `db:"product_id"`
	Name      string  `db:"name"`
	Category  string  `db:"category"`
	Size      string  `db:"size"`
	Stock     int     `db:"stock"`
	Price     float64 `db:"price"`
}

func (r *ProductRepo) ListInventory() ([]InventoryRow, error) {
	var rows []InventoryRow
	err := r.db.Select(&rows, `
	  SELECT v.product_id, p.name, p.category, v.size, v.stock, v.price
	  FROM product_variants v
	  JOIN products p ON p.id = v.product_id
	  ORDER BY p.name,
	    CASE v.size WHEN 'S' THEN 0 WHEN 'M' THEN 1 WHEN 'L' THEN 2 WHEN 'XL' THEN 3 ELSE 4 END
	`)
	return rows, err
}

// SetStock overwrites the stock for one (product, size) variant.
func (r *ProductRepo) SetStock(productID, size string, stock int) error {
	_, err := r.db.Exec(`
	  INSERT INTO product_variants(product_id, size, stock, price)
	  VALUES (?, ?, ?, COALESCE((SELECT price FROM products WHERE id = ?), 0))
	  ON CONFLICT(product_id, size) DO UPDATE SET stock = excluded.stock
	`, productID, size, stock, productID)
	return err
}

func (r *ProductRepo) LowStockCount(threshold int) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM product_variants WHERE stock <= ?`, threshold)
	return n, err
}
