package repos

import (
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed a baseline catalog if the DB is empty.
	if err := seedCatalog(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Catalog
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  slug TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  category TEXT NOT NULL CHECK (category IN ('men','women','wholesale')),
  description TEXT,
  price NUMERIC NOT NULL CHECK (price >= 0),
  tags_json TEXT,
  images_json TEXT,
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category   ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

CREATE TABLE IF NOT EXISTS product_variants(
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  size TEXT NOT NULL CHECK (size IN ('S','M','L','XL','XXL')),
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  price NUMERIC NOT NULL CHECK (price >= 0),
  PRIMARY KEY(product_id, size)
);

-- Persisted cart snapshots, keyed by session id. The full snapshot is
-- rewritten on every mutation; an emptied cart leaves no rows behind.
CREATE TABLE IF NOT EXISTS cart_items(
  session_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  size TEXT NOT NULL,
  name TEXT NOT NULL,
  image TEXT,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  price NUMERIC NOT NULL,
  updated_at TEXT,
  PRIMARY KEY (session_id, product_id, size)
);

-- Orders: the id + phone pair is the customer-facing lookup key.
CREATE TABLE IF NOT EXISTS orders(
  order_id TEXT PRIMARY KEY,
  customer_name TEXT NOT NULL,
  phone TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'Pending'
    CHECK (status IN ('Pending','Confirmed','Packed','Shipped','Delivered')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_phone      ON orders(phone);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items(
  order_id TEXT NOT NULL REFERENCES orders(order_id) ON DELETE CASCADE,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  image TEXT,
  size TEXT NOT NULL,
  qty INTEGER NOT NULL,
  price NUMERIC NOT NULL,
  PRIMARY KEY (order_id, product_id, size)
);

-- Back-office allow-list & sessions
CREATE TABLE IF NOT EXISTS admins(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_admins_email ON admins(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  admin_id TEXT NULL REFERENCES admins(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_admin ON sessions(admin_id);

-- One-shot emailed sign-in tokens.
CREATE TABLE IF NOT EXISTS login_tokens(
  token TEXT PRIMARY KEY,
  admin_id TEXT NOT NULL REFERENCES admins(id) ON DELETE CASCADE,
  expires_at TEXT NOT NULL,
  used INTEGER NOT NULL DEFAULT 0
);
`
	_, err := db.Exec(schema)
	return err
}

func seedCatalog(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo products/variants")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO products(id,slug,name,category,description,price,tags_json,images_json) VALUES
	  ('p-oxford','classic-oxford-shirt','Classic Oxford Shirt','men',
	   'Breathable cotton oxford with a button-down collar.',49.99,
	   '["shirt","cotton","casual"]','["products/p-oxford/main.jpg"]'),
	  ('p-linen','linen-summer-dress','Linen Summer Dress','women',
	   'Lightweight linen dress for warm days.',89.99,
	   '["dress","linen","summer"]','["products/p-linen/main.jpg"]'),
	  ('p-hoodie','heavyweight-hoodie','Heavyweight Hoodie','men',
	   'Fleece-lined hoodie in a relaxed fit.',64.50,
	   '["hoodie","fleece"]','["products/p-hoodie/main.jpg"]'),
	  ('p-tee-pack','crew-tee-10-pack','Crew T-Shirt 10-Pack','wholesale',
	   'Plain crew-neck tees in bulk, mixed sizes available per carton.',120.00,
	   '["tee","bulk"]','["products/p-tee-pack/main.jpg"]')`)

	tx.MustExec(`INSERT INTO product_variants(product_id,size,stock,price) VALUES
	  ('p-oxford','S',10,49.99),('p-oxford','M',14,49.99),('p-oxford','L',8,49.99),
	  ('p-oxford','XL',4,52.99),('p-oxford','XXL',0,52.99),
	  ('p-linen','S',6,89.99),('p-linen','M',9,89.99),('p-linen','L',3,89.99),
	  ('p-hoodie','M',12,64.50),('p-hoodie','L',12,64.50),('p-hoodie','XL',5,67.00),
	  ('p-tee-pack','M',40,120.00),('p-tee-pack','L',40,120.00),('p-tee-pack','XL',25,120.00)`)

	return tx.Commit()
}

// SeedAdmin inserts (or updates) one allow-listed admin. It is called
// explicitly from main with operator-supplied credentials; there is no
// implicit self-registration path.
func SeedAdmin(db *sqlx.DB, email, name, password string) error {
	h, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		INSERT INTO admins(id,email,name,password_hash)
		VALUES(?,?,?,?)
		ON CONFLICT(email) DO UPDATE SET name=excluded.name, password_hash=excluded.password_hash
	`, uuid.NewString(), email, name, string(h))
	return err
}
