package repos

import (
	"log"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// IsUniqueViolation reports whether err is a UNIQUE index conflict. The
// driver has no sentinel for it, so this matches the sqlite message text.
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

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
	// Demo users + listings (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}
	if err := seedListings(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('buyer','supplier')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Listings
CREATE TABLE IF NOT EXISTS listings(
  id TEXT PRIMARY KEY,
  supplier_id TEXT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
  category TEXT NOT NULL CHECK (category IN ('raw_material','service','other')),
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  quantity_available INTEGER NOT NULL DEFAULT 0 CHECK (quantity_available >= 0),
  unit TEXT NOT NULL CHECK (unit IN ('kg','ton','litre','unit')),
  location_country TEXT NOT NULL,
  pricing_mode TEXT NOT NULL CHECK (pricing_mode IN ('fixed','rfq_only')),
  unit_price TEXT NULL,              -- decimal string; NULL for rfq_only
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_listings_supplier   ON listings(supplier_id);
CREATE INDEX IF NOT EXISTS idx_listings_category   ON listings(category);
CREATE INDEX IF NOT EXISTS idx_listings_created_at ON listings(created_at);

-- Requests (pricing snapshotted at creation; never recomputed)
CREATE TABLE IF NOT EXISTS requests(
  id TEXT PRIMARY KEY,
  listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE RESTRICT,
  buyer_id TEXT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
  supplier_id TEXT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
  requested_quantity INTEGER NOT NULL CHECK (requested_quantity >= 1),
  message TEXT NOT NULL DEFAULT '',
  pricing_mode_snapshot TEXT NOT NULL CHECK (pricing_mode_snapshot IN ('fixed','rfq_only')),
  unit_price_snapshot TEXT NULL,
  total_amount TEXT NULL,
  status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','accepted','rejected')),
  payment_status TEXT NOT NULL DEFAULT 'unpaid' CHECK (payment_status IN ('unpaid','marked_paid')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_requests_supplier   ON requests(supplier_id);
CREATE INDEX IF NOT EXISTS idx_requests_buyer      ON requests(buyer_id);
CREATE INDEX IF NOT EXISTS idx_requests_listing    ON requests(listing_id);
CREATE INDEX IF NOT EXISTS idx_requests_created_at ON requests(created_at);
`
	_, err := db.Exec(schema)
	return err
}

// seedUsers ensures one demo supplier and one demo buyer exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-supplier", "supplier@example.com", "Sahil Supplier", "supplier", "password123"),
		mk("u-buyer", "buyer@example.com", "Sahil Buyer", "buyer", "password123"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// seedListings inserts demo listings owned by the demo supplier if the table
// is empty.
func seedListings(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM listings`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo listings")

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO listings
	  (id,supplier_id,category,name,description,quantity_available,unit,location_country,pricing_mode,unit_price) VALUES
	  ('lst-steel','u-supplier','raw_material','Steel Bars','High quality steel bars for construction. Grade A certified.',1000,'kg','United States','fixed','2.5'),
	  ('lst-copper','u-supplier','raw_material','Copper Wire','Premium copper wire for electrical applications. 99.9% purity.',500,'kg','Germany','fixed','8.75'),
	  ('lst-welding','u-supplier','service','Welding Services','Professional welding and fabrication services. MIG, TIG, and arc.',100,'unit','Canada','rfq_only',NULL),
	  ('lst-lubricant','u-supplier','other','Industrial Lubricant','Multi-purpose industrial lubricant for heavy machinery.',200,'litre','Japan','fixed','15'),
	  ('lst-aluminum','u-supplier','raw_material','Aluminum Sheets','Lightweight aluminum sheets, thicknesses 1mm to 10mm.',750,'kg','China','fixed','4.2')`)

	return tx.Commit()
}
