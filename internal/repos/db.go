package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"petcare/internal/domain"
)

// OpenDB opens the sqlite store, creates the schema and, when seed is set,
// inserts demo users and catalog data (idempotent).
//
// The pool is capped at one connection: sqlite has a single writer, and
// serializing on the connection makes every transaction below a critical
// section (stock decrement included). It also keeps ":memory:" databases
// shared across callers.
func OpenDB(dsn string, seed bool) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if !seed {
		return db, nil
	}
	if err := seedUsers(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := seedCatalogIfEmpty(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users, profiles & sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(LOWER(username));
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email    ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS profiles(
  user_id TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
  phone_number TEXT NOT NULL,
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE CASCADE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Catalog (money columns are TEXT so decimals round-trip exactly)
CREATE TABLE IF NOT EXISTS animals(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  species TEXT NOT NULL CHECK (species IN ('dog','cat','bird','rabbit','other')),
  breed TEXT NOT NULL DEFAULT '',
  age TEXT NOT NULL,
  gender TEXT NOT NULL CHECK (gender IN ('male','female')),
  description TEXT NOT NULL,
  image TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'available' CHECK (status IN ('available','pending','adopted')),
  adoption_fee TEXT NOT NULL CHECK (CAST(adoption_fee AS REAL) >= 0),
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_animals_status ON animals(status, created_at);

CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL CHECK (category IN ('food','toys','clothes','accessories','shelter')),
  description TEXT NOT NULL,
  price TEXT NOT NULL CHECK (CAST(price AS REAL) >= 0),
  image TEXT NOT NULL DEFAULT '',
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);
CREATE INDEX IF NOT EXISTS idx_products_category   ON products(category);

CREATE TABLE IF NOT EXISTS service_plans(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  plan_type TEXT NOT NULL CHECK (plan_type IN ('low','medium','high')),
  duration_hours INTEGER NOT NULL CHECK (duration_hours > 0),
  description TEXT NOT NULL,
  price TEXT NOT NULL CHECK (CAST(price AS REAL) >= 0),
  features TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL
);

-- Transactions (owned by a user, removed with it)
CREATE TABLE IF NOT EXISTS rescue_requests(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  phone_number TEXT NOT NULL,
  date TEXT NOT NULL,
  time TEXT NOT NULL,
  animal_type TEXT NOT NULL CHECK (animal_type IN ('dog','cat','bird','rabbit','other')),
  description TEXT NOT NULL,
  location TEXT NOT NULL,
  image TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending'
    CHECK (status IN ('pending','approved','in_progress','completed','rejected')),
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_rescue_user ON rescue_requests(user_id);

CREATE TABLE IF NOT EXISTS adoption_requests(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  animal_id TEXT NOT NULL REFERENCES animals(id) ON DELETE CASCADE,
  message TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','approved','rejected')),
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_adoption_user   ON adoption_requests(user_id);
CREATE INDEX IF NOT EXISTS idx_adoption_animal ON adoption_requests(animal_id);

CREATE TABLE IF NOT EXISTS bookings(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  service_plan_id TEXT NOT NULL REFERENCES service_plans(id) ON DELETE CASCADE,
  pet_name TEXT NOT NULL,
  animal_type TEXT NOT NULL CHECK (animal_type IN ('dog','cat','bird','rabbit','other')),
  booking_date TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','confirmed','completed','cancelled')),
  payment_completed INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_bookings_user ON bookings(user_id);

CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  quantity INTEGER NOT NULL DEFAULT 1 CHECK (quantity >= 1),
  total_price TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'completed' CHECK (status IN ('pending','processing','completed','cancelled')),
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id);
`
	_, err := db.Exec(schema)
	return err
}

// seedUsers ensures two USERs and one ADMIN exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Username, Email, Phone, Role, Hash string
	}
	mk := func(id, username, email, phone, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		return u{ID: id, Username: username, Email: email, Phone: phone, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-alice", "alice", "alice@petcare.test", "5550100", domain.RoleUser, "Passw0rd!"),
		mk("u-bob", "bob", "bob@petcare.test", "5550101", domain.RoleUser, "Passw0rd!"),
		mk("u-admin", "admin", "admin@petcare.test", "5550199", domain.RoleAdmin, "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	now := domain.Stamp(time.Now())
	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,username,email,password_hash,role,created_at)
			VALUES(?,?,?,?,?,?)
			ON CONFLICT DO NOTHING
		`, x.ID, x.Username, x.Email, x.Hash, x.Role, now); err != nil {
			return err
		}
		if _, err := tx.Exec(`
			INSERT INTO profiles(user_id,phone_number,created_at)
			SELECT ?,?,? WHERE EXISTS (SELECT 1 FROM users WHERE id=?)
			ON CONFLICT(user_id) DO NOTHING
		`, x.ID, x.Phone, now, x.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func seedCatalogIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo animals/products/service plans")

	// Increasing timestamps give the listings a stable newest-first order.
	base := time.Now().Add(-time.Hour)
	at := func(i int) string { return domain.Stamp(base.Add(time.Duration(i) * time.Minute)) }

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO animals(id,name,species,breed,age,gender,description,image,status,adoption_fee,created_at) VALUES
	  ('dog-buddy','Buddy','dog','Labrador','2 years','male','Friendly and loves walks.','animals/buddy.jpg','available','150.00',?),
	  ('cat-luna','Luna','cat','Siamese','1 year','female','Calm lap cat.','animals/luna.jpg','available','90.00',?),
	  ('rabbit-clover','Clover','rabbit','','6 months','female','Curious and gentle.','animals/clover.jpg','available','40.00',?),
	  ('cat-milo','Milo','cat','Tabby','4 years','male','Already found a home.','animals/milo.jpg','adopted','80.00',?),
	  ('dog-rex','Rex','dog','Beagle','5 years','male','Meeting a family this week.','animals/rex.jpg','pending','120.00',?)`,
		at(1), at(2), at(3), at(4), at(5))

	tx.MustExec(`INSERT INTO products(id,name,category,description,price,image,stock,created_at) VALUES
	  ('food-kibble','Premium Kibble 5kg','food','Grain-free dry food.','24.99','products/kibble.jpg',10,?),
	  ('toy-rope','Rope Tug Toy','toys','Durable cotton rope.','7.50','products/rope.jpg',1,?),
	  ('bed-cozy','Cozy Pet Bed','shelter','Washable cushion bed.','39.00','products/bed.jpg',0,?)`,
		at(1), at(2), at(3))

	tx.MustExec(`INSERT INTO service_plans(id,name,plan_type,duration_hours,description,price,features,created_at) VALUES
	  ('plan-high','Full Day Care','high',8,'A full day of care and play.','60.00','feeding, walking, grooming, play time',?),
	  ('plan-low','Quick Visit','low',1,'A short check-in visit.','15.00','feeding, fresh water',?),
	  ('plan-medium','Half Day Care','medium',4,'Half a day of company.','35.00','feeding,walking, play time',?)`,
		at(1), at(2), at(3))

	return tx.Commit()
}

// notFound maps sql.ErrNoRows to domain.ErrNotFound and wraps anything else.
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// casStatus moves row id in table from one status to another. It fails with
// domain.ErrConflict when the row is no longer in the expected status.
func casStatus(ctx context.Context, ex sqlx.ExecerContext, table, id, from, to string) error {
	res, err := ex.ExecContext(ctx, `UPDATE `+table+` SET status = ? WHERE id = ? AND status = ?`, to, id, from)
	if err != nil {
		return fmt.Errorf("update %s status: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrConflict
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
