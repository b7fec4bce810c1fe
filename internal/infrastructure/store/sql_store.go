package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/example/ec-orders/internal/model"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// dialect holds what differs between the SQL backends
type dialect struct {
	schema      string
	selectOrder string
	placeholder func(n int) string
}

var postgresDialect = dialect{
	schema: `
CREATE TABLE IF NOT EXISTS products (
	position INTEGER NOT NULL,
	id       INTEGER PRIMARY KEY,
	name     TEXT NOT NULL,
	price    NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
	stock    INTEGER NOT NULL CHECK (stock >= 0)
);

CREATE TABLE IF NOT EXISTS orders (
	position     INTEGER NOT NULL,
	id           INTEGER PRIMARY KEY,
	product_id   INTEGER NOT NULL,
	quantity     INTEGER NOT NULL CHECK (quantity > 0),
	total_amount NUMERIC(14, 2) NOT NULL,
	status       TEXT NOT NULL,
	created_at   DATE NOT NULL
);
`,
	selectOrder: `SELECT id, product_id, quantity, total_amount, status, to_char(created_at, 'YYYY-MM-DD')
		FROM orders
		ORDER BY position ASC`,
	placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
}

// SQLite keeps money as TEXT so decimals round-trip exactly
var sqliteDialect = dialect{
	schema: `
CREATE TABLE IF NOT EXISTS products (
	position INTEGER NOT NULL,
	id       INTEGER PRIMARY KEY,
	name     TEXT NOT NULL,
	price    TEXT NOT NULL,
	stock    INTEGER NOT NULL CHECK (stock >= 0)
);

CREATE TABLE IF NOT EXISTS orders (
	position     INTEGER NOT NULL,
	id           INTEGER PRIMARY KEY,
	product_id   INTEGER NOT NULL,
	quantity     INTEGER NOT NULL CHECK (quantity > 0),
	total_amount TEXT NOT NULL,
	status       TEXT NOT NULL,
	created_at   TEXT NOT NULL
);
`,
	selectOrder: `SELECT id, product_id, quantity, total_amount, status, created_at
		FROM orders
		ORDER BY position ASC`,
	placeholder: func(int) string { return "?" },
}

func (d dialect) values(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = d.placeholder(i + 1)
	}
	return strings.Join(parts, ", ")
}

// SQLStore keeps the snapshot in two tables. Save replaces both in one transaction.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

func NewPostgresStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, dialect: postgresDialect}
}

func NewSQLiteStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, dialect: sqliteDialect}
}

// EnsureSchema creates the products and orders tables if they do not exist
func (ss *SQLStore) EnsureSchema(ctx context.Context) error {
	if _, err := ss.db.ExecContext(ctx, ss.dialect.schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Load reads every product and order, each in stored position order
func (ss *SQLStore) Load(ctx context.Context) (*model.Snapshot, error) {
	snapshot := &model.Snapshot{
		Products: []*model.Product{},
		Orders:   []*model.Order{},
	}

	rows, err := ss.db.QueryContext(ctx,
		`SELECT id, name, price, stock FROM products ORDER BY position ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		snapshot.Products = append(snapshot.Products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	orderRows, err := ss.db.QueryContext(ctx, ss.dialect.selectOrder)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer orderRows.Close()

	for orderRows.Next() {
		var (
			o      model.Order
			status string
		)
		if err := orderRows.Scan(&o.ID, &o.ProductID, &o.Quantity, &o.TotalAmount, &status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Status = model.Status(status)
		snapshot.Orders = append(snapshot.Orders, &o)
	}
	if err := orderRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	return snapshot, nil
}

// Save deletes both tables and reinserts the snapshot inside a single transaction
func (ss *SQLStore) Save(ctx context.Context, snapshot *model.Snapshot) (err error) {
	tx, err := ss.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM orders`); err != nil {
		return fmt.Errorf("clear orders: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}

	insertProduct := `INSERT INTO products (position, id, name, price, stock) VALUES (` + ss.dialect.values(5) + `)`
	for i, p := range snapshot.Products {
		if _, err = tx.ExecContext(ctx, insertProduct, i, p.ID, p.Name, p.Price, p.Stock); err != nil {
			return fmt.Errorf("insert product %d: %w", p.ID, err)
		}
	}

	insertOrder := `INSERT INTO orders (position, id, product_id, quantity, total_amount, status, created_at)
		VALUES (` + ss.dialect.values(7) + `)`
	for i, o := range snapshot.Orders {
		_, err = tx.ExecContext(ctx, insertOrder,
			i, o.ID, o.ProductID, o.Quantity, o.TotalAmount, string(o.Status), o.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert order %d: %w", o.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ConnectPostgres establishes a connection to PostgreSQL
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// OpenSQLite opens a SQLite database file in WAL mode with a single connection
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// SQLite has a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}
