package store

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Rows per INSERT statement.
const insertBatchSize = 500

// Store connection configuration
type Config struct {
	Driver string
	DSN    string
}

// DefaultConfig returns a default store configuration: a local SQLite file,
// overridable from the environment.
func DefaultConfig() Config {
	return Config{
		Driver: getEnv("INSIGHTS_DB_DRIVER", "sqlite3"),
		DSN:    getEnv("INSIGHTS_DB_DSN", "insights.db"),
	}
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Store loads pipeline outputs into a relational database for read-only SQL
// exploration.
type Store struct {
	db     *sqlx.DB
	config Config
}

// Open connects to the configured database.
func Open(config Config) (*Store, error) {
	db, err := sqlx.Connect(config.Driver, config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if config.Driver == "postgres" {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	log.Printf("Connected to %s store", config.Driver)
	return &Store{db: db, config: config}, nil
}

// Close closes the database connection pool
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	run_id           TEXT NOT NULL,
	invoice_no       TEXT NOT NULL,
	stock_code       TEXT,
	description      TEXT,
	quantity         INTEGER NOT NULL,
	unit_price       NUMERIC NOT NULL,
	invoice_date     TIMESTAMP NOT NULL,
	customer_id      TEXT NOT NULL,
	country          TEXT,
	total_amount     NUMERIC NOT NULL,
	is_return        BOOLEAN NOT NULL,
	is_outlier       BOOLEAN NOT NULL,
	is_zero_quantity BOOLEAN NOT NULL,
	is_zero_price    BOOLEAN NOT NULL,
	year             INTEGER NOT NULL,
	month            INTEGER NOT NULL,
	quarter          INTEGER NOT NULL,
	day_of_week      TEXT,
	product_category TEXT
);

CREATE TABLE IF NOT EXISTS customer_metrics (
	run_id         TEXT NOT NULL,
	customer_id    TEXT NOT NULL,
	recency_days   INTEGER,
	frequency      INTEGER NOT NULL,
	monetary       NUMERIC NOT NULL,
	recency_rank   INTEGER NOT NULL,
	frequency_rank INTEGER NOT NULL,
	monetary_rank  INTEGER NOT NULL,
	segment        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_run ON transactions (run_id);
CREATE INDEX IF NOT EXISTS idx_transactions_customer ON transactions (customer_id);
CREATE INDEX IF NOT EXISTS idx_metrics_run ON customer_metrics (run_id);
`

// Setup creates the schema if it does not exist.
func (s *Store) Setup(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
