package sqldb

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

type DB struct {
	*sqlx.DB
	dialect dialect
}

// New opens the single store connection used for the lifetime of the process.
// It does not touch the schema; see InitializeSchema.
func New(driver, dsn string) (*DB, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("database dsn is required")
	}

	db, err := sqlx.Connect(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Pragmas below are per connection and in-memory sqlite databases
	// vanish with their connection, so keep exactly one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, stmt := range d.connectPragmas {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to configure connection (%s): %w", stmt, err)
		}
	}

	return &DB{DB: db, dialect: d}, nil
}

func (db *DB) Driver() string {
	return db.dialect.driver
}

func (db *DB) Ping(ctx context.Context) error {
	if err := db.DB.PingContext(ctx); err != nil {
		return classify("ping database", err)
	}
	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
