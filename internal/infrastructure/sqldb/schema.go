package sqldb

import (
	"context"
	"fmt"
)

type dialect struct {
	driver         string
	connectPragmas []string
	dropSchema     []string
	createSchema   []string
}

var sqliteDialect = dialect{
	driver: DriverSQLite,
	connectPragmas: []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	},
	dropSchema: []string{
		`DROP TABLE IF EXISTS phone`,
		`DROP TABLE IF EXISTS client`,
	},
	createSchema: []string{
		`CREATE TABLE client (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name VARCHAR(40) NOT NULL,
			last_name VARCHAR(40) NOT NULL,
			email VARCHAR(60) NOT NULL UNIQUE
		)`,
		`CREATE TABLE phone (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			client_id INTEGER NOT NULL,
			number BIGINT UNIQUE,
			FOREIGN KEY (client_id) REFERENCES client(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX idx_phone_client_id ON phone(client_id)`,
	},
}

var mysqlDialect = dialect{
	driver: DriverMySQL,
	dropSchema: []string{
		`DROP TABLE IF EXISTS phone`,
		`DROP TABLE IF EXISTS client`,
	},
	createSchema: []string{
		`CREATE TABLE client (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			first_name VARCHAR(40) NOT NULL,
			last_name VARCHAR(40) NOT NULL,
			email VARCHAR(60) NOT NULL UNIQUE
		) ENGINE=InnoDB`,
		`CREATE TABLE phone (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			client_id BIGINT NOT NULL,
			number BIGINT UNIQUE,
			FOREIGN KEY (client_id) REFERENCES client(id) ON DELETE CASCADE
		) ENGINE=InnoDB`,
	},
}

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case DriverSQLite, "":
		return sqliteDialect, nil
	case DriverMySQL:
		return mysqlDialect, nil
	default:
		return dialect{}, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// InitializeSchema drops the phone and client tables (phone first) and
// recreates them empty. All prior data is discarded. Safe to call repeatedly.
func (db *DB) InitializeSchema(ctx context.Context) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return classify("begin schema transaction", err)
	}
	defer tx.Rollback()

	statements := append(append([]string{}, db.dialect.dropSchema...), db.dialect.createSchema...)
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return classify("initialize schema", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return classify("commit schema", err)
	}
	return nil
}
