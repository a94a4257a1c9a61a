package sqldb

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/martijn/clientbook/internal/core/domain"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// MySQL server error numbers for constraint failures
const (
	mysqlDuplicateEntry     = 1062
	mysqlRowIsReferenced    = 1451
	mysqlNoReferencedRow    = 1452
	mysqlRowIsReferencedAlt = 1217
	mysqlNoReferencedRowAlt = 1216
)

// classify wraps a driver error with the matching domain sentinel.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %w", op, kindOf(err), err)
}

func kindOf(err error) error {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
			return domain.ErrUniquenessViolation
		case sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY:
			return domain.ErrReferentialIntegrity
		case sqlite3lib.SQLITE_CONSTRAINT:
			return constraintFromMessage(err)
		}
		return domain.ErrStore
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlDuplicateEntry:
			return domain.ErrUniquenessViolation
		case mysqlRowIsReferenced, mysqlNoReferencedRow, mysqlRowIsReferencedAlt, mysqlNoReferencedRowAlt:
			return domain.ErrReferentialIntegrity
		}
		return domain.ErrStore
	}

	return domain.ErrStore
}

// Older sqlite builds report only the primary SQLITE_CONSTRAINT code.
func constraintFromMessage(err error) error {
	message := strings.ToLower(err.Error())
	switch {
	case strings.Contains(message, "unique constraint failed"):
		return domain.ErrUniquenessViolation
	case strings.Contains(message, "foreign key constraint failed"):
		return domain.ErrReferentialIntegrity
	}
	return domain.ErrStore
}
