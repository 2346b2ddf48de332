package db

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// isMissingTable reports whether err means the queried table does not exist or
// its name is not valid, as opposed to a connection or locking failure.
func isMissingTable(err error) bool {
	if err == nil {
		return false
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		// primary code only, extended codes carry it in the low byte
		return sqliteErr.Code()&0xff == sqlite3.SQLITE_ERROR
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "42P01", // undefined_table
			"3F000", // invalid_schema_name
			"42601", // syntax_error
			"42602": // invalid_name
			return true
		}
		return false
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1146, // ER_NO_SUCH_TABLE
			1064, // ER_PARSE_ERROR
			1103: // ER_WRONG_TABLE_NAME
			return true
		}
		return false
	}

	return false
}

// isDateType reports whether a declared column type holds calendar dates
// or timestamps.
func isDateType(typeName string) bool {
	switch strings.ToUpper(typeName) {
	case "DATE", "DATETIME", "TIMESTAMP", "TIMESTAMPTZ":
		return true
	}
	return false
}
