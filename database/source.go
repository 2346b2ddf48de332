package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// Driver names as registered with database/sql
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// SourceManager reads tables from the local source database
type SourceManager struct {
	DB     *sql.DB
	Driver string
	Log    logrus.FieldLogger
}

var _ SourceReader = (*SourceManager)(nil)

func (m *SourceManager) logger() logrus.FieldLogger {
	if m.Log == nil {
		return logrus.StandardLogger()
	}
	return m.Log
}

func (m *SourceManager) log(format string, args ...interface{}) {
	m.logger().WithField("driver", m.Driver).Debugf(format, args...)
}

func (m *SourceManager) logSQL(operation, sql string) {
	m.logger().WithField("driver", m.Driver).WithField("sql", sql).Debug(operation)
}

// Connect opens the source database described by dsn and verifies it is reachable
func Connect(dsn string, log logrus.FieldLogger) (*SourceManager, error) {
	m := &SourceManager{Log: log}
	if err := m.ConnectWithDSN(dsn); err != nil {
		return nil, err
	}
	return m, nil
}

// ParseDSN picks the driver for a connection string. URLs with a postgres or
// mysql scheme select those drivers; anything else is a SQLite file path.
func ParseDSN(dsn string) (driver, source string) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		if !strings.Contains(dsn, "sslmode=") {
			if strings.Contains(dsn, "?") {
				dsn += "&sslmode=disable"
			} else {
				dsn += "?sslmode=disable"
			}
		}
		return DriverPostgres, dsn
	case strings.HasPrefix(dsn, "mysql://"):
		// go-sql-driver expects user:pass@tcp(host:port)/dbname without a scheme
		return DriverMySQL, strings.Replace(dsn, "mysql://", "", 1)
	default:
		return DriverSQLite, strings.TrimPrefix(dsn, "sqlite://")
	}
}

// ConnectWithDSN connects to the database using a DSN string
func (m *SourceManager) ConnectWithDSN(dsn string) error {
	driver, source := ParseDSN(dsn)
	m.Driver = driver

	if driver == DriverSQLite {
		// the driver silently creates missing files, so check first
		if _, err := os.Stat(source); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("database file not found: %s", source)
			}
			return fmt.Errorf("checking database file: %w", err)
		}
		source += "?_pragma=query_only(1)"
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return fmt.Errorf("opening %s database: %w", driver, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("connecting to %s database: %w", driver, err)
	}

	m.DB = db
	m.log("Connected to %s database", driver)
	return nil
}

func (m *SourceManager) quoteIdentifier(name string) string {
	if m.Driver == DriverMySQL {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// ReadTable fetches every row of a table. A table that is missing or whose
// name the database rejects is reported as TableSkipped; any other failure is
// returned as an error.
func (m *SourceManager) ReadTable(name string) (TableResult, error) {
	result := TableResult{Name: name}
	if m.DB == nil {
		return result, errors.New("no database connection")
	}

	query := fmt.Sprintf("SELECT * FROM %s", m.quoteIdentifier(name))
	m.logSQL(fmt.Sprintf("Read table %s", name), query)

	rows, err := m.DB.Query(query)
	if err != nil {
		return m.skipOrFail(result, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return m.skipOrFail(result, err)
	}
	result.Columns = make([]string, len(columnTypes))
	result.Types = make([]string, len(columnTypes))
	for i, ct := range columnTypes {
		result.Columns[i] = ct.Name()
		result.Types[i] = strings.ToUpper(ct.DatabaseTypeName())
	}

	// sqlite parses date typed text into time.Time; select those columns as
	// expressions so the stored text comes back unchanged
	if textQuery, ok := m.dateAsTextQuery(name, result.Columns, result.Types); ok {
		_ = rows.Close()
		m.logSQL(fmt.Sprintf("Read table %s keeping date text", name), textQuery)
		rows, err = m.DB.Query(textQuery)
		if err != nil {
			return result, fmt.Errorf("querying %s: %w", name, err)
		}
	}

	for rows.Next() {
		values := make([]any, len(result.Columns))
		valuePtrs := make([]any, len(result.Columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return result, fmt.Errorf("scanning row from %s: %w", name, err)
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return result, fmt.Errorf("reading rows from %s: %w", name, err)
	}

	if len(result.Rows) == 0 {
		result.Status = TableEmpty
	} else {
		result.Status = TableLoaded
	}
	m.log("Read %d rows from %s", len(result.Rows), name)
	return result, nil
}

func (m *SourceManager) skipOrFail(result TableResult, err error) (TableResult, error) {
	if !isMissingTable(err) {
		return result, fmt.Errorf("querying %s: %w", result.Name, err)
	}
	result.Status = TableSkipped
	result.Err = err
	return result, nil
}

// dateAsTextQuery returns a select that reads sqlite date columns with the
// no-op unary plus, which keeps the stored value but drops the declared type
// the driver uses to parse times.
func (m *SourceManager) dateAsTextQuery(name string, columns, types []string) (string, bool) {
	if m.Driver != DriverSQLite {
		return "", false
	}

	found := false
	exprs := make([]string, len(columns))
	for i, col := range columns {
		quoted := m.quoteIdentifier(col)
		if isDateType(types[i]) {
			exprs[i] = "+" + quoted + " AS " + quoted
			found = true
		} else {
			exprs[i] = quoted
		}
	}
	if !found {
		return "", false
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(exprs, ", "), m.quoteIdentifier(name)), true
}

// CountRows returns the number of rows in a table
func (m *SourceManager) CountRows(name string) (int64, error) {
	if m.DB == nil {
		return 0, errors.New("no database connection")
	}

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", m.quoteIdentifier(name))
	m.logSQL(fmt.Sprintf("Count table %s", name), query)

	var count int64
	if err := m.DB.QueryRow(query).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting rows in %s: %w", name, err)
	}
	return count, nil
}

// Close releases the database handle
func (m *SourceManager) Close() error {
	if m.DB == nil {
		return nil
	}
	err := m.DB.Close()
	m.DB = nil
	return err
}
