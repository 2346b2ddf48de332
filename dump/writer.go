package dump

import (
	"bytes"
	"fmt"
	"io"

	db "github.com/KazanKK/localdump/database"
)

const (
	disableForeignKeyChecks = "SET FOREIGN_KEY_CHECKS=0;\n"
	enableForeignKeyChecks  = "SET FOREIGN_KEY_CHECKS=1;\n"
)

// Writer emits a replayable SQL script: a header disabling foreign key
// checks, one block of INSERT IGNORE statements per table, and a footer
// enabling them again. The first write error is kept and returned by every
// later call.
type Writer struct {
	w   io.Writer
	esc *Escaper
	buf []byte
	err error
}

// NewWriter returns a Writer formatting values with esc, which may be nil.
func NewWriter(w io.Writer, esc *Escaper) *Writer {
	return &Writer{w: w, esc: esc}
}

// Begin writes the directive disabling foreign key checks.
func (x *Writer) Begin() error {
	return x.write([]byte(disableForeignKeyChecks))
}

// End writes the directive enabling foreign key checks.
func (x *Writer) End() error {
	return x.write([]byte(enableForeignKeyChecks))
}

// WriteTable writes a comment naming the table, one statement per row and a
// blank separator line. Nothing is written for a table without rows.
func (x *Writer) WriteTable(table db.TableResult) error {
	if x.err != nil || len(table.Rows) == 0 {
		return x.err
	}

	for i, row := range table.Rows {
		if len(row) != len(table.Columns) {
			return fmt.Errorf("table %s row %d has %d values for %d columns", table.Name, i, len(row), len(table.Columns))
		}
	}

	if err := x.write([]byte("-- Dumping data for table " + table.Name + "\n")); err != nil {
		return err
	}

	prefix := insertPrefix(table.Name, table.Columns)
	for _, row := range table.Rows {
		x.buf = append(x.buf[:0], prefix...)
		x.buf = x.appendValues(x.buf, row, table.Types)
		if err := x.write(x.buf); err != nil {
			return err
		}
	}

	return x.write([]byte("\n"))
}

func (x *Writer) appendValues(buf []byte, row []any, types []string) []byte {
	buf = append(buf, " VALUES ("...)
	for i, v := range row {
		if i > 0 {
			buf = append(buf, ", "...)
		}
		var columnType string
		if i < len(types) {
			columnType = types[i]
		}
		buf = x.esc.appendColumnLiteral(buf, v, columnType)
	}
	return append(buf, ");\n"...)
}

func (x *Writer) write(p []byte) error {
	if x.err != nil {
		return x.err
	}
	if _, err := x.w.Write(p); err != nil {
		x.err = err
	}
	return x.err
}

// insertPrefix renders everything up to the VALUES keyword, shared by every
// row of a table.
func insertPrefix(name string, columns []string) []byte {
	buf := append([]byte(nil), "INSERT IGNORE INTO "...)
	buf = appendIdentifier(buf, name)
	buf = append(buf, " ("...)
	for i, col := range columns {
		if i > 0 {
			buf = append(buf, ", "...)
		}
		buf = appendIdentifier(buf, col)
	}
	return append(buf, ')')
}

// formatTable returns the block WriteTable would write.
func formatTable(esc *Escaper, table db.TableResult) (string, error) {
	var b bytes.Buffer
	if err := NewWriter(&b, esc).WriteTable(table); err != nil {
		return "", err
	}
	return b.String(), nil
}
