package dump

import (
	"fmt"
	"io"

	db "github.com/KazanKK/localdump/database"
	"github.com/sirupsen/logrus"
)

// TableReader reads a single table from the source database.
type TableReader interface {
	ReadTable(name string) (db.TableResult, error)
}

// Options configures Export.
type Options struct {
	Escaper *Escaper
	Log     logrus.FieldLogger
}

func (o Options) logger() logrus.FieldLogger {
	if o.Log == nil {
		return logrus.StandardLogger()
	}
	return o.Log
}

// TableSummary records what happened to one configured table.
type TableSummary struct {
	Name   string
	Status db.TableStatus
	Rows   int
	Err    error
}

// Summary describes a finished export.
type Summary struct {
	Tables []TableSummary
	Rows   int
}

// Count returns the number of tables with the given status.
func (s Summary) Count(status db.TableStatus) int {
	n := 0
	for _, t := range s.Tables {
		if t.Status == status {
			n++
		}
	}
	return n
}

// Skipped returns the names of tables that could not be read.
func (s Summary) Skipped() []string {
	var names []string
	for _, t := range s.Tables {
		if t.Status == db.TableSkipped {
			names = append(names, t.Name)
		}
	}
	return names
}

// Export reads each table in order from src and writes the resulting script
// to w. Tables that cannot be read are logged and left out, as are empty
// tables. A failure while reading rows or writing output stops the export.
func Export(src TableReader, w io.Writer, tables []string, opts Options) (Summary, error) {
	log := opts.logger()
	out := NewWriter(w, opts.Escaper)

	var summary Summary
	if err := out.Begin(); err != nil {
		return summary, fmt.Errorf("writing header: %w", err)
	}

	for _, name := range tables {
		result, err := src.ReadTable(name)
		if err != nil {
			return summary, fmt.Errorf("reading table %s: %w", name, err)
		}

		summary.Tables = append(summary.Tables, TableSummary{
			Name:   name,
			Status: result.Status,
			Rows:   result.RowCount(),
			Err:    result.Err,
		})

		switch result.Status {
		case db.TableSkipped:
			entry := log.WithField("table", name)
			if result.Err != nil {
				entry = entry.WithError(result.Err)
			}
			entry.Warnf("Skipping %s (not found)", name)
		case db.TableEmpty:
			log.WithField("table", name).Debug("No rows, nothing to dump")
		default:
			if result.Name == "" {
				result.Name = name
			}
			if err := out.WriteTable(result); err != nil {
				return summary, fmt.Errorf("writing table %s: %w", name, err)
			}
			summary.Rows += result.RowCount()
			log.WithField("table", name).Debugf("Dumped %d rows", result.RowCount())
		}
	}

	if err := out.End(); err != nil {
		return summary, fmt.Errorf("writing footer: %w", err)
	}
	return summary, nil
}
