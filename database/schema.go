package db

// TableStatus tags the outcome of reading one configured table.
type TableStatus int

const (
	// TableLoaded means the table exists and returned at least one row.
	TableLoaded TableStatus = iota
	// TableEmpty means the table exists but has no rows.
	TableEmpty
	// TableSkipped means the table could not be queried (usually it does not exist).
	TableSkipped
)

func (s TableStatus) String() string {
	switch s {
	case TableLoaded:
		return "loaded"
	case TableEmpty:
		return "empty"
	case TableSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// TableResult holds everything read from a single table.
type TableResult struct {
	Name    string
	Status  TableStatus
	Columns []string // Column names in select order
	Types   []string // Declared column types, upper case, same order as Columns
	Rows    [][]any  // One value per column, same order as Columns
	Err     error    // Reason for TableSkipped
}

// RowCount returns the number of rows read.
func (r TableResult) RowCount() int {
	return len(r.Rows)
}
