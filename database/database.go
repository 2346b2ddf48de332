package db

// SourceReader defines the read-only operations the exporter needs from a source database
type SourceReader interface {
	ReadTable(name string) (TableResult, error)
	CountRows(name string) (int64, error)
	Close() error
}
