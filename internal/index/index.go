package index

// RecordIndex defines the interface for history index operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type RecordIndex interface {
	UpsertRecord(r RecordRow) error
	DeleteRecord(id string) error
	GetChecksum(id string) (string, error)
	GetRecord(id string) (*RecordRow, error)
	ListRecords(q ListQuery) ([]RecordRow, int, error)
	Search(query string, limit int) ([]SearchResult, error)
	AllChecksums() (map[string]string, error)
	Ping() error
	Close() error
}

// Verify *DB satisfies RecordIndex at compile time.
var _ RecordIndex = (*DB)(nil)
