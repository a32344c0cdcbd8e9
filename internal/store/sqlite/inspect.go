package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/cupnotes/cupnotes-server/internal/id"
)

// journalTables lists the data tables in dependency order.
var journalTables = []string{"sessions", "coffees", "cups", "selected_flavors"}

// OpenReadOnly opens an existing database without applying migrations.
// Writes through the returned store fail.
func OpenReadOnly(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open read-only: %w", err)
	}

	q := url.Values{}
	q.Set("mode", "ro")
	q.Add("_pragma", "busy_timeout(5000)")
	db, err := sql.Open("sqlite", "file:"+path+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	return &Store{
		db:     db,
		logger: logger,
		newID:  id.Generate,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// TableCount is the number of rows in one journal table.
type TableCount struct {
	Table string
	Rows  int
}

// TableCounts returns row counts for every journal table.
func (s *Store) TableCounts(ctx context.Context) ([]TableCount, error) {
	counts := make([]TableCount, 0, len(journalTables))
	for _, table := range journalTables {
		var n int
		// Table names come from journalTables, never from input.
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil { //#nosec G202
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts = append(counts, TableCount{Table: table, Rows: n})
	}
	return counts, nil
}
