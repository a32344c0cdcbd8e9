package sqlite

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Lazy opens the store on first use and hands the same *Store to every later
// caller. Concurrent first calls share a single Open.
type Lazy struct {
	path   string
	logger *slog.Logger

	group singleflight.Group
	mu    sync.RWMutex
	store *Store
}

// NewLazy returns a handle for the database at path. Nothing is opened yet.
func NewLazy(path string, logger *slog.Logger) *Lazy {
	return &Lazy{path: path, logger: logger}
}

// Get returns the open store, opening it if needed. A failed open is not
// cached; the next call tries again.
func (l *Lazy) Get(ctx context.Context) (*Store, error) {
	if s := l.loaded(); s != nil {
		return s, nil
	}

	v, err, _ := l.group.Do("open", func() (any, error) {
		if s := l.loaded(); s != nil {
			return s, nil
		}
		// Detach from the first caller's cancellation; others share this open.
		s, err := Open(context.WithoutCancel(ctx), l.path, l.logger)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.store = s
		l.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Store), nil
}

func (l *Lazy) loaded() *Store {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store
}

// Close closes the store if it was opened.
func (l *Lazy) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.store == nil {
		return nil
	}
	err := l.store.Close()
	l.store = nil
	return err
}
