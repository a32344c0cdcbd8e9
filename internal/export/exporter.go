// Package export writes the journal as a one-way JSON document.
package export

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cupnotes/cupnotes-server/internal/domain"
)

// FormatVersion is the export document format version.
const FormatVersion = "1.0"

// Document is the exported journal.
type Document struct {
	Version       string            `json:"version"`
	ExportDate    time.Time         `json:"exportDate"`
	TotalSessions int               `json:"totalSessions"`
	Sessions      []*domain.Session `json:"sessions"`
}

// Result describes a file written by ExportFile.
type Result struct {
	Path     string        `json:"path"`
	Size     int64         `json:"size"`
	Sessions int           `json:"sessions"`
	Duration time.Duration `json:"duration"`
	Checksum string        `json:"checksum"` // hex SHA-256 of the file
}

// SessionLister is the slice of the repository an export needs.
type SessionLister interface {
	ListSessions(ctx context.Context, filter domain.SessionFilter) ([]*domain.Session, error)
}

// Exporter builds export documents.
type Exporter struct {
	sessions SessionLister
	now      func() time.Time
}

// New creates an Exporter reading from sessions.
func New(sessions SessionLister) *Exporter {
	return &Exporter{sessions: sessions, now: func() time.Time { return time.Now().UTC() }}
}

// Build loads every session, oldest first.
func (e *Exporter) Build(ctx context.Context) (*Document, error) {
	sessions, err := e.sessions.ListSessions(ctx, domain.SessionFilter{
		SortBy: domain.SortByCreatedAt,
		Order:  domain.SortAsc,
	})
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if sessions == nil {
		sessions = []*domain.Session{}
	}
	return &Document{
		Version:       FormatVersion,
		ExportDate:    e.now(),
		TotalSessions: len(sessions),
		Sessions:      sessions,
	}, nil
}

// Write encodes the export document to w.
func (e *Exporter) Write(ctx context.Context, w io.Writer) (*Document, error) {
	doc, err := e.Build(ctx)
	if err != nil {
		return nil, err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return doc, nil
}

// ExportFile writes the export document to path. The file appears only once
// it is complete; a failed export leaves nothing behind.
func (e *Exporter) ExportFile(ctx context.Context, path string) (*Result, error) {
	start := time.Now()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	// Write to temp file, rename on success (atomic)
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("create export file: %w", err)
	}
	defer os.Remove(tmpPath) // Clean up on failure
	defer f.Close()

	hash := sha256.New()
	doc, err := e.Write(ctx, io.MultiWriter(f, hash))
	if err != nil {
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return nil, fmt.Errorf("rename export: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat export: %w", err)
	}
	return &Result{
		Path:     path,
		Size:     info.Size(),
		Sessions: doc.TotalSessions,
		Duration: time.Since(start),
		Checksum: hex.EncodeToString(hash.Sum(nil)),
	}, nil
}

// FileName returns the default export file name for t.
func FileName(t time.Time) string {
	return fmt.Sprintf("cupnotes-export-%s.json", t.UTC().Format("2006-01-02-150405"))
}
