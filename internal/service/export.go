package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/cupnotes/cupnotes-server/internal/export"
	"github.com/cupnotes/cupnotes-server/internal/store"
)

// ExportService writes journal exports.
type ExportService struct {
	exporter *export.Exporter
	dir      string
	logger   *slog.Logger
	now      func() time.Time
}

// NewExportService creates an export service writing files under dir.
func NewExportService(store store.Repository, dir string, logger *slog.Logger) *ExportService {
	return &ExportService{
		exporter: export.New(store),
		dir:      dir,
		logger:   logger,
		now:      time.Now,
	}
}

// WriteTo streams the export document to w.
func (s *ExportService) WriteTo(ctx context.Context, w io.Writer) (*export.Document, error) {
	doc, err := s.exporter.Write(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("export journal: %w", err)
	}
	return doc, nil
}

// ExportToFile writes a timestamped export file into the export directory.
func (s *ExportService) ExportToFile(ctx context.Context) (*export.Result, error) {
	path := filepath.Join(s.dir, export.FileName(s.now()))

	s.logger.Info("starting export", "path", path)
	res, err := s.exporter.ExportFile(ctx, path)
	if err != nil {
		s.logger.Error("export failed", "path", path, "error", err)
		return nil, fmt.Errorf("export journal: %w", err)
	}

	s.logger.Info("export completed",
		"path", res.Path,
		"sessions", res.Sessions,
		"size", res.Size,
		"duration", res.Duration,
	)
	return res, nil
}
