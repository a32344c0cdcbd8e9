package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cupnotes/cupnotes-server/internal/export"
)

func (s *Server) registerExportRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "downloadExport",
		Method:      http.MethodGet,
		Path:        "/api/v1/export",
		Summary:     "Download export",
		Description: "Streams the whole journal as a JSON export document",
		Tags:        []string{"Export"},
	}, s.handleDownloadExport)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createExport",
		Method:        http.MethodPost,
		Path:          "/api/v1/export",
		Summary:       "Write export file",
		Description:   "Writes a timestamped export file into the server's export directory",
		Tags:          []string{"Export"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateExport)
}

// === DTOs ===

// DownloadExportOutput is the raw export document.
type DownloadExportOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	CacheControl       string `header:"Cache-Control"`
	Body               []byte
}

// ExportResultOutput wraps a written export file for Huma.
type ExportResultOutput struct {
	Body *export.Result
}

// === Handlers ===

func (s *Server) handleDownloadExport(ctx context.Context, _ *struct{}) (*DownloadExportOutput, error) {
	var buf bytes.Buffer
	doc, err := s.services.Export.WriteTo(ctx, &buf)
	if err != nil {
		return nil, err
	}

	s.logger.Info("export downloaded", "sessions", doc.TotalSessions, "size", buf.Len())
	return &DownloadExportOutput{
		ContentType:        "application/json",
		ContentDisposition: fmt.Sprintf(`attachment; filename="%s"`, export.FileName(time.Now())),
		CacheControl:       CacheNoStore,
		Body:               buf.Bytes(),
	}, nil
}

func (s *Server) handleCreateExport(ctx context.Context, _ *struct{}) (*ExportResultOutput, error) {
	res, err := s.services.Export.ExportToFile(ctx)
	if err != nil {
		return nil, err
	}
	return &ExportResultOutput{Body: res}, nil
}
