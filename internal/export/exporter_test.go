package export

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cupnotes/cupnotes-server/internal/domain"
)

type fakeLister struct {
	sessions []*domain.Session
	err      error
	filter   domain.SessionFilter
}

func (f *fakeLister) ListSessions(_ context.Context, filter domain.SessionFilter) ([]*domain.Session, error) {
	f.filter = filter
	return f.sessions, f.err
}

func fixedExporter(l SessionLister) *Exporter {
	e := New(l)
	e.now = func() time.Time { return time.Date(2026, 7, 4, 12, 0, 0, 0, time.UTC) }
	return e
}

func TestWrite(t *testing.T) {
	lister := &fakeLister{sessions: []*domain.Session{
		{ID: "session-1", SessionType: domain.SessionTypeSingleCoffee, Tags: []string{}},
		{ID: "session-2", SessionType: domain.SessionTypeTableCupping, Tags: []string{"washed"}},
	}}

	var buf bytes.Buffer
	doc, err := fixedExporter(lister).Write(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.TotalSessions)
	assert.Equal(t, domain.SortAsc, lister.filter.Order)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.Equal(t, FormatVersion, raw["version"])
	assert.Equal(t, "2026-07-04T12:00:00Z", raw["exportDate"])
	assert.EqualValues(t, 2, raw["totalSessions"])
	require.Len(t, raw["sessions"], 2)
	first := raw["sessions"].([]any)[0].(map[string]any)
	assert.Equal(t, "session-1", first["id"])
	assert.Equal(t, "single-coffee", first["sessionType"])
}

func TestWrite_EmptyJournal(t *testing.T) {
	var buf bytes.Buffer
	_, err := fixedExporter(&fakeLister{}).Write(context.Background(), &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"sessions": []`)
	assert.Contains(t, buf.String(), `"totalSessions": 0`)
}

func TestExportFile(t *testing.T) {
	lister := &fakeLister{sessions: []*domain.Session{{ID: "session-1", Tags: []string{}}}}
	path := filepath.Join(t.TempDir(), "exports", FileName(time.Date(2026, 7, 4, 12, 0, 0, 0, time.UTC)))

	res, err := fixedExporter(lister).ExportFile(context.Background(), path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	sum := sha256.Sum256(data)
	assert.Equal(t, hex.EncodeToString(sum[:]), res.Checksum)
	assert.Equal(t, int64(len(data)), res.Size)
	assert.Equal(t, 1, res.Sessions)
	assert.Equal(t, "cupnotes-export-2026-07-04-120000.json", filepath.Base(path))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestExportFile_FailureLeavesNothing(t *testing.T) {
	lister := &fakeLister{err: errors.New("disk on fire")}
	path := filepath.Join(t.TempDir(), "export.json")

	_, err := fixedExporter(lister).ExportFile(context.Background(), path)
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(statErr))
}
