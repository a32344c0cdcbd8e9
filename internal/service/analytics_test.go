package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cupnotes/cupnotes-server/internal/domain"
	domainerrors "github.com/cupnotes/cupnotes-server/internal/errors"
	"github.com/cupnotes/cupnotes-server/internal/flavor"
)

func TestAnalyticsService_TableCupping(t *testing.T) {
	ts := setupTestServices(t)
	ctx := context.Background()

	session, err := ts.sessions.CreateSession(ctx, domain.SessionTypeTableCupping)
	require.NoError(t, err)
	cups := session.Coffees[0].Cups
	require.Len(t, cups, 5)

	// Four cups total 20 and one totals 10.
	for _, cup := range cups[:4] {
		_, err := ts.sessions.UpdateCupScores(ctx, cup.ID, allScores(4, 4, 3, 3, 3, 3))
		require.NoError(t, err)
	}
	_, err = ts.sessions.UpdateCupScores(ctx, cups[4].ID, allScores(1, 1, 2, 2, 2, 2))
	require.NoError(t, err)

	scores, err := ts.analytics.UniformityScores(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, []int{20, 20, 20, 20, 10}, scores[0].CupTotals)
	assert.InDelta(t, 18.0, scores[0].Mean, 1e-9)
	assert.InDelta(t, 4.0, scores[0].StandardDeviation, 1e-9)
	assert.InDelta(t, 60.0, scores[0].Score, 1e-9)

	stats, err := ts.analytics.SessionStats(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CoffeeCount)
	assert.Equal(t, 5, stats.CupCount)

	averages, err := ts.analytics.CoffeeAverages(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, averages, 1)
	assert.Equal(t, 5, averages[0].CupCount)
	assert.InDelta(t, 18.0, averages[0].AvgTotal, 1e-9)
}

func TestAnalyticsService_FlavorFrequency(t *testing.T) {
	ts := setupTestServices(t)
	ctx := context.Background()

	first, err := ts.sessions.CreateSession(ctx, domain.SessionTypeSingleCoffee)
	require.NoError(t, err)
	second, err := ts.sessions.CreateSession(ctx, domain.SessionTypeSingleCoffee)
	require.NoError(t, err)

	_, err = ts.sessions.UpdateCupFlavors(ctx, first.Coffees[0].Cups[0].ID, []domain.SelectedFlavor{
		{FlavorID: 29, Intensity: 4},
		{FlavorID: 21, Intensity: 2},
	})
	require.NoError(t, err)
	_, err = ts.sessions.UpdateCupFlavors(ctx, second.Coffees[0].Cups[0].ID, []domain.SelectedFlavor{
		{FlavorID: 29, Intensity: 2},
	})
	require.NoError(t, err)

	counts, err := ts.analytics.FlavorFrequency(ctx, domain.FlavorFrequencyFilter{})
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, 29, counts[0].FlavorID)
	assert.Equal(t, 2, counts[0].Count)
	assert.InDelta(t, 3.0, counts[0].AvgIntensity, 1e-9)

	counts, err = ts.analytics.FlavorFrequency(ctx, domain.FlavorFrequencyFilter{SessionID: second.ID})
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, 1, counts[0].Count)

	top, err := ts.analytics.TopFlavors(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 29, top[0].FlavorID)

	stats, err := ts.analytics.SessionStats(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.UniqueFlavors)
	require.Len(t, stats.TopCategories, 2)
	assert.ElementsMatch(t, []string{string(flavor.CategoryFloral), string(flavor.CategoryCitrus)},
		[]string{stats.TopCategories[0].Category, stats.TopCategories[1].Category})
}

func TestAnalyticsService_Errors(t *testing.T) {
	ts := setupTestServices(t)
	ctx := context.Background()

	_, err := ts.analytics.SessionStats(ctx, "session-missing")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	_, err = ts.analytics.UniformityScores(ctx, "session-missing")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	_, err = ts.analytics.FlavorFrequency(ctx, domain.FlavorFrequencyFilter{SessionID: "session-missing"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	_, err = ts.analytics.TopFlavors(ctx, 0)
	assert.Equal(t, domainerrors.CodeValidation, domainerrors.CodeOf(err))

	session, err := ts.sessions.CreateSession(ctx, domain.SessionTypeMultiCoffee)
	require.NoError(t, err)
	_, err = ts.analytics.CoffeeComparison(ctx, session.ID, session.Coffees[0].ID, "coffee-missing")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestAnalyticsService_CoffeeComparison(t *testing.T) {
	ts := setupTestServices(t)
	ctx := context.Background()

	session, err := ts.sessions.CreateSession(ctx, domain.SessionTypeMultiCoffee)
	require.NoError(t, err)
	second, err := ts.sessions.AddCoffee(ctx, session.ID, &domain.CoffeeEntry{Name: "Second"})
	require.NoError(t, err)
	first := session.Coffees[0]

	_, err = ts.sessions.UpdateCupScores(ctx, first.Cups[0].ID, allScores(5, 5, 5, 5, 5, 5))
	require.NoError(t, err)
	_, err = ts.sessions.UpdateCupScores(ctx, second.Cups[0].ID, allScores(3, 3, 3, 3, 3, 3))
	require.NoError(t, err)

	res, err := ts.analytics.CoffeeComparison(ctx, session.ID, first.ID, second.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, res.ScoreDelta.Attributes[domain.AttrAcidity], 1e-9)
	assert.InDelta(t, 12.0, res.ScoreDelta.Total, 1e-9)
}

func TestExportService_ExportToFile(t *testing.T) {
	ts := setupTestServices(t)
	ctx := context.Background()

	for _, st := range []domain.SessionType{domain.SessionTypeSingleCoffee, domain.SessionTypeTableCupping} {
		_, err := ts.sessions.CreateSession(ctx, st)
		require.NoError(t, err)
	}

	dir := filepath.Join(t.TempDir(), "exports")
	svc := NewExportService(ts.store, dir, ts.sessions.logger)

	res, err := svc.ExportToFile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Sessions)
	assert.Equal(t, dir, filepath.Dir(res.Path))

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	var doc struct {
		Version       string            `json:"version"`
		TotalSessions int               `json:"totalSessions"`
		Sessions      []*domain.Session `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "1.0", doc.Version)
	assert.Equal(t, 2, doc.TotalSessions)
	cupsPerSession := map[domain.SessionType]int{}
	for _, s := range doc.Sessions {
		cupsPerSession[s.SessionType] = len(s.Coffees[0].Cups)
	}
	assert.Equal(t, map[domain.SessionType]int{
		domain.SessionTypeSingleCoffee: 1,
		domain.SessionTypeTableCupping: 5,
	}, cupsPerSession)
}
