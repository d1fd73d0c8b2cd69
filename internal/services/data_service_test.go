package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sgjobs/internal/config"
	"sgjobs/internal/store"
	"sgjobs/pkg/contracts/domain"
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

func testService(t *testing.T) (*DataService, *config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	return NewDataService(cfg, nil), cfg
}

func TestMonthlyPostingsIsMemoized(t *testing.T) {
	ds, cfg := testService(t)
	path := cfg.Paths.Gold(domain.TableMonthlyPostings)

	first := []domain.MonthlyPostingRow{{PostingMonth: "2023-01", Industry: "IT", PostingCount: 10}}
	require.NoError(t, store.WriteTable(path, first, nil))

	rows, err := ds.MonthlyPostings(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, ds.LoadedAt(domain.TableMonthlyPostings).IsZero())

	// Overwrite the artifact; the cached copy keeps serving.
	second := append(first, domain.MonthlyPostingRow{PostingMonth: "2023-02", Industry: "IT", PostingCount: 5})
	require.NoError(t, store.WriteTable(path, second, nil))

	rows, err = ds.MonthlyPostings(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	// Invalidate forces a reload from disk.
	ds.Invalidate()
	assert.True(t, ds.LoadedAt(domain.TableMonthlyPostings).IsZero())

	rows, err = ds.MonthlyPostings(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestTableLoadReportsMissingArtifact(t *testing.T) {
	ds, _ := testService(t)

	_, err := ds.Competition(context.Background())
	require.Error(t, err)

	var missing *ErrArtifactMissing
	require.ErrorAs(t, err, &missing)
	assert.Contains(t, missing.Error(), "run the pipeline first")
}

func TestKPIsFromSilver(t *testing.T) {
	ds, cfg := testService(t)

	silver := []domain.EnrichedPosting{
		{
			PostingMonth:       "2023-01",
			IndustryList:       []string{"IT", "Finance"},
			NumberOfVacancies:  i64(3),
			AverageSalaryClean: f64(4000),
			IsReposted:         true,
		},
		{
			PostingMonth:       "2023-01",
			IndustryList:       []string{"IT"},
			NumberOfVacancies:  i64(1),
			AverageSalaryClean: f64(6000),
		},
		{
			// No vacancies, no clean salary, no industries.
			PostingMonth: "2023-02",
		},
	}
	require.NoError(t, store.WriteTable(cfg.Paths.Silver(), silver, nil))

	kpis, err := ds.KPIs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, kpis.TotalPostings)
	assert.Equal(t, int64(4), kpis.TotalVacancies)
	assert.Equal(t, 2, kpis.IndustryCount)
	require.NotNil(t, kpis.MedianSalary)
	assert.InDelta(t, 5000.0, *kpis.MedianSalary, 1e-9)
	assert.InDelta(t, 1.0/3.0, kpis.RepostedPct, 1e-9)
}

func TestKPIsMissingSilver(t *testing.T) {
	ds, _ := testService(t)

	_, err := ds.KPIs(context.Background())
	var missing *ErrArtifactMissing
	require.ErrorAs(t, err, &missing)
}

func TestSummaryRoundTrip(t *testing.T) {
	ds, cfg := testService(t)

	want := domain.LayerSummary{
		BronzeRows: 1000,
		SilverRows: 990,
		LossPct:    0.01,
		Warnings:   []string{"something minor"},
	}
	data, err := json.Marshal(want)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.Paths.Summary()), 0755))
	require.NoError(t, os.WriteFile(cfg.Paths.Summary(), data, 0644))

	got, err := ds.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want.BronzeRows, got.BronzeRows)
	assert.Equal(t, want.Warnings, got.Warnings)
}

func TestSummaryMissing(t *testing.T) {
	ds, _ := testService(t)

	_, err := ds.Summary(context.Background())
	var missing *ErrArtifactMissing
	require.ErrorAs(t, err, &missing)
}

func TestTableNames(t *testing.T) {
	ds, cfg := testService(t)

	require.NoError(t, store.WriteTable(cfg.Paths.Gold(domain.TableCompetition),
		[]domain.CompetitionRow{{Industry: "IT"}}, nil))

	available := ds.TableNames()
	assert.Len(t, available, len(domain.GoldTables))
	assert.True(t, available[domain.TableCompetition])
	assert.False(t, available[domain.TableMonthlyPostings])
}
