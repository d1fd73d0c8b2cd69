package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sgjobs/pkg/contracts/domain"
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

func TestWriteReadPostingRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bronze", "postings.parquet")
	posted := time.Date(2023, time.March, 15, 8, 30, 0, 0, time.UTC)

	rows := []domain.Posting{
		{
			JobPostID:         "MCF-2023-000001",
			Title:             "Software Engineer",
			PositionLevels:    "Professional",
			SalaryMinimum:     f64(5000),
			SalaryMaximum:     f64(8000),
			NumberOfVacancies: i64(2),
			NewPostingDate:    &posted,
			CompanyName:       "Acme Pte Ltd",
		},
		{
			JobPostID: "MCF-2023-000002",
			Title:     "Nurse",
			// Optionals left nil on purpose.
		},
	}

	require.NoError(t, WriteTable(path, rows, nil))

	got, err := ReadTable[domain.Posting](path, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "MCF-2023-000001", got[0].JobPostID)
	require.NotNil(t, got[0].SalaryMinimum)
	assert.Equal(t, 5000.0, *got[0].SalaryMinimum)
	require.NotNil(t, got[0].NewPostingDate)
	assert.True(t, posted.Equal(*got[0].NewPostingDate))

	assert.Equal(t, "MCF-2023-000002", got[1].JobPostID)
	assert.Nil(t, got[1].SalaryMinimum)
	assert.Nil(t, got[1].NewPostingDate)
}

func TestWriteReadEnrichedPostingRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "silver", "postings.parquet")
	posted := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)
	expiry := posted.AddDate(0, 1, 0)

	rows := []domain.EnrichedPosting{
		{
			JobPostID:          "MCF-2023-000001",
			Title:              "Senior Software Engineer",
			NewPostingDate:     &posted,
			ExpiryDate:         &expiry,
			IndustryList:       []string{"Information Technology", "Finance"},
			PrimaryIndustry:    "Information Technology",
			IndustryCount:      2,
			SeniorityTier:      "Senior",
			RoleFamily:         "Developer",
			ExperienceBand:     "4-5 yrs",
			PostingMonth:       "2023-06",
			AverageSalaryClean: f64(7500),
			CompetitionRatio:   f64(20),
			IsReposted:         true,
		},
	}

	require.NoError(t, WriteTable(path, rows, nil))

	got, err := ReadTable[domain.EnrichedPosting](path, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)

	row := got[0]
	require.NotNil(t, row.NewPostingDate)
	assert.True(t, posted.Equal(*row.NewPostingDate))
	require.NotNil(t, row.ExpiryDate)
	assert.True(t, expiry.Equal(*row.ExpiryDate))
	assert.Nil(t, row.OriginalPostingDate)
	assert.Equal(t, []string{"Information Technology", "Finance"}, row.IndustryList)
	require.NotNil(t, row.AverageSalaryClean)
	assert.Equal(t, 7500.0, *row.AverageSalaryClean)
	assert.True(t, row.IsReposted)
}

func TestWriteReadGoldRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gold", "agg_monthly_postings.parquet")

	rows := []domain.MonthlyPostingRow{
		{
			PostingMonth:   "2023-01",
			Industry:       "Information Technology",
			PostingCount:   42,
			AvgSalary:      f64(5500.5),
			TotalVacancies: 80,
			PctFullTime:    0.75,
			PctOther:       0.25,
		},
	}

	require.NoError(t, WriteTable(path, rows, nil))

	got, err := ReadTable[domain.MonthlyPostingRow](path, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rows[0], got[0])
}

func TestWriteTableEmptySlice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")

	require.NoError(t, WriteTable(path, []domain.MonthlyPostingRow{}, nil))

	got, err := ReadTable[domain.MonthlyPostingRow](path, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWriteTableLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table.parquet")

	require.NoError(t, WriteTable(path, []domain.MonthlyPostingRow{{PostingMonth: "2023-01"}}, nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, strings.HasPrefix(entry.Name(), ".tmp-"), "temp file left behind: %s", entry.Name())
	}
}

func TestReadTableMissingFile(t *testing.T) {
	_, err := ReadTable[domain.MonthlyPostingRow](filepath.Join(t.TempDir(), "absent.parquet"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "artifact not found")
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present.parquet")

	assert.False(t, Exists(path))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	assert.True(t, Exists(path))
}
