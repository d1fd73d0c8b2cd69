package pipeline

import (
	"context"
	"encoding/csv"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sgjobs/internal/config"
	"sgjobs/internal/store"
	"sgjobs/pkg/contracts/domain"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Pipeline.MinExpectedRows = 1
	require.NoError(t, cfg.Paths.EnsureDirectories())
	return cfg
}

// writeRawFixture writes a small raw CSV with the full expected header.
func writeRawFixture(t *testing.T, cfg *config.Config, rows []map[string]string) {
	t.Helper()
	f, err := os.Create(cfg.Paths.Raw())
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	require.NoError(t, w.Write(domain.RawColumns))
	for _, row := range rows {
		record := make([]string, len(domain.RawColumns))
		for i, col := range domain.RawColumns {
			record[i] = row[col]
		}
		require.NoError(t, w.Write(record))
	}
	w.Flush()
	require.NoError(t, w.Error())
}

func fixtureRows() []map[string]string {
	return []map[string]string{
		{
			"metadata_jobPostId":                 "MCF-2023-000001",
			"title":                              "Senior Software Engineer",
			"categories":                         `[{"id": 11, "category": "Information Technology"}]`,
			"positionLevels":                     "Professional",
			"salary_minimum":                     "6000",
			"salary_maximum":                     "9000",
			"numberOfVacancies":                  "2",
			"metadata_totalNumberJobApplication": "40",
			"minimumYearsExperience":             "5",
			"metadata_newPostingDate":            "2023-06-01",
			"metadata_expiryDate":                "2023-07-01",
			"employmentTypes":                    "Full Time",
			"postedCompany_name":                 "Acme Pte Ltd",
		},
		{
			"metadata_jobPostId":      "MCF-2023-000002",
			"title":                   "Registered Nurse",
			"categories":              `[{"id": 20, "category": "Healthcare"}]`,
			"positionLevels":          "Executive",
			"salary_minimum":          "3000",
			"salary_maximum":          "4000",
			"numberOfVacancies":       "1",
			"metadata_newPostingDate": "2023-06-10",
			"employmentTypes":         "Full Time",
			"postedCompany_name":      "City Hospital",
		},
	}
}

func TestRunUnknownSelector(t *testing.T) {
	m := NewManager(testConfig(t), nil)

	state, err := m.Run(context.Background(), "platinum")
	require.Error(t, err)
	assert.Nil(t, state)
	assert.Contains(t, err.Error(), "unknown stage")
}

func TestRunFullPipeline(t *testing.T) {
	cfg := testConfig(t)
	writeRawFixture(t, cfg, fixtureRows())

	m := NewManager(cfg, nil)
	state, err := m.Run(context.Background(), StageIDAll)
	require.NoError(t, err)

	assert.Equal(t, RunStatusCompleted, state.Status)
	require.Len(t, state.Stages, 3)
	for _, st := range state.Stages {
		assert.Equal(t, StageStatusCompleted, st.Status, "stage %s", st.ID)
	}

	assert.Equal(t, 2, state.StageState(StageIDBronze).Counts["bronze_rows"])
	assert.Equal(t, 2, state.StageState(StageIDSilver).Counts["silver_rows"])

	// Every artifact is on disk.
	assert.True(t, store.Exists(cfg.Paths.Bronze()))
	assert.True(t, store.Exists(cfg.Paths.Silver()))
	for _, table := range domain.GoldTables {
		assert.True(t, store.Exists(cfg.Paths.Gold(table)), "table %s", table)
	}
	assert.True(t, store.Exists(cfg.Paths.Summary()))

	summary := state.Summary()
	require.NotNil(t, summary)
	assert.Equal(t, 2, summary.BronzeRows)
	assert.Equal(t, 2, summary.SilverRows)
	assert.Empty(t, summary.Warnings)
}

func TestRunStagesIndependently(t *testing.T) {
	cfg := testConfig(t)
	writeRawFixture(t, cfg, fixtureRows())
	m := NewManager(cfg, nil)

	// Each stage picks its input up from the previous stage's artifact.
	for _, selector := range []string{StageIDBronze, StageIDSilver, StageIDGold} {
		state, err := m.Run(context.Background(), selector)
		require.NoError(t, err, "stage %s", selector)
		assert.Equal(t, RunStatusCompleted, state.Status)
	}

	// The gold-only run still reports the true bronze count.
	silver, err := store.ReadTable[domain.EnrichedPosting](cfg.Paths.Silver(), nil)
	require.NoError(t, err)
	assert.Len(t, silver, 2)
}

func TestRunFailsValidationWithoutRawFile(t *testing.T) {
	cfg := testConfig(t)
	m := NewManager(cfg, nil)

	state, err := m.Run(context.Background(), StageIDAll)
	require.Error(t, err)
	require.NotNil(t, state)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, ErrorTypeValidation, stageErr.Type)
	assert.Equal(t, StageIDBronze, stageErr.Stage)

	assert.Equal(t, RunStatusFailed, state.Status)
	assert.Equal(t, StageStatusFailed, state.StageState(StageIDBronze).Status)
	assert.Equal(t, StageStatusSkipped, state.StageState(StageIDSilver).Status)
	assert.Equal(t, StageStatusSkipped, state.StageState(StageIDGold).Status)
}

func TestRunSilverWithoutBronzeArtifact(t *testing.T) {
	cfg := testConfig(t)
	m := NewManager(cfg, nil)

	_, err := m.Run(context.Background(), StageIDSilver)
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, ErrorTypeValidation, stageErr.Type)
	assert.Contains(t, stageErr.Message, "bronze artifact not found")
}

func TestRunCancelledContext(t *testing.T) {
	cfg := testConfig(t)
	writeRawFixture(t, cfg, fixtureRows())
	m := NewManager(cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state, err := m.Run(ctx, StageIDAll)
	require.Error(t, err)
	require.NotNil(t, state)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, ErrorTypeCancellation, stageErr.Type)
	assert.Equal(t, RunStatusFailed, state.Status)
}

func TestRunStrictModePromotesQualityWarnings(t *testing.T) {
	cfg := testConfig(t)
	cfg.Pipeline.MinExpectedRows = 1000
	cfg.Pipeline.StrictMode = true
	writeRawFixture(t, cfg, fixtureRows())

	m := NewManager(cfg, nil)
	state, err := m.Run(context.Background(), StageIDAll)
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, ErrorTypeDataQuality, stageErr.Type)
	assert.Equal(t, StageIDGold, stageErr.Stage)

	// The summary is still persisted so the failure can be inspected.
	assert.True(t, store.Exists(cfg.Paths.Summary()))
	require.NotNil(t, state.Summary())
	assert.NotEmpty(t, state.Summary().Warnings)
}
