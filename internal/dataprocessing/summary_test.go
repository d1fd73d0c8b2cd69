package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sgjobs/internal/config"
	"sgjobs/pkg/contracts/domain"
)

func goldCounts(n int) map[string]int {
	counts := make(map[string]int)
	for _, name := range domain.GoldTables {
		counts[name] = n
	}
	return counts
}

func TestSummarizeCleanRun(t *testing.T) {
	cfg := config.DefaultPipeline()
	cfg.MinExpectedRows = 100

	summary, err := Summarize(1000, 1000, goldCounts(5), cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, 1000, summary.BronzeRows)
	assert.Equal(t, 1000, summary.SilverRows)
	assert.InDelta(t, 0.0, summary.LossPct, 1e-9)
	assert.Empty(t, summary.Warnings)
}

func TestSummarizeWarnsOnRowLoss(t *testing.T) {
	cfg := config.DefaultPipeline()
	cfg.MinExpectedRows = 100

	// 20% loss against a 10% threshold.
	summary, err := Summarize(1000, 800, goldCounts(5), cfg, nil)
	require.NoError(t, err)

	assert.InDelta(t, 0.2, summary.LossPct, 1e-9)
	require.Len(t, summary.Warnings, 1)
	assert.Contains(t, summary.Warnings[0], "lost")
}

func TestSummarizeWarnsBelowMinimumRows(t *testing.T) {
	cfg := config.DefaultPipeline()

	summary, err := Summarize(500, 500, goldCounts(5), cfg, nil)
	require.NoError(t, err)

	require.Len(t, summary.Warnings, 1)
	assert.Contains(t, summary.Warnings[0], "expected >=")
}

func TestSummarizeWarnsOnEmptyGoldTables(t *testing.T) {
	cfg := config.DefaultPipeline()
	cfg.MinExpectedRows = 100

	counts := goldCounts(5)
	counts[domain.TableCompetition] = 0

	summary, err := Summarize(1000, 1000, counts, cfg, nil)
	require.NoError(t, err)

	require.Len(t, summary.Warnings, 1)
	assert.Contains(t, summary.Warnings[0], domain.TableCompetition)
}

func TestSummarizeStrictModePromotesWarnings(t *testing.T) {
	cfg := config.DefaultPipeline()
	cfg.MinExpectedRows = 100
	cfg.StrictMode = true

	_, err := Summarize(1000, 800, goldCounts(5), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data quality checks failed")
}
