package dataprocessing

import (
	"fmt"
	"log/slog"
	"strings"

	"sgjobs/internal/config"
	"sgjobs/pkg/contracts/domain"
)

// Summarize builds the per-layer row count summary with data quality
// warnings. In strict mode any warning is promoted to an error.
func Summarize(bronzeRows, silverRows int, goldRows map[string]int, cfg config.PipelineConfig, logger *slog.Logger) (domain.LayerSummary, error) {
	if logger == nil {
		logger = slog.Default()
	}

	summary := domain.LayerSummary{
		BronzeRows: bronzeRows,
		SilverRows: silverRows,
		GoldRows:   goldRows,
	}

	if bronzeRows > 0 {
		if bronzeRows < cfg.MinExpectedRows {
			summary.Warnings = append(summary.Warnings,
				fmt.Sprintf("bronze has only %d rows (expected >= %d)", bronzeRows, cfg.MinExpectedRows))
		}
		if silverRows > 0 {
			summary.LossPct = 1 - float64(silverRows)/float64(bronzeRows)
			if summary.LossPct > cfg.MaxBronzeToSilverLossPct {
				summary.Warnings = append(summary.Warnings,
					fmt.Sprintf("lost %.1f%% of rows from bronze to silver (threshold %.1f%%)",
						summary.LossPct*100, cfg.MaxBronzeToSilverLossPct*100))
			}
		}
	}

	for table, n := range goldRows {
		if n == 0 {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("gold table %s is empty", table))
		}
	}

	logger.Info("pipeline summary",
		slog.Int("bronze_rows", summary.BronzeRows),
		slog.Int("silver_rows", summary.SilverRows),
		slog.Int("gold_tables", len(summary.GoldRows)),
		slog.Float64("bronze_to_silver_loss_pct", summary.LossPct))
	for _, w := range summary.Warnings {
		logger.Warn("data quality warning", slog.String("warning", w))
	}

	if cfg.StrictMode && len(summary.Warnings) > 0 {
		return summary, fmt.Errorf("data quality checks failed: %s", strings.Join(summary.Warnings, "; "))
	}

	return summary, nil
}
