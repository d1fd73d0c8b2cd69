package dataprocessing

import (
	"log/slog"

	"sgjobs/internal/config"
	"sgjobs/internal/infrastructure"
	"sgjobs/pkg/contracts/domain"
)

// SilverStats summarizes what the enrichment did to the bronze rows.
// Silver drops no rows, so len(rows in) == len(rows out) always holds.
type SilverStats struct {
	Rows              int
	UniqueIndustries  int
	UnmappedSeniority int
	Salary            SalaryCleanResult
	InternedStrings   int
}

// RunSilver enriches the bronze rows with every silver feature: parsed
// industries, seniority tier, cleaned salary, date features, role family
// and the derived columns. Each transform is an independent pass over the
// rows, mirroring the stateless per-column design of the layer.
func RunSilver(bronze []domain.Posting, cfg config.PipelineConfig, logger *slog.Logger) ([]domain.EnrichedPosting, SilverStats) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("stage", "silver"))
	infrastructure.RowsProcessed.WithLabelValues("silver").Add(float64(len(bronze)))

	rows := make([]domain.EnrichedPosting, len(bronze))
	for i, p := range bronze {
		rows[i] = domain.Enrich(p)
	}

	stats := SilverStats{Rows: len(rows)}

	// Industries from the categories JSON.
	industries := make(map[string]struct{})
	for i := range rows {
		row := &rows[i]
		row.IndustryList = ParseCategories(row.Categories)
		row.PrimaryIndustry = PrimaryIndustry(row.IndustryList)
		row.IndustryCount = int32(len(row.IndustryList))
		industries[row.PrimaryIndustry] = struct{}{}
	}
	stats.UniqueIndustries = len(industries)
	logger.Info("parsed categories", slog.Int("unique_primary_industries", stats.UniqueIndustries))

	// Seniority tiers.
	mapper := NewSeniorityMapper(cfg.SeniorityMap)
	for i := range rows {
		rows[i].SeniorityTier, _ = mapper.Map(rows[i].PositionLevels)
	}
	stats.UnmappedSeniority = mapper.UnmappedCount()
	mapper.LogUnmapped(logger)
	infrastructure.RowsFlagged.WithLabelValues("silver", "unmapped_seniority").Add(float64(stats.UnmappedSeniority))
	logger.Info("mapped seniority tiers", slog.Int("unmapped_rows", stats.UnmappedSeniority))

	// Three-stage salary cleaning.
	stats.Salary = CleanSalaries(rows, cfg, logger)

	// Date features.
	for i := range rows {
		addDateFeatures(&rows[i])
	}

	// Role families.
	classifier := NewRoleClassifier(cfg.RoleKeywords)
	families := make(map[string]int)
	for i := range rows {
		rows[i].RoleFamily = classifier.Classify(rows[i].Title)
		families[rows[i].RoleFamily]++
	}
	logger.Info("classified role families",
		slog.Int("families", len(families)),
		slog.Int("other", families[config.RoleOther]))

	// Remaining derived features.
	for i := range rows {
		addDerivedFeatures(&rows[i], cfg)
	}

	// Memory-compact the categorical columns.
	stats.InternedStrings = internColumns(rows)
	logger.Info("interned categorical columns", slog.Int("distinct_values", stats.InternedStrings))

	logger.Info("silver layer complete", slog.Int("rows", len(rows)))
	return rows, stats
}
