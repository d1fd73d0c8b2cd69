package dataprocessing

import (
	"fmt"
	"log/slog"
	"time"

	"sgjobs/internal/config"
	"sgjobs/internal/infrastructure"
	"sgjobs/pkg/contracts/domain"
)

// DroppedColumns are the degenerate raw columns removed at the bronze
// layer: occupationId and status_id are constant across the corpus and
// salary_type is fully null.
var DroppedColumns = []string{"occupationId", "status_id", "salary_type"}

// dateLayouts are tried in order when casting the raw date strings.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// BronzeResult carries the cleaned rows plus the removal counts every
// cleaning step must report.
type BronzeResult struct {
	Rows []domain.Posting

	SyntheticRemoved  int
	SyntheticRetained int
	NullTitleRemoved  int
	DatesCoerced      int
}

// RunBronze cleans the raw rows into the bronze layer: synthetic test rows
// are removed under dual validation, rows without a title are dropped, the
// degenerate columns are excluded and the date columns are cast.
func RunBronze(raws []domain.RawPosting, cfg config.PipelineConfig, logger *slog.Logger) (BronzeResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("stage", "bronze"))
	infrastructure.RowsProcessed.WithLabelValues("bronze").Add(float64(len(raws)))

	result := BronzeResult{Rows: make([]domain.Posting, 0, len(raws))}

	for _, raw := range raws {
		if isSynthetic(raw, cfg) {
			result.SyntheticRemoved++
			continue
		}
		if hasSyntheticPrefix(raw, cfg) {
			// Prefix match without the salary anomaly: kept, but surfaced.
			result.SyntheticRetained++
		}
		if raw.Title == "" {
			result.NullTitleRemoved++
			continue
		}

		posting, coerced := castPosting(raw)
		result.DatesCoerced += coerced
		result.Rows = append(result.Rows, posting)
	}

	infrastructure.RowsDropped.WithLabelValues("bronze", "synthetic").Add(float64(result.SyntheticRemoved))
	infrastructure.RowsDropped.WithLabelValues("bronze", "null_title").Add(float64(result.NullTitleRemoved))

	logger.Info("removed synthetic rows",
		slog.Int("removed", result.SyntheticRemoved),
		slog.Int("prefix_retained", result.SyntheticRetained),
		slog.String("prefix", cfg.SyntheticPrefix))
	logger.Info("removed null-title rows", slog.Int("removed", result.NullTitleRemoved))
	logger.Info("dropped degenerate columns", slog.Any("columns", DroppedColumns))
	logger.Info("cast date columns", slog.Int("values_coerced_to_null", result.DatesCoerced))

	if result.SyntheticRetained > 0 {
		logger.Warn("prefix-matched rows retained: salaries look normal, manual review recommended",
			slog.Int("count", result.SyntheticRetained))
		if cfg.StrictMode {
			return BronzeResult{}, fmt.Errorf("synthetic row validation failed: %d prefix-matched rows have normal salaries", result.SyntheticRetained)
		}
	}

	logger.Info("bronze layer complete", slog.Int("rows", len(result.Rows)))
	return result, nil
}

// isSynthetic applies the dual condition for synthetic test rows: the post
// ID must carry the synthetic prefix AND a salary reading must exceed the
// sanity threshold. A prefix match alone is not sufficient.
func isSynthetic(raw domain.RawPosting, cfg config.PipelineConfig) bool {
	if !hasSyntheticPrefix(raw, cfg) {
		return false
	}
	if raw.SalaryMinimum != nil && *raw.SalaryMinimum > cfg.SyntheticSalaryThreshold {
		return true
	}
	if raw.SalaryMaximum != nil && *raw.SalaryMaximum > cfg.SyntheticSalaryThreshold {
		return true
	}
	return false
}

func hasSyntheticPrefix(raw domain.RawPosting, cfg config.PipelineConfig) bool {
	return cfg.SyntheticPrefix != "" && len(raw.JobPostID) >= len(cfg.SyntheticPrefix) &&
		raw.JobPostID[:len(cfg.SyntheticPrefix)] == cfg.SyntheticPrefix
}

// castPosting converts a raw row into a bronze posting, parsing the three
// date columns and dropping the degenerate ones. Returns the number of
// date values coerced to null.
func castPosting(raw domain.RawPosting) (domain.Posting, int) {
	coerced := 0
	parse := func(s string) *time.Time {
		if s == "" {
			return nil
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return &t
			}
		}
		coerced++
		return nil
	}

	p := domain.Posting{
		JobPostID:           raw.JobPostID,
		Title:               raw.Title,
		Categories:          raw.Categories,
		PositionLevels:      raw.PositionLevels,
		SalaryMinimum:       raw.SalaryMinimum,
		SalaryMaximum:       raw.SalaryMaximum,
		AverageSalary:       raw.AverageSalary,
		NumberOfVacancies:   raw.NumberOfVacancies,
		TotalApplications:   raw.TotalApplications,
		TotalViews:          raw.TotalViews,
		RepostCount:         raw.RepostCount,
		MinYearsExperience:  raw.MinYearsExperience,
		NewPostingDate:      parse(raw.NewPostingDate),
		OriginalPostingDate: parse(raw.OriginalPostingDate),
		ExpiryDate:          parse(raw.ExpiryDate),
		EmploymentTypes:     raw.EmploymentTypes,
		CompanyName:         raw.CompanyName,
		JobStatus:           raw.JobStatus,
		IsPostedOnBehalf:    raw.IsPostedOnBehalf,
	}
	return p, coerced
}
