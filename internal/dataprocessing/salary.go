package dataprocessing

import (
	"log/slog"
	"math"

	"sgjobs/internal/config"
	"sgjobs/internal/infrastructure"
	"sgjobs/pkg/contracts/domain"
)

// SalaryCleanResult reports what each of the three cleaning stages did, so
// a consumer can distinguish "invalid and discarded", "valid but extreme"
// and "valid, clipped for aggregation" for every record.
type SalaryCleanResult struct {
	ReadingsSwapped int
	ReadingsNulled  int
	OutliersFlagged int

	LowerFence float64
	UpperFence float64
	WinsorLow  float64
	WinsorHigh float64
}

// CleanSalaries runs the three-stage salary cleaner over the silver rows
// in place.
//
// Stage 1 swaps inverted min/max pairs (presumed data-entry reversal),
// then nulls readings outside the configured hard bounds. Stage 2 flags,
// but never alters, rows whose midpoint salary falls outside the IQR
// fences. Stage 3 winsorizes the surviving readings to the configured
// percentiles; only the clean columns feed downstream aggregates, the raw
// columns stay for audit.
func CleanSalaries(rows []domain.EnrichedPosting, cfg config.PipelineConfig, logger *slog.Logger) SalaryCleanResult {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("stage", "silver"))

	var result SalaryCleanResult

	// Stage 1: preserve raw values, fix reversals, apply hard bounds.
	for i := range rows {
		row := &rows[i]
		row.SalaryMinimumRaw = row.SalaryMinimum
		row.SalaryMaximumRaw = row.SalaryMaximum

		if row.SalaryMinimum != nil && row.SalaryMaximum != nil && *row.SalaryMinimum > *row.SalaryMaximum {
			row.SalaryMinimum, row.SalaryMaximum = row.SalaryMaximum, row.SalaryMinimum
			result.ReadingsSwapped++
		}

		row.SalaryMinimum, result.ReadingsNulled = nullOutOfBounds(row.SalaryMinimum, cfg, result.ReadingsNulled)
		row.SalaryMaximum, result.ReadingsNulled = nullOutOfBounds(row.SalaryMaximum, cfg, result.ReadingsNulled)
	}

	infrastructure.ValuesNulled.WithLabelValues("silver", "salary_bounds").Add(float64(result.ReadingsNulled))
	logger.Info("applied hard salary bounds",
		slog.Int("readings_swapped", result.ReadingsSwapped),
		slog.Int("readings_nulled", result.ReadingsNulled),
		slog.Float64("floor", cfg.SalaryFloor),
		slog.Float64("ceiling", cfg.SalaryCeiling))

	// Midpoints of rows where both readings survived stage 1.
	midpoints := make([]float64, 0, len(rows))
	for i := range rows {
		if mid, ok := midpoint(&rows[i]); ok {
			midpoints = append(midpoints, mid)
		}
	}

	if len(midpoints) == 0 {
		logger.Warn("no valid salaries: skipping outlier flagging and winsorization")
		result.WinsorLow = math.NaN()
		result.WinsorHigh = math.NaN()
		return result
	}

	// Stage 2: IQR outlier flagging. Values are marked, never altered.
	q1 := Quantile(midpoints, 0.25)
	q3 := Quantile(midpoints, 0.75)
	iqr := q3 - q1
	result.LowerFence = q1 - cfg.IQRMultiplier*iqr
	result.UpperFence = q3 + cfg.IQRMultiplier*iqr

	for i := range rows {
		row := &rows[i]
		if mid, ok := midpoint(row); ok {
			row.SalaryOutlierIQR = mid < result.LowerFence || mid > result.UpperFence
			if row.SalaryOutlierIQR {
				result.OutliersFlagged++
			}
		}
	}

	infrastructure.RowsFlagged.WithLabelValues("silver", "salary_outlier_iqr").Add(float64(result.OutliersFlagged))
	logger.Info("flagged IQR outliers",
		slog.Int("flagged", result.OutliersFlagged),
		slog.Float64("lower_fence", result.LowerFence),
		slog.Float64("upper_fence", result.UpperFence))

	// Stage 3: winsorization.
	result.WinsorLow = Quantile(midpoints, cfg.WinsorLower)
	result.WinsorHigh = Quantile(midpoints, cfg.WinsorUpper)

	for i := range rows {
		row := &rows[i]
		if row.SalaryMinimum != nil {
			row.SalaryMinimumClean = float64ptr(clamp(*row.SalaryMinimum, result.WinsorLow, result.WinsorHigh))
		}
		if row.SalaryMaximum != nil {
			row.SalaryMaximumClean = float64ptr(clamp(*row.SalaryMaximum, result.WinsorLow, result.WinsorHigh))
		}
		if row.SalaryMinimumClean != nil && row.SalaryMaximumClean != nil {
			row.AverageSalaryClean = float64ptr((*row.SalaryMinimumClean + *row.SalaryMaximumClean) / 2)
		}
	}

	logger.Info("winsorized salaries",
		slog.Float64("low", result.WinsorLow),
		slog.Float64("high", result.WinsorHigh))

	return result
}

// nullOutOfBounds invalidates a reading outside the hard bounds and bumps
// the running count.
func nullOutOfBounds(v *float64, cfg config.PipelineConfig, nulled int) (*float64, int) {
	if v == nil {
		return nil, nulled
	}
	if *v < cfg.SalaryFloor || *v > cfg.SalaryCeiling {
		return nil, nulled + 1
	}
	return v, nulled
}

// midpoint returns the average of the two salary readings when both are
// present.
func midpoint(row *domain.EnrichedPosting) (float64, bool) {
	if row.SalaryMinimum == nil || row.SalaryMaximum == nil {
		return 0, false
	}
	return (*row.SalaryMinimum + *row.SalaryMaximum) / 2, true
}
