package dataprocessing

import (
	"fmt"

	"sgjobs/internal/config"
	"sgjobs/pkg/contracts/domain"
)

// ExperienceBandFor buckets a minimum-years-experience value. The value is
// first clamped to the configured cap to suppress unrealistic entries,
// then matched against the contiguous bands. Nil years map to Unknown.
func ExperienceBandFor(years *int64, cfg config.PipelineConfig) string {
	if years == nil {
		return config.ExperienceUnknown
	}

	y := *years
	if y > cfg.MaxExperienceYears {
		y = cfg.MaxExperienceYears
	}
	if y < 0 {
		y = 0
	}

	for _, band := range cfg.ExperienceBands {
		if y >= band.Min && y <= band.Max {
			return band.Label
		}
	}
	return config.ExperienceUnknown
}

// CompetitionRatio returns applications per vacancy. The ratio is
// explicitly undefined (nil, not zero and not an error) when vacancies
// are zero or either input is missing.
func CompetitionRatio(applications, vacancies *int64) *float64 {
	if applications == nil || vacancies == nil || *vacancies == 0 {
		return nil
	}
	return float64ptr(float64(*applications) / float64(*vacancies))
}

// addDateFeatures derives the posting-month period, the posting duration
// and the calendar convenience columns from the bronze dates.
func addDateFeatures(row *domain.EnrichedPosting) {
	if row.NewPostingDate != nil {
		t := *row.NewPostingDate
		row.PostingMonth = t.Format("2006-01")
		row.PostingYear = int64ptr(int64(t.Year()))
		row.PostingMonthNum = int64ptr(int64(t.Month()))

		if row.ExpiryDate != nil {
			days := int64(row.ExpiryDate.Sub(t).Hours() / 24)
			row.PostingDurationDays = &days
		}
	}
}

// addDerivedFeatures computes the remaining silver features: experience
// band, competition ratio, repost flag and annual salary.
func addDerivedFeatures(row *domain.EnrichedPosting, cfg config.PipelineConfig) {
	row.ExperienceBand = ExperienceBandFor(row.MinYearsExperience, cfg)
	row.CompetitionRatio = CompetitionRatio(row.TotalApplications, row.NumberOfVacancies)
	row.IsReposted = row.RepostCount != nil && *row.RepostCount > 0
	if row.AverageSalaryClean != nil {
		row.AnnualSalaryClean = float64ptr(*row.AverageSalaryClean * 12)
	}
}

// internColumns canonicalizes the low-cardinality string columns so that
// repeated values share backing storage. The persisted artifact applies
// dictionary encoding to the same columns; this is the in-memory analogue.
func internColumns(rows []domain.EnrichedPosting) int {
	pool := make(map[string]string)
	intern := func(s string) string {
		if canonical, ok := pool[s]; ok {
			return canonical
		}
		pool[s] = s
		return s
	}

	for i := range rows {
		row := &rows[i]
		row.PositionLevels = intern(row.PositionLevels)
		row.EmploymentTypes = intern(row.EmploymentTypes)
		row.JobStatus = intern(row.JobStatus)
		row.IsPostedOnBehalf = intern(row.IsPostedOnBehalf)
		row.PrimaryIndustry = intern(row.PrimaryIndustry)
		row.SeniorityTier = intern(row.SeniorityTier)
		row.RoleFamily = intern(row.RoleFamily)
		row.ExperienceBand = intern(row.ExperienceBand)
		row.PostingMonth = intern(row.PostingMonth)
		for j := range row.IndustryList {
			row.IndustryList[j] = intern(row.IndustryList[j])
		}
	}
	return len(pool)
}

// FormatMonth renders a year/month pair the way PostingMonth stores it.
func FormatMonth(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
