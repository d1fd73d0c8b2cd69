package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sgjobs/pkg/contracts/domain"
)

// silverRow builds a minimal enriched posting for aggregation tests.
func silverRow(month string, industries []string, modify func(*domain.EnrichedPosting)) domain.EnrichedPosting {
	row := domain.EnrichedPosting{}
	row.PostingMonth = month
	row.IndustryList = industries
	row.PrimaryIndustry = PrimaryIndustry(industries)
	row.RoleFamily = "Developer"
	row.SeniorityTier = "Mid"
	row.ExperienceBand = "2-3 yrs"
	if modify != nil {
		modify(&row)
	}
	return row
}

func TestBuildMonthlyPostingsExplodesIndustries(t *testing.T) {
	silver := []domain.EnrichedPosting{
		silverRow("2023-01", []string{"IT", "Finance"}, func(r *domain.EnrichedPosting) {
			r.AverageSalaryClean = float64ptr(4000)
			r.NumberOfVacancies = int64ptr(2)
			r.EmploymentTypes = "Permanent, Full Time"
		}),
		silverRow("2023-01", []string{"IT"}, func(r *domain.EnrichedPosting) {
			r.AverageSalaryClean = float64ptr(6000)
			r.NumberOfVacancies = int64ptr(1)
			r.EmploymentTypes = "Contract"
		}),
		silverRow("2023-02", []string{"IT"}, nil),
		// No posting month: excluded from the monthly grain.
		silverRow("", []string{"IT"}, nil),
	}

	rows := buildMonthlyPostings(silver)
	require.Len(t, rows, 3)

	// Sorted by month then industry.
	assert.Equal(t, "2023-01", rows[0].PostingMonth)
	assert.Equal(t, "Finance", rows[0].Industry)
	assert.Equal(t, int64(1), rows[0].PostingCount)

	it := rows[1]
	assert.Equal(t, "IT", it.Industry)
	assert.Equal(t, int64(2), it.PostingCount)
	assert.Equal(t, int64(3), it.TotalVacancies)
	require.NotNil(t, it.AvgSalary)
	assert.InDelta(t, 5000.0, *it.AvgSalary, 1e-9)
	// "Permanent, Full Time" buckets as full time; shares sum to one.
	assert.InDelta(t, 0.5, it.PctFullTime, 1e-9)
	assert.InDelta(t, 0.5, it.PctContract, 1e-9)
	assert.InDelta(t, 0.0, it.PctPermanent, 1e-9)

	assert.Equal(t, "2023-02", rows[2].PostingMonth)
}

func TestEmploymentBucket(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Full Time", empFullTime},
		{"full-time", empFullTime},
		{"Permanent, Full Time", empFullTime},
		{"Part Time", empPartTime},
		{"Contract", empContract},
		{"Permanent", empPermanent},
		{"Freelance", empOther},
		{"", empOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, employmentBucket(tt.input), "input %q", tt.input)
	}
}

func TestBuildSalaryByRoleSkipsInvalidSalaries(t *testing.T) {
	silver := []domain.EnrichedPosting{
		silverRow("2023-01", []string{"IT"}, func(r *domain.EnrichedPosting) {
			r.AverageSalaryClean = float64ptr(4000)
		}),
		silverRow("2023-01", []string{"IT"}, func(r *domain.EnrichedPosting) {
			r.AverageSalaryClean = float64ptr(6000)
		}),
		// No clean salary: contributes to no group.
		silverRow("2023-01", []string{"IT"}, nil),
	}

	rows := buildSalaryByRole(silver)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "Developer", row.RoleFamily)
	assert.Equal(t, "Mid", row.SeniorityTier)
	assert.Equal(t, "IT", row.Industry)
	assert.Equal(t, int64(2), row.N)
	assert.InDelta(t, 5000.0, row.SalaryMean, 1e-9)
	assert.InDelta(t, 5000.0, row.SalaryMedian, 1e-9)
}

func TestBuildIndustryDemandMeansSkipNulls(t *testing.T) {
	silver := []domain.EnrichedPosting{
		silverRow("2023-01", []string{"IT"}, func(r *domain.EnrichedPosting) {
			r.TotalApplications = int64ptr(10)
			r.TotalViews = int64ptr(100)
			r.IsReposted = true
		}),
		silverRow("2023-01", []string{"IT"}, func(r *domain.EnrichedPosting) {
			// Null applications must not drag the mean toward zero.
			r.TotalViews = int64ptr(300)
		}),
	}

	rows := buildIndustryDemand(silver)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, int64(2), row.PostingCount)
	require.NotNil(t, row.AvgApplications)
	assert.InDelta(t, 10.0, *row.AvgApplications, 1e-9)
	require.NotNil(t, row.AvgViews)
	assert.InDelta(t, 200.0, *row.AvgViews, 1e-9)
	assert.Nil(t, row.AvgSalary)
	assert.InDelta(t, 0.5, row.RepostRate, 1e-9)
}

func TestBuildCompetitionExcludesUndefinedRatios(t *testing.T) {
	silver := []domain.EnrichedPosting{
		silverRow("2023-01", []string{"IT"}, func(r *domain.EnrichedPosting) {
			r.CompetitionRatio = float64ptr(10)
			r.TotalApplications = int64ptr(20)
		}),
		silverRow("2023-01", []string{"IT"}, func(r *domain.EnrichedPosting) {
			r.CompetitionRatio = float64ptr(20)
			r.TotalApplications = int64ptr(40)
		}),
		// Undefined ratio (zero vacancies upstream): excluded entirely.
		silverRow("2023-01", []string{"IT"}, func(r *domain.EnrichedPosting) {
			r.TotalApplications = int64ptr(1000)
		}),
	}

	rows := buildCompetition(silver)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, int64(2), row.PostingCount)
	assert.InDelta(t, 15.0, row.CompetitionRatioMedian, 1e-9)
	require.NotNil(t, row.AvgApplications)
	assert.InDelta(t, 30.0, *row.AvgApplications, 1e-9)
}

func TestBuildTopCompaniesUsesPrimaryIndustryOnly(t *testing.T) {
	silver := []domain.EnrichedPosting{
		silverRow("2023-01", []string{"IT", "Finance", "Insurance"}, func(r *domain.EnrichedPosting) {
			r.CompanyName = "Acme Pte Ltd"
			r.NumberOfVacancies = int64ptr(4)
		}),
		silverRow("2023-01", []string{"IT"}, func(r *domain.EnrichedPosting) {
			r.CompanyName = "Acme Pte Ltd"
			r.NumberOfVacancies = int64ptr(2)
			r.IsReposted = true
		}),
		// Empty company: dropped from the grain.
		silverRow("2023-01", []string{"IT"}, nil),
	}

	rows := buildTopCompanies(silver)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "Acme Pte Ltd", row.Company)
	// Multi-tagged posting counts once, under its primary industry.
	assert.Equal(t, "IT", row.PrimaryIndustry)
	assert.Equal(t, int64(2), row.PostingCount)
	assert.InDelta(t, 0.5, row.RepostRate, 1e-9)
	require.NotNil(t, row.AvgVacanciesPerPost)
	assert.InDelta(t, 3.0, *row.AvgVacanciesPerPost, 1e-9)
}

func TestBuildExperienceDemand(t *testing.T) {
	silver := []domain.EnrichedPosting{
		silverRow("2023-01", []string{"IT"}, func(r *domain.EnrichedPosting) {
			r.ExperienceBand = "0-1 yr"
			r.AverageSalaryClean = float64ptr(3000)
		}),
		silverRow("2023-01", []string{"IT"}, func(r *domain.EnrichedPosting) {
			r.ExperienceBand = "6-10 yrs"
			r.SeniorityTier = "Senior"
			r.AverageSalaryClean = float64ptr(8000)
		}),
	}

	rows := buildExperienceDemand(silver)
	require.Len(t, rows, 2)

	// Sorted by industry, band, tier.
	assert.Equal(t, "0-1 yr", rows[0].ExperienceBand)
	assert.Equal(t, "6-10 yrs", rows[1].ExperienceBand)
	require.NotNil(t, rows[1].AvgSalary)
	assert.InDelta(t, 8000.0, *rows[1].AvgSalary, 1e-9)
}

func TestBuildGoldRowCounts(t *testing.T) {
	silver := []domain.EnrichedPosting{
		silverRow("2023-01", []string{"IT"}, func(r *domain.EnrichedPosting) {
			r.AverageSalaryClean = float64ptr(4000)
			r.CompetitionRatio = float64ptr(5)
			r.CompanyName = "Acme Pte Ltd"
		}),
	}

	tables := BuildGold(silver, nil)
	counts := tables.RowCounts()

	assert.Len(t, counts, 6)
	for _, name := range domain.GoldTables {
		assert.Equal(t, 1, counts[name], "table %s", name)
	}
}
