package dataprocessing

import (
	"log/slog"
	"sort"
	"strings"

	"sgjobs/internal/infrastructure"
	"sgjobs/pkg/contracts/domain"
)

// GoldTables holds the six aggregate tables built from the silver layer.
type GoldTables struct {
	MonthlyPostings  []domain.MonthlyPostingRow
	SalaryByRole     []domain.SalaryByRoleRow
	IndustryDemand   []domain.IndustryDemandRow
	Competition      []domain.CompetitionRow
	TopCompanies     []domain.TopCompanyRow
	ExperienceDemand []domain.ExperienceDemandRow
}

// RowCounts returns the table sizes keyed by table name.
func (g GoldTables) RowCounts() map[string]int {
	return map[string]int{
		domain.TableMonthlyPostings:  len(g.MonthlyPostings),
		domain.TableSalaryByRole:     len(g.SalaryByRole),
		domain.TableIndustryDemand:   len(g.IndustryDemand),
		domain.TableCompetition:      len(g.Competition),
		domain.TableTopCompanies:     len(g.TopCompanies),
		domain.TableExperienceDemand: len(g.ExperienceDemand),
	}
}

// BuildGold computes the six independent group-by reductions over the
// silver rows. Grains involving industry explode multi-tagged postings:
// each tagged industry counts the posting once, a documented double count.
// The company table is the exception, keying on the primary industry to
// keep per-company demand honest.
func BuildGold(silver []domain.EnrichedPosting, logger *slog.Logger) GoldTables {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("stage", "gold"))
	infrastructure.RowsProcessed.WithLabelValues("gold").Add(float64(len(silver)))

	tables := GoldTables{
		MonthlyPostings:  buildMonthlyPostings(silver),
		SalaryByRole:     buildSalaryByRole(silver),
		IndustryDemand:   buildIndustryDemand(silver),
		Competition:      buildCompetition(silver),
		TopCompanies:     buildTopCompanies(silver),
		ExperienceDemand: buildExperienceDemand(silver),
	}

	for name, n := range tables.RowCounts() {
		logger.Info("built gold table", slog.String("table", name), slog.Int("rows", n))
	}

	return tables
}

// meanAcc accumulates an optional-valued mean the way a dataframe mean
// skips nulls.
type meanAcc struct {
	sum float64
	n   int64
}

func (a *meanAcc) add(v *float64) {
	if v != nil {
		a.sum += *v
		a.n++
	}
}

func (a *meanAcc) addInt(v *int64) {
	if v != nil {
		a.sum += float64(*v)
		a.n++
	}
}

func (a *meanAcc) mean() *float64 {
	if a.n == 0 {
		return nil
	}
	return float64ptr(a.sum / float64(a.n))
}

// eachIndustry calls fn once per tagged industry of the row, implementing
// the explosion grain. Rows without industries contribute nothing.
func eachIndustry(row *domain.EnrichedPosting, fn func(industry string)) {
	for _, industry := range row.IndustryList {
		if industry != "" {
			fn(industry)
		}
	}
}

// Employment-type buckets for the monthly share columns.
const (
	empFullTime  = "full_time"
	empPartTime  = "part_time"
	empPermanent = "permanent"
	empContract  = "contract"
	empOther     = "other"
)

// employmentBucket folds the free-form employmentTypes value into one of
// the fixed share columns. The first matching bucket wins for combined
// values such as "Permanent, Full Time".
func employmentBucket(employmentTypes string) string {
	l := strings.ToLower(employmentTypes)
	switch {
	case strings.Contains(l, "full time") || strings.Contains(l, "full-time"):
		return empFullTime
	case strings.Contains(l, "part time") || strings.Contains(l, "part-time"):
		return empPartTime
	case strings.Contains(l, "contract"):
		return empContract
	case strings.Contains(l, "permanent"):
		return empPermanent
	default:
		return empOther
	}
}

func buildMonthlyPostings(silver []domain.EnrichedPosting) []domain.MonthlyPostingRow {
	type key struct{ month, industry string }
	type acc struct {
		count     int64
		salary    meanAcc
		vacancies int64
		emp       map[string]int64
	}

	groups := make(map[key]*acc)
	for i := range silver {
		row := &silver[i]
		if row.PostingMonth == "" {
			continue
		}
		eachIndustry(row, func(industry string) {
			k := key{month: row.PostingMonth, industry: industry}
			g, ok := groups[k]
			if !ok {
				g = &acc{emp: make(map[string]int64)}
				groups[k] = g
			}
			g.count++
			g.salary.add(row.AverageSalaryClean)
			if row.NumberOfVacancies != nil {
				g.vacancies += *row.NumberOfVacancies
			}
			g.emp[employmentBucket(row.EmploymentTypes)]++
		})
	}

	out := make([]domain.MonthlyPostingRow, 0, len(groups))
	for k, g := range groups {
		total := float64(g.count)
		out = append(out, domain.MonthlyPostingRow{
			PostingMonth:   k.month,
			Industry:       k.industry,
			PostingCount:   g.count,
			AvgSalary:      g.salary.mean(),
			TotalVacancies: g.vacancies,
			PctFullTime:    float64(g.emp[empFullTime]) / total,
			PctPartTime:    float64(g.emp[empPartTime]) / total,
			PctPermanent:   float64(g.emp[empPermanent]) / total,
			PctContract:    float64(g.emp[empContract]) / total,
			PctOther:       float64(g.emp[empOther]) / total,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PostingMonth != out[j].PostingMonth {
			return out[i].PostingMonth < out[j].PostingMonth
		}
		return out[i].Industry < out[j].Industry
	})
	return out
}

func buildSalaryByRole(silver []domain.EnrichedPosting) []domain.SalaryByRoleRow {
	type key struct{ role, tier, industry string }

	groups := make(map[key][]float64)
	for i := range silver {
		row := &silver[i]
		if row.AverageSalaryClean == nil {
			continue
		}
		k := key{role: row.RoleFamily, tier: row.SeniorityTier, industry: row.PrimaryIndustry}
		groups[k] = append(groups[k], *row.AverageSalaryClean)
	}

	out := make([]domain.SalaryByRoleRow, 0, len(groups))
	for k, salaries := range groups {
		out = append(out, domain.SalaryByRoleRow{
			RoleFamily:    k.role,
			SeniorityTier: k.tier,
			Industry:      k.industry,
			N:             int64(len(salaries)),
			SalaryMean:    Mean(salaries),
			SalaryP25:     Quantile(salaries, 0.25),
			SalaryMedian:  Median(salaries),
			SalaryP75:     Quantile(salaries, 0.75),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RoleFamily != out[j].RoleFamily {
			return out[i].RoleFamily < out[j].RoleFamily
		}
		if out[i].SeniorityTier != out[j].SeniorityTier {
			return out[i].SeniorityTier < out[j].SeniorityTier
		}
		return out[i].Industry < out[j].Industry
	})
	return out
}

func buildIndustryDemand(silver []domain.EnrichedPosting) []domain.IndustryDemandRow {
	type acc struct {
		count     int64
		vacancies int64
		apps      meanAcc
		views     meanAcc
		salary    meanAcc
		reposts   int64
	}

	groups := make(map[string]*acc)
	for i := range silver {
		row := &silver[i]
		eachIndustry(row, func(industry string) {
			g, ok := groups[industry]
			if !ok {
				g = &acc{}
				groups[industry] = g
			}
			g.count++
			if row.NumberOfVacancies != nil {
				g.vacancies += *row.NumberOfVacancies
			}
			g.apps.addInt(row.TotalApplications)
			g.views.addInt(row.TotalViews)
			g.salary.add(row.AverageSalaryClean)
			if row.IsReposted {
				g.reposts++
			}
		})
	}

	out := make([]domain.IndustryDemandRow, 0, len(groups))
	for industry, g := range groups {
		out = append(out, domain.IndustryDemandRow{
			Industry:        industry,
			PostingCount:    g.count,
			TotalVacancies:  g.vacancies,
			AvgApplications: g.apps.mean(),
			AvgViews:        g.views.mean(),
			AvgSalary:       g.salary.mean(),
			RepostRate:      float64(g.reposts) / float64(g.count),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Industry < out[j].Industry })
	return out
}

func buildCompetition(silver []domain.EnrichedPosting) []domain.CompetitionRow {
	type key struct{ industry, role string }
	type acc struct {
		count  int64
		apps   meanAcc
		ratios []float64
	}

	groups := make(map[key]*acc)
	for i := range silver {
		row := &silver[i]
		if row.CompetitionRatio == nil {
			// Zero-vacancy rows have no defined ratio and are excluded
			// from competition aggregates entirely.
			continue
		}
		eachIndustry(row, func(industry string) {
			k := key{industry: industry, role: row.RoleFamily}
			g, ok := groups[k]
			if !ok {
				g = &acc{}
				groups[k] = g
			}
			g.count++
			g.apps.addInt(row.TotalApplications)
			g.ratios = append(g.ratios, *row.CompetitionRatio)
		})
	}

	out := make([]domain.CompetitionRow, 0, len(groups))
	for k, g := range groups {
		out = append(out, domain.CompetitionRow{
			Industry:               k.industry,
			RoleFamily:             k.role,
			PostingCount:           g.count,
			AvgApplications:        g.apps.mean(),
			CompetitionRatioMedian: Median(g.ratios),
			CompetitionRatioP25:    Quantile(g.ratios, 0.25),
			CompetitionRatioP75:    Quantile(g.ratios, 0.75),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Industry != out[j].Industry {
			return out[i].Industry < out[j].Industry
		}
		return out[i].RoleFamily < out[j].RoleFamily
	})
	return out
}

func buildTopCompanies(silver []domain.EnrichedPosting) []domain.TopCompanyRow {
	type key struct{ company, industry string }
	type acc struct {
		count   int64
		salary  meanAcc
		reposts int64
		vac     meanAcc
	}

	groups := make(map[key]*acc)
	for i := range silver {
		row := &silver[i]
		if row.CompanyName == "" {
			continue
		}
		k := key{company: row.CompanyName, industry: row.PrimaryIndustry}
		g, ok := groups[k]
		if !ok {
			g = &acc{}
			groups[k] = g
		}
		g.count++
		g.salary.add(row.AverageSalaryClean)
		if row.IsReposted {
			g.reposts++
		}
		g.vac.addInt(row.NumberOfVacancies)
	}

	out := make([]domain.TopCompanyRow, 0, len(groups))
	for k, g := range groups {
		out = append(out, domain.TopCompanyRow{
			Company:             k.company,
			PrimaryIndustry:     k.industry,
			PostingCount:        g.count,
			AvgSalary:           g.salary.mean(),
			RepostRate:          float64(g.reposts) / float64(g.count),
			AvgVacanciesPerPost: g.vac.mean(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Company != out[j].Company {
			return out[i].Company < out[j].Company
		}
		return out[i].PrimaryIndustry < out[j].PrimaryIndustry
	})
	return out
}

func buildExperienceDemand(silver []domain.EnrichedPosting) []domain.ExperienceDemandRow {
	type key struct{ industry, band, tier string }
	type acc struct {
		count  int64
		salary meanAcc
	}

	groups := make(map[key]*acc)
	for i := range silver {
		row := &silver[i]
		eachIndustry(row, func(industry string) {
			k := key{industry: industry, band: row.ExperienceBand, tier: row.SeniorityTier}
			g, ok := groups[k]
			if !ok {
				g = &acc{}
				groups[k] = g
			}
			g.count++
			g.salary.add(row.AverageSalaryClean)
		})
	}

	out := make([]domain.ExperienceDemandRow, 0, len(groups))
	for k, g := range groups {
		out = append(out, domain.ExperienceDemandRow{
			Industry:       k.industry,
			ExperienceBand: k.band,
			SeniorityTier:  k.tier,
			PostingCount:   g.count,
			AvgSalary:      g.salary.mean(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Industry != out[j].Industry {
			return out[i].Industry < out[j].Industry
		}
		if out[i].ExperienceBand != out[j].ExperienceBand {
			return out[i].ExperienceBand < out[j].ExperienceBand
		}
		return out[i].SeniorityTier < out[j].SeniorityTier
	})
	return out
}
