package domain

// Gold table names. Each table is persisted independently under the gold
// directory as <name>.parquet.
const (
	TableMonthlyPostings  = "agg_monthly_postings"
	TableSalaryByRole     = "agg_salary_by_role"
	TableIndustryDemand   = "agg_industry_demand"
	TableCompetition      = "agg_competition"
	TableTopCompanies     = "agg_top_companies"
	TableExperienceDemand = "agg_experience_demand"
)

// GoldTables lists every gold table in build order.
var GoldTables = []string{
	TableMonthlyPostings,
	TableSalaryByRole,
	TableIndustryDemand,
	TableCompetition,
	TableTopCompanies,
	TableExperienceDemand,
}

// MonthlyPostingRow is one row of agg_monthly_postings.
// Grain: posting_month × industry (industry-exploded, so a posting tagged
// with three industries contributes to three rows).
type MonthlyPostingRow struct {
	PostingMonth   string   `parquet:"posting_month,dict" json:"posting_month"`
	Industry       string   `parquet:"industry,dict" json:"industry"`
	PostingCount   int64    `parquet:"posting_count" json:"posting_count"`
	AvgSalary      *float64 `parquet:"avg_salary,optional" json:"avg_salary"`
	TotalVacancies int64    `parquet:"total_vacancies" json:"total_vacancies"`
	PctFullTime    float64  `parquet:"pct_full_time" json:"pct_full_time"`
	PctPartTime    float64  `parquet:"pct_part_time" json:"pct_part_time"`
	PctPermanent   float64  `parquet:"pct_permanent" json:"pct_permanent"`
	PctContract    float64  `parquet:"pct_contract" json:"pct_contract"`
	PctOther       float64  `parquet:"pct_other" json:"pct_other"`
}

// SalaryByRoleRow is one row of agg_salary_by_role.
// Grain: role_family × seniority_tier × primary_industry, over rows with a
// valid clean salary only. Median is preferred over mean downstream because
// the salary distribution is right-skewed.
type SalaryByRoleRow struct {
	RoleFamily    string  `parquet:"role_family,dict" json:"role_family"`
	SeniorityTier string  `parquet:"seniority_tier,dict" json:"seniority_tier"`
	Industry      string  `parquet:"industry,dict" json:"industry"`
	N             int64   `parquet:"n" json:"n"`
	SalaryMean    float64 `parquet:"salary_mean" json:"salary_mean"`
	SalaryP25     float64 `parquet:"salary_p25" json:"salary_p25"`
	SalaryMedian  float64 `parquet:"salary_median" json:"salary_median"`
	SalaryP75     float64 `parquet:"salary_p75" json:"salary_p75"`
}

// IndustryDemandRow is one row of agg_industry_demand.
// Grain: industry (industry-exploded).
type IndustryDemandRow struct {
	Industry        string   `parquet:"industry,dict" json:"industry"`
	PostingCount    int64    `parquet:"posting_count" json:"posting_count"`
	TotalVacancies  int64    `parquet:"total_vacancies" json:"total_vacancies"`
	AvgApplications *float64 `parquet:"avg_applications,optional" json:"avg_applications"`
	AvgViews        *float64 `parquet:"avg_views,optional" json:"avg_views"`
	AvgSalary       *float64 `parquet:"avg_salary,optional" json:"avg_salary"`
	RepostRate      float64  `parquet:"repost_rate" json:"repost_rate"`
}

// CompetitionRow is one row of agg_competition.
// Grain: industry (industry-exploded) × role_family, over rows with a
// defined competition ratio only.
type CompetitionRow struct {
	Industry               string   `parquet:"industry,dict" json:"industry"`
	RoleFamily             string   `parquet:"role_family,dict" json:"role_family"`
	PostingCount           int64    `parquet:"posting_count" json:"posting_count"`
	AvgApplications        *float64 `parquet:"avg_applications,optional" json:"avg_applications"`
	CompetitionRatioMedian float64  `parquet:"competition_ratio_median" json:"competition_ratio_median"`
	CompetitionRatioP25    float64  `parquet:"competition_ratio_p25" json:"competition_ratio_p25"`
	CompetitionRatioP75    float64  `parquet:"competition_ratio_p75" json:"competition_ratio_p75"`
}

// TopCompanyRow is one row of agg_top_companies.
// Grain: company × primary_industry. This table deliberately uses the
// primary industry instead of exploding, so per-company demand is not
// inflated by multi-tagged postings.
type TopCompanyRow struct {
	Company             string   `parquet:"company,dict" json:"company"`
	PrimaryIndustry     string   `parquet:"primary_industry,dict" json:"primary_industry"`
	PostingCount        int64    `parquet:"posting_count" json:"posting_count"`
	AvgSalary           *float64 `parquet:"avg_salary,optional" json:"avg_salary"`
	RepostRate          float64  `parquet:"repost_rate" json:"repost_rate"`
	AvgVacanciesPerPost *float64 `parquet:"avg_vacancies_per_post,optional" json:"avg_vacancies_per_post"`
}

// ExperienceDemandRow is one row of agg_experience_demand.
// Grain: industry (industry-exploded) × experience_band × seniority_tier.
type ExperienceDemandRow struct {
	Industry       string   `parquet:"industry,dict" json:"industry"`
	ExperienceBand string   `parquet:"experience_band,dict" json:"experience_band"`
	SeniorityTier  string   `parquet:"seniority_tier,dict" json:"seniority_tier"`
	PostingCount   int64    `parquet:"posting_count" json:"posting_count"`
	AvgSalary      *float64 `parquet:"avg_salary,optional" json:"avg_salary"`
}

// LayerSummary reports row counts per layer with data quality warnings,
// produced after a pipeline run.
type LayerSummary struct {
	BronzeRows int            `json:"bronze_rows"`
	SilverRows int            `json:"silver_rows"`
	GoldRows   map[string]int `json:"gold_rows"`
	LossPct    float64        `json:"bronze_to_silver_loss_pct"`
	Warnings   []string       `json:"warnings,omitempty"`
}
