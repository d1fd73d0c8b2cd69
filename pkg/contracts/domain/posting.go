package domain

import "time"

// RawColumns is the expected header of the raw input file. Loading fails
// when any of these columns is missing.
var RawColumns = []string{
	"metadata_jobPostId",
	"title",
	"categories",
	"positionLevels",
	"salary_minimum",
	"salary_maximum",
	"average_salary",
	"salary_type",
	"numberOfVacancies",
	"metadata_totalNumberJobApplication",
	"metadata_totalNumberOfView",
	"metadata_repostCount",
	"minimumYearsExperience",
	"metadata_newPostingDate",
	"metadata_originalPostingDate",
	"metadata_expiryDate",
	"employmentTypes",
	"postedCompany_name",
	"occupationId",
	"status_id",
	"status_jobStatus",
	"metadata_isPostedOnBehalf",
}

// RawPosting is one row of the raw input file, loaded with explicit column
// types but otherwise untouched. Date columns stay as strings until the
// bronze stage casts them.
type RawPosting struct {
	JobPostID           string
	Title               string
	Categories          string
	PositionLevels      string
	SalaryMinimum       *float64
	SalaryMaximum       *float64
	AverageSalary       *float64
	SalaryType          string
	NumberOfVacancies   *int64
	TotalApplications   *int64
	TotalViews          *int64
	RepostCount         *int64
	MinYearsExperience  *int64
	NewPostingDate      string
	OriginalPostingDate string
	ExpiryDate          string
	EmploymentTypes     string
	CompanyName         string
	OccupationID        string
	StatusID            string
	JobStatus           string
	IsPostedOnBehalf    string
}

// Posting is one bronze-layer record: synthetic and empty rows removed,
// degenerate columns dropped, dates parsed. 19 columns.
type Posting struct {
	JobPostID           string     `parquet:"metadata_jobPostId"`
	Title               string     `parquet:"title"`
	Categories          string     `parquet:"categories"`
	PositionLevels      string     `parquet:"positionLevels,dict"`
	SalaryMinimum       *float64   `parquet:"salary_minimum,optional"`
	SalaryMaximum       *float64   `parquet:"salary_maximum,optional"`
	AverageSalary       *float64   `parquet:"average_salary,optional"`
	NumberOfVacancies   *int64     `parquet:"numberOfVacancies,optional"`
	TotalApplications   *int64     `parquet:"metadata_totalNumberJobApplication,optional"`
	TotalViews          *int64     `parquet:"metadata_totalNumberOfView,optional"`
	RepostCount         *int64     `parquet:"metadata_repostCount,optional"`
	MinYearsExperience  *int64     `parquet:"minimumYearsExperience,optional"`
	NewPostingDate      *time.Time `parquet:"metadata_newPostingDate,optional"`
	OriginalPostingDate *time.Time `parquet:"metadata_originalPostingDate,optional"`
	ExpiryDate          *time.Time `parquet:"metadata_expiryDate,optional"`
	EmploymentTypes     string     `parquet:"employmentTypes,dict"`
	CompanyName         string     `parquet:"postedCompany_name,dict"`
	JobStatus           string     `parquet:"status_jobStatus,dict"`
	IsPostedOnBehalf    string     `parquet:"metadata_isPostedOnBehalf,dict"`
}

// EnrichedPosting is one silver-layer record: every bronze column plus the
// derived features. No rows are dropped between bronze and silver, so the
// row counts of the two layers always match. 38 columns.
type EnrichedPosting struct {
	JobPostID           string     `parquet:"metadata_jobPostId"`
	Title               string     `parquet:"title"`
	Categories          string     `parquet:"categories"`
	PositionLevels      string     `parquet:"positionLevels,dict"`
	SalaryMinimum       *float64   `parquet:"salary_minimum,optional"`
	SalaryMaximum       *float64   `parquet:"salary_maximum,optional"`
	AverageSalary       *float64   `parquet:"average_salary,optional"`
	NumberOfVacancies   *int64     `parquet:"numberOfVacancies,optional"`
	TotalApplications   *int64     `parquet:"metadata_totalNumberJobApplication,optional"`
	TotalViews          *int64     `parquet:"metadata_totalNumberOfView,optional"`
	RepostCount         *int64     `parquet:"metadata_repostCount,optional"`
	MinYearsExperience  *int64     `parquet:"minimumYearsExperience,optional"`
	NewPostingDate      *time.Time `parquet:"metadata_newPostingDate,optional"`
	OriginalPostingDate *time.Time `parquet:"metadata_originalPostingDate,optional"`
	ExpiryDate          *time.Time `parquet:"metadata_expiryDate,optional"`
	EmploymentTypes     string     `parquet:"employmentTypes,dict"`
	CompanyName         string     `parquet:"postedCompany_name,dict"`
	JobStatus           string     `parquet:"status_jobStatus,dict"`
	IsPostedOnBehalf    string     `parquet:"metadata_isPostedOnBehalf,dict"`

	// Industry features parsed from the categories JSON.
	IndustryList    []string `parquet:"industry_list,list"`
	PrimaryIndustry string   `parquet:"primary_industry,dict"`
	IndustryCount   int32    `parquet:"industry_count"`

	// Seniority tier mapped from positionLevels.
	SeniorityTier string `parquet:"seniority_tier,dict"`

	// Salary audit trail: raw values preserved, outliers flagged, clean
	// values winsorized. Only the clean columns feed gold aggregates.
	SalaryMinimumRaw   *float64 `parquet:"salary_minimum_raw,optional"`
	SalaryMaximumRaw   *float64 `parquet:"salary_maximum_raw,optional"`
	SalaryOutlierIQR   bool     `parquet:"salary_outlier_iqr"`
	SalaryMinimumClean *float64 `parquet:"salary_minimum_clean,optional"`
	SalaryMaximumClean *float64 `parquet:"salary_maximum_clean,optional"`
	AverageSalaryClean *float64 `parquet:"average_salary_clean,optional"`

	// Date features.
	PostingMonth        string `parquet:"posting_month,dict"`
	PostingDurationDays *int64 `parquet:"posting_duration_days,optional"`
	PostingYear         *int64 `parquet:"posting_year,optional"`
	PostingMonthNum     *int64 `parquet:"posting_month_num,optional"`

	// Role and experience features.
	RoleFamily     string `parquet:"role_family,dict"`
	ExperienceBand string `parquet:"experience_band,dict"`

	// CompetitionRatio is applications per vacancy. Nil means undefined
	// (zero or unknown vacancies), never a division error.
	CompetitionRatio *float64 `parquet:"competition_ratio,optional"`

	IsReposted        bool     `parquet:"is_reposted"`
	AnnualSalaryClean *float64 `parquet:"annual_salary_clean,optional"`
}

// Enrich copies the bronze columns of p into a new silver record.
func Enrich(p Posting) EnrichedPosting {
	return EnrichedPosting{
		JobPostID:           p.JobPostID,
		Title:               p.Title,
		Categories:          p.Categories,
		PositionLevels:      p.PositionLevels,
		SalaryMinimum:       p.SalaryMinimum,
		SalaryMaximum:       p.SalaryMaximum,
		AverageSalary:       p.AverageSalary,
		NumberOfVacancies:   p.NumberOfVacancies,
		TotalApplications:   p.TotalApplications,
		TotalViews:          p.TotalViews,
		RepostCount:         p.RepostCount,
		MinYearsExperience:  p.MinYearsExperience,
		NewPostingDate:      p.NewPostingDate,
		OriginalPostingDate: p.OriginalPostingDate,
		ExpiryDate:          p.ExpiryDate,
		EmploymentTypes:     p.EmploymentTypes,
		CompanyName:         p.CompanyName,
		JobStatus:           p.JobStatus,
		IsPostedOnBehalf:    p.IsPostedOnBehalf,
	}
}
