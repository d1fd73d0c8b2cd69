package config

import "fmt"

// SeniorityUnknown is the fallback tier for position levels outside the
// known domain. Unmapped values are surfaced as a data-quality count, never
// silently dropped.
const SeniorityUnknown = "Unknown"

// RoleOther is the fallback role family when no keyword matches a title.
// Roughly a third of real titles land here; that share is accepted behavior
// and tightening the keyword table would shift every reported metric.
const RoleOther = "Other"

// ExperienceUnknown is the band for rows without a minimum experience value.
const ExperienceUnknown = "Unknown"

// RoleRule binds a role family to its keyword list. Rules are evaluated in
// slice order, most specific family first; the first keyword hit wins.
type RoleRule struct {
	Family   string   `yaml:"family"`
	Keywords []string `yaml:"keywords"`
}

// ExperienceBand is one contiguous bucket of minimum-years-experience.
type ExperienceBand struct {
	Min   int64  `yaml:"min"`
	Max   int64  `yaml:"max"`
	Label string `yaml:"label"`
}

// PipelineConfig is the flat parameter surface of the ETL transforms.
// Every threshold the bronze and silver stages apply lives here so a run
// can be reproduced from config alone.
type PipelineConfig struct {
	// Bronze synthetic-row filter. A row is removed only when its post ID
	// carries the synthetic prefix AND one of its salary readings exceeds
	// the sanity threshold; a prefix match alone is not enough.
	SyntheticPrefix          string  `yaml:"synthetic_prefix" envconfig:"SYNTHETIC_PREFIX" default:"RANDOM_JOB_"`
	SyntheticSalaryThreshold float64 `yaml:"synthetic_salary_threshold" envconfig:"SYNTHETIC_SALARY_THRESHOLD" default:"100000"`

	// Hard salary bounds, monthly SGD. Readings outside the range are
	// nulled in stage one of the salary cleaner.
	SalaryFloor   float64 `yaml:"salary_floor" envconfig:"SALARY_FLOOR" default:"500"`
	SalaryCeiling float64 `yaml:"salary_ceiling" envconfig:"SALARY_CEILING" default:"50000"`

	// Winsorization percentiles and IQR outlier fence multiplier.
	WinsorLower   float64 `yaml:"winsor_lower" envconfig:"WINSOR_LOWER" default:"0.01"`
	WinsorUpper   float64 `yaml:"winsor_upper" envconfig:"WINSOR_UPPER" default:"0.99"`
	IQRMultiplier float64 `yaml:"iqr_multiplier" envconfig:"IQR_MULTIPLIER" default:"1.5"`

	// Experience values above the cap are treated as data-entry noise and
	// clamped before banding.
	MaxExperienceYears int64 `yaml:"max_experience_years" envconfig:"MAX_EXPERIENCE_YEARS" default:"30"`

	// Data quality thresholds for pipeline summary warnings.
	MinExpectedRows          int     `yaml:"min_expected_rows" envconfig:"MIN_EXPECTED_ROWS" default:"1000000"`
	MaxBronzeToSilverLossPct float64 `yaml:"max_bronze_to_silver_loss_pct" envconfig:"MAX_LOSS_PCT" default:"0.10"`

	// StrictMode turns data-quality warnings into hard failures.
	StrictMode bool `yaml:"strict_mode" envconfig:"STRICT_MODE" default:"false"`

	// Structured transform tables, settable only via config file or code.
	SeniorityMap    map[string]string `yaml:"seniority_map" ignored:"true"`
	RoleKeywords    []RoleRule        `yaml:"role_keywords" ignored:"true"`
	ExperienceBands []ExperienceBand  `yaml:"experience_bands" ignored:"true"`
}

// ApplyDefaults fills the structured tables when they were not overridden.
func (p *PipelineConfig) ApplyDefaults() {
	if len(p.SeniorityMap) == 0 {
		p.SeniorityMap = DefaultSeniorityMap()
	}
	if len(p.RoleKeywords) == 0 {
		p.RoleKeywords = DefaultRoleKeywords()
	}
	if len(p.ExperienceBands) == 0 {
		p.ExperienceBands = DefaultExperienceBands()
	}
}

// Validate checks that the transform parameters are internally consistent.
func (p *PipelineConfig) Validate() error {
	if p.SalaryFloor >= p.SalaryCeiling {
		return fmt.Errorf("salary floor %.0f must be below ceiling %.0f", p.SalaryFloor, p.SalaryCeiling)
	}
	if p.WinsorLower < 0 || p.WinsorUpper > 1 || p.WinsorLower >= p.WinsorUpper {
		return fmt.Errorf("invalid winsor percentiles [%.2f, %.2f]", p.WinsorLower, p.WinsorUpper)
	}
	if p.IQRMultiplier <= 0 {
		return fmt.Errorf("IQR multiplier must be positive")
	}
	if p.MaxExperienceYears <= 0 {
		return fmt.Errorf("experience cap must be positive")
	}
	for i, band := range p.ExperienceBands {
		if band.Min > band.Max {
			return fmt.Errorf("experience band %d (%s): min %d above max %d", i, band.Label, band.Min, band.Max)
		}
	}
	return nil
}

// DefaultSeniorityMap maps the nine raw position levels onto four tiers.
func DefaultSeniorityMap() map[string]string {
	return map[string]string{
		"Fresh/entry level": "Entry",
		"Non-executive":     "Entry",
		"Junior Executive":  "Mid",
		"Executive":         "Mid",
		"Professional":      "Senior",
		"Senior Executive":  "Senior",
		"Manager":           "Management",
		"Middle Management": "Management",
		"Senior Management": "Management",
	}
}

// SeniorityTiers lists the four tiers a mapped position level can land in.
func SeniorityTiers() []string {
	return []string{"Entry", "Mid", "Senior", "Management"}
}

// DefaultRoleKeywords returns the role classification table, ordered by
// specificity. The order is load-bearing: "Senior Registered Nurse" must
// classify as Healthcare even though "Manager" keywords appear later.
func DefaultRoleKeywords() []RoleRule {
	return []RoleRule{
		{Family: "Healthcare", Keywords: []string{"nurse", "doctor", "medical", "clinical", "healthcare", "pharmacy", "therapist"}},
		{Family: "Education", Keywords: []string{"teacher", "educator", "trainer", "lecturer", "tutor", "instructor"}},

		{Family: "Developer", Keywords: []string{"developer", "programmer", "software", "frontend", "backend", "fullstack", "full stack", "full-stack"}},
		{Family: "Engineer", Keywords: []string{"engineer", "engineering", "technician", "mechanic", "maintenance"}},
		{Family: "Analyst", Keywords: []string{"analyst", "analytics", "data scientist", "insight", "research"}},
		{Family: "IT/Systems", Keywords: []string{"it support", "infrastructure", "network", "system admin", "cloud", "devops", "cybersecurity", "security analyst"}},

		{Family: "Finance", Keywords: []string{"finance", "accounting", "accountant", "audit", "tax", "treasury"}},
		{Family: "HR", Keywords: []string{"hr ", "human resource", "talent acquisition", "recruitment", "recruiter", "people"}},
		{Family: "Marketing", Keywords: []string{"marketing", "brand", "content", "social media", "digital marketing", "seo", "sem"}},
		{Family: "Sales", Keywords: []string{"sales", "business development", "account manager", "account executive", "relationship manager"}},

		{Family: "Manager", Keywords: []string{"manager", "head of", "director", "vp ", "vice president", "chief", "lead"}},
		{Family: "Consultant", Keywords: []string{"consultant", "advisor", "advisory"}},

		{Family: "Operations", Keywords: []string{"operations", "logistics", "supply chain", "procurement", "warehouse", "inventory"}},
		{Family: "Admin", Keywords: []string{"admin", "secretary", "coordinator", "clerk", "receptionist", "assistant"}},
		{Family: "Retail/F&B", Keywords: []string{"cashier", "barista", "chef", "cook", "server", "waiter", "retail", "outlet", "店员"}},
		{Family: "Driver", Keywords: []string{"driver", "delivery", "dispatch", "courier", "rider"}},
	}
}

// DefaultExperienceBands returns five contiguous buckets covering the
// capped experience range.
func DefaultExperienceBands() []ExperienceBand {
	return []ExperienceBand{
		{Min: 0, Max: 1, Label: "0-1 yr"},
		{Min: 2, Max: 3, Label: "2-3 yrs"},
		{Min: 4, Max: 5, Label: "4-5 yrs"},
		{Min: 6, Max: 10, Label: "6-10 yrs"},
		{Min: 11, Max: 999, Label: "10+ yrs"},
	}
}

// DefaultPipeline returns the full default transform configuration.
func DefaultPipeline() PipelineConfig {
	p := PipelineConfig{
		SyntheticPrefix:          "RANDOM_JOB_",
		SyntheticSalaryThreshold: 100000,
		SalaryFloor:              500,
		SalaryCeiling:            50000,
		WinsorLower:              0.01,
		WinsorUpper:              0.99,
		IQRMultiplier:            1.5,
		MaxExperienceYears:       30,
		MinExpectedRows:          1000000,
		MaxBronzeToSilverLossPct: 0.10,
	}
	p.ApplyDefaults()
	return p
}
