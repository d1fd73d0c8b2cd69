// Package exporter renders gold tables as CSV for spreadsheet consumers.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"sgjobs/pkg/contracts/domain"
)

// GoldExporter writes gold tables as CSV, either to an io.Writer (HTTP
// export) or to a file.
type GoldExporter struct {
	logger *slog.Logger
}

// NewGoldExporter creates a gold table exporter.
func NewGoldExporter(logger *slog.Logger) *GoldExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &GoldExporter{logger: logger}
}

// WriteCSV writes headers and records to w, prefixed with a UTF-8 BOM so
// Excel recognizes the encoding.
func (e *GoldExporter) WriteCSV(w io.Writer, headers []string, records [][]string) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCSVFile writes headers and records to a file, creating the parent
// directory when needed.
func (e *GoldExporter) WriteCSVFile(path string, headers []string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	e.logger.Info("exporting gold table csv",
		slog.String("path", path),
		slog.Int("rows", len(records)))
	return e.WriteCSV(file, headers, records)
}

// MonthlyPostingsCSV flattens the monthly postings table.
func MonthlyPostingsCSV(rows []domain.MonthlyPostingRow) ([]string, [][]string) {
	headers := []string{"posting_month", "industry", "posting_count", "avg_salary",
		"total_vacancies", "pct_full_time", "pct_part_time", "pct_permanent",
		"pct_contract", "pct_other"}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.PostingMonth, r.Industry, formatInt(r.PostingCount),
			formatFloatPtr(r.AvgSalary), formatInt(r.TotalVacancies),
			formatFloat(r.PctFullTime), formatFloat(r.PctPartTime),
			formatFloat(r.PctPermanent), formatFloat(r.PctContract),
			formatFloat(r.PctOther),
		})
	}
	return headers, records
}

// SalaryByRoleCSV flattens the salary-by-role table.
func SalaryByRoleCSV(rows []domain.SalaryByRoleRow) ([]string, [][]string) {
	headers := []string{"role_family", "seniority_tier", "industry", "n",
		"salary_mean", "salary_p25", "salary_median", "salary_p75"}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.RoleFamily, r.SeniorityTier, r.Industry, formatInt(r.N),
			formatFloat(r.SalaryMean), formatFloat(r.SalaryP25),
			formatFloat(r.SalaryMedian), formatFloat(r.SalaryP75),
		})
	}
	return headers, records
}

// IndustryDemandCSV flattens the industry demand table.
func IndustryDemandCSV(rows []domain.IndustryDemandRow) ([]string, [][]string) {
	headers := []string{"industry", "posting_count", "total_vacancies",
		"avg_applications", "avg_views", "avg_salary", "repost_rate"}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Industry, formatInt(r.PostingCount), formatInt(r.TotalVacancies),
			formatFloatPtr(r.AvgApplications), formatFloatPtr(r.AvgViews),
			formatFloatPtr(r.AvgSalary), formatFloat(r.RepostRate),
		})
	}
	return headers, records
}

// CompetitionCSV flattens the competition table.
func CompetitionCSV(rows []domain.CompetitionRow) ([]string, [][]string) {
	headers := []string{"industry", "role_family", "posting_count",
		"avg_applications", "competition_ratio_median", "competition_ratio_p25",
		"competition_ratio_p75"}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Industry, r.RoleFamily, formatInt(r.PostingCount),
			formatFloatPtr(r.AvgApplications),
			formatFloat(r.CompetitionRatioMedian),
			formatFloat(r.CompetitionRatioP25),
			formatFloat(r.CompetitionRatioP75),
		})
	}
	return headers, records
}

// TopCompaniesCSV flattens the top companies table.
func TopCompaniesCSV(rows []domain.TopCompanyRow) ([]string, [][]string) {
	headers := []string{"company", "primary_industry", "posting_count",
		"avg_salary", "repost_rate", "avg_vacancies_per_post"}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Company, r.PrimaryIndustry, formatInt(r.PostingCount),
			formatFloatPtr(r.AvgSalary), formatFloat(r.RepostRate),
			formatFloatPtr(r.AvgVacanciesPerPost),
		})
	}
	return headers, records
}

// ExperienceDemandCSV flattens the experience demand table.
func ExperienceDemandCSV(rows []domain.ExperienceDemandRow) ([]string, [][]string) {
	headers := []string{"industry", "experience_band", "seniority_tier",
		"posting_count", "avg_salary"}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Industry, r.ExperienceBand, r.SeniorityTier,
			formatInt(r.PostingCount), formatFloatPtr(r.AvgSalary),
		})
	}
	return headers, records
}
