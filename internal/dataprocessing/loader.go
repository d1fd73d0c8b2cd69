package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"sgjobs/pkg/contracts/domain"
)

// LoadRaw reads the raw job posting file into memory with explicit column
// types. CSV and XLSX inputs are supported; the format is chosen by file
// extension. A missing file or a missing required column is fatal: no
// partial result is returned.
func LoadRaw(path string, logger *slog.Logger) ([]domain.RawPosting, error) {
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("raw data not found at %s: %w", path, err)
	}

	var header []string
	var rows []domain.RawPosting

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		header, rows, err = loadXLSX(path)
	default:
		header, rows, err = loadCSV(path)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("loaded raw file",
		slog.String("path", path),
		slog.Int("rows", len(rows)),
		slog.Int("columns", len(header)),
		slog.Int64("size_bytes", info.Size()))

	return rows, nil
}

// loadCSV streams a CSV file through encoding/csv.
func loadCSV(path string) ([]string, []domain.RawPosting, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open raw file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read raw header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	index, err := columnIndex(header)
	if err != nil {
		return nil, nil, err
	}

	var rows []domain.RawPosting
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read raw row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, parseRawRow(record, index))
	}

	return header, rows, nil
}

// loadXLSX reads the first sheet of an Excel workbook.
func loadXLSX(path string) ([]string, []domain.RawPosting, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open raw file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("raw workbook has no sheets")
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(cells) == 0 {
		return nil, nil, fmt.Errorf("raw workbook sheet %s is empty", sheets[0])
	}

	header := cells[0]
	index, err := columnIndex(header)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]domain.RawPosting, 0, len(cells)-1)
	for _, record := range cells[1:] {
		rows = append(rows, parseRawRow(record, index))
	}

	return header, rows, nil
}

// columnIndex maps the expected raw columns to their positions, failing
// when any required column is absent from the header.
func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range domain.RawColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("raw file is missing required columns: %s", strings.Join(missing, ", "))
	}

	return index, nil
}

// parseRawRow converts one record into a typed RawPosting. Unparseable
// numeric cells are coerced to null rather than failing the row.
func parseRawRow(record []string, index map[string]int) domain.RawPosting {
	cell := func(col string) string {
		i := index[col]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	return domain.RawPosting{
		JobPostID:           cell("metadata_jobPostId"),
		Title:               cell("title"),
		Categories:          cell("categories"),
		PositionLevels:      cell("positionLevels"),
		SalaryMinimum:       parseFloat(cell("salary_minimum")),
		SalaryMaximum:       parseFloat(cell("salary_maximum")),
		AverageSalary:       parseFloat(cell("average_salary")),
		SalaryType:          cell("salary_type"),
		NumberOfVacancies:   parseInt(cell("numberOfVacancies")),
		TotalApplications:   parseInt(cell("metadata_totalNumberJobApplication")),
		TotalViews:          parseInt(cell("metadata_totalNumberOfView")),
		RepostCount:         parseInt(cell("metadata_repostCount")),
		MinYearsExperience:  parseInt(cell("minimumYearsExperience")),
		NewPostingDate:      cell("metadata_newPostingDate"),
		OriginalPostingDate: cell("metadata_originalPostingDate"),
		ExpiryDate:          cell("metadata_expiryDate"),
		EmploymentTypes:     cell("employmentTypes"),
		CompanyName:         cell("postedCompany_name"),
		OccupationID:        cell("occupationId"),
		StatusID:            cell("status_id"),
		JobStatus:           cell("status_jobStatus"),
		IsPostedOnBehalf:    cell("metadata_isPostedOnBehalf"),
	}
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseInt(s string) *int64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Integer columns sometimes arrive as "3.0" from upstream exports.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return nil
		}
		i := int64(f)
		return &i
	}
	return &v
}
