// Package http holds the chi HTTP handlers for the dashboard API.
package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "sgjobs/internal/errors"
	"sgjobs/internal/exporter"
	"sgjobs/internal/services"
	"sgjobs/pkg/contracts/domain"
)

// ListResponse is the JSON envelope for table endpoints.
type ListResponse struct {
	Data    any    `json:"data"`
	Count   int    `json:"count"`
	Message string `json:"message,omitempty"`
}

// TableQuery is the validated filter set accepted by table endpoints.
// Unknown filters are ignored; a filter that does not apply to the
// requested table is simply not used.
type TableQuery struct {
	Month          string `validate:"omitempty,len=7"`
	Industry       string `validate:"omitempty,max=200"`
	RoleFamily     string `validate:"omitempty,max=100"`
	SeniorityTier  string `validate:"omitempty,max=50"`
	ExperienceBand string `validate:"omitempty,max=50"`
	Company        string `validate:"omitempty,max=200"`
	Limit          int    `validate:"gte=0,lte=100000"`
	Offset         int    `validate:"gte=0"`
}

// GoldHandler serves the gold tables, KPIs and the pipeline summary.
type GoldHandler struct {
	service  *services.DataService
	exporter *exporter.GoldExporter
	logger   *slog.Logger
	validate *validator.Validate
}

// NewGoldHandler creates the gold table handler.
func NewGoldHandler(service *services.DataService, logger *slog.Logger) *GoldHandler {
	return &GoldHandler{
		service:  service,
		exporter: exporter.NewGoldExporter(logger),
		logger:   logger.With(slog.String("component", "gold_handler")),
		validate: validator.New(),
	}
}

// Routes returns the gold table routes.
func (h *GoldHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/tables", h.GetTables)
	r.Get("/tables/{table}", h.GetTable)
	r.Get("/tables/{table}/export", h.ExportTable)
	r.Get("/kpis", h.GetKPIs)

	return r
}

// GetTables lists every gold table and whether its artifact exists.
func (h *GoldHandler) GetTables(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"tables": h.service.TableNames(),
	})
}

// GetTable returns the rows of one gold table, filtered by query params.
func (h *GoldHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")

	query, apiErr := h.parseQuery(r)
	if apiErr != nil {
		apierrors.RenderError(w, r, apiErr)
		return
	}

	data, count, err := h.tableRows(r, table, query)
	if err != nil {
		h.renderServiceError(w, r, table, err)
		return
	}

	resp := ListResponse{Data: data, Count: count}
	if count == 0 {
		resp.Message = "no data for the requested filters"
	}
	render.JSON(w, r, resp)
}

// ExportTable streams one gold table as CSV.
func (h *GoldHandler) ExportTable(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")

	headers, records, err := h.tableCSV(r, table)
	if err != nil {
		h.renderServiceError(w, r, table, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, table))
	if err := h.exporter.WriteCSV(w, headers, records); err != nil {
		h.logger.ErrorContext(r.Context(), "csv export failed",
			slog.String("table", table),
			slog.String("error", err.Error()))
	}
}

// GetKPIs returns the dashboard headline numbers.
func (h *GoldHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.service.KPIs(r.Context())
	if err != nil {
		h.renderServiceError(w, r, "kpis", err)
		return
	}
	render.JSON(w, r, kpis)
}

// GetSummary returns the persisted pipeline summary.
func (h *GoldHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.renderServiceError(w, r, "summary", err)
		return
	}
	render.JSON(w, r, summary)
}

func (h *GoldHandler) parseQuery(r *http.Request) (TableQuery, *apierrors.APIError) {
	q := r.URL.Query()
	query := TableQuery{
		Month:          q.Get("month"),
		Industry:       q.Get("industry"),
		RoleFamily:     q.Get("role_family"),
		SeniorityTier:  q.Get("seniority_tier"),
		ExperienceBand: q.Get("experience_band"),
		Company:        q.Get("company"),
	}

	for name, dst := range map[string]*int{"limit": &query.Limit, "offset": &query.Offset} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return query, apierrors.ErrValidation(name, "must be an integer")
		}
		*dst = v
	}

	if err := h.validate.Struct(query); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return query, apierrors.ErrValidation(verrs[0].Field(), "invalid value")
		}
		return query, apierrors.ErrValidationFailed
	}
	return query, nil
}

func (h *GoldHandler) renderServiceError(w http.ResponseWriter, r *http.Request, what string, err error) {
	var unknown *unknownTableError
	if errors.As(err, &unknown) {
		apierrors.RenderError(w, r, apierrors.TableNotFoundError(unknown.table))
		return
	}
	var missing *services.ErrArtifactMissing
	if errors.As(err, &missing) {
		apierrors.RenderError(w, r, apierrors.ErrDataNotReady)
		return
	}
	h.logger.ErrorContext(r.Context(), "data service error",
		slog.String("what", what),
		slog.String("error", err.Error()))
	apierrors.RenderError(w, r, apierrors.ArtifactError(err))
}

// tableRows loads and filters the named table.
func (h *GoldHandler) tableRows(r *http.Request, table string, q TableQuery) (any, int, error) {
	ctx := r.Context()
	switch table {
	case domain.TableMonthlyPostings:
		rows, err := h.service.MonthlyPostings(ctx)
		if err != nil {
			return nil, 0, err
		}
		filtered := filterRows(rows, func(row domain.MonthlyPostingRow) bool {
			return matches(q.Month, row.PostingMonth) && matches(q.Industry, row.Industry)
		}, q)
		return filtered, len(filtered), nil
	case domain.TableSalaryByRole:
		rows, err := h.service.SalaryByRole(ctx)
		if err != nil {
			return nil, 0, err
		}
		filtered := filterRows(rows, func(row domain.SalaryByRoleRow) bool {
			return matches(q.RoleFamily, row.RoleFamily) &&
				matches(q.SeniorityTier, row.SeniorityTier) &&
				matches(q.Industry, row.Industry)
		}, q)
		return filtered, len(filtered), nil
	case domain.TableIndustryDemand:
		rows, err := h.service.IndustryDemand(ctx)
		if err != nil {
			return nil, 0, err
		}
		filtered := filterRows(rows, func(row domain.IndustryDemandRow) bool {
			return matches(q.Industry, row.Industry)
		}, q)
		return filtered, len(filtered), nil
	case domain.TableCompetition:
		rows, err := h.service.Competition(ctx)
		if err != nil {
			return nil, 0, err
		}
		filtered := filterRows(rows, func(row domain.CompetitionRow) bool {
			return matches(q.Industry, row.Industry) && matches(q.RoleFamily, row.RoleFamily)
		}, q)
		return filtered, len(filtered), nil
	case domain.TableTopCompanies:
		rows, err := h.service.TopCompanies(ctx)
		if err != nil {
			return nil, 0, err
		}
		filtered := filterRows(rows, func(row domain.TopCompanyRow) bool {
			return matches(q.Company, row.Company) && matches(q.Industry, row.PrimaryIndustry)
		}, q)
		return filtered, len(filtered), nil
	case domain.TableExperienceDemand:
		rows, err := h.service.ExperienceDemand(ctx)
		if err != nil {
			return nil, 0, err
		}
		filtered := filterRows(rows, func(row domain.ExperienceDemandRow) bool {
			return matches(q.Industry, row.Industry) &&
				matches(q.ExperienceBand, row.ExperienceBand) &&
				matches(q.SeniorityTier, row.SeniorityTier)
		}, q)
		return filtered, len(filtered), nil
	default:
		return nil, 0, errUnknownTable(table)
	}
}

// tableCSV loads the named table unfiltered and flattens it for export.
func (h *GoldHandler) tableCSV(r *http.Request, table string) ([]string, [][]string, error) {
	ctx := r.Context()
	switch table {
	case domain.TableMonthlyPostings:
		rows, err := h.service.MonthlyPostings(ctx)
		if err != nil {
			return nil, nil, err
		}
		headers, records := exporter.MonthlyPostingsCSV(rows)
		return headers, records, nil
	case domain.TableSalaryByRole:
		rows, err := h.service.SalaryByRole(ctx)
		if err != nil {
			return nil, nil, err
		}
		headers, records := exporter.SalaryByRoleCSV(rows)
		return headers, records, nil
	case domain.TableIndustryDemand:
		rows, err := h.service.IndustryDemand(ctx)
		if err != nil {
			return nil, nil, err
		}
		headers, records := exporter.IndustryDemandCSV(rows)
		return headers, records, nil
	case domain.TableCompetition:
		rows, err := h.service.Competition(ctx)
		if err != nil {
			return nil, nil, err
		}
		headers, records := exporter.CompetitionCSV(rows)
		return headers, records, nil
	case domain.TableTopCompanies:
		rows, err := h.service.TopCompanies(ctx)
		if err != nil {
			return nil, nil, err
		}
		headers, records := exporter.TopCompaniesCSV(rows)
		return headers, records, nil
	case domain.TableExperienceDemand:
		rows, err := h.service.ExperienceDemand(ctx)
		if err != nil {
			return nil, nil, err
		}
		headers, records := exporter.ExperienceDemandCSV(rows)
		return headers, records, nil
	default:
		return nil, nil, errUnknownTable(table)
	}
}

// unknownTableError marks a request for a table that does not exist.
type unknownTableError struct {
	table string
}

func (e *unknownTableError) Error() string {
	return fmt.Sprintf("unknown gold table %q", e.table)
}

func errUnknownTable(table string) error {
	return &unknownTableError{table: table}
}

// matches reports whether the filter accepts the value; empty filters
// accept everything.
func matches(filter, value string) bool {
	return filter == "" || filter == value
}

// filterRows applies the predicate then limit/offset pagination.
func filterRows[T any](rows []T, keep func(T) bool, q TableQuery) []T {
	filtered := make([]T, 0, len(rows))
	for _, row := range rows {
		if keep(row) {
			filtered = append(filtered, row)
		}
	}

	if q.Offset > 0 {
		if q.Offset >= len(filtered) {
			return []T{}
		}
		filtered = filtered[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(filtered) {
		filtered = filtered[:q.Limit]
	}
	return filtered
}
