// Package services holds the application services behind the HTTP
// handlers: memoized access to the gold artifacts, dashboard KPIs and the
// pipeline summary.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"sgjobs/internal/config"
	"sgjobs/internal/dataprocessing"
	"sgjobs/internal/store"
	"sgjobs/pkg/contracts/domain"
)

// ErrArtifactMissing reports a requested artifact the pipeline has not
// produced yet.
type ErrArtifactMissing struct {
	Path string
}

func (e *ErrArtifactMissing) Error() string {
	return fmt.Sprintf("artifact not available at %s; run the pipeline first", e.Path)
}

// DataService serves the gold tables and silver-derived KPIs. Artifact
// loads are memoized; Invalidate drops the cache after a pipeline re-run.
type DataService struct {
	cfg    *config.Config
	logger *slog.Logger

	mu       sync.RWMutex
	tables   map[string]any
	loadedAt map[string]time.Time
}

// NewDataService creates a data service.
func NewDataService(cfg *config.Config, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("data service initialized",
		slog.String("data_dir", cfg.Paths.DataDir),
		slog.String("gold_dir", cfg.Paths.GoldDir))
	return &DataService{
		cfg:      cfg,
		logger:   logger,
		tables:   make(map[string]any),
		loadedAt: make(map[string]time.Time),
	}
}

// Invalidate drops every cached table so the next read reloads from disk.
func (ds *DataService) Invalidate() {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.tables = make(map[string]any)
	ds.loadedAt = make(map[string]time.Time)
	ds.logger.Info("data service cache invalidated")
}

// LoadedAt returns when the named table was cached, zero if not cached.
func (ds *DataService) LoadedAt(table string) time.Time {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.loadedAt[table]
}

// loadTable returns the cached rows for a table, reading the artifact on
// first access.
func loadTable[T any](ds *DataService, table, path string) ([]T, error) {
	ds.mu.RLock()
	cached, ok := ds.tables[table]
	ds.mu.RUnlock()
	if ok {
		return cached.([]T), nil
	}

	if !store.Exists(path) {
		return nil, &ErrArtifactMissing{Path: path}
	}

	rows, err := store.ReadTable[T](path, ds.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load table %s: %w", table, err)
	}

	ds.mu.Lock()
	ds.tables[table] = rows
	ds.loadedAt[table] = time.Now()
	ds.mu.Unlock()
	return rows, nil
}

// MonthlyPostings returns the monthly postings table.
func (ds *DataService) MonthlyPostings(ctx context.Context) ([]domain.MonthlyPostingRow, error) {
	return loadTable[domain.MonthlyPostingRow](ds, domain.TableMonthlyPostings, ds.cfg.Paths.Gold(domain.TableMonthlyPostings))
}

// SalaryByRole returns the salary-by-role table.
func (ds *DataService) SalaryByRole(ctx context.Context) ([]domain.SalaryByRoleRow, error) {
	return loadTable[domain.SalaryByRoleRow](ds, domain.TableSalaryByRole, ds.cfg.Paths.Gold(domain.TableSalaryByRole))
}

// IndustryDemand returns the industry demand table.
func (ds *DataService) IndustryDemand(ctx context.Context) ([]domain.IndustryDemandRow, error) {
	return loadTable[domain.IndustryDemandRow](ds, domain.TableIndustryDemand, ds.cfg.Paths.Gold(domain.TableIndustryDemand))
}

// Competition returns the competition table.
func (ds *DataService) Competition(ctx context.Context) ([]domain.CompetitionRow, error) {
	return loadTable[domain.CompetitionRow](ds, domain.TableCompetition, ds.cfg.Paths.Gold(domain.TableCompetition))
}

// TopCompanies returns the top companies table.
func (ds *DataService) TopCompanies(ctx context.Context) ([]domain.TopCompanyRow, error) {
	return loadTable[domain.TopCompanyRow](ds, domain.TableTopCompanies, ds.cfg.Paths.Gold(domain.TableTopCompanies))
}

// ExperienceDemand returns the experience demand table.
func (ds *DataService) ExperienceDemand(ctx context.Context) ([]domain.ExperienceDemandRow, error) {
	return loadTable[domain.ExperienceDemandRow](ds, domain.TableExperienceDemand, ds.cfg.Paths.Gold(domain.TableExperienceDemand))
}

// KPIs are the dashboard headline numbers, computed from the silver layer
// so multi-industry postings count once.
type KPIs struct {
	TotalPostings  int      `json:"total_postings"`
	TotalVacancies int64    `json:"total_vacancies"`
	IndustryCount  int      `json:"industry_count"`
	MedianSalary   *float64 `json:"median_salary,omitempty"`
	RepostedPct    float64  `json:"reposted_pct"`
}

const silverCacheKey = "silver"

// KPIs computes the headline numbers over the silver artifact.
func (ds *DataService) KPIs(ctx context.Context) (KPIs, error) {
	rows, err := loadTable[domain.EnrichedPosting](ds, silverCacheKey, ds.cfg.Paths.Silver())
	if err != nil {
		return KPIs{}, err
	}

	kpis := KPIs{TotalPostings: len(rows)}
	industries := make(map[string]struct{})
	var salaries []float64
	var reposted int
	for i := range rows {
		row := &rows[i]
		if row.NumberOfVacancies != nil {
			kpis.TotalVacancies += *row.NumberOfVacancies
		}
		for _, industry := range row.IndustryList {
			industries[industry] = struct{}{}
		}
		if row.AverageSalaryClean != nil {
			salaries = append(salaries, *row.AverageSalaryClean)
		}
		if row.IsReposted {
			reposted++
		}
	}
	kpis.IndustryCount = len(industries)
	if len(rows) > 0 {
		kpis.RepostedPct = float64(reposted) / float64(len(rows))
	}
	if len(salaries) > 0 {
		m := dataprocessing.Median(salaries)
		kpis.MedianSalary = &m
	}
	return kpis, nil
}

// Summary reads the persisted pipeline summary.
func (ds *DataService) Summary(ctx context.Context) (domain.LayerSummary, error) {
	path := ds.cfg.Paths.Summary()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.LayerSummary{}, &ErrArtifactMissing{Path: path}
		}
		return domain.LayerSummary{}, fmt.Errorf("failed to read summary: %w", err)
	}
	var summary domain.LayerSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return domain.LayerSummary{}, fmt.Errorf("failed to parse summary: %w", err)
	}
	return summary, nil
}

// TableNames returns every gold table name with its availability on disk.
func (ds *DataService) TableNames() map[string]bool {
	available := make(map[string]bool, len(domain.GoldTables))
	for _, name := range domain.GoldTables {
		available[name] = store.Exists(ds.cfg.Paths.Gold(name))
	}
	return available
}
