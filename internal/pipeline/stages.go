package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"sgjobs/internal/config"
	"sgjobs/internal/dataprocessing"
	"sgjobs/internal/store"
	"sgjobs/pkg/contracts/domain"
)

// BronzeStage loads the raw file and writes the bronze artifact.
type BronzeStage struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewBronzeStage creates the bronze stage.
func NewBronzeStage(cfg *config.Config, logger *slog.Logger) *BronzeStage {
	return &BronzeStage{cfg: cfg, logger: logger}
}

func (s *BronzeStage) ID() string   { return StageIDBronze }
func (s *BronzeStage) Name() string { return "Bronze Ingestion" }

// Validate requires the raw input file to exist before the stage starts.
func (s *BronzeStage) Validate(state *RunState) error {
	if !store.Exists(s.cfg.Paths.Raw()) {
		return NewValidationError(s.ID(),
			fmt.Sprintf("raw input file not found at %s", s.cfg.Paths.Raw()))
	}
	return nil
}

func (s *BronzeStage) Execute(ctx context.Context, state *RunState) error {
	raws, err := dataprocessing.LoadRaw(s.cfg.Paths.Raw(), s.logger)
	if err != nil {
		return NewExecutionError(s.ID(), err)
	}
	if err := ctx.Err(); err != nil {
		return NewCancellationError(s.ID())
	}

	result, err := dataprocessing.RunBronze(raws, s.cfg.Pipeline, s.logger)
	if err != nil {
		return NewExecutionError(s.ID(), err)
	}

	if err := store.WriteTable(s.cfg.Paths.Bronze(), result.Rows, s.logger); err != nil {
		return NewExecutionError(s.ID(), err)
	}

	state.SetBronzeRows(result.Rows)
	if st := state.StageState(s.ID()); st != nil {
		st.SetCount("raw_rows", len(raws))
		st.SetCount("bronze_rows", len(result.Rows))
		st.SetCount("synthetic_removed", result.SyntheticRemoved)
		st.SetCount("null_title_removed", result.NullTitleRemoved)
	}
	return nil
}

// SilverStage enriches bronze rows and writes the silver artifact.
type SilverStage struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewSilverStage creates the silver stage.
func NewSilverStage(cfg *config.Config, logger *slog.Logger) *SilverStage {
	return &SilverStage{cfg: cfg, logger: logger}
}

func (s *SilverStage) ID() string   { return StageIDSilver }
func (s *SilverStage) Name() string { return "Silver Enrichment" }

// Validate requires bronze rows, either in memory or persisted.
func (s *SilverStage) Validate(state *RunState) error {
	if state.BronzeRows() != nil {
		return nil
	}
	if !store.Exists(s.cfg.Paths.Bronze()) {
		return NewValidationError(s.ID(),
			fmt.Sprintf("bronze artifact not found at %s; run the bronze stage first", s.cfg.Paths.Bronze()))
	}
	return nil
}

func (s *SilverStage) Execute(ctx context.Context, state *RunState) error {
	bronze := state.BronzeRows()
	if bronze == nil {
		var err error
		bronze, err = store.ReadTable[domain.Posting](s.cfg.Paths.Bronze(), s.logger)
		if err != nil {
			return NewExecutionError(s.ID(), err)
		}
		state.SetBronzeRows(bronze)
	}
	if err := ctx.Err(); err != nil {
		return NewCancellationError(s.ID())
	}

	rows, stats := dataprocessing.RunSilver(bronze, s.cfg.Pipeline, s.logger)

	if err := store.WriteTable(s.cfg.Paths.Silver(), rows, s.logger); err != nil {
		return NewExecutionError(s.ID(), err)
	}

	state.SetSilverRows(rows)
	if st := state.StageState(s.ID()); st != nil {
		st.SetCount("silver_rows", stats.Rows)
		st.SetCount("unmapped_seniority", stats.UnmappedSeniority)
		st.SetCount("salary_readings_nulled", stats.Salary.ReadingsNulled)
		st.SetCount("salary_outliers_flagged", stats.Salary.OutliersFlagged)
	}
	return nil
}

// GoldStage aggregates silver rows into the dashboard tables and writes
// the run summary.
type GoldStage struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewGoldStage creates the gold stage.
func NewGoldStage(cfg *config.Config, logger *slog.Logger) *GoldStage {
	return &GoldStage{cfg: cfg, logger: logger}
}

func (s *GoldStage) ID() string   { return StageIDGold }
func (s *GoldStage) Name() string { return "Gold Aggregation" }

// Validate requires silver rows, either in memory or persisted.
func (s *GoldStage) Validate(state *RunState) error {
	if state.SilverRows() != nil {
		return nil
	}
	if !store.Exists(s.cfg.Paths.Silver()) {
		return NewValidationError(s.ID(),
			fmt.Sprintf("silver artifact not found at %s; run the silver stage first", s.cfg.Paths.Silver()))
	}
	return nil
}

func (s *GoldStage) Execute(ctx context.Context, state *RunState) error {
	silver := state.SilverRows()
	if silver == nil {
		var err error
		silver, err = store.ReadTable[domain.EnrichedPosting](s.cfg.Paths.Silver(), s.logger)
		if err != nil {
			return NewExecutionError(s.ID(), err)
		}
		state.SetSilverRows(silver)
	}
	if err := ctx.Err(); err != nil {
		return NewCancellationError(s.ID())
	}

	tables := dataprocessing.BuildGold(silver, s.logger)

	if err := s.writeTables(tables); err != nil {
		return NewExecutionError(s.ID(), err)
	}

	bronzeRows := len(state.BronzeRows())
	if bronzeRows == 0 {
		// Gold-only run: recover the bronze count from the artifact so the
		// loss check still reflects the real layers.
		if bronze, err := store.ReadTable[domain.Posting](s.cfg.Paths.Bronze(), s.logger); err == nil {
			bronzeRows = len(bronze)
		}
	}

	summary, err := dataprocessing.Summarize(bronzeRows, len(silver), tables.RowCounts(), s.cfg.Pipeline, s.logger)
	state.SetSummary(summary)
	if writeErr := s.writeSummary(summary); writeErr != nil {
		return NewExecutionError(s.ID(), writeErr)
	}
	if err != nil {
		return NewDataQualityError(s.ID(), err)
	}

	if st := state.StageState(s.ID()); st != nil {
		for name, n := range tables.RowCounts() {
			st.SetCount(name, n)
		}
	}
	return nil
}

func (s *GoldStage) writeTables(tables dataprocessing.GoldTables) error {
	if err := store.WriteTable(s.cfg.Paths.Gold(domain.TableMonthlyPostings), tables.MonthlyPostings, s.logger); err != nil {
		return err
	}
	if err := store.WriteTable(s.cfg.Paths.Gold(domain.TableSalaryByRole), tables.SalaryByRole, s.logger); err != nil {
		return err
	}
	if err := store.WriteTable(s.cfg.Paths.Gold(domain.TableIndustryDemand), tables.IndustryDemand, s.logger); err != nil {
		return err
	}
	if err := store.WriteTable(s.cfg.Paths.Gold(domain.TableCompetition), tables.Competition, s.logger); err != nil {
		return err
	}
	if err := store.WriteTable(s.cfg.Paths.Gold(domain.TableTopCompanies), tables.TopCompanies, s.logger); err != nil {
		return err
	}
	return store.WriteTable(s.cfg.Paths.Gold(domain.TableExperienceDemand), tables.ExperienceDemand, s.logger)
}

func (s *GoldStage) writeSummary(summary domain.LayerSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := os.WriteFile(s.cfg.Paths.Summary(), data, 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
