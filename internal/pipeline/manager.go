package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"sgjobs/internal/config"
	"sgjobs/internal/infrastructure"
)

// Manager executes pipeline stages sequentially and tracks run state.
type Manager struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewManager creates a pipeline manager.
func NewManager(cfg *config.Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{cfg: cfg, logger: logger}
}

// StagesFor resolves a stage selector into the ordered stages to run.
func (m *Manager) StagesFor(selector string) ([]Stage, error) {
	switch selector {
	case StageIDBronze:
		return []Stage{NewBronzeStage(m.cfg, m.logger)}, nil
	case StageIDSilver:
		return []Stage{NewSilverStage(m.cfg, m.logger)}, nil
	case StageIDGold:
		return []Stage{NewGoldStage(m.cfg, m.logger)}, nil
	case StageIDAll, "":
		return []Stage{
			NewBronzeStage(m.cfg, m.logger),
			NewSilverStage(m.cfg, m.logger),
			NewGoldStage(m.cfg, m.logger),
		}, nil
	default:
		return nil, fmt.Errorf("unknown stage %q (expected bronze, silver, gold or all)", selector)
	}
}

// Run executes the selected stages in order. The first failure aborts the
// run; remaining stages are marked skipped. The returned state is valid
// even on error.
func (m *Manager) Run(ctx context.Context, selector string) (*RunState, error) {
	stages, err := m.StagesFor(selector)
	if err != nil {
		return nil, err
	}

	state := NewRunState()
	logger := m.logger.With(slog.String("run_id", state.ID))
	ctx = infrastructure.WithTraceID(ctx, state.ID)

	for _, stage := range stages {
		state.AddStage(NewStageState(stage.ID(), stage.Name()))
	}

	logger.Info("pipeline run starting",
		slog.String("selector", selector),
		slog.Int("stages", len(stages)))

	for _, stage := range stages {
		st := state.StageState(stage.ID())
		if err := m.runStage(ctx, stage, st, state, logger); err != nil {
			state.Fail()
			for _, rest := range stages {
				if rs := state.StageState(rest.ID()); rs.Status == StageStatusPending {
					rs.Skip("previous stage failed")
				}
			}
			logger.Error("pipeline run failed",
				slog.String("stage", stage.ID()),
				slog.String("error", err.Error()))
			return state, err
		}
	}

	state.Complete()
	logger.Info("pipeline run complete",
		slog.Duration("elapsed", time.Since(state.StartTime)))
	return state, nil
}

func (m *Manager) runStage(ctx context.Context, stage Stage, st *StageState, state *RunState, logger *slog.Logger) error {
	ctx, span := infrastructure.Tracer("sgjobs/pipeline").Start(ctx, "stage."+stage.ID())
	span.SetAttributes(
		attribute.String("pipeline.stage", stage.ID()),
		attribute.String("pipeline.run_id", state.ID),
	)
	defer span.End()

	if err := ctx.Err(); err != nil {
		cancelErr := NewCancellationError(stage.ID())
		st.Fail(cancelErr)
		span.SetStatus(codes.Error, cancelErr.Error())
		return cancelErr
	}

	if err := stage.Validate(state); err != nil {
		st.Fail(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	st.Start()
	logger.Info("stage starting", slog.String("stage", stage.ID()), slog.String("name", stage.Name()))

	timer := time.Now()
	err := stage.Execute(ctx, state)
	infrastructure.StageDuration.WithLabelValues(stage.ID()).Observe(time.Since(timer).Seconds())

	if err != nil {
		st.Fail(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	st.Complete("ok")
	logger.Info("stage complete",
		slog.String("stage", stage.ID()),
		slog.Duration("elapsed", st.Duration()))
	return nil
}
