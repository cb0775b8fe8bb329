// Package evaluation scores the calculator against labelled cases.
//
// A run:
//  1. Prices every case with the calculator
//  2. Rounds the amount to cents, as the CLI prints it
//  3. Loads the results into an in-memory SQLite store
//  4. Builds the report with SQL aggregates
package evaluation

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/tutu-network/reimburse/internal/app/reimburse"
	"github.com/tutu-network/reimburse/internal/domain"
	"github.com/tutu-network/reimburse/internal/infra/sqlite"
)

// Config controls report thresholds.
type Config struct {
	ExactTolerance float64 // error below this is an exact match (default 0.01)
	CloseTolerance float64 // error below this is a close match (default 1.00)
	Worst          int     // number of worst cases to report (default 5)
}

// DefaultConfig returns the challenge scoring thresholds.
func DefaultConfig() Config {
	return Config{
		ExactTolerance: 0.01,
		CloseTolerance: 1.00,
		Worst:          5,
	}
}

// Report is the outcome of one run.
type Report struct {
	Summary  domain.EvalSummary  `json:"summary"`
	Paths    []domain.PathStats  `json:"paths"`
	Worst    []domain.CaseResult `json:"worst"`
	Duration time.Duration       `json:"duration_ns"`
}

// Runner evaluates cases against a calculator.
type Runner struct {
	calc   *reimburse.Calculator
	config Config
	logger *zap.Logger
}

// NewRunner creates a runner. A nil logger is replaced with a no-op logger.
func NewRunner(calc *reimburse.Calculator, cfg Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{calc: calc, config: cfg, logger: logger}
}

// Score prices a single case.
func (r *Runner) Score(index int, c domain.Case) domain.CaseResult {
	q := r.calc.Compute(c.Input)
	actual := reimburse.Round2(q.Amount)
	return domain.CaseResult{
		Index:      index,
		Trip:       c.Input,
		Expected:   c.ExpectedOutput,
		Actual:     actual,
		Error:      math.Abs(actual - c.ExpectedOutput),
		Path:       q.Path,
		LuckyCents: q.LuckyCents,
	}
}

// Run scores every case and builds the report.
func (r *Runner) Run(ctx context.Context, cases []domain.Case) (*Report, error) {
	if len(cases) == 0 {
		return nil, domain.ErrNoCases
	}
	start := time.Now()

	results := make([]domain.CaseResult, len(cases))
	for i, c := range cases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results[i] = r.Score(i, c)
	}

	store, err := sqlite.OpenMemory()
	if err != nil {
		return nil, fmt.Errorf("open analysis store: %w", err)
	}
	defer store.Close()

	if err := store.InsertResults(ctx, results); err != nil {
		return nil, fmt.Errorf("store results: %w", err)
	}

	summary, err := store.Summary(ctx, r.config.ExactTolerance, r.config.CloseTolerance)
	if err != nil {
		return nil, err
	}
	paths, err := store.PathBreakdown(ctx)
	if err != nil {
		return nil, err
	}
	worst, err := store.WorstCases(ctx, r.config.Worst)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Summary:  summary,
		Paths:    paths,
		Worst:    worst,
		Duration: time.Since(start),
	}

	r.logger.Info("evaluation complete",
		zap.Int("cases", summary.Cases),
		zap.Int("exact", summary.ExactMatches),
		zap.Int("close", summary.CloseMatches),
		zap.Float64("avg_error", summary.AvgError),
		zap.Float64("score", summary.Score),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}
