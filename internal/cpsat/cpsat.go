// Package cpsat implements the CP-SAT modeling layer as a reduction to
// Boolean satisfiability: it builds one CNF model per solve and hands it to
// a SAT engine, rather than hand-rolling constraint propagation.
package cpsat

import (
	"context"
	"time"

	"github.com/crillab/gophersat/solver"
	"go.uber.org/zap"

	"timetabling-UDP/internal/constraint"
	"timetabling-UDP/internal/domain"
	"timetabling-UDP/internal/solve"
)

// Config bounds and configures one solve attempt.
type Config struct {
	// Timeout is the wall-clock budget. The underlying engine's own solve
	// loop is not context-aware, so Solve races it against this deadline on
	// a goroutine instead of threading a context into the engine.
	Timeout time.Duration
	// Quality opts into the optional Q1/Q2 constraints instead of forking
	// the model builder.
	Quality bool
}

// Solve builds a CNF encoding of cat's feasibility problem, hands it to the
// SAT engine, and reconstructs a Timetable from a satisfying assignment.
// Returns a *solve.Failure when the engine proves unsatisfiability or the
// timeout elapses first.
func Solve(ctx context.Context, cat *domain.Catalog, cfg Config, logger *zap.Logger) (*domain.Timetable, *solve.Stats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	buildStart := time.Now()
	m := buildModel(cat, cfg.Quality)
	logger.Debug("cpsat model built",
		zap.Int("variables", len(m.placements)),
		zap.Int("clauses", len(m.clauses)),
		zap.Duration("build_duration", time.Since(buildStart)),
	)

	problem := solver.ParseSlice(m.clauses)
	s := solver.New(problem)

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	type outcome struct {
		status solver.Status
	}
	done := make(chan outcome, 1)
	solveStart := time.Now()
	go func() {
		done <- outcome{status: s.Solve()}
	}()

	stats := &solve.Stats{
		VariablesCreated: len(m.placements),
		ClausesAdded:     len(m.clauses),
	}

	select {
	case res := <-done:
		stats.Duration = time.Since(solveStart)
		switch res.status {
		case solver.Sat:
			stats.Status = "solved"
			timetable := m.reconstruct(s.Model())
			logger.Info("cpsat solve succeeded",
				zap.Duration("duration", stats.Duration),
			)
			if ok, violations := constraint.Integrated(cat, timetable); !ok {
				logger.Error("cpsat produced an inconsistent timetable",
					zap.Int("violation_count", len(violations)),
				)
				return nil, stats, solve.NewFailure(solve.InternalInconsistency,
					"%d constraint violations in solver output", len(violations))
			}
			return timetable, stats, nil
		case solver.Unsat:
			stats.Status = "infeasible"
			logger.Info("cpsat solve proved infeasible")
			return nil, stats, solve.NewFailure(solve.Infeasible, "no satisfying assignment exists")
		default:
			stats.Status = "unknown"
			logger.Info("cpsat solve returned an indeterminate status")
			return nil, stats, solve.NewFailure(solve.BudgetExhausted, "engine returned status %v", res.status)
		}
	case <-ctx.Done():
		stats.Duration = time.Since(solveStart)
		stats.Status = "timeout"
		logger.Info("cpsat solve timed out", zap.Duration("timeout", cfg.Timeout))
		return nil, stats, solve.NewFailure(solve.BudgetExhausted, "timeout of %s elapsed", cfg.Timeout)
	}
}

// reconstruct emits one Assignment per placement variable valued true in a
// satisfying model.
func (m *model) reconstruct(values []bool) *domain.Timetable {
	t := &domain.Timetable{}
	for i, p := range m.placements {
		if i < len(values) && values[i] {
			t.Push(domain.Assignment{
				LessonID: p.LessonID, TimeSlot: p.TimeSlot, RoomID: p.RoomID, TeacherID: p.TeacherID,
			})
		}
	}
	return t
}
