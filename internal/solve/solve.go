// Package solve holds the result and failure vocabulary shared by the
// backtracking and CP-SAT solver back-ends, so callers can treat either one
// polymorphically.
package solve

import (
	"fmt"
	"time"
)

// FailureKind enumerates why a solver returned no Timetable.
type FailureKind int

const (
	// Infeasible means the solver proved, within its search strategy, that
	// no assignment satisfies every constraint.
	Infeasible FailureKind = iota
	// BudgetExhausted means the node/time budget elapsed without a proof
	// either way. Surfaced identically to Infeasible at the boundary; the
	// distinction matters only to tooling inspecting the error.
	BudgetExhausted
	// InternalInconsistency means a solver produced a Timetable that fails
	// the integrated constraint check. This is always a bug in the solver,
	// never a property of the input.
	InternalInconsistency
)

func (k FailureKind) String() string {
	switch k {
	case Infeasible:
		return "infeasible"
	case BudgetExhausted:
		return "budget exhausted"
	case InternalInconsistency:
		return "internal inconsistency"
	default:
		return "unknown failure"
	}
}

// Failure is the sentinel error both solvers return instead of a
// Timetable. There is no partial result on failure.
type Failure struct {
	Kind    FailureKind
	Message string
}

func (f *Failure) Error() string {
	if f.Message == "" {
		return f.Kind.String()
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// NewFailure builds a *Failure, which satisfies the error interface.
func NewFailure(kind FailureKind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Stats carries per-run solve statistics, observational only — it never
// changes feasibility semantics. Fields that don't apply to a given
// back-end are left at their zero value.
type Stats struct {
	Duration         time.Duration
	NodesExpanded    int // backtracker: task attempts
	VariablesCreated int // cpsat: boolean decision variables
	ClausesAdded     int // cpsat: CNF clauses
	Status           string
}
