package network

import (
	"fmt"

	"github.com/cpmech/pipeflow/solver"
)

// ErrKind enumerates the error conditions a *SolveError can carry. Pipeflow
// builds a *SolveError for NotConverged, MissingHydraulicPrerequisite,
// BadMode and NoBoundary; no code path builds a SingularJacobian error, and
// errors from the linear solve, the friction models and the component hooks
// are returned to the caller unwrapped. Grounded on
// fem/errorhandler.go's Stop/PanicOrNot, reshaped into real error values
// instead of a bool-plus-panic convention.
type ErrKind int

const (
	NotConverged ErrKind = iota
	MissingHydraulicPrerequisite
	BadMode
	NoBoundary
	SingularJacobian
)

func (k ErrKind) String() string {
	switch k {
	case NotConverged:
		return "NotConverged"
	case MissingHydraulicPrerequisite:
		return "MissingHydraulicPrerequisite"
	case BadMode:
		return "BadMode"
	case NoBoundary:
		return "NoBoundary"
	case SingularJacobian:
		return "SingularJacobian"
	default:
		return "Unknown"
	}
}

// SolveError is the typed error Pipeflow returns for the kinds above; Kind lets callers
// switch on the condition without string matching, while the embedded
// message reads like fem's "simulation failed on %s with %v" trace.
type SolveError struct {
	Kind ErrKind
	Msg  string

	// NotConverged detail: last residual norm and per-variable errors,
	// keyed the way solver.Result names its fields.
	ResidualNorm     float64
	ErrP, ErrV, ErrT float64
}

func (e *SolveError) Error() string {
	if e.Kind == NotConverged {
		return fmt.Sprintf("pipeflow: %s: %s (residual_norm=%g errP=%g errV=%g errT=%g)",
			e.Kind, e.Msg, e.ResidualNorm, e.ErrP, e.ErrV, e.ErrT)
	}
	return fmt.Sprintf("pipeflow: %s: %s", e.Kind, e.Msg)
}

func errBadMode(mode Mode) error {
	return &SolveError{Kind: BadMode, Msg: fmt.Sprintf("unrecognized mode %q", mode)}
}

func errMissingHydraulic() error {
	return &SolveError{Kind: MissingHydraulicPrerequisite, Msg: "mode=heat requires a prior converged hydraulic solve (hyd_flag is false)"}
}

func errNotConverged(phase string, res solver.Result) error {
	return &SolveError{
		Kind: NotConverged, Msg: fmt.Sprintf("%s Newton loop exceeded max_iter", phase),
		ResidualNorm: res.ResidualNorm, ErrP: res.ErrP, ErrV: res.ErrV, ErrT: res.ErrT,
	}
}
