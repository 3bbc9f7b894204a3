// Package solver implements the damped Newton-Raphson driver for the
// hydraulic and thermal subproblems over an active PIT. It knows nothing
// about input frames, persisted network state or the four coupling modes
// (hydraulics, heat, all, bidirectional) — package network owns those —
// only how to drive one Newton subproblem to convergence given an
// already-reduced pit.Active view and a comp.Context.
package solver

// DampingMode selects how the pressure/temperature step is scaled.
type DampingMode string

const (
	DampingAutomatic DampingMode = "automatic"
	DampingConstant  DampingMode = "constant"
)

// Tolerances holds the per-variable and residual convergence thresholds;
// Atol/Rtol feed gosl's VecRmsErr the way fem/solver.go's
// global.Sim.Solver.Atol/Rtol do.
type Tolerances struct {
	Atol, Rtol float64
	TolP       float64
	TolV       float64
	TolT       float64
	TolRes     float64
}

// Config parameterizes one Newton subproblem run.
type Config struct {
	MaxIter         int
	NonlinearMethod DampingMode
	Alpha0          float64
	AlphaFloor      float64 // smallest automatic damping factor allowed
	Workers         int     // goroutine fan-out for the derivative kernel; <=1 is sequential

	// LinSolCache, when non-nil, retains one factorized la.LinSol across
	// Newton iterations and across separate Run* calls instead of
	// allocating and cleaning a fresh one every iteration. Leave nil to get
	// the default per-iteration InitR/Fact/SolveR/Clean cycle.
	LinSolCache *LinSolCache

	// Verbose prints one residual-trace line per iteration, mirroring
	// fem/solver.go's ShowR trace of (t, it, largFb, Lδu).
	Verbose bool
}

// Result reports what one Newton subproblem did.
type Result struct {
	Converged    bool
	Iterations   int
	ResidualNorm float64
	ErrP         float64 // 0 for a thermal-only result
	ErrV         float64
	ErrT         float64 // 0 for a hydraulic-only result
	FinalAlpha   float64
}
