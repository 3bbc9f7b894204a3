package network

import (
	"fmt"

	"github.com/cpmech/pipeflow/solver"
)

// Mode selects which coupling strategy Pipeflow runs.
type Mode string

const (
	ModeHydraulics    Mode = "hydraulics"
	ModeHeat          Mode = "heat"
	ModeAll           Mode = "all"
	ModeBidirectional Mode = "bidirectional"
)

// Options is a typed struct with defaults, replacing a dynamic **kwargs-style
// option dictionary: every recognized key is a struct field with a JSON
// tag, mirroring inp.Data/inp.SolverData/inp.LinSolData. Unlike a map,
// passing an unknown key is a compile error rather than a silently dropped
// kwarg; a recognized-but-invalid value (bad mode, bad friction model
// name) is instead a BadMode *SolveError raised at Pipeflow entry.
type Options struct {
	Mode          Mode   `json:"mode"`
	FrictionModel string `json:"friction_model"`

	Iter         int `json:"iter"`          // max Newton iterations per subproblem
	IterBidirect int `json:"iter_bidirect"` // max outer coupling iterations

	TolP   float64 `json:"tol_p"`
	TolV   float64 `json:"tol_v"`
	TolT   float64 `json:"tol_t"`
	TolRes float64 `json:"tol_res"`
	Atol   float64 `json:"atol"`
	Rtol   float64 `json:"rtol"`

	NonlinearMethod solver.DampingMode `json:"nonlinear_method"`
	Alpha           float64            `json:"alpha"`
	AlphaFloor      float64            `json:"alpha_floor"`

	// CheckConnectivity gates the BFS reachability reduction stage
	// (pit.IdentifyActive + pit.Reduce). Off by default, like every other
	// optional bool here: set it when the network may contain a
	// disconnected subgraph that needs excluding before assembly. Leaving
	// it off solves directly over the full PIT (pit.Identity), which is
	// only safe when the caller already knows every row is reachable.
	CheckConnectivity bool `json:"check_connectivity"`

	// ReuseInternalData retains the factorized linear solver across Newton
	// iterations and across repeated Pipeflow calls on the same *Network,
	// instead of allocating and cleaning a fresh one every iteration. It is
	// invalidated automatically the moment the active system's size
	// changes, which always follows a topology change.
	ReuseInternalData bool `json:"reuse_internal_data"`

	Gravity float64 `json:"gravity"` // [m/s²]

	// Parallel gates the goroutine worker pool in package assembly's
	// per-branch derivative kernel; 0 or 1 means sequential.
	Parallel int `json:"parallel"`

	Verbose bool `json:"verbose"`
}

// SetDefault fills every field the caller left zero-valued with the
// teacher's conventional defaults (inp.SolverData.SetDefault's pattern):
// umfpack-equivalent tolerances, automatic damping starting at α=1.
func (o *Options) SetDefault() {
	if o.Mode == "" {
		o.Mode = ModeHydraulics
	}
	if o.FrictionModel == "" {
		o.FrictionModel = "nikuradse"
	}
	if o.Iter == 0 {
		o.Iter = 50
	}
	if o.IterBidirect == 0 {
		o.IterBidirect = 3
	}
	if o.TolP == 0 {
		o.TolP = 1e-4
	}
	if o.TolV == 0 {
		o.TolV = 1e-6
	}
	if o.TolT == 0 {
		o.TolT = 1e-3
	}
	if o.TolRes == 0 {
		o.TolRes = 1e-8
	}
	if o.Atol == 0 {
		o.Atol = 1e-8
	}
	if o.Rtol == 0 {
		o.Rtol = 1e-4
	}
	if o.NonlinearMethod == "" {
		o.NonlinearMethod = solver.DampingAutomatic
	}
	if o.Alpha == 0 {
		o.Alpha = 1.0
	}
	if o.AlphaFloor == 0 {
		o.AlphaFloor = 1e-3
	}
	if o.Gravity == 0 {
		o.Gravity = 9.81
	}
}

// Validate reports a BadMode error for an unrecognized mode or friction
// model name, rather than silently falling back (the fallback-with-warning
// behavior is reserved for the friction package's own runtime lookup).
func (o *Options) Validate() error {
	switch o.Mode {
	case ModeHydraulics, ModeHeat, ModeAll, ModeBidirectional:
	default:
		return errBadMode(o.Mode)
	}
	switch o.FrictionModel {
	case "nikuradse", "prandtl-colebrook", "swamee-jain":
	default:
		return &SolveError{Kind: BadMode, Msg: fmt.Sprintf("unrecognized friction_model %q", o.FrictionModel)}
	}
	return nil
}

func (o *Options) tolerances() solver.Tolerances {
	return solver.Tolerances{
		Atol: o.Atol, Rtol: o.Rtol,
		TolP: o.TolP, TolV: o.TolV, TolT: o.TolT, TolRes: o.TolRes,
	}
}

func (o *Options) config() solver.Config {
	return solver.Config{
		MaxIter:         o.Iter,
		NonlinearMethod: o.NonlinearMethod,
		Alpha0:          o.Alpha,
		AlphaFloor:      o.AlphaFloor,
		Workers:         o.Parallel,
		Verbose:         o.Verbose,
	}
}
