// Package pit implements the flattened, column-typed tabular state ("the
// PIT": pipe-internal-table) that the solver core operates on: one table
// for nodes, one for branches, each column a contiguous slice addressed by
// row index. Column offsets are therefore compile-time struct fields, not
// runtime map lookups, and slices are sized once per Pipeflow call and
// never reallocated mid-iteration.
package pit

import "math"

// BoundaryKind tags whether a node carries an externally fixed value for a
// given subproblem (hydraulic or thermal) or is free to be solved for.
type BoundaryKind int8

const (
	Free  BoundaryKind = iota // node value is an unknown solved by Newton
	Fixed                     // node value is a Dirichlet boundary condition
)

// Kind identifies the branch component type. Row ranges per Kind are
// recorded in a Lookups table (see lookup.go); components dispatch
// entirely off Kind, never off row position.
type Kind string

const (
	KindPipe       Kind = "pipe"
	KindPump       Kind = "pump"
	KindValve      Kind = "valve"
	KindFlowCtrl   Kind = "flow_control"
	KindHeatExch   Kind = "heat_exchanger"
	KindHeatSink   Kind = "heat_sink"
	KindHeatSource Kind = "heat_source"
)

// NodePit holds one row per node; every field is a column.
type NodePit struct {
	Active    []bool         // participates in the current subproblem
	NodeType  []BoundaryKind // hydraulic boundary condition kind
	NodeTypeT []BoundaryKind // thermal boundary condition kind

	Pinit []float64 // current pressure iterate [bar]
	Tinit []float64 // current temperature iterate [K]

	Height []float64 // node elevation [m]
	Pamb   []float64 // ambient pressure [bar]
	Tamb   []float64 // ambient temperature [K]

	Load  []float64 // external mass injection [kg/s]
	LoadT []float64 // external heat injection [W]

	// Pbound/Tbound carry the Dirichlet target value; read only
	// where NodeType/NodeTypeT == Fixed.
	Pbound []float64
	Tbound []float64
}

// BranchPit holds one row per branch (pipe, valve, pump, heat component, …).
type BranchPit struct {
	Kind   []Kind
	Active []bool

	FromNode []int // hydraulic upstream topology endpoint
	ToNode   []int // hydraulic downstream topology endpoint

	FromNodeT []int // thermal upstream endpoint; swaps with flow direction
	ToNodeT   []int // thermal downstream endpoint

	D      []float64 // diameter [m]
	Area   []float64 // cross-section area [m²]
	Length []float64 // [m]
	K      []float64 // roughness [m]
	Lambda []float64 // friction factor (filled by friction model)

	Alpha []float64 // heat transfer coefficient [W/m²K]
	Text  []float64 // ambient temperature for losses [K]

	Vinit  []float64 // velocity iterate, hydraulic frame [m/s]
	VinitT []float64 // velocity iterate, thermal frame (>= 0 after normalization)

	TinitOut []float64 // branch outlet temperature iterate [K]

	// per-component control setpoints; NaN means "not configured" (see IsSet)
	Qext    []float64 // prescribed heat load [W]
	Tl      []float64 // prescribed temperature loss [K]
	DeltaT  []float64 // prescribed outlet-vs-inlet delta [K]
	Treturn []float64 // prescribed outlet temperature [K]
	Mass    []float64 // prescribed mass flow [kg/s]

	// flow-controller / valve control state
	ControlActive []bool    // flow controller: v is forced to Vset
	Vset          []float64 // flow controller: controlled velocity [m/s]
	Closed        []bool    // valve: fully closed (identity row v=0)
	Opening       []float64 // valve: opening factor in (0,1], scales friction

	// pump curve selection
	PumpCurveID []int // index into a pumpcurve.Registry for this branch's curve

	// scratch columns written by the derivative stage, read by assembly
	JacDDv         []float64 // ∂r/∂v       (hydraulic)
	JacDDp         []float64 // ∂r/∂p_from  (hydraulic)
	JacDDp1        []float64 // ∂r/∂p_to    (hydraulic)
	JacDDt         []float64 // ∂r_T/∂T_in      (thermal, branch's own row)
	JacDDt1        []float64 // ∂R_to/∂T_out    (thermal, downstream node's energy-mixing row)
	JacDDtOut      []float64 // ∂r_T/∂T_out     (thermal, branch's own row)
	LoadVecBranch  []float64 // residual load term, hydraulic row
	LoadVecBranchT []float64 // residual load term, thermal row
}

// IsSet reports whether a NaN-punned setpoint column value is configured.
// Centralizing the NaN test here means a future swap to an explicit
// optional-float or parallel bitset column only touches this function.
func IsSet(x float64) bool {
	return !math.IsNaN(x)
}

// Unset is the sentinel written into setpoint columns that are not configured.
var Unset = math.NaN()

// NewNodePit allocates a node PIT with n rows, all columns defaulted
// ("not configured" setpoints hold NaN, as fem/domain.go pre-sizes Sol
// slices once per stage and never regrows them mid-iteration).
func NewNodePit(n int) *NodePit {
	o := &NodePit{
		Active:    make([]bool, n),
		NodeType:  make([]BoundaryKind, n),
		NodeTypeT: make([]BoundaryKind, n),
		Pinit:     make([]float64, n),
		Tinit:     make([]float64, n),
		Height:    make([]float64, n),
		Pamb:      make([]float64, n),
		Tamb:      make([]float64, n),
		Load:      make([]float64, n),
		LoadT:     make([]float64, n),
		Pbound:    make([]float64, n),
		Tbound:    make([]float64, n),
	}
	for i := range o.Pbound {
		o.Pbound[i] = Unset
		o.Tbound[i] = Unset
	}
	return o
}

// NewBranchPit allocates a branch PIT with n rows.
func NewBranchPit(n int) *BranchPit {
	o := &BranchPit{
		Kind:           make([]Kind, n),
		Active:         make([]bool, n),
		FromNode:       make([]int, n),
		ToNode:         make([]int, n),
		FromNodeT:      make([]int, n),
		ToNodeT:        make([]int, n),
		D:              make([]float64, n),
		Area:           make([]float64, n),
		Length:         make([]float64, n),
		K:              make([]float64, n),
		Lambda:         make([]float64, n),
		Alpha:          make([]float64, n),
		Text:           make([]float64, n),
		Vinit:          make([]float64, n),
		VinitT:         make([]float64, n),
		TinitOut:       make([]float64, n),
		Qext:           make([]float64, n),
		Tl:             make([]float64, n),
		DeltaT:         make([]float64, n),
		Treturn:        make([]float64, n),
		Mass:           make([]float64, n),
		ControlActive:  make([]bool, n),
		Vset:           make([]float64, n),
		Closed:         make([]bool, n),
		Opening:        make([]float64, n),
		PumpCurveID:    make([]int, n),
		JacDDv:         make([]float64, n),
		JacDDp:         make([]float64, n),
		JacDDp1:        make([]float64, n),
		JacDDt:         make([]float64, n),
		JacDDt1:        make([]float64, n),
		JacDDtOut:      make([]float64, n),
		LoadVecBranch:  make([]float64, n),
		LoadVecBranchT: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		o.Qext[i] = Unset
		o.Tl[i] = Unset
		o.DeltaT[i] = Unset
		o.Treturn[i] = Unset
		o.Mass[i] = Unset
		o.Opening[i] = 1.0
	}
	return o
}
