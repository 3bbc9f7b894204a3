// Package comp implements the per-component "capability set" hook
// dispatch: each branch Kind registers only the hooks it needs (a nil
// hook is simply skipped), the way `fem/element.go` registers allocators
// per element type and `msolid` registers material models per name — but
// here the dispatch table is a flat struct of optional function pointers
// rather than Go interface satisfaction, because a single component
// (HeatSink) must compose two other components' hooks in sequence.
package comp

import (
	"github.com/cpmech/pipeflow/fluid"
	"github.com/cpmech/pipeflow/friction"
	"github.com/cpmech/pipeflow/pit"
	"github.com/cpmech/pipeflow/pumpcurve"
)

// Context carries the per-call read-only state hooks may need: lookups
// for addressing other tables, the fluid-property collaborator, pump
// curves, and the selected friction model name.
type Context struct {
	Lookups       *pit.Lookups
	Fluid         fluid.Properties
	PumpCurves    *pumpcurve.Registry
	FrictionModel string
	Gravity       float64 // [m/s²]

	frictionOnce    bool
	frictionModel   friction.Model
	frictionWarning string
}

// ResolveFriction returns the friction.Model named by FrictionModel,
// resolving and caching it on first use. A second return value carries
// the fallback-to-nikuradse warning when the name was unrecognized.
func (c *Context) ResolveFriction() (friction.Model, string) {
	if !c.frictionOnce {
		c.frictionModel, c.frictionWarning = friction.Get(c.FrictionModel)
		c.frictionOnce = true
	}
	return c.frictionModel, c.frictionWarning
}

// HookFn is the signature every capability-set hook shares.
type HookFn func(bp *pit.BranchPit, np *pit.NodePit, rows pit.RowRange, ctx *Context) error

// Hooks is the capability set one branch Kind may implement. Each field is
// called, if non-nil, over exactly the row range the Kind owns: a
// component reads and writes only its own branch slice and the two
// endpoint node rows per branch.
type Hooks struct {
	// CreatePitEntries performs one-time initialization of a kind's rows
	// (create_pit_branch_entries / create_pit_node_entries).
	CreatePitEntries HookFn

	// AdaptBeforeHydraulic mutates setpoint-driven rows ahead of the
	// generic derivative kernel (e.g. flow-controller clamps VINIT).
	AdaptBeforeHydraulic HookFn

	// AdaptAfterHydraulic post-processes derivatives for components that
	// override the generic pipe physics (pump curve, closed valve,
	// flow-controller Lagrange row).
	AdaptAfterHydraulic HookFn

	AdaptBeforeThermal HookFn
	AdaptAfterThermal  HookFn
}

// registry holds all available component kinds; Kind => Hooks.
var registry = map[pit.Kind]Hooks{}

// Register installs the hook set for a component Kind. Called from each
// comp/<kind> package's init(), mirroring msolid's
// `allocators["dp"] = func() Model { return new(DruckerPrager) }`.
func Register(kind pit.Kind, h Hooks) {
	registry[kind] = h
}

// Get returns the hook set for kind, or a zero value (no hooks) if the
// kind was never registered — every field is then simply skipped.
func Get(kind pit.Kind) Hooks {
	return registry[kind]
}

// RunCreatePitEntries runs CreatePitEntries for every registered table in
// lookups, in Kind-registration order. HeatSink's entry composes
// HeatExchanger's initializer then layers flow-controller clamping
// (see comp/heat).
func RunCreatePitEntries(bp *pit.BranchPit, np *pit.NodePit, lk *pit.Lookups, order []pit.Kind, ctx *Context) error {
	for _, k := range order {
		rows := lk.BranchSlice(k)
		if rows.Len() == 0 {
			continue
		}
		if h := Get(k); h.CreatePitEntries != nil {
			if err := h.CreatePitEntries(bp, np, rows, ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// Phase identifies one of the four adaption hook points.
type Phase int

const (
	PhaseBeforeHydraulic Phase = iota
	PhaseAfterHydraulic
	PhaseBeforeThermal
	PhaseAfterThermal
)

// RunAdaptions runs the named adaption phase for every component kind
// present in lookups. Hooks fire in registration order within a phase.
func RunAdaptions(bp *pit.BranchPit, np *pit.NodePit, lk *pit.Lookups, order []pit.Kind, ph Phase, ctx *Context) error {
	for _, k := range order {
		rows := lk.BranchSlice(k)
		if rows.Len() == 0 {
			continue
		}
		h := Get(k)
		var fn HookFn
		switch ph {
		case PhaseBeforeHydraulic:
			fn = h.AdaptBeforeHydraulic
		case PhaseAfterHydraulic:
			fn = h.AdaptAfterHydraulic
		case PhaseBeforeThermal:
			fn = h.AdaptBeforeThermal
		case PhaseAfterThermal:
			fn = h.AdaptAfterThermal
		}
		if fn != nil {
			if err := fn(bp, np, rows, ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// DefaultOrder is the registration order hooks fire in when the caller has
// no other preference: pipes first (generic physics baseline), then
// active/override components.
var DefaultOrder = []pit.Kind{
	pit.KindPipe,
	pit.KindPump,
	pit.KindValve,
	pit.KindFlowCtrl,
	pit.KindHeatExch,
	pit.KindHeatSink,
	pit.KindHeatSource,
}
