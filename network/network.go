// Package network is the top-level entry point: the context object
// replacing a single global `net` handle with an explicit, stack-allocated
// struct passed by reference instead of process-wide mutable state (the
// way fem.Global was a package-level var), and the Pipeflow function that
// orchestrates PIT construction, connectivity reduction, and the four
// coupling modes over packages pit/comp/assembly/solver.
package network

import (
	"github.com/cpmech/pipeflow/comp"
	_ "github.com/cpmech/pipeflow/comp/flowctrl"
	_ "github.com/cpmech/pipeflow/comp/heat"
	_ "github.com/cpmech/pipeflow/comp/pipe"
	_ "github.com/cpmech/pipeflow/comp/pump"
	_ "github.com/cpmech/pipeflow/comp/valve"
	"github.com/cpmech/pipeflow/fluid"
	"github.com/cpmech/pipeflow/pit"
	"github.com/cpmech/pipeflow/pumpcurve"
	"github.com/cpmech/pipeflow/solver"
)

// Network is the context object threaded through one Pipeflow call: the
// full PIT, the lookup registry addressing it, and the collaborators every
// component hook needs. Unlike fem/fem.go's package-level Global, every
// field here is owned by the caller and passed by reference — no
// process-wide state survives between independent Network values.
type Network struct {
	Node   *pit.NodePit
	Branch *pit.BranchPit
	Lookup *pit.Lookups

	Fluid      fluid.Properties
	PumpCurves *pumpcurve.Registry

	// Converged/HydFlag are the only solve state persisted on the network
	// object between calls; everything else is transient and rebuilt fresh
	// inside Pipeflow. linSol is also persisted, but only participates when
	// Options.ReuseInternalData asks for it.
	Converged bool
	HydFlag   bool

	linSol *solver.LinSolCache
}

// NewNetwork allocates an empty context object sized for n nodes and m
// branches; callers populate Node/Branch/Lookup from their own input
// frames (network object model construction lives outside this module)
// before calling Pipeflow.
func NewNetwork(n, m int) *Network {
	return &Network{
		Node:       pit.NewNodePit(n),
		Branch:     pit.NewBranchPit(m),
		Lookup:     pit.NewLookups(),
		PumpCurves: pumpcurve.NewRegistry(),
	}
}

// SolVec carries the prior converged hydraulic solution into a mode=heat
// call: node pressures and branch velocities read, never written, by the
// thermal-only Newton loop.
type SolVec struct {
	Pinit []float64
	Vinit []float64
}

func (s *SolVec) apply(np *pit.NodePit, bp *pit.BranchPit) {
	if s == nil {
		return
	}
	copy(np.Pinit, s.Pinit)
	copy(bp.Vinit, s.Vinit)
}

// Pipeflow runs one solve over net per opts.Mode, mutating net.Node/net.Branch
// in place and updating net.Converged/net.HydFlag. solVec is only consulted
// in mode=heat.
func Pipeflow(net *Network, solVec *SolVec, opts Options) error {
	opts.SetDefault()
	if err := opts.Validate(); err != nil {
		return err
	}

	ctx := &comp.Context{
		Lookups:       net.Lookup,
		Fluid:         net.Fluid,
		PumpCurves:    net.PumpCurves,
		FrictionModel: opts.FrictionModel,
		Gravity:       opts.Gravity,
	}

	net.Converged = false

	if err := comp.RunCreatePitEntries(net.Branch, net.Node, net.Lookup, comp.DefaultOrder, ctx); err != nil {
		return err
	}

	switch opts.Mode {
	case ModeHydraulics:
		res, err := runHydraulicPhase(net, ctx, opts)
		if err != nil {
			return err
		}
		net.HydFlag = res.Converged
		net.Converged = res.Converged
		if !res.Converged {
			return errNotConverged("hydraulic", res)
		}
		return nil

	case ModeHeat:
		if !net.HydFlag {
			return errMissingHydraulic()
		}
		solVec.apply(net.Node, net.Branch)
		res, err := runThermalPhase(net, ctx, opts)
		if err != nil {
			return err
		}
		net.Converged = res.Converged
		if !res.Converged {
			return errNotConverged("thermal", res)
		}
		return nil

	case ModeAll:
		hres, err := runHydraulicPhase(net, ctx, opts)
		if err != nil {
			return err
		}
		net.HydFlag = hres.Converged
		if !hres.Converged {
			return errNotConverged("hydraulic", hres)
		}
		tres, err := runThermalPhase(net, ctx, opts)
		if err != nil {
			return err
		}
		net.Converged = tres.Converged
		if !tres.Converged {
			return errNotConverged("thermal", tres)
		}
		return nil

	case ModeBidirectional:
		return runBidirectional(net, ctx, opts)
	}

	return errBadMode(opts.Mode)
}

// reduceOrIdentity runs the BFS reachability reduction unless
// opts.CheckConnectivity is off, in which case it trusts the PIT's current
// Active flags and solves over the full network directly.
func reduceOrIdentity(net *Network, mode pit.Mode, opts Options) (*pit.Active, error) {
	if !opts.CheckConnectivity {
		return pit.Identity(net.Node, net.Branch), nil
	}
	if err := pit.IdentifyActive(net.Node, net.Branch, mode); err != nil {
		if err == pit.ErrNoBoundary {
			return nil, &SolveError{Kind: NoBoundary, Msg: err.Error()}
		}
		return nil, err
	}
	return pit.Reduce(net.Node, net.Branch, mode), nil
}

// linSolCache returns opts' linear-solver cache when ReuseInternalData is
// on, lazily allocating it on the network object so it survives across
// Pipeflow calls; otherwise it returns nil and every Newton iteration gets
// its own short-lived solver instance.
func (net *Network) linSolCache(opts Options) *solver.LinSolCache {
	if !opts.ReuseInternalData {
		return nil
	}
	if net.linSol == nil {
		net.linSol = &solver.LinSolCache{}
	}
	return net.linSol
}

// runHydraulicPhase reduces the PIT to its hydraulically active view, runs
// the hydraulic Newton loop, and scatters the converged iterate back.
func runHydraulicPhase(net *Network, ctx *comp.Context, opts Options) (solver.Result, error) {
	active, err := reduceOrIdentity(net, pit.ModeHydraulic, opts)
	if err != nil {
		return solver.Result{}, err
	}
	subCtx := *ctx
	subCtx.Lookups = active.Lookups(net.Lookup)

	cfg := opts.config()
	cfg.LinSolCache = net.linSolCache(opts)
	res, err := solver.RunHydraulic(active, &subCtx, comp.DefaultOrder, opts.tolerances(), cfg)
	if err != nil {
		return res, err
	}
	if res.Converged {
		active.ScatterBack(net.Node, net.Branch)
	}
	return res, nil
}

// runThermalPhase always re-runs connectivity for the thermal subgraph
// before solving (subject to the same CheckConnectivity gate), normalizes
// the thermal frame from the converged velocity iterate, runs the thermal
// Newton loop, and scatters back on convergence.
func runThermalPhase(net *Network, ctx *comp.Context, opts Options) (solver.Result, error) {
	pit.NormalizeThermalFrame(net.Branch)
	active, err := reduceOrIdentity(net, pit.ModeThermal, opts)
	if err != nil {
		return solver.Result{}, err
	}
	subCtx := *ctx
	subCtx.Lookups = active.Lookups(net.Lookup)

	cfg := opts.config()
	cfg.LinSolCache = net.linSolCache(opts)
	res, err := solver.RunThermal(active, &subCtx, comp.DefaultOrder, opts.tolerances(), cfg)
	if err != nil {
		return res, err
	}
	if res.Converged {
		active.ScatterBack(net.Node, net.Branch)
	}
	return res, nil
}

// runBidirectional alternates hydraulic and thermal solves until both
// converge within the same outer iteration: for an incompressible,
// temperature-independent fluid this always takes exactly one outer
// iteration, since the hydraulic solution never depends on the thermal one
// for such a fluid.
func runBidirectional(net *Network, ctx *comp.Context, opts Options) error {
	var hres, tres solver.Result
	for outer := 0; outer < opts.IterBidirect; outer++ {
		var err error
		hres, err = runHydraulicPhase(net, ctx, opts)
		if err != nil {
			return err
		}
		net.HydFlag = hres.Converged
		if !hres.Converged {
			return errNotConverged("hydraulic", hres)
		}

		tres, err = runThermalPhase(net, ctx, opts)
		if err != nil {
			return err
		}

		if hres.Converged && tres.Converged {
			net.Converged = true
			return nil
		}
	}
	net.Converged = false
	return errNotConverged("bidirectional outer loop", tres)
}
