// Package results extracts the output frames a converged Pipeflow call
// produces: one row per branch, one row per node. It reads the full PIT
// only — callers must have already scattered the converged active-PIT
// iterate back (network.Pipeflow does this on success) — and never
// mutates it.
//
// Grounded on out/point.go's "named quantity per row" idiom, adapted from a
// `map[string][]float64` of time series (out/point.go tracks one quantity
// across many output times) to a flat struct of named fields (pipeflow has
// exactly one steady-state row per branch/node, not a time series), which
// is the more idiomatic Go shape for a fixed result schema.
package results

import (
	"math"

	"github.com/cpmech/pipeflow/comp"
	"github.com/cpmech/pipeflow/fluid"
	"github.com/cpmech/pipeflow/pit"
)

// standard reference state used for the gas normfactor correction
// (pandapipes' normal conditions for volumetric-flow reporting).
const (
	normalPressureBar  = 1.01325
	normalTemperatureK = 273.15
)

// BranchRow is one result row per branch. The gas-only fields
// (VFrom/VTo/NormfactorFrom/NormfactorTo) are left at zero for an
// incompressible fluid; callers should gate display of those columns on
// fluid.Properties.Compressible().
type BranchRow struct {
	VMean       float64 // mean velocity [m/s]
	PFromBar    float64
	PToBar      float64
	TFromK      float64
	TToK        float64
	MdotFromKgS float64
	MdotToKgS   float64
	VdotNormM3S float64
	Reynolds    float64
	Lambda      float64

	VFromMs        float64
	VToMs          float64
	NormfactorFrom float64
	NormfactorTo   float64
}

// NodeRow is one result row per node.
type NodeRow struct {
	PBar       float64
	TK         float64
	MdotKgPerS float64
}

// Extract computes BranchRow/NodeRow for every row of the full PIT.
// fl and ctx (whose FrictionModel picks the friction model) are the same
// collaborators the solve ran with; Reynolds/Lambda are recomputed from the converged iterate rather
// than read back from scratch columns, since JacDD*/LoadVecBranch* hold
// Newton-iteration scratch state, not reporting state.
func Extract(np *pit.NodePit, bp *pit.BranchPit, fl fluid.Properties, ctx *comp.Context) ([]NodeRow, []BranchRow, error) {
	nodes := make([]NodeRow, len(np.Active))
	for i := range nodes {
		nodes[i] = NodeRow{
			PBar:       np.Pinit[i],
			TK:         np.Tinit[i],
			MdotKgPerS: nodeMassBalance(np, bp, i, fl),
		}
	}

	model, _ := ctx.ResolveFriction()
	gas := fl.Compressible()

	branches := make([]BranchRow, len(bp.Kind))
	for b := range branches {
		from, to := bp.FromNode[b], bp.ToNode[b]
		v := bp.Vinit[b]
		rho := fl.Rho(np.Pinit[from], np.Tinit[from])
		mu := fl.Mu(np.Pinit[from], np.Tinit[from])

		row := BranchRow{
			VMean:       v,
			PFromBar:    np.Pinit[from],
			PToBar:      np.Pinit[to],
			TFromK:      np.Tinit[bp.FromNodeT[b]],
			TToK:        bp.TinitOut[b],
			MdotFromKgS: rho * bp.Area[b] * v,
			MdotToKgS:   rho * bp.Area[b] * v,
			VdotNormM3S: bp.Area[b] * v, // actual-conditions for an incompressible fluid
		}
		if bp.D[b] > 0 && mu > 0 {
			row.Reynolds = rho * math.Abs(v) * bp.D[b] / mu
			if lam, err := model.Lambda(row.Reynolds, bp.K[b]/bp.D[b]); err == nil {
				row.Lambda = lam
			}
		}

		if gas {
			pFrom, pTo := np.Pinit[from], np.Pinit[to]
			tFrom, tTo := np.Tinit[from], bp.TinitOut[b]
			nfFrom := normfactor(pFrom, tFrom)
			nfTo := normfactor(pTo, tTo)
			row.NormfactorFrom = nfFrom
			row.NormfactorTo = nfTo
			row.VFromMs = v * nfFrom
			row.VToMs = v * nfTo
			row.VdotNormM3S = bp.Area[b] * row.VFromMs
		}

		branches[b] = row
	}

	return nodes, branches, nil
}

// normfactor converts an actual-conditions volumetric flow to the
// normal-conditions equivalent pandapipes reports for gas networks:
// normfactor = (p/p_norm)·(T_norm/T).
func normfactor(pBar, tK float64) float64 {
	if tK <= 0 {
		return 0
	}
	return (pBar / normalPressureBar) * (normalTemperatureK / tK)
}

// nodeMassBalance sums signed mass flow across every active branch
// touching node i, plus the node's own external load — this should equal
// zero (within tolerance) for every converged solve.
func nodeMassBalance(np *pit.NodePit, bp *pit.BranchPit, i int, fl fluid.Properties) float64 {
	sum := np.Load[i]
	for b := range bp.Kind {
		if !bp.Active[b] {
			continue
		}
		rho := fl.Rho(np.Pinit[bp.FromNode[b]], np.Tinit[bp.FromNode[b]])
		mdot := rho * bp.Area[b] * bp.Vinit[b]
		switch i {
		case bp.FromNode[b]:
			sum -= mdot
		case bp.ToNode[b]:
			sum += mdot
		}
	}
	return sum
}
