// Package pump implements the pump / circulation-pump component: it
// replaces the Darcy-Weisbach friction residual with a pressure-rise
// characteristic evaluated via package pumpcurve.
package pump

import (
	"github.com/cpmech/pipeflow/comp"
	"github.com/cpmech/pipeflow/pit"
)

func init() {
	comp.Register(pit.KindPump, comp.Hooks{
		AdaptAfterHydraulic: adaptAfterHydraulic,
	})
}

// adaptAfterHydraulic overwrites the generic momentum row with
//
//	r = Δp(v) − (p_to − p_from)
//
// so that ∂r/∂v is the curve slope and ∂r/∂p_from=+1, ∂r/∂p_to=−1.
func adaptAfterHydraulic(bp *pit.BranchPit, np *pit.NodePit, rows pit.RowRange, ctx *comp.Context) error {
	for b := rows.From; b < rows.To; b++ {
		v := bp.Vinit[b]
		q := v * bp.Area[b] // volumetric flow [m3/s]
		dp, slope := ctx.PumpCurves.Eval(bp.PumpCurveID[b], q)

		from, to := bp.FromNode[b], bp.ToNode[b]
		r := dp - (np.Pinit[to] - np.Pinit[from])

		bp.JacDDv[b] = slope * bp.Area[b]
		bp.JacDDp[b] = 1
		bp.JacDDp1[b] = -1
		bp.LoadVecBranch[b] = -r
	}
	return nil
}
