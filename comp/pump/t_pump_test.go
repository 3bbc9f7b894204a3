package pump

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/pipeflow/comp"
	"github.com/cpmech/pipeflow/pit"
	"github.com/cpmech/pipeflow/pumpcurve"
)

func TestAdaptAfterHydraulicMatchesCurveAtOperatingPoint(t *testing.T) {
	np := pit.NewNodePit(2)
	np.Pinit[0], np.Pinit[1] = 1.0, 1.0 // zero ∆p, so r = dp exactly

	bp := pit.NewBranchPit(1)
	bp.FromNode[0], bp.ToNode[0] = 0, 1
	bp.Area[0] = 0.01
	bp.Vinit[0] = 2.0 // q = 0.02

	curves := pumpcurve.NewRegistry()
	id := curves.Add(pumpcurve.Polynomial{Coeffs: []float64{3.0, -10.0}}) // dp(q)=3-10q
	bp.PumpCurveID[0] = id

	ctx := &comp.Context{PumpCurves: curves}
	chk.EP(adaptAfterHydraulic(bp, np, pit.RowRange{From: 0, To: 1}, ctx))

	dp, slope := curves.Eval(id, 0.02)
	chk.Float64(t, "LoadVecBranch = -dp", 1e-12, bp.LoadVecBranch[0], -dp)
	chk.Float64(t, "JacDDv = slope*area", 1e-12, bp.JacDDv[0], slope*bp.Area[0])
	chk.Float64(t, "JacDDp", 1e-15, bp.JacDDp[0], 1)
	chk.Float64(t, "JacDDp1", 1e-15, bp.JacDDp1[0], -1)
}

func TestKindPumpIsRegistered(t *testing.T) {
	h := comp.Get(pit.KindPump)
	if h.AdaptAfterHydraulic == nil {
		t.Fatalf("expected pump's AdaptAfterHydraulic to be registered via init()")
	}
}
