package solver

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/pipeflow/comp"
	_ "github.com/cpmech/pipeflow/comp/pipe"
	"github.com/cpmech/pipeflow/fluid"
	"github.com/cpmech/pipeflow/pit"
)

func singlePipeActive() (*pit.Active, *comp.Context) {
	np := pit.NewNodePit(2)
	np.Active[0], np.Active[1] = true, true
	np.NodeType[0] = pit.Fixed
	np.Pbound[0] = 5.0
	np.Pinit[0] = 5.0
	np.Pinit[1] = 5.0

	bp := pit.NewBranchPit(1)
	bp.Kind[0] = pit.KindPipe
	bp.Active[0] = true
	bp.FromNode[0], bp.ToNode[0] = 0, 1
	bp.D[0] = 0.1
	bp.Area[0] = 0.25 * 3.14159265358979323846 * 0.1 * 0.1
	bp.Length[0] = 1000.0
	bp.K[0] = 0.01e-3
	bp.Opening[0] = 1.0
	bp.Vinit[0] = 1.0

	np.Load[1] = -10.0

	lk := pit.NewLookups()
	lk.BranchTables["pipe"] = pit.RowRange{From: 0, To: 1}

	ctx := &comp.Context{Lookups: lk, Fluid: fluid.Water{}, FrictionModel: "nikuradse", Gravity: 9.81}
	return &pit.Active{Node: np, Branch: bp}, ctx
}

func TestRunHydraulicConvergesToSeedValues(t *testing.T) {
	active, ctx := singlePipeActive()
	tol := Tolerances{Atol: 1e-8, Rtol: 1e-4, TolP: 1e-4, TolV: 1e-6, TolRes: 1e-8}
	cfg := Config{MaxIter: 50, NonlinearMethod: DampingAutomatic, Alpha0: 1.0, AlphaFloor: 1e-3}

	res, err := RunHydraulic(active, ctx, comp.DefaultOrder, tol, cfg)
	chk.EP(err)
	if !res.Converged {
		t.Fatalf("expected convergence within %d iterations, got residual_norm=%v", cfg.MaxIter, res.ResidualNorm)
	}
	chk.Float64(t, "p_out", 1e-2, active.Node.Pinit[1], 4.893)
	chk.Float64(t, "v", 1e-2, active.Branch.Vinit[0], 1.273)
}

func TestNextAlphaHalvesOnGrowthGrowsOnImprovement(t *testing.T) {
	chk.Float64(t, "halved", 1e-15, nextAlpha(1.0, true, false, 1e-3), 0.5)
	chk.Float64(t, "grown", 1e-15, nextAlpha(0.1, false, true, 1e-3), 1.0)
	chk.Float64(t, "held", 1e-15, nextAlpha(0.5, false, false, 1e-3), 0.5)
	chk.Float64(t, "floored", 1e-15, nextAlpha(1e-3, true, false, 1e-3), 1e-3)
}
