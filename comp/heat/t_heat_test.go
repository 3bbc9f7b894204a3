package heat

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/pipeflow/comp"
	"github.com/cpmech/pipeflow/fluid"
	"github.com/cpmech/pipeflow/pit"
)

func TestCreateSinkPitEntriesMarksControlActiveOnMassSetpoint(t *testing.T) {
	bp := pit.NewBranchPit(1)
	bp.D[0] = 0.1
	bp.Mass[0] = 5.0
	chk.EP(createSinkPitEntries(bp, pit.NewNodePit(0), pit.RowRange{From: 0, To: 1}, &comp.Context{}))
	if !bp.ControlActive[0] {
		t.Fatalf("expected a MASS setpoint to flip ControlActive on")
	}
	if bp.Area[0] <= 0 {
		t.Fatalf("expected area to be derived from diameter")
	}
}

func TestCreateSinkPitEntriesLeavesUncontrolledRowsAlone(t *testing.T) {
	bp := pit.NewBranchPit(1)
	bp.D[0] = 0.1
	chk.EP(createSinkPitEntries(bp, pit.NewNodePit(0), pit.RowRange{From: 0, To: 1}, &comp.Context{}))
	if bp.ControlActive[0] {
		t.Fatalf("expected no control without a MASS setpoint")
	}
}

func TestAdaptBeforeHydraulicSinkConvertsMassToVelocity(t *testing.T) {
	np := pit.NewNodePit(2)
	np.Pinit[0], np.Tinit[0] = 1.0, 277.0 // fluid.Water{}.Rho == 1000 here

	bp := pit.NewBranchPit(1)
	bp.FromNode[0] = 0
	bp.Area[0] = 0.01
	bp.Mass[0] = 10.0
	bp.ControlActive[0] = true

	ctx := &comp.Context{Fluid: fluid.Water{}}
	chk.EP(adaptBeforeHydraulicSink(bp, np, pit.RowRange{From: 0, To: 1}, ctx))

	chk.Float64(t, "vset = mass/(rho*area)", 1e-9, bp.Vset[0], 10.0/(1000.0*0.01))
	chk.Float64(t, "vinit clamped to vset", 1e-9, bp.Vinit[0], bp.Vset[0])
}

func TestResolveThermalControlPrefersTreturnOverDeltaT(t *testing.T) {
	np := pit.NewNodePit(1)
	bp := pit.NewBranchPit(1)
	bp.FromNodeT[0] = 0
	np.Tinit[0] = 350.0
	bp.Treturn[0] = 300.0
	bp.DeltaT[0] = -5.0 // would imply 345.0; Treturn must win
	bp.TinitOut[0] = 320.0

	chk.EP(resolveThermalControl(bp, np, pit.RowRange{From: 0, To: 1}, &comp.Context{}))

	chk.Float64(t, "TinitOut snapped to Treturn", 1e-15, bp.TinitOut[0], 300.0)
	chk.Float64(t, "JacDDt", 1e-15, bp.JacDDt[0], 0)
	chk.Float64(t, "JacDDtOut", 1e-15, bp.JacDDtOut[0], 1)
	chk.Float64(t, "JacDDt1 decoupled from downstream mixing", 1e-15, bp.JacDDt1[0], 0)
}

func TestResolveThermalControlAppliesDeltaTRelativeToInlet(t *testing.T) {
	np := pit.NewNodePit(1)
	bp := pit.NewBranchPit(1)
	bp.FromNodeT[0] = 0
	np.Tinit[0] = 350.0
	bp.DeltaT[0] = -10.0
	bp.TinitOut[0] = 350.0

	chk.EP(resolveThermalControl(bp, np, pit.RowRange{From: 0, To: 1}, &comp.Context{}))
	chk.Float64(t, "TinitOut", 1e-15, bp.TinitOut[0], 340.0)
}

func TestResolveThermalControlSkipsUnconfiguredRows(t *testing.T) {
	np := pit.NewNodePit(1)
	bp := pit.NewBranchPit(1)
	bp.TinitOut[0] = 310.0
	chk.EP(resolveThermalControl(bp, np, pit.RowRange{From: 0, To: 1}, &comp.Context{}))
	if math.IsNaN(bp.TinitOut[0]) || bp.TinitOut[0] != 310.0 {
		t.Fatalf("expected an unconfigured row to be left untouched, got %v", bp.TinitOut[0])
	}
}

func TestHeatKindsAreRegistered(t *testing.T) {
	for _, k := range []pit.Kind{pit.KindHeatExch, pit.KindHeatSource, pit.KindHeatSink} {
		h := comp.Get(k)
		if h.CreatePitEntries == nil || h.AdaptAfterThermal == nil {
			t.Fatalf("expected %v to register CreatePitEntries and AdaptAfterThermal", k)
		}
	}
	if comp.Get(pit.KindHeatSink).AdaptBeforeHydraulic == nil {
		t.Fatalf("expected heat sink to also register a hydraulic clamp")
	}
}
