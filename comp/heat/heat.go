// Package heat implements the three thermal-only branch kinds: heat
// exchanger, heat sink, and heat source. All three share one control
// resolution: exactly one of QEXT (prescribed heat load), DELTAT
// (prescribed outlet-minus-inlet temperature), TRETURN (prescribed outlet
// temperature), or MASS (prescribed mass flow) governs the row; the unused
// setpoint columns are NaN.
//
// QEXT needs no override at all — it is already a generic load term the
// shared thermal kernel adds directly into the advection-with-loss
// residual, the same way a pipe's own QEXT column works.
//
// HeatSink additionally composes flow-controller semantics: its
// create_pit_branch_entries runs the heat-exchanger initializer, then a
// flow-controller-style hydraulic clamp is layered on top when a mass
// flow is prescribed. This is the one branch kind in the component
// protocol that would be expressed as multiple inheritance in a
// class-based source; here it is two hook sets applied in sequence.
package heat

import (
	"github.com/cpmech/pipeflow/comp"
	"github.com/cpmech/pipeflow/comp/flowctrl"
	"github.com/cpmech/pipeflow/pit"
)

func init() {
	comp.Register(pit.KindHeatExch, comp.Hooks{
		CreatePitEntries:  createPitEntries,
		AdaptAfterThermal: resolveThermalControl,
	})
	comp.Register(pit.KindHeatSource, comp.Hooks{
		CreatePitEntries:  createPitEntries,
		AdaptAfterThermal: resolveThermalControl,
	})
	comp.Register(pit.KindHeatSink, comp.Hooks{
		CreatePitEntries:     createSinkPitEntries,
		AdaptBeforeHydraulic: adaptBeforeHydraulicSink,
		AdaptAfterHydraulic:  flowctrl.OverrideMomentumRow,
		AdaptAfterThermal:    resolveThermalControl,
	})
}

// createPitEntries fills in Area from D the same way a plain pipe does;
// a heat component with no hydraulic override is otherwise a pipe as far
// as the momentum row is concerned.
func createPitEntries(bp *pit.BranchPit, np *pit.NodePit, rows pit.RowRange, ctx *comp.Context) error {
	for b := rows.From; b < rows.To; b++ {
		if bp.Area[b] == 0 && bp.D[b] > 0 {
			bp.Area[b] = 0.25 * 3.14159265358979323846 * bp.D[b] * bp.D[b]
		}
	}
	return nil
}

// createSinkPitEntries runs the heat-exchanger initializer, then marks
// control_active on any row with a MASS setpoint so the flow-controller
// hooks layered on top know to clamp it.
func createSinkPitEntries(bp *pit.BranchPit, np *pit.NodePit, rows pit.RowRange, ctx *comp.Context) error {
	if err := createPitEntries(bp, np, rows, ctx); err != nil {
		return err
	}
	for b := rows.From; b < rows.To; b++ {
		if pit.IsSet(bp.Mass[b]) {
			bp.ControlActive[b] = true
		}
	}
	return nil
}

// adaptBeforeHydraulicSink converts the sink's prescribed mass flow into a
// velocity setpoint using the current node conditions, then delegates to
// the flow-controller clamp so the rest of the hydraulic pass sees an
// ordinary controlled branch.
func adaptBeforeHydraulicSink(bp *pit.BranchPit, np *pit.NodePit, rows pit.RowRange, ctx *comp.Context) error {
	for b := rows.From; b < rows.To; b++ {
		if !bp.ControlActive[b] || !pit.IsSet(bp.Mass[b]) {
			continue
		}
		from := bp.FromNode[b]
		rho := ctx.Fluid.Rho(np.Pinit[from], np.Tinit[from])
		if rho > 0 && bp.Area[b] > 0 {
			bp.Vset[b] = bp.Mass[b] / (rho * bp.Area[b])
		}
	}
	return flowctrl.ClampVelocity(bp, np, rows, ctx)
}

// resolveThermalControl snaps TINIT_OUT to the prescribed value and
// replaces the branch's own thermal row with the identity T_out = target
// whenever DELTAT or TRETURN governs it: JacDDt (∂r/∂T_in) is zeroed and
// JacDDtOut (∂r/∂T_out, the row's own diagonal) is set to 1 so the row
// alone pins T_out. JacDDt1 — the downstream node's energy-mixing
// sensitivity to this branch's T_out — is also zeroed, decoupling that
// node's balance from a quantity this row now fixes exogenously rather
// than solves for.
func resolveThermalControl(bp *pit.BranchPit, np *pit.NodePit, rows pit.RowRange, ctx *comp.Context) error {
	for b := rows.From; b < rows.To; b++ {
		var target float64
		switch {
		case pit.IsSet(bp.Treturn[b]):
			target = bp.Treturn[b]
		case pit.IsSet(bp.DeltaT[b]):
			target = np.Tinit[bp.FromNodeT[b]] + bp.DeltaT[b]
		default:
			continue
		}
		bp.JacDDt[b] = 0
		bp.JacDDtOut[b] = 1
		bp.JacDDt1[b] = 0
		bp.TinitOut[b] = target
		bp.LoadVecBranchT[b] = -(bp.TinitOut[b] - target)
	}
	return nil
}
