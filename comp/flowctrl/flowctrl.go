// Package flowctrl implements the flow-controller component: when
// control_active, the branch velocity is forced to a controlled setpoint
// and the momentum row is relaxed so it no longer pins the
// upstream/downstream pressure difference, letting the upstream pressure
// float (the row's ∂r/∂p columns go to zero, grounded on
// fem/essenbcs.go's A*y=c constraint-row idiom, specialized here to a
// single velocity DOF rather than an augmented multiplier column).
package flowctrl

import (
	"github.com/cpmech/pipeflow/comp"
	"github.com/cpmech/pipeflow/pit"
)

func init() {
	comp.Register(pit.KindFlowCtrl, comp.Hooks{
		AdaptBeforeHydraulic: ClampVelocity,
		AdaptAfterHydraulic:  OverrideMomentumRow,
	})
}

// ClampVelocity clamps VINIT to the controlled setpoint ahead of the
// generic derivative kernel, so residuals elsewhere in the network (node
// continuity) see the controlled flow immediately rather than lagging one
// iteration behind. Exported so comp/heat.Sink can layer the same
// flow-controller semantics on top of its heat-exchanger initialization.
func ClampVelocity(bp *pit.BranchPit, np *pit.NodePit, rows pit.RowRange, ctx *comp.Context) error {
	for b := rows.From; b < rows.To; b++ {
		if bp.ControlActive[b] {
			bp.Vinit[b] = bp.Vset[b]
		}
	}
	return nil
}

// OverrideMomentumRow replaces the momentum row with r = v − v_set,
// zeroing the pressure partials so the branch no longer constrains the
// pressure drop across it. Exported for the same reason as ClampVelocity.
func OverrideMomentumRow(bp *pit.BranchPit, np *pit.NodePit, rows pit.RowRange, ctx *comp.Context) error {
	for b := rows.From; b < rows.To; b++ {
		if !bp.ControlActive[b] {
			continue
		}
		bp.JacDDv[b] = 1
		bp.JacDDp[b] = 0
		bp.JacDDp1[b] = 0
		bp.LoadVecBranch[b] = -(bp.Vinit[b] - bp.Vset[b])
	}
	return nil
}
