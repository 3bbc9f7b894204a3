// Package valve implements the two-mode valve component. The open mode
// needs no override: its opening factor is read directly by
// the generic derivative kernel (package assembly) as a friction
// multiplier on every branch's Lambda column (default 1.0 is a no-op for
// every other component kind). Only the closed mode needs an override,
// replacing the row with the identity equation v=0.
package valve

import (
	"github.com/cpmech/pipeflow/comp"
	"github.com/cpmech/pipeflow/pit"
)

func init() {
	comp.Register(pit.KindValve, comp.Hooks{
		AdaptAfterHydraulic: adaptAfterHydraulic,
	})
}

// adaptAfterHydraulic replaces the momentum row of every closed valve with
// r = v, decoupling the two endpoints hydraulically.
func adaptAfterHydraulic(bp *pit.BranchPit, np *pit.NodePit, rows pit.RowRange, ctx *comp.Context) error {
	for b := rows.From; b < rows.To; b++ {
		if !bp.Closed[b] {
			continue
		}
		bp.JacDDv[b] = 1
		bp.JacDDp[b] = 0
		bp.JacDDp1[b] = 0
		bp.LoadVecBranch[b] = -bp.Vinit[b]
	}
	return nil
}
