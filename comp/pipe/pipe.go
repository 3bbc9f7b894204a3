// Package pipe implements the plain pipe-segment component. A pipe never
// overrides the generic derivative kernel — the
// Darcy-Weisbach momentum balance and advection-with-loss thermal balance
// computed by package assembly *is* the pipe equation — so this package
// only needs to register table setup. It exists so every component kind,
// including the "no override" baseline, is dispatched the same uniform
// way (fem/element.go's allocator maps never special-case a "default"
// element either).
package pipe

import (
	"github.com/cpmech/pipeflow/comp"
	"github.com/cpmech/pipeflow/pit"
)

func init() {
	comp.Register(pit.KindPipe, comp.Hooks{
		CreatePitEntries: createPitEntries,
	})
}

// createPitEntries fills per-row geometry defaults the network builder did
// not set explicitly: Area is derived from D where it is still zero.
// D/Length/K/Alpha/Text are expected to already be populated from the
// input frame by the time this runs, mirroring
// fem/domain.go's element allocation which assumes geometry was read from
// the mesh before the domain is built.
func createPitEntries(bp *pit.BranchPit, np *pit.NodePit, rows pit.RowRange, ctx *comp.Context) error {
	for b := rows.From; b < rows.To; b++ {
		if bp.Area[b] == 0 && bp.D[b] > 0 {
			bp.Area[b] = 0.25 * 3.14159265358979323846 * bp.D[b] * bp.D[b]
		}
	}
	return nil
}
