package pit

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

// single pipe: node 0 (fixed pressure) --pipe--> node 1 (free)
func twoNodeOnePipe() (*NodePit, *BranchPit) {
	np := NewNodePit(2)
	np.NodeType[0] = Fixed
	np.NodeTypeT[0] = Fixed
	bp := NewBranchPit(1)
	bp.Kind[0] = KindPipe
	bp.Active[0] = true
	bp.FromNode[0], bp.ToNode[0] = 0, 1
	bp.FromNodeT[0], bp.ToNodeT[0] = 0, 1
	bp.VinitT[0] = 1.0
	return np, bp
}

func TestIdentifyActiveHydraulic(t *testing.T) {
	np, bp := twoNodeOnePipe()
	err := IdentifyActive(np, bp, ModeHydraulic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	chk.Array(t, "node active", 1e-15, boolsToF(np.Active), []float64{1, 1})
	chk.Array(t, "branch active", 1e-15, boolsToF(bp.Active), []float64{1})
}

func TestIdentifyActiveNoBoundary(t *testing.T) {
	np, bp := twoNodeOnePipe()
	np.NodeType[0] = Free
	err := IdentifyActive(np, bp, ModeHydraulic)
	if err != ErrNoBoundary {
		t.Fatalf("expected ErrNoBoundary, got %v", err)
	}
}

func TestIdentifyActiveThermalNeedsFlow(t *testing.T) {
	np, bp := twoNodeOnePipe()
	bp.VinitT[0] = 0 // no flow => branch is thermally inactive
	err := IdentifyActive(np, bp, ModeHydraulic)
	chk.EP(err)
	err = IdentifyActive(np, bp, ModeThermal)
	chk.EP(err)
	if bp.Active[0] {
		t.Fatalf("branch with zero thermal flow must be thermally inactive")
	}
}

func TestReduceIsIdentityOnColumns(t *testing.T) {
	np, bp := twoNodeOnePipe()
	chk.EP(IdentifyActive(np, bp, ModeHydraulic))
	np.Pinit[1] = 4.5
	bp.Vinit[0] = 1.25
	a := Reduce(np, bp, ModeHydraulic)
	if len(a.Node.Active) != 2 || len(a.Branch.Active) != 1 {
		t.Fatalf("expected full reduction to be the identity when all rows are active")
	}
	a.Node.Pinit[1] = 9.9
	a.Branch.Vinit[0] = 3.3
	a.ScatterBack(np, bp)
	chk.Float64(t, "pinit scattered back", 1e-15, np.Pinit[1], 9.9)
	chk.Float64(t, "vinit scattered back", 1e-15, bp.Vinit[0], 3.3)
}

func boolsToF(b []bool) []float64 {
	f := make([]float64, len(b))
	for i, v := range b {
		if v {
			f[i] = 1
		}
	}
	return f
}
