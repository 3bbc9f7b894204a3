package pit

import "github.com/cpmech/gosl/chk"

// Mode selects which subproblem connectivity is being evaluated for.
type Mode int8

const (
	ModeHydraulic Mode = iota
	ModeThermal
)

// ErrNoBoundary is returned by IdentifyActive when the network has no
// Dirichlet-pressure (ext-grid) node at all, making the hydraulic system
// underdetermined.
var ErrNoBoundary = chk.Err("pipeflow: no external-grid / fixed-pressure boundary node found (NoBoundary)")

// buildAdjacency is a small BFS helper: for every node row, the branch rows
// incident to it (topological endpoints for hydraulic reachability,
// thermal endpoints for thermal reachability).
func buildAdjacency(bp *BranchPit, nNodes int, thermal bool) [][]int {
	adj := make([][]int, nNodes)
	for b := range bp.Kind {
		if !bp.Active[b] {
			continue
		}
		var from, to int
		if thermal {
			from, to = bp.FromNodeT[b], bp.ToNodeT[b]
		} else {
			from, to = bp.FromNode[b], bp.ToNode[b]
		}
		adj[from] = append(adj[from], b)
		adj[to] = append(adj[to], b)
	}
	return adj
}

// IdentifyActive performs a BFS reachability analysis from the network's
// boundary nodes and writes the ACTIVE columns of both tables in place.
//
// Hydraulic mode: a node is active iff reachable, over active branches,
// from some Dirichlet-pressure node. A branch is active iff both its
// (hydraulic) endpoints are active.
//
// Thermal mode: a node must already be hydraulically active, AND
// additionally reachable over branches carrying non-zero mass flow (thermal
// endpoints) from a Dirichlet-temperature node. Branches are active iff
// both thermal endpoints are active and the branch carries non-zero flow.
func IdentifyActive(np *NodePit, bp *BranchPit, mode Mode) error {
	n := len(np.Active)

	// every row starts "active" unless explicitly deactivated upstream
	// (in_service == false); callers set that before calling this.
	hasBoundary := false
	for i := 0; i < n; i++ {
		if np.NodeType[i] == Fixed {
			hasBoundary = true
			break
		}
	}
	if !hasBoundary {
		return ErrNoBoundary
	}

	// hydraulic reachability is always computed first; thermal active
	// status is a strict subset of it.
	hydReach := bfsReachable(np, bp, n, false, func(i int) bool { return np.NodeType[i] == Fixed })
	for i := 0; i < n; i++ {
		np.Active[i] = hydReach[i]
	}
	for b := range bp.Kind {
		bp.Active[b] = hydReach[bp.FromNode[b]] && hydReach[bp.ToNode[b]]
	}

	if mode == ModeHydraulic {
		return nil
	}

	// thermal: restrict to branches with non-zero mass flow, seeded from
	// Dirichlet-temperature nodes that are already hydraulically active.
	thermalBP := &BranchPit{
		Kind: bp.Kind, Active: make([]bool, len(bp.Active)),
		FromNodeT: bp.FromNodeT, ToNodeT: bp.ToNodeT,
	}
	for b := range bp.Kind {
		thermalBP.Active[b] = bp.Active[b] && bp.VinitT[b] != 0
	}
	thermReach := bfsReachable(np, thermalBP, n, true, func(i int) bool {
		return hydReach[i] && np.NodeTypeT[i] == Fixed
	})
	for i := 0; i < n; i++ {
		np.Active[i] = hydReach[i] && thermReach[i]
	}
	for b := range bp.Kind {
		bp.Active[b] = np.Active[bp.FromNodeT[b]] && np.Active[bp.ToNodeT[b]] && bp.VinitT[b] != 0
	}
	return nil
}

func bfsReachable(np *NodePit, bp *BranchPit, n int, thermal bool, isSeed func(int) bool) []bool {
	adj := buildAdjacency(bp, n, thermal)
	reached := make([]bool, n)
	queue := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if isSeed(i) {
			reached[i] = true
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		for _, b := range adj[i] {
			var from, to int
			if thermal {
				from, to = bp.FromNodeT[b], bp.ToNodeT[b]
			} else {
				from, to = bp.FromNode[b], bp.ToNode[b]
			}
			other := from
			if other == i {
				other = to
			}
			if !reached[other] {
				reached[other] = true
				queue = append(queue, other)
			}
		}
	}
	return reached
}

// Identity returns an Active view directly over the full PIT, skipping the
// BFS reachability analysis Reduce/IdentifyActive perform: every row is
// marked active as-is and the full2active/active2full permutations are the
// identity. Callers take on responsibility for the network actually having
// no disconnected subgraph, since an unreachable branch left active would
// make the assembled Jacobian singular rather than simply get excluded.
func Identity(np *NodePit, bp *BranchPit) *Active {
	n := len(np.Active)
	nb := len(bp.Kind)
	for i := 0; i < n; i++ {
		np.Active[i] = true
	}
	for b := 0; b < nb; b++ {
		bp.Active[b] = true
	}
	nodeIdent := make([]int, n)
	branchIdent := make([]int, nb)
	for i := range nodeIdent {
		nodeIdent[i] = i
	}
	for b := range branchIdent {
		branchIdent[b] = b
	}
	return &Active{
		Node:              np,
		Branch:            bp,
		NodeFull2Active:   nodeIdent,
		NodeActive2Full:   nodeIdent,
		BranchFull2Active: branchIdent,
		BranchActive2Full: branchIdent,
	}
}

// Active is a reduced, compacted view of a PIT containing only active
// rows, plus the permutations needed to scatter a solution back into the
// full PIT once a solve converges.
type Active struct {
	Node   *NodePit
	Branch *BranchPit

	// NodeFull2Active[i] is the row of full node i in the active node
	// table, or -1 if node i is inactive.
	NodeFull2Active []int
	// NodeActive2Full[k] is the full-PIT row that active row k came from.
	NodeActive2Full []int

	BranchFull2Active []int
	BranchActive2Full []int
}

// Reduce gathers active rows of np/bp into a compacted Active view. Branch
// endpoint indices are remapped to active-node row numbers so assembly can
// address the compacted node table directly.
func Reduce(np *NodePit, bp *BranchPit, mode Mode) *Active {
	n := len(np.Active)
	nb := len(bp.Kind)

	full2active := make([]int, n)
	var active2full []int
	for i := 0; i < n; i++ {
		if np.Active[i] {
			full2active[i] = len(active2full)
			active2full = append(active2full, i)
		} else {
			full2active[i] = -1
		}
	}

	bfull2active := make([]int, nb)
	var bactive2full []int
	for b := 0; b < nb; b++ {
		if bp.Active[b] {
			bfull2active[b] = len(bactive2full)
			bactive2full = append(bactive2full, b)
		} else {
			bfull2active[b] = -1
		}
	}

	anp := NewNodePit(len(active2full))
	for k, i := range active2full {
		anp.Active[k] = true
		anp.NodeType[k] = np.NodeType[i]
		anp.NodeTypeT[k] = np.NodeTypeT[i]
		anp.Pinit[k] = np.Pinit[i]
		anp.Tinit[k] = np.Tinit[i]
		anp.Height[k] = np.Height[i]
		anp.Pamb[k] = np.Pamb[i]
		anp.Tamb[k] = np.Tamb[i]
		anp.Load[k] = np.Load[i]
		anp.LoadT[k] = np.LoadT[i]
		anp.Pbound[k] = np.Pbound[i]
		anp.Tbound[k] = np.Tbound[i]
	}

	abp := NewBranchPit(len(bactive2full))
	for k, b := range bactive2full {
		abp.Kind[k] = bp.Kind[b]
		abp.Active[k] = true
		abp.FromNode[k] = full2active[bp.FromNode[b]]
		abp.ToNode[k] = full2active[bp.ToNode[b]]
		abp.FromNodeT[k] = full2active[bp.FromNodeT[b]]
		abp.ToNodeT[k] = full2active[bp.ToNodeT[b]]
		abp.D[k] = bp.D[b]
		abp.Area[k] = bp.Area[b]
		abp.Length[k] = bp.Length[b]
		abp.K[k] = bp.K[b]
		abp.Lambda[k] = bp.Lambda[b]
		abp.Alpha[k] = bp.Alpha[b]
		abp.Text[k] = bp.Text[b]
		abp.Vinit[k] = bp.Vinit[b]
		abp.VinitT[k] = bp.VinitT[b]
		abp.TinitOut[k] = bp.TinitOut[b]
		abp.Qext[k] = bp.Qext[b]
		abp.Tl[k] = bp.Tl[b]
		abp.DeltaT[k] = bp.DeltaT[b]
		abp.Treturn[k] = bp.Treturn[b]
		abp.Mass[k] = bp.Mass[b]
		abp.ControlActive[k] = bp.ControlActive[b]
		abp.Vset[k] = bp.Vset[b]
		abp.Closed[k] = bp.Closed[b]
		abp.Opening[k] = bp.Opening[b]
		abp.PumpCurveID[k] = bp.PumpCurveID[b]
	}

	return &Active{
		Node:              anp,
		Branch:            abp,
		NodeFull2Active:   full2active,
		NodeActive2Full:   active2full,
		BranchFull2Active: bfull2active,
		BranchActive2Full: bactive2full,
	}
}

// Lookups remaps a full-PIT branch lookup table into this Active view's
// compacted row numbering. Reduce preserves the original row order when
// compacting (it only skips inactive rows), and every Kind occupies a
// contiguous block in the full table (BranchTableFor lays them out that
// way), so the active subset of any one Kind's block is itself contiguous
// in the compacted table — this just finds that block's new bounds.
func (a *Active) Lookups(full *Lookups) *Lookups {
	lk := NewLookups()
	for name, rng := range full.BranchTables {
		from, to := -1, -1
		for b := rng.From; b < rng.To; b++ {
			k := a.BranchFull2Active[b]
			if k == -1 {
				continue
			}
			if from == -1 {
				from = k
			}
			to = k + 1
		}
		if from == -1 {
			lk.BranchTables[name] = RowRange{}
			continue
		}
		lk.BranchTables[name] = RowRange{From: from, To: to}
	}
	return lk
}

// ScatterBack copies the converged active-PIT iterate values back into the
// corresponding rows of the full PIT. Callers must only invoke this after
// convergence is confirmed — an aborted solve should leave the full PIT
// untouched.
func (a *Active) ScatterBack(np *NodePit, bp *BranchPit) {
	for k, i := range a.NodeActive2Full {
		np.Pinit[i] = a.Node.Pinit[k]
		np.Tinit[i] = a.Node.Tinit[k]
	}
	for k, b := range a.BranchActive2Full {
		bp.Vinit[b] = a.Branch.Vinit[k]
		bp.VinitT[b] = a.Branch.VinitT[k]
		bp.TinitOut[b] = a.Branch.TinitOut[k]
		bp.Lambda[b] = a.Branch.Lambda[k]
	}
}
