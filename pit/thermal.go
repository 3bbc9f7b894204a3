package pit

// NormalizeThermalFrame derives the thermal endpoints and velocity
// magnitude from the converged hydraulic iterate, once, at the start of a
// thermal solve: VINIT_T becomes |VINIT|, and FROM_NODE_T/TO_NODE_T are
// set to the physical upstream/downstream nodes, swapping FromNode/ToNode
// when the branch carries negative (reverse) flow.
func NormalizeThermalFrame(bp *BranchPit) {
	for b := range bp.Vinit {
		if bp.Vinit[b] < 0 {
			bp.FromNodeT[b] = bp.ToNode[b]
			bp.ToNodeT[b] = bp.FromNode[b]
			bp.VinitT[b] = -bp.Vinit[b]
		} else {
			bp.FromNodeT[b] = bp.FromNode[b]
			bp.ToNodeT[b] = bp.ToNode[b]
			bp.VinitT[b] = bp.Vinit[b]
		}
	}
}
