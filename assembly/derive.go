// Package assembly implements the generic per-branch derivative kernel
// shared by every component kind — the Darcy-Weisbach momentum balance
// and the advection-with-loss thermal balance, applied uniformly as if
// every branch were a plain pipe — plus the sparse Jacobian/residual
// assembly that turns a populated active PIT into a linear system a
// Newton step can solve. Component-specific physics (pump curve, closed
// valve, flow-controller row, heat-sink control) overwrites these generic
// results afterward via the comp package's after-derivative hooks; this
// package never imports comp/pump, comp/valve, comp/flowctrl, or
// comp/heat, only the generic comp.Context collaborator.
package assembly

import (
	"math"
	"sync"

	"github.com/cpmech/pipeflow/comp"
	"github.com/cpmech/pipeflow/pit"
)

const pa2bar = 1e-5 // Pa -> bar

// workerChunks splits [0,n) into up to w contiguous row ranges for the
// bounded goroutine pool; w<=1 yields a single chunk (sequential path).
func workerChunks(n, w int) []pit.RowRange {
	if w < 1 {
		w = 1
	}
	if w > n {
		w = n
	}
	if w <= 1 || n == 0 {
		return []pit.RowRange{{From: 0, To: n}}
	}
	chunks := make([]pit.RowRange, 0, w)
	size := (n + w - 1) / w
	for from := 0; from < n; from += size {
		to := from + size
		if to > n {
			to = n
		}
		chunks = append(chunks, pit.RowRange{From: from, To: to})
	}
	return chunks
}

// runChunked calls fn over each chunk of [0,n), sequentially if workers<=1
// or n is small, else spread across a bounded goroutine pool. Every chunk
// touches disjoint branch rows, so no synchronization is needed beyond
// the WaitGroup join.
func runChunked(n, workers int, fn func(rows pit.RowRange)) {
	chunks := workerChunks(n, workers)
	if len(chunks) == 1 {
		fn(chunks[0])
		return
	}
	var wg sync.WaitGroup
	wg.Add(len(chunks))
	for _, rows := range chunks {
		rows := rows
		go func() {
			defer wg.Done()
			fn(rows)
		}()
	}
	wg.Wait()
}

// DeriveHydraulic fills JacDDv/JacDDp/JacDDp1/LoadVecBranch for every
// active branch with the generic Darcy-Weisbach momentum balance
//
//	r = ρ·A·v·|v|·(λ·L/D)/2 − (p_from − p_to) − ρ·g·(h_to − h_from)
//
// A branch with zero velocity has no friction contribution (v|v| and its
// derivative both vanish at v=0), so the friction-model lookup — and the
// Reynolds-number domain error it would otherwise raise — is skipped
// entirely for stalled branches.
func DeriveHydraulic(bp *pit.BranchPit, np *pit.NodePit, ctx *comp.Context, workers int) error {
	model, _ := ctx.ResolveFriction()

	n := len(bp.Active)
	var firstErr error
	var mu sync.Mutex
	runChunked(n, workers, func(rows pit.RowRange) {
		for b := rows.From; b < rows.To; b++ {
			if !bp.Active[b] {
				continue
			}
			from, to := bp.FromNode[b], bp.ToNode[b]
			v := bp.Vinit[b]
			rho := ctx.Fluid.Rho(np.Pinit[from], np.Tinit[from])

			var friction, dFrictionDv float64
			if v != 0 && bp.D[b] > 0 {
				mu_ := ctx.Fluid.Mu(np.Pinit[from], np.Tinit[from])
				re := rho * math.Abs(v) * bp.D[b] / mu_
				lam, err := model.Lambda(re, bp.K[b]/bp.D[b])
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					continue
				}
				lam *= bp.Opening[b]
				bp.Lambda[b] = lam
				coef := rho * bp.Area[b] * lam * bp.Length[b] / bp.D[b]
				friction = 0.5 * coef * v * math.Abs(v)
				dFrictionDv = coef * math.Abs(v)
			}

			gravity := rho * ctx.Gravity * (np.Height[to] - np.Height[from]) * pa2bar

			r := friction - (np.Pinit[from] - np.Pinit[to]) - gravity

			bp.JacDDv[b] = dFrictionDv
			bp.JacDDp[b] = -1
			bp.JacDDp1[b] = 1
			bp.LoadVecBranch[b] = -r
		}
	})
	return firstErr
}

// DeriveThermal fills JacDDt/JacDDt1/JacDDtOut/LoadVecBranchT for every
// active branch with the generic advection-with-loss balance
//
//	r_T = ρ·A·cp·v·(T_in − T_out − TL) − α·(T_amb − T_mean)·L + Q_ext
//
// T_in is read at FROM_NODE_T, T_out at TINIT_OUT; both were already
// oriented to the physical flow direction by pit.NormalizeThermalFrame.
// JacDDt/JacDDtOut are this branch's own row's partials w.r.t. T_in/T_out;
// JacDDt1 is the mass-flow-weighted coefficient the downstream node's own
// energy-mixing row uses to pull in this branch's T_out (mirroring the
// hydraulic row's JacDDp/JacDDp1 split between the two node endpoints, but
// here the branch's own row only ever touches one node — T_out is its own
// scratch column, not a second node unknown).
func DeriveThermal(bp *pit.BranchPit, np *pit.NodePit, ctx *comp.Context, workers int) error {
	n := len(bp.Active)
	runChunked(n, workers, func(rows pit.RowRange) {
		for b := rows.From; b < rows.To; b++ {
			if !bp.Active[b] {
				continue
			}
			from := bp.FromNodeT[b]
			tIn := np.Tinit[from]
			tOut := bp.TinitOut[b]
			tl := 0.0
			if pit.IsSet(bp.Tl[b]) {
				tl = bp.Tl[b]
			}
			tMean := (tIn + tOut) / 2

			rho := ctx.Fluid.Rho(np.Pinit[from], tIn)
			cp := ctx.Fluid.Cp(np.Pinit[from], tIn)
			mdotCp := rho * bp.Area[b] * cp * bp.VinitT[b]

			qext := 0.0
			if pit.IsSet(bp.Qext[b]) {
				qext = bp.Qext[b]
			}

			r := mdotCp*(tIn-tOut-tl) - bp.Alpha[b]*(bp.Text[b]-tMean)*bp.Length[b] + qext

			bp.JacDDt[b] = mdotCp + bp.Alpha[b]*bp.Length[b]*0.5
			bp.JacDDtOut[b] = -mdotCp + bp.Alpha[b]*bp.Length[b]*0.5
			bp.JacDDt1[b] = mdotCp
			bp.LoadVecBranchT[b] = -r
		}
	})
	return nil
}
