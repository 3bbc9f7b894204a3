package assembly

import (
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/pipeflow/comp"
	"github.com/cpmech/pipeflow/pit"
)

// rhoEps is the relative pressure step used for the finite-difference
// ∂ρ/∂p sensitivity a compressible fluid needs in the node continuity
// Jacobian; incompressible fluids skip the extra assembly work entirely.
const rhoEps = 1e-4

// BuildHydraulic assembles the sparse Jacobian and Fb ("already-negated
// residual", matching fem/domain.go's Kb/Fb naming) for the hydraulic
// subproblem over an active PIT: node continuity rows [0,n), branch
// momentum rows [n,n+m). DeriveHydraulic (plus any component
// after-derivative override) must have already populated JacDDv/JacDDp/
// JacDDp1/LoadVecBranch.
func BuildHydraulic(bp *pit.BranchPit, np *pit.NodePit, ctx *comp.Context) (*la.Triplet, []float64, error) {
	n := len(np.Active)
	m := len(bp.Active)
	size := n + m

	// each branch contributes at most 2 continuity entries + 2 compressible
	// density-sensitivity entries + 3 branch-row entries; plus one
	// Dirichlet diagonal per node.
	Kb := new(la.Triplet)
	Kb.Init(size, size, 7*m+n)

	Fb := make([]float64, size)
	compressible := ctx.Fluid.Compressible()

	for i := 0; i < n; i++ {
		if np.NodeType[i] == pit.Fixed {
			Kb.Put(i, i, 1)
			Fb[i] = np.Pbound[i] - np.Pinit[i]
			continue
		}
		Fb[i] = np.Load[i]
	}

	for b := 0; b < m; b++ {
		if !bp.Active[b] {
			continue
		}
		from, to := bp.FromNode[b], bp.ToNode[b]
		v := bp.Vinit[b]
		rho := ctx.Fluid.Rho(np.Pinit[from], np.Tinit[from])
		massflow := rho * bp.Area[b] * v

		// Fb holds -R_node where R_node = net outflow - load (target 0);
		// Kb holds the raw (unnegated) Jacobian of R_node, matching the
		// convention branch rows use below.
		if np.NodeType[from] != pit.Fixed {
			Fb[from] -= massflow
			Kb.Put(from, n+b, rho*bp.Area[b])
		}
		if np.NodeType[to] != pit.Fixed {
			Fb[to] += massflow
			Kb.Put(to, n+b, -rho*bp.Area[b])
		}

		if compressible {
			drhodp := (ctx.Fluid.Rho(np.Pinit[from]*(1+rhoEps), np.Tinit[from]) - rho) / (np.Pinit[from] * rhoEps)
			dmassflowDp := drhodp * bp.Area[b] * v
			if np.NodeType[from] != pit.Fixed {
				Kb.Put(from, from, dmassflowDp)
			}
			if np.NodeType[to] != pit.Fixed {
				Kb.Put(to, from, -dmassflowDp)
			}
		}

		row := n + b
		Kb.Put(row, n+b, bp.JacDDv[b])
		Kb.Put(row, from, bp.JacDDp[b])
		Kb.Put(row, to, bp.JacDDp1[b])
		Fb[row] = bp.LoadVecBranch[b]
	}

	return Kb, Fb, nil
}

// BuildThermal assembles the sparse Jacobian and Fb for the thermal
// subproblem over an active PIT: node energy-mixing rows [0,n), branch
// advection-with-loss rows [n,n+m). Node temperature unknowns are mixed
// by mass-flow-weighted averaging of incoming branch outlet
// temperatures; outgoing branches draw their inlet temperature from the
// node's own unknown. Velocities are frozen for the thermal subproblem
// (carried over from the converged hydraulic solve), so mass flow is a
// constant coefficient here, not a Jacobian column.
func BuildThermal(bp *pit.BranchPit, np *pit.NodePit, ctx *comp.Context) (*la.Triplet, []float64, error) {
	n := len(np.Active)
	m := len(bp.Active)
	size := n + m

	Kb := new(la.Triplet)
	Kb.Init(size, size, 3*m+n)

	Fb := make([]float64, size)

	for i := 0; i < n; i++ {
		if np.NodeTypeT[i] == pit.Fixed {
			Kb.Put(i, i, 1)
			Fb[i] = np.Tbound[i] - np.Tinit[i]
			continue
		}
		Fb[i] = np.LoadT[i]
	}

	for b := 0; b < m; b++ {
		if !bp.Active[b] {
			continue
		}
		from, to := bp.FromNodeT[b], bp.ToNodeT[b]
		rho := ctx.Fluid.Rho(np.Pinit[from], np.Tinit[from])
		cp := ctx.Fluid.Cp(np.Pinit[from], np.Tinit[from])
		mdotCp := rho * bp.Area[b] * cp * bp.VinitT[b]

		// same R_node convention as BuildHydraulic: Fb = -R_node, Kb = raw
		// ∂R_node/∂x.
		if np.NodeTypeT[from] != pit.Fixed {
			Fb[from] -= mdotCp * np.Tinit[from]
			Kb.Put(from, from, mdotCp)
		}
		if np.NodeTypeT[to] != pit.Fixed {
			Fb[to] += mdotCp * bp.TinitOut[b]
			Kb.Put(to, n+b, -bp.JacDDt1[b])
		}

		row := n + b
		Kb.Put(row, n+b, bp.JacDDtOut[b])
		Kb.Put(row, from, bp.JacDDt[b])
		Fb[row] = bp.LoadVecBranchT[b]
	}

	return Kb, Fb, nil
}
