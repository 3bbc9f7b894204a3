package solver

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/pipeflow/assembly"
	"github.com/cpmech/pipeflow/comp"
	"github.com/cpmech/pipeflow/pit"
)

// linSolverName matches inp.SolverData's own default: umfpack unless the
// build is MPI-enabled, in which case fem/domain.go prefers mumps. A
// single-process pipeflow call has no distributed concept, so umfpack is
// the only choice that applies here.
const linSolverName = "umfpack"

// LinSolCache retains one la.LinSol instance across Newton iterations and
// across separate solver calls, rather than allocating and cleaning a fresh
// umfpack instance every step. It is invalidated the moment the assembled
// system's size changes — the cheap proxy for "the network's active
// topology changed" that reuse_internal_data relies on, since a changed
// active-row count always means pit.Reduce ran again.
type LinSolCache struct {
	ls   la.LinSol
	size int
}

func (c *LinSolCache) get(size int) la.LinSol {
	if c.ls != nil && c.size == size {
		return c.ls
	}
	if c.ls != nil {
		c.ls.Clean()
	}
	c.ls = la.GetSolver(linSolverName)
	c.size = size
	return c.ls
}

// solveStep factors Kb and solves Kb*dx = Fb, mirroring the
// InitR/Fact/SolveR/Clean sequence fem/solver.go runs once per Newton
// iteration. With a non-nil cache the same la.LinSol is reused instead of
// being cleaned after every call.
func solveStep(cache *LinSolCache, Kb *la.Triplet, Fb []float64) ([]float64, error) {
	var ls la.LinSol
	if cache != nil {
		ls = cache.get(len(Fb))
	} else {
		ls = la.GetSolver(linSolverName)
		defer ls.Clean()
	}
	ls.InitR(Kb, false, false, false)
	if err := ls.Fact(); err != nil {
		return nil, chk.Err("solver: factorisation failed: %v", err)
	}
	dx := make([]float64, len(Fb))
	if err := ls.SolveR(dx, Fb, false); err != nil {
		return nil, chk.Err("solver: solve failed: %v", err)
	}
	return dx, nil
}

// nextAlpha applies the automatic-damping rule: halve (floored) if every
// tracked error grew since the previous iteration, grow by 10x (capped at
// 1.0) if any shrank, otherwise hold steady.
func nextAlpha(alpha float64, grew, haveImprovement bool, floor float64) float64 {
	switch {
	case grew:
		a := alpha / 2
		if a < floor {
			a = floor
		}
		return a
	case haveImprovement:
		a := alpha * 10
		if a > 1.0 {
			a = 1.0
		}
		return a
	}
	return alpha
}

// RunHydraulic drives the hydraulic Newton loop to convergence: each
// iteration runs the before-derivative hooks, the shared derivative
// kernel, the after-derivative hooks, assembles (Kb, Fb), solves for
// (Δp, Δv), applies Δp damped by α and Δv undamped — only the node/pressure
// family is damped — and checks convergence. When automatic damping is
// active, any variable whose error grew against the previous iteration is
// rolled back to its pre-step value, and the iteration is held
// not-converged for as long as α has not recovered to 1 — mirroring
// solve_hydraulics/finalize_iteration's per-variable rollback.
func RunHydraulic(active *pit.Active, ctx *comp.Context, order []pit.Kind, tol Tolerances, cfg Config) (Result, error) {
	np, bp := active.Node, active.Branch
	n, m := len(np.Active), len(bp.Active)

	alpha := cfg.Alpha0
	var lastErrP, lastErrV float64
	res := Result{FinalAlpha: alpha}

	if cfg.Verbose {
		io.Pfyel("%4s%23s%23s%23s%10s\n", "it", "errP", "errV", "residual", "alpha")
	}

	for it := 0; it < cfg.MaxIter; it++ {
		if err := comp.RunAdaptions(bp, np, ctx.Lookups, order, comp.PhaseBeforeHydraulic, ctx); err != nil {
			return res, err
		}
		if err := assembly.DeriveHydraulic(bp, np, ctx, cfg.Workers); err != nil {
			return res, err
		}
		if err := comp.RunAdaptions(bp, np, ctx.Lookups, order, comp.PhaseAfterHydraulic, ctx); err != nil {
			return res, err
		}

		Kb, Fb, err := assembly.BuildHydraulic(bp, np, ctx)
		if err != nil {
			return res, err
		}
		dx, err := solveStep(cfg.LinSolCache, Kb, Fb)
		if err != nil {
			return res, err
		}

		prevP := append([]float64(nil), np.Pinit...)
		prevV := append([]float64(nil), bp.Vinit...)
		deltaP := dx[:n]
		deltaV := dx[n:]

		for i := 0; i < n; i++ {
			if np.NodeType[i] != pit.Fixed {
				np.Pinit[i] += alpha * deltaP[i]
			} else {
				np.Pinit[i] += deltaP[i] // Dirichlet row already solves exactly
			}
		}
		for b := 0; b < m; b++ {
			bp.Vinit[b] += deltaV[b]
		}

		errP := la.VecRmsErr(scaled(deltaP, alpha), tol.Atol, tol.Rtol, prevP)
		errV := la.VecRmsErr(deltaV, tol.Atol, tol.Rtol, prevV)
		res.ResidualNorm = la.VecNorm(Fb) / float64(len(Fb))
		res.Iterations = it + 1

		if cfg.NonlinearMethod == DampingAutomatic && it > 0 {
			grew := errP > lastErrP && errV > lastErrV
			improved := errP < lastErrP || errV < lastErrV
			alpha = nextAlpha(alpha, grew, improved, cfg.AlphaFloor)

			if errP > lastErrP {
				copy(np.Pinit, prevP)
			}
			if errV > lastErrV {
				copy(bp.Vinit, prevV)
			}

			lastErrP, lastErrV = errP, errV
			res.ErrP, res.ErrV, res.FinalAlpha = errP, errV, alpha

			if alpha != 1 {
				continue
			}
		} else {
			lastErrP, lastErrV = errP, errV
			res.ErrP, res.ErrV, res.FinalAlpha = errP, errV, alpha
		}

		if cfg.Verbose {
			io.Pf("%4d%23.15e%23.15e%23.15e%10.4f\n", it, res.ErrP, res.ErrV, res.ResidualNorm, res.FinalAlpha)
		}

		if res.ErrP <= tol.TolP && res.ErrV <= tol.TolV && res.ResidualNorm <= tol.TolRes {
			res.Converged = true
			return res, nil
		}
	}
	return res, nil
}

// RunThermal is RunHydraulic's thermal analogue: node temperatures replace
// node pressures and branch outlet temperatures replace branch velocities
// — TINIT is damped by α, TINIT_OUT is undamped, matching solve_temperature
// ("node_pit[:,TINIT] += x*alpha", "branch_pit[:,T_OUT] += x" with no alpha
// factor). The same per-variable rollback and α-recovery gate as
// RunHydraulic applies, with TINIT_OUT's own error checked against TolT
// too (solve_temperature's Tin/Tout pair shares one tolerance).
func RunThermal(active *pit.Active, ctx *comp.Context, order []pit.Kind, tol Tolerances, cfg Config) (Result, error) {
	np, bp := active.Node, active.Branch
	n, m := len(np.Active), len(bp.Active)

	alpha := cfg.Alpha0
	var lastErrT, lastErrTout float64
	res := Result{FinalAlpha: alpha}

	if cfg.Verbose {
		io.Pfyel("%4s%23s%23s%23s%10s\n", "it", "errT", "errTout", "residual", "alpha")
	}

	for it := 0; it < cfg.MaxIter; it++ {
		if err := comp.RunAdaptions(bp, np, ctx.Lookups, order, comp.PhaseBeforeThermal, ctx); err != nil {
			return res, err
		}
		if err := assembly.DeriveThermal(bp, np, ctx, cfg.Workers); err != nil {
			return res, err
		}
		if err := comp.RunAdaptions(bp, np, ctx.Lookups, order, comp.PhaseAfterThermal, ctx); err != nil {
			return res, err
		}

		Kb, Fb, err := assembly.BuildThermal(bp, np, ctx)
		if err != nil {
			return res, err
		}
		dx, err := solveStep(cfg.LinSolCache, Kb, Fb)
		if err != nil {
			return res, err
		}

		prevT := append([]float64(nil), np.Tinit...)
		prevTout := append([]float64(nil), bp.TinitOut...)
		deltaT := dx[:n]
		deltaTout := dx[n:]

		for i := 0; i < n; i++ {
			np.Tinit[i] += alpha * deltaT[i]
		}
		for b := 0; b < m; b++ {
			bp.TinitOut[b] += deltaTout[b]
		}

		errT := la.VecRmsErr(scaled(deltaT, alpha), tol.Atol, tol.Rtol, prevT)
		errTout := la.VecRmsErr(deltaTout, tol.Atol, tol.Rtol, prevTout)
		res.ResidualNorm = la.VecNorm(Fb) / float64(len(Fb))
		res.Iterations = it + 1

		if cfg.NonlinearMethod == DampingAutomatic && it > 0 {
			grew := errT > lastErrT && errTout > lastErrTout
			improved := errT < lastErrT || errTout < lastErrTout
			alpha = nextAlpha(alpha, grew, improved, cfg.AlphaFloor)

			if errT > lastErrT {
				copy(np.Tinit, prevT)
			}
			if errTout > lastErrTout {
				copy(bp.TinitOut, prevTout)
			}

			lastErrT, lastErrTout = errT, errTout
			res.ErrT, res.FinalAlpha = errT, alpha

			if alpha != 1 {
				continue
			}
		} else {
			lastErrT, lastErrTout = errT, errTout
			res.ErrT, res.FinalAlpha = errT, alpha
		}

		if cfg.Verbose {
			io.Pf("%4d%23.15e%23.15e%23.15e%10.4f\n", it, res.ErrT, errTout, res.ResidualNorm, res.FinalAlpha)
		}

		if res.ErrT <= tol.TolT && errTout <= tol.TolT && res.ResidualNorm <= tol.TolRes {
			res.Converged = true
			return res, nil
		}
	}
	return res, nil
}

func scaled(x []float64, a float64) []float64 {
	if a == 1 {
		return x
	}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = a * v
	}
	return y
}
