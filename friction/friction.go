// Package friction implements the λ-closures ("friction models") used by
// the generic derivative kernel (package assembly) and package results to
// turn Reynolds number and relative roughness into a Darcy friction
// factor. Grounded on the mreten/mconduct package pattern: a small Model
// interface, a name => allocator registry, and a Get lookup — adapted from continuum-mechanics
// material models to pipe-flow friction closures.
package friction

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/num"
)

// Model computes the Darcy friction factor λ for one branch.
type Model interface {
	Lambda(reynolds, relRoughness float64) (float64, error)
}

// allocators holds all available friction models; name => allocator.
var allocators = map[string]func() Model{
	"nikuradse":         func() Model { return Nikuradse{} },
	"prandtl-colebrook": func() Model { return Colebrook{} },
	"swamee-jain":       func() Model { return SwameeJain{} },
}

// Get returns the named model, or Nikuradse with a warning if the name is
// unrecognized — a locally-recoverable condition, not an error surfaced to
// the caller.
func Get(name string) (Model, string) {
	if a, ok := allocators[name]; ok {
		return a(), ""
	}
	return Nikuradse{}, "friction: unknown model " + name + ", falling back to nikuradse"
}

// Nikuradse is the fully-rough turbulent closure: λ = (2·log10(D/k) + 1.14)^-2.
type Nikuradse struct{}

func (Nikuradse) Lambda(reynolds, relRoughness float64) (float64, error) {
	if relRoughness <= 0 {
		return 0, chk.Err("friction: relative roughness must be > 0")
	}
	x := 2*math.Log10(1/relRoughness) + 1.14
	return 1 / (x * x), nil
}

// SwameeJain is the explicit approximation to the implicit Colebrook-White
// equation, valid for 4000 < Re < 1e8 and 1e-6 < k/D < 1e-2.
type SwameeJain struct{}

func (SwameeJain) Lambda(reynolds, relRoughness float64) (float64, error) {
	if reynolds <= 0 {
		return 0, chk.Err("friction: reynolds number must be > 0")
	}
	x := relRoughness/3.7 + 5.74/math.Pow(reynolds, 0.9)
	denom := math.Log10(x)
	return 0.25 / (denom * denom), nil
}

// Colebrook is the implicit Prandtl-Colebrook-White equation, solved with
// gosl/num's scalar Newton solver (the same num.NlSolver ana.Hill.Getc
// uses to invert its elastic-plastic boundary radius).
type Colebrook struct{}

func (Colebrook) Lambda(reynolds, relRoughness float64) (float64, error) {
	if reynolds <= 0 {
		return 0, chk.Err("friction: reynolds number must be > 0")
	}

	// seed from Swamee-Jain
	lam0, err := (SwameeJain{}).Lambda(reynolds, relRoughness)
	if err != nil {
		return 0, err
	}

	// residual: 1/√λ + 2·log10(k/(3.7D) + 2.51/(Re·√λ)) = 0
	fx := func(fx, X []float64) error {
		lam := X[0]
		fx[0] = 1/math.Sqrt(lam) + 2*math.Log10(relRoughness/3.7+2.51/(reynolds*math.Sqrt(lam)))
		return nil
	}
	dfdx := func(dfdx [][]float64, X []float64) error {
		lam := X[0]
		s := math.Sqrt(lam)
		u := relRoughness/3.7 + 2.51/(reynolds*s)
		dudl := -2.51 / (reynolds * 2 * lam * s)
		dfdx[0][0] = -0.5/(lam*s) + 2*(dudl/(u*math.Ln10))
		return nil
	}

	var nls num.NlSolver
	defer nls.Clean()
	res := []float64{lam0}
	nls.Init(1, fx, nil, dfdx, true, false, nil)
	if err := nls.Solve(res, false); err != nil {
		// recoverable: fall back to the explicit seed rather than fail the whole solve
		return lam0, nil
	}
	return res[0], nil
}
