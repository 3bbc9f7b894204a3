// Package fluid is the narrow external collaborator the solver core reads
// fluid properties through. The core never knows how density, viscosity,
// or heat capacity are computed; it only calls Properties.
package fluid

import "math"

// Properties evaluates state-dependent fluid properties as functions of
// pressure [bar] and temperature [K]. Grounded on mporous/states.go's
// derived-quantity style (density/saturation as functions of pc, sl) and
// mreten's Model.Init(prms) parameterization, adapted to the pipe-network
// domain.
type Properties interface {
	Rho(p, T float64) float64 // density [kg/m³]
	Mu(p, T float64) float64  // dynamic viscosity [Pa·s]
	Cp(p, T float64) float64  // specific heat capacity [J/(kg·K)]
	Compressible() bool       // true for gases: density depends on p and T
}

// Water is a reference incompressible-liquid implementation: density and
// viscosity have a mild temperature dependence and no pressure dependence.
// Through that temperature dependence a thermal solve still shifts the
// density and viscosity the next hydraulic solve reads.
type Water struct{}

func (Water) Rho(p, T float64) float64 {
	// linearised around 1000 kg/m3 @ 277K, -0.25 kg/m3 per K above that
	return 1000.0 - 0.25*(T-277.0)
}

func (Water) Mu(p, T float64) float64 {
	// crude Arrhenius-style falloff, good enough for the friction-factor Reynolds number
	return 1.787e-3 * arrheniusFalloff(T)
}

func (Water) Cp(p, T float64) float64 { return 4186.0 }

func (Water) Compressible() bool { return false }

func arrheniusFalloff(T float64) float64 {
	// μ(T) ≈ μ0 * exp(-(T-273)/140), clamped so it never goes non-physical
	x := -(T - 273.15) / 140.0
	if x < -3 {
		x = -3
	}
	return math.Exp(x)
}

// IdealGas is a reference compressible-gas implementation: density obeys
// p = ρRT (R in J/(kg·K)), so bidirectional hydraulic/thermal coupling is
// not a no-op — a temperature change genuinely shifts the hydraulic
// solution through density, and must feed back into it.
type IdealGas struct {
	R            float64 // specific gas constant [J/(kg·K)]
	MuRef, CpRef float64
}

// NewNaturalGas returns typical parameters for pipeline natural gas.
func NewNaturalGas() IdealGas {
	return IdealGas{R: 518.3, MuRef: 1.1e-5, CpRef: 2220.0}
}

func (g IdealGas) Rho(p, T float64) float64 {
	return p * 1e5 / (g.R * T) // p given in bar -> Pa
}

func (g IdealGas) Mu(p, T float64) float64 { return g.MuRef }
func (g IdealGas) Cp(p, T float64) float64 { return g.CpRef }
func (g IdealGas) Compressible() bool      { return true }
