// Package pumpcurve implements pump pressure-rise characteristics: a
// fixed Δp, a polynomial in volumetric flow, or an interpolated curve.
// Grounded on inp/func.go's fun.Func dispatch
// (F/G evaluate value and slope, the way every function in gofem's
// simulation files is called) and mreten's named-model registry pattern,
// adapted from time-functions/material curves to pump curves.
//
// Polynomial and Interpolated keep their own hand-rolled F/G math rather
// than route through fun.New("poly", ...)/fun.New("pts", ...): the pack
// only grounds fun.New's dispatch-by-type-string mechanism and the
// fun.Prm{N,V} parameter pair (inp/func.go, msolid's material-model Init
// calls), never the "poly"/"pts" type's own parameter-name schema, so
// guessing at it would mean fabricating an API this retrieval pack never
// actually shows. What the pack's fun.Prms convention does carry over
// cleanly is the named-parameter shape itself: NewPolynomialFromPrms and
// NewInterpolatedFromPrms below build a curve from a fun.Prms slice the
// same way msolid's models are Init'd from one.
package pumpcurve

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/fun"
)

// Curve evaluates a pump's pressure rise [bar] and its slope w.r.t.
// volumetric flow rate [m³/s] at a given operating point. Any curve is
// simply a fun.Func evaluated at q: DeltaP == F(q,nil), Slope == G(q,nil).
type Curve interface {
	fun.Func
}

// Registry holds user-defined pump curves, addressed by the PumpCurveID
// column in pit.BranchPit.
type Registry struct {
	curves []Curve
}

// NewRegistry returns an empty curve registry.
func NewRegistry() *Registry { return &Registry{} }

// Add appends a curve and returns its id.
func (r *Registry) Add(c Curve) int {
	r.curves = append(r.curves, c)
	return len(r.curves) - 1
}

// Eval returns (Δp, slope) for the curve with the given id at flow q.
func (r *Registry) Eval(id int, q float64) (dp, slope float64) {
	c := r.curves[id]
	return c.F(q, nil), c.G(q, nil)
}

// FixedRise is a constant pressure rise, independent of flow: slope is 0.
type FixedRise struct {
	DP float64 // [bar]
}

func (c FixedRise) F(q float64, args []float64) float64 { return c.DP }
func (c FixedRise) G(q float64, args []float64) float64 { return 0 }
func (c FixedRise) H(q float64, args []float64) float64 { return 0 }

// Polynomial evaluates Δp(q) = Σ Coeffs[i]*q^i and its analytic slope.
type Polynomial struct {
	Coeffs []float64 // lowest degree first
}

func (c Polynomial) F(q float64, args []float64) float64 {
	v, qi := 0.0, 1.0
	for _, a := range c.Coeffs {
		v += a * qi
		qi *= q
	}
	return v
}

func (c Polynomial) G(q float64, args []float64) float64 {
	v, qi := 0.0, 1.0
	for i := 1; i < len(c.Coeffs); i++ {
		v += float64(i) * c.Coeffs[i] * qi
		qi *= q
	}
	return v
}

func (c Polynomial) H(q float64, args []float64) float64 { return 0 }

// NewPolynomialFromPrms builds a Polynomial from a fun.Prms slice named
// "a0", "a1", ... (lowest degree first), the same named-parameter
// convention inp/func.go's FuncData.Prms and msolid's model Init methods
// use for every other gofem curve.
func NewPolynomialFromPrms(prms fun.Prms) Polynomial {
	coeffs := make([]float64, len(prms))
	for _, p := range prms {
		i, err := strconv.Atoi(strings.TrimPrefix(p.N, "a"))
		if err != nil || i < 0 {
			continue
		}
		for len(coeffs) <= i {
			coeffs = append(coeffs, 0)
		}
		coeffs[i] = p.V
	}
	return Polynomial{Coeffs: coeffs}
}

// Interpolated is a piecewise-linear curve through measured (q, Δp)
// samples, evaluated with simple bracketing + linear interpolation — the
// minimal "pts"-style curve every gofem simulation .sim file can define
// via inp.FuncsData, adapted here to a pump's own operating points rather
// than a time function.
type Interpolated struct {
	Q, DP []float64 // must be sorted ascending in Q
}

func (c Interpolated) F(q float64, args []float64) float64 {
	v, _ := c.eval(q)
	return v
}

func (c Interpolated) G(q float64, args []float64) float64 {
	_, s := c.eval(q)
	return s
}

func (c Interpolated) H(q float64, args []float64) float64 { return 0 }

// NewInterpolatedFromPrms builds an Interpolated curve from a fun.Prms
// slice named "q0", "dp0", "q1", "dp1", ..., sorted by sample index; the
// parameters may come in any order, but q must ascend with the index,
// since samples are not re-sorted by q.
func NewInterpolatedFromPrms(prms fun.Prms) Interpolated {
	samples := map[int][2]float64{} // index -> (q, dp), 0 where missing
	for _, p := range prms {
		switch {
		case strings.HasPrefix(p.N, "q"):
			i, err := strconv.Atoi(strings.TrimPrefix(p.N, "q"))
			if err != nil {
				continue
			}
			s := samples[i]
			s[0] = p.V
			samples[i] = s
		case strings.HasPrefix(p.N, "dp"):
			i, err := strconv.Atoi(strings.TrimPrefix(p.N, "dp"))
			if err != nil {
				continue
			}
			s := samples[i]
			s[1] = p.V
			samples[i] = s
		}
	}
	idx := make([]int, 0, len(samples))
	for i := range samples {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	c := Interpolated{Q: make([]float64, len(idx)), DP: make([]float64, len(idx))}
	for k, i := range idx {
		c.Q[k] = samples[i][0]
		c.DP[k] = samples[i][1]
	}
	return c
}

func (c Interpolated) eval(q float64) (v, slope float64) {
	n := len(c.Q)
	if n == 0 {
		return 0, 0
	}
	if q <= c.Q[0] {
		if n == 1 {
			return c.DP[0], 0
		}
		slope = (c.DP[1] - c.DP[0]) / (c.Q[1] - c.Q[0])
		return c.DP[0] + slope*(q-c.Q[0]), slope
	}
	for i := 1; i < n; i++ {
		if q <= c.Q[i] {
			slope = (c.DP[i] - c.DP[i-1]) / (c.Q[i] - c.Q[i-1])
			return c.DP[i-1] + slope*(q-c.Q[i-1]), slope
		}
	}
	slope = (c.DP[n-1] - c.DP[n-2]) / (c.Q[n-1] - c.Q[n-2])
	return c.DP[n-1] + slope*(q-c.Q[n-1]), slope
}
