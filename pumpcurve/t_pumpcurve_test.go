package pumpcurve

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

func TestFixedRiseIsConstant(t *testing.T) {
	r := NewRegistry()
	id := r.Add(FixedRise{DP: 2.5})
	dp, slope := r.Eval(id, 0.1)
	chk.Float64(t, "dp", 1e-15, dp, 2.5)
	chk.Float64(t, "slope", 1e-15, slope, 0)
}

func TestPolynomialMatchesHandComputation(t *testing.T) {
	r := NewRegistry()
	id := r.Add(Polynomial{Coeffs: []float64{3.0, -2.0, 0.5}}) // 3 - 2q + 0.5q^2
	dp, slope := r.Eval(id, 2.0)
	chk.Float64(t, "dp", 1e-12, dp, 3.0-2.0*2.0+0.5*4.0)
	chk.Float64(t, "slope", 1e-12, slope, -2.0+1.0*2.0)
}

func TestInterpolatedInterpolatesBetweenSamples(t *testing.T) {
	c := Interpolated{Q: []float64{0, 1, 2}, DP: []float64{10, 8, 2}}
	r := NewRegistry()
	id := r.Add(c)
	dp, slope := r.Eval(id, 0.5)
	chk.Float64(t, "dp", 1e-12, dp, 9.0)
	chk.Float64(t, "slope", 1e-12, slope, -2.0)
}

func TestInterpolatedExtrapolatesEndSegmentSlopes(t *testing.T) {
	c := Interpolated{Q: []float64{0, 1, 2}, DP: []float64{10, 8, 2}}
	// below range: uses first segment's slope
	dp, slope := c.eval(-1)
	chk.Float64(t, "dp below", 1e-12, dp, 12.0)
	chk.Float64(t, "slope below", 1e-12, slope, -2.0)
	// above range: uses last segment's slope
	dp, slope = c.eval(3)
	chk.Float64(t, "dp above", 1e-12, dp, -4.0)
	chk.Float64(t, "slope above", 1e-12, slope, -6.0)
}

func TestInterpolatedSinglePointIsFlat(t *testing.T) {
	c := Interpolated{Q: []float64{1}, DP: []float64{5}}
	dp, slope := c.eval(1)
	chk.Float64(t, "dp", 1e-15, dp, 5)
	chk.Float64(t, "slope", 1e-15, slope, 0)
}

func TestNewPolynomialFromPrmsReadsNamedCoefficients(t *testing.T) {
	c := NewPolynomialFromPrms(fun.Prms{
		&fun.Prm{N: "a2", V: 0.5},
		&fun.Prm{N: "a0", V: 3.0},
		&fun.Prm{N: "a1", V: -2.0},
	})
	chk.Float64(t, "dp at q=2", 1e-12, c.F(2.0, nil), 3.0-2.0*2.0+0.5*4.0)
}

func TestNewInterpolatedFromPrmsReadsNamedSamples(t *testing.T) {
	c := NewInterpolatedFromPrms(fun.Prms{
		&fun.Prm{N: "q0", V: 0}, &fun.Prm{N: "dp0", V: 10},
		&fun.Prm{N: "q1", V: 1}, &fun.Prm{N: "dp1", V: 8},
		&fun.Prm{N: "q2", V: 2}, &fun.Prm{N: "dp2", V: 2},
	})
	dp, slope := c.eval(0.5)
	chk.Float64(t, "dp", 1e-12, dp, 9.0)
	chk.Float64(t, "slope", 1e-12, slope, -2.0)
}

func TestRegistryAddReturnsSequentialIDs(t *testing.T) {
	r := NewRegistry()
	a := r.Add(FixedRise{DP: 1})
	b := r.Add(FixedRise{DP: 2})
	if a != 0 || b != 1 {
		t.Fatalf("expected sequential ids 0,1, got %v,%v", a, b)
	}
}
