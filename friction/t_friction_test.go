package friction

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func TestGetKnownModels(t *testing.T) {
	for _, name := range []string{"nikuradse", "prandtl-colebrook", "swamee-jain"} {
		m, warn := Get(name)
		if warn != "" {
			t.Fatalf("expected no warning for %q, got %q", name, warn)
		}
		if m == nil {
			t.Fatalf("expected a model for %q", name)
		}
	}
}

func TestGetUnknownFallsBackToNikuradseWithWarning(t *testing.T) {
	m, warn := Get("bogus")
	if warn == "" {
		t.Fatalf("expected a fallback warning")
	}
	if _, ok := m.(Nikuradse); !ok {
		t.Fatalf("expected fallback to Nikuradse, got %T", m)
	}
}

func TestNikuradseMatchesKnownPoint(t *testing.T) {
	lam, err := Nikuradse{}.Lambda(1e6, 1e-3)
	chk.EP(err)
	// λ = (2·log10(1000)+1.14)^-2 = (6+1.14)^-2
	x := 2*3.0 + 1.14
	chk.Float64(t, "lambda", 1e-12, lam, 1/(x*x))
}

func TestNikuradseRejectsNonPositiveRoughness(t *testing.T) {
	_, err := Nikuradse{}.Lambda(1e6, 0)
	if err == nil {
		t.Fatalf("expected an error for relRoughness<=0")
	}
}

func TestSwameeJainRejectsNonPositiveReynolds(t *testing.T) {
	_, err := SwameeJain{}.Lambda(0, 1e-3)
	if err == nil {
		t.Fatalf("expected an error for reynolds<=0")
	}
}

func TestColebrookAgreesWithSwameeJainSeed(t *testing.T) {
	reynolds, relRoughness := 5e4, 1e-4
	sj, err := SwameeJain{}.Lambda(reynolds, relRoughness)
	chk.EP(err)
	cb, err := Colebrook{}.Lambda(reynolds, relRoughness)
	chk.EP(err)
	// Colebrook refines the explicit Swamee-Jain seed; they should be close.
	diff := cb - sj
	if diff < 0 {
		diff = -diff
	}
	if diff > 0.05*sj {
		t.Fatalf("expected colebrook (%v) within 5%% of swamee-jain seed (%v)", cb, sj)
	}
}
