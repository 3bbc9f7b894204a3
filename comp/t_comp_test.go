package comp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/pipeflow/pit"
)

func TestGetUnregisteredKindReturnsZeroHooks(t *testing.T) {
	h := Get(pit.Kind("nonexistent"))
	if h.CreatePitEntries != nil || h.AdaptBeforeHydraulic != nil {
		t.Fatalf("expected a zero-value Hooks for an unregistered kind")
	}
}

func TestRegisterThenGetRoundTrips(t *testing.T) {
	called := false
	Register(pit.Kind("t_comp_test_kind"), Hooks{
		CreatePitEntries: func(bp *pit.BranchPit, np *pit.NodePit, rows pit.RowRange, ctx *Context) error {
			called = true
			return nil
		},
	})
	h := Get(pit.Kind("t_comp_test_kind"))
	if h.CreatePitEntries == nil {
		t.Fatalf("expected a registered hook")
	}
	chk.EP(h.CreatePitEntries(nil, nil, pit.RowRange{}, nil))
	if !called {
		t.Fatalf("expected the registered hook to run")
	}
}

func TestRunAdaptionsSkipsEmptyTables(t *testing.T) {
	lk := pit.NewLookups() // no tables registered: every BranchSlice is zero-length
	err := RunAdaptions(nil, nil, lk, []pit.Kind{pit.KindPipe, pit.KindPump}, PhaseBeforeHydraulic, nil)
	chk.EP(err)
}

func TestContextResolveFrictionCachesResult(t *testing.T) {
	ctx := &Context{FrictionModel: "nikuradse"}
	m1, warn1 := ctx.ResolveFriction()
	m2, warn2 := ctx.ResolveFriction()
	if m1 != m2 {
		t.Fatalf("expected the cached friction model to be returned on the second call")
	}
	if warn1 != "" || warn2 != "" {
		t.Fatalf("expected no fallback warning for a known model")
	}
}

func TestContextResolveFrictionWarnsOnUnknownName(t *testing.T) {
	ctx := &Context{FrictionModel: "bogus"}
	_, warn := ctx.ResolveFriction()
	if warn == "" {
		t.Fatalf("expected a fallback warning for an unknown friction model")
	}
}
