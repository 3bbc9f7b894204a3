package network

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	_ "github.com/cpmech/pipeflow/comp/flowctrl"
	_ "github.com/cpmech/pipeflow/comp/heat"
	_ "github.com/cpmech/pipeflow/comp/pipe"
	_ "github.com/cpmech/pipeflow/comp/pump"
	_ "github.com/cpmech/pipeflow/comp/valve"
	"github.com/cpmech/pipeflow/fluid"
	"github.com/cpmech/pipeflow/pit"
)

// singlePipeNetwork builds the seed-suite S1 scenario: a single 1 km,
// 0.1 m pipe, k=0.01 mm roughness, 5 bar upstream Dirichlet pressure,
// 10 kg/s load at the downstream node, Nikuradse friction, water.
func singlePipeNetwork() *Network {
	net := NewNetwork(2, 1)
	net.Fluid = fluid.Water{}

	net.Node.NodeType[0] = pit.Fixed
	net.Node.Pbound[0] = 5.0
	net.Node.Pinit[0] = 5.0
	net.Node.Pinit[1] = 5.0
	net.Node.NodeTypeT[0] = pit.Fixed
	net.Node.Tbound[0] = 363.15
	net.Node.Tinit[0] = 363.15
	net.Node.Tinit[1] = 363.15
	net.Node.Load[1] = -10.0

	net.Branch.Kind[0] = pit.KindPipe
	net.Branch.FromNode[0] = 0
	net.Branch.ToNode[0] = 1
	net.Branch.FromNodeT[0] = 0
	net.Branch.ToNodeT[0] = 1
	net.Branch.D[0] = 0.1
	net.Branch.Length[0] = 1000.0
	net.Branch.K[0] = 0.01e-3
	net.Branch.Vinit[0] = 1.0

	net.Lookup.BranchTables["pipe"] = pit.RowRange{From: 0, To: 1}
	return net
}

func TestPipeflowHydraulicsSinglePipe(t *testing.T) {
	net := singlePipeNetwork()
	opts := Options{Mode: ModeHydraulics, FrictionModel: "nikuradse"}
	err := Pipeflow(net, nil, opts)
	chk.EP(err)

	if !net.HydFlag || !net.Converged {
		t.Fatalf("expected convergence, HydFlag=%v Converged=%v", net.HydFlag, net.Converged)
	}
	chk.Float64(t, "p_out", 1e-2, net.Node.Pinit[1], 4.893)
	chk.Float64(t, "v", 1e-2, net.Branch.Vinit[0], 1.273)
}

func TestPipeflowBadMode(t *testing.T) {
	net := singlePipeNetwork()
	err := Pipeflow(net, nil, Options{Mode: Mode("nonsense")})
	se, ok := err.(*SolveError)
	if !ok || se.Kind != BadMode {
		t.Fatalf("expected BadMode SolveError, got %v", err)
	}
}

func TestPipeflowHeatRequiresPriorHydraulics(t *testing.T) {
	net := singlePipeNetwork()
	err := Pipeflow(net, nil, Options{Mode: ModeHeat})
	se, ok := err.(*SolveError)
	if !ok || se.Kind != MissingHydraulicPrerequisite {
		t.Fatalf("expected MissingHydraulicPrerequisite, got %v", err)
	}
}

func TestPipeflowAllConvergesAndHeatsDown(t *testing.T) {
	net := singlePipeNetwork()
	net.Branch.Alpha[0] = 0.5
	net.Branch.Text[0] = 283.15
	err := Pipeflow(net, nil, Options{Mode: ModeAll})
	chk.EP(err)
	if !net.Converged {
		t.Fatalf("expected convergence")
	}
	if net.Branch.TinitOut[0] >= net.Node.Tinit[0] {
		t.Fatalf("expected outlet temperature to drop below inlet with heat loss enabled")
	}
}

func TestPipeflowBidirectionalOneOuterIterationForWater(t *testing.T) {
	net := singlePipeNetwork()
	net.Branch.Alpha[0] = 0.5
	net.Branch.Text[0] = 283.15
	err := Pipeflow(net, nil, Options{Mode: ModeBidirectional})
	chk.EP(err)
	if !net.Converged {
		t.Fatalf("expected convergence")
	}
	if math.Abs(net.Node.Pinit[1]-4.893) > 5e-2 {
		t.Fatalf("pressure drifted from the hydraulics-only solution: %v", net.Node.Pinit[1])
	}
}
