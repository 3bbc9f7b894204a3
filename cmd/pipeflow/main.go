// Copyright 2015 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command pipeflow runs the solver core against a small built-in network.
// Network object model construction (reading a JSON/STANET/Sincal network
// description) lives outside this module, so this CLI wires up one
// single-pipe demonstration network in-process and runs Pipeflow over it.
package main

import (
	"flag"

	"github.com/cpmech/gosl/utl"
	"github.com/cpmech/pipeflow/comp"
	"github.com/cpmech/pipeflow/fluid"
	"github.com/cpmech/pipeflow/network"
	"github.com/cpmech/pipeflow/pit"
	"github.com/cpmech/pipeflow/results"
)

func main() {
	defer func() {
		if err := recover(); err != nil {
			utl.PfRed("ERROR: %v\n", err)
		}
	}()

	mode := flag.String("mode", "hydraulics", "hydraulics | heat | all | bidirectional")
	frictionModel := flag.String("friction", "nikuradse", "nikuradse | prandtl-colebrook | swamee-jain")
	verbose := flag.Bool("v", false, "verbose progress output")
	flag.Parse()

	utl.PfWhite("\npipeflow -- steady-state pipe network solver core\n\n")

	net := buildSeedNetwork()

	opts := network.Options{
		Mode:          network.Mode(*mode),
		FrictionModel: *frictionModel,
		Verbose:       *verbose,
	}

	if err := network.Pipeflow(net, nil, opts); err != nil {
		utl.PfRed("pipeflow failed: %v\n", err)
		return
	}

	ctx := &comp.Context{
		Lookups:       net.Lookup,
		Fluid:         net.Fluid,
		PumpCurves:    net.PumpCurves,
		FrictionModel: opts.FrictionModel,
		Gravity:       9.81,
	}
	nodes, branches, err := results.Extract(net.Node, net.Branch, net.Fluid, ctx)
	if err != nil {
		utl.PfRed("result extraction failed: %v\n", err)
		return
	}

	utl.PfGreen("converged: hyd_flag=%v converged=%v\n\n", net.HydFlag, net.Converged)
	for i, n := range nodes {
		utl.Pf("node %d: p=%.4f bar  T=%.2f K  mdot_residual=%.3e kg/s\n", i, n.PBar, n.TK, n.MdotKgPerS)
	}
	for i, b := range branches {
		utl.Pf("branch %d: v=%.4f m/s  p_from=%.4f bar  p_to=%.4f bar  lambda=%.5f  Re=%.1f\n",
			i, b.VMean, b.PFromBar, b.PToBar, b.Lambda, b.Reynolds)
	}
}

// buildSeedNetwork wires up a single 1 km, 0.1 m pipe, k=0.01 mm roughness,
// 5 bar upstream Dirichlet pressure, 10 kg/s load at the downstream node.
func buildSeedNetwork() *network.Network {
	net := network.NewNetwork(2, 1)
	net.Fluid = fluid.Water{}

	net.Node.NodeType[0] = pit.Fixed
	net.Node.Pbound[0] = 5.0
	net.Node.Pinit[0] = 5.0
	net.Node.Pinit[1] = 5.0

	net.Node.NodeTypeT[0] = pit.Fixed
	net.Node.Tbound[0] = 363.15
	net.Node.Tinit[0] = 363.15
	net.Node.Tinit[1] = 363.15
	net.Node.Load[1] = -10.0 // 10 kg/s drawn off at the downstream node

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
