// elSV: a high-performance tool for calling structural variants
// from breakpoint graphs and read-depth evidence.
// Copyright (c) 2021 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/elsv/blob/master/LICENSE.txt>.

package sv

import (
	"math"
	"testing"
)

func junctionPrior() BreakpointPrior {
	return BreakpointPrior{math.Log(0.1), math.Log(0.8), math.Log(0.1)}
}

// two reference edges and a deletion junction spanning both
func deletionGraph() *Graph {
	nodes := []Node{{"1", 100}, {"1", 200}, {"1", 300}}
	edges := []Edge{
		{Index: 0, NodeA: 0, NodeB: 1, Reference: true},
		{Index: 1, NodeA: 1, NodeB: 2, Reference: true},
		{Index: 2, NodeA: 0, NodeB: 2, Prior: junctionPrior()},
	}
	return NewGraph(nodes, edges)
}

// a single reference edge without breakpoint edges
func singleEdgeGraph() *Graph {
	nodes := []Node{{"1", 100}, {"1", 200}}
	edges := []Edge{
		{Index: 0, NodeA: 0, NodeB: 1, Reference: true},
	}
	return NewGraph(nodes, edges)
}

func expectPanic(t *testing.T, name string, f func()) {
	defer func() {
		if recover() == nil {
			t.Error(name, "failed")
		}
	}()
	f()
}

func TestNewGraph(t *testing.T) {
	graph := deletionGraph()
	if len(graph.Nodes()) != 3 {
		t.Error("NewGraph nodes failed")
	}
	if len(graph.Edges()) != 3 {
		t.Error("NewGraph edges failed")
	}
	if len(graph.ReferenceEdges()) != 2 {
		t.Error("NewGraph reference edges failed")
	}
	if graph.EdgeInterval(graph.Edges()[2]) != NewInterval("1", 100, 300) {
		t.Error("EdgeInterval failed")
	}
	contigIntervals := graph.ContigIntervals()
	if len(contigIntervals) != 1 || contigIntervals[0] != NewInterval("1", 100, 300) {
		t.Error("ContigIntervals failed")
	}
}

func TestNewGraphContract(t *testing.T) {
	nodes := []Node{{"1", 100}, {"1", 200}, {"1", 300}, {"1", 400}}
	expectPanic(t, "NewGraph index check", func() {
		NewGraph(nodes, []Edge{{Index: 1, NodeA: 0, NodeB: 1, Reference: true}})
	})
	expectPanic(t, "NewGraph node check", func() {
		NewGraph(nodes, []Edge{{Index: 0, NodeA: 0, NodeB: 7, Reference: true}})
	})
	expectPanic(t, "NewGraph order check", func() {
		NewGraph(nodes, []Edge{{Index: 0, NodeA: 1, NodeB: 0, Reference: true}})
	})
	expectPanic(t, "NewGraph reference path check", func() {
		NewGraph(nodes, []Edge{
			{Index: 0, NodeA: 0, NodeB: 1, Reference: true},
			{Index: 1, NodeA: 2, NodeB: 3, Reference: true},
		})
	})
	expectPanic(t, "NewGraph reference prior check", func() {
		NewGraph(nodes, []Edge{{Index: 0, NodeA: 0, NodeB: 1, Reference: true, Prior: junctionPrior()}})
	})
	expectPanic(t, "NewGraph breakpoint prior check", func() {
		NewGraph(nodes, []Edge{{Index: 0, NodeA: 0, NodeB: 1}})
	})
}

func TestIntervalOperations(t *testing.T) {
	interval := NewInterval("1", 100, 300)
	if !interval.Overlaps(NewInterval("1", 200, 400)) {
		t.Error("Overlaps 1 failed")
	}
	if interval.Overlaps(NewInterval("2", 200, 400)) {
		t.Error("Overlaps 2 failed")
	}
	if !interval.Contains(NewInterval("1", 150, 250)) {
		t.Error("Contains 1 failed")
	}
	if interval.Contains(NewInterval("1", 150, 350)) {
		t.Error("Contains 2 failed")
	}
	if !interval.HasReciprocalOverlap(NewInterval("1", 120, 320), 0.8) {
		t.Error("HasReciprocalOverlap 1 failed")
	}
	if interval.HasReciprocalOverlap(NewInterval("1", 280, 480), 0.8) {
		t.Error("HasReciprocalOverlap 2 failed")
	}
	if CompareIntervals(interval, NewInterval("1", 100, 300)) != 0 ||
		CompareIntervals(interval, NewInterval("1", 150, 300)) >= 0 ||
		CompareIntervals(interval, NewInterval("2", 100, 300)) >= 0 ||
		CompareIntervals(NewInterval("2", 100, 300), interval) <= 0 {
		t.Error("CompareIntervals failed")
	}
}

func TestBreakpointPrior(t *testing.T) {
	prior := junctionPrior()
	if prior.LogPrior(1) != math.Log(0.8) {
		t.Error("LogPrior failed")
	}
	if !math.IsInf(prior.LogPrior(-1), -1) || !math.IsInf(prior.LogPrior(3), -1) {
		t.Error("LogPrior range failed")
	}
}
