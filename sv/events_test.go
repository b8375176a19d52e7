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
	"testing"
)

func TestEventTypeString(t *testing.T) {
	strings := []string{"DEL", "DUP", "INV", "DUP_INV", "UR"}
	for i, eventType := range eventTypes {
		if eventType.String() != strings[i] {
			t.Error("EventType String failed")
		}
	}
}

func slotEventTypes(events []graphEvent) (types []EventType) {
	for _, event := range events {
		types = append(types, event.eventType)
	}
	return types
}

func TestGenotypeEvents(t *testing.T) {
	graph := deletionGraph()
	reference := Path{graph.Edges()[0], graph.Edges()[1]}
	junction := Path{graph.Edges()[2]}

	// one haplotype deleted both segments
	deletion := &Genotype{Paths: []Path{reference, junction}}
	for _, slot := range genotypeEvents(graph, deletion) {
		types := slotEventTypes(slot)
		if len(types) != 1 || types[0] != Deletion {
			t.Error("genotypeEvents deletion failed")
		}
	}

	// no haplotype deviates from the reference
	for _, slot := range genotypeEvents(graph, &Genotype{Paths: []Path{reference, reference}}) {
		if len(slot) != 0 {
			t.Error("genotypeEvents reference failed")
		}
	}

	// one haplotype visits the first segment twice
	duplicated := Path{graph.Edges()[0], graph.Edges()[0], graph.Edges()[1]}
	duplication := &Genotype{Paths: []Path{duplicated, reference}}
	slots := genotypeEvents(graph, duplication)
	if types := slotEventTypes(slots[0]); len(types) != 1 || types[0] != Duplication {
		t.Error("genotypeEvents duplication failed")
	}
	if len(slots[1]) != 0 {
		t.Error("genotypeEvents duplication slot failed")
	}

	// one haplotype visits the first segment in inverted orientation
	invertedEdge := graph.Edges()[0]
	invertedEdge.Inverted = true
	inversion := &Genotype{Paths: []Path{{invertedEdge, graph.Edges()[1]}, reference}}
	if types := slotEventTypes(genotypeEvents(graph, inversion)[0]); len(types) != 1 || types[0] != Inversion {
		t.Error("genotypeEvents inversion failed")
	}

	// a duplicated and inverted segment collapses into one event
	duplicatedInversion := &Genotype{Paths: []Path{{graph.Edges()[0], invertedEdge, graph.Edges()[1]}, reference}}
	if types := slotEventTypes(genotypeEvents(graph, duplicatedInversion)[0]); len(types) != 1 || types[0] != DuplicatedInversion {
		t.Error("genotypeEvents duplicated inversion failed")
	}
}

func TestIntegrateEdgeEvents(t *testing.T) {
	graph := deletionGraph()
	junction := Path{graph.Edges()[2]}
	reference := Path{graph.Edges()[0], graph.Edges()[1]}
	genotypes := []*Genotype{
		{GroupId: 3, GenotypeId: 0, Paths: []Path{reference, junction}, Probability: 0.3},
		{GroupId: 3, GenotypeId: 1, Paths: []Path{junction, junction}, Probability: 0.4},
		{GroupId: 3, GenotypeId: 2, Paths: []Path{reference, reference}, Probability: 0.3},
	}
	events := integrateEdgeEvents(genotypes, graph)
	if len(events) != 2 {
		t.Error("integrateEdgeEvents count failed")
	}
	for i, event := range events {
		if event.Type != Deletion || event.GroupId != 3 || event.PathId != 0 || !event.Resolved {
			t.Error("integrateEdgeEvents event failed")
		}
		if !approxEqual(event.Probability, 0.7) {
			t.Error("integrateEdgeEvents probability failed")
		}
		if event.Interval != graph.EdgeInterval(graph.ReferenceEdges()[i]) {
			t.Error("integrateEdgeEvents interval failed")
		}
	}
}

func TestEventFilters(t *testing.T) {
	events := []CalledEvent{
		{Type: Deletion, Interval: NewInterval("1", 100, 200), Probability: 0.9},
		{Type: Duplication, Interval: NewInterval("1", 300, 330), Probability: 0.4},
	}
	if len(filterEventsByProbability(events, 0.5)) != 1 {
		t.Error("filterEventsByProbability failed")
	}
	if len(filterEventsByProbability(events, 0.95)) != 0 {
		t.Error("filterEventsByProbability monotonicity failed")
	}
	if len(filterEventsBySize(events, 50)) != 1 {
		t.Error("filterEventsBySize failed")
	}
	if len(filterEventsBySize(events, 150)) != 0 {
		t.Error("filterEventsBySize monotonicity failed")
	}
	genotypes := []*Genotype{
		{DepthProbability: 0.9},
		{DepthProbability: 0.01},
	}
	if len(filterGenotypesByProbability(genotypes, 0.02)) != 1 {
		t.Error("filterGenotypesByProbability failed")
	}
}

func TestMergeAdjacentEvents(t *testing.T) {
	adjacent := []CalledEvent{
		{Type: Deletion, Interval: NewInterval("1", 100, 200), Resolved: true, Probability: 0.6},
		{Type: Deletion, Interval: NewInterval("1", 200, 300), Resolved: true, Probability: 0.6},
	}
	merged := mergeAdjacentEvents(adjacent)
	if len(merged) != 1 || merged[0].Interval != NewInterval("1", 100, 300) || !approxEqual(merged[0].Probability, 0.6) {
		t.Error("mergeAdjacentEvents failed")
	}
	// merging is idempotent
	if remerged := mergeAdjacentEvents(merged); len(remerged) != 1 || remerged[0] != merged[0] {
		t.Error("mergeAdjacentEvents idempotence failed")
	}

	unequal := []CalledEvent{
		{Type: Deletion, Interval: NewInterval("1", 100, 200), Resolved: true, Probability: 0.6},
		{Type: Deletion, Interval: NewInterval("1", 200, 300), Resolved: true, Probability: 0.5},
	}
	if len(mergeAdjacentEvents(unequal)) != 2 {
		t.Error("mergeAdjacentEvents unequal probabilities failed")
	}

	differentTypes := []CalledEvent{
		{Type: Deletion, Interval: NewInterval("1", 100, 200), Resolved: true, Probability: 0.6},
		{Type: Duplication, Interval: NewInterval("1", 200, 300), Resolved: true, Probability: 0.6},
	}
	if len(mergeAdjacentEvents(differentTypes)) != 2 {
		t.Error("mergeAdjacentEvents types failed")
	}

	duplicateIntervals := []CalledEvent{
		{Type: Deletion, Interval: NewInterval("1", 100, 200), Resolved: true, Probability: 0.6},
		{Type: Deletion, Interval: NewInterval("1", 100, 200), Resolved: true, Probability: 0.5},
	}
	deduplicated := mergeAdjacentEvents(duplicateIntervals)
	if len(deduplicated) != 1 || !approxEqual(deduplicated[0].Probability, 0.6) {
		t.Error("mergeAdjacentEvents duplicate intervals failed")
	}
}
