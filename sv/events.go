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
	"sort"
)

// EventType is the type of a called structural variant event.
type EventType uint8

// The called event types.
const (
	Deletion EventType = iota
	Duplication
	Inversion
	DuplicatedInversion
	Unresolved
)

// eventTypes lists all event types in a fixed order for deterministic
// iteration.
var eventTypes = [...]EventType{Deletion, Duplication, Inversion, DuplicatedInversion, Unresolved}

// String returns the VCF SVTYPE representation of an event type.
func (eventType EventType) String() string {
	switch eventType {
	case Deletion:
		return "DEL"
	case Duplication:
		return "DUP"
	case Inversion:
		return "INV"
	case DuplicatedInversion:
		return "DUP_INV"
	case Unresolved:
		return "UR"
	default:
		return "INVALID"
	}
}

// CalledEvent is a called structural variant event, the unit of
// external output. Unresolved events mark loci where the genotype
// search was intractable even after repartitioning.
type CalledEvent struct {
	Type        EventType
	Interval    Interval
	GroupId     int
	PathId      int
	Resolved    bool
	Probability float64
}

// graphEvent is an event hypothesis derived from a single genotype at
// a single reference edge.
type graphEvent struct {
	eventType           EventType
	interval            Interval
	groupId             int
	pathId              int
	probability         float64
	evidenceProbability float64
	resolved            bool
}

// referenceEdgeCountsAndInversions counts, per haplotype of the
// genotype, how often each reference edge is visited and whether it
// is ever visited in inverted orientation.
func referenceEdgeCountsAndInversions(genotype *Genotype, numEdges int) (counts [][]int32, inversions [][]bool) {
	counts = make([][]int32, len(genotype.Paths))
	inversions = make([][]bool, len(genotype.Paths))
	for haplotypeId, path := range genotype.Paths {
		referenceEdgeCounts := make([]int32, numEdges)
		referenceEdgeInversions := make([]bool, numEdges)
		for _, edge := range path {
			if edge.Reference {
				referenceEdgeCounts[edge.Index]++
				if edge.Inverted {
					referenceEdgeInversions[edge.Index] = true
				}
			}
		}
		counts[haplotypeId] = referenceEdgeCounts
		inversions[haplotypeId] = referenceEdgeInversions
	}
	return counts, inversions
}

// edgeEvents derives the event hypotheses occurring at the given
// reference edge: a deletion when any haplotype skips the edge, a
// duplication when any haplotype visits it more than once, and an
// inversion when any haplotype visits it inverted. A duplication and
// inversion at the same edge collapse into a single combined event.
func edgeEvents(graph *Graph, edge Edge, genotype *Genotype, counts [][]int32, inversions [][]bool) []graphEvent {
	edgeIndex := edge.Index
	deletion := false
	for i := range counts {
		if counts[i][edgeIndex] < 1 {
			deletion = true
			break
		}
	}
	duplication := false
	for i := range counts {
		if counts[i][edgeIndex] > 1 {
			duplication = true
			break
		}
	}
	inversion := false
	for i := range inversions {
		if inversions[i][edgeIndex] {
			inversion = true
			break
		}
	}
	if !deletion && !duplication && !inversion {
		return nil
	}
	interval := graph.EdgeInterval(edge)
	newEvent := func(eventType EventType) graphEvent {
		return graphEvent{
			eventType:           eventType,
			interval:            interval,
			groupId:             genotype.GroupId,
			pathId:              genotype.GenotypeId,
			probability:         genotype.Probability,
			evidenceProbability: genotype.EvidenceProbability,
			resolved:            true,
		}
	}
	var events []graphEvent
	if deletion {
		events = append(events, newEvent(Deletion))
	}
	if duplication && inversion {
		events = append(events, newEvent(DuplicatedInversion))
	} else {
		if duplication {
			events = append(events, newEvent(Duplication))
		}
		if inversion {
			events = append(events, newEvent(Inversion))
		}
	}
	return events
}

// genotypeEvents derives the event hypotheses of one genotype for
// every slot of the reference path.
func genotypeEvents(graph *Graph, genotype *Genotype) [][]graphEvent {
	counts, inversions := referenceEdgeCountsAndInversions(genotype, len(graph.Edges()))
	referencePath := graph.ReferenceEdges()
	events := make([][]graphEvent, len(referencePath))
	for i, edge := range referencePath {
		events[i] = edgeEvents(graph, edge, genotype, counts, inversions)
	}
	return events
}

// integrateEdgeEvents aggregates the event hypotheses of all
// genotypes per reference path slot and event type, summing the
// genotype probabilities. Hypotheses that predict the same event type
// at the same locus accumulate probability mass rather than compete.
func integrateEdgeEvents(genotypes []*Genotype, graph *Graph) []CalledEvent {
	slots := make([][]graphEvent, len(graph.ReferenceEdges()))
	for _, genotype := range genotypes {
		for i, events := range genotypeEvents(graph, genotype) {
			slots[i] = append(slots[i], events...)
		}
	}
	var events []CalledEvent
	for _, slot := range slots {
		for _, eventType := range eventTypes {
			var first *graphEvent
			totalProbability := 0.0
			for i := range slot {
				if slot[i].eventType == eventType {
					if first == nil {
						first = &slot[i]
					}
					totalProbability += slot[i].probability
				}
			}
			if first != nil {
				events = append(events, CalledEvent{
					Type:        eventType,
					Interval:    first.interval,
					GroupId:     first.groupId,
					PathId:      first.pathId,
					Resolved:    true,
					Probability: totalProbability,
				})
			}
		}
	}
	return events
}

// filterEventsByProbability drops events below the given probability.
func filterEventsByProbability(events []CalledEvent, minProb float64) []CalledEvent {
	result := make([]CalledEvent, 0, len(events))
	for _, event := range events {
		if event.Probability >= minProb {
			result = append(result, event)
		}
	}
	return result
}

// filterEventsBySize drops events shorter than the given size.
func filterEventsBySize(events []CalledEvent, minSize int32) []CalledEvent {
	result := make([]CalledEvent, 0, len(events))
	for _, event := range events {
		if event.Interval.Length() >= minSize {
			result = append(result, event)
		}
	}
	return result
}

// filterGenotypesByProbability drops genotypes whose depth
// probability is below the given threshold.
func filterGenotypesByProbability(genotypes []*Genotype, minProb float64) []*Genotype {
	result := make([]*Genotype, 0, len(genotypes))
	for _, genotype := range genotypes {
		if genotype.DepthProbability >= minProb {
			result = append(result, genotype)
		}
	}
	return result
}

// mergeRun merges a run of adjacent events into one event spanning
// from the start of the first to the end of the last, keeping the
// type, ids and probability of the first.
func mergeRun(run []CalledEvent) CalledEvent {
	merged := run[0]
	merged.Interval.End = run[len(run)-1].Interval.End
	return merged
}

// mergeAdjacentEvents merges, per event type, runs of events whose
// intervals are on the same contig and adjacent end-to-start and
// whose probabilities are exactly equal. Events with equal intervals
// that cannot merge are dropped in favor of the first.
func mergeAdjacentEvents(events []CalledEvent) []CalledEvent {
	mergedEvents := make([]CalledEvent, 0, len(events))
	var run []CalledEvent
	for _, eventType := range eventTypes {
		var typedEvents []CalledEvent
		for _, event := range events {
			if event.Type == eventType {
				typedEvents = append(typedEvents, event)
			}
		}
		sort.SliceStable(typedEvents, func(i, j int) bool {
			return CompareIntervals(typedEvents[i].Interval, typedEvents[j].Interval) < 0
		})
		for _, event := range typedEvents {
			if len(run) == 0 {
				run = append(run, event)
				continue
			}
			previous := run[len(run)-1]
			if previous.Interval.Contig == event.Interval.Contig &&
				previous.Interval.End == event.Interval.Start &&
				previous.Probability == event.Probability {
				run = append(run, event)
			} else if event.Interval != previous.Interval {
				mergedEvents = append(mergedEvents, mergeRun(run))
				run = run[:0]
				run = append(run, event)
			}
		}
		if len(run) > 0 {
			mergedEvents = append(mergedEvents, mergeRun(run))
			run = run[:0]
		}
	}
	return mergedEvents
}
