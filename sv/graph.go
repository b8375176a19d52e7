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
	"log"
	"math"
	"sort"

	"github.com/exascience/elsv/intervals"
)

type (
	// Interval is a genomic interval on a named contig.
	// Start is inclusive, End is exclusive.
	Interval struct {
		Contig string
		intervals.Interval
	}

	// Node is a genomic position in a breakpoint graph.
	Node struct {
		Contig   string
		Position int32
	}

	// BreakpointPrior is a log prior distribution over the number of
	// times a breakpoint edge is visited by a haplotype set.
	BreakpointPrior []float64

	// Edge connects two nodes of a breakpoint graph. Reference edges
	// represent contiguous reference segments; the remaining edges
	// represent candidate breakpoint junctions and carry a visit
	// count prior.
	Edge struct {
		Index        int
		NodeA, NodeB int
		Reference    bool
		Inverted     bool
		Prior        BreakpointPrior // nil for reference edges
	}

	// Path is one candidate haplotype, expressed as an ordered walk
	// over graph edges. Edges traversed against their stored
	// orientation appear with the Inverted flag flipped.
	Path []Edge

	// Graph is a breakpoint graph over one or more contig intervals.
	// Its reference edges, in index order, form a contiguous path per
	// contig.
	Graph struct {
		nodes          []Node
		edges          []Edge
		referenceEdges []Edge
	}
)

// NewInterval creates an interval from a contig name and start/end
// positions.
func NewInterval(contig string, start, end int32) Interval {
	return Interval{Contig: contig, Interval: intervals.Interval{Start: start, End: end}}
}

// Overlaps determines whether two intervals are on the same contig
// and share at least one position.
func (interval Interval) Overlaps(other Interval) bool {
	return interval.Contig == other.Contig && interval.Interval.Overlaps(other.Interval)
}

// HasReciprocalOverlap determines whether two intervals are on the
// same contig and their overlap covers at least the given fraction of
// both of them.
func (interval Interval) HasReciprocalOverlap(other Interval, fraction float64) bool {
	return interval.Contig == other.Contig && interval.Interval.HasReciprocalOverlap(other.Interval, fraction)
}

// Contains determines whether the interval fully contains the other
// interval.
func (interval Interval) Contains(other Interval) bool {
	return interval.Contig == other.Contig &&
		interval.Start <= other.Start && other.End <= interval.End
}

// CompareIntervals orders intervals by contig name, then by start and
// end position.
func CompareIntervals(interval1, interval2 Interval) int {
	if interval1.Contig < interval2.Contig {
		return -1
	}
	if interval1.Contig > interval2.Contig {
		return 1
	}
	return intervals.Compare(interval1.Interval, interval2.Interval)
}

// LogPrior returns the log prior for the given visit count.
// Out-of-range counts are impossible.
func (prior BreakpointPrior) LogPrior(count int) float64 {
	if count < 0 || count >= len(prior) {
		return math.Inf(-1)
	}
	return prior[count]
}

// NewGraph creates a breakpoint graph from the given nodes and
// edges. The edge set must satisfy the graph contract: edge indices
// are consecutive and match slice positions, edge endpoints are valid
// same-contig node indices with NodeA before NodeB, reference edges
// carry no prior and form a contiguous path per contig in index
// order, and breakpoint edges carry a nonempty prior. Contract
// violations indicate an upstream bug and panic.
func NewGraph(nodes []Node, edges []Edge) *Graph {
	var referenceEdges []Edge
	for i, edge := range edges {
		if edge.Index != i {
			log.Panicf("edge index %v does not match position %v", edge.Index, i)
		}
		if edge.NodeA < 0 || edge.NodeA >= len(nodes) || edge.NodeB < 0 || edge.NodeB >= len(nodes) {
			log.Panicf("edge %v references an unknown node", i)
		}
		nodeA, nodeB := nodes[edge.NodeA], nodes[edge.NodeB]
		if nodeA.Contig != nodeB.Contig {
			log.Panicf("edge %v connects nodes on different contigs", i)
		}
		if nodeA.Position > nodeB.Position {
			log.Panicf("edge %v has its endpoints out of coordinate order", i)
		}
		if edge.Reference {
			if edge.Prior != nil {
				log.Panicf("reference edge %v carries a breakpoint prior", i)
			}
			if n := len(referenceEdges); n > 0 {
				previous := referenceEdges[n-1]
				if nodes[previous.NodeB].Contig == nodeA.Contig && previous.NodeB != edge.NodeA {
					log.Panicf("reference edge %v does not continue the reference path", i)
				}
			}
			referenceEdges = append(referenceEdges, edge)
		} else if len(edge.Prior) == 0 {
			log.Panicf("breakpoint edge %v carries no visit count prior", i)
		}
	}
	return &Graph{nodes: nodes, edges: edges, referenceEdges: referenceEdges}
}

// Nodes returns the nodes of the graph in index order.
func (graph *Graph) Nodes() []Node {
	return graph.nodes
}

// Edges returns the edges of the graph in index order.
func (graph *Graph) Edges() []Edge {
	return graph.edges
}

// ReferenceEdges returns the reference edges of the graph in index
// order. Concatenated they form the reference path.
func (graph *Graph) ReferenceEdges() []Edge {
	return graph.referenceEdges
}

// EdgeInterval returns the genomic interval spanned by an edge,
// bounded by the positions of its two incident nodes.
func (graph *Graph) EdgeInterval(edge Edge) Interval {
	nodeA := graph.nodes[edge.NodeA]
	nodeB := graph.nodes[edge.NodeB]
	return NewInterval(nodeA.Contig, nodeA.Position, nodeB.Position)
}

// ContigIntervals returns, per contig, the interval from the first to
// the last node position, ordered by contig name.
func (graph *Graph) ContigIntervals() []Interval {
	spans := make(map[string]intervals.Interval)
	for _, node := range graph.nodes {
		span, ok := spans[node.Contig]
		if !ok {
			span = intervals.Interval{Start: node.Position, End: node.Position}
		} else {
			if node.Position < span.Start {
				span.Start = node.Position
			}
			if node.Position > span.End {
				span.End = node.Position
			}
		}
		spans[node.Contig] = span
	}
	result := make([]Interval, 0, len(spans))
	for contig, span := range spans {
		result = append(result, Interval{Contig: contig, Interval: span})
	}
	sort.Slice(result, func(i, j int) bool {
		return CompareIntervals(result[i], result[j]) < 0
	})
	return result
}
