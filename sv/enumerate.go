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
	"fmt"
)

// EnumerationOverflowError reports that the haplotype search exceeded
// one of its resource caps. It is a resource guard, not a failure of
// the input; callers recover by searching a smaller graph.
type EnumerationOverflowError struct {
	QueueSize int
}

func (err *EnumerationOverflowError) Error() string {
	return fmt.Sprintf("haplotype search queue exceeded %v entries", err.QueueSize)
}

// searchState is a partial walk through the graph.
type searchState struct {
	node        int
	path        Path
	edgeVisits  []int32
	breakpoints int
}

// EnumerateHaplotypes walks the graph from the start of its reference
// path to the end, producing the bounded set of candidate haplotype
// paths. A path may traverse any edge in either direction; traversing
// an edge against its stored orientation flips its Inverted flag. The
// empty path, a haplotype that lost the whole region, is always among
// the candidates, which keeps depth-only deletions callable. The
// search is capped by the maximum path length (a factor of the
// reference path length), the number of visits per edge, the number
// of breakpoint edges per haplotype, and the size of the search
// queue. Exceeding the queue cap returns an
// EnumerationOverflowError.
func EnumerateHaplotypes(graph *Graph, maxPathLengthFactor float64, maxEdgeVisits int32, maxQueueSize, maxBreakpointsPerHaplotype int) ([]Path, error) {
	referenceEdges := graph.ReferenceEdges()
	if len(referenceEdges) == 0 {
		return nil, nil
	}
	maxPathLength := int(maxPathLengthFactor * float64(len(referenceEdges)))
	if maxPathLength < len(referenceEdges) {
		maxPathLength = len(referenceEdges)
	}
	startNode := referenceEdges[0].NodeA
	endNode := referenceEdges[len(referenceEdges)-1].NodeB

	// adjacency lists in edge index order
	adjacency := make([][]Edge, len(graph.Nodes()))
	for _, edge := range graph.Edges() {
		adjacency[edge.NodeA] = append(adjacency[edge.NodeA], edge)
		if edge.NodeB != edge.NodeA {
			adjacency[edge.NodeB] = append(adjacency[edge.NodeB], edge)
		}
	}

	paths := []Path{nil}
	queue := []searchState{{
		node:       startNode,
		edgeVisits: make([]int32, len(graph.Edges())),
	}}
	for len(queue) > 0 {
		state := queue[0]
		queue = queue[1:]
		if state.node == endNode && len(state.path) > 0 {
			paths = append(paths, state.path)
		}
		if len(state.path) == maxPathLength {
			continue
		}
		for _, edge := range adjacency[state.node] {
			if state.edgeVisits[edge.Index] == maxEdgeVisits {
				continue
			}
			breakpoints := state.breakpoints
			if !edge.Reference {
				if breakpoints == maxBreakpointsPerHaplotype {
					continue
				}
				breakpoints++
			}
			traversed := edge
			if state.node == edge.NodeB && edge.NodeA != edge.NodeB {
				traversed.Inverted = !edge.Inverted
			}
			next := edge.NodeB
			if state.node == edge.NodeB {
				next = edge.NodeA
			}
			path := make(Path, len(state.path), len(state.path)+1)
			copy(path, state.path)
			path = append(path, traversed)
			edgeVisits := make([]int32, len(state.edgeVisits))
			copy(edgeVisits, state.edgeVisits)
			edgeVisits[edge.Index]++
			queue = append(queue, searchState{
				node:        next,
				path:        path,
				edgeVisits:  edgeVisits,
				breakpoints: breakpoints,
			})
			if len(queue) > maxQueueSize {
				return nil, &EnumerationOverflowError{QueueSize: maxQueueSize}
			}
		}
	}
	return paths, nil
}
