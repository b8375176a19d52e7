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

// An OverlapPredicate decides whether two edge intervals belong to
// the same graph partition.
type OverlapPredicate func(interval1, interval2 Interval) bool

// partitionPredicate joins two intervals when they partially overlap
// one another or meet the minimum reciprocal overlap. Strict
// containment does not join, which is what keeps nested loci in
// separate partitions.
func partitionPredicate(minReciprocalOverlap float64) OverlapPredicate {
	return func(interval1, interval2 Interval) bool {
		if !interval1.Overlaps(interval2) {
			return false
		}
		return (interval1.Start <= interval2.Start && interval1.End <= interval2.End) ||
			(interval2.Start <= interval1.Start && interval2.End <= interval1.End) ||
			interval1.HasReciprocalOverlap(interval2, minReciprocalOverlap)
	}
}

// union-find over edge indices for clustering edges into partitions

func findRepresentative(grouping []int, edgeId int) int {
	representative := edgeId
	for representative != grouping[representative] {
		representative = grouping[representative]
	}
	for edgeId != representative {
		next := grouping[edgeId]
		grouping[edgeId] = representative
		edgeId = next
	}
	return representative
}

func joinEdges(grouping []int, edgeId1, edgeId2 int) {
	representative1 := findRepresentative(grouping, edgeId1)
	representative2 := findRepresentative(grouping, edgeId2)
	if representative1 != representative2 {
		grouping[representative1] = representative2
	}
}

// PartitionGraph splits a graph into independent subgraphs. Edges
// whose intervals satisfy the overlap predicate are clustered
// together; every cluster is then completed with the reference edges
// overlapping its span, so that the reference path of each partition
// is contiguous. Reference segments may be shared between a partition
// and the partitions nested inside its span; breakpoint edges belong
// to exactly one partition. Partitions are ordered by their smallest
// member edge index.
func PartitionGraph(graph *Graph, predicate OverlapPredicate) []*Graph {
	edges := graph.Edges()
	if len(edges) == 0 {
		return nil
	}
	edgeIntervals := make([]Interval, len(edges))
	for i, edge := range edges {
		edgeIntervals[i] = graph.EdgeInterval(edge)
	}
	grouping := make([]int, len(edges))
	for i := range grouping {
		grouping[i] = i
	}
	for i := 0; i < len(edges); i++ {
		for j := i + 1; j < len(edges); j++ {
			if predicate(edgeIntervals[i], edgeIntervals[j]) {
				joinEdges(grouping, i, j)
			}
		}
	}
	clusters := make(map[int][]int)
	order := make([]int, 0, len(edges))
	for i := range edges {
		representative := findRepresentative(grouping, i)
		members, known := clusters[representative]
		clusters[representative] = append(members, i)
		if !known {
			order = append(order, representative)
		}
	}
	// members are collected in increasing edge index order, so the
	// first member of each cluster is its smallest
	sort.Slice(order, func(i, j int) bool {
		return clusters[order[i]][0] < clusters[order[j]][0]
	})

	partitions := make([]*Graph, 0, len(order))
	for _, representative := range order {
		partitions = append(partitions, subgraph(graph, clusters[representative], edgeIntervals))
	}
	return partitions
}

// subgraph builds the partition graph for one edge cluster: the
// member edges, the reference edges overlapping the cluster span, and
// their incident nodes, all reindexed.
func subgraph(graph *Graph, members []int, edgeIntervals []Interval) *Graph {
	spans := make(map[string]Interval)
	included := make(map[int]bool, len(members))
	for _, i := range members {
		included[i] = true
		interval := edgeIntervals[i]
		span, ok := spans[interval.Contig]
		if !ok {
			span = interval
		} else {
			if interval.Start < span.Start {
				span.Start = interval.Start
			}
			if interval.End > span.End {
				span.End = interval.End
			}
		}
		spans[interval.Contig] = span
	}
	for _, edge := range graph.ReferenceEdges() {
		if included[edge.Index] {
			continue
		}
		if span, ok := spans[edgeIntervals[edge.Index].Contig]; ok && edgeIntervals[edge.Index].Overlaps(span) {
			included[edge.Index] = true
		}
	}
	edgeIds := make([]int, 0, len(included))
	for i := range included {
		edgeIds = append(edgeIds, i)
	}
	sort.Ints(edgeIds)

	nodeMapping := make(map[int]int)
	var nodeIds []int
	for _, i := range edgeIds {
		edge := graph.Edges()[i]
		if _, ok := nodeMapping[edge.NodeA]; !ok {
			nodeMapping[edge.NodeA] = 0
			nodeIds = append(nodeIds, edge.NodeA)
		}
		if _, ok := nodeMapping[edge.NodeB]; !ok {
			nodeMapping[edge.NodeB] = 0
			nodeIds = append(nodeIds, edge.NodeB)
		}
	}
	sort.Ints(nodeIds)
	nodes := make([]Node, len(nodeIds))
	for newId, oldId := range nodeIds {
		nodeMapping[oldId] = newId
		nodes[newId] = graph.Nodes()[oldId]
	}
	newEdges := make([]Edge, len(edgeIds))
	for newId, oldId := range edgeIds {
		edge := graph.Edges()[oldId]
		edge.Index = newId
		edge.NodeA = nodeMapping[edge.NodeA]
		edge.NodeB = nodeMapping[edge.NodeB]
		newEdges[newId] = edge
	}
	return NewGraph(nodes, newEdges)
}

// partitionDependencyForest builds the directed forest over
// partitions in which partition i points to partition j if i is the
// smallest partition strictly larger than and fully containing j on
// the same contig. The forest is used to propagate baseline copy
// numbers from outer to nested partitions. It has no self edges, and
// a child has at most one parent per contig interval.
func partitionDependencyForest(partitions []*Graph) (children [][]int, hasParent []bool) {
	partitionIntervals := make([][]Interval, len(partitions))
	for i, partition := range partitions {
		partitionIntervals[i] = partition.ContigIntervals()
	}
	children = make([][]int, len(partitions))
	hasParent = make([]bool, len(partitions))
	for j := range partitions {
		for _, jInterval := range partitionIntervals[j] {
			minParent := -1
			var minLength int32
			for i := range partitions {
				if i == j {
					continue
				}
				for _, iInterval := range partitionIntervals[i] {
					if iInterval.Contains(jInterval) && iInterval.Length() > jInterval.Length() &&
						(minParent == -1 || iInterval.Length() < minLength) {
						minParent = i
						minLength = iInterval.Length()
					}
				}
			}
			if minParent != -1 {
				children[minParent] = append(children[minParent], j)
				hasParent[j] = true
			}
		}
	}
	return children, hasParent
}
