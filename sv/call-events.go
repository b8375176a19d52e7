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
	"sync"

	"github.com/bits-and-blooms/bitset"
	"github.com/exascience/pargo/parallel"
)

// RepartitionReciprocalOverlap is the looser reciprocal overlap
// threshold used to repartition a graph whose genotype search was
// intractable at the regular threshold.
const RepartitionReciprocalOverlap = 0.1

// CallerArgs bundles the parameters of the event caller.
type CallerArgs struct {
	PartitionReciprocalOverlap float64
	MinEventProb               float64
	MaxPathLengthFactor        float64
	MaxEdgeVisits              int32
	MaxQueueSize               int
	MaxBreakpointsPerHaplotype int
	MinEventSize               int32
	MinHaplotypeProb           float64
	DefaultCopyNumber          int
}

// DefaultCallerArgs returns the default parameters of the event
// caller, assuming a diploid sample.
func DefaultCallerArgs() CallerArgs {
	return CallerArgs{
		PartitionReciprocalOverlap: 0.5,
		MinEventProb:               0.5,
		MaxPathLengthFactor:        3,
		MaxEdgeVisits:              3,
		MaxQueueSize:               50000,
		MaxBreakpointsPerHaplotype: math.MaxInt32,
		MinEventSize:               50,
		MinHaplotypeProb:           0.02,
		DefaultCopyNumber:          2,
	}
}

// A Caller calls structural variant events on a breakpoint graph
// against an index of copy number evidence.
type Caller struct {
	graph *Graph
	index *CopyNumberIndex
	args  CallerArgs
}

// NewCaller creates an event caller for the given graph and copy
// number evidence.
func NewCaller(graph *Graph, index *CopyNumberIndex, args CallerArgs) *Caller {
	return &Caller{graph: graph, index: index, args: args}
}

// generateEvents runs the full genotyping pipeline on one graph:
// haplotype enumeration, genotype enumeration and scoring, event
// extraction and integration, probability filtering, merging of
// adjacent events, and size filtering. A zero baseline copy number
// short-circuits to empty results. A non-nil error reports that the
// search space exceeded a resource cap; the caller recovers by
// searching a smaller graph.
func generateEvents(graph *Graph, groupId, baselineCopyNumber int, index *CopyNumberIndex, args CallerArgs) ([]*Genotype, []CalledEvent, error) {
	if baselineCopyNumber == 0 {
		return nil, nil, nil
	}
	paths, err := EnumerateHaplotypes(graph, args.MaxPathLengthFactor, args.MaxEdgeVisits, args.MaxQueueSize, args.MaxBreakpointsPerHaplotype)
	if err != nil {
		return nil, nil, err
	}
	if len(paths) == 0 {
		return nil, nil, nil
	}
	genotypes, err := enumerateGenotypes(paths, graph, index, groupId, baselineCopyNumber)
	if err != nil {
		return nil, nil, err
	}
	setDepthProbabilities(genotypes)
	setEvidenceProbabilities(genotypes, graph)
	setProbabilities(genotypes)
	events := integrateEdgeEvents(genotypes, graph)
	events = filterEventsByProbability(events, args.MinEventProb)
	events = mergeAdjacentEvents(events)
	events = filterEventsBySize(events, args.MinEventSize)
	haplotypes := filterGenotypesByProbability(genotypes, args.MinHaplotypeProb)
	return haplotypes, events, nil
}

// unresolvedEvent marks a locus where the genotype search was
// intractable even after repartitioning.
func unresolvedEvent(interval Interval, groupId int) CalledEvent {
	return CalledEvent{
		Type:     Unresolved,
		Interval: interval,
		GroupId:  groupId,
	}
}

// solveState is the processed-partition set shared by the partition
// solvers running in parallel.
type solveState struct {
	mutex     sync.Mutex
	processed *bitset.BitSet
}

// tryAcquire marks a partition as processed. It returns false when
// another solver got there first.
func (state *solveState) tryAcquire(partitionId int) bool {
	state.mutex.Lock()
	defer state.mutex.Unlock()
	if state.processed.Test(uint(partitionId)) {
		return false
	}
	state.processed.Set(uint(partitionId))
	return true
}

// solvePartition genotypes one partition and recurses into its
// dependent child partitions. For a non-root partition, the baseline
// copy number is the number of reference edges overlapping the
// partition's interval in the parent's single highest-probability
// genotype. When the genotype search is intractable, the partition is
// repartitioned at the looser reciprocal overlap threshold and each
// piece retried once; pieces that still fail produce unresolved
// events covering their intervals.
func (caller *Caller) solvePartition(partitionId int, partitions []*Graph, children [][]int, parentGenotypes []*Genotype, defaultCopyNumber int, state *solveState) ([]*Genotype, []CalledEvent) {
	if !state.tryAcquire(partitionId) {
		return nil, nil
	}
	partition := partitions[partitionId]
	partitionInterval := partition.ContigIntervals()[0]
	baselineCopyNumber := defaultCopyNumber
	if len(parentGenotypes) > 0 {
		best := parentGenotypes[0]
		for _, genotype := range parentGenotypes[1:] {
			if genotype.Probability > best.Probability {
				best = genotype
			}
		}
		baselineCopyNumber = 0
		for _, path := range best.Paths {
			for _, edge := range path {
				if edge.Reference && best.Graph.EdgeInterval(edge).Overlaps(partitionInterval) {
					baselineCopyNumber++
				}
			}
		}
	}
	genotypes, events, err := generateEvents(partition, partitionId, baselineCopyNumber, caller.index, caller.args)
	partitionGenotypes := genotypes
	if err != nil {
		repartitions := PartitionGraph(partition, partitionPredicate(RepartitionReciprocalOverlap))
		for _, repartition := range repartitions {
			subGenotypes, subEvents, subErr := generateEvents(repartition, partitionId, baselineCopyNumber, caller.index, caller.args)
			if subErr != nil {
				log.Printf("genotype search on %v:%v-%v intractable after repartitioning: %v", partitionInterval.Contig, partitionInterval.Start, partitionInterval.End, subErr)
				for _, interval := range repartition.ContigIntervals() {
					events = append(events, unresolvedEvent(interval, partitionId))
				}
			} else {
				genotypes = append(genotypes, subGenotypes...)
				events = append(events, subEvents...)
				partitionGenotypes = append(partitionGenotypes, subGenotypes...)
			}
		}
	}
	for _, childId := range children[partitionId] {
		childGenotypes, childEvents := caller.solvePartition(childId, partitions, children, partitionGenotypes, baselineCopyNumber, state)
		genotypes = append(genotypes, childGenotypes...)
		events = append(events, childEvents...)
	}
	return genotypes, events
}

// CallEvents partitions the graph into independent subgraphs, solves
// the root partitions of the dependency forest in parallel, and
// recursively solves nested partitions with the baseline copy number
// inferred from their parent's best genotype. It returns the
// supporting genotypes and called events of all partitions.
func (caller *Caller) CallEvents() ([]*Genotype, []CalledEvent) {
	partitions := PartitionGraph(caller.graph, partitionPredicate(caller.args.PartitionReciprocalOverlap))
	if len(partitions) == 0 {
		return nil, nil
	}
	children, hasParent := partitionDependencyForest(partitions)
	state := &solveState{processed: bitset.New(uint(len(partitions)))}
	var roots []int
	for i := range partitions {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	type solveResult struct {
		genotypes []*Genotype
		events    []CalledEvent
	}
	results := make([]solveResult, len(roots))
	parallel.Range(0, len(roots), 0, func(low, high int) {
		for i := low; i < high; i++ {
			genotypes, events := caller.solvePartition(roots[i], partitions, children, nil, caller.args.DefaultCopyNumber, state)
			results[i] = solveResult{genotypes: genotypes, events: events}
		}
	})
	var genotypes []*Genotype
	var events []CalledEvent
	for _, result := range results {
		genotypes = append(genotypes, result.genotypes...)
		events = append(events, result.events...)
	}
	return genotypes, events
}
