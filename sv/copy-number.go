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
	"sort"

	"github.com/exascience/elsv/intervals"
)

// CopyNumberInterval is a genomic interval with a log posterior
// vector over discrete copy number states.
type CopyNumberInterval struct {
	Interval
	LogPosteriors []float64
}

// CopyNumberIndex supports overlap queries over a read-only set of
// copy number intervals.
type CopyNumberIndex struct {
	numStates int
	byContig  map[string][]CopyNumberInterval
	coverage  map[string][]intervals.Interval
	maxLength map[string]int32
}

// NewCopyNumberIndex creates an index over the given copy number
// intervals. All posterior vectors must have the same number of copy
// number states; a mismatch indicates an upstream data integrity bug
// and panics.
func NewCopyNumberIndex(copyNumberIntervals []CopyNumberInterval) *CopyNumberIndex {
	index := &CopyNumberIndex{
		byContig:  make(map[string][]CopyNumberInterval),
		coverage:  make(map[string][]intervals.Interval),
		maxLength: make(map[string]int32),
	}
	for _, cni := range copyNumberIntervals {
		if len(cni.LogPosteriors) == 0 {
			log.Panicf("copy number interval %v:%v-%v carries no posteriors", cni.Contig, cni.Start, cni.End)
		}
		if index.numStates == 0 {
			index.numStates = len(cni.LogPosteriors)
		} else if len(cni.LogPosteriors) != index.numStates {
			log.Panic("dimension of copy number interval posteriors is not consistent")
		}
		index.byContig[cni.Contig] = append(index.byContig[cni.Contig], cni)
		index.coverage[cni.Contig] = append(index.coverage[cni.Contig], cni.Interval.Interval)
		if length := cni.Length(); length > index.maxLength[cni.Contig] {
			index.maxLength[cni.Contig] = length
		}
	}
	for _, cnis := range index.byContig {
		sort.SliceStable(cnis, func(i, j int) bool {
			return cnis[i].Start < cnis[j].Start
		})
	}
	for contig, coverage := range index.coverage {
		intervals.ParallelSortByStart(coverage)
		index.coverage[contig] = intervals.ParallelFlatten(coverage)
	}
	return index
}

// NumStates returns the number of copy number states, or 0 for an
// empty index.
func (index *CopyNumberIndex) NumStates() int {
	return index.numStates
}

// HasOverlappers determines whether any copy number interval overlaps
// the given query interval. It queries the flattened per-contig
// coverage, so it is cheaper than Overlappers when the overlapping
// intervals themselves are not needed.
func (index *CopyNumberIndex) HasOverlappers(query Interval) bool {
	return intervals.Overlap(index.coverage[query.Contig], query.Start, query.End)
}

// Overlappers returns the copy number intervals overlapping the given
// query interval, in start order.
func (index *CopyNumberIndex) Overlappers(query Interval) []CopyNumberInterval {
	cnis := index.byContig[query.Contig]
	// Intervals on a contig may overlap each other, so scan from the
	// earliest start that could still reach the query.
	lowest := query.Start - index.maxLength[query.Contig]
	first := sort.Search(len(cnis), func(i int) bool {
		return cnis[i].Start >= lowest
	})
	var result []CopyNumberInterval
	for i := first; i < len(cnis); i++ {
		if cnis[i].Start >= query.End {
			break
		}
		if cnis[i].Overlaps(query) {
			result = append(result, cnis[i])
		}
	}
	return result
}
