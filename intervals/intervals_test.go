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

package intervals

import (
	"math/rand"
	"testing"
)

func intervalsEqual(intervals1, intervals2 []Interval) bool {
	if len(intervals1) != len(intervals2) {
		return false
	}
	for i, interval1 := range intervals1 {
		if interval1 != intervals2[i] {
			return false
		}
	}
	return true
}

func makeLargeIntervalsSlice() (result []Interval) {
	result = make([]Interval, 0x30000)
	result[0].Start = 0
	result[0].End = 3
	for i := 1; i < len(result); i++ {
		if rand.Intn(100) < 20 {
			result[i].Start = result[i-1].End - 1
		} else {
			result[i].Start = result[i-1].End + 1
		}
		result[i].End = result[i].Start + 3
	}
	return result
}

func TestFlatten(t *testing.T) {
	if Flatten(nil) != nil {
		t.Error("empty Flatten failed")
	}
	if !intervalsEqual(Flatten([]Interval{{2, 3}, {3, 4}}), []Interval{{2, 4}}) {
		t.Error("Flatten 1 failed")
	}
	if !intervalsEqual(Flatten([]Interval{{2, 3}, {4, 5}}), []Interval{{2, 3}, {4, 5}}) {
		t.Error("Flatten 2 failed")
	}
	if !intervalsEqual(Flatten([]Interval{{2, 4}, {3, 5}, {4, 6}}), []Interval{{2, 6}}) {
		t.Error("Flatten 3 failed")
	}
	if !intervalsEqual(Flatten([]Interval{{2, 4}, {3, 5}, {4, 6}, {7, 9}}), []Interval{{2, 6}, {7, 9}}) {
		t.Error("Flatten 4 failed")
	}
	if !intervalsEqual(Flatten([]Interval{{2, 3}, {3, 4}, {5, 6}, {6, 7}}), []Interval{{2, 4}, {5, 7}}) {
		t.Error("Flatten 5 failed")
	}
	intervals := Flatten(makeLargeIntervalsSlice())
	if intervals[0].Start > intervals[0].End {
		t.Error("Flatten 6a failed")
	}
	for i := 1; i < len(intervals); i++ {
		interval := intervals[i]
		if interval.Start > interval.End || interval.Start <= intervals[i-1].End {
			t.Error("Flatten 6b failed")
		}
	}
}

func TestParallelFlatten(t *testing.T) {
	if ParallelFlatten(nil) != nil {
		t.Error("empty ParallelFlatten failed")
	}
	if !intervalsEqual(ParallelFlatten([]Interval{{2, 3}, {3, 4}}), []Interval{{2, 4}}) {
		t.Error("ParallelFlatten 1 failed")
	}
	if !intervalsEqual(ParallelFlatten([]Interval{{2, 4}, {3, 5}, {4, 6}, {7, 9}}), []Interval{{2, 6}, {7, 9}}) {
		t.Error("ParallelFlatten 2 failed")
	}
	intervals := ParallelFlatten(makeLargeIntervalsSlice())
	if intervals[0].Start > intervals[0].End {
		t.Error("ParallelFlatten 3a failed")
	}
	for i := 1; i < len(intervals); i++ {
		interval := intervals[i]
		if interval.Start > interval.End || interval.Start <= intervals[i-1].End {
			t.Error("ParallelFlatten 3b failed")
		}
	}
}

func TestOverlap(t *testing.T) {
	if Overlap(nil, 2, 3) {
		t.Error("empty Overlap failed")
	}
	if Overlap([]Interval{{1, 3}, {7, 8}}, 4, 6) {
		t.Error("Overlap 1 failed")
	}
	if !Overlap([]Interval{{2, 4}, {6, 8}}, 1, 3) {
		t.Error("Overlap 2 failed")
	}
	if !Overlap([]Interval{{2, 4}, {6, 8}}, 3, 7) {
		t.Error("Overlap 3 failed")
	}
	if !Overlap([]Interval{{2, 4}, {6, 8}}, 5, 7) {
		t.Error("Overlap 4 failed")
	}
	if !Overlap([]Interval{{2, 4}, {6, 8}}, 1, 10) {
		t.Error("Overlap 5 failed")
	}
	// End is exclusive on both sides of the query
	if Overlap([]Interval{{2, 4}}, 4, 6) {
		t.Error("Overlap 6 failed")
	}
	if Overlap([]Interval{{4, 6}}, 2, 4) {
		t.Error("Overlap 7 failed")
	}
}

func TestOverlaps(t *testing.T) {
	if !(Interval{2, 5}).Overlaps(Interval{4, 8}) {
		t.Error("Overlaps 1 failed")
	}
	if (Interval{2, 5}).Overlaps(Interval{5, 8}) {
		t.Error("Overlaps 2 failed")
	}
	if (Interval{5, 8}).Overlaps(Interval{2, 5}) {
		t.Error("Overlaps 3 failed")
	}
	if !(Interval{2, 10}).Overlaps(Interval{4, 6}) {
		t.Error("Overlaps 4 failed")
	}
}

func TestOverlapLength(t *testing.T) {
	if (Interval{2, 5}).OverlapLength(Interval{4, 8}) != 1 {
		t.Error("OverlapLength 1 failed")
	}
	if (Interval{2, 5}).OverlapLength(Interval{5, 8}) != 0 {
		t.Error("OverlapLength 2 failed")
	}
	if (Interval{2, 10}).OverlapLength(Interval{4, 6}) != 2 {
		t.Error("OverlapLength 3 failed")
	}
	if (Interval{4, 6}).OverlapLength(Interval{2, 10}) != 2 {
		t.Error("OverlapLength 4 failed")
	}
}

func TestHasReciprocalOverlap(t *testing.T) {
	if !(Interval{0, 10}).HasReciprocalOverlap(Interval{1, 11}, 0.9) {
		t.Error("HasReciprocalOverlap 1 failed")
	}
	if (Interval{0, 10}).HasReciprocalOverlap(Interval{5, 15}, 0.9) {
		t.Error("HasReciprocalOverlap 2 failed")
	}
	if !(Interval{0, 10}).HasReciprocalOverlap(Interval{5, 15}, 0.5) {
		t.Error("HasReciprocalOverlap 3 failed")
	}
	if (Interval{0, 100}).HasReciprocalOverlap(Interval{0, 10}, 0.5) {
		t.Error("HasReciprocalOverlap 4 failed")
	}
}

func TestCompare(t *testing.T) {
	if Compare(Interval{1, 5}, Interval{2, 3}) != -1 {
		t.Error("Compare 1 failed")
	}
	if Compare(Interval{2, 3}, Interval{1, 5}) != 1 {
		t.Error("Compare 2 failed")
	}
	if Compare(Interval{2, 3}, Interval{2, 5}) != -1 {
		t.Error("Compare 3 failed")
	}
	if Compare(Interval{2, 5}, Interval{2, 5}) != 0 {
		t.Error("Compare 4 failed")
	}
}

func TestSortByStart(t *testing.T) {
	intervals := []Interval{{7, 8}, {2, 3}, {5, 6}}
	SortByStart(intervals)
	if !intervalsEqual(intervals, []Interval{{2, 3}, {5, 6}, {7, 8}}) {
		t.Error("SortByStart failed")
	}
	intervals = makeLargeIntervalsSlice()
	ParallelSortByStart(intervals)
	for i := 1; i < len(intervals); i++ {
		if intervals[i].Start < intervals[i-1].Start {
			t.Error("ParallelSortByStart failed")
		}
	}
}
