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

func pathHasEdges(path Path, indices []int, inversions []bool) bool {
	if len(path) != len(indices) {
		return false
	}
	for i, edge := range path {
		if edge.Index != indices[i] || edge.Inverted != inversions[i] {
			return false
		}
	}
	return true
}

func pathsContain(paths []Path, indices []int, inversions []bool) bool {
	for _, path := range paths {
		if pathHasEdges(path, indices, inversions) {
			return true
		}
	}
	return false
}

func TestEnumerateHaplotypes(t *testing.T) {
	paths, err := EnumerateHaplotypes(deletionGraph(), 1, 1, 10000, 10)
	if err != nil {
		t.Error("EnumerateHaplotypes failed")
	}
	if len(paths) != 3 {
		t.Error("EnumerateHaplotypes path count failed")
	}
	if !pathsContain(paths, nil, nil) {
		t.Error("EnumerateHaplotypes empty path failed")
	}
	if !pathsContain(paths, []int{0, 1}, []bool{false, false}) {
		t.Error("EnumerateHaplotypes reference path failed")
	}
	if !pathsContain(paths, []int{2}, []bool{false}) {
		t.Error("EnumerateHaplotypes junction path failed")
	}
}

func TestEnumerateHaplotypesInversion(t *testing.T) {
	paths, err := EnumerateHaplotypes(deletionGraph(), 3, 2, 10000, 10)
	if err != nil {
		t.Error("EnumerateHaplotypes with backtracking failed")
	}
	// the junction followed by the last reference segment traversed
	// backward and forward again
	if !pathsContain(paths, []int{2, 1, 1}, []bool{false, true, false}) {
		t.Error("EnumerateHaplotypes inverted traversal failed")
	}
}

func TestEnumerateHaplotypesOverflow(t *testing.T) {
	paths, err := EnumerateHaplotypes(deletionGraph(), 3, 3, 0, 10)
	if paths != nil {
		t.Error("EnumerateHaplotypes overflow paths failed")
	}
	if _, ok := err.(*EnumerationOverflowError); !ok {
		t.Error("EnumerateHaplotypes overflow error failed")
	}
}

func TestEnumerateHaplotypesNoReferencePath(t *testing.T) {
	nodes := []Node{{"1", 100}, {"1", 200}}
	edges := []Edge{{Index: 0, NodeA: 0, NodeB: 1, Prior: junctionPrior()}}
	paths, err := EnumerateHaplotypes(NewGraph(nodes, edges), 3, 3, 10000, 10)
	if paths != nil || err != nil {
		t.Error("EnumerateHaplotypes without reference path failed")
	}
}
