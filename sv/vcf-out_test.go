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

	"github.com/exascience/elsv/vcf"
)

func TestEventsToVcf(t *testing.T) {
	events := []CalledEvent{
		{
			Type:        Unresolved,
			Interval:    NewInterval("2", 5000, 6000),
			GroupId:     4,
			PathId:      0,
			Resolved:    false,
			Probability: 0,
		},
		{
			Type:        Deletion,
			Interval:    NewInterval("1", 100, 300),
			GroupId:     0,
			PathId:      2,
			Resolved:    true,
			Probability: 0.97,
		},
	}
	out := EventsToVcf(events)
	if len(out.Header.Infos) != 5 {
		t.Error("EventsToVcf header failed")
	}
	if len(out.Variants) != 2 {
		t.Error("EventsToVcf variant count failed")
	}
	deletion := out.Variants[0]
	if deletion.Chrom != "1" || deletion.Pos != 101 || deletion.Ref != "N" {
		t.Error("EventsToVcf deletion position failed")
	}
	if len(deletion.Alt) != 1 || deletion.Alt[0] != "<DEL>" {
		t.Error("EventsToVcf deletion alt failed")
	}
	if !deletion.Pass() {
		t.Error("EventsToVcf deletion filter failed")
	}
	if end, ok := deletion.Info.Get(vcf.END); !ok || end != 300 {
		t.Error("EventsToVcf deletion end failed")
	}
	if svType, ok := deletion.Info.Get(SVTYPE); !ok || svType != "DEL" {
		t.Error("EventsToVcf deletion type failed")
	}
	if prob, ok := deletion.Info.Get(PROB); !ok || prob != 0.97 {
		t.Error("EventsToVcf deletion probability failed")
	}
	if groupId, ok := deletion.Info.Get(GROUPID); !ok || groupId != 0 {
		t.Error("EventsToVcf deletion group failed")
	}
	if pathId, ok := deletion.Info.Get(PATHID); !ok || pathId != 2 {
		t.Error("EventsToVcf deletion path failed")
	}
	unresolved := out.Variants[1]
	if unresolved.Chrom != "2" || unresolved.Pos != 5001 {
		t.Error("EventsToVcf unresolved position failed")
	}
	if unresolved.Pass() || len(unresolved.Filter) != 1 || unresolved.Filter[0] != UNRESOLVED {
		t.Error("EventsToVcf unresolved filter failed")
	}
	if len(unresolved.Alt) != 1 || unresolved.Alt[0] != "<UR>" {
		t.Error("EventsToVcf unresolved alt failed")
	}
}
