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
	"sort"

	"github.com/exascience/elsv/utils"
	"github.com/exascience/elsv/vcf"
)

// VCF entries used for called events.
var (
	SVTYPE     = utils.Intern("SVTYPE")
	GROUPID    = utils.Intern("GROUPID")
	PATHID     = utils.Intern("PATHID")
	PROB       = utils.Intern("PROB")
	UNRESOLVED = utils.Intern("UNRESOLVED")
)

// NewEventsHeader creates the VCF header for called events.
func NewEventsHeader() *vcf.Header {
	header := vcf.NewHeader()
	newInfo := func(id utils.Symbol, number int32, infoType vcf.Type, description string) *vcf.FormatInformation {
		info := vcf.NewFormatInformation()
		info.ID = id
		info.Number = number
		info.Type = infoType
		info.Description = description
		return info
	}
	header.Infos = []*vcf.FormatInformation{
		newInfo(vcf.END, 1, vcf.Integer, "End position of the variant"),
		newInfo(SVTYPE, 1, vcf.String, "Type of structural variant"),
		newInfo(GROUPID, 1, vcf.Integer, "Graph partition the call was made in"),
		newInfo(PATHID, 1, vcf.Integer, "Genotype the call was derived from"),
		newInfo(PROB, 1, vcf.Float, "Aggregated probability of the call"),
	}
	newFilter := func(id utils.Symbol, description string) *vcf.MetaInformation {
		filter := vcf.NewMetaInformation()
		filter.ID = id
		filter.Description = description
		return filter
	}
	header.Meta["FILTER"] = []interface{}{
		newFilter(vcf.PASS, "All filters passed"),
		newFilter(UNRESOLVED, "Genotype search was intractable at this locus"),
	}
	newAlt := func(eventType EventType, description string) *vcf.MetaInformation {
		alt := vcf.NewMetaInformation()
		alt.ID = utils.Intern(eventType.String())
		alt.Description = description
		return alt
	}
	header.Meta["ALT"] = []interface{}{
		newAlt(Deletion, "Deletion"),
		newAlt(Duplication, "Duplication"),
		newAlt(Inversion, "Inversion"),
		newAlt(DuplicatedInversion, "Duplicated inversion"),
		newAlt(Unresolved, "Unresolved locus"),
	}
	header.Meta["source"] = []interface{}{utils.ProgramName + " " + utils.ProgramVersion}
	return header
}

// eventToVariant converts a called event to a VCF variant line.
// Internal intervals are zero-based and half open; VCF positions are
// one-based and inclusive.
func eventToVariant(event CalledEvent) vcf.Variant {
	variant := vcf.Variant{
		Chrom: event.Interval.Contig,
		Pos:   event.Interval.Start + 1,
		ID: []string{fmt.Sprintf("%v_%v_%v_%v",
			event.Type, event.Interval.Contig, event.Interval.Start, event.Interval.End)},
		Ref: "N",
		Alt: []string{"<" + event.Type.String() + ">"},
	}
	if event.Resolved {
		variant.Filter = []utils.Symbol{vcf.PASS}
	} else {
		variant.Filter = []utils.Symbol{UNRESOLVED}
	}
	variant.SetEnd(event.Interval.End)
	variant.Info.Set(SVTYPE, event.Type.String())
	variant.Info.Set(GROUPID, event.GroupId)
	variant.Info.Set(PATHID, event.PathId)
	variant.Info.Set(PROB, event.Probability)
	return variant
}

// EventsToVcf converts called events to a VCF struct, ordered by
// interval and event type.
func EventsToVcf(events []CalledEvent) *vcf.Vcf {
	sortedEvents := make([]CalledEvent, len(events))
	copy(sortedEvents, events)
	sort.SliceStable(sortedEvents, func(i, j int) bool {
		if c := CompareIntervals(sortedEvents[i].Interval, sortedEvents[j].Interval); c != 0 {
			return c < 0
		}
		return sortedEvents[i].Type < sortedEvents[j].Type
	})
	variants := make([]vcf.Variant, len(sortedEvents))
	for i, event := range sortedEvents {
		variants[i] = eventToVariant(event)
	}
	return &vcf.Vcf{
		Header:   NewEventsHeader(),
		Variants: variants,
	}
}

// ToVcfFile stores called events in a VCF file.
func ToVcfFile(events []CalledEvent, filename string) (err error) {
	output, err := vcf.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if nerr := output.Close(); nerr != nil {
			if err == nil {
				err = nerr
			}
		}
	}()
	return EventsToVcf(events).Format(output.Writer)
}
