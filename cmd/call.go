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

package cmd

import (
	"flag"
	"log"
	"os"
	"runtime"

	"github.com/exascience/elsv/sv"
)

// CallHelp is the help string for this command.
const CallHelp = "\ncall parameters:\n" +
	"elsv call graph-file cnv-file vcf-file\n" +
	"[--partition-reciprocal-overlap fraction]\n" +
	"[--min-event-prob probability]\n" +
	"[--max-path-length-factor factor]\n" +
	"[--max-edge-visits number]\n" +
	"[--max-queue-size number]\n" +
	"[--max-breakpoints number]\n" +
	"[--min-event-size size]\n" +
	"[--min-haplotype-prob probability]\n" +
	"[--copy-number number]\n" +
	"[--nr-of-threads number]\n" +
	"[--timed]\n" +
	"[--profile file]\n" +
	"[--log-path path]\n"

// Call implements the elsv call command.
func Call() error {
	args := sv.DefaultCallerArgs()

	var (
		maxEdgeVisits, minEventSize int
		nrOfThreads                 int
		timed                       bool
		profile, logPath            string
	)

	var flags flag.FlagSet
	flags.Float64Var(&args.PartitionReciprocalOverlap, "partition-reciprocal-overlap", args.PartitionReciprocalOverlap, "minimum reciprocal overlap for clustering edges into one partition")
	flags.Float64Var(&args.MinEventProb, "min-event-prob", args.MinEventProb, "minimum probability of reported events")
	flags.Float64Var(&args.MaxPathLengthFactor, "max-path-length-factor", args.MaxPathLengthFactor, "maximum haplotype length as a factor of the reference path length")
	flags.IntVar(&maxEdgeVisits, "max-edge-visits", int(args.MaxEdgeVisits), "maximum number of visits of a haplotype to one edge")
	flags.IntVar(&args.MaxQueueSize, "max-queue-size", args.MaxQueueSize, "maximum size of the haplotype search queue")
	flags.IntVar(&args.MaxBreakpointsPerHaplotype, "max-breakpoints", args.MaxBreakpointsPerHaplotype, "maximum number of breakpoint edges per haplotype")
	flags.IntVar(&minEventSize, "min-event-size", int(args.MinEventSize), "minimum size of reported events")
	flags.Float64Var(&args.MinHaplotypeProb, "min-haplotype-prob", args.MinHaplotypeProb, "minimum depth probability of reported genotypes")
	flags.IntVar(&args.DefaultCopyNumber, "copy-number", args.DefaultCopyNumber, "baseline copy number of root partitions")
	flags.IntVar(&nrOfThreads, "nr-of-threads", 0, "number of worker threads")
	flags.BoolVar(&timed, "timed", false, "measure the runtime")
	flags.StringVar(&profile, "profile", "", "write a runtime profile to the specified file(s)")
	flags.StringVar(&logPath, "log-path", "", "write log files to the specified directory")
	parseFlags(flags, 5, CallHelp)

	graphFile := getFilename(os.Args[2], CallHelp)
	cnvFile := getFilename(os.Args[3], CallHelp)
	vcfFile := getFilename(os.Args[4], CallHelp)
	args.MaxEdgeVisits = int32(maxEdgeVisits)
	args.MinEventSize = int32(minEventSize)

	setLogOutput(logPath)

	if !checkExist("", graphFile) {
		os.Exit(1)
	}
	if !checkExist("", cnvFile) {
		os.Exit(1)
	}
	if !checkCreate("", vcfFile) {
		os.Exit(1)
	}

	if nrOfThreads > 0 {
		runtime.GOMAXPROCS(nrOfThreads)
	}

	var err error
	var graph *sv.Graph
	var copyNumberIntervals []sv.CopyNumberInterval
	timedRun(timed, profile, "Loading breakpoint graph.", 1, func() {
		graph, err = sv.FromElgraphFile(graphFile)
	})
	if err != nil {
		return err
	}
	timedRun(timed, profile, "Loading copy number evidence.", 2, func() {
		copyNumberIntervals, err = sv.FromElcnvFile(cnvFile)
	})
	if err != nil {
		return err
	}
	var events []sv.CalledEvent
	timedRun(timed, profile, "Calling events.", 3, func() {
		caller := sv.NewCaller(graph, sv.NewCopyNumberIndex(copyNumberIntervals), args)
		var genotypes []*sv.Genotype
		genotypes, events = caller.CallEvents()
		log.Println("Called", len(events), "events from", len(genotypes), "genotypes.")
	})
	timedRun(timed, profile, "Writing VCF output.", 4, func() {
		err = sv.ToVcfFile(events, vcfFile)
	})
	return err
}
