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
	"math"
)

const (
	// MaxNonReferenceCopies caps how many haplotypes of a genotype
	// are drawn from the candidate path set. Baseline copies beyond
	// this cap are treated as additional reference-like copies.
	MaxNonReferenceCopies = 4

	// MaxGenotypeCombinations caps the number of genotype
	// combinations enumerated for one graph.
	MaxGenotypeCombinations = 4e9

	// smallest positive normal float64, used to floor exponentiated
	// log likelihoods so that normalization never collapses to zero
	minNormalFloat64 = 2.2250738585072014e-308
)

// A Genotype is a multiset of haplotype paths explaining one sample,
// together with its scores against depth and breakpoint evidence. The
// paths are walks over Graph, the graph the genotype was built from.
type Genotype struct {
	GroupId    int
	GenotypeId int
	Graph      *Graph
	Paths      []Path

	DepthLikelihood     float64 // log likelihood against copy number posteriors
	DepthProbability    float64
	EvidenceProbability float64
	Probability         float64
}

// TooManyCombinationsError reports that the genotype search space
// exceeded MaxGenotypeCombinations. It is a resource guard, not a
// failure of the input; callers recover by searching a smaller graph.
type TooManyCombinationsError struct {
	PathCount    int
	NonRefCopies int
	Combinations float64
}

func (err *TooManyCombinationsError) Error() string {
	return fmt.Sprintf("too many genotype combinations: %v ^ %v = %v", err.PathCount, err.NonRefCopies, err.Combinations)
}

// edgeCopyNumberPosterior is a log posterior vector over copy number
// states for one edge. Out-of-range states are impossible.
type edgeCopyNumberPosterior []float64

func (posterior edgeCopyNumberPosterior) logPosterior(state int32) float64 {
	if state < 0 || int(state) >= len(posterior) {
		return math.Inf(-1)
	}
	return posterior[state]
}

// edgeCopyNumberPosteriors aggregates the copy number evidence onto
// the edges of the graph. Only reference edges receive evidence; each
// overlapping copy number interval contributes its log posteriors
// weighted by the fraction of that interval covered by the edge, so
// that partially overlapping intervals are down-weighted. Returns an
// empty slice when no evidence overlaps the graph.
func edgeCopyNumberPosteriors(graph *Graph, index *CopyNumberIndex) []edgeCopyNumberPosterior {
	numStates := index.NumStates()
	if numStates == 0 {
		return nil
	}
	anyEvidence := false
	for _, edge := range graph.ReferenceEdges() {
		if index.HasOverlappers(graph.EdgeInterval(edge)) {
			anyEvidence = true
			break
		}
	}
	if !anyEvidence {
		return nil
	}
	posteriors := make([]edgeCopyNumberPosterior, len(graph.Edges()))
	for i, edge := range graph.Edges() {
		posterior := make(edgeCopyNumberPosterior, numStates)
		if edge.Reference {
			edgeInterval := graph.EdgeInterval(edge)
			for _, cni := range index.Overlappers(edgeInterval) {
				weight := float64(cni.OverlapLength(edgeInterval.Interval)) / float64(cni.Length())
				for state := 0; state < numStates; state++ {
					posterior[state] += cni.LogPosteriors[state] * weight
				}
			}
		}
		posteriors[i] = posterior
	}
	return posteriors
}

// combinationsWithRepetition enumerates all ordered index tuples of
// length r over 0..n-1. Tuples that are permutations of each other
// receive identical likelihoods, so normalization is unaffected by
// the redundancy.
func combinationsWithRepetition(n, r int, current []int, combinations [][]int) [][]int {
	if r == 0 {
		combination := make([]int, len(current))
		copy(combination, current)
		return append(combinations, combination)
	}
	for i := 0; i < n; i++ {
		combinations = combinationsWithRepetition(n, r-1, append(current, i), combinations)
	}
	return combinations
}

// pathEdgeCopyNumberStates counts how often a path visits each edge.
func pathEdgeCopyNumberStates(path Path, numEdges int) []int32 {
	states := make([]int32, numEdges)
	for _, edge := range path {
		states[edge.Index]++
	}
	return states
}

// enumerateGenotypes builds all genotypes of min(baselineCopyNumber,
// MaxNonReferenceCopies) haplotypes drawn with repetition from the
// candidate paths, and scores each against the copy number evidence.
// Baseline copies beyond the cap are added uniformly to every edge
// state count. Returns a TooManyCombinationsError when the search
// space exceeds MaxGenotypeCombinations.
func enumerateGenotypes(paths []Path, graph *Graph, index *CopyNumberIndex, groupId, baselineCopyNumber int) ([]*Genotype, error) {
	numEdges := len(graph.Edges())
	copyNumberPosteriors := edgeCopyNumberPosteriors(graph, index)

	// If large number of copies, only allow a handful to be non-reference
	ignoredRefCopies := baselineCopyNumber - MaxNonReferenceCopies
	if ignoredRefCopies < 0 {
		ignoredRefCopies = 0
	}
	nonRefCopies := baselineCopyNumber
	if nonRefCopies > MaxNonReferenceCopies {
		nonRefCopies = MaxNonReferenceCopies
	}
	if combinations := math.Pow(float64(len(paths)), float64(nonRefCopies)); combinations > MaxGenotypeCombinations {
		return nil, &TooManyCombinationsError{
			PathCount:    len(paths),
			NonRefCopies: nonRefCopies,
			Combinations: combinations,
		}
	}
	edgeCopyNumberStates := make([][]int32, len(paths))
	for i, path := range paths {
		edgeCopyNumberStates[i] = pathEdgeCopyNumberStates(path, numEdges)
	}
	combinations := combinationsWithRepetition(len(paths), nonRefCopies, make([]int, 0, nonRefCopies), nil)

	genotypes := make([]*Genotype, 0, len(combinations))
	for genotypeId, combination := range combinations {
		genotypePaths := make([]Path, len(combination))
		genotypeStates := make([]int32, numEdges)
		for i, pathIndex := range combination {
			genotypePaths[i] = paths[pathIndex]
			for k, count := range edgeCopyNumberStates[pathIndex] {
				genotypeStates[k] += count
			}
		}
		if ignoredRefCopies > 0 {
			for k := range genotypeStates {
				genotypeStates[k] += int32(ignoredRefCopies)
			}
		}
		logLikelihood := 0.0
		for k, posterior := range copyNumberPosteriors {
			logLikelihood += posterior.logPosterior(genotypeStates[k])
		}
		genotypes = append(genotypes, &Genotype{
			GroupId:         groupId,
			GenotypeId:      genotypeId,
			Graph:           graph,
			Paths:           genotypePaths,
			DepthLikelihood: logLikelihood,
		})
	}
	return genotypes, nil
}

// setDepthProbabilities normalizes the depth likelihoods of the
// genotypes to probabilities. Each exponentiated likelihood is
// floored at the smallest normal float64 so that very unequal
// likelihoods cannot collapse the normalization to zero.
func setDepthProbabilities(genotypes []*Genotype) {
	sum := 0.0
	for _, genotype := range genotypes {
		value := math.Exp(genotype.DepthLikelihood)
		if value < minNormalFloat64 {
			value = minNormalFloat64
		}
		sum += value
	}
	logDenom := math.Log(sum)
	for _, genotype := range genotypes {
		genotype.DepthProbability = math.Exp(genotype.DepthLikelihood - logDenom)
	}
}

// setEvidenceProbabilities scores each genotype against the visit
// count priors of the breakpoint edges and normalizes across the
// collection. Breakpoint edges that a genotype never visits are
// scored with an explicit zero count: the absence of a junction is
// evidence too.
func setEvidenceProbabilities(genotypes []*Genotype, graph *Graph) {
	totalP := 0.0
	for _, genotype := range genotypes {
		edgeVisits := make(map[int]int)
		for _, path := range genotype.Paths {
			for _, edge := range path {
				if !edge.Reference {
					edgeVisits[edge.Index]++
				}
			}
		}
		logP := 0.0
		for _, edge := range graph.Edges() {
			if !edge.Reference {
				logP += edge.Prior.LogPrior(edgeVisits[edge.Index])
			}
		}
		genotype.EvidenceProbability = math.Exp(logP)
		totalP += genotype.EvidenceProbability
	}
	for _, genotype := range genotypes {
		genotype.EvidenceProbability /= totalP
	}
}

// setProbabilities combines the depth and evidence probabilities of
// each genotype into a single probability. The two evidence sources
// are treated as independent: their product is renormalized across
// the collection.
func setProbabilities(genotypes []*Genotype) {
	denom := 0.0
	for _, genotype := range genotypes {
		denom += genotype.EvidenceProbability * genotype.DepthProbability
	}
	for _, genotype := range genotypes {
		genotype.Probability = genotype.EvidenceProbability * genotype.DepthProbability / denom
	}
}
