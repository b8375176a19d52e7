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
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/exascience/pargo/pipeline"
)

// ElgraphHeader is the header line that every .elgraph file starts with.
const ElgraphHeader = "# elgraph format version 1.0\n"

// ToElgraphFile stores a breakpoint graph in an elSV-defined .elgraph
// file. Node lines precede edge lines; edges refer to nodes by their
// line position.
func ToElgraphFile(graph *Graph, filename string) (err error) {
	pathname, err := filepath.Abs(filename)
	if err != nil {
		return err
	}
	output, err := os.Create(pathname)
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
	if _, err = output.WriteString(ElgraphHeader); err != nil {
		return err
	}
	var buf []byte
	for _, node := range graph.Nodes() {
		buf = append(buf, 'N', '\t')
		buf = append(buf, node.Contig...)
		buf = append(buf, '\t')
		buf = strconv.AppendInt(buf, int64(node.Position), 10)
		buf = append(buf, '\n')
	}
	for _, edge := range graph.Edges() {
		buf = append(buf, 'E', '\t')
		buf = strconv.AppendInt(buf, int64(edge.NodeA), 10)
		buf = append(buf, '\t')
		buf = strconv.AppendInt(buf, int64(edge.NodeB), 10)
		buf = append(buf, '\t')
		if edge.Reference {
			buf = append(buf, 'R')
		} else {
			buf = append(buf, 'B', '\t')
			if edge.Inverted {
				buf = append(buf, '1')
			} else {
				buf = append(buf, '0')
			}
			for _, logPrior := range edge.Prior {
				buf = append(buf, '\t')
				buf = strconv.AppendFloat(buf, logPrior, 'g', -1, 64)
			}
		}
		buf = append(buf, '\n')
	}
	_, err = output.Write(buf)
	return err
}

// FromElgraphFile loads a breakpoint graph from an elSV-defined
// .elgraph file. Lines are order dependent, so the file is parsed
// sequentially.
func FromElgraphFile(filename string) (graph *Graph, err error) {
	pathname, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}
	in, err := os.Open(pathname)
	if err != nil {
		return nil, err
	}
	defer func() {
		if nerr := in.Close(); nerr != nil {
			if err == nil {
				err = nerr
			}
		}
	}()
	input := bufio.NewReader(in)
	header, err := input.ReadString('\n')
	if err != nil {
		return nil, err
	}
	if header != ElgraphHeader {
		return nil, fmt.Errorf("%v is not a .elgraph file - invalid header", filename)
	}
	var nodes []Node
	var edges []Edge
	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		switch fields[0] {
		case "N":
			if len(fields) != 3 {
				return nil, fmt.Errorf("invalid node line %v in %v", line, filename)
			}
			position, err := strconv.ParseInt(fields[2], 10, 32)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, Node{Contig: fields[1], Position: int32(position)})
		case "E":
			if len(fields) < 4 {
				return nil, fmt.Errorf("invalid edge line %v in %v", line, filename)
			}
			nodeA, err := strconv.ParseInt(fields[1], 10, 32)
			if err != nil {
				return nil, err
			}
			nodeB, err := strconv.ParseInt(fields[2], 10, 32)
			if err != nil {
				return nil, err
			}
			edge := Edge{
				Index: len(edges),
				NodeA: int(nodeA),
				NodeB: int(nodeB),
			}
			switch fields[3] {
			case "R":
				if len(fields) != 4 {
					return nil, fmt.Errorf("invalid reference edge line %v in %v", line, filename)
				}
				edge.Reference = true
			case "B":
				if len(fields) < 6 {
					return nil, fmt.Errorf("invalid breakpoint edge line %v in %v", line, filename)
				}
				switch fields[4] {
				case "0":
				case "1":
					edge.Inverted = true
				default:
					return nil, fmt.Errorf("invalid breakpoint edge line %v in %v", line, filename)
				}
				edge.Prior = make(BreakpointPrior, len(fields)-5)
				for i, field := range fields[5:] {
					logPrior, err := strconv.ParseFloat(field, 64)
					if err != nil {
						return nil, err
					}
					edge.Prior[i] = logPrior
				}
			default:
				return nil, fmt.Errorf("invalid edge line %v in %v", line, filename)
			}
			edges = append(edges, edge)
		default:
			return nil, fmt.Errorf("invalid line %v in %v", line, filename)
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, err
	}
	return NewGraph(nodes, edges), nil
}

// ElcnvHeader is the header line that every .elcnv file starts with.
const ElcnvHeader = "# elcnv format version 1.0\n"

// ToElcnvFile stores copy number intervals in an elSV-defined .elcnv
// file.
func ToElcnvFile(copyNumberIntervals []CopyNumberInterval, filename string) (err error) {
	pathname, err := filepath.Abs(filename)
	if err != nil {
		return err
	}
	output, err := os.Create(pathname)
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
	if _, err = output.WriteString(ElcnvHeader); err != nil {
		return err
	}
	var buf []byte
	for _, cni := range copyNumberIntervals {
		buf = buf[:0]
		buf = append(buf, cni.Contig...)
		buf = append(buf, '\t')
		buf = strconv.AppendInt(buf, int64(cni.Start), 10)
		buf = append(buf, '\t')
		buf = strconv.AppendInt(buf, int64(cni.End), 10)
		for _, logPosterior := range cni.LogPosteriors {
			buf = append(buf, '\t')
			buf = strconv.AppendFloat(buf, logPosterior, 'g', -1, 64)
		}
		buf = append(buf, '\n')
		if _, err := output.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// FromElcnvFile loads copy number intervals from an elSV-defined
// .elcnv file. Lines are independent of each other, so the file is
// parsed in parallel.
func FromElcnvFile(filename string) (copyNumberIntervals []CopyNumberInterval, err error) {
	pathname, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}
	in, err := os.Open(pathname)
	if err != nil {
		return nil, err
	}
	defer func() {
		if nerr := in.Close(); nerr != nil {
			if err == nil {
				err = nerr
			}
		}
	}()
	input := bufio.NewReader(in)
	header, err := input.ReadString('\n')
	if err != nil {
		return nil, err
	}
	if header != ElcnvHeader {
		return nil, fmt.Errorf("%v is not a .elcnv file - invalid header", filename)
	}
	var p pipeline.Pipeline
	p.Source(pipeline.NewScanner(input))
	p.Add(pipeline.LimitedPar(0, pipeline.Receive(func(_ int, data interface{}) interface{} {
		strs := data.([]string)
		cnis := make([]CopyNumberInterval, 0, len(strs))
		for _, str := range strs {
			fields := strings.Split(str, "\t")
			if len(fields) < 4 {
				p.SetErr(fmt.Errorf("invalid copy number line %v", str))
				return cnis
			}
			start, err := strconv.ParseInt(fields[1], 10, 32)
			if err != nil {
				p.SetErr(err)
				return cnis
			}
			end, err := strconv.ParseInt(fields[2], 10, 32)
			if err != nil {
				p.SetErr(err)
				return cnis
			}
			logPosteriors := make([]float64, len(fields)-3)
			for i, field := range fields[3:] {
				logPosterior, err := strconv.ParseFloat(field, 64)
				if err != nil {
					p.SetErr(err)
					return cnis
				}
				logPosteriors[i] = logPosterior
			}
			cnis = append(cnis, CopyNumberInterval{
				Interval:      NewInterval(fields[0], int32(start), int32(end)),
				LogPosteriors: logPosteriors,
			})
		}
		return cnis
	})))
	p.Add(pipeline.Ord(pipeline.Receive(func(_ int, data interface{}) interface{} {
		copyNumberIntervals = append(copyNumberIntervals, data.([]CopyNumberInterval)...)
		return data
	})))
	p.Run()
	if err = p.Err(); err != nil {
		return nil, err
	}
	return copyNumberIntervals, nil
}
