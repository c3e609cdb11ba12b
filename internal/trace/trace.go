// Package trace parses and runs allocation traces: small text scripts that
// declare a memory map and a sequence of heap operations. Traces are the
// input format shared by the command-line tools, giving allocator behavior
// a reproducible, diffable form.
//
// Grammar (one directive per line, '#' starts a comment):
//
//	region <start> <pages> [<class>]
//	alloc  <name> <size> <align>
//	free   <name>
//
// Numbers accept Go literal prefixes (0x, 0o, 0b). The region class defaults
// to Conventional; any class name from the firmware enum is accepted.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/joshuapare/bootheap/pkg/types"
)

// OpKind discriminates trace directives.
type OpKind int

const (
	OpRegion OpKind = iota
	OpAlloc
	OpFree
)

// Op is one parsed trace directive.
type Op struct {
	Kind   OpKind
	Line   int
	Name   string // alloc/free handle
	Region types.MemoryRegion
	Size   uint64
	Align  uint64
}

func parseErr(line int, format string, args ...interface{}) error {
	return &types.Error{Kind: types.ErrKindTrace,
		Msg: fmt.Sprintf("trace: line %d: %s", line, fmt.Sprintf(format, args...))}
}

// Parse reads a trace script. Region directives may appear anywhere but are
// applied before any heap operation when the trace runs, matching the
// one-shot seeding model.
func Parse(r io.Reader) ([]Op, error) {
	var ops []Op
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		op, err := parseOp(line, fields)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	return ops, nil
}

func parseOp(line int, fields []string) (Op, error) {
	switch fields[0] {
	case "region":
		if len(fields) < 3 || len(fields) > 4 {
			return Op{}, parseErr(line, "region wants <start> <pages> [<class>]")
		}
		start, err := parseUint(fields[1])
		if err != nil {
			return Op{}, parseErr(line, "bad start address %q", fields[1])
		}
		pages, err := parseUint(fields[2])
		if err != nil {
			return Op{}, parseErr(line, "bad page count %q", fields[2])
		}
		class := types.ClassConventional
		if len(fields) == 4 {
			class, err = parseClass(fields[3])
			if err != nil {
				return Op{}, parseErr(line, "bad region class %q", fields[3])
			}
		}
		return Op{Kind: OpRegion, Line: line,
			Region: types.MemoryRegion{Class: class, Start: types.Addr(start), Pages: pages}}, nil
	case "alloc":
		if len(fields) != 4 {
			return Op{}, parseErr(line, "alloc wants <name> <size> <align>")
		}
		size, err := parseUint(fields[2])
		if err != nil {
			return Op{}, parseErr(line, "bad size %q", fields[2])
		}
		align, err := parseUint(fields[3])
		if err != nil {
			return Op{}, parseErr(line, "bad align %q", fields[3])
		}
		return Op{Kind: OpAlloc, Line: line, Name: fields[1], Size: size, Align: align}, nil
	case "free":
		if len(fields) != 2 {
			return Op{}, parseErr(line, "free wants <name>")
		}
		return Op{Kind: OpFree, Line: line, Name: fields[1]}, nil
	default:
		return Op{}, parseErr(line, "unknown directive %q", fields[0])
	}
}

func parseUint(s string) (uint64, error) {
	return strconv.ParseUint(s, 0, 64)
}

func parseClass(s string) (types.RegionClass, error) {
	for c := types.ClassReserved; c <= types.ClassPersistent; c++ {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown class")
}
