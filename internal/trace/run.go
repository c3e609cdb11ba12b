package trace

import (
	"github.com/joshuapare/bootheap/pkg/heap"
	"github.com/joshuapare/bootheap/pkg/types"
)

// Result records the outcome of one heap operation from a trace.
type Result struct {
	Op   Op
	Addr types.Addr // payload address for successful allocs
	Err  error      // alloc failure; nil otherwise
}

// Regions extracts the memory map a trace declares, in declaration order.
func Regions(ops []Op) []types.MemoryRegion {
	var regions []types.MemoryRegion
	for _, op := range ops {
		if op.Kind == OpRegion {
			regions = append(regions, op.Region)
		}
	}
	return regions
}

// Run seeds h from the trace's regions and applies the heap operations in
// order. A free naming an unknown or already-freed handle is a script error,
// not a heap precondition violation, so it is reported as a typed error
// before the heap is ever touched with a bad address.
func Run(h *heap.Heap, backing heap.Backing, ops []Op) ([]Result, error) {
	if err := h.Init(Regions(ops), backing); err != nil {
		return nil, err
	}
	live := make(map[string]allocation)
	var results []Result
	for _, op := range ops {
		switch op.Kind {
		case OpAlloc:
			addr, err := h.Alloc(op.Size, op.Align)
			if err == nil {
				live[op.Name] = allocation{addr: addr, size: op.Size, align: op.Align}
			}
			results = append(results, Result{Op: op, Addr: addr, Err: err})
		case OpFree:
			a, ok := live[op.Name]
			if !ok {
				return results, parseErr(op.Line, "free of unknown handle %q", op.Name)
			}
			delete(live, op.Name)
			h.Free(a.addr, a.size, a.align)
			results = append(results, Result{Op: op, Addr: a.addr})
		}
	}
	return results, nil
}

type allocation struct {
	addr        types.Addr
	size, align uint64
}
