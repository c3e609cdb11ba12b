// Package physmem provides process-backed stand-ins for the physical memory
// ranges a firmware memory map describes. Reserve is the platform-specific
// primitive; Sim keeps one reservation per region so a heap can treat the
// modeled physical addresses as real.
package physmem

import (
	"errors"
	"fmt"
	"math"

	"github.com/joshuapare/bootheap/internal/buf"
	"github.com/joshuapare/bootheap/pkg/types"
)

// regionBytes converts a page count to a byte size, refusing values that
// overflow uint64 or exceed the addressable slice range.
func regionBytes(pages uint64) (uint64, bool) {
	size, ok := buf.MulU64(pages, types.PageSize)
	if !ok || size > math.MaxInt {
		return 0, false
	}
	return size, true
}

// Sim models a machine's physical RAM. Each mapped region is backed by its
// own reservation; the region's start address is purely nominal and never
// dereferenced as a real pointer.
type Sim struct {
	spans []simSpan
}

type simSpan struct {
	region  types.MemoryRegion
	data    []byte
	release func() error
}

// NewSim returns an empty simulated memory.
func NewSim() *Sim {
	return &Sim{}
}

// Map reserves backing bytes for region and returns them. The returned slice
// is exactly region.Pages pages long. Mapping the same region twice returns
// the same backing, so re-walks of a memory map stay stable.
func (s *Sim) Map(region types.MemoryRegion) ([]byte, error) {
	for _, sp := range s.spans {
		if sp.region.Start == region.Start && sp.region.Pages == region.Pages {
			return sp.data, nil
		}
	}
	data, release, err := Reserve(region.Pages)
	if err != nil {
		return nil, err
	}
	s.spans = append(s.spans, simSpan{region: region, data: data, release: release})
	return data, nil
}

// Release returns every reservation to the OS. The Sim is unusable afterwards.
func (s *Sim) Release() error {
	var errs []error
	for _, sp := range s.spans {
		if err := sp.release(); err != nil {
			errs = append(errs, fmt.Errorf("release %#x: %w", uint64(sp.region.Start), err))
		}
	}
	s.spans = nil
	return errors.Join(errs...)
}
