package types

// MapSummary aggregates a firmware memory map the way boot code reports it:
// page totals per usage class plus the headline usable figure.
type MapSummary struct {
	PagesByClass map[RegionClass]uint64
	UsablePages  uint64
}

// Summarize tallies regions by usage class. Regions whose extent overflows
// the address space are counted under their class but excluded from the
// usable total, mirroring the allocator's refusal to seed from them.
func Summarize(regions []MemoryRegion) MapSummary {
	s := MapSummary{PagesByClass: make(map[RegionClass]uint64)}
	for _, r := range regions {
		s.PagesByClass[r.Class] += r.Pages
		if !r.Class.Usable() {
			continue
		}
		if _, ok := r.Bytes(); !ok {
			continue
		}
		s.UsablePages += r.Pages
	}
	return s
}

// UsableMiB returns the usable page total expressed in whole mebibytes.
func (s MapSummary) UsableMiB() uint64 {
	return s.UsablePages * PageSize / 1024 / 1024
}
