package heap

import (
	"fmt"
	"sync"

	"github.com/joshuapare/bootheap/internal/format"
	"github.com/joshuapare/bootheap/pkg/types"
)

// Backing supplies accessible bytes for a modeled physical range. Map is
// called once per seeded region and must return a slice exactly
// region.Pages pages long. It is the single point where a physical address
// range becomes memory this process may touch.
type Backing interface {
	Map(region types.MemoryRegion) ([]byte, error)
}

// span records one seeded region's backing bytes.
type span struct {
	start types.Addr
	data  []byte
}

// Heap is a first-fit allocator over firmware-reported memory regions.
// The zero value is an empty heap; it must be seeded with Init before use.
// All methods are safe for concurrent use.
type Heap struct {
	mu     sync.Mutex
	spans  []span
	head   types.Addr // address of the first block header; 0 when empty
	seeded bool
}

// New returns an empty heap.
func New() *Heap {
	return &Heap{}
}

// Init seeds the heap from a firmware memory map. Each usable region becomes
// one free block pushed onto the head of the block chain, so regions end up
// linked in reverse visitation order; the chain is unordered by address and
// no caller may depend on placement across regions.
//
// Regions are silently skipped when their class is not usable, when their
// extent would wrap the address space, or when, after the zero-page
// adjustment, they do not span more than one page. Init is
// one-time: a second call fails with types.ErrInitialized, since reseeding
// would discard the existing chain without releasing anything.
func (h *Heap) Init(regions []types.MemoryRegion, backing Backing) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.seeded {
		return types.ErrInitialized
	}
	for _, r := range regions {
		if err := h.seedRegion(r, backing); err != nil {
			return fmt.Errorf("seed region %#x: %w", uint64(r.Start), err)
		}
	}
	h.seeded = true
	return nil
}

func (h *Heap) seedRegion(r types.MemoryRegion, backing Backing) error {
	if !r.Class.Usable() {
		return nil
	}
	// Reported starts may not be page-aligned; claim whole pages only.
	// Block boundaries must stay multiples of the header granularity, and
	// page alignment of every seeded start guarantees that.
	if off := uint64(r.Start) % types.PageSize; off != 0 {
		r.Start += types.Addr(types.PageSize - off)
		if r.Pages > 0 {
			r.Pages--
		}
	}
	// Address 0 is reserved as invalid and must never become allocatable;
	// a region that starts there gives up its first page.
	if r.Start == 0 {
		r.Start = types.PageSize
		if r.Pages > 0 {
			r.Pages--
		}
	}
	size, ok := r.Bytes()
	if !ok || size <= types.PageSize {
		return nil
	}
	// A region whose extent wraps the address space can never be walked:
	// block end addresses are start + size. Skip it like any other
	// unusable region.
	if _, ok := r.End(); !ok {
		return nil
	}
	data, err := backing.Map(r)
	if err != nil {
		return err
	}
	if uint64(len(data)) != size {
		return fmt.Errorf("backing returned %d bytes, want %d", len(data), size)
	}
	h.spans = append(h.spans, span{start: r.Start, data: data})
	hdr := format.Header{Size: size, Next: uint64(h.head)}
	h.mustWriteHeader(r.Start, hdr)
	h.head = r.Start
	return nil
}

// Alloc returns the address of a size-byte range aligned to align. align is
// rounded up to a power of two; both size and align are rounded up to at
// least the header granularity before the first-fit walk.
//
// Alloc fails with types.ErrRange when rounding overflows and with
// types.ErrOutOfMemory when no single free block can satisfy the rounded
// request. There is no retry or recovery path behind the latter.
func (h *Heap) Alloc(size, align uint64) (types.Addr, error) {
	rsize, err := format.RoundUpPow2(size)
	if err != nil {
		return 0, fmt.Errorf("alloc size %d: %w", size, types.ErrRange)
	}
	if rsize < format.HeaderSize {
		rsize = format.HeaderSize
	}
	if align == 0 {
		align = 1
	}
	ralign, err := format.RoundUpPow2(align)
	if err != nil {
		return 0, fmt.Errorf("alloc align %d: %w", align, types.ErrRange)
	}
	if ralign < format.HeaderSize {
		ralign = format.HeaderSize
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for at := h.head; at != 0; {
		hdr := h.mustHeader(at)
		if payload, ok := h.provide(at, hdr, rsize, ralign); ok {
			return payload, nil
		}
		at = types.Addr(hdr.Next)
	}
	return 0, types.ErrOutOfMemory
}

// Free returns the block whose payload starts at addr to the free chain.
// size and align are accepted for symmetry with Alloc and are not
// consulted; the header stored in front of the payload is trusted instead.
//
// addr must be a value previously returned by Alloc on this heap and not
// freed since. Violations are undefined behavior; where detectable (foreign
// address, block already free) the heap panics with a types.Error instead
// of continuing with a corrupt chain.
func (h *Heap) Free(addr types.Addr, size, align uint64) {
	_, _ = size, align
	h.mu.Lock()
	defer h.mu.Unlock()
	if addr < format.HeaderSize {
		panic(&types.Error{Kind: types.ErrKindCorrupt,
			Msg: fmt.Sprintf("free of invalid address %#x", uint64(addr))})
	}
	at := addr - format.HeaderSize
	hdr := h.mustHeader(at)
	if !hdr.Allocated {
		panic(&types.Error{Kind: types.ErrKindCorrupt,
			Msg: fmt.Sprintf("double or foreign free at %#x", uint64(addr))})
	}
	hdr.Allocated = false
	h.mustWriteHeader(at, hdr)
}
