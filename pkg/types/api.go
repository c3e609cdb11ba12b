package types

import (
	"fmt"
	"math"
)

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindRange       ErrKind = iota // arithmetic left the representable range (pow2 rounding)
	ErrKindOutOfMemory                // no free block can satisfy the request
	ErrKindState                      // invalid operation for current state (e.g., double init)
	ErrKindCorrupt                    // structural corruption (bad sizes/flags/links)
	ErrKindTrace                      // malformed allocation trace input
)

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Sentinels commonly returned by implementations.
var (
	// ErrRange indicates size rounding overflowed the address space.
	ErrRange = &Error{Kind: ErrKindRange, Msg: "allocation size out of range"}
	// ErrOutOfMemory indicates the free list was exhausted. Boot code treats
	// this as fatal; there is no swap, eviction, or collector behind it.
	ErrOutOfMemory = &Error{Kind: ErrKindOutOfMemory, Msg: "out of memory"}
	// ErrInitialized indicates a heap was seeded twice.
	ErrInitialized = &Error{Kind: ErrKindState, Msg: "heap already initialized"}
)

// -----------------------------------------------------------------------------
// Physical memory model
// -----------------------------------------------------------------------------

// PageSize is the fixed size of a firmware-reported page in bytes.
const PageSize = 4096

// Addr is a physical byte address. Address 0 is reserved as invalid: the
// allocator never hands it out and stored block links use it as nil.
type Addr uint64

// RegionClass enumerates firmware usage classes for reported memory regions.
// (The numbers align with the firmware's own definitions.)
type RegionClass uint32

const (
	ClassReserved RegionClass = iota
	ClassLoaderCode
	ClassLoaderData
	ClassBootServicesCode
	ClassBootServicesData
	ClassRuntimeServicesCode
	ClassRuntimeServicesData
	ClassConventional
	ClassUnusable
	ClassACPIReclaim
	ClassACPINVS
	ClassMMIO
	ClassMMIOPortSpace
	ClassPalCode
	ClassPersistent
)

// Usable reports whether regions of this class may feed the heap. Exactly one
// class qualifies.
func (c RegionClass) Usable() bool {
	return c == ClassConventional
}

// String implements the Stringer interface for RegionClass.
func (c RegionClass) String() string {
	switch c {
	case ClassReserved:
		return "Reserved"
	case ClassLoaderCode:
		return "LoaderCode"
	case ClassLoaderData:
		return "LoaderData"
	case ClassBootServicesCode:
		return "BootServicesCode"
	case ClassBootServicesData:
		return "BootServicesData"
	case ClassRuntimeServicesCode:
		return "RuntimeServicesCode"
	case ClassRuntimeServicesData:
		return "RuntimeServicesData"
	case ClassConventional:
		return "Conventional"
	case ClassUnusable:
		return "Unusable"
	case ClassACPIReclaim:
		return "ACPIReclaim"
	case ClassACPINVS:
		return "ACPINVS"
	case ClassMMIO:
		return "MMIO"
	case ClassMMIOPortSpace:
		return "MMIOPortSpace"
	case ClassPalCode:
		return "PalCode"
	case ClassPersistent:
		return "Persistent"
	default:
		return fmt.Sprintf("UNKNOWN_CLASS_%d", uint32(c))
	}
}

// MemoryRegion is one firmware-reported physical range. Regions are produced
// once at boot and never change.
type MemoryRegion struct {
	Class RegionClass
	Start Addr
	Pages uint64
}

// Bytes returns the region's extent in bytes. ok is false when the page
// count does not fit the address space.
func (r MemoryRegion) Bytes() (uint64, bool) {
	if r.Pages > math.MaxUint64/PageSize {
		return 0, false
	}
	return r.Pages * PageSize, true
}

// End returns the first address past the region. ok is false on overflow.
func (r MemoryRegion) End() (Addr, bool) {
	size, ok := r.Bytes()
	if !ok {
		return 0, false
	}
	end := uint64(r.Start) + size
	if end < uint64(r.Start) {
		return 0, false
	}
	return Addr(end), true
}

func (r MemoryRegion) String() string {
	return fmt.Sprintf("%-19s %#012x +%d pages", r.Class, uint64(r.Start), r.Pages)
}
