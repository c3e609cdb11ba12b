// Package format houses the low-level layout of heap block headers as they
// live inside backing memory. The goal is to keep the encoding focused and
// independent from the public API so higher-level packages can orchestrate
// the data in a more ergonomic form.
package format

const (
	// HeaderSize is the number of bytes used by the block header at the
	// start of every allocation (free or in-use). It is also the effective
	// minimum allocation granularity: sizes and alignments are rounded up
	// to at least this value.
	HeaderSize = 32

	// Field offsets within a header (little-endian):
	//   0x00  u64  size      Total block size including the header itself.
	//   0x08  u64  next      Address of the next header; 0 terminates.
	//   0x10  u64  flags     Bit 0 marks the block allocated.
	//   0x18  u64  reserved  Written as zero; not validated on read.
	offSize     = 0x00
	offNext     = 0x08
	offFlags    = 0x10
	offReserved = 0x18

	// FlagAllocated marks a block as in use. All other flag bits must be
	// zero; a header with stray bits set is treated as corrupt.
	FlagAllocated = 1 << 0

	flagsKnown = FlagAllocated
)
