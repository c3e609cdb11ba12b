package heap

import (
	"fmt"
	"io"

	"github.com/joshuapare/bootheap/internal/format"
	"github.com/joshuapare/bootheap/pkg/types"
)

// BlockInfo describes one block in the chain at the time of a snapshot.
type BlockInfo struct {
	Addr      types.Addr // address of the block header
	Size      uint64     // total size including the header
	Allocated bool
}

// Payload returns the bytes the block offers past its header.
func (b BlockInfo) Payload() uint64 {
	return b.Size - format.HeaderSize
}

// PayloadAddr returns the first payload byte's address.
func (b BlockInfo) PayloadAddr() types.Addr {
	return b.Addr + format.HeaderSize
}

// Stats aggregates the block chain.
type Stats struct {
	FreeBytes       uint64 // payload bytes available across free blocks
	AllocatedBytes  uint64 // payload bytes currently handed out
	FreeBlocks      int
	AllocatedBlocks int
	LargestFree     uint64 // largest single free payload
	Regions         int    // seeded regions backing the heap
}

// Blocks walks the chain from the head and returns a snapshot in traversal
// order, which is also the order Alloc considers blocks in.
func (h *Heap) Blocks() []BlockInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	var blocks []BlockInfo
	for at := h.head; at != 0; {
		hdr := h.mustHeader(at)
		blocks = append(blocks, BlockInfo{Addr: at, Size: hdr.Size, Allocated: hdr.Allocated})
		at = types.Addr(hdr.Next)
	}
	return blocks
}

// Stats tallies the current chain.
func (h *Heap) Stats() Stats {
	s := Stats{}
	h.mu.Lock()
	s.Regions = len(h.spans)
	h.mu.Unlock()
	for _, b := range h.Blocks() {
		if b.Allocated {
			s.AllocatedBlocks++
			s.AllocatedBytes += b.Payload()
			continue
		}
		s.FreeBlocks++
		s.FreeBytes += b.Payload()
		if b.Payload() > s.LargestFree {
			s.LargestFree = b.Payload()
		}
	}
	return s
}

// TotalFree returns the payload bytes reachable from the chain head across
// free blocks. Fragmentation means a single allocation of this size will
// generally not succeed.
func (h *Heap) TotalFree() uint64 {
	return h.Stats().FreeBytes
}

// Dump writes a human-readable listing of the block chain.
func (h *Heap) Dump(w io.Writer) error {
	blocks := h.Blocks()
	for _, b := range blocks {
		state := "free"
		if b.Allocated {
			state = "allocated"
		}
		if _, err := fmt.Fprintf(w, "%#016x  %-9s  %12d B\n", uint64(b.Addr), state, b.Size); err != nil {
			return err
		}
	}
	s := h.Stats()
	_, err := fmt.Fprintf(w, "%d blocks, %d B free / %d B allocated across %d region(s)\n",
		len(blocks), s.FreeBytes, s.AllocatedBytes, s.Regions)
	return err
}
