/*
Package heap implements a first-fit heap allocator seeded from a firmware
memory map.

The allocator is a port of a boot-environment design: every block of heap
memory, free or allocated, begins with a 32-byte header recording the block
size, an allocated flag, and the address of the next block. The headers form
a singly-linked chain that partitions all memory ever handed to the heap.
Allocation walks the chain from the head and carves the first free block
that fits; deallocation clears the allocated flag in place. Freed neighbors
are never coalesced and pages are never returned to the firmware, so
long-lived heaps fragment by design.

# Quick Start

Seed a heap from a memory map and allocate:

	h := heap.New()
	mem := physmem.NewSim()
	err := h.Init(regions, mem)
	if err != nil {
	    log.Fatal(err)
	}

	addr, err := h.Alloc(64, 16)
	if errors.Is(err, types.ErrOutOfMemory) {
	    // fatal in boot code: nothing reclaims memory behind the allocator
	}
	...
	h.Free(addr, 64, 16)

# Failure Model

Alloc is the only operation with recoverable failures: types.ErrRange when
size rounding overflows, types.ErrOutOfMemory when no block fits. Misuse —
freeing a foreign address, freeing twice, corrupting a header — is a
precondition violation. Where it is detectable the heap panics with a
types.Error rather than continuing with a corrupt chain.

# Backing

On bare metal the headers would live at the physical addresses the firmware
reported. Hosted, a Backing implementation supplies process memory for each
seeded region and the heap performs the identical in-place surgery on it;
physmem.Sim is the standard implementation.
*/
package heap
