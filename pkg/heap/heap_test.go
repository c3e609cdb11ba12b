package heap_test

import (
	"bytes"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/bootheap/internal/physmem"
	"github.com/joshuapare/bootheap/pkg/heap"
	"github.com/joshuapare/bootheap/pkg/types"
)

const (
	pageSize   = types.PageSize
	headerSize = 32
)

// seedHeap builds a heap over the given regions backed by simulated RAM.
func seedHeap(t *testing.T, regions ...types.MemoryRegion) *heap.Heap {
	t.Helper()
	sim := physmem.NewSim()
	t.Cleanup(func() {
		if err := sim.Release(); err != nil {
			t.Errorf("release backing: %v", err)
		}
	})
	h := heap.New()
	require.NoError(t, h.Init(regions, sim))
	return h
}

func conventional(start types.Addr, pages uint64) types.MemoryRegion {
	return types.MemoryRegion{Class: types.ClassConventional, Start: start, Pages: pages}
}

// allocated tracks live payload ranges so tests can assert that no two
// allocations ever overlap.
type allocated struct {
	addr types.Addr
	size uint64
}

func requireNoOverlap(t *testing.T, live []allocated) {
	t.Helper()
	sorted := append([]allocated(nil), live...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].addr < sorted[j].addr })
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		require.LessOrEqual(t, uint64(prev.addr)+prev.size, uint64(cur.addr),
			"ranges [%#x,+%d) and [%#x,+%d) overlap",
			uint64(prev.addr), prev.size, uint64(cur.addr), cur.size)
	}
}

func TestInitTotalFree(t *testing.T) {
	h := seedHeap(t,
		conventional(0x100000, 16), // 65536 B
		conventional(0x400000, 4),  // 16384 B
	)
	// Each seeded region spends one header on itself.
	want := uint64(16*pageSize - headerSize + 4*pageSize - headerSize)
	require.Equal(t, want, h.TotalFree())

	s := h.Stats()
	require.Equal(t, 2, s.FreeBlocks)
	require.Equal(t, 2, s.Regions)
	require.Zero(t, s.AllocatedBlocks)
}

func TestInitSkipsUnusableAndSmallRegions(t *testing.T) {
	h := seedHeap(t,
		types.MemoryRegion{Class: types.ClassReserved, Start: 0x100000, Pages: 16},
		types.MemoryRegion{Class: types.ClassMMIO, Start: 0xF0000000, Pages: 64},
		conventional(0x200000, 1), // exactly one page: skipped
	)
	require.Zero(t, h.TotalFree())

	_, err := h.Alloc(8, 8)
	require.ErrorIs(t, err, types.ErrOutOfMemory)
}

func TestInitSkipsWrappingRegion(t *testing.T) {
	// A region whose end address wraps past the top of the address space
	// must be skipped at seed time; seeding it would make split
	// arithmetic wrap during the first allocation.
	h := seedHeap(t,
		conventional(0xFFFFFFFFFFFFE000, 3),
		conventional(0x100000, 4),
	)
	require.Equal(t, uint64(4*pageSize-headerSize), h.TotalFree())

	require.NotPanics(t, func() {
		addr, err := h.Alloc(64, 16)
		require.NoError(t, err)
		require.GreaterOrEqual(t, uint64(addr), uint64(0x100000))
		require.Less(t, uint64(addr), uint64(0x104000))
	})
}

func TestInitZeroPageRegion(t *testing.T) {
	// A region starting at address 0 gives up its first page so that 0
	// never becomes allocatable.
	h := seedHeap(t, conventional(0, 8))
	require.Equal(t, uint64(7*pageSize-headerSize), h.TotalFree())

	for _, b := range h.Blocks() {
		require.GreaterOrEqual(t, uint64(b.Addr), uint64(pageSize))
	}
}

func TestInitMisalignedRegionStart(t *testing.T) {
	// A region whose start is not page-aligned is rounded up to the next
	// page boundary and gives up the partial page, keeping every block
	// boundary a multiple of the header granularity.
	h := seedHeap(t, conventional(0x100800, 4))
	require.Equal(t, uint64(3*pageSize-headerSize), h.TotalFree())

	blocks := h.Blocks()
	require.Len(t, blocks, 1)
	require.Equal(t, types.Addr(0x101000), blocks[0].Addr)

	addr, err := h.Alloc(64, 64)
	require.NoError(t, err)
	require.Zero(t, uint64(addr)%64)
	require.GreaterOrEqual(t, uint64(addr), uint64(0x101000))
}

func TestInitTwiceFails(t *testing.T) {
	sim := physmem.NewSim()
	defer sim.Release()

	h := heap.New()
	require.NoError(t, h.Init([]types.MemoryRegion{conventional(0x100000, 16)}, sim))
	err := h.Init([]types.MemoryRegion{conventional(0x400000, 16)}, sim)
	require.ErrorIs(t, err, types.ErrInitialized)
}

func TestInitReverseOrderChain(t *testing.T) {
	h := seedHeap(t, conventional(0x100000, 2), conventional(0x400000, 2))
	blocks := h.Blocks()
	require.Len(t, blocks, 2)
	// Regions are pushed onto the chain head, so the last seeded region
	// is walked first.
	require.Equal(t, types.Addr(0x400000), blocks[0].Addr)
	require.Equal(t, types.Addr(0x100000), blocks[1].Addr)
}

func TestAllocScenario(t *testing.T) {
	h := seedHeap(t, conventional(0x100000, 16))

	addr, err := h.Alloc(64, 16)
	require.NoError(t, err)
	require.NotZero(t, addr)
	require.Zero(t, uint64(addr)%16, "address %#x not 16-aligned", uint64(addr))
	require.GreaterOrEqual(t, uint64(addr), uint64(0x100000))
	require.Less(t, uint64(addr), uint64(0x110000))

	_, err = h.Alloc(1<<20, 8)
	require.ErrorIs(t, err, types.ErrOutOfMemory)
}

func TestAllocAlignmentAndOverlap(t *testing.T) {
	h := seedHeap(t, conventional(0x100000, 64))

	var live []allocated
	requests := []struct {
		size, align uint64
	}{
		{1, 1}, {8, 8}, {24, 16}, {64, 64}, {100, 4}, {256, 256},
		{1000, 8}, {4096, 4096}, {13, 32}, {512, 128},
	}
	for _, req := range requests {
		addr, err := h.Alloc(req.size, req.align)
		require.NoError(t, err, "Alloc(%d, %d)", req.size, req.align)
		require.NotZero(t, addr)
		require.Zero(t, uint64(addr)%req.align,
			"Alloc(%d, %d) returned unaligned %#x", req.size, req.align, uint64(addr))
		live = append(live, allocated{addr: addr, size: req.size})
	}
	requireNoOverlap(t, live)
}

func TestAllocFreeAllocReuse(t *testing.T) {
	h := seedHeap(t, conventional(0x100000, 16))

	first, err := h.Alloc(128, 32)
	require.NoError(t, err)
	h.Free(first, 128, 32)

	// The identical request must succeed again. The address may differ:
	// nothing coalesces, so the allocator is free to carve fresh space.
	second, err := h.Alloc(128, 32)
	require.NoError(t, err)
	require.Zero(t, uint64(second)%32)
}

func TestAllocExhaustion(t *testing.T) {
	h := seedHeap(t, conventional(0x100000, 16))

	var live []allocated
	for i := 0; i < 100; i++ {
		addr, err := h.Alloc(4096, 8)
		if err != nil {
			require.ErrorIs(t, err, types.ErrOutOfMemory)
			break
		}
		live = append(live, allocated{addr: addr, size: 4096})
	}
	require.NotEmpty(t, live, "expected some allocations before exhaustion")
	require.Less(t, len(live), 100, "expected exhaustion within the region")
	requireNoOverlap(t, live)

	// Freeing everything does not help a request larger than any single
	// block: blocks are never merged.
	for _, a := range live {
		h.Free(a.addr, a.size, 8)
	}
	_, err := h.Alloc(32*pageSize, 8)
	require.ErrorIs(t, err, types.ErrOutOfMemory)
}

func TestAllocRangeError(t *testing.T) {
	h := seedHeap(t, conventional(0x100000, 16))

	_, err := h.Alloc((1<<63)+1, 8)
	require.ErrorIs(t, err, types.ErrRange)
	require.NotErrorIs(t, err, types.ErrOutOfMemory)

	var terr *types.Error
	require.True(t, errors.As(err, &terr))
	require.Equal(t, types.ErrKindRange, terr.Kind)
}

func TestBlocksPartitionRegions(t *testing.T) {
	h := seedHeap(t, conventional(0x100000, 16), conventional(0x400000, 8))

	for _, req := range []struct{ size, align uint64 }{
		{64, 16}, {4096, 4096}, {32, 32}, {700, 8},
	} {
		_, err := h.Alloc(req.size, req.align)
		require.NoError(t, err)
	}
	a, err := h.Alloc(256, 64)
	require.NoError(t, err)
	h.Free(a, 256, 64)

	// Sorted by address, the blocks of each region must tile it exactly:
	// every byte ever handed to the allocator stays described by exactly
	// one header.
	blocks := h.Blocks()
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Addr < blocks[j].Addr })
	regions := []types.MemoryRegion{conventional(0x100000, 16), conventional(0x400000, 8)}
	i := 0
	for _, r := range regions {
		end, _ := r.End()
		at := r.Start
		for at != end {
			require.Less(t, i, len(blocks), "region %#x not fully tiled", uint64(r.Start))
			require.Equal(t, at, blocks[i].Addr, "gap or overlap at %#x", uint64(at))
			at += types.Addr(blocks[i].Size)
			i++
		}
	}
	require.Equal(t, len(blocks), i, "blocks outside any region")
}

func TestFreeMisuseDetected(t *testing.T) {
	h := seedHeap(t, conventional(0x100000, 16))

	addr, err := h.Alloc(64, 16)
	require.NoError(t, err)
	h.Free(addr, 64, 16)

	require.Panics(t, func() { h.Free(addr, 64, 16) }, "double free")
	require.Panics(t, func() { h.Free(0x900000, 8, 8) }, "foreign address")
	require.Panics(t, func() { h.Free(8, 8, 8) }, "address below header granularity")
}

func TestDump(t *testing.T) {
	h := seedHeap(t, conventional(0x100000, 16))
	_, err := h.Alloc(64, 16)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, h.Dump(&out))
	require.Contains(t, out.String(), "allocated")
	require.Contains(t, out.String(), "free")
	require.Contains(t, out.String(), "region(s)")
}
