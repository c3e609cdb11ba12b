package heap

import (
	"fmt"

	"github.com/joshuapare/bootheap/internal/buf"
	"github.com/joshuapare/bootheap/internal/format"
	"github.com/joshuapare/bootheap/pkg/types"
)

// window resolves an address to bytes inside a seeded span. Every header
// read and write goes through here; nothing else reinterprets addresses.
func (h *Heap) window(at types.Addr, n int) ([]byte, error) {
	for i := range h.spans {
		sp := &h.spans[i]
		if at < sp.start {
			continue
		}
		off := uint64(at - sp.start)
		if off >= uint64(len(sp.data)) {
			continue
		}
		w, ok := buf.Slice(sp.data, int(off), n)
		if !ok {
			return nil, fmt.Errorf("range [%#x,+%d) crosses end of region %#x",
				uint64(at), n, uint64(sp.start))
		}
		return w, nil
	}
	return nil, fmt.Errorf("address %#x outside any seeded region", uint64(at))
}

// mustHeader reads and validates the header at addr. A failure here means
// the chain is corrupt or the caller handed in a foreign address; neither
// is recoverable, so the heap aborts rather than walk bad links.
func (h *Heap) mustHeader(at types.Addr) format.Header {
	w, err := h.window(at, format.HeaderSize)
	if err == nil {
		var hdr format.Header
		if hdr, err = format.DecodeHeader(w); err == nil {
			return hdr
		}
	}
	panic(&types.Error{Kind: types.ErrKindCorrupt,
		Msg: fmt.Sprintf("block header at %#x", uint64(at)), Err: err})
}

// mustWriteHeader places hdr at addr. Callers compute addresses inside the
// block being split, so a bounds failure also indicates corruption.
func (h *Heap) mustWriteHeader(at types.Addr, hdr format.Header) {
	w, err := h.window(at, format.HeaderSize)
	if err == nil {
		if err = format.EncodeHeader(w, hdr); err == nil {
			return
		}
	}
	panic(&types.Error{Kind: types.ErrKindCorrupt,
		Msg: fmt.Sprintf("write block header at %#x", uint64(at)), Err: err})
}

// canProvide reports whether a free block of hdr.Size bytes can host a
// rounded request: the payload, a header for it, room for a possible
// remainder header, and alignment slack.
func canProvide(hdr format.Header, size, align uint64) bool {
	need, ok := buf.AddU64(size, 2*format.HeaderSize)
	if ok {
		need, ok = buf.AddU64(need, align)
	}
	return ok && !hdr.Allocated && hdr.Size >= need
}

// provide carves a size-byte payload aligned to align out of the free block
// whose header sits at addr. size and align are already rounded. Carving
// takes the top of the block so one masked subtraction satisfies the
// alignment without searching:
//
//	payload = (end - size) &^ (align - 1)
//
// The new allocated header goes directly below the payload and inherits the
// block's next link. When masking leaves slack between the payload end and
// the block end, that slack becomes its own free block spliced after the
// allocated one. The original block keeps its header and shrinks to
// whatever lies below the carve. Block boundaries stay multiples of the
// header size throughout, so the slack is never too small to describe.
func (h *Heap) provide(at types.Addr, hdr format.Header, size, align uint64) (types.Addr, bool) {
	if hdr.Allocated || !canProvide(hdr, size, align) {
		return 0, false
	}
	end := uint64(at) + hdr.Size
	payload := format.AlignDown(end-size, align)
	allocAt := payload - format.HeaderSize

	alloc := format.Header{Size: size + format.HeaderSize, Next: hdr.Next, Allocated: true}
	used := alloc.Size
	if allocEnd := payload + size; allocEnd != end {
		pad := format.Header{Size: end - allocEnd, Next: alloc.Next}
		alloc.Next = allocEnd
		used += pad.Size
		h.mustWriteHeader(types.Addr(allocEnd), pad)
	}
	h.mustWriteHeader(types.Addr(allocAt), alloc)

	hdr.Size -= used
	hdr.Next = allocAt
	h.mustWriteHeader(at, hdr)
	return types.Addr(payload), true
}
