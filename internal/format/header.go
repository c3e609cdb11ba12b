package format

import (
	"fmt"

	"github.com/joshuapare/bootheap/internal/buf"
)

// Header is the decoded form of the record at the start of every heap block.
//
// Stored layout (32 bytes, little-endian):
//
//	Offset  Size  Description
//	0x00    8     Total block size in bytes, including these 32.
//	0x08    8     Address of the next block's header; 0 means end of chain.
//	              Address 0 is never allocatable, so it is free to act as nil.
//	0x10    8     Flags. Bit 0 set => allocated. Other bits must be zero.
//	0x18    8     Reserved; written as zero, ignored on read.
type Header struct {
	Size      uint64
	Next      uint64
	Allocated bool
}

// DecodeHeader decodes the header at the start of b. The declared size is
// validated against the header's own footprint but not against the window:
// blocks routinely extend past the bytes handed to the decoder, and the
// caller owns the span bookkeeping.
func DecodeHeader(b []byte) (Header, error) {
	if !buf.Has(b, 0, HeaderSize) {
		return Header{}, fmt.Errorf("header: %w", ErrTruncated)
	}
	size := buf.U64LE(b[offSize:])
	if size == 0 {
		return Header{}, fmt.Errorf("header: %w", ErrZeroSize)
	}
	if size < HeaderSize {
		return Header{}, fmt.Errorf("header: declared size too small (%d)", size)
	}
	flags := buf.U64LE(b[offFlags:])
	if flags&^uint64(flagsKnown) != 0 {
		return Header{}, fmt.Errorf("header: %w (%#x)", ErrBadFlags, flags)
	}
	return Header{
		Size:      size,
		Next:      buf.U64LE(b[offNext:]),
		Allocated: flags&FlagAllocated != 0,
	}, nil
}

// EncodeHeader writes h to the start of b, zeroing the reserved word.
func EncodeHeader(b []byte, h Header) error {
	if !buf.Has(b, 0, HeaderSize) {
		return fmt.Errorf("header: %w", ErrTruncated)
	}
	if h.Size < HeaderSize {
		return fmt.Errorf("header: declared size too small (%d)", h.Size)
	}
	var flags uint64
	if h.Allocated {
		flags |= FlagAllocated
	}
	buf.PutU64LE(b[offSize:], h.Size)
	buf.PutU64LE(b[offNext:], h.Next)
	buf.PutU64LE(b[offFlags:], flags)
	buf.PutU64LE(b[offReserved:], 0)
	return nil
}
