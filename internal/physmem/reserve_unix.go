//go:build unix

package physmem

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Reserve maps a zeroed anonymous region of the given page count and
// returns it with a release function.
func Reserve(pages uint64) ([]byte, func() error, error) {
	size, ok := regionBytes(pages)
	if !ok {
		return nil, nil, fmt.Errorf("physmem: region too large to reserve (%d pages)", pages)
	}
	if size == 0 {
		return []byte{}, func() error { return nil }, nil
	}
	data, err := unix.Mmap(-1, 0, int(size),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("physmem: mmap %d bytes: %w", size, err)
	}
	cleanup := func() error {
		if data == nil {
			return nil
		}
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Treat double-release as no-op for callers.
			return nil
		}
		return err
	}
	return data, cleanup, nil
}
