//go:build !unix

package physmem

import "fmt"

// Reserve allocates a zeroed region of the given page count from the Go
// heap when anonymous mappings are not available.
func Reserve(pages uint64) ([]byte, func() error, error) {
	size, ok := regionBytes(pages)
	if !ok {
		return nil, nil, fmt.Errorf("physmem: region too large to reserve (%d pages)", pages)
	}
	return make([]byte, size), func() error { return nil }, nil
}
