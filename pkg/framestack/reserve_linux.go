//go:build linux

package framestack

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// reserve maps an anonymous region. Pages are committed on first touch, so
// a large default costs nothing until deep recursion uses it.
func reserve(numSlots int) ([]Slot, func() error, error) {
	size := numSlots * int(unsafe.Sizeof(Slot{}))
	buffer, err := unix.Mmap(
		-1, 0,
		size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS|unix.MAP_NORESERVE,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to mmap frame stack: %w", err)
	}
	slots := unsafe.Slice((*Slot)(unsafe.Pointer(&buffer[0])), numSlots)
	return slots, func() error { return unix.Munmap(buffer) }, nil
}
