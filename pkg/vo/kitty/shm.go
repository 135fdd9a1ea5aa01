// ABOUTME: Shared-memory transfer buffer lifecycle: create, size, map, copy, hand off
// ABOUTME: The terminal unlinks the object after reading; this process only unmaps

//go:build linux

package kitty

import (
	"fmt"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/AgustinCB/mpv/pkg/raster"
)

// shmDir is where named shared-memory objects live. POSIX shm_open on
// Linux resolves names under /dev/shm; tests point this at a temp dir.
var shmDir = "/dev/shm"

// transferBuffer is a mapped shared-memory object holding exactly one
// frame. It is created fresh per published frame and consumed exactly
// once: release after the transfer command referencing it was emitted.
type transferBuffer struct {
	name string
	fd   int
	data []byte
}

// openTransfer creates (or reopens) the named object, sizes it to size
// bytes, and maps it read-write. On any failure everything acquired so
// far is released, including the name.
func openTransfer(name string, size int) (*transferBuffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid transfer size %d", size)
	}
	path := filepath.Join(shmDir, name)

	fd, err := unix.Open(path, unix.O_CREAT|unix.O_RDWR|unix.O_CLOEXEC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("creating shared memory object %s: %w", name, err)
	}

	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		unix.Close(fd)
		unix.Unlink(path)
		return nil, fmt.Errorf("sizing shared memory object to %d bytes: %w", size, err)
	}

	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		unix.Unlink(path)
		return nil, fmt.Errorf("mapping shared memory object: %w", err)
	}

	return &transferBuffer{name: name, fd: fd, data: data}, nil
}

// copyImage copies the raster's pixel rows into the mapping. The
// destination is tightly packed at width*4 bytes per row; the source
// stride may be larger.
func (b *transferBuffer) copyImage(img *raster.Image) {
	rowBytes := img.W * 4
	for y := 0; y < img.H; y++ {
		copy(b.data[y*rowBytes:(y+1)*rowBytes], img.Pix[y*img.Stride:])
	}
}

// release unmaps and closes the object without unlinking it: the
// consuming terminal owns final cleanup of the name it was handed.
func (b *transferBuffer) release() {
	if b.data != nil {
		unix.Munmap(b.data)
		b.data = nil
	}
	if b.fd >= 0 {
		unix.Close(b.fd)
		b.fd = -1
	}
}
