// ABOUTME: Stub transfer buffer for platforms without POSIX shared memory under /dev/shm
// ABOUTME: Publishing always fails; the driver logs the failure and drops the frame

//go:build !linux

package kitty

import (
	"fmt"

	"github.com/AgustinCB/mpv/pkg/raster"
)

type transferBuffer struct{}

func openTransfer(name string, size int) (*transferBuffer, error) {
	return nil, fmt.Errorf("shared-memory frame transfer is not supported on this platform")
}

func (b *transferBuffer) copyImage(img *raster.Image) {}

func (b *transferBuffer) release() {}
