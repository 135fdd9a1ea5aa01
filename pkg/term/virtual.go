// ABOUTME: VirtualTerminal implements Terminal for testing without a real TTY.
// ABOUTME: Captures control-stream output and counts flushes; size is settable.

package term

import (
	"bytes"
	"errors"
	"sync"
)

// VirtualTerminal is a fake Terminal for unit tests. It records written
// output, counts Flush calls, and returns a configurable size.
type VirtualTerminal struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	size    Size
	sizeErr error
	flushes int
}

// NewVirtualTerminal returns a VirtualTerminal with the given size.
func NewVirtualTerminal(size Size) *VirtualTerminal {
	return &VirtualTerminal{size: size}
}

// Size returns the configured dimensions, or the configured error.
func (v *VirtualTerminal) Size() (Size, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.sizeErr != nil {
		return Size{}, v.sizeErr
	}
	return v.size, nil
}

// Write appends data to the internal buffer.
func (v *VirtualTerminal) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.buf.Write(p)
}

// Flush records a flush.
func (v *VirtualTerminal) Flush() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.flushes++
	return nil
}

// --- Test helpers (not part of Terminal interface) ---

// SetSize updates the reported terminal dimensions.
func (v *VirtualTerminal) SetSize(size Size) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.size = size
	v.sizeErr = nil
}

// FailSize makes subsequent Size calls return an error.
func (v *VirtualTerminal) FailSize(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.sizeErr = errors.New(msg)
}

// Output returns everything written so far.
func (v *VirtualTerminal) Output() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.buf.String()
}

// Reset clears the output buffer.
func (v *VirtualTerminal) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.buf.Reset()
}

// Flushes returns how many times Flush was called.
func (v *VirtualTerminal) Flushes() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.flushes
}
