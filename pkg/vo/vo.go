// ABOUTME: Video output driver contract consumed by the playback host
// ABOUTME: Defines lifecycle callbacks, frame descriptors, and control requests

package vo

import (
	"time"

	"github.com/AgustinCB/mpv/pkg/raster"
)

// Params describes the source video handed to Reconfig.
type Params struct {
	Format raster.Format
	W, H   int
}

// Frame is one unit of work for Draw. Current may be nil at end of
// stream; the driver then presents a blank picture with the overlay.
type Frame struct {
	Current *raster.Image
	Repeat  bool // same picture as the previous Draw
	Redraw  bool // overlay changed, picture must be refreshed
	PTS     time.Duration
}

// ControlRequest selects a Control operation.
type ControlRequest int

const (
	// ControlSetPanscan re-applies output sizing after a pan-scan change.
	// Data is the new panscan value as a float64.
	ControlSetPanscan ControlRequest = iota + 1
)

// ControlResult reports how a Control request was handled.
type ControlResult int

const (
	ControlUnhandled ControlResult = iota
	ControlOK
	ControlFailed
)

// Driver is the lifecycle contract between the playback host and a video
// output. The host serializes all calls; drivers are not safe for
// concurrent use. Draw is only ever called after a successful Reconfig,
// and every Draw is followed by Flip before the next Draw.
type Driver interface {
	Preinit() error
	QueryFormat(f raster.Format) bool
	Reconfig(p Params) error
	Control(req ControlRequest, data any) ControlResult
	Draw(f Frame)
	Flip()
	Uninit()
}

// Overlay renders on-screen-display content onto a composited frame at
// its exact dimensions.
type Overlay interface {
	Draw(img *raster.Image, pts time.Duration)
}

// NopOverlay is an Overlay that draws nothing.
type NopOverlay struct{}

// Draw does nothing.
func (NopOverlay) Draw(*raster.Image, time.Duration) {}
