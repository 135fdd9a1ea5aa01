// ABOUTME: Video output driver speaking the kitty graphics protocol over shared memory
// ABOUTME: Sequences geometry, layout, compositing, and transfer across host lifecycle calls

package kitty

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/AgustinCB/mpv/pkg/raster"
	"github.com/AgustinCB/mpv/pkg/term"
	"github.com/AgustinCB/mpv/pkg/vo"
)

// Options is the user-facing configuration of the driver.
type Options struct {
	// Width/Height override the canvas pixel size when positive.
	Width, Height int
	// Top/Left override the 1-based image origin cell when positive.
	Top, Left int
	// ExitClear clears the screen and homes the cursor on Uninit.
	ExitClear bool
	// Panscan blends from letterbox (0) to crop-to-fill (1).
	Panscan float64
	// Overlay renders OSD content onto every composited frame.
	// Nil means no overlay.
	Overlay vo.Overlay
	// Log receives per-frame warnings. Zero value discards them.
	Log zerolog.Logger
}

// DefaultOptions returns the option defaults: exit-clear on, no
// overrides.
func DefaultOptions() Options {
	return Options{ExitClear: true, Log: zerolog.Nop()}
}

// Driver renders video frames into a kitty-protocol terminal. It
// implements vo.Driver. All state is owned by the instance; the host
// serializes lifecycle calls.
type Driver struct {
	term term.Terminal
	opts Options
	log  zerolog.Logger

	shmName string

	params     vo.Params
	configured bool

	geo    CanvasGeometry
	layout vo.Layout

	scaler *raster.Scaler
	frame  *raster.Image // composited output, dst-rect sized

	transfer    *transferBuffer
	skipFrame   bool
	forceRedraw bool
}

// New returns a Driver writing to t.
func New(t term.Terminal, opts Options) *Driver {
	if opts.Overlay == nil {
		opts.Overlay = vo.NopOverlay{}
	}
	return &Driver{
		term: t,
		opts: opts,
		log:  opts.Log,
	}
}

// Preinit hides the terminal cursor and prepares the scaling context.
// No geometry work happens until Reconfig.
func (d *Driver) Preinit() error {
	if _, err := d.term.Write([]byte(escHideCursor)); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	d.scaler = &raster.Scaler{}
	// Per-process name so concurrent instances never race on one object.
	d.shmName = fmt.Sprintf("mpv-kitty-%d", os.Getpid())
	return nil
}

// QueryFormat reports whether frames in format f can be composited.
func (d *Driver) QueryFormat(f raster.Format) bool {
	return raster.CanConvert(f)
}

// Reconfig adopts new source parameters. An invalid canvas is not an
// error: the screen is cleared and rendering is skipped until geometry
// becomes valid again. Allocation and scaler failures propagate.
func (d *Driver) Reconfig(p vo.Params) error {
	d.params = p

	var err error
	d.geo = resolveCanvas(d.term, d.opts.Width, d.opts.Height)
	if d.geo.OK {
		d.updateLayout()
		err = d.updateParams()
	}

	d.term.Write([]byte(escClearScreen))
	d.forceRedraw = true
	d.configured = err == nil
	if err != nil {
		return fmt.Errorf("reconfiguring video output: %w", err)
	}
	return nil
}

// updateLayout recomputes the output rectangles and cell origin from the
// current geometry and source parameters.
func (d *Driver) updateLayout() {
	src, dst := vo.FitRects(d.params.W, d.params.H, d.geo.PxWidth, d.geo.PxHeight, d.opts.Panscan)
	top, left := vo.OriginCells(d.geo.Rows, d.geo.Cols, d.geo.PxWidth, d.geo.PxHeight, dst, d.opts.Top, d.opts.Left)
	d.layout = vo.Layout{Src: src, Dst: dst, Top: top, Left: left}
}

// updateParams reallocates the output raster for the destination size
// and reinitializes the scaler. Previous buffers are released first.
func (d *Driver) updateParams() error {
	d.releaseBuffers()

	w, h := d.layout.Dst.W(), d.layout.Dst.H()
	frame, err := raster.New(raster.FormatRGBA, w, h)
	if err != nil {
		return fmt.Errorf("allocating %dx%d output frame: %w", w, h, err)
	}

	src := raster.Params{Format: d.params.Format, W: d.layout.Src.W(), H: d.layout.Src.H()}
	dst := raster.Params{Format: raster.FormatRGBA, W: w, H: h}
	if err := d.scaler.Reinit(src, dst); err != nil {
		return fmt.Errorf("initializing scaler: %w", err)
	}

	d.frame = frame
	return nil
}

// releaseBuffers drops the output raster and any still-open transfer
// mapping.
func (d *Driver) releaseBuffers() {
	if d.transfer != nil {
		d.transfer.release()
		d.transfer = nil
	}
	d.frame = nil
}

// Draw composites one frame. Geometry is resolved fresh on every call:
// the terminal may have been resized since the last draw without any
// host-driven reconfigure. A resize forces compositing even for repeated
// frames; otherwise repeat frames without an overlay change are skipped.
func (d *Driver) Draw(f vo.Frame) {
	prevW, prevH := d.geo.PxWidth, d.geo.PxHeight

	d.geo = resolveCanvas(d.term, d.opts.Width, d.opts.Height)
	if !d.geo.OK {
		return
	}

	resized := false
	if prevW != d.geo.PxWidth || prevH != d.geo.PxHeight {
		d.updateLayout()
		// Draw is never called with a failed Reconfig, so a failure
		// here means allocation pressure; drop the frame and stay live.
		if err := d.updateParams(); err != nil {
			d.log.Error().Err(err).Msg("resize reconfiguration failed")
			return
		}
		d.term.Write([]byte(escClearScreen))
		resized = true
	}

	redraw := f.Redraw || d.forceRedraw
	d.forceRedraw = false

	if f.Repeat && !redraw && !resized {
		// Same picture, unchanged overlay, unchanged canvas.
		d.skipFrame = true
		return
	}
	d.skipFrame = false

	if f.Current != nil {
		rc := d.layout.Src
		rc.X0 = raster.AlignDown(rc.X0, f.Current.Format.AlignX())
		rc.Y0 = raster.AlignDown(rc.Y0, f.Current.Format.AlignY())
		if err := d.scaler.Scale(d.frame, f.Current.Crop(rc)); err != nil {
			d.log.Warn().Err(err).Msg("frame conversion failed")
			return
		}
	} else {
		d.frame.Clear()
	}
	d.opts.Overlay.Draw(d.frame, f.PTS)

	d.publish()
}

// publish copies the composited frame into a fresh shared-memory object.
// Failures are contained to this frame: the driver logs a warning and
// stays live.
func (d *Driver) publish() {
	if d.transfer != nil {
		// A prior transfer was never presented; release it so the same
		// name is not mapped twice.
		d.transfer.release()
		d.transfer = nil
	}

	size := d.frame.W * d.frame.H * 4
	tb, err := openTransfer(d.shmName, size)
	if err != nil {
		d.log.Warn().Err(err).Msg("transfer surface unavailable")
		return
	}
	tb.copyImage(d.frame)
	d.transfer = tb
}

// Flip presents the published frame: it emits the transfer command,
// flushes the control stream, and hands the shared-memory object to the
// terminal. Nothing is emitted when the canvas is invalid, the frame was
// skipped, or no transfer was published.
func (d *Driver) Flip() {
	if !d.geo.OK || d.skipFrame || d.transfer == nil {
		return
	}

	w, h := d.layout.Dst.W(), d.layout.Dst.H()
	if err := emitTransfer(d.term, d.layout.Top, d.layout.Left, w, h, d.shmName); err != nil {
		d.log.Warn().Err(err).Msg("emitting transfer command failed")
	}
	d.term.Flush()

	// The terminal unlinks the object once consumed; only unmap here.
	d.transfer.release()
	d.transfer = nil
}

// Control handles host control requests. SetPanscan re-runs Reconfig
// when the driver holds a valid configuration.
func (d *Driver) Control(req vo.ControlRequest, data any) vo.ControlResult {
	if req != vo.ControlSetPanscan {
		return vo.ControlUnhandled
	}
	if !d.configured {
		return vo.ControlUnhandled
	}
	if p, ok := data.(float64); ok {
		d.opts.Panscan = p
	}
	if err := d.Reconfig(d.params); err != nil {
		return vo.ControlFailed
	}
	return vo.ControlOK
}

// Uninit restores the cursor, optionally clears the screen, and releases
// every owned buffer.
func (d *Driver) Uninit() {
	d.term.Write([]byte(escRestoreCursor))
	if d.opts.ExitClear {
		d.term.Write([]byte(escClearScreen))
		fmt.Fprintf(d.term, escGotoXY, 1, 1)
	}
	d.term.Flush()

	d.releaseBuffers()
	d.configured = false
}
