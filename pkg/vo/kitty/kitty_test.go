// ABOUTME: Tests for the driver state machine across host lifecycle calls
// ABOUTME: Skip/redraw decisions, resize handling, transfer hand-off, teardown

//go:build linux

package kitty

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/AgustinCB/mpv/pkg/raster"
	"github.com/AgustinCB/mpv/pkg/term"
	"github.com/AgustinCB/mpv/pkg/vo"
)

func newTestDriver(t *testing.T, size term.Size) (*Driver, *term.VirtualTerminal) {
	t.Helper()
	useTempShmDir(t)

	vt := term.NewVirtualTerminal(size)
	d := New(vt, DefaultOptions())
	if err := d.Preinit(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(d.Uninit)
	return d, vt
}

func testFrame(t *testing.T, w, h int) *raster.Image {
	t.Helper()
	img, err := raster.New(raster.FormatRGBA, w, h)
	if err != nil {
		t.Fatal(err)
	}
	for i := range img.Pix {
		img.Pix[i] = byte(i)
	}
	return img
}

func shmPath(d *Driver) string {
	return filepath.Join(shmDir, d.shmName)
}

func TestDriver_PreinitHidesCursor(t *testing.T) {
	_, vt := newTestDriver(t, term.Size{Rows: 40, Cols: 120, XPixel: 960, YPixel: 600})
	if !strings.Contains(vt.Output(), escHideCursor) {
		t.Error("Preinit did not hide the cursor")
	}
}

func TestDriver_ReconfigClearsAndSizesFrame(t *testing.T) {
	d, vt := newTestDriver(t, term.Size{Rows: 40, Cols: 120, XPixel: 960, YPixel: 600})
	vt.Reset()

	if err := d.Reconfig(vo.Params{Format: raster.FormatRGBA, W: 1920, H: 1080}); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(vt.Output(), escClearScreen) {
		t.Error("Reconfig did not clear the screen")
	}
	// Letterbox: 960x540 destination.
	if d.frame.W != 960 || d.frame.H != 540 {
		t.Errorf("output frame = %dx%d, want 960x540", d.frame.W, d.frame.H)
	}
	if d.frame.W != d.layout.Dst.W() || d.frame.H != d.layout.Dst.H() {
		t.Error("frame dimensions diverge from destination rectangle")
	}
	if d.layout.Top != 3 || d.layout.Left != 1 {
		t.Errorf("origin = (%d,%d), want (3,1)", d.layout.Top, d.layout.Left)
	}
}

func TestDriver_ReconfigUnsupportedFormatFails(t *testing.T) {
	d, _ := newTestDriver(t, term.Size{Rows: 40, Cols: 120, XPixel: 960, YPixel: 600})
	if err := d.Reconfig(vo.Params{Format: raster.FormatUnknown, W: 100, H: 100}); err == nil {
		t.Error("expected reconfig failure for unknown format")
	}
	if d.configured {
		t.Error("driver marked configured after failed reconfig")
	}
}

func TestDriver_DrawFlipPublishesAndEmits(t *testing.T) {
	d, vt := newTestDriver(t, term.Size{Rows: 40, Cols: 120, XPixel: 960, YPixel: 600})
	if err := d.Reconfig(vo.Params{Format: raster.FormatRGBA, W: 1920, H: 1080}); err != nil {
		t.Fatal(err)
	}
	src := testFrame(t, 1920, 1080)
	vt.Reset()

	d.Draw(vo.Frame{Current: src})

	// The transfer object exists, sized width*height*4, before Flip.
	fi, err := os.Stat(shmPath(d))
	if err != nil {
		t.Fatalf("transfer object missing after draw: %v", err)
	}
	if want := int64(960 * 540 * 4); fi.Size() != want {
		t.Errorf("transfer size = %d, want %d", fi.Size(), want)
	}
	if d.transfer == nil {
		t.Fatal("no live transfer after draw")
	}

	flushes := vt.Flushes()
	d.Flip()

	out := vt.Output()
	if !strings.Contains(out, "\x1b[3;1f") {
		t.Error("cursor positioning sequence missing")
	}
	if !strings.Contains(out, "\x1b_Ga=T,f=32,t=s,s=960,v=540;") {
		t.Error("graphics transfer command missing")
	}
	if vt.Flushes() != flushes+1 {
		t.Error("Flip did not flush the control stream")
	}
	if d.transfer != nil {
		t.Error("transfer still mapped after hand-off")
	}
	// Hand-off must not unlink: the terminal owns cleanup.
	if _, err := os.Stat(shmPath(d)); err != nil {
		t.Errorf("object unlinked after hand-off: %v", err)
	}
}

func TestDriver_FirstDrawAfterReconfigNeverSkipped(t *testing.T) {
	d, _ := newTestDriver(t, term.Size{Rows: 40, Cols: 120, XPixel: 960, YPixel: 600})
	if err := d.Reconfig(vo.Params{Format: raster.FormatRGBA, W: 1920, H: 1080}); err != nil {
		t.Fatal(err)
	}
	src := testFrame(t, 1920, 1080)

	// Even a repeat frame must composite right after reconfig.
	d.Draw(vo.Frame{Current: src, Repeat: true})

	if d.skipFrame {
		t.Error("first draw after reconfig was skipped")
	}
	if d.transfer == nil {
		t.Error("first draw did not publish a transfer")
	}
}

func TestDriver_RepeatFrameSkipped(t *testing.T) {
	d, vt := newTestDriver(t, term.Size{Rows: 40, Cols: 120, XPixel: 960, YPixel: 600})
	if err := d.Reconfig(vo.Params{Format: raster.FormatRGBA, W: 1920, H: 1080}); err != nil {
		t.Fatal(err)
	}
	src := testFrame(t, 1920, 1080)

	d.Draw(vo.Frame{Current: src})
	d.Flip()

	// Remove the handed-off object; a skipped frame must not recreate it.
	if err := os.Remove(shmPath(d)); err != nil {
		t.Fatal(err)
	}
	vt.Reset()

	d.Draw(vo.Frame{Current: src, Repeat: true})
	d.Flip()

	if !d.skipFrame {
		t.Error("repeat frame without redraw was not skipped")
	}
	if _, err := os.Stat(shmPath(d)); err == nil {
		t.Error("skipped frame created a new transfer object")
	}
	if strings.Contains(vt.Output(), "\x1b_G") {
		t.Error("skipped frame emitted a graphics command")
	}
}

func TestDriver_RedrawFlagForcesCompositing(t *testing.T) {
	d, _ := newTestDriver(t, term.Size{Rows: 40, Cols: 120, XPixel: 960, YPixel: 600})
	if err := d.Reconfig(vo.Params{Format: raster.FormatRGBA, W: 1920, H: 1080}); err != nil {
		t.Fatal(err)
	}
	src := testFrame(t, 1920, 1080)

	d.Draw(vo.Frame{Current: src})
	d.Flip()

	d.Draw(vo.Frame{Current: src, Repeat: true, Redraw: true})
	if d.skipFrame {
		t.Error("redraw-flagged frame was skipped")
	}
	if d.transfer == nil {
		t.Error("redraw-flagged frame did not publish")
	}
}

func TestDriver_ResizeForcesCompositingDespiteRepeat(t *testing.T) {
	d, vt := newTestDriver(t, term.Size{Rows: 40, Cols: 120, XPixel: 960, YPixel: 600})
	if err := d.Reconfig(vo.Params{Format: raster.FormatRGBA, W: 1920, H: 1080}); err != nil {
		t.Fatal(err)
	}
	src := testFrame(t, 1920, 1080)

	d.Draw(vo.Frame{Current: src})
	d.Flip()

	// Terminal resized between draws, frame content identical.
	vt.SetSize(term.Size{Rows: 40, Cols: 120, XPixel: 800, YPixel: 500})
	vt.Reset()

	d.Draw(vo.Frame{Current: src, Repeat: true})

	if d.skipFrame {
		t.Error("resize did not bypass the skip decision")
	}
	if !strings.Contains(vt.Output(), escClearScreen) {
		t.Error("resize did not clear the screen")
	}
	// New destination: 800x450 for 16:9 source on 800x500.
	if d.frame.W != 800 || d.frame.H != 450 {
		t.Errorf("frame after resize = %dx%d, want 800x450", d.frame.W, d.frame.H)
	}
	if d.transfer == nil {
		t.Fatal("resized frame did not publish")
	}
	d.Flip()
	if !strings.Contains(vt.Output(), "s=800,v=450") {
		t.Error("transfer command does not reflect the new size")
	}
}

func TestDriver_InvalidCanvasSkipsEverything(t *testing.T) {
	d, vt := newTestDriver(t, term.Size{Rows: 40, Cols: 120, XPixel: 960, YPixel: 600})
	if err := d.Reconfig(vo.Params{Format: raster.FormatRGBA, W: 1920, H: 1080}); err != nil {
		t.Fatal(err)
	}

	// Force the invalid-canvas state directly; resolveCanvas can only
	// produce it when fallbacks are disabled by construction.
	d.geo = CanvasGeometry{}
	vt.Reset()

	d.Flip()
	if out := vt.Output(); out != "" {
		t.Errorf("flip on invalid canvas wrote %q", out)
	}
}

func TestDriver_BlankFrameClearsToBlack(t *testing.T) {
	d, _ := newTestDriver(t, term.Size{Rows: 40, Cols: 120, XPixel: 960, YPixel: 600})
	if err := d.Reconfig(vo.Params{Format: raster.FormatRGBA, W: 1920, H: 1080}); err != nil {
		t.Fatal(err)
	}

	d.Draw(vo.Frame{Current: nil})

	px := d.frame.Pix
	if px[0] != 0 || px[1] != 0 || px[2] != 0 || px[3] != 0xff {
		t.Errorf("blank frame pixel = %v, want opaque black", px[0:4])
	}
	if d.transfer == nil {
		t.Error("blank frame was not published")
	}
}

func TestDriver_ControlPanscan(t *testing.T) {
	d, _ := newTestDriver(t, term.Size{Rows: 40, Cols: 120, XPixel: 960, YPixel: 600})

	// Before any reconfig the request is not handled.
	if got := d.Control(vo.ControlSetPanscan, 1.0); got != vo.ControlUnhandled {
		t.Errorf("unconfigured control = %v, want unhandled", got)
	}

	if err := d.Reconfig(vo.Params{Format: raster.FormatRGBA, W: 1920, H: 1080}); err != nil {
		t.Fatal(err)
	}
	if got := d.Control(vo.ControlSetPanscan, 1.0); got != vo.ControlOK {
		t.Errorf("configured control = %v, want OK", got)
	}
	// Panscan 1 fills the canvas.
	if d.frame.W != 960 || d.frame.H != 600 {
		t.Errorf("frame after panscan = %dx%d, want 960x600", d.frame.W, d.frame.H)
	}

	if got := d.Control(vo.ControlRequest(999), nil); got != vo.ControlUnhandled {
		t.Errorf("unknown request = %v, want unhandled", got)
	}
}

func TestDriver_OverlayDrawnEvenOnBlankFrames(t *testing.T) {
	useTempShmDir(t)
	vt := term.NewVirtualTerminal(term.Size{Rows: 40, Cols: 120, XPixel: 960, YPixel: 600})

	calls := 0
	opts := DefaultOptions()
	opts.Overlay = overlayFunc(func(img *raster.Image, pts time.Duration) {
		calls++
		if img.W != 960 || img.H != 540 {
			t.Errorf("overlay raster = %dx%d, want destination size", img.W, img.H)
		}
	})
	d := New(vt, opts)
	if err := d.Preinit(); err != nil {
		t.Fatal(err)
	}
	defer d.Uninit()
	if err := d.Reconfig(vo.Params{Format: raster.FormatRGBA, W: 1920, H: 1080}); err != nil {
		t.Fatal(err)
	}

	d.Draw(vo.Frame{Current: testFrame(t, 1920, 1080)})
	d.Draw(vo.Frame{Current: nil})

	if calls != 2 {
		t.Errorf("overlay called %d times, want 2 (including blank frame)", calls)
	}
}

type overlayFunc func(*raster.Image, time.Duration)

func (f overlayFunc) Draw(img *raster.Image, pts time.Duration) { f(img, pts) }

func TestDriver_UninitRestoresCursorAndClears(t *testing.T) {
	useTempShmDir(t)
	vt := term.NewVirtualTerminal(term.Size{Rows: 40, Cols: 120, XPixel: 960, YPixel: 600})
	d := New(vt, DefaultOptions())
	if err := d.Preinit(); err != nil {
		t.Fatal(err)
	}
	vt.Reset()

	d.Uninit()

	out := vt.Output()
	if !strings.Contains(out, escRestoreCursor) {
		t.Error("cursor not restored")
	}
	if !strings.Contains(out, escClearScreen) || !strings.Contains(out, "\x1b[1;1f") {
		t.Error("exit-clear did not clear and home")
	}
}

func TestDriver_UninitWithoutExitClear(t *testing.T) {
	useTempShmDir(t)
	vt := term.NewVirtualTerminal(term.Size{Rows: 40, Cols: 120, XPixel: 960, YPixel: 600})
	opts := DefaultOptions()
	opts.ExitClear = false
	d := New(vt, opts)
	if err := d.Preinit(); err != nil {
		t.Fatal(err)
	}
	vt.Reset()

	d.Uninit()

	out := vt.Output()
	if !strings.Contains(out, escRestoreCursor) {
		t.Error("cursor not restored")
	}
	if strings.Contains(out, escClearScreen) {
		t.Error("screen cleared despite exit-clear=no")
	}
}

func TestDriver_PublishFailureKeepsDriverLive(t *testing.T) {
	d, _ := newTestDriver(t, term.Size{Rows: 40, Cols: 120, XPixel: 960, YPixel: 600})
	if err := d.Reconfig(vo.Params{Format: raster.FormatRGBA, W: 1920, H: 1080}); err != nil {
		t.Fatal(err)
	}
	src := testFrame(t, 1920, 1080)

	// Break the shm root for one frame.
	good := shmDir
	shmDir = filepath.Join(good, "missing")
	d.Draw(vo.Frame{Current: src})
	if d.transfer != nil {
		t.Error("publish succeeded against a missing shm root")
	}
	d.Flip() // must be a clean no-op

	// Next frame works again.
	shmDir = good
	d.Draw(vo.Frame{Current: src})
	if d.transfer == nil {
		t.Error("driver did not recover after a failed publish")
	}
	d.Flip()
}

func TestDriver_UserOriginOverrides(t *testing.T) {
	useTempShmDir(t)
	vt := term.NewVirtualTerminal(term.Size{Rows: 40, Cols: 120, XPixel: 960, YPixel: 600})
	opts := DefaultOptions()
	opts.Top, opts.Left = 7, 11
	d := New(vt, opts)
	if err := d.Preinit(); err != nil {
		t.Fatal(err)
	}
	defer d.Uninit()
	if err := d.Reconfig(vo.Params{Format: raster.FormatRGBA, W: 1920, H: 1080}); err != nil {
		t.Fatal(err)
	}

	d.Draw(vo.Frame{Current: testFrame(t, 1920, 1080)})
	d.Flip()

	if !strings.Contains(vt.Output(), "\x1b[7;11f") {
		t.Error("user top/left overrides not honored in cursor positioning")
	}
}
