// ABOUTME: Tests for aspect-fit/pan-scan rectangles and cell-origin projection
// ABOUTME: Includes the 1080p-on-960x600 letterbox scenario with floor formulas

package vo

import (
	"testing"

	"github.com/AgustinCB/mpv/pkg/raster"
)

func TestFitRects_Letterbox1080pOn960x600(t *testing.T) {
	src, dst := FitRects(1920, 1080, 960, 600, 0)

	// Width-limited: fills the canvas width, letterboxed vertically.
	want := raster.Rect{X0: 0, Y0: 30, X1: 960, Y1: 570}
	if dst != want {
		t.Errorf("dst = %+v, want %+v", dst, want)
	}
	if src != (raster.Rect{X0: 0, Y0: 0, X1: 1920, Y1: 1080}) {
		t.Errorf("src = %+v, want full source", src)
	}
}

func TestFitRects_PanscanFillCropsSource(t *testing.T) {
	src, dst := FitRects(1920, 1080, 960, 600, 1)

	// Fill: whole canvas covered.
	if dst != (raster.Rect{X0: 0, Y0: 0, X1: 960, Y1: 600}) {
		t.Errorf("dst = %+v, want full canvas", dst)
	}
	// Source cropped horizontally: visible width = 960/(600/1080) = 1728.
	if src.W() != 1728 {
		t.Errorf("visible source width = %d, want 1728", src.W())
	}
	if src.H() != 1080 {
		t.Errorf("visible source height = %d, want 1080", src.H())
	}
	if src.X0 != (1920-1728)/2 {
		t.Errorf("source crop not centered: x0 = %d", src.X0)
	}
}

func TestFitRects_TallVideoPillarboxes(t *testing.T) {
	_, dst := FitRects(600, 1200, 800, 600, 0)

	if dst.H() != 600 {
		t.Errorf("dst height = %d, want 600", dst.H())
	}
	if dst.W() != 300 {
		t.Errorf("dst width = %d, want 300", dst.W())
	}
	if dst.X0 != 250 {
		t.Errorf("dst x0 = %d, want centered at 250", dst.X0)
	}
}

func TestFitRects_DegenerateInput(t *testing.T) {
	src, dst := FitRects(0, 0, 100, 100, 0)
	if src.W() != 0 || dst.W() != 100 {
		t.Errorf("degenerate input not passed through: src=%+v dst=%+v", src, dst)
	}
}

func TestOriginCells_ProjectsThroughPixels(t *testing.T) {
	// Canvas 960x600 at 120x40 cells, image at pixel (0,30).
	dst := raster.Rect{X0: 0, Y0: 30, X1: 960, Y1: 570}
	top, left := OriginCells(40, 120, 960, 600, dst, 0, 0)

	if top != 3 { // 40*30/600 + 1
		t.Errorf("top = %d, want 3", top)
	}
	if left != 1 { // 120*0/960 + 1
		t.Errorf("left = %d, want 1", left)
	}
}

func TestOriginCells_FloorsIntegerDivision(t *testing.T) {
	dst := raster.Rect{X0: 7, Y0: 13, X1: 100, Y1: 100}
	top, left := OriginCells(24, 80, 640, 480, dst, 0, 0)

	if top != 24*13/480+1 {
		t.Errorf("top = %d, want %d", top, 24*13/480+1)
	}
	if left != 80*7/640+1 {
		t.Errorf("left = %d, want %d", left, 80*7/640+1)
	}
}

func TestOriginCells_OverridesWin(t *testing.T) {
	dst := raster.Rect{X0: 100, Y0: 100, X1: 200, Y1: 200}
	top, left := OriginCells(40, 120, 960, 600, dst, 5, 9)

	if top != 5 || left != 9 {
		t.Errorf("overrides ignored: top=%d left=%d, want 5/9", top, left)
	}
}
