// ABOUTME: Canvas geometry resolution: terminal size query, user overrides, fallbacks
// ABOUTME: A failed or unreported pixel size degrades to 320x240, never to an error

package kitty

import "github.com/AgustinCB/mpv/pkg/term"

const (
	fallbackPxWidth  = 320
	fallbackPxHeight = 240
)

// CanvasGeometry is the resolved drawing surface: terminal cells plus
// the logical canvas size in pixels. OK is false when either pixel
// dimension came out non-positive; rendering is skipped for that cycle.
type CanvasGeometry struct {
	Rows, Cols        int
	PxWidth, PxHeight int
	OK                bool
}

// resolveCanvas queries t and applies overrides and fallbacks. Positive
// user overrides replace the queried pixel dimension unconditionally; a
// non-positive query result falls back to 320x240. A failed query is
// treated the same as a terminal that reports no pixel size.
func resolveCanvas(t term.Terminal, optWidth, optHeight int) CanvasGeometry {
	size, err := t.Size()
	if err != nil {
		size = term.Size{}
	}

	g := CanvasGeometry{
		Rows:     size.Rows,
		Cols:     size.Cols,
		PxWidth:  size.XPixel,
		PxHeight: size.YPixel,
	}

	if optWidth > 0 {
		g.PxWidth = optWidth
	} else if g.PxWidth <= 0 {
		g.PxWidth = fallbackPxWidth
	}

	if optHeight > 0 {
		g.PxHeight = optHeight
	} else if g.PxHeight <= 0 {
		g.PxHeight = fallbackPxHeight
	}

	g.OK = g.PxWidth > 0 && g.PxHeight > 0
	return g
}
