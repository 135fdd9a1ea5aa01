// ABOUTME: On-screen-display overlay drawn onto composited RGBA frames
// ABOUTME: Renders a timecode and optional message with a bitmap face from x/image

package osd

import (
	"fmt"
	goimage "image"
	"image/color"
	"image/draw"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/AgustinCB/mpv/pkg/raster"
)

const (
	marginPx  = 8
	padPx     = 4
	boxAlpha  = 0xa0
	minWidth  = 64
	minHeight = 32
)

// Renderer draws OSD content onto output rasters. The zero value renders
// nothing; use New for a timecode overlay.
type Renderer struct {
	ShowTimecode bool
	Message      string

	face font.Face
}

// New returns a Renderer showing a playback timecode and an optional
// static message line.
func New(showTimecode bool, message string) *Renderer {
	return &Renderer{
		ShowTimecode: showTimecode,
		Message:      message,
		face:         basicfont.Face7x13,
	}
}

// Draw renders the overlay onto img at its exact dimensions. The raster
// is mutated in place and never resized. Frames too small for readable
// text are left untouched.
func (r *Renderer) Draw(img *raster.Image, pts time.Duration) {
	if r == nil || (!r.ShowTimecode && r.Message == "") {
		return
	}
	if img.W < minWidth || img.H < minHeight {
		return
	}
	dst, err := img.RGBA()
	if err != nil {
		return
	}
	if r.face == nil {
		r.face = basicfont.Face7x13
	}

	lines := make([]string, 0, 2)
	if r.Message != "" {
		lines = append(lines, r.Message)
	}
	if r.ShowTimecode {
		lines = append(lines, formatTimecode(pts))
	}

	metrics := r.face.Metrics()
	lineH := metrics.Height.Ceil()
	boxW := 0
	for _, l := range lines {
		if w := font.MeasureString(r.face, l).Ceil(); w > boxW {
			boxW = w
		}
	}
	boxW += 2 * padPx
	boxH := len(lines)*lineH + 2*padPx

	// Bottom-left corner, clipped to the frame.
	box := goimage.Rect(marginPx, img.H-marginPx-boxH, marginPx+boxW, img.H-marginPx)
	box = box.Intersect(dst.Rect)
	if box.Empty() {
		return
	}
	draw.Draw(dst, box, &goimage.Uniform{C: color.RGBA{A: boxAlpha}}, goimage.Point{}, draw.Over)

	d := font.Drawer{
		Dst:  dst,
		Src:  goimage.White,
		Face: r.face,
	}
	y := box.Min.Y + padPx + metrics.Ascent.Ceil()
	for _, l := range lines {
		d.Dot = fixed.P(box.Min.X+padPx, y)
		d.DrawString(l)
		y += lineH
	}
}

// formatTimecode renders pts as H:MM:SS.mmm with hours omitted when zero.
func formatTimecode(pts time.Duration) string {
	if pts < 0 {
		pts = 0
	}
	h := pts / time.Hour
	m := (pts % time.Hour) / time.Minute
	s := (pts % time.Minute) / time.Second
	ms := (pts % time.Second) / time.Millisecond

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%03d", h, m, s, ms)
	}
	return fmt.Sprintf("%02d:%02d.%03d", m, s, ms)
}
