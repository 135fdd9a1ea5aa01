// ABOUTME: Output layout math: aspect-fit/pan-scan rectangles and cell-origin projection
// ABOUTME: Produces the source crop and destination placement for a given canvas

package vo

import (
	"math"

	"github.com/AgustinCB/mpv/pkg/raster"
)

// Layout is the placement of the video on the canvas: the source crop
// region in source pixel space, the destination rectangle in canvas
// pixel space, and the 1-based cell at which the image origin lands.
type Layout struct {
	Src, Dst  raster.Rect
	Top, Left int
}

// FitRects computes the source and destination rectangles for a srcW x
// srcH video on a canvasW x canvasH canvas. panscan in [0,1] blends from
// letterbox (0: whole source visible, bars on one axis) to pan-scan
// fill (1: whole canvas covered, source cropped on one axis).
func FitRects(srcW, srcH, canvasW, canvasH int, panscan float64) (src, dst raster.Rect) {
	src = raster.Rect{X1: srcW, Y1: srcH}
	dst = raster.Rect{X1: canvasW, Y1: canvasH}
	if srcW <= 0 || srcH <= 0 || canvasW <= 0 || canvasH <= 0 {
		return src, dst
	}
	if panscan < 0 {
		panscan = 0
	} else if panscan > 1 {
		panscan = 1
	}

	fitScale := math.Min(float64(canvasW)/float64(srcW), float64(canvasH)/float64(srcH))
	fillScale := math.Max(float64(canvasW)/float64(srcW), float64(canvasH)/float64(srcH))
	scale := fitScale + (fillScale-fitScale)*panscan

	outW := int(math.Round(float64(srcW) * scale))
	outH := int(math.Round(float64(srcH) * scale))

	// Destination: scaled size clipped to the canvas, centered.
	dstW, dstH := outW, outH
	if dstW > canvasW {
		dstW = canvasW
	}
	if dstH > canvasH {
		dstH = canvasH
	}
	dst.X0 = (canvasW - dstW) / 2
	dst.Y0 = (canvasH - dstH) / 2
	dst.X1 = dst.X0 + dstW
	dst.Y1 = dst.Y0 + dstH

	// Source: the region that remains visible once the scaled video is
	// clipped, centered in source space.
	visW, visH := srcW, srcH
	if outW > canvasW {
		visW = int(math.Round(float64(canvasW) / scale))
		if visW > srcW {
			visW = srcW
		}
	}
	if outH > canvasH {
		visH = int(math.Round(float64(canvasH) / scale))
		if visH > srcH {
			visH = srcH
		}
	}
	if visW < 1 {
		visW = 1
	}
	if visH < 1 {
		visH = 1
	}
	src.X0 = (srcW - visW) / 2
	src.Y0 = (srcH - visH) / 2
	src.X1 = src.X0 + visW
	src.Y1 = src.Y0 + visH

	return src, dst
}

// OriginCells projects the destination origin into 1-based terminal cell
// coordinates. Positive user overrides win; otherwise the pixel position
// is projected through the canvas pixel dimensions, not cell counts.
func OriginCells(rows, cols, canvasPxW, canvasPxH int, dst raster.Rect, optTop, optLeft int) (top, left int) {
	top = optTop
	if top <= 0 {
		top = rows*dst.Y0/canvasPxH + 1
	}
	left = optLeft
	if left <= 0 {
		left = cols*dst.X0/canvasPxW + 1
	}
	return top, left
}
