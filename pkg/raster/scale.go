// ABOUTME: Scaling context converting source frames into destination RGBA rasters
// ABOUTME: Reinit fixes src/dst geometry; Scale converts then resamples via x/image/draw

package raster

import (
	"fmt"
	goimage "image"

	"golang.org/x/image/draw"
)

// Params describes one side of a scaling operation.
type Params struct {
	Format Format
	W, H   int
}

// Scaler converts frames from a fixed source geometry into a fixed
// destination RGBA geometry. Reinit must be called before Scale and
// whenever either side changes.
type Scaler struct {
	src, dst Params
	tmp      *goimage.RGBA
	ready    bool
}

// Reinit validates the conversion and prepares intermediate storage.
func (s *Scaler) Reinit(src, dst Params) error {
	s.ready = false
	if src.W <= 0 || src.H <= 0 || dst.W <= 0 || dst.H <= 0 {
		return fmt.Errorf("invalid scaler geometry %dx%d -> %dx%d", src.W, src.H, dst.W, dst.H)
	}
	if !CanConvert(src.Format) {
		return fmt.Errorf("unsupported source format %s", src.Format)
	}
	if dst.Format != FormatRGBA {
		return fmt.Errorf("scaler destination must be rgba, got %s", dst.Format)
	}
	s.src = src
	s.dst = dst
	if src.W != dst.W || src.H != dst.H {
		s.tmp = goimage.NewRGBA(goimage.Rect(0, 0, src.W, src.H))
	} else {
		s.tmp = nil
	}
	s.ready = true
	return nil
}

// Scale converts src into dst. The source may be larger than the geometry
// given to Reinit (a crop view); only the configured region is read.
// dst must match the destination geometry exactly.
func (s *Scaler) Scale(dst, src *Image) error {
	if !s.ready {
		return fmt.Errorf("scaler not initialized")
	}
	if src.Format != s.src.Format || src.W < s.src.W || src.H < s.src.H {
		return fmt.Errorf("source is %s %dx%d, scaler expects %s >=%dx%d",
			src.Format, src.W, src.H, s.src.Format, s.src.W, s.src.H)
	}
	if dst.Format != FormatRGBA || dst.W != s.dst.W || dst.H != s.dst.H {
		return fmt.Errorf("destination is %s %dx%d, scaler expects rgba %dx%d",
			dst.Format, dst.W, dst.H, s.dst.W, s.dst.H)
	}

	region := *src
	region.W, region.H = s.src.W, s.src.H

	if s.tmp == nil {
		// Same size: convert straight into the destination raster.
		return convertRGBA(dst.Pix, dst.Stride, &region)
	}

	if err := convertRGBA(s.tmp.Pix, s.tmp.Stride, &region); err != nil {
		return err
	}
	out := &goimage.RGBA{Pix: dst.Pix, Stride: dst.Stride, Rect: goimage.Rect(0, 0, dst.W, dst.H)}
	// ApproxBiLinear keeps per-frame cost low enough for video rates.
	draw.ApproxBiLinear.Scale(out, out.Rect, s.tmp, s.tmp.Rect, draw.Src, nil)
	return nil
}
