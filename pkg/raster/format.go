// ABOUTME: Pixel format descriptors for raw video frames
// ABOUTME: Carries packing, frame size math, and crop-alignment requirements

package raster

import "fmt"

// Format identifies the pixel layout of a raw video frame.
type Format int

const (
	FormatUnknown Format = iota
	FormatRGBA           // packed R,G,B,A - 4 bytes per pixel
	FormatBGRA           // packed B,G,R,A - 4 bytes per pixel
	FormatRGB24          // packed R,G,B - 3 bytes per pixel
	FormatGray8          // single luma byte per pixel
	FormatYUV420P        // planar Y + 2x2 subsampled Cb, Cr
)

// String returns the conventional short name of the format.
func (f Format) String() string {
	switch f {
	case FormatRGBA:
		return "rgba"
	case FormatBGRA:
		return "bgra"
	case FormatRGB24:
		return "rgb24"
	case FormatGray8:
		return "gray8"
	case FormatYUV420P:
		return "yuv420p"
	default:
		return "unknown"
	}
}

// ParseFormat converts a format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "rgba":
		return FormatRGBA, nil
	case "bgra":
		return FormatBGRA, nil
	case "rgb24":
		return FormatRGB24, nil
	case "gray8", "gray":
		return FormatGray8, nil
	case "yuv420p":
		return FormatYUV420P, nil
	default:
		return FormatUnknown, fmt.Errorf("unknown pixel format %q", name)
	}
}

// BytesPerPixel returns the packed pixel size, or 0 for planar formats.
func (f Format) BytesPerPixel() int {
	switch f {
	case FormatRGBA, FormatBGRA:
		return 4
	case FormatRGB24:
		return 3
	case FormatGray8:
		return 1
	default:
		return 0
	}
}

// FrameBytes returns the total byte size of a tightly packed w x h frame.
func (f Format) FrameBytes(w, h int) int {
	if w <= 0 || h <= 0 {
		return 0
	}
	if f == FormatYUV420P {
		cw, ch := (w+1)/2, (h+1)/2
		return w*h + 2*cw*ch
	}
	return w * h * f.BytesPerPixel()
}

// AlignX returns the horizontal alignment a crop origin must satisfy.
func (f Format) AlignX() int {
	if f == FormatYUV420P {
		return 2
	}
	return 1
}

// AlignY returns the vertical alignment a crop origin must satisfy.
func (f Format) AlignY() int {
	if f == FormatYUV420P {
		return 2
	}
	return 1
}

// AlignDown rounds v down to a multiple of align.
func AlignDown(v, align int) int {
	if align <= 1 {
		return v
	}
	return v - v%align
}
