// ABOUTME: Strided raster image type shared by the scaler, OSD, and output driver
// ABOUTME: Supports packed and planar layouts, zero-copy cropping, and black fill

package raster

import (
	"fmt"
	goimage "image"
)

// Rect is a pixel rectangle, half-open on X1/Y1.
type Rect struct {
	X0, Y0, X1, Y1 int
}

// W returns the rectangle width.
func (r Rect) W() int { return r.X1 - r.X0 }

// H returns the rectangle height.
func (r Rect) H() int { return r.Y1 - r.Y0 }

// Image is a raw video frame. Packed formats use Pix with Stride bytes per
// row. FormatYUV420P additionally uses Cb/Cr planes with CStride.
type Image struct {
	Format  Format
	W, H    int
	Stride  int
	Pix     []byte
	Cb, Cr  []byte
	CStride int
}

// New allocates a tightly packed image of the given format and size.
func New(f Format, w, h int) (*Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", w, h)
	}
	im := &Image{Format: f, W: w, H: h}
	switch f {
	case FormatRGBA, FormatBGRA, FormatRGB24, FormatGray8:
		im.Stride = w * f.BytesPerPixel()
		im.Pix = make([]byte, im.Stride*h)
	case FormatYUV420P:
		im.Stride = w
		im.Pix = make([]byte, w*h)
		im.CStride = (w + 1) / 2
		csize := im.CStride * ((h + 1) / 2)
		im.Cb = make([]byte, csize)
		im.Cr = make([]byte, csize)
	default:
		return nil, fmt.Errorf("cannot allocate image with format %s", f)
	}
	return im, nil
}

// Bounds returns the full image rectangle.
func (im *Image) Bounds() Rect { return Rect{0, 0, im.W, im.H} }

// Crop returns a view of im restricted to r, sharing the pixel storage.
// The rectangle is clipped to the image bounds. For planar formats the
// origin must already satisfy the format's alignment.
func (im *Image) Crop(r Rect) *Image {
	if r.X0 < 0 {
		r.X0 = 0
	}
	if r.Y0 < 0 {
		r.Y0 = 0
	}
	if r.X1 > im.W {
		r.X1 = im.W
	}
	if r.Y1 > im.H {
		r.Y1 = im.H
	}
	out := &Image{
		Format:  im.Format,
		W:       r.W(),
		H:       r.H(),
		Stride:  im.Stride,
		CStride: im.CStride,
	}
	if im.Format == FormatYUV420P {
		out.Pix = im.Pix[r.Y0*im.Stride+r.X0:]
		co := (r.Y0/2)*im.CStride + r.X0/2
		out.Cb = im.Cb[co:]
		out.Cr = im.Cr[co:]
		return out
	}
	out.Pix = im.Pix[r.Y0*im.Stride+r.X0*im.Format.BytesPerPixel():]
	return out
}

// Clear fills the image with black. For RGBA/BGRA the alpha channel is
// set opaque; for YUV the chroma planes go to the neutral value.
func (im *Image) Clear() {
	switch im.Format {
	case FormatRGBA, FormatBGRA:
		for y := 0; y < im.H; y++ {
			row := im.Pix[y*im.Stride:]
			for x := 0; x < im.W; x++ {
				o := x * 4
				row[o], row[o+1], row[o+2], row[o+3] = 0, 0, 0, 0xff
			}
		}
	case FormatYUV420P:
		for y := 0; y < im.H; y++ {
			row := im.Pix[y*im.Stride : y*im.Stride+im.W]
			for i := range row {
				row[i] = 16
			}
		}
		for _, plane := range [][]byte{im.Cb, im.Cr} {
			for i := range plane {
				plane[i] = 128
			}
		}
	default:
		for y := 0; y < im.H; y++ {
			bpp := im.Format.BytesPerPixel()
			row := im.Pix[y*im.Stride : y*im.Stride+im.W*bpp]
			for i := range row {
				row[i] = 0
			}
		}
	}
}

// RGBA wraps an RGBA-format image as a stdlib *image.RGBA sharing storage.
func (im *Image) RGBA() (*goimage.RGBA, error) {
	if im.Format != FormatRGBA {
		return nil, fmt.Errorf("image format is %s, not rgba", im.Format)
	}
	return &goimage.RGBA{
		Pix:    im.Pix,
		Stride: im.Stride,
		Rect:   goimage.Rect(0, 0, im.W, im.H),
	}, nil
}

// FromBytes builds an image from a tightly packed byte buffer.
// The buffer must hold exactly Format.FrameBytes(w, h) bytes.
func FromBytes(f Format, w, h int, data []byte) (*Image, error) {
	want := f.FrameBytes(w, h)
	if want == 0 {
		return nil, fmt.Errorf("invalid frame geometry %s %dx%d", f, w, h)
	}
	if len(data) != want {
		return nil, fmt.Errorf("frame buffer is %d bytes, want %d", len(data), want)
	}
	im := &Image{Format: f, W: w, H: h}
	if f == FormatYUV420P {
		im.Stride = w
		im.CStride = (w + 1) / 2
		ysize := w * h
		csize := im.CStride * ((h + 1) / 2)
		im.Pix = data[:ysize]
		im.Cb = data[ysize : ysize+csize]
		im.Cr = data[ysize+csize:]
		return im, nil
	}
	im.Stride = w * f.BytesPerPixel()
	im.Pix = data
	return im, nil
}
