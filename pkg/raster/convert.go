// ABOUTME: Pixel format conversion into RGBA rasters
// ABOUTME: Integer-math BT.601 YCbCr conversion, channel swizzles, gray expansion

package raster

import "fmt"

// CanConvert reports whether src frames in format f can be converted to RGBA.
func CanConvert(f Format) bool {
	switch f {
	case FormatRGBA, FormatBGRA, FormatRGB24, FormatGray8, FormatYUV420P:
		return true
	default:
		return false
	}
}

// convertRGBA writes src converted to RGBA into dst, which must hold
// src.H rows of dstStride bytes with at least src.W*4 bytes per row.
func convertRGBA(dst []byte, dstStride int, src *Image) error {
	switch src.Format {
	case FormatRGBA:
		for y := 0; y < src.H; y++ {
			copy(dst[y*dstStride:y*dstStride+src.W*4], src.Pix[y*src.Stride:])
		}
	case FormatBGRA:
		for y := 0; y < src.H; y++ {
			in := src.Pix[y*src.Stride:]
			out := dst[y*dstStride:]
			for x := 0; x < src.W; x++ {
				i, o := x*4, x*4
				out[o] = in[i+2]
				out[o+1] = in[i+1]
				out[o+2] = in[i]
				out[o+3] = in[i+3]
			}
		}
	case FormatRGB24:
		for y := 0; y < src.H; y++ {
			in := src.Pix[y*src.Stride:]
			out := dst[y*dstStride:]
			for x := 0; x < src.W; x++ {
				i, o := x*3, x*4
				out[o] = in[i]
				out[o+1] = in[i+1]
				out[o+2] = in[i+2]
				out[o+3] = 0xff
			}
		}
	case FormatGray8:
		for y := 0; y < src.H; y++ {
			in := src.Pix[y*src.Stride:]
			out := dst[y*dstStride:]
			for x := 0; x < src.W; x++ {
				v := in[x]
				o := x * 4
				out[o], out[o+1], out[o+2], out[o+3] = v, v, v, 0xff
			}
		}
	case FormatYUV420P:
		convertYUV420P(dst, dstStride, src)
	default:
		return fmt.Errorf("unsupported source format %s", src.Format)
	}
	return nil
}

// convertYUV420P expands limited-range BT.601 planar YCbCr 4:2:0 to RGBA.
func convertYUV420P(dst []byte, dstStride int, src *Image) {
	for y := 0; y < src.H; y++ {
		yrow := src.Pix[y*src.Stride:]
		crow := y / 2 * src.CStride
		out := dst[y*dstStride:]
		for x := 0; x < src.W; x++ {
			c := int(yrow[x]) - 16
			d := int(src.Cb[crow+x/2]) - 128
			e := int(src.Cr[crow+x/2]) - 128

			r := (298*c + 409*e + 128) >> 8
			g := (298*c - 100*d - 208*e + 128) >> 8
			b := (298*c + 516*d + 128) >> 8

			o := x * 4
			out[o] = clamp8(r)
			out[o+1] = clamp8(g)
			out[o+2] = clamp8(b)
			out[o+3] = 0xff
		}
	}
}

func clamp8(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
