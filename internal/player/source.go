// ABOUTME: Frame sources for playback: raw packed streams and a test pattern
// ABOUTME: A Source yields decoded rasters one frame at a time until io.EOF

package player

import (
	"fmt"
	"io"

	"github.com/AgustinCB/mpv/pkg/raster"
	"github.com/AgustinCB/mpv/pkg/vo"
)

// Source produces decoded video frames. Next returns io.EOF at the end
// of the stream; any other error is fatal to playback.
type Source interface {
	Params() vo.Params
	Next() (*raster.Image, error)
}

// RawSource reads tightly packed frames from a byte stream, the layout
// ffmpeg's rawvideo muxer produces.
type RawSource struct {
	r      io.Reader
	params vo.Params
	size   int
}

// NewRawSource returns a Source decoding w x h frames of format f from r.
func NewRawSource(r io.Reader, f raster.Format, w, h int) (*RawSource, error) {
	size := f.FrameBytes(w, h)
	if size == 0 {
		return nil, fmt.Errorf("invalid raw stream geometry %dx%d %s", w, h, f)
	}
	return &RawSource{
		r:      r,
		params: vo.Params{Format: f, W: w, H: h},
		size:   size,
	}, nil
}

func (s *RawSource) Params() vo.Params { return s.params }

// Next reads one frame. A clean end at a frame boundary is io.EOF; a
// truncated frame is an error.
func (s *RawSource) Next() (*raster.Image, error) {
	buf := make([]byte, s.size)
	if _, err := io.ReadFull(s.r, buf); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("reading raw frame: %w", err)
	}
	return raster.FromBytes(s.params.Format, s.params.W, s.params.H, buf)
}

// PatternSource generates an animated color-bar pattern, used to
// exercise the output path without a real stream.
type PatternSource struct {
	params vo.Params
	frames int
	n      int
}

// NewPatternSource returns a pattern generator producing count RGBA
// frames at w x h. count <= 0 means unbounded.
func NewPatternSource(w, h, count int) *PatternSource {
	return &PatternSource{
		params: vo.Params{Format: raster.FormatRGBA, W: w, H: h},
		frames: count,
	}
}

func (s *PatternSource) Params() vo.Params { return s.params }

var barColors = [7][3]byte{
	{0xbf, 0xbf, 0xbf}, // gray
	{0xbf, 0xbf, 0x00}, // yellow
	{0x00, 0xbf, 0xbf}, // cyan
	{0x00, 0xbf, 0x00}, // green
	{0xbf, 0x00, 0xbf}, // magenta
	{0xbf, 0x00, 0x00}, // red
	{0x00, 0x00, 0xbf}, // blue
}

// Next renders the bars with a horizontal offset advancing per frame so
// consecutive frames differ.
func (s *PatternSource) Next() (*raster.Image, error) {
	if s.frames > 0 && s.n >= s.frames {
		return nil, io.EOF
	}

	img, err := raster.New(raster.FormatRGBA, s.params.W, s.params.H)
	if err != nil {
		return nil, err
	}
	barW := s.params.W/len(barColors) + 1
	shift := s.n * 4
	for y := 0; y < img.H; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < img.W; x++ {
			c := barColors[((x+shift)/barW)%len(barColors)]
			row[x*4+0] = c[0]
			row[x*4+1] = c[1]
			row[x*4+2] = c[2]
			row[x*4+3] = 0xff
		}
	}
	s.n++
	return img, nil
}
