// ABOUTME: Defines the Terminal interface for size queries and control-stream output.
// ABOUTME: Abstracts the terminal so the video output can target a real TTY or a test double.

package term

// Size holds the terminal dimensions in character cells and pixels.
// Pixel dimensions are zero when the terminal does not report them.
type Size struct {
	Rows, Cols       int
	XPixel, YPixel   int
}

// Terminal abstracts the output terminal: cell/pixel size queries and
// writes to the control stream.
type Terminal interface {
	Size() (Size, error)
	Write(p []byte) (n int, err error)
	Flush() error
}
