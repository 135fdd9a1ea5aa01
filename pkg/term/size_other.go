// ABOUTME: Fallback size query for platforms without TIOCGWINSZ.
// ABOUTME: Reports cell dimensions via x/term; pixel dimensions stay zero.

//go:build !unix

package term

import (
	"fmt"

	"golang.org/x/term"
)

func querySize(fd int) (Size, error) {
	cols, rows, err := term.GetSize(fd)
	if err != nil {
		return Size{}, fmt.Errorf("querying terminal size: %w", err)
	}
	return Size{Rows: rows, Cols: cols}, nil
}
