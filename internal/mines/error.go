package mines

import (
	"errors"
	"fmt"
)

var ErrDegenerateGrid = errors.New("grid has zero area")

type SizeErrorReason int

const (
	Malformed SizeErrorReason = iota + 1
	OutOfBounds
	Crowded
)

func (r SizeErrorReason) String() string {
	switch r {
	case Malformed:
		return "malformed"
	case OutOfBounds:
		return "out of bounds"
	case Crowded:
		return "crowded"
	default:
		return "unknown"
	}
}

type InvalidSizeError struct {
	Height, Width int
	Text          string
	Reason        SizeErrorReason
	Bounds        Bounds
}

// [InvalidSizeError] implements [error]
func (e *InvalidSizeError) Error() string {
	switch e.Reason {
	case Malformed:
		return fmt.Sprintf("invalid board size %q", e.Text)
	case OutOfBounds:
		b := e.Bounds
		if b.MinHeight == b.MinWidth && b.MaxHeight == b.MaxWidth {
			return fmt.Sprintf(
				"board length must be between %d and %d", b.MinHeight, b.MaxHeight,
			)
		}
		return fmt.Sprintf(
			"board height must be between %d and %d, width between %d and %d",
			b.MinHeight, b.MaxHeight, b.MinWidth, b.MaxWidth,
		)
	case Crowded:
		return fmt.Sprintf("board %dx%d is too small to place mines", e.Width, e.Height)
	default:
		return "invalid board size"
	}
}

type AssertionError struct {
	message string
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return e.message
}
