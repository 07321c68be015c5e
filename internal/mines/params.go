package mines

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultMinSize = 4
	DefaultMaxSize = 24
	DefaultSize    = 12
)

type GameParams struct {
	Height int `json:"height"`
	Width  int `json:"width"`
}

func (p GameParams) Area() int { return p.Height * p.Width }

// MineCount is the objective the liveness pass settles on for this size.
func (p GameParams) MineCount() int { return p.Area() / 5 }

// Size is the "<width>x<height>" text understood by [ParseSize].
func (p GameParams) Size() string {
	return fmt.Sprintf("%dx%d", p.Width, p.Height)
}

func (p GameParams) Seed() string {
	return fmt.Sprintf("%d:%d", p.Height, p.Width)
}

func ParseSeed(seed string) (*GameParams, error) {
	p := &GameParams{}
	n, err := fmt.Sscanf(
		strings.ReplaceAll(seed, ":", " "), "%d %d", &p.Height, &p.Width,
	)
	if n != 2 || err != nil {
		return nil, fmt.Errorf(
			`invalid game params seed (seed = "%s", n = %d, err = %w)`,
			seed, n, err,
		)
	}
	return p, nil
}

// ParseSize reads "<width>x<height>".
func ParseSize(s string) (GameParams, error) {
	ws, hs, found := strings.Cut(strings.TrimSpace(s), "x")
	if !found {
		return GameParams{}, &InvalidSizeError{Reason: Malformed, Text: s}
	}
	width, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil {
		return GameParams{}, &InvalidSizeError{Reason: Malformed, Text: s}
	}
	height, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil {
		return GameParams{}, &InvalidSizeError{Reason: Malformed, Text: s}
	}
	return GameParams{Height: height, Width: width}, nil
}

type Bounds struct {
	MinHeight int `mapstructure:"min_height" json:"min_height"`
	MaxHeight int `mapstructure:"max_height" json:"max_height"`
	MinWidth  int `mapstructure:"min_width" json:"min_width"`
	MaxWidth  int `mapstructure:"max_width" json:"max_width"`
}

func DefaultBounds() Bounds {
	return SquareBounds(DefaultMinSize, DefaultMaxSize)
}

// SquareBounds uses one [min, max] pair for both dimensions.
func SquareBounds(min, max int) Bounds {
	return Bounds{MinHeight: min, MaxHeight: max, MinWidth: min, MaxWidth: max}
}

func (b Bounds) Check() error {
	if b.MinHeight < 0 || b.MinWidth < 0 {
		return fmt.Errorf("bounds must not be negative: %+v", b)
	}
	if b.MinHeight > b.MaxHeight || b.MinWidth > b.MaxWidth {
		return fmt.Errorf("bounds min exceeds max: %+v", b)
	}
	return nil
}

func (b Bounds) Validate(p GameParams) error {
	if p.Height < b.MinHeight || p.Height > b.MaxHeight ||
		p.Width < b.MinWidth || p.Width > b.MaxWidth {
		return &InvalidSizeError{
			Height: p.Height, Width: p.Width, Reason: OutOfBounds, Bounds: b,
		}
	}
	if !p.fits() {
		return &InvalidSizeError{
			Height: p.Height, Width: p.Width, Reason: Crowded, Bounds: b,
		}
	}
	return nil
}

// fits reports whether every anchor leaves room for the whole objective
// outside its 3x3 exclusion.
func (p GameParams) fits() bool {
	excluded := min(3, p.Height) * min(3, p.Width)
	return p.Area()-excluded >= p.MineCount()
}
