package mines

import (
	"fmt"
	"strconv"
	"strings"
)

// Content is what a cell holds once mines are placed. Values 1 to 8 are
// adjacency numbers.
type Content int8

const (
	Empty Content = 0
	Mine  Content = -1
)

func (c Content) IsMine() bool { return c == Mine }

// Number returns the adjacency number of a non-mine cell, 0 for empty.
func (c Content) Number() int {
	if c < 0 {
		return 0
	}
	return int(c)
}

func (c Content) String() string {
	switch {
	case c == Mine:
		return "*"
	case c == Empty:
		return "."
	case 1 <= c && c <= 8:
		return strconv.Itoa(int(c))
	default:
		return "!"
	}
}

type Cell struct {
	Content  Content
	Revealed bool
	Flagged  bool

	alive bool // liveness pass only
}

type Point struct {
	Y int `json:"y"`
	X int `json:"x"`
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Y, p.X)
}

// Grid is a height x width matrix of cells stored row-major.
type Grid struct {
	Height, Width int
	cells         []Cell
}

func NewGrid(height, width int) *Grid {
	if height < 0 {
		height = 0
	}
	if width < 0 {
		width = 0
	}
	return &Grid{
		Height: height,
		Width:  width,
		cells:  make([]Cell, height*width),
	}
}

func (g *Grid) Area() int { return g.Height * g.Width }

func (g *Grid) Degenerate() bool { return g.Area() == 0 }

func (g *Grid) InBounds(y, x int) bool {
	return 0 <= y && y < g.Height && 0 <= x && x < g.Width
}

// At returns the cell at y:x. The caller checks bounds.
func (g *Grid) At(y, x int) *Cell {
	return &g.cells[y*g.Width+x]
}

// Neighbors returns the in-bounds cells at Chebyshev distance 1 from y:x,
// ordered by row then column.
func (g *Grid) Neighbors(y, x int) []Point {
	points := make([]Point, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dy == 0 && dx == 0 {
				continue
			}
			if g.InBounds(y+dy, x+dx) {
				points = append(points, Point{y + dy, x + dx})
			}
		}
	}
	return points
}

func (g *Grid) CountMineNeighbors(y, x int) (n int) {
	for _, p := range g.Neighbors(y, x) {
		if g.At(p.Y, p.X).Content == Mine {
			n++
		}
	}
	return
}

func (g *Grid) Mines() (n int) {
	for i := range g.cells {
		if g.cells[i].Content == Mine {
			n++
		}
	}
	return
}

func (g *Grid) Flags() (n int) {
	for i := range g.cells {
		if g.cells[i].Flagged {
			n++
		}
	}
	return
}

// String prints the real layout, mines included. Debug only.
func (g *Grid) String() string {
	var b strings.Builder
	for y := range g.Height {
		for x := range g.Width {
			fmt.Fprint(&b, g.At(y, x).Content.String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}
