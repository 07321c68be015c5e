package mines

import (
	"fmt"
	"strconv"
	"strings"
)

// Display is what a presentation layer draws for one cell.
type Display string

// Revealed numbered cells display as "1" to "8". Once the game is lost
// hidden mines show as "mine", the one that went off as "exploded" and flags
// on safe cells as "wrong-flag". Once it is won hidden mines show as "flag".
const (
	Hidden    Display = "hidden"
	Flag      Display = "flag"
	Blank     Display = "empty"
	MineShown Display = "mine"
	Exploded  Display = "exploded"
	WrongFlag Display = "wrong-flag"
)

func numberDisplay(n int) Display {
	return Display(strconv.Itoa(n))
}

// Number returns the adjacency number shown, or 0.
func (d Display) Number() int {
	n, err := strconv.Atoi(string(d))
	if err != nil {
		return 0
	}
	return n
}

func (d Display) Rune() rune {
	switch d {
	case Hidden:
		return '#'
	case Flag:
		return 'F'
	case Blank:
		return '.'
	case MineShown:
		return '*'
	case Exploded:
		return 'X'
	case WrongFlag:
		return '!'
	default:
		if n := d.Number(); n > 0 {
			return rune('0' + n)
		}
		return '?'
	}
}

type CellView struct {
	Revealed bool    `json:"revealed"`
	Flagged  bool    `json:"flagged"`
	Display  Display `json:"display"`
}

func (s *GameState) CellView(y, x int) CellView {
	c := s.grid.At(y, x)
	return CellView{
		Revealed: c.Revealed,
		Flagged:  c.Flagged,
		Display:  s.display(c),
	}
}

func (s *GameState) display(c *Cell) Display {
	mine := c.Content == Mine
	switch {
	case c.Revealed && mine:
		return Exploded
	case c.Revealed && c.Content == Empty:
		return Blank
	case c.Revealed:
		return numberDisplay(c.Content.Number())
	case s.Status == Lost && c.Flagged && !mine:
		return WrongFlag
	case c.Flagged:
		return Flag
	case s.Status == Lost && mine:
		return MineShown
	case s.Status == Won && mine:
		return Flag
	default:
		return Hidden
	}
}

// GridInfo is a row-major list of displays.
type GridInfo []Display

func (s *GameState) Snapshot() GridInfo {
	info := make(GridInfo, 0, s.grid.Area())
	for i := range s.grid.cells {
		info = append(info, s.display(&s.grid.cells[i]))
	}
	return info
}

func (g GridInfo) ToString(width int) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			fmt.Fprint(&b, string(g[y*width+x].Rune())+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}
