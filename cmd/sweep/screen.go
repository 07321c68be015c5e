package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/vancomm/lifesweeper/internal/mines"
)

var numberColors = []tcell.Color{
	tcell.ColorDefault,
	tcell.ColorBlue,
	tcell.ColorGreen,
	tcell.ColorRed,
	tcell.ColorNavy,
	tcell.ColorMaroon,
	tcell.ColorTeal,
	tcell.ColorPurple,
	tcell.ColorGray,
}

func cellStyle(d mines.Display) tcell.Style {
	style := tcell.StyleDefault
	switch d {
	case mines.Hidden:
		return style.Foreground(tcell.ColorGray)
	case mines.Flag:
		return style.Foreground(tcell.ColorYellow).Bold(true)
	case mines.Exploded:
		return style.Foreground(tcell.ColorWhite).Background(tcell.ColorRed).Bold(true)
	case mines.MineShown, mines.WrongFlag:
		return style.Foreground(tcell.ColorRed).Bold(true)
	}
	if n := d.Number(); n > 0 {
		return style.Foreground(numberColors[n])
	}
	return style
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

func draw(screen tcell.Screen, s *sweeper) {
	screen.Clear()
	for y := range s.params.Height {
		for x := range s.params.Width {
			d := s.state.CellView(y, x).Display
			style := cellStyle(d)
			if s.cursor == (mines.Point{Y: y, X: x}) {
				style = style.Reverse(true)
			}
			screen.SetContent(x*2, y, d.Rune(), nil, style)
		}
	}
	drawText(screen, 0, s.params.Height+1, s.statusLine(), tcell.StyleDefault)
	screen.Show()
}

// handleKey applies one key press and reports whether the client should keep
// running.
func handleKey(s *sweeper, ev *tcell.EventKey) (bool, error) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false, nil
	case tcell.KeyUp:
		s.move(-1, 0)
	case tcell.KeyDown:
		s.move(1, 0)
	case tcell.KeyLeft:
		s.move(0, -1)
	case tcell.KeyRight:
		s.move(0, 1)
	case tcell.KeyEnter:
		s.open()
	case tcell.KeyRune:
		return handleRune(s, ev.Rune())
	}
	return true, nil
}

func handleRune(s *sweeper, r rune) (bool, error) {
	switch r {
	case 'q':
		return false, nil
	case 'k':
		s.move(-1, 0)
	case 'j':
		s.move(1, 0)
	case 'h':
		s.move(0, -1)
	case 'l':
		s.move(0, 1)
	case ' ':
		s.open()
	case 'f':
		s.flag()
	case 'c':
		s.chord()
	case 'r':
		s.state.Forfeit()
	case 'n':
		if err := s.restart(); err != nil {
			return false, err
		}
	}
	return true, nil
}
