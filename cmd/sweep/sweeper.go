package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/vancomm/lifesweeper/internal/mines"
)

// sweeper is the terminal game: one session plus a cursor.
type sweeper struct {
	params mines.GameParams
	bounds mines.Bounds
	rnd    *rand.Rand
	state  *mines.GameState
	cursor mines.Point
}

func newSweeper(params mines.GameParams, bounds mines.Bounds, r *rand.Rand) (*sweeper, error) {
	s := &sweeper{params: params, bounds: bounds, rnd: r}
	if err := s.restart(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *sweeper) restart() error {
	state, err := mines.NewGame(s.params, s.bounds, s.rnd)
	if err != nil {
		return err
	}
	s.state = state
	s.cursor = mines.Point{Y: s.params.Height / 2, X: s.params.Width / 2}
	return nil
}

func (s *sweeper) move(dy, dx int) {
	s.cursor.Y = min(max(s.cursor.Y+dy, 0), s.params.Height-1)
	s.cursor.X = min(max(s.cursor.X+dx, 0), s.params.Width-1)
}

func (s *sweeper) open() mines.RevealResult {
	return s.state.Reveal(s.cursor.Y, s.cursor.X)
}

func (s *sweeper) flag() mines.FlagResult {
	return s.state.ToggleFlag(s.cursor.Y, s.cursor.X)
}

func (s *sweeper) chord() mines.RevealResult {
	return s.state.Chord(s.cursor.Y, s.cursor.X)
}

func (s *sweeper) statusLine() string {
	switch s.state.Status {
	case mines.Won:
		return "you won! n: new game, q: quit"
	case mines.Lost:
		return "boom. n: new game, q: quit"
	default:
		return fmt.Sprintf(
			"%s  flags left: %d  space: open, f: flag, c: chord, r: give up",
			s.params.Size(), s.state.FlagsRemaining(),
		)
	}
}
