package mines

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

type Status int8

const (
	Playing Status = iota
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for _, status := range []Status{Playing, Won, Lost} {
		if status.String() == string(text) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

func (s Status) Terminal() bool { return s == Won || s == Lost }

// GameState is one game. It owns its grid; callers read it through
// [GameState.CellView] and [GameState.Snapshot] and change it only through
// the move methods.
type GameState struct {
	GameParams
	Objective   int
	Revealed    int
	SpawnParity bool
	MinesPlaced bool
	Status      Status
	Liveness    Liveness

	grid *Grid
	rnd  *rand.Rand
}

type RevealResult struct {
	Status  Status  `json:"status"`
	Changed []Point `json:"changed"`
}

type FlagResult struct {
	OK             bool `json:"ok"`
	FlagsRemaining int  `json:"flags_remaining"`
}

// NewGame validates the size, allocates the grid and runs the liveness pass.
// Mines are placed by the first reveal.
func NewGame(params GameParams, bounds Bounds, r *rand.Rand) (*GameState, error) {
	if err := bounds.Validate(params); err != nil {
		return nil, err
	}

	grid := NewGrid(params.Height, params.Width)
	liveness, err := simulateLiveness(grid, r)
	if err != nil && !errors.Is(err, ErrDegenerateGrid) {
		return nil, err
	}

	state := &GameState{
		GameParams:  params,
		Objective:   liveness.Objective,
		SpawnParity: liveness.SpawnParity,
		Liveness:    liveness,
		grid:        grid,
		rnd:         r,
	}
	return state, nil
}

func (s *GameState) FlagsRemaining() int {
	return s.Objective - s.grid.Flags()
}

func (s *GameState) InBounds(y, x int) bool {
	return s.grid.InBounds(y, x)
}

// Reveal opens y:x and floods through empty cells. It places the mines first
// if this is the opening move. Changed lists newly revealed cells in the
// order they were opened.
func (s *GameState) Reveal(y, x int) RevealResult {
	if s.Status.Terminal() || !s.grid.InBounds(y, x) {
		return RevealResult{Status: s.Status}
	}
	c := s.grid.At(y, x)
	if c.Revealed || c.Flagged {
		return RevealResult{Status: s.Status}
	}

	if !s.MinesPlaced {
		err := placeMines(s.grid, Point{y, x}, s.Objective, s.SpawnParity, s.rnd)
		if err != nil && !errors.Is(err, ErrDegenerateGrid) {
			// sizes are validated by NewGame, so this is a broken invariant
			panic(err)
		}
		s.MinesPlaced = true
	}

	changed := s.flood(nil, Point{y, x})
	return RevealResult{Status: s.Status, Changed: changed}
}

func (s *GameState) flood(changed []Point, seeds ...Point) []Point {
	w := s.grid.Width
	todo := newCelltodo(s.grid.Area())
	for _, p := range seeds {
		todo.add(p.Y*w + p.X)
	}

	target := s.grid.Area() - s.Objective
	for !todo.empty() {
		i := todo.pop()
		y, x := i/w, i%w
		c := s.grid.At(y, x)
		if c.Revealed || c.Flagged {
			continue
		}

		c.Revealed = true
		changed = append(changed, Point{y, x})
		if c.Content == Mine {
			s.Status = Lost
			return changed
		}

		s.Revealed++
		if s.Revealed == target {
			s.Status = Won
			return changed
		}

		if c.Content == Empty {
			for _, n := range s.grid.Neighbors(y, x) {
				nc := s.grid.At(n.Y, n.X)
				if !nc.Revealed && !nc.Flagged {
					todo.add(n.Y*w + n.X)
				}
			}
		}
	}
	return changed
}

// ToggleFlag flags or unflags a hidden cell. Flagging past zero remaining
// flags is refused; unflagging always succeeds.
func (s *GameState) ToggleFlag(y, x int) FlagResult {
	if s.Status.Terminal() || !s.grid.InBounds(y, x) {
		return FlagResult{OK: false, FlagsRemaining: s.FlagsRemaining()}
	}
	c := s.grid.At(y, x)
	if c.Revealed {
		return FlagResult{OK: false, FlagsRemaining: s.FlagsRemaining()}
	}
	if !c.Flagged && s.FlagsRemaining() <= 0 {
		return FlagResult{OK: false, FlagsRemaining: 0}
	}
	c.Flagged = !c.Flagged
	return FlagResult{OK: true, FlagsRemaining: s.FlagsRemaining()}
}

// Chord opens every hidden neighbour of a revealed number once as many
// neighbours are flagged as the number says.
func (s *GameState) Chord(y, x int) RevealResult {
	if s.Status.Terminal() || !s.grid.InBounds(y, x) {
		return RevealResult{Status: s.Status}
	}
	c := s.grid.At(y, x)
	if !c.Revealed || c.Content.Number() == 0 {
		return RevealResult{Status: s.Status}
	}

	var flagged int
	var seeds []Point
	for _, n := range s.grid.Neighbors(y, x) {
		nc := s.grid.At(n.Y, n.X)
		if nc.Flagged {
			flagged++
		} else if !nc.Revealed {
			seeds = append(seeds, n)
		}
	}
	if flagged != c.Content.Number() || len(seeds) == 0 {
		return RevealResult{Status: s.Status}
	}

	changed := s.flood(nil, seeds...)
	return RevealResult{Status: s.Status, Changed: changed}
}

func (s *GameState) Forfeit() {
	if !s.Status.Terminal() {
		s.Status = Lost
	}
}
