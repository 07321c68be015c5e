package mines

import (
	"math/rand/v2"
)

const LifeIterations = 10

// Tally counts cells after one automaton iteration.
type Tally struct {
	Alive, Dead int
}

type Liveness struct {
	SpawnParity bool
	Objective   int
	History     []Tally
}

// lifeStep is a double-buffered automaton over the grid's shape.
type lifeStep struct {
	g        *Grid
	cur, nxt []bool
}

func newLifeStep(g *Grid) *lifeStep {
	return &lifeStep{
		g:   g,
		cur: make([]bool, g.Area()),
		nxt: make([]bool, g.Area()),
	}
}

func (l *lifeStep) seed(r *rand.Rand, count int) {
	w, h := l.g.Width, l.g.Height
	for count > 0 {
		i := r.IntN(h)*w + r.IntN(w)
		if !l.cur[i] {
			l.cur[i] = true
			count--
		}
	}
}

func (l *lifeStep) step() (t Tally) {
	w := l.g.Width
	for y := range l.g.Height {
		for x := range w {
			alive := 0
			for _, p := range l.g.Neighbors(y, x) {
				if l.cur[p.Y*w+p.X] {
					alive++
				}
			}
			// alive cells die outside [3,4], dead cells are born inside it
			i := y*w + x
			l.nxt[i] = 3 <= alive && alive <= 4
			if l.nxt[i] {
				t.Alive++
			} else {
				t.Dead++
			}
		}
	}
	l.cur, l.nxt = l.nxt, l.cur
	return
}

// simulateLiveness seeds area/2 alive cells, runs [LifeIterations]
// generations and records the final state on every cell.
func simulateLiveness(g *Grid, r *rand.Rand) (Liveness, error) {
	if g.Degenerate() {
		return Liveness{}, ErrDegenerateGrid
	}

	l := newLifeStep(g)
	l.seed(r, g.Area()/2)

	history := make([]Tally, 0, LifeIterations)
	for range LifeIterations {
		history = append(history, l.step())
	}

	for i := range g.cells {
		g.cells[i].alive = l.cur[i]
	}

	last := history[len(history)-1]
	liveness := Liveness{
		SpawnParity: last.Alive >= last.Dead,
		Objective:   g.Area() / 5,
		History:     history,
	}

	Log.WithField("alive", last.Alive).
		WithField("dead", last.Dead).
		WithField("objective", liveness.Objective).
		Debug("liveness pass done")

	return liveness, nil
}
