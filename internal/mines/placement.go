package mines

import (
	"fmt"
	"math/rand/v2"
)

const (
	// A biased cell gets a mine when a uniform draw exceeds this.
	BiasThreshold = 0.6
	// Misses allowed in the random pass; each success earns one back.
	InitialPatience = 10
)

type placement struct {
	g      *Grid
	anchor Point
	r      *rand.Rand
	placed []Point
}

func (p *placement) excluded(y, x int) bool {
	return absDiff(y, p.anchor.Y) <= 1 && absDiff(x, p.anchor.X) <= 1
}

func (p *placement) eligible(y, x int) bool {
	return p.g.InBounds(y, x) &&
		p.g.At(y, x).Content == Empty &&
		!p.excluded(y, x)
}

func (p *placement) place(y, x int) {
	p.g.At(y, x).Content = Mine
	p.placed = append(p.placed, Point{y, x})
}

// adopt takes over mines already on the grid, dropping those inside the
// anchor's exclusion.
func (p *placement) adopt() {
	for y := range p.g.Height {
		for x := range p.g.Width {
			c := p.g.At(y, x)
			if c.Content != Mine {
				continue
			}
			if p.excluded(y, x) {
				c.Content = Empty
				continue
			}
			p.placed = append(p.placed, Point{y, x})
		}
	}
}

func (p *placement) biased(remaining int, parity bool) int {
	for y := range p.g.Height {
		for x := range p.g.Width {
			if remaining <= 0 {
				return remaining
			}
			if !p.eligible(y, x) || p.g.At(y, x).alive != parity {
				continue
			}
			if p.r.Float64() > BiasThreshold {
				p.place(y, x)
				remaining--
			}
		}
	}
	return remaining
}

func (p *placement) fallback(remaining int) int {
	patience := InitialPatience
	for remaining > 0 && patience > 0 {
		y, x := p.r.IntN(p.g.Height), p.r.IntN(p.g.Width)
		if p.eligible(y, x) {
			p.place(y, x)
			remaining--
			patience++
		} else {
			patience--
		}
	}
	return remaining
}

// sweep draws the rest from the list of every eligible cell.
func (p *placement) sweep(remaining int) (int, error) {
	if remaining <= 0 {
		return remaining, nil
	}

	candidates := make([]Point, 0, p.g.Area())
	for y := range p.g.Height {
		for x := range p.g.Width {
			if p.eligible(y, x) {
				candidates = append(candidates, Point{y, x})
			}
		}
	}
	if len(candidates) < remaining {
		return remaining, AssertionError{fmt.Sprintf(
			"%d mines left to place but only %d cells available",
			remaining, len(candidates),
		)}
	}

	k := len(candidates)
	for remaining > 0 {
		i := p.r.IntN(k)
		p.place(candidates[i].Y, candidates[i].X)
		k--
		candidates[i] = candidates[k]
		remaining--
	}
	return remaining, nil
}

// correct removes excess mines chosen at random and renumbers around them.
func (p *placement) correct(excess int) {
	for excess > 0 && len(p.placed) > 0 {
		i := p.r.IntN(len(p.placed))
		pt := p.placed[i]
		last := len(p.placed) - 1
		p.placed[i] = p.placed[last]
		p.placed = p.placed[:last]

		p.renumber(pt.Y, pt.X)
		for _, n := range p.g.Neighbors(pt.Y, pt.X) {
			if p.g.At(n.Y, n.X).Content != Mine {
				p.renumber(n.Y, n.X)
			}
		}
		excess--
	}
}

func (p *placement) renumber(y, x int) {
	p.g.At(y, x).Content = Content(p.g.CountMineNeighbors(y, x))
}

func (p *placement) finalize() {
	for y := range p.g.Height {
		for x := range p.g.Width {
			if p.g.At(y, x).Content != Mine {
				p.renumber(y, x)
			}
		}
	}
}

// placeMines fills the grid with exactly objective mines, none of them
// within one cell of anchor, then assigns adjacency numbers. Liveness state
// is cleared afterwards.
func placeMines(
	g *Grid, anchor Point, objective int, parity bool, r *rand.Rand,
) error {
	if g.Degenerate() {
		return ErrDegenerateGrid
	}

	p := &placement{g: g, anchor: anchor, r: r}
	p.adopt()

	remaining := objective - len(p.placed)
	remaining = p.biased(remaining, parity)
	biased := len(p.placed)
	remaining = p.fallback(remaining)
	remaining, err := p.sweep(remaining)
	if err != nil {
		return err
	}
	if remaining < 0 {
		p.correct(-remaining)
	}
	p.finalize()

	for i := range g.cells {
		g.cells[i].alive = false
	}

	if n := g.Mines(); n != objective {
		return AssertionError{fmt.Sprintf("placed %d mines, want %d", n, objective)}
	}

	Log.WithField("anchor", anchor.String()).
		WithField("biased", biased).
		WithField("objective", objective).
		Debug("mines placed")

	return nil
}
