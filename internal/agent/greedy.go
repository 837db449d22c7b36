package agent

import (
	"math"

	"github.com/vovakirdan/fruitdrop/internal/env"
)

// greedyBins splits the container into columns when looking for the
// lowest landing spot.
const greedyBins = 8

// maxChase bounds how long the greedy policy chases a target it cannot
// reach before dropping anyway.
const maxChase = 120

// Greedy aims the next fruit at the highest fruit of the same type, or at
// the lowest column when there is none.
type Greedy struct {
	dropper
	chase int
}

// NewGreedy creates a greedy policy.
func NewGreedy(cooldown int) *Greedy {
	return &Greedy{dropper: dropper{cooldown: cooldown}}
}

func (p *Greedy) ID() string { return "greedy" }

func (p *Greedy) Description() string {
	return "Aims at matching fruit, otherwise at the lowest column"
}

func (p *Greedy) Reset(int64) {
	p.reset()
	p.chase = 0
}

func (p *Greedy) Act(obs env.Observation) env.Action {
	target := Target(obs)
	a := env.Action{Move: steer(obs.CursorX, target)}

	if !p.ready() {
		return a
	}
	p.chase++
	if math.Abs(target-obs.CursorX) < cursorStep || p.chase > maxChase {
		p.chase = 0
		a.Drop = p.fire()
	}
	return a
}

// Target returns the normalized x the greedy policy steers to.
func Target(obs env.Observation) float64 {
	best := -1
	for i, f := range obs.Fruits {
		if f.Type != obs.Next {
			continue
		}
		if best < 0 || f.Y < obs.Fruits[best].Y {
			best = i
		}
	}
	if best >= 0 {
		return obs.Fruits[best].X
	}
	return lowestColumn(obs)
}

// lowestColumn returns the center of the column whose highest fruit edge
// is furthest down. Empty columns count as the floor.
func lowestColumn(obs env.Observation) float64 {
	var surface [greedyBins]float64
	for i := range surface {
		surface[i] = math.Inf(1)
	}
	for _, f := range obs.Fruits {
		bin := int(f.X * greedyBins)
		if bin < 0 || bin >= greedyBins {
			continue
		}
		// R is relative to width; the y scale differs, which is fine for
		// ranking columns.
		if top := f.Y - f.R; top < surface[bin] {
			surface[bin] = top
		}
	}

	// Prefer inner columns on ties so fruits do not hug the walls.
	order := []int{3, 4, 2, 5, 1, 6, 0, 7}
	bestBin := order[0]
	for _, b := range order[1:] {
		if surface[b] > surface[bestBin] {
			bestBin = b
		}
	}
	return (float64(bestBin) + 0.5) / greedyBins
}
