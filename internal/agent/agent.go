// Package agent contains the built-in scripted policies. Importing it
// registers them with the policy registry.
package agent

import (
	"github.com/vovakirdan/fruitdrop/internal/core"
	"github.com/vovakirdan/fruitdrop/internal/env"
	"github.com/vovakirdan/fruitdrop/internal/registry"
)

// DefaultCooldown is the number of steps policies wait between drops so
// the previous fruit has time to fall clear of the spawn point.
const DefaultCooldown = 24

// cursorStep is the normalized cursor travel for a full move in one step
// under the default configuration.
const cursorStep = 360.0 / 60.0 / 400.0

func init() {
	registry.Register("idle", func() registry.Policy { return NewIdle(DefaultCooldown) })
	registry.Register("random", func() registry.Policy { return NewRandom(DefaultCooldown) })
	registry.Register("greedy", func() registry.Policy { return NewGreedy(DefaultCooldown) })
}

// steer returns the move that brings the cursor toward target without
// overshooting.
func steer(cursor, target float64) float64 {
	return core.ClampF((target-cursor)/cursorStep, -1, 1)
}

// dropper tracks the cooldown shared by all policies.
type dropper struct {
	cooldown int
	wait     int
}

func (d *dropper) reset() {
	d.wait = 0
}

// ready advances the cooldown and reports whether a drop is allowed.
func (d *dropper) ready() bool {
	if d.wait > 0 {
		d.wait--
		return false
	}
	return true
}

func (d *dropper) fire() int {
	d.wait = d.cooldown
	return 1
}

// Idle never moves and drops at the center whenever the cooldown allows.
type Idle struct {
	dropper
}

// NewIdle creates an idle policy.
func NewIdle(cooldown int) *Idle {
	return &Idle{dropper: dropper{cooldown: cooldown}}
}

func (p *Idle) ID() string { return "idle" }

func (p *Idle) Description() string { return "Drops at the starting position on a fixed cadence" }

func (p *Idle) Reset(int64) { p.reset() }

func (p *Idle) Act(env.Observation) env.Action {
	if p.ready() {
		return env.Action{Drop: p.fire()}
	}
	return env.Action{}
}

// Random wanders to uniformly chosen targets and drops on arrival.
type Random struct {
	dropper
	rng    *env.SimpleRNG
	target float64
}

// NewRandom creates a random policy. Call Reset to seed it.
func NewRandom(cooldown int) *Random {
	p := &Random{dropper: dropper{cooldown: cooldown}}
	p.Reset(0)
	return p
}

func (p *Random) ID() string { return "random" }

func (p *Random) Description() string { return "Drops at uniformly random positions" }

func (p *Random) Reset(seed int64) {
	p.reset()
	p.rng = env.NewSimpleRNG(seed)
	p.target = p.pick()
}

// pick chooses a target well inside the reachable cursor range.
func (p *Random) pick() float64 {
	return 0.05 + 0.9*p.rng.Float64()
}

func (p *Random) Act(obs env.Observation) env.Action {
	a := env.Action{Move: steer(obs.CursorX, p.target)}
	if p.ready() && a.Move > -1 && a.Move < 1 {
		a.Drop = p.fire()
		p.target = p.pick()
	}
	return a
}
