// Package env implements the deterministic fruit-drop environment: fixed
// step integration, circle and wall contacts, same-type merging and the
// episode state machine behind Reset and Step.
//
// An Env is not safe for concurrent use. Observations it returns are
// copies and may be kept across steps.
package env

import (
	"fmt"
	"math"

	"github.com/vovakirdan/fruitdrop/internal/config"
	"github.com/vovakirdan/fruitdrop/internal/core"
)

// Termination reasons reported in Info.
const (
	ReasonNone      = ""
	ReasonLoseLine  = "lose_line"
	ReasonMaxFruits = "max_fruits"
	ReasonDone      = "done"
)

// Action is one control input.
// Move is clamped to [-1, 1] (NaN counts as 0); any non-zero Drop releases
// the held fruit.
type Action struct {
	Move float64 `yaml:"move"`
	Drop int     `yaml:"drop"`
}

// Info carries auxiliary step output.
type Info struct {
	Reason string
}

// StepResult is the outcome of one Step.
type StepResult struct {
	Obs    Observation
	Reward float64
	Done   bool
	Info   Info
}

// Env is a single fruit-drop episode runner.
type Env struct {
	cfg        config.Config
	rng        *SimpleRNG
	sampler    *Sampler
	store      *FruitStore
	integrator Integrator
	resolver   CollisionResolver
	merger     MergeEngine

	score      int
	cursorX    float64
	nextType   int
	done       bool
	reason     string
	lastMerges int
	steps      int
	elapsed    float64
	lastObs    Observation
}

// New validates cfg and returns an environment that has already been reset.
// The generator is seeded from cfg.Seed.
func New(cfg config.Config) (*Env, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("env: invalid config: %w", err)
	}

	e := &Env{
		cfg:        cfg,
		store:      NewFruitStore(),
		integrator: NewIntegrator(cfg.Physics),
		resolver:   NewCollisionResolver(cfg),
		merger:     NewMergeEngine(cfg),
	}
	e.Seed(cfg.Seed)
	e.Reset()
	return e, nil
}

// Seed reseeds the generator. It takes effect from the next sample, so call
// Reset afterwards for a reproducible episode.
func (e *Env) Seed(seed int64) {
	e.rng = NewSimpleRNG(seed)
	e.sampler = NewSampler(e.rng, e.cfg.Weights())
}

// Config returns the validated configuration.
func (e *Env) Config() config.Config {
	return e.cfg
}

// Reset starts a new episode and returns its first observation.
func (e *Env) Reset() Observation {
	e.store.Reset()
	e.score = 0
	lo, hi := e.cfg.CursorBounds()
	e.cursorX = 0.5 * (lo + hi)
	e.nextType = e.sampler.Next()
	e.done = false
	e.reason = ReasonNone
	e.lastMerges = 0
	e.steps = 0
	e.elapsed = 0
	e.lastObs = e.observe()
	return e.lastObs.Clone()
}

// Step advances the episode by one frame.
func (e *Env) Step(a Action) StepResult {
	if e.done {
		return StepResult{
			Obs:    e.lastObs.Clone(),
			Reward: 0,
			Done:   true,
			Info:   Info{Reason: ReasonDone},
		}
	}

	move, drop := coerce(a)
	dt := e.cfg.DT()
	before := e.score

	lo, hi := e.cfg.CursorBounds()
	e.cursorX = core.ClampF(e.cursorX+move*e.cfg.Control.MoveSpeed*dt, lo, hi)

	rejected := 0
	if drop {
		if e.store.Len() < e.cfg.Limits.MaxFruits {
			e.store.Spawn(e.nextType, core.V(e.cursorX, e.cfg.Container.SpawnY), e.cfg.Radius(e.nextType))
			e.nextType = e.sampler.Next()
		} else {
			rejected = 1
		}
	}

	sub := e.cfg.SubDT()
	for range e.cfg.Physics.Substeps {
		e.integrator.Step(e.store.All(), sub)
		e.resolver.Resolve(e.store.All())
	}

	res := e.merger.Pass(e.store, e.cfg.Limits.MaxMerges)
	e.lastMerges = res.Merges
	e.score += res.Points

	switch {
	case e.crossedLoseLine():
		e.done, e.reason = true, ReasonLoseLine
	case e.store.Len()+rejected > e.cfg.Limits.MaxFruits:
		e.done, e.reason = true, ReasonMaxFruits
	}

	e.steps++
	e.elapsed += dt
	e.lastObs = e.observe()

	return StepResult{
		Obs:    e.lastObs.Clone(),
		Reward: float64(e.score - before),
		Done:   e.done,
		Info:   Info{Reason: e.reason},
	}
}

func coerce(a Action) (float64, bool) {
	move := a.Move
	if math.IsNaN(move) {
		move = 0
	}
	return core.ClampF(move, -1, 1), a.Drop != 0
}

func (e *Env) crossedLoseLine() bool {
	for _, f := range e.store.All() {
		if f.Top() < e.cfg.Container.LoseLineY {
			return true
		}
	}
	return false
}

// Observation returns a copy of the latest observation, the one returned by
// the last Reset or Step.
func (e *Env) Observation() Observation { return e.lastObs.Clone() }

// Done reports whether the episode has terminated.
func (e *Env) Done() bool { return e.done }

// Reason returns the termination reason, empty while running.
func (e *Env) Reason() string { return e.reason }

// Score returns the cumulative episode score.
func (e *Env) Score() int { return e.score }

// Steps returns the number of steps taken since Reset.
func (e *Env) Steps() int { return e.steps }

// Elapsed returns simulated seconds since Reset.
func (e *Env) Elapsed() float64 { return e.elapsed }

// CursorX returns the cursor position in pixels.
func (e *Env) CursorX() float64 { return e.cursorX }

// NextType returns the type that the next drop will spawn.
func (e *Env) NextType() int { return e.nextType }

// Fruits returns a copy of the live fruits in ascending ID order.
func (e *Env) Fruits() []Fruit { return e.store.Clone() }

// MaxType returns the largest live fruit type, or -1 for an empty board.
func (e *Env) MaxType() int { return e.store.MaxType() }
