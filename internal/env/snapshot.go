package env

import (
	"math"

	"github.com/vovakirdan/fruitdrop/internal/core"
)

// Snapshot contains the complete episode state for replay and determinism
// checks. Fruits are flattened to 7 values each:
// ID, Type, X, Y, VX, VY, Radius.
type Snapshot struct {
	Steps      int
	Score      int
	CursorX    float64
	NextType   int
	Done       bool
	Reason     string
	LastMerges int
	Elapsed    float64

	NextID    uint64
	FruitData []float64

	RNGState uint64
}

const fruitFields = 7

// Snapshot returns the current state.
func (e *Env) Snapshot() Snapshot {
	fruits := e.store.All()
	data := make([]float64, 0, len(fruits)*fruitFields)
	for _, f := range fruits {
		data = append(data,
			float64(f.ID),
			float64(f.Type),
			f.Pos.X, f.Pos.Y,
			f.Vel.X, f.Vel.Y,
			f.Radius,
		)
	}

	return Snapshot{
		Steps:      e.steps,
		Score:      e.score,
		CursorX:    e.cursorX,
		NextType:   e.nextType,
		Done:       e.done,
		Reason:     e.reason,
		LastMerges: e.lastMerges,
		Elapsed:    e.elapsed,
		NextID:     uint64(e.store.NextID()),
		FruitData:  data,
		RNGState:   e.rng.State(),
	}
}

// ApplySnapshot restores state captured by Snapshot on an env with the
// same configuration.
func (e *Env) ApplySnapshot(snap Snapshot) {
	e.steps = snap.Steps
	e.score = snap.Score
	e.cursorX = snap.CursorX
	e.nextType = snap.NextType
	e.done = snap.Done
	e.reason = snap.Reason
	e.lastMerges = snap.LastMerges
	e.elapsed = snap.Elapsed

	fruits := make([]Fruit, 0, len(snap.FruitData)/fruitFields)
	for i := 0; i+fruitFields <= len(snap.FruitData); i += fruitFields {
		d := snap.FruitData[i : i+fruitFields]
		fruits = append(fruits, Fruit{
			ID:     FruitID(d[0]),
			Type:   int(d[1]),
			Pos:    core.V(d[2], d[3]),
			Vel:    core.V(d[4], d[5]),
			Radius: d[6],
		})
	}
	e.store.restore(fruits, FruitID(snap.NextID))

	e.rng.SetState(snap.RNGState)
	e.lastObs = e.observe()
}

// Hash returns a simple hash of the snapshot for determinism testing.
// Floats contribute their exact bit patterns.
func (snap *Snapshot) Hash() uint64 {
	h := uint64(snap.Steps)       //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Score) //#nosec G115 -- hash computation
	h = h*31 + math.Float64bits(snap.CursorX)
	h = h*31 + uint64(snap.NextType)   //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.LastMerges) //#nosec G115 -- hash computation
	h = h*31 + math.Float64bits(snap.Elapsed)
	h = h*31 + snap.NextID
	h = h*31 + uint64(len(snap.FruitData))
	if snap.Done {
		h = h*31 + 1
	}
	for _, c := range []byte(snap.Reason) {
		h = h*31 + uint64(c)
	}

	for _, v := range snap.FruitData {
		h = h*31 + math.Float64bits(v)
	}

	h = h*31 + snap.RNGState

	return h
}
