package env

import "slices"

// FruitObs is one fruit in normalized container coordinates.
type FruitObs struct {
	Type int
	X    float64 // 0 at left wall, 1 at right wall
	Y    float64 // 0 at lose line, 1 at floor
	VX   float64 // fraction of max speed
	VY   float64
	R    float64 // fraction of container width
}

// Observation is the agent-facing view of the environment.
type Observation struct {
	Next       int
	CursorX    float64 // 0..1 across the container
	Score      int
	Fruits     []FruitObs // ascending fruit ID order
	NFruits    int
	LastMerges int
}

// Clone returns a deep copy.
func (o Observation) Clone() Observation {
	o.Fruits = slices.Clone(o.Fruits)
	return o
}

func (e *Env) observe() Observation {
	w := e.cfg.InnerWidth()
	h := e.cfg.InnerHeight()
	left := e.cfg.Container.LeftX
	top := e.cfg.Container.LoseLineY
	vmax := e.cfg.Physics.MaxSpeed

	fruits := e.store.All()
	out := make([]FruitObs, len(fruits))
	for i, f := range fruits {
		out[i] = FruitObs{
			Type: f.Type,
			X:    (f.Pos.X - left) / w,
			Y:    (f.Pos.Y - top) / h,
			VX:   f.Vel.X / vmax,
			VY:   f.Vel.Y / vmax,
			R:    f.Radius / w,
		}
	}

	return Observation{
		Next:       e.nextType,
		CursorX:    (e.cursorX - left) / w,
		Score:      e.score,
		Fruits:     out,
		NFruits:    len(out),
		LastMerges: e.lastMerges,
	}
}
