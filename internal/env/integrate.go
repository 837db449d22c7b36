package env

import (
	"math"

	"github.com/vovakirdan/fruitdrop/internal/config"
)

// Integrator advances bodies under gravity, global damping and a speed cap.
type Integrator struct {
	Gravity  float64
	Damp     float64
	MaxSpeed float64
}

// NewIntegrator builds an integrator from physics settings.
func NewIntegrator(p config.PhysicsConfig) Integrator {
	return Integrator{
		Gravity:  p.Gravity,
		Damp:     p.VelDamp,
		MaxSpeed: p.MaxSpeed,
	}
}

// Step advances every fruit by one sub-step of length dt.
func (in Integrator) Step(fruits []Fruit, dt float64) {
	for i := range fruits {
		f := &fruits[i]

		f.Vel.Y += in.Gravity * dt
		f.Vel = f.Vel.Scale(in.Damp)

		// Uniform scale keeps the direction.
		if sp := f.Vel.Len(); sp > in.MaxSpeed {
			f.Vel = f.Vel.Scale(in.MaxSpeed / math.Max(sp, 1e-9))
		}

		f.Pos = f.Pos.Add(f.Vel.Scale(dt))
	}
}
