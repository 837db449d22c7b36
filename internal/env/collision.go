package env

import (
	"math"

	"github.com/vovakirdan/fruitdrop/internal/config"
	"github.com/vovakirdan/fruitdrop/internal/core"
)

// degenerateDist is the center distance below which two fruits are treated
// as coincident and separated along the vertical axis.
const degenerateDist = 1e-9

// CollisionResolver pushes fruits out of walls, the floor and each other.
// It makes a single sweep per call; overlaps created late in the sweep are
// left for the next sub-step.
type CollisionResolver struct {
	LeftX       float64
	RightX      float64
	FloorY      float64
	Restitution float64
	Friction    float64
}

// NewCollisionResolver builds a resolver for the configured container.
func NewCollisionResolver(cfg config.Config) CollisionResolver {
	return CollisionResolver{
		LeftX:       cfg.Container.LeftX,
		RightX:      cfg.Container.RightX,
		FloorY:      cfg.Container.FloorY,
		Restitution: cfg.Physics.Restitution,
		Friction:    cfg.Physics.Friction,
	}
}

// Resolve runs boundary collisions for every fruit, then one pass over all
// unordered pairs in ascending ID order.
func (c CollisionResolver) Resolve(fruits []Fruit) {
	for i := range fruits {
		c.resolveBounds(&fruits[i])
	}
	for i := 0; i < len(fruits); i++ {
		for j := i + 1; j < len(fruits); j++ {
			c.resolvePair(&fruits[i], &fruits[j])
		}
	}
}

// resolveBounds clamps a fruit inside the container. The lose line is not a wall.
func (c CollisionResolver) resolveBounds(f *Fruit) {
	r := f.Radius
	keep := 1 - c.Friction

	if f.Pos.X-r < c.LeftX {
		f.Pos.X = c.LeftX + r
		if f.Vel.X < 0 {
			f.Vel.X = -f.Vel.X * c.Restitution
		}
		f.Vel.Y *= keep
	}

	if f.Pos.X+r > c.RightX {
		f.Pos.X = c.RightX - r
		if f.Vel.X > 0 {
			f.Vel.X = -f.Vel.X * c.Restitution
		}
		f.Vel.Y *= keep
	}

	if f.Pos.Y+r > c.FloorY {
		f.Pos.Y = c.FloorY - r
		if f.Vel.Y > 0 {
			f.Vel.Y = -f.Vel.Y * c.Restitution
		}
		f.Vel.X *= keep
	}
}

// resolvePair separates an overlapping pair to exact contact and applies an
// equal-mass impulse when they approach.
func (c CollisionResolver) resolvePair(a, b *Fruit) {
	rs := a.Radius + b.Radius
	delta := b.Pos.Sub(a.Pos)
	d2 := delta.LenSq()
	if d2 >= rs*rs {
		return
	}

	var n core.Vec2
	d := math.Sqrt(d2)
	if d < degenerateDist {
		n = core.V(0, 1)
		d = 0
	} else {
		n = delta.Scale(1 / d)
	}

	half := 0.5 * (rs - d)
	a.Pos = a.Pos.Sub(n.Scale(half))
	b.Pos = b.Pos.Add(n.Scale(half))

	rel := b.Vel.Sub(a.Vel)
	vn := rel.Dot(n)
	if vn >= 0 {
		return
	}

	// Normal: relative speed becomes -restitution*vn.
	j := -(1 + c.Restitution) * vn * 0.5
	a.Vel = a.Vel.Sub(n.Scale(j))
	b.Vel = b.Vel.Add(n.Scale(j))

	// Tangent: relative speed is scaled by (1 - friction).
	t := core.V(-n.Y, n.X)
	jt := -rel.Dot(t) * c.Friction * 0.5
	a.Vel = a.Vel.Sub(t.Scale(jt))
	b.Vel = b.Vel.Add(t.Scale(jt))
}
