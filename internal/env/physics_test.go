package env

import (
	"math"
	"testing"

	"github.com/vovakirdan/fruitdrop/internal/config"
	"github.com/vovakirdan/fruitdrop/internal/core"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) <= eps*math.Max(1, math.Abs(b))
}

func TestIntegratorStep(t *testing.T) {
	in := Integrator{Gravity: 1000, Damp: 0.5, MaxSpeed: 1e6}
	fruits := []Fruit{{ID: 1, Pos: core.V(10, 20), Vel: core.V(4, 0), Radius: 16}}

	in.Step(fruits, 0.1)

	f := fruits[0]
	// vy = (0 + 1000*0.1) * 0.5, vx = 4 * 0.5
	if !near(f.Vel.Y, 50) || !near(f.Vel.X, 2) {
		t.Errorf("velocity = %v, expected (2, 50)", f.Vel)
	}
	if !near(f.Pos.X, 10.2) || !near(f.Pos.Y, 25) {
		t.Errorf("position = %v, expected (10.2, 25)", f.Pos)
	}
}

func TestIntegratorClampsSpeedUniformly(t *testing.T) {
	in := Integrator{Gravity: 0, Damp: 1, MaxSpeed: 100}
	fruits := []Fruit{{ID: 1, Vel: core.V(300, 400)}}

	in.Step(fruits, 0.01)

	v := fruits[0].Vel
	if !near(v.Len(), 100) {
		t.Errorf("speed = %v, expected 100", v.Len())
	}
	if !near(v.X/v.Y, 0.75) {
		t.Errorf("direction changed: %v", v)
	}
}

func testResolver() CollisionResolver {
	return CollisionResolver{LeftX: 40, RightX: 440, FloorY: 700, Restitution: 0.2, Friction: 0.1}
}

func TestResolveBounds(t *testing.T) {
	tests := []struct {
		name    string
		in      Fruit
		wantPos core.Vec2
		wantVel core.Vec2
	}{
		{
			name:    "left wall moving in",
			in:      Fruit{Pos: core.V(50, 300), Vel: core.V(-100, 50), Radius: 16},
			wantPos: core.V(56, 300),
			wantVel: core.V(20, 45),
		},
		{
			name:    "left wall moving out keeps vx",
			in:      Fruit{Pos: core.V(50, 300), Vel: core.V(30, 50), Radius: 16},
			wantPos: core.V(56, 300),
			wantVel: core.V(30, 45),
		},
		{
			name:    "right wall",
			in:      Fruit{Pos: core.V(430, 300), Vel: core.V(100, 0), Radius: 16},
			wantPos: core.V(424, 300),
			wantVel: core.V(-20, 0),
		},
		{
			name:    "floor",
			in:      Fruit{Pos: core.V(200, 690), Vel: core.V(10, 500), Radius: 16},
			wantPos: core.V(200, 684),
			wantVel: core.V(9, -100),
		},
		{
			name:    "lose line is not a wall",
			in:      Fruit{Pos: core.V(200, 0), Vel: core.V(0, -100), Radius: 16},
			wantPos: core.V(200, 0),
			wantVel: core.V(0, -100),
		},
	}

	r := testResolver()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fruits := []Fruit{tc.in}
			r.Resolve(fruits)
			f := fruits[0]
			if !near(f.Pos.X, tc.wantPos.X) || !near(f.Pos.Y, tc.wantPos.Y) {
				t.Errorf("position = %v, expected %v", f.Pos, tc.wantPos)
			}
			if !near(f.Vel.X, tc.wantVel.X) || !near(f.Vel.Y, tc.wantVel.Y) {
				t.Errorf("velocity = %v, expected %v", f.Vel, tc.wantVel)
			}
		})
	}
}

func TestResolvePairHeadOn(t *testing.T) {
	fruits := []Fruit{
		{ID: 1, Pos: core.V(200, 300), Vel: core.V(50, 0), Radius: 16},
		{ID: 2, Pos: core.V(220, 300), Vel: core.V(-50, 0), Radius: 16},
	}
	testResolver().Resolve(fruits)

	a, b := fruits[0], fruits[1]
	if d := b.Pos.Sub(a.Pos).Len(); !near(d, 32) {
		t.Errorf("distance after resolve = %v, expected exact contact 32", d)
	}
	if !near(a.Pos.X, 194) || !near(b.Pos.X, 226) {
		t.Errorf("each fruit should move by half the penetration, got %v and %v", a.Pos, b.Pos)
	}
	// Relative normal speed -100 becomes +20.
	if !near(a.Vel.X, -10) || !near(b.Vel.X, 10) {
		t.Errorf("velocities = %v, %v, expected (-10, 0) and (10, 0)", a.Vel, b.Vel)
	}
}

func TestResolvePairTangentialFriction(t *testing.T) {
	fruits := []Fruit{
		{ID: 1, Pos: core.V(200, 300), Vel: core.V(10, 0), Radius: 16},
		{ID: 2, Pos: core.V(230, 300), Vel: core.V(-10, 100), Radius: 16},
	}
	testResolver().Resolve(fruits)

	rel := fruits[1].Vel.Sub(fruits[0].Vel)
	if !near(rel.Y, 90) {
		t.Errorf("tangential relative speed = %v, expected 100*(1-0.1) = 90", rel.Y)
	}
	if !near(rel.X, 4) {
		t.Errorf("normal relative speed = %v, expected -(-20)*0.2 = 4", rel.X)
	}
}

func TestResolvePairSeparatingNoImpulse(t *testing.T) {
	fruits := []Fruit{
		{ID: 1, Pos: core.V(200, 300), Vel: core.V(-5, 0), Radius: 16},
		{ID: 2, Pos: core.V(220, 300), Vel: core.V(5, 0), Radius: 16},
	}
	testResolver().Resolve(fruits)

	if fruits[0].Vel.X != -5 || fruits[1].Vel.X != 5 {
		t.Errorf("separating pair should keep velocities, got %v, %v", fruits[0].Vel, fruits[1].Vel)
	}
	if d := fruits[1].Pos.Sub(fruits[0].Pos).Len(); !near(d, 32) {
		t.Errorf("separating pair should still be pushed apart, distance %v", d)
	}
}

func TestResolvePairCoincident(t *testing.T) {
	fruits := []Fruit{
		{ID: 1, Pos: core.V(200, 300), Radius: 16},
		{ID: 2, Pos: core.V(200, 300), Radius: 16},
	}
	testResolver().Resolve(fruits)

	a, b := fruits[0], fruits[1]
	if math.IsNaN(a.Pos.X) || math.IsNaN(b.Pos.Y) {
		t.Fatal("coincident centers produced NaN")
	}
	if a.Pos.X != 200 || b.Pos.X != 200 {
		t.Errorf("separation should be vertical, got %v and %v", a.Pos, b.Pos)
	}
	if !near(a.Pos.Y, 284) || !near(b.Pos.Y, 316) {
		t.Errorf("lower ID should move up: got %v and %v", a.Pos, b.Pos)
	}
}

func TestResolveNonOverlappingUntouched(t *testing.T) {
	fruits := []Fruit{
		{ID: 1, Pos: core.V(100, 300), Vel: core.V(1, 2), Radius: 16},
		{ID: 2, Pos: core.V(200, 300), Vel: core.V(3, 4), Radius: 16},
	}
	testResolver().Resolve(fruits)

	if fruits[0].Pos != core.V(100, 300) || fruits[1].Vel != core.V(3, 4) {
		t.Errorf("distant pair changed: %+v", fruits)
	}
}

func TestMergePassTieBreak(t *testing.T) {
	cfg := config.Default()
	m := NewMergeEngine(cfg)
	s := NewFruitStore()

	// Equal overlaps between 1-2 and 2-3; 1-3 do not touch.
	s.Spawn(0, core.V(100, 600), 16)
	s.Spawn(0, core.V(120, 600), 16)
	s.Spawn(0, core.V(140, 600), 16)

	res := m.Pass(s, 1)
	if res.Merges != 1 || res.Points != 2 {
		t.Fatalf("Pass = %+v, expected one merge worth 2", res)
	}
	if _, ok := s.Get(3); !ok {
		t.Error("fruit 3 should survive: the (1, 2) pair wins the tie")
	}

	merged, ok := s.Get(4)
	if !ok {
		t.Fatal("merged fruit should get the next ID")
	}
	if merged.Type != 1 || merged.Radius != cfg.Radius(1) {
		t.Errorf("merged fruit = %+v, expected type 1 with radius %v", merged, cfg.Radius(1))
	}
	if merged.Pos != core.V(110, 600) {
		t.Errorf("merged position = %v, expected midpoint (110, 600)", merged.Pos)
	}
}

func TestMergePassPrefersDeepestOverlap(t *testing.T) {
	m := NewMergeEngine(config.Default())
	s := NewFruitStore()

	s.Spawn(0, core.V(100, 600), 16)
	s.Spawn(0, core.V(130, 600), 16) // overlap 2 with fruit 1
	s.Spawn(0, core.V(300, 600), 16)
	s.Spawn(0, core.V(310, 600), 16) // overlap 22 with fruit 3

	m.Pass(s, 1)
	if _, ok := s.Get(1); !ok {
		t.Error("shallow pair should not merge first")
	}
	if _, ok := s.Get(3); ok {
		t.Error("deepest pair should merge first")
	}
}

func TestMergePassAveragesVelocity(t *testing.T) {
	m := NewMergeEngine(config.Default())
	s := NewFruitStore()
	s.Insert(2, core.V(100, 600), core.V(10, -20), 28)
	s.Insert(2, core.V(120, 600), core.V(30, 40), 28)

	m.Pass(s, 8)
	f := s.All()[0]
	if f.Vel != core.V(20, 10) {
		t.Errorf("merged velocity = %v, expected (20, 10)", f.Vel)
	}
	if f.Type != 3 {
		t.Errorf("merged type = %d, expected 3", f.Type)
	}
}

func TestMergePassCascadesAndBounds(t *testing.T) {
	cfg := config.Default()
	m := NewMergeEngine(cfg)
	s := NewFruitStore()

	// Two type-0 pairs merge into two touching type-1 fruits, which
	// then merge into a type 2.
	s.Spawn(0, core.V(200, 600), 16)
	s.Spawn(0, core.V(200, 600), 16)
	s.Spawn(0, core.V(210, 600), 16)
	s.Spawn(0, core.V(210, 600), 16)

	res := m.Pass(s, 8)
	if res.Merges != 3 {
		t.Fatalf("Merges = %d, expected 3", res.Merges)
	}
	if res.Points != 2+2+4 {
		t.Errorf("Points = %d, expected 8", res.Points)
	}
	if s.Len() != 1 || s.All()[0].Type != 2 {
		t.Errorf("store = %+v, expected one type 2 fruit", s.All())
	}

	s.Reset()
	for i := 0; i < 6; i++ {
		s.Spawn(0, core.V(200, 600), 16)
	}
	if res := m.Pass(s, 2); res.Merges != 2 {
		t.Errorf("Merges = %d, expected the budget of 2", res.Merges)
	}
}

func TestMergeIgnoresMaxTypeAndMixedTypes(t *testing.T) {
	cfg := config.Default()
	m := NewMergeEngine(cfg)
	s := NewFruitStore()

	top := cfg.Limits.MaxType
	s.Spawn(top, core.V(200, 600), cfg.Radius(top))
	s.Spawn(top, core.V(210, 600), cfg.Radius(top))
	s.Spawn(0, core.V(300, 600), 16)
	s.Spawn(1, core.V(305, 600), 22)

	if res := m.Pass(s, 8); res.Merges != 0 {
		t.Errorf("Merges = %d, expected none", res.Merges)
	}
	if s.Len() != 4 {
		t.Errorf("Len() = %d, expected 4", s.Len())
	}
}

func TestMergeCountsExactContact(t *testing.T) {
	m := NewMergeEngine(config.Default())
	s := NewFruitStore()
	s.Spawn(0, core.V(100, 600), 16)
	s.Spawn(0, core.V(132, 600), 16)
	s.Spawn(1, core.V(300, 600), 22)
	s.Spawn(1, core.V(344.1, 600), 22)

	res := m.Pass(s, 8)
	if res.Merges != 1 {
		t.Errorf("Merges = %d, expected only the touching pair to merge", res.Merges)
	}
}

func TestMergeContactTolerance(t *testing.T) {
	tests := []struct {
		name   string
		gap    float64
		merges int
	}{
		{"overlapping", -0.5, 1},
		{"exact contact", 0, 1},
		{"gap inside tolerance", contactTolerance / 10, 1},
		{"gap beyond tolerance", contactTolerance * 10, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMergeEngine(config.Default())
			s := NewFruitStore()
			s.Spawn(0, core.V(100, 600), 16)
			s.Spawn(0, core.V(132+tc.gap, 600), 16)

			if res := m.Pass(s, 8); res.Merges != tc.merges {
				t.Errorf("Merges = %d, expected %d", res.Merges, tc.merges)
			}
		})
	}
}
