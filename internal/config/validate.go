package config

import (
	"fmt"
	"math"
)

// ValidationError describes a configuration that cannot drive a simulation.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func invalid(code, format string, args ...any) error {
	return ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Validate checks structural bounds and derived values.
// It returns the first problem found as a ValidationError.
func (c Config) Validate() error {
	if err := c.validateFinite(); err != nil {
		return err
	}
	if err := c.validateTiming(); err != nil {
		return err
	}
	if err := c.validateContainer(); err != nil {
		return err
	}
	if err := c.validatePhysics(); err != nil {
		return err
	}
	if err := c.validateLimits(); err != nil {
		return err
	}
	return c.validateFruit()
}

func (c Config) validateFinite() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"container.left_x", c.Container.LeftX},
		{"container.right_x", c.Container.RightX},
		{"container.floor_y", c.Container.FloorY},
		{"container.spawn_y", c.Container.SpawnY},
		{"container.lose_line_y", c.Container.LoseLineY},
		{"container.cursor_margin", c.Container.CursorMargin},
		{"control.move_speed", c.Control.MoveSpeed},
		{"physics.gravity", c.Physics.Gravity},
		{"physics.restitution", c.Physics.Restitution},
		{"physics.friction", c.Physics.Friction},
		{"physics.vel_damp", c.Physics.VelDamp},
		{"physics.max_speed", c.Physics.MaxSpeed},
		{"fruit.radius_base", c.Fruit.RadiusBase},
		{"fruit.radius_step", c.Fruit.RadiusStep},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return invalid("NON_FINITE", "%s must be finite, got %v", f.name, f.v)
		}
	}
	return nil
}

func (c Config) validateTiming() error {
	if c.Screen.FPS <= 0 {
		return invalid("INVALID_FPS", "screen.fps must be positive, got %d", c.Screen.FPS)
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return invalid("INVALID_SCREEN", "screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if c.Physics.Substeps <= 0 {
		return invalid("INVALID_SUBSTEPS", "physics.substeps must be positive, got %d", c.Physics.Substeps)
	}
	return nil
}

func (c Config) validateContainer() error {
	ct := c.Container
	if ct.LeftX >= ct.RightX {
		return invalid("INVALID_BOUNDS", "left_x (%v) must be less than right_x (%v)", ct.LeftX, ct.RightX)
	}
	if ct.FloorY <= ct.LoseLineY {
		return invalid("INVALID_BOUNDS", "floor_y (%v) must be below lose_line_y (%v)", ct.FloorY, ct.LoseLineY)
	}
	if ct.SpawnY <= ct.LoseLineY || ct.SpawnY >= ct.FloorY {
		return invalid("INVALID_SPAWN", "spawn_y (%v) must lie between lose_line_y (%v) and floor_y (%v)", ct.SpawnY, ct.LoseLineY, ct.FloorY)
	}
	if ct.CursorMargin < 0 || 2*ct.CursorMargin > ct.RightX-ct.LeftX {
		return invalid("INVALID_MARGIN", "cursor_margin (%v) does not fit a container of width %v", ct.CursorMargin, ct.RightX-ct.LeftX)
	}
	if c.Control.MoveSpeed < 0 {
		return invalid("INVALID_MOVE_SPEED", "control.move_speed must not be negative, got %v", c.Control.MoveSpeed)
	}
	return nil
}

func (c Config) validatePhysics() error {
	p := c.Physics
	if p.MaxSpeed <= 0 {
		return invalid("INVALID_MAX_SPEED", "physics.max_speed must be positive, got %v", p.MaxSpeed)
	}
	if p.Restitution < 0 || p.Restitution > 1 {
		return invalid("INVALID_RESTITUTION", "physics.restitution must be in [0, 1], got %v", p.Restitution)
	}
	if p.Friction < 0 || p.Friction > 1 {
		return invalid("INVALID_FRICTION", "physics.friction must be in [0, 1], got %v", p.Friction)
	}
	if p.VelDamp <= 0 || p.VelDamp > 1 {
		return invalid("INVALID_DAMPING", "physics.vel_damp must be in (0, 1], got %v", p.VelDamp)
	}
	return nil
}

func (c Config) validateLimits() error {
	l := c.Limits
	if l.MaxFruits <= 0 {
		return invalid("INVALID_MAX_FRUITS", "limits.max_fruits must be positive, got %d", l.MaxFruits)
	}
	if l.MaxType < 0 {
		return invalid("INVALID_MAX_TYPE", "limits.max_type must not be negative, got %d", l.MaxType)
	}
	if l.MaxType > 62 {
		return invalid("INVALID_MAX_TYPE", "limits.max_type %d overflows the score table", l.MaxType)
	}
	if l.MaxMerges <= 0 {
		return invalid("INVALID_MAX_MERGES", "limits.max_merges must be positive, got %d", l.MaxMerges)
	}
	return nil
}

func (c Config) validateFruit() error {
	f := c.Fruit
	if f.RadiusBase <= 0 {
		return invalid("INVALID_RADIUS", "fruit.radius_base must be positive, got %v", f.RadiusBase)
	}
	if f.RadiusStep <= 0 {
		return invalid("INVALID_RADIUS", "fruit.radius_step must be positive so radii strictly increase, got %v", f.RadiusStep)
	}
	if 2*c.Radius(c.Limits.MaxType) > c.InnerWidth() {
		return invalid("INVALID_RADIUS", "a type %d fruit (radius %v) does not fit the container", c.Limits.MaxType, c.Radius(c.Limits.MaxType))
	}

	total := 0
	for i, w := range f.SpawnWeights {
		if w < 0 {
			return invalid("INVALID_WEIGHTS", "fruit.spawn_weights[%d] is negative (%d)", i, w)
		}
	}
	for _, w := range c.Weights() {
		total += w
	}
	if total <= 0 {
		return invalid("INVALID_WEIGHTS", "fruit.spawn_weights must have a positive sum over types 0..%d", c.Limits.MaxType)
	}
	return nil
}
