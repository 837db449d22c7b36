// Package config provides YAML-based configuration loading, presets and
// validation for the fruit-drop environment.
package config

// Config is the full parameter bundle of one environment.
// It is treated as immutable once Validate has accepted it.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Container ContainerConfig `yaml:"container"`
	Control   ControlConfig   `yaml:"control"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Limits    LimitsConfig    `yaml:"limits"`
	Fruit     FruitConfig     `yaml:"fruit"`
	Seed      int64           `yaml:"seed"`
}

// ScreenConfig holds the logical window size and step rate.
// Width and Height describe the pixel window the container was laid out
// in; the simulation itself never reads them.
type ScreenConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"` // Environment steps per simulated second
}

// ContainerConfig describes the box fruits fall into, in pixels.
// The y axis grows downward.
type ContainerConfig struct {
	LeftX        float64 `yaml:"left_x"`
	RightX       float64 `yaml:"right_x"`
	FloorY       float64 `yaml:"floor_y"`
	SpawnY       float64 `yaml:"spawn_y"`
	LoseLineY    float64 `yaml:"lose_line_y"`
	CursorMargin float64 `yaml:"cursor_margin"`
}

// ControlConfig holds cursor control parameters.
type ControlConfig struct {
	MoveSpeed float64 `yaml:"move_speed"` // px/s at full deflection
}

// PhysicsConfig holds integration and contact constants.
type PhysicsConfig struct {
	Gravity     float64 `yaml:"gravity"` // px/s^2
	Substeps    int     `yaml:"substeps"`
	Restitution float64 `yaml:"restitution"`
	Friction    float64 `yaml:"friction"`
	VelDamp     float64 `yaml:"vel_damp"`
	MaxSpeed    float64 `yaml:"max_speed"` // px/s
}

// LimitsConfig bounds the episode.
type LimitsConfig struct {
	MaxFruits int `yaml:"max_fruits"`
	MaxType   int `yaml:"max_type"`
	MaxMerges int `yaml:"max_merges"` // Per step
}

// FruitConfig defines fruit sizes and the spawn distribution.
type FruitConfig struct {
	RadiusBase   float64 `yaml:"radius_base"`
	RadiusStep   float64 `yaml:"radius_step"`
	SpawnWeights []int   `yaml:"spawn_weights"` // Index is fruit type; missing entries weigh 0
}

// DT returns the duration of one environment step in seconds.
func (c Config) DT() float64 {
	return 1.0 / float64(c.Screen.FPS)
}

// SubDT returns the duration of one physics sub-step in seconds.
func (c Config) SubDT() float64 {
	return c.DT() / float64(c.Physics.Substeps)
}

// Radius returns the radius of a fruit of the given type.
func (c Config) Radius(fruitType int) float64 {
	return c.Fruit.RadiusBase + c.Fruit.RadiusStep*float64(fruitType)
}

// InnerWidth returns the container width.
func (c Config) InnerWidth() float64 {
	return c.Container.RightX - c.Container.LeftX
}

// InnerHeight returns the distance between the lose line and the floor.
func (c Config) InnerHeight() float64 {
	return c.Container.FloorY - c.Container.LoseLineY
}

// CursorBounds returns the range the cursor is clamped to.
func (c Config) CursorBounds() (lo, hi float64) {
	return c.Container.LeftX + c.Container.CursorMargin, c.Container.RightX - c.Container.CursorMargin
}

// Weights returns the spawn weights for types 0..max_type.
// Configured weights past max_type are dropped and missing ones are zero.
func (c Config) Weights() []int {
	n := c.Limits.MaxType + 1
	if n < 0 {
		n = 0
	}
	w := make([]int, n)
	copy(w, c.Fruit.SpawnWeights)
	return w
}

// ScoreForMerge returns the points awarded for creating a fruit of newType.
func ScoreForMerge(newType int) int {
	if newType < 0 {
		newType = 0
	}
	return 1 << uint(newType)
}
