package config

import (
	_ "embed"
)

//go:embed defaults/fruitdrop.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
// It matches the embedded defaults/fruitdrop.yaml.
func Default() Config {
	return Config{
		Screen: ScreenConfig{
			Width:  480,
			Height: 720,
			FPS:    60,
		},
		Container: ContainerConfig{
			LeftX:        40,
			RightX:       440,
			FloorY:       700,
			SpawnY:       100,
			LoseLineY:    10,
			CursorMargin: 5,
		},
		Control: ControlConfig{
			MoveSpeed: 360,
		},
		Physics: PhysicsConfig{
			Gravity:     1400,
			Substeps:    4,
			Restitution: 0.2,
			Friction:    0.1,
			VelDamp:     0.999,
			MaxSpeed:    2500,
		},
		Limits: LimitsConfig{
			MaxFruits: 70,
			MaxType:   10,
			MaxMerges: 8,
		},
		Fruit: FruitConfig{
			RadiusBase:   16,
			RadiusStep:   6,
			SpawnWeights: []int{3, 2, 1},
		},
		Seed: 0,
	}
}

// DefaultYAML returns the embedded default configuration document.
func DefaultYAML() []byte {
	return defaultYAML
}
