package agent

import (
	"reflect"
	"testing"

	"github.com/vovakirdan/fruitdrop/internal/config"
	"github.com/vovakirdan/fruitdrop/internal/env"
	"github.com/vovakirdan/fruitdrop/internal/registry"
)

func TestPoliciesRegistered(t *testing.T) {
	for _, id := range []string{"idle", "random", "greedy"} {
		p, err := registry.Create(id)
		if err != nil {
			t.Fatalf("Create(%q) failed: %v", id, err)
		}
		if p.ID() != id {
			t.Errorf("policy %q reports ID %q", id, p.ID())
		}
		if p.Description() == "" {
			t.Errorf("policy %q has no description", id)
		}
	}
}

func TestIdleCadence(t *testing.T) {
	p := NewIdle(3)
	p.Reset(0)

	var drops []int
	for i := 0; i < 9; i++ {
		if a := p.Act(env.Observation{CursorX: 0.5}); a.Drop != 0 {
			drops = append(drops, i)
		}
		if a := p.Act(env.Observation{}); a.Move != 0 {
			t.Fatal("idle policy should never move")
		}
	}
	// Two Act calls per iteration: drops at calls 0, 4, 8, ...
	if len(drops) == 0 || drops[0] != 0 {
		t.Errorf("idle should drop immediately, got drops at %v", drops)
	}
}

func TestSteer(t *testing.T) {
	tests := []struct {
		cursor, target, want float64
	}{
		{0.5, 0.9, 1},
		{0.5, 0.1, -1},
		{0.5, 0.5, 0},
		{0.5, 0.5 + cursorStep/2, 0.5},
	}
	for _, tc := range tests {
		if got := steer(tc.cursor, tc.target); !almost(got, tc.want) {
			t.Errorf("steer(%v, %v) = %v, expected %v", tc.cursor, tc.target, got, tc.want)
		}
	}
}

func almost(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}

func TestRandomDeterministic(t *testing.T) {
	run := func() []env.Action {
		p := NewRandom(5)
		p.Reset(99)
		obs := env.Observation{CursorX: 0.5}
		var out []env.Action
		for i := 0; i < 200; i++ {
			a := p.Act(obs)
			obs.CursorX += a.Move * cursorStep
			out = append(out, a)
		}
		return out
	}
	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Error("random policy is not reproducible for a fixed seed")
	}

	drops := 0
	for _, act := range a {
		drops += act.Drop
	}
	if drops == 0 {
		t.Error("random policy never dropped")
	}
}

func TestGreedyTarget(t *testing.T) {
	obs := env.Observation{
		Next: 1,
		Fruits: []env.FruitObs{
			{Type: 1, X: 0.2, Y: 0.9, R: 0.05},
			{Type: 0, X: 0.6, Y: 0.5, R: 0.04},
			{Type: 1, X: 0.7, Y: 0.6, R: 0.05},
		},
	}
	if got := Target(obs); got != 0.7 {
		t.Errorf("Target() = %v, expected the highest matching fruit at 0.7", got)
	}

	obs.Next = 2
	got := Target(obs)
	if got == 0.7 || got == 0.2 {
		t.Errorf("Target() = %v, expected an empty column", got)
	}
	if bin := int(got * greedyBins); bin == int(0.6*float64(greedyBins)) {
		t.Errorf("Target() = %v picked the occupied column", got)
	}

	if got := Target(env.Observation{}); got != 3.5/greedyBins {
		t.Errorf("empty board target = %v, expected the inner column", got)
	}
}

func TestPoliciesPlayEpisodes(t *testing.T) {
	for _, id := range []string{"idle", "random", "greedy"} {
		t.Run(id, func(t *testing.T) {
			cfg := config.Default()
			cfg.Seed = 3
			e, err := env.New(cfg)
			if err != nil {
				t.Fatal(err)
			}
			p, _ := registry.Create(id)
			p.Reset(3)

			obs := e.Reset()
			drops, merges := 0, 0
			for i := 0; i < 3000; i++ {
				a := p.Act(obs)
				drops += a.Drop
				res := e.Step(a)
				merges += res.Obs.LastMerges
				obs = res.Obs
				if res.Done {
					obs = e.Reset()
					p.Reset(int64(i))
				}
			}
			if drops == 0 {
				t.Error("policy never dropped")
			}
			if id == "greedy" && merges == 0 {
				t.Error("greedy policy never merged")
			}
		})
	}
}
