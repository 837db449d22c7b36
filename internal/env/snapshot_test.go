package env

import (
	"testing"

	"github.com/vovakirdan/fruitdrop/internal/config"
)

func TestSnapshot(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = 1

	g, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	actions := randomActions(4, 400, 10)
	for _, a := range actions[:200] {
		g.Step(a)
	}

	snap := g.Snapshot()
	if snap.Steps != g.Steps() {
		t.Errorf("Snapshot steps should match env steps, got %d, want %d", snap.Steps, g.Steps())
	}
	if snap.Score != g.Score() {
		t.Errorf("Snapshot score should match env score, got %d, want %d", snap.Score, g.Score())
	}
	if len(snap.FruitData) != len(g.Fruits())*fruitFields {
		t.Errorf("FruitData has %d values for %d fruits", len(snap.FruitData), len(g.Fruits()))
	}

	// Apply snapshot to a fresh env, then continue both in lockstep.
	g2, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	g2.ApplySnapshot(snap)
	snap2 := g2.Snapshot()
	if snap.Hash() != snap2.Hash() {
		t.Fatalf("Snapshot hash should match after apply, got %d, want %d", snap2.Hash(), snap.Hash())
	}

	for _, a := range actions[200:] {
		g.Step(a)
		g2.Step(a)
	}
	s1, s2 := g.Snapshot(), g2.Snapshot()
	if s1.Hash() != s2.Hash() {
		t.Errorf("restored env diverged: %d vs %d", s1.Hash(), s2.Hash())
	}
}

func TestSnapshotHashSensitivity(t *testing.T) {
	e, err := New(config.Default())
	if err != nil {
		t.Fatal(err)
	}
	e.Step(Action{Drop: 1})
	base := e.Snapshot()

	moved := e.Snapshot()
	moved.FruitData[2] += 1e-9
	if base.Hash() == moved.Hash() {
		t.Error("hash should change when a fruit moves")
	}

	done := e.Snapshot()
	done.Done = true
	if base.Hash() == done.Hash() {
		t.Error("hash should change with the done flag")
	}
}
