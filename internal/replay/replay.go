// Package replay records episodes as seed, configuration and action list,
// and re-simulates them to check that the outcome is reproduced.
package replay

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/fruitdrop/internal/config"
	"github.com/vovakirdan/fruitdrop/internal/env"
)

// Version is the current replay file format.
const Version = 1

// ErrMismatch is returned by Verify when re-simulation disagrees with the
// recorded outcome.
var ErrMismatch = errors.New("replay: mismatch")

// Replay is a self-contained episode recording.
type Replay struct {
	Version int           `yaml:"version"`
	Player  string        `yaml:"player"`
	Seed    int64         `yaml:"seed"`
	Config  config.Config `yaml:"config"`
	Actions []env.Action  `yaml:"actions"`

	Score  int    `yaml:"score"`
	Steps  int    `yaml:"steps"`
	Reason string `yaml:"reason"`
	Hash   uint64 `yaml:"hash"`
}

// Recorder accumulates the actions fed to one episode.
type Recorder struct {
	rp Replay
}

// NewRecorder starts a recording for an episode that was reset with
// cfg.Seed as its seed.
func NewRecorder(cfg config.Config, player string) *Recorder {
	return &Recorder{rp: Replay{
		Version: Version,
		Player:  player,
		Seed:    cfg.Seed,
		Config:  cfg,
	}}
}

// Record appends one action.
func (r *Recorder) Record(a env.Action) {
	r.rp.Actions = append(r.rp.Actions, a)
}

// Len returns the number of recorded actions.
func (r *Recorder) Len() int {
	return len(r.rp.Actions)
}

// Finish stamps the outcome from e and returns the replay.
func (r *Recorder) Finish(e *env.Env) Replay {
	snap := e.Snapshot()
	r.rp.Score = e.Score()
	r.rp.Steps = e.Steps()
	r.rp.Reason = e.Reason()
	r.rp.Hash = snap.Hash()
	return r.rp
}

// Save writes a replay as YAML, creating parent directories.
func Save(path string, rp Replay) error {
	data, err := yaml.Marshal(rp)
	if err != nil {
		return fmt.Errorf("replay: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("replay: create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("replay: write %s: %w", path, err)
	}
	return nil
}

// Load reads a replay written by Save.
func Load(path string) (Replay, error) {
	var rp Replay
	data, err := os.ReadFile(path)
	if err != nil {
		return rp, fmt.Errorf("replay: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &rp); err != nil {
		return rp, fmt.Errorf("replay: parse %s: %w", path, err)
	}
	if rp.Version != Version {
		return rp, fmt.Errorf("replay: %s has unsupported version %d", path, rp.Version)
	}
	return rp, nil
}

// Result is the outcome of a re-simulation.
type Result struct {
	Score  int
	Steps  int
	Reason string
	Hash   uint64
}

// Run re-simulates the replay on a fresh environment. The visit callback,
// if set, sees every step result.
func Run(rp Replay, visit func(env.StepResult)) (Result, error) {
	cfg := rp.Config
	cfg.Seed = rp.Seed
	e, err := env.New(cfg)
	if err != nil {
		return Result{}, fmt.Errorf("replay: %w", err)
	}

	for _, a := range rp.Actions {
		res := e.Step(a)
		if visit != nil {
			visit(res)
		}
	}

	snap := e.Snapshot()
	return Result{
		Score:  e.Score(),
		Steps:  e.Steps(),
		Reason: e.Reason(),
		Hash:   snap.Hash(),
	}, nil
}

// Verify re-simulates the replay and compares the result with the
// recorded outcome. Disagreements wrap ErrMismatch.
func Verify(rp Replay) (Result, error) {
	res, err := Run(rp, nil)
	if err != nil {
		return res, err
	}

	switch {
	case res.Score != rp.Score:
		return res, fmt.Errorf("%w: score %d, recorded %d", ErrMismatch, res.Score, rp.Score)
	case res.Steps != rp.Steps:
		return res, fmt.Errorf("%w: steps %d, recorded %d", ErrMismatch, res.Steps, rp.Steps)
	case res.Reason != rp.Reason:
		return res, fmt.Errorf("%w: reason %q, recorded %q", ErrMismatch, res.Reason, rp.Reason)
	case res.Hash != rp.Hash:
		return res, fmt.Errorf("%w: state hash %d, recorded %d", ErrMismatch, res.Hash, rp.Hash)
	}
	return res, nil
}
