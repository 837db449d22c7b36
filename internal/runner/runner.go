// Package runner drives policies through headless episodes.
package runner

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/fruitdrop/internal/config"
	"github.com/vovakirdan/fruitdrop/internal/env"
	"github.com/vovakirdan/fruitdrop/internal/registry"
	"github.com/vovakirdan/fruitdrop/internal/replay"
	"github.com/vovakirdan/fruitdrop/internal/telemetry"
)

// ReasonTruncated marks an episode stopped by the step limit.
const ReasonTruncated = "truncated"

// Options controls a batch of episodes.
type Options struct {
	Policy   string
	Episodes int
	// Seed is the seed of the first episode; episode i uses Seed+i.
	Seed int64
	// MaxSteps truncates an episode; 0 means no limit.
	MaxSteps int
	// ReplayDir, if set, receives one replay file per episode.
	ReplayDir string
	Logger    *log.Logger
	// OnEpisode is called after every episode. A non-nil error aborts the run.
	OnEpisode func(EpisodeResult) error
}

// EpisodeResult describes one finished episode.
type EpisodeResult struct {
	Episode    int
	Player     string
	Seed       int64
	Score      int
	Steps      int
	Merges     int
	MaxType    int
	Fruits     int
	Reason     string
	Wall       time.Duration
	ReplayPath string
}

// Record converts the result to a telemetry row.
func (r EpisodeResult) Record() telemetry.EpisodeRecord {
	return telemetry.EpisodeRecord{
		Episode: r.Episode,
		Player:  r.Player,
		Seed:    r.Seed,
		Score:   r.Score,
		Steps:   r.Steps,
		Merges:  r.Merges,
		MaxType: r.MaxType,
		Fruits:  r.Fruits,
		Reason:  r.Reason,
		WallMS:  r.Wall.Milliseconds(),
	}
}

// Run plays opts.Episodes episodes sequentially. It stops between steps
// when ctx is cancelled and returns the episodes finished so far together
// with ctx.Err().
func Run(ctx context.Context, cfg config.Config, opts Options) ([]EpisodeResult, error) {
	if opts.Episodes <= 0 {
		return nil, fmt.Errorf("runner: episodes must be positive, got %d", opts.Episodes)
	}
	if opts.MaxSteps < 0 {
		return nil, fmt.Errorf("runner: max steps must not be negative, got %d", opts.MaxSteps)
	}
	policy, err := registry.Create(opts.Policy)
	if err != nil {
		return nil, fmt.Errorf("runner: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	results := make([]EpisodeResult, 0, opts.Episodes)
	for i := range opts.Episodes {
		epCfg := cfg
		epCfg.Seed = opts.Seed + int64(i)

		res, err := runEpisode(ctx, epCfg, policy, opts, i)
		if err != nil {
			return results, err
		}
		results = append(results, res)

		logger.Info("episode finished",
			"episode", res.Episode,
			"policy", res.Player,
			"seed", res.Seed,
			"score", res.Score,
			"steps", res.Steps,
			"merges", res.Merges,
			"reason", res.Reason,
		)

		if opts.OnEpisode != nil {
			if err := opts.OnEpisode(res); err != nil {
				return results, fmt.Errorf("runner: episode %d: %w", i, err)
			}
		}
	}
	return results, nil
}

func runEpisode(ctx context.Context, cfg config.Config, policy registry.Policy, opts Options, episode int) (EpisodeResult, error) {
	start := time.Now()

	e, err := env.New(cfg)
	if err != nil {
		return EpisodeResult{}, fmt.Errorf("runner: %w", err)
	}
	policy.Reset(cfg.Seed)

	var rec *replay.Recorder
	if opts.ReplayDir != "" {
		rec = replay.NewRecorder(cfg, policy.ID())
	}

	obs := e.Observation()
	merges := 0
	for !e.Done() {
		if opts.MaxSteps > 0 && e.Steps() >= opts.MaxSteps {
			break
		}
		if err := ctx.Err(); err != nil {
			return EpisodeResult{}, err
		}

		a := policy.Act(obs)
		if rec != nil {
			rec.Record(a)
		}
		res := e.Step(a)
		obs = res.Obs
		merges += obs.LastMerges
	}

	result := EpisodeResult{
		Episode: episode,
		Player:  policy.ID(),
		Seed:    cfg.Seed,
		Score:   e.Score(),
		Steps:   e.Steps(),
		Merges:  merges,
		MaxType: e.MaxType(),
		Fruits:  obs.NFruits,
		Reason:  e.Reason(),
		Wall:    time.Since(start),
	}
	if !e.Done() {
		result.Reason = ReasonTruncated
	}

	if rec != nil {
		path := filepath.Join(opts.ReplayDir, fmt.Sprintf("%s-%04d-seed%d.yaml", policy.ID(), episode, cfg.Seed))
		if err := replay.Save(path, rec.Finish(e)); err != nil {
			return EpisodeResult{}, fmt.Errorf("runner: %w", err)
		}
		result.ReplayPath = path
	}
	return result, nil
}
