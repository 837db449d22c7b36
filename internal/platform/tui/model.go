package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/fruitdrop/internal/config"
	"github.com/vovakirdan/fruitdrop/internal/core"
	"github.com/vovakirdan/fruitdrop/internal/env"
	"github.com/vovakirdan/fruitdrop/internal/render"
	"github.com/vovakirdan/fruitdrop/internal/replay"
	"github.com/vovakirdan/fruitdrop/internal/storage"
)

// DefaultPlayer is the name human episodes are stored under.
const DefaultPlayer = "human"

const playHint = "←/→ move  space drop  p pause  r restart  q quit"

// Options configures a play session.
type Options struct {
	Config  config.Config
	Runtime core.RuntimeConfig
	Store   *storage.Store // nil disables score persistence
	Player  string
	// RecordPath, if set, receives a replay of each finished episode.
	RecordPath    string
	ScreenshotDir string
	Logger        *log.Logger
}

// Model is the Bubble Tea model for a fruit-drop session.
type Model struct {
	env      *env.Env
	renderer *render.Renderer
	screen   *core.Screen
	keys     *KeyMapper
	store    *storage.Store
	logger   *log.Logger

	cfg     config.Config
	runtime core.RuntimeConfig
	player  string

	obs       env.Observation
	input     core.InputFrame
	hold      moveHold
	holdTicks int
	paused    bool
	merges    int
	saved     bool
	highScore int
	quitting  bool

	recorder      *replay.Recorder
	recordPath    string
	screenshotDir string
}

// NewModel creates a session. A zero Runtime.Seed picks a time-based seed.
func NewModel(opts Options) (Model, error) {
	rt := opts.Runtime
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}
	if rt.TickRate <= 0 {
		rt.TickRate = opts.Config.Screen.FPS
	}

	cfg := opts.Config
	cfg.Seed = rt.Seed
	e, err := env.New(cfg)
	if err != nil {
		return Model{}, fmt.Errorf("tui: %w", err)
	}

	player := opts.Player
	if player == "" {
		player = DefaultPlayer
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	screenshotDir := opts.ScreenshotDir
	if screenshotDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			screenshotDir = filepath.Join(home, ".fruitdrop", "screenshots")
		}
	}

	m := Model{
		env:           e,
		renderer:      render.New(cfg),
		screen:        core.NewScreen(rt.ScreenW, rt.ScreenH),
		keys:          NewKeyMapper(),
		store:         opts.Store,
		logger:        logger,
		cfg:           cfg,
		runtime:       rt,
		player:        player,
		obs:           e.Observation(),
		input:         core.NewInputFrame(),
		holdTicks:     holdTicks(rt.TickRate),
		recordPath:    opts.RecordPath,
		screenshotDir: screenshotDir,
	}
	m.loadHighScore()
	if m.recordPath != "" {
		m.recorder = replay.NewRecorder(cfg, player)
	}
	return m, nil
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.runtime.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.runtime.ScreenW = msg.Width
		m.runtime.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		m.tick()
		return m, tickCmd(m.runtime.TickRate)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch action := m.keys.MapKey(msg); action {
	case core.ActionQuit:
		m.saveReplay()
		m.quitting = true
		return m, tea.Quit
	case core.ActionSnap:
		m.saveScreenshot()
	case core.ActionLeft:
		m.hold.press(-1, m.holdTicks)
	case core.ActionRight:
		m.hold.press(1, m.holdTicks)
	case core.ActionPause:
		if !m.env.Done() {
			m.paused = !m.paused
			m.hold.release()
		}
	case core.ActionDrop, core.ActionReset:
		m.input.Set(action)
	}
	return m, nil
}

// tick advances the episode by one step using the buffered input.
func (m *Model) tick() {
	defer m.input.Clear()

	if m.input.Has(core.ActionReset) {
		m.restart()
		return
	}
	if m.paused || m.env.Done() {
		return
	}

	a := env.Action{Move: m.hold.next()}
	if m.input.Has(core.ActionDrop) {
		a.Drop = 1
	}
	if m.recorder != nil {
		m.recorder.Record(a)
	}

	res := m.env.Step(a)
	m.obs = res.Obs
	m.merges += res.Obs.LastMerges

	if res.Done && !m.saved {
		m.saveEpisode()
		m.saveReplay()
		m.saved = true
	}
}

// restart begins a new episode with a fresh time-based seed.
func (m *Model) restart() {
	if !m.saved {
		m.saveReplay()
	}
	m.cfg.Seed = time.Now().UnixNano()
	m.env.Seed(m.cfg.Seed)
	m.obs = m.env.Reset()
	m.merges = 0
	m.saved = false
	m.paused = false
	m.hold.release()
	if m.recordPath != "" {
		m.recorder = replay.NewRecorder(m.cfg, m.player)
	}
}

func (m *Model) saveEpisode() {
	if m.store == nil {
		return
	}
	_, err := m.store.SaveEpisode(storage.Episode{
		Player:  m.player,
		Seed:    m.cfg.Seed,
		Score:   m.env.Score(),
		Steps:   m.env.Steps(),
		Merges:  m.merges,
		MaxType: m.env.MaxType(),
		Reason:  m.env.Reason(),
	})
	if err != nil {
		m.logger.Warn("could not save episode", "player", m.player, "error", err)
		return
	}
	m.logger.Info("episode saved", "player", m.player, "score", m.env.Score(), "reason", m.env.Reason())
	m.loadHighScore()
}

func (m *Model) loadHighScore() {
	if m.store == nil {
		return
	}
	high, err := m.store.HighScore(m.player)
	if err != nil {
		m.logger.Warn("could not load high score", "player", m.player, "error", err)
		return
	}
	m.highScore = high
}

// saveReplay writes the current recording when one is active and non-empty.
func (m *Model) saveReplay() {
	if m.recorder == nil || m.recorder.Len() == 0 {
		return
	}
	if err := replay.Save(m.recordPath, m.recorder.Finish(m.env)); err != nil {
		m.logger.Warn("could not save replay", "path", m.recordPath, "error", err)
		return
	}
	m.logger.Info("replay saved", "path", m.recordPath, "steps", m.env.Steps())
}

// saveScreenshot writes the current frame as plain text.
func (m *Model) saveScreenshot() {
	if m.screenshotDir == "" {
		return
	}
	m.draw()

	if err := os.MkdirAll(m.screenshotDir, 0o755); err != nil {
		m.logger.Warn("could not create screenshot directory", "error", err)
		return
	}
	name := fmt.Sprintf("fruitdrop_%s.txt", time.Now().Format("20060102_150405"))
	path := filepath.Join(m.screenshotDir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
	}
}

func (m Model) frame() render.Frame {
	return render.Frame{
		Obs:       m.obs,
		Done:      m.env.Done(),
		Reason:    m.env.Reason(),
		Paused:    m.paused,
		HighScore: m.highScore,
		Hint:      playHint,
	}
}

func (m Model) draw() {
	m.renderer.Render(m.screen, m.frame())
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.draw()
	return RenderScreen(m.screen)
}

// Score returns the score of the current episode.
func (m Model) Score() int { return m.env.Score() }

// Done reports whether the current episode is over.
func (m Model) Done() bool { return m.env.Done() }

// Run starts a local Bubble Tea program.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
