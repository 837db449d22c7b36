package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/fruitdrop/internal/render"
	"github.com/vovakirdan/fruitdrop/internal/storage"
)

const (
	maxBoardRows = 100
	boardChrome  = 10 // title, tabs, stats, borders, help
)

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	tabStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	activeTabStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	statsStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	boardFrameStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	emptyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(1, 2)
	helpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// BoardKeyMap defines the key bindings for the scoreboard.
type BoardKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Next key.Binding
	Prev key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k BoardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.Prev, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k BoardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Next, k.Prev, k.Quit}}
}

// DefaultBoardKeyMap returns default key bindings.
func DefaultBoardKeyMap() BoardKeyMap {
	return BoardKeyMap{
		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Next: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next player")),
		Prev: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab", "prev player")),
		Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// BoardModel shows stored episodes with one tab per player.
type BoardModel struct {
	store    *storage.Store
	players  []string
	cursor   int
	episodes []storage.Episode
	stats    *storage.PlayerStats
	err      error

	table  table.Model
	help   help.Model
	keys   BoardKeyMap
	width  int
	height int
}

// NewBoardModel creates a scoreboard over store.
func NewBoardModel(store *storage.Store, width, height int) BoardModel {
	m := BoardModel{
		store:  store,
		help:   help.New(),
		keys:   DefaultBoardKeyMap(),
		width:  width,
		height: height,
	}
	m.table = m.newTable()

	if store != nil {
		m.players, m.err = store.Players()
	}
	m.load()
	return m
}

func (m *BoardModel) newTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Score", Width: 8},
		{Title: "Steps", Width: 7},
		{Title: "Merges", Width: 7},
		{Title: "Max", Width: 4},
		{Title: "Reason", Width: 11},
		{Title: "Date", Width: 13},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-boardChrome, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// Player returns the selected player, or "" when the board is empty.
func (m BoardModel) Player() string {
	if len(m.players) == 0 {
		return ""
	}
	return m.players[m.cursor]
}

// load fetches episodes and stats of the selected player.
func (m *BoardModel) load() {
	m.episodes, m.stats = nil, nil
	player := m.Player()
	if m.store != nil && player != "" {
		m.episodes, m.err = m.store.TopEpisodes(player, maxBoardRows)
		if m.err == nil {
			m.stats, m.err = m.store.PlayerStats(player)
		}
	}

	rows := make([]table.Row, len(m.episodes))
	for i, ep := range m.episodes {
		reason := ep.Reason
		if reason == "" {
			reason = "-"
		}
		rows[i] = table.Row{
			strconv.Itoa(i + 1),
			strconv.Itoa(ep.Score),
			strconv.Itoa(ep.Steps),
			strconv.Itoa(ep.Merges),
			string(render.TypeGlyph(ep.MaxType)),
			strings.ReplaceAll(reason, "_", " "),
			ep.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m BoardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.step(1)
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.step(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetHeight(max(m.height-boardChrome, 3))
		m.help.Width = msg.Width
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// step moves the player tab cursor with wraparound.
func (m *BoardModel) step(delta int) {
	n := len(m.players)
	if n == 0 {
		return
	}
	m.cursor = ((m.cursor+delta)%n + n) % n
	m.load()
}

// View renders the scoreboard.
func (m BoardModel) View() string {
	var b strings.Builder

	b.WriteString(boardTitleStyle.Render("FRUITDROP HIGH SCORES"))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(emptyStyle.Render("Could not read scores: " + m.err.Error()))
	case len(m.players) == 0:
		b.WriteString(emptyStyle.Render("No episodes recorded yet.\nPlay a game or run a policy first!"))
	default:
		tabs := make([]string, len(m.players))
		for i, p := range m.players {
			if i == m.cursor {
				tabs[i] = activeTabStyle.Render(p)
			} else {
				tabs[i] = tabStyle.Render(p)
			}
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
		b.WriteString("\n")
		if m.stats != nil {
			b.WriteString(statsStyle.Render(fmt.Sprintf("%d episodes  best %d  avg %.1f  avg steps %.0f",
				m.stats.Episodes, m.stats.HighScore, m.stats.AvgScore, m.stats.AvgSteps)))
		}
		b.WriteString("\n")
		b.WriteString(boardFrameStyle.Render(m.table.View()))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// RunBoard runs the scoreboard until the user quits.
func RunBoard(store *storage.Store, width, height int) error {
	p := tea.NewProgram(NewBoardModel(store, width, height), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
