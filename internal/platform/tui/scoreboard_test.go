package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/fruitdrop/internal/storage"
)

func TestBoardModelTabs(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "board.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	for _, ep := range []storage.Episode{
		{Player: "greedy", Score: 120, Steps: 900, Reason: "lose_line"},
		{Player: "greedy", Score: 80, Steps: 700, Reason: "max_fruits"},
		{Player: "human", Score: 42, Steps: 300, Reason: "lose_line"},
	} {
		if _, err := store.SaveEpisode(ep); err != nil {
			t.Fatal(err)
		}
	}

	m := NewBoardModel(store, 100, 30)
	if m.Player() != "greedy" || len(m.episodes) != 2 {
		t.Fatalf("initial tab = %q with %d episodes", m.Player(), len(m.episodes))
	}
	view := m.View()
	for _, want := range []string{"HIGH SCORES", "greedy", "human", "120", "lose line"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q", want)
		}
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(BoardModel)
	if m.Player() != "human" || len(m.episodes) != 1 || m.stats.HighScore != 42 {
		t.Errorf("after tab: player %q, %d episodes", m.Player(), len(m.episodes))
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(BoardModel)
	if m.Player() != "greedy" {
		t.Errorf("tab should wrap around, got %q", m.Player())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(BoardModel)
	if m.Player() != "human" {
		t.Errorf("shift+tab should wrap backwards, got %q", m.Player())
	}

	_, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestBoardModelEmpty(t *testing.T) {
	m := NewBoardModel(nil, 80, 24)
	if m.Player() != "" {
		t.Errorf("Player() = %q on empty board", m.Player())
	}
	if !strings.Contains(m.View(), "No episodes recorded yet") {
		t.Error("empty board should say so")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if next.(BoardModel).Player() != "" {
		t.Error("tab on empty board should be a no-op")
	}
}

func TestSessionPlayer(t *testing.T) {
	if sessionPlayer("alice") != "ssh:alice" {
		t.Error("named user")
	}
	if sessionPlayer("") != "ssh:guest" {
		t.Error("anonymous user")
	}
}
