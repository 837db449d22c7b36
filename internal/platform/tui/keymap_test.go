package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/fruitdrop/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want core.Action
	}{
		{"left arrow", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft},
		{"h", runeKey('h'), core.ActionLeft},
		{"a", runeKey('a'), core.ActionLeft},
		{"right arrow", tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight},
		{"l", runeKey('l'), core.ActionRight},
		{"d", runeKey('d'), core.ActionRight},
		{"space", runeKey(' '), core.ActionDrop},
		{"j", runeKey('j'), core.ActionDrop},
		{"down", tea.KeyMsg{Type: tea.KeyDown}, core.ActionDrop},
		{"reset", runeKey('r'), core.ActionReset},
		{"pause", runeKey('p'), core.ActionPause},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionPause},
		{"quit", runeKey('q'), core.ActionQuit},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{"ctrl+s", tea.KeyMsg{Type: tea.KeyCtrlS}, core.ActionSnap},
		{"unbound", runeKey('z'), core.ActionNone},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := km.MapKey(tc.msg); got != tc.want {
				t.Errorf("MapKey(%q) = %v, expected %v", tc.msg.String(), got, tc.want)
			}
		})
	}
}

func TestHoldTicks(t *testing.T) {
	tests := []struct {
		rate int
		want int
	}{
		{60, 9},
		{30, 4},
		{2, 1},
		{0, 1},
	}
	for _, tc := range tests {
		if got := holdTicks(tc.rate); got != tc.want {
			t.Errorf("holdTicks(%d) = %d, expected %d", tc.rate, got, tc.want)
		}
	}
}

func TestMoveHold(t *testing.T) {
	var h moveHold
	if h.next() != 0 {
		t.Error("idle hold should not move")
	}

	h.press(-1, 2)
	if h.next() != -1 || h.next() != -1 || h.next() != 0 {
		t.Error("hold should last exactly two ticks")
	}

	h.press(1, 5)
	h.press(-1, 5)
	if h.next() != -1 {
		t.Error("latest press should win")
	}

	h.release()
	if h.next() != 0 {
		t.Error("released hold should not move")
	}
}
