package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/fruitdrop/internal/core"
)

// holdWindow is how long one press of a move key keeps the cursor moving.
// Terminals report no key-up events, so auto-repeat refreshes the hold.
const holdWindow = 150 * time.Millisecond

// KeyMapper translates Bubble Tea key messages to actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to an action (may be ActionNone).
func (km *KeyMapper) MapKey(msg tea.KeyMsg) core.Action {
	switch msg.String() {
	case "ctrl+c", "q":
		return core.ActionQuit
	case "ctrl+s":
		return core.ActionSnap
	case "left", "h", "a":
		return core.ActionLeft
	case "right", "l", "d":
		return core.ActionRight
	case " ", "space", "j", "down":
		return core.ActionDrop
	case "r":
		return core.ActionReset
	case "p", "esc":
		return core.ActionPause
	}
	return core.ActionNone
}

// holdTicks converts holdWindow to ticks at the given rate, at least one.
func holdTicks(tickRate int) int {
	if tickRate <= 0 {
		return 1
	}
	return core.Max(1, int(holdWindow*time.Duration(tickRate)/time.Second))
}

// moveHold keeps a direction active for a number of ticks after a press.
type moveHold struct {
	dir   float64
	ticks int
}

func (h *moveHold) press(dir float64, ticks int) {
	h.dir = dir
	h.ticks = ticks
}

// next returns the move for this tick and consumes one tick of the hold.
func (h *moveHold) next() float64 {
	if h.ticks <= 0 {
		return 0
	}
	h.ticks--
	return h.dir
}

func (h *moveHold) release() {
	h.ticks = 0
}
