// Package registry provides a global registry for policy factories.
// Policies register themselves in init() functions, so the runner and CLI
// can discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/fruitdrop/internal/env"
)

// Policy maps observations to actions for headless episodes.
// Policies must be deterministic given the seed passed to Reset so that
// recorded runs can be replayed.
type Policy interface {
	// ID returns a unique identifier (e.g., "random", "greedy").
	// Used for CLI flags and as the player name in score storage.
	ID() string

	// Description returns a one-line human-readable summary.
	Description() string

	// Reset prepares the policy for a new episode.
	Reset(seed int64)

	// Act chooses the next action.
	Act(obs env.Observation) env.Action
}

// PolicyInfo contains metadata about a registered policy.
type PolicyInfo struct {
	ID          string
	Description string
}

// Factory is a function that creates a new instance of a policy.
type Factory func() Policy

var (
	factories    = make(map[string]Factory)
	descriptions = make(map[string]string)
	mu           sync.RWMutex
)

// Register adds a policy factory to the registry.
// Typically called from a policy's init() function.
// Panics if a policy with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: policy %q already registered", id))
	}

	factories[id] = f

	// Get description by creating a temporary instance
	p := f()
	descriptions[id] = p.Description()
}

// List returns information about all registered policies, sorted by ID.
func List() []PolicyInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]PolicyInfo, 0, len(factories))
	for id := range factories {
		result = append(result, PolicyInfo{
			ID:          id,
			Description: descriptions[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new policy by its ID.
// Returns an error if the policy ID is not registered.
func Create(id string) (Policy, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown policy %q", id)
	}

	return f(), nil
}

// Exists checks if a policy with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
