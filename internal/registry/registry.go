// Package registry provides a registry for headless scenario factories.
// Scenarios register themselves in init() functions, allowing the CLI
// to discover and run them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-arena/internal/arena"
	"github.com/vovakirdan/tui-arena/internal/config"
	"github.com/vovakirdan/tui-arena/internal/protocol"
)

// Scenario is a scripted, deterministic run of the client simulation.
// It plays the part of both the player and the server: it presses inputs
// on the simulation and returns the inbound events a server would send.
type Scenario interface {
	// ID returns a unique identifier used on the command line (e.g., "duel").
	ID() string

	// Title returns a human-readable description.
	Title() string

	// Ticks is the number of fixed ticks the scenario runs for.
	Ticks() int

	// Setup adjusts the config before the simulation is built and returns
	// extra options. Options returned here override the runner's defaults.
	Setup(cfg *config.ArenaConfig) []arena.Option

	// Drive is called before every tick. It may manipulate the simulation's
	// input state and returns events to deliver as if from the server.
	Drive(tick int, sim *arena.Sim) []protocol.Inbound
}

// Info contains metadata about a registered scenario.
type Info struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a scenario.
type Factory func() Scenario

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a scenario factory to the registry.
// Typically called from an init() function.
// Panics if a scenario with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: scenario %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns information about all registered scenarios, sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(factories))
	for id := range factories {
		result = append(result, Info{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new scenario by its ID.
// Returns an error if the ID is not registered.
func Create(id string) (Scenario, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown scenario %q", id)
	}

	return f(), nil
}

// Exists checks if a scenario with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
