// Package registry provides a global registry for level assembly
// strategies. Strategies register themselves in init() functions, so the
// configured strategy name is resolved without hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"github.com/vovakirdan/quiz-runner/internal/config"
	"github.com/vovakirdan/quiz-runner/internal/level"
)

// ErrUnknownStrategy is returned by Create for unregistered names.
var ErrUnknownStrategy = errors.New("registry: unknown level strategy")

// Env is everything a factory may need to build an assembler.
type Env struct {
	Config config.QuizRunConfig
	Seed   int64
	// Maps holds authored map files. Factories fall back to the configured
	// map directory when it is nil.
	Maps fs.FS
}

// StrategyInfo contains metadata about a registered strategy.
type StrategyInfo struct {
	ID          string
	Description string
}

// Factory creates a new assembler.
type Factory func(env Env) (level.Assembler, error)

var (
	factories    = make(map[string]Factory)
	descriptions = make(map[string]string)
	mu           sync.RWMutex
)

// Register adds a strategy factory to the registry.
// Typically called from an init() function.
// Panics if a strategy with the same ID is already registered.
func Register(id, description string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: strategy %q already registered", id))
	}

	factories[id] = f
	descriptions[id] = description
}

// List returns information about all registered strategies, sorted by ID.
func List() []StrategyInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]StrategyInfo, 0, len(factories))
	for id := range factories {
		result = append(result, StrategyInfo{
			ID:          id,
			Description: descriptions[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create builds an assembler with the named strategy.
func Create(id string, env Env) (level.Assembler, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownStrategy, id)
	}
	asm, err := f(env)
	if err != nil {
		return nil, fmt.Errorf("registry: strategy %q: %w", id, err)
	}
	return asm, nil
}

// Exists checks if a strategy with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
