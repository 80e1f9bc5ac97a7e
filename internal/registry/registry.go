// Package registry provides a global registry for named control policies.
// Policies register themselves in init() functions, allowing the CLI to
// pit built-in baselines against trained models without hardcoded
// dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/flappy-neat/internal/core"
)

// PolicyInfo contains metadata about a registered policy.
type PolicyInfo struct {
	Name        string
	Description string
}

// Factory creates a new decider. The seed feeds any randomness the policy
// uses so sessions stay reproducible.
type Factory func(seed int64) core.Decider

type entry struct {
	factory     Factory
	description string
}

var (
	policies = make(map[string]entry)
	mu       sync.RWMutex
)

// Register adds a policy factory to the registry.
// Panics if a policy with the same name is already registered.
func Register(name, description string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := policies[name]; exists {
		panic(fmt.Sprintf("registry: policy %q already registered", name))
	}
	policies[name] = entry{factory: f, description: description}
}

// List returns information about all registered policies, sorted by name.
func List() []PolicyInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]PolicyInfo, 0, len(policies))
	for name, e := range policies {
		result = append(result, PolicyInfo{
			Name:        name,
			Description: e.description,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Create instantiates a policy by name.
// Returns an error if the name is not registered.
func Create(name string, seed int64) (core.Decider, error) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := policies[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown policy %q", name)
	}

	return e.factory(seed), nil
}

// Exists checks if a policy with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := policies[name]
	return ok
}
