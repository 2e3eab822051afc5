package analyzers

import (
	"sync"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
)

// languageAny registers a unit for every language.
const languageAny = "*"

// Registry maps (language, category) to the analyzer units able to serve the
// pair. A pair with no units resolves to an empty set, never an error:
// absence of a rule-set for an exotic language must not fail a run.
type Registry struct {
	mu    sync.RWMutex
	units map[string]map[analysis.Category][]Unit
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		units: make(map[string]map[analysis.Category][]Unit),
	}
}

// Register adds a unit for the given languages. With no languages, the unit
// serves every language.
func (r *Registry) Register(unit Unit, languages ...string) {
	if len(languages) == 0 {
		languages = []string{languageAny}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, lang := range languages {
		byCategory, ok := r.units[lang]
		if !ok {
			byCategory = make(map[analysis.Category][]Unit)
			r.units[lang] = byCategory
		}

		byCategory[unit.Category()] = append(byCategory[unit.Category()], unit)
	}
}

// Resolve returns the units serving the given language and categories, in
// category order then registration order. Language-wildcard units follow
// language-specific ones within each category.
func (r *Registry) Resolve(language string, categories []analysis.Category) []Unit {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var resolved []Unit

	for _, cat := range categories {
		if byCategory, ok := r.units[language]; ok {
			resolved = append(resolved, byCategory[cat]...)
		}

		if byCategory, ok := r.units[languageAny]; ok {
			resolved = append(resolved, byCategory[cat]...)
		}
	}

	return resolved
}
