// Package builtin assembles the built-in heuristic analyzer units into a
// ready-to-use registry.
package builtin

import (
	"github.com/Sumatoshi-tech/codescope/internal/analyzers"
	"github.com/Sumatoshi-tech/codescope/internal/analyzers/maintainability"
	"github.com/Sumatoshi-tech/codescope/internal/analyzers/performance"
	"github.com/Sumatoshi-tech/codescope/internal/analyzers/quality"
	"github.com/Sumatoshi-tech/codescope/internal/analyzers/security"
)

// Units returns the built-in units, one per category, in canonical category
// order.
func Units() []analyzers.Unit {
	return []analyzers.Unit{
		quality.New(),
		security.New(),
		performance.New(),
		maintainability.New(),
	}
}

// Registry returns a registry populated with the built-in units. The
// built-ins are deterministic and serve every language.
func Registry() *analyzers.Registry {
	reg := analyzers.NewRegistry()

	for _, unit := range Units() {
		reg.Register(unit)
	}

	return reg
}
