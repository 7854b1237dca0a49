// Package universe provides the named ticker groups offered for scoring and
// the cached price history behind them.
package universe

import (
	"sort"
	"strings"
)

// Group is a named list of tickers
type Group struct {
	Name    string   `json:"name"`
	Tickers []string `json:"tickers"`
}

// DefaultGroups returns the built-in stock universes
func DefaultGroups() []Group {
	return []Group{
		{
			Name:    "US Mega Cap",
			Tickers: []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "ORCL"},
		},
		{
			Name:    "Semiconductors",
			Tickers: []string{"NVDA", "AMD", "INTC", "TSM", "AVGO"},
		},
	}
}

// Registry resolves universes by name. It is read-only after construction.
type Registry struct {
	groups []Group
	byName map[string]int
}

// NewRegistry creates a registry over groups, keeping their order
func NewRegistry(groups []Group) *Registry {
	r := &Registry{
		groups: make([]Group, 0, len(groups)),
		byName: make(map[string]int, len(groups)),
	}
	for _, g := range groups {
		key := strings.ToLower(strings.TrimSpace(g.Name))
		if _, exists := r.byName[key]; exists {
			continue
		}
		r.byName[key] = len(r.groups)
		r.groups = append(r.groups, Group{
			Name:    g.Name,
			Tickers: append([]string(nil), g.Tickers...),
		})
	}
	return r
}

// Names returns the universe names in registration order
func (r *Registry) Names() []string {
	names := make([]string, len(r.groups))
	for i, g := range r.groups {
		names[i] = g.Name
	}
	return names
}

// Groups returns a copy of every universe
func (r *Registry) Groups() []Group {
	groups := make([]Group, len(r.groups))
	for i, g := range r.groups {
		groups[i] = Group{Name: g.Name, Tickers: append([]string(nil), g.Tickers...)}
	}
	return groups
}

// Tickers returns the tickers of a universe. Names match case-insensitively.
func (r *Registry) Tickers(name string) ([]string, bool) {
	idx, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	return append([]string(nil), r.groups[idx].Tickers...), true
}

// AllTickers returns the sorted, de-duplicated union of every universe
func (r *Registry) AllTickers() []string {
	seen := make(map[string]bool)
	for _, g := range r.groups {
		for _, t := range g.Tickers {
			seen[t] = true
		}
	}

	tickers := make([]string, 0, len(seen))
	for t := range seen {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}
