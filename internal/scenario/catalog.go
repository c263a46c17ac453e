// Package scenario loads the catalog of threat-modeling exercises.
package scenario

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/threatscope/core/internal/models"
)

// ErrNotFound is returned when a scenario id is not in the catalog.
var ErrNotFound = errors.New("scenario not found")

//go:embed scenarios.yaml
var defaultScenariosYAML []byte

type document struct {
	Scenarios []models.Scenario `yaml:"scenarios"`
}

// Catalog is an immutable, ordered set of scenarios.
type Catalog struct {
	scenarios []models.Scenario
	byID      map[string]int
}

// Filter narrows List. Empty fields match everything.
type Filter struct {
	Category   string
	Difficulty string
	Tag        string
	Search     string
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultScenariosYAML)
	if err != nil {
		panic(fmt.Sprintf("scenario: embedded catalog: %v", err))
	}
	return c
}

// Load reads a catalog file. An empty path yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a catalog document. Scenario ids must be present and unique.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal scenarios: %w", err)
	}

	c := &Catalog{byID: make(map[string]int, len(doc.Scenarios))}
	for i, s := range doc.Scenarios {
		if s.ID == "" {
			return nil, fmt.Errorf("scenario %d missing id", i)
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate scenario id %q", s.ID)
		}
		if err := s.ScoringCriteria.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", s.ID, err)
		}
		if s.ScoringCriteria.IsZero() {
			s.ScoringCriteria = models.DefaultCriteria()
		}
		c.byID[s.ID] = len(c.scenarios)
		c.scenarios = append(c.scenarios, s)
	}
	return c, nil
}

// Scenario returns the scenario with the given id, published or not.
func (c *Catalog) Scenario(_ context.Context, id string) (*models.Scenario, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	s := c.scenarios[i]
	s.Tags = slices.Clone(s.Tags)
	return &s, nil
}

// List returns the published scenarios matching f in catalog order.
func (c *Catalog) List(f Filter) []models.Scenario {
	out := []models.Scenario{}
	for _, s := range c.scenarios {
		if s.Published && f.matches(s) {
			s.Tags = slices.Clone(s.Tags)
			out = append(out, s)
		}
	}
	return out
}

// Len is the number of scenarios, published or not.
func (c *Catalog) Len() int {
	return len(c.scenarios)
}

func (f Filter) matches(s models.Scenario) bool {
	if f.Category != "" && !strings.EqualFold(f.Category, s.Category) {
		return false
	}
	if f.Difficulty != "" && !strings.EqualFold(f.Difficulty, s.Difficulty) {
		return false
	}
	if f.Tag != "" && !slices.ContainsFunc(s.Tags, func(t string) bool { return strings.EqualFold(t, f.Tag) }) {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(s.Title), q) &&
			!strings.Contains(strings.ToLower(s.Description), q) &&
			!slices.Contains(s.Tags, f.Search) {
			return false
		}
	}
	return true
}
