// Package missions holds the catalog of historical trading scenarios players can attempt.
package missions

import (
	"errors"
	"fmt"
	"time"

	"github.com/aristath/hermes/internal/domain"
)

// ErrMissionNotFound is returned when a mission id is not in the catalog
var ErrMissionNotFound = errors.New("mission not found")

// Difficulty grades how hard a mission is to win
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Definition describes one mission. Definitions are immutable once the catalog is built.
type Definition struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Symbol              string     `json:"symbol"`
	StartDate           string     `json:"startDate"` // YYYY-MM-DD
	DurationDays        int        `json:"durationDays"`
	TargetReturnPercent float64    `json:"targetReturnPercent"`
	Difficulty          Difficulty `json:"difficulty"`
	Description         string     `json:"description"`
}

// Validate checks the invariants every catalog entry must hold
func (d Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("mission id is required")
	}
	if d.Symbol == "" {
		return fmt.Errorf("mission %s: symbol is required", d.ID)
	}
	if _, err := time.Parse(domain.DateLayout, d.StartDate); err != nil {
		return fmt.Errorf("mission %s: invalid start date %q: %w", d.ID, d.StartDate, err)
	}
	if d.DurationDays <= 0 {
		return fmt.Errorf("mission %s: duration must be positive, got %d", d.ID, d.DurationDays)
	}
	if d.TargetReturnPercent <= 0 {
		return fmt.Errorf("mission %s: target return must be positive, got %.2f", d.ID, d.TargetReturnPercent)
	}
	switch d.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return fmt.Errorf("mission %s: unknown difficulty %q", d.ID, d.Difficulty)
	}
	return nil
}

// Catalog is a read-only, ordered registry of mission definitions
type Catalog struct {
	ordered []Definition
	byID    map[string]Definition
}

// NewCatalog builds a catalog, rejecting invalid or duplicate definitions
func NewCatalog(definitions []Definition) (*Catalog, error) {
	c := &Catalog{
		ordered: make([]Definition, 0, len(definitions)),
		byID:    make(map[string]Definition, len(definitions)),
	}

	for _, d := range definitions {
		d.Symbol = domain.NormalizeSymbol(d.Symbol)
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.byID[d.ID]; exists {
			return nil, fmt.Errorf("duplicate mission id: %s", d.ID)
		}
		c.ordered = append(c.ordered, d)
		c.byID[d.ID] = d
	}

	return c, nil
}

// DefaultCatalog returns the catalog of built-in missions
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultMissions())
	if err != nil {
		// Built-in definitions are static; an error here is a programming mistake
		panic(err)
	}
	return c
}

// List returns the missions in display order. The returned slice is a copy.
func (c *Catalog) List() []Definition {
	out := make([]Definition, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Get looks a mission up by id
func (c *Catalog) Get(id string) (Definition, error) {
	d, ok := c.byID[id]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrMissionNotFound, id)
	}
	return d, nil
}

// Symbols returns the distinct symbols referenced by the catalog, in display order
func (c *Catalog) Symbols() []string {
	seen := make(map[string]bool, len(c.ordered))
	symbols := make([]string, 0, len(c.ordered))
	for _, d := range c.ordered {
		if !seen[d.Symbol] {
			seen[d.Symbol] = true
			symbols = append(symbols, d.Symbol)
		}
	}
	return symbols
}
