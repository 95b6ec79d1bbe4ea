package center

import (
	"errors"
	"strings"
)

// Domain errors
var (
	ErrEmptyID   = errors.New("center ID cannot be empty")
	ErrEmptyName = errors.New("center name cannot be empty")
	ErrNoSchools = errors.New("center must have at least one affiliated school")
)

// Center represents a physical youth community location with its own
// schedule and roster subset. Static reference data, seeded at startup.
type Center struct {
	ID      string
	Name    string
	Color   string // hex color tag for the UI
	Schools []string
}

// Validate checks if the Center has valid data.
// PRE: Center struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Center) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Schools) == 0 {
		return ErrNoSchools
	}
	return nil
}

// ServesSchool returns true if the school is affiliated with this center.
// INVARIANT: Center fields are not mutated
func (c *Center) ServesSchool(school string) bool {
	for _, s := range c.Schools {
		if strings.EqualFold(s, school) {
			return true
		}
	}
	return false
}
