package identifiers

import (
	"github.com/google/uuid"
)

// DefaultPrefix is prepended to generated identifiers when no prefix is configured
const DefaultPrefix = "OL"

// Generator creates fresh, time-ordered order list identifiers.
// It is safe for concurrent use.
type Generator struct {
	prefix string
}

// NewGenerator creates a generator whose identifiers read "<prefix>-<uuid v7>".
// An empty prefix yields the bare UUID.
func NewGenerator(prefix string) *Generator {
	return &Generator{prefix: prefix}
}

// Prefix returns the configured prefix
func (g *Generator) Prefix() string { return g.prefix }

// Next returns a new identifier
func (g *Generator) Next() OrderListID {
	u, err := uuid.NewV7()
	if err != nil {
		// v7 only fails when the random source does
		u = uuid.New()
	}
	if g.prefix == "" {
		return NewOrderListID(u.String())
	}
	return NewOrderListID(g.prefix + "-" + u.String())
}
