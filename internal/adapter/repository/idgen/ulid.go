// Package idgen assigns entry ids for the store adapters.
package idgen

import (
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates ULID entry ids. ULIDs sort by creation time and
// ulid.Make keeps entropy monotonic within a millisecond, so the id
// tie-break keeps same-day entries in insertion order.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate returns a new ULID string.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
