package world

import "sync/atomic"

// GUID ranges:
//
//	0x0000_0000_0000_0001 - 0x0000_FFFF_FFFF_FFFF: characters (assigned by the account database)
//	0xF130_0000_0000_0001 and up:                  creatures spawned at runtime
const creatureGUIDBase uint64 = 0xF130_0000_0000_0000

// GUIDGenerator hands out guids for runtime objects.
// Safe for concurrent use.
type GUIDGenerator struct {
	nextCreature atomic.Uint64
}

// NewGUIDGenerator creates a generator at the start of the creature range.
func NewGUIDGenerator() *GUIDGenerator {
	g := &GUIDGenerator{}
	g.nextCreature.Store(creatureGUIDBase)
	return g
}

// NextCreature returns a fresh creature guid.
func (g *GUIDGenerator) NextCreature() uint64 {
	return g.nextCreature.Add(1)
}

// IsCreatureGUID reports whether guid lies in the runtime creature range.
func IsCreatureGUID(guid uint64) bool {
	return guid > creatureGUIDBase
}
