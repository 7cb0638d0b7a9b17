// Package pathfinder implements the A*-based block-level goal-seeking
// search and per-tick execution described in spec.md section 4.9: a graph
// of relative block positions, a lazily-expanded successors function, a
// binary-heap-driven A* search with dual timeouts and partial-path
// fallback, and a separate per-tick execution/obstruction-patching system.
//
// No teacher analogue exists (dragonfly has no client-side goal-seeking
// pathfinder); the algorithm follows spec.md section 4.9/8 directly, reusing
// this project's established idioms: the entity store's generational-handle
// style for node bookkeeping (here, a slice-backed index rather than a map
// of position structs, to keep A* state compact per the spec's "relative to
// an origin" requirement) and slog for give-up/partial-path logging.
// Positions are integer block coordinates (Pos), not mathgl vectors.
package pathfinder

import "fmt"

// Pos is a block position relative to the search's origin (the last reached
// node when a run starts, or absolute world coordinates for a fresh run),
// per spec.md section 4.9 "Nodes are block positions expressed as signed
// (x,y,z) triples relative to an origin".
type Pos struct {
	X, Y, Z int32
}

func (p Pos) Add(d Pos) Pos { return Pos{p.X + d.X, p.Y + d.Y, p.Z + d.Z} }
func (p Pos) String() string { return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z) }

// key packs Pos into a single int64 for use as an intintmap key: 21 bits per
// axis (a ±1,048,576 block range, comfortably wider than any single search),
// offset to keep the packed value non-negative-sign-sensitive under the
// two's-complement shift.
func (p Pos) key() int64 {
	const bias = 1 << 20
	x := int64(p.X) + bias
	y := int64(p.Y) + bias
	z := int64(p.Z) + bias
	return (x << 42) | (y << 21) | z
}
