// Package world implements the client-side world/entity store: a
// chunk-by-position map, an entity table addressed by generational handles,
// and the "loaded-by" reference counting that lets a world be shared by more
// than one client (spec.md section 4.5 "Entity store", section 9 "Swarm").
//
// Grounded on server/world/world.go's World: a single RWMutex-guarded
// struct owning a `chunks map[ChunkPos]*Column` and an
// `entities map[*EntityHandle]*entityState`, generalised from dragonfly's
// single-owner authoritative world to a world that can be observed by
// multiple local clients at once (hence the per-chunk/per-entity observer
// sets instead of dragonfly's single implicit owner).
package world

import (
	"fmt"
	"sync"

	"github.com/dragonfly-bot/azalea/world/chunk"
	"github.com/dragonfly-bot/azalea/world/registry"
)

// Handle is an opaque, generational reference to an entity. Generation
// guards against a caller holding a stale Handle after the slot has been
// reused by a different entity, per spec.md section 4.5 "entity handles are
// generational".
type Handle struct {
	id  uint64
	gen uint32
}

func (h Handle) String() string { return fmt.Sprintf("entity#%d.%d", h.id, h.gen) }

// record is the entity-table slot backing a Handle.
type record struct {
	gen      uint32
	entity   any // *entity.Entity or *entity.LocalPlayer
	observed map[string]struct{}
}

// World holds everything the client knows about one dimension: its loaded
// chunks and entities, plus the registry-derived dimension type that gives
// the chunk layout its section count and minimum Y.
type World struct {
	mu sync.RWMutex

	dimension string
	holder    *registry.Holder

	sectionCount int
	minY         int
	airID        int32
	biomeID      int32

	chunks      map[chunk.Pos]*chunk.Chunk
	chunkObservers map[chunk.Pos]map[string]struct{}

	entities map[uint64]*record
	nextID   uint64
}

// New creates a World for dimension, deriving its chunk layout from the
// dimension-type registry entry named by dimensionType (falling back to a
// 384-tall, minY=-64 Overworld-shaped default if the registry entry is
// absent, so a World can be constructed before RegistryData arrives).
func New(dimension, dimensionType string, holder *registry.Holder, airID, defaultBiomeID int32) *World {
	w := &World{
		dimension:      dimension,
		holder:         holder,
		airID:          airID,
		biomeID:        defaultBiomeID,
		chunks:         map[chunk.Pos]*chunk.Chunk{},
		chunkObservers: map[chunk.Pos]map[string]struct{}{},
		entities:       map[uint64]*record{},
	}
	w.sectionCount, w.minY = 24, -64
	if holder != nil {
		if dt := holder.DimensionType(dimensionType); dt != nil {
			w.sectionCount = int(dt.Height) / 16
			w.minY = int(dt.MinY)
		}
	}
	return w
}

// Dimension returns the dimension identifier this World was constructed
// with (e.g. "minecraft:overworld").
func (w *World) Dimension() string { return w.dimension }

// AirID and DefaultBiomeID return the runtime ids this World fills empty
// paletted-container slots with, so callers decoding a chunk off the wire
// (which must match the container defaults this World was built with) don't
// have to guess or duplicate them.
func (w *World) AirID() int32         { return w.airID }
func (w *World) DefaultBiomeID() int32 { return w.biomeID }

// SectionCount and MinY return the vertical chunk layout this World derived
// from the dimension-type registry entry, for callers constructing or
// decoding a Chunk that must match it.
func (w *World) SectionCount() int { return w.sectionCount }
func (w *World) MinY() int         { return w.minY }

// Chunk returns the chunk at pos, loading a fresh empty one if it does not
// exist yet only when create is true.
func (w *World) Chunk(pos chunk.Pos, create bool) *chunk.Chunk {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.chunks[pos]
	if !ok && create {
		c = chunk.NewChunk(w.sectionCount, w.minY, w.airID, w.biomeID)
		w.chunks[pos] = c
	}
	return c
}

// SetChunk installs a decoded chunk at pos, replacing any existing one.
func (w *World) SetChunk(pos chunk.Pos, c *chunk.Chunk) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.chunks[pos] = c
}

// ObserveChunk records that observer (typically a client's display name or
// connection id) now depends on the chunk at pos, per spec.md section 9's
// shared-world coordinator.
func (w *World) ObserveChunk(pos chunk.Pos, observer string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	set, ok := w.chunkObservers[pos]
	if !ok {
		set = map[string]struct{}{}
		w.chunkObservers[pos] = set
	}
	set[observer] = struct{}{}
}

// UnobserveChunk removes observer's dependency on the chunk at pos,
// unloading and returning true if it was the last observer.
func (w *World) UnobserveChunk(pos chunk.Pos, observer string) (unloaded bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	set, ok := w.chunkObservers[pos]
	if !ok {
		return false
	}
	delete(set, observer)
	if len(set) > 0 {
		return false
	}
	delete(w.chunkObservers, pos)
	delete(w.chunks, pos)
	return true
}

// SpawnEntity allocates a fresh Handle for ent (either *entity.Entity or
// *entity.LocalPlayer) and records it as observed by observer.
func (w *World) SpawnEntity(ent any, observer string) Handle {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextID++
	id := w.nextID
	r := &record{gen: 1, entity: ent, observed: map[string]struct{}{observer: {}}}
	w.entities[id] = r
	return Handle{id: id, gen: r.gen}
}

// Entity returns the entity behind h, or nil, false if h's slot has been
// reused (generation mismatch) or removed.
func (w *World) Entity(h Handle) (any, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	r, ok := w.entities[h.id]
	if !ok || r.gen != h.gen {
		return nil, false
	}
	return r.entity, true
}

// ObserveEntity adds observer to h's observer set, returning false if h is
// stale.
func (w *World) ObserveEntity(h Handle, observer string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	r, ok := w.entities[h.id]
	if !ok || r.gen != h.gen {
		return false
	}
	r.observed[observer] = struct{}{}
	return true
}

// UnobserveEntity removes observer from h's observer set. When the set
// becomes empty the record is deleted; SpawnEntity never reuses an id, so
// any Handle still naming it no longer resolves.
func (w *World) UnobserveEntity(h Handle, observer string) (removed bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	r, ok := w.entities[h.id]
	if !ok || r.gen != h.gen {
		return false
	}
	delete(r.observed, observer)
	if len(r.observed) > 0 {
		return false
	}
	r.gen++
	delete(w.entities, h.id)
	return true
}

// Entities returns a snapshot slice of every live entity Handle.
func (w *World) Entities() []Handle {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Handle, 0, len(w.entities))
	for id, r := range w.entities {
		out = append(out, Handle{id: id, gen: r.gen})
	}
	return out
}
