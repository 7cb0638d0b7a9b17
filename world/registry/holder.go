// Package registry implements the append-only registry holder described by
// spec.md section 4.3: a mapping of registry-id to (entry-id -> NBT
// compound), populated during the configuration state and updated in-game,
// with specialised typed views for dimension types, biomes and damage
// types.
//
// Grounded directly on spec.md (dragonfly has no client-received registry
// concept; Bedrock ships these tables at build time) and on
// original_source/azalea-core/src/registry_holder.rs's RegistryHolder.append
// / RegistryType<T> shape, reimplemented with this project's own NBT codec
// (codec/nbt) instead of simdnbt, and the teacher's RWMutex-guarded-map
// idiom (server/world/world.go's chunks map) instead of a bare HashMap.
package registry

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/df-mc/worldupgrader/blockupgrader"

	"github.com/dragonfly-bot/azalea/codec/nbt"
)

// Well-known registry ids consumed by the client, per spec.md section 4.3.
const (
	RegistryDimensionType = "minecraft:dimension_type"
	RegistryBiome         = "minecraft:worldgen/biome"
	RegistryDamageType    = "minecraft:damage_type"
	RegistryChatType      = "minecraft:chat_type"
)

// entry caches the raw compound alongside a content hash, so repeated
// append updates that resend unchanged bytes do not force a typed view to
// be re-materialised.
type entry struct {
	compound *nbt.Compound
	hash     uint64
}

// Holder is the registry holder: an append-only mapping of registry-id to
// (entry-id -> NBT compound), shared under the same lock discipline as the
// World it is attached to (spec.md section 5 "The registry holder is held
// under the same lock as the world").
type Holder struct {
	mu  sync.RWMutex
	log *slog.Logger

	registries map[string]map[string]entry

	dimensionTypes map[string]*DimensionType
	biomes         map[string]*Biome
	damageTypes    map[string]*DamageType
}

// NewHolder creates an empty Holder. log may be nil, in which case
// slog.Default() is used, matching the Config.Log convention elsewhere in
// this project.
func NewHolder(log *slog.Logger) *Holder {
	if log == nil {
		log = slog.Default()
	}
	return &Holder{
		log:            log,
		registries:     map[string]map[string]entry{},
		dimensionTypes: map[string]*DimensionType{},
		biomes:         map[string]*Biome{},
		damageTypes:    map[string]*DamageType{},
	}
}

// Append applies a RegistryData packet's entries to registryID: each entry
// either supplies a compound (insert or overwrite) or is absent (remove),
// per spec.md section 4.3.
func (h *Holder) Append(registryID string, entries map[string]*nbt.Compound) {
	h.mu.Lock()
	defer h.mu.Unlock()

	bucket, ok := h.registries[registryID]
	if !ok {
		bucket = map[string]entry{}
		h.registries[registryID] = bucket
	}
	for id, compound := range entries {
		if compound == nil {
			delete(bucket, id)
			h.invalidateTypedView(registryID, id)
			continue
		}
		hash := hashCompound(compound)
		if old, exists := bucket[id]; exists && old.hash == hash {
			continue
		}
		bucket[id] = entry{compound: compound, hash: hash}
		h.materialiseTypedView(registryID, id, compound)
	}
}

// Raw returns the raw compound stored for (registryID, entryID), or nil if
// absent.
func (h *Holder) Raw(registryID, entryID string) *nbt.Compound {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if bucket, ok := h.registries[registryID]; ok {
		if e, ok := bucket[entryID]; ok {
			return e.compound
		}
	}
	return nil
}

// Entries returns the set of entry ids currently present in registryID.
func (h *Holder) Entries(registryID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	bucket := h.registries[registryID]
	out := make([]string, 0, len(bucket))
	for id := range bucket {
		out = append(out, id)
	}
	return out
}

func hashCompound(c *nbt.Compound) uint64 {
	h := xxhash.New()
	hashCompoundInto(h, c)
	return h.Sum64()
}

func hashCompoundInto(h *xxhash.Digest, c *nbt.Compound) {
	for i, name := range c.Names {
		_, _ = h.WriteString(name)
		hashValueInto(h, c.Values[i])
	}
}

func hashValueInto(h *xxhash.Digest, v any) {
	switch t := v.(type) {
	case *nbt.Compound:
		hashCompoundInto(h, t)
	case *nbt.List:
		for _, e := range t.Values {
			hashValueInto(h, e)
		}
	case string:
		_, _ = h.WriteString(t)
	default:
		_, _ = fmt.Fprintf(h, "%v", t)
	}
}

// materialiseTypedView deserialises compound into the domain struct
// matching registryID, logging and treating the entry as absent if the
// compound is malformed (spec.md section 4.3: "a missing or malformed
// entry is logged and treated as absent").
func (h *Holder) materialiseTypedView(registryID, entryID string, compound *nbt.Compound) {
	switch registryID {
	case RegistryDimensionType:
		dt, err := decodeDimensionType(compound)
		if err != nil {
			h.log.Warn("registry: malformed dimension type entry", "id", entryID, "error", err)
			delete(h.dimensionTypes, entryID)
			return
		}
		h.dimensionTypes[entryID] = dt
	case RegistryBiome:
		b, err := decodeBiome(compound)
		if err != nil {
			h.log.Warn("registry: malformed biome entry", "id", entryID, "error", err)
			delete(h.biomes, entryID)
			return
		}
		h.biomes[entryID] = b
	case RegistryDamageType:
		dmg, err := decodeDamageType(compound)
		if err != nil {
			h.log.Warn("registry: malformed damage type entry", "id", entryID, "error", err)
			delete(h.damageTypes, entryID)
			return
		}
		h.damageTypes[entryID] = dmg
	}
}

func (h *Holder) invalidateTypedView(registryID, entryID string) {
	switch registryID {
	case RegistryDimensionType:
		delete(h.dimensionTypes, entryID)
	case RegistryBiome:
		delete(h.biomes, entryID)
	case RegistryDamageType:
		delete(h.damageTypes, entryID)
	}
}

// DimensionType returns the decoded dimension type view named name, or nil
// if it has not been received or failed to decode.
func (h *Holder) DimensionType(name string) *DimensionType {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dimensionTypes[name]
}

// Biome returns the decoded biome view named name.
func (h *Holder) Biome(name string) *Biome {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.biomes[name]
}

// DamageType returns the decoded damage type view named name.
func (h *Holder) DamageType(name string) *DamageType {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.damageTypes[name]
}

// normaliseBlockProperties runs a legacy block name and property set through
// worldupgrader's block-state upgrader. Append and the typed decoders do not
// call it, so registry NBT is deserialised as received.
func normaliseBlockProperties(name string, props map[string]any) (string, map[string]any) {
	return blockupgrader.Upgrade(name, props)
}
