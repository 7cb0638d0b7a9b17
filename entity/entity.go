// Package entity implements the client's entity component model: the set of
// fields tracked for every spawned entity (position, velocity, look,
// attributes) plus the local player's own extra state (inventory, ability
// flags, physics state, chat-index tracker), per spec.md section 4.5 "Entity
// store".
//
// Grounded on server/entity's component-struct convention (dragonfly keeps
// position/velocity/rotation as plain fields on a concrete entity type
// rather than behind getter interfaces) and on
// original_source/azalea-entity's component split between entities every
// tracked entity carries and ones only the local player carries.
package entity

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Kind identifies an entity type by its registry name, e.g.
// "minecraft:zombie".
type Kind string

// Entity is the per-entity state the client tracks for every loaded entity,
// not just the local player, per spec.md section 4.5.
type Entity struct {
	Kind Kind
	UUID [16]byte

	Position mgl64.Vec3
	Velocity mgl64.Vec3

	// Yaw and Pitch are in degrees, matching the wire representation.
	Yaw, HeadYaw, Pitch float64

	OnGround bool

	Attributes Attributes

	// Data holds entity-metadata fields keyed by index, decoded from
	// SetEntityData, for consumers that need raw access to fields this
	// struct does not surface explicitly (e.g. mob-specific flags).
	Data map[int]any
}

// NewEntity constructs an Entity with empty attributes and metadata maps.
func NewEntity(kind Kind, uuid [16]byte) *Entity {
	return &Entity{
		Kind:       kind,
		UUID:       uuid,
		Attributes: Attributes{byID: map[string]*Attribute{}},
		Data:       map[int]any{},
	}
}

// ModifierOperation mirrors vanilla's attribute modifier operations.
type ModifierOperation int

const (
	// OpAddValue adds Amount to the running base sum.
	OpAddValue ModifierOperation = iota
	// OpAddMultipliedBase adds Amount*base to the running base sum.
	OpAddMultipliedBase
	// OpAddMultipliedTotal multiplies the running total by (1+Amount),
	// applied after every OpAddValue/OpAddMultipliedBase modifier.
	OpAddMultipliedTotal
)

// Modifier is a single named attribute modifier.
type Modifier struct {
	ID        string
	Amount    float64
	Operation ModifierOperation
}

// Attribute is a base value plus zero or more modifiers, folded via
// Calculate using vanilla's three-pass operation order: all AddValue, then
// all AddMultipliedBase, then all AddMultipliedTotal, clamped to [Min, Max].
type Attribute struct {
	Base      float64
	Min, Max  float64
	Modifiers []Modifier
}

// Calculate folds Base and Modifiers into the attribute's effective value.
func (a Attribute) Calculate() float64 {
	total := a.Base
	for _, m := range a.Modifiers {
		if m.Operation == OpAddValue {
			total += m.Amount
		}
	}
	base := total
	for _, m := range a.Modifiers {
		if m.Operation == OpAddMultipliedBase {
			total += base * m.Amount
		}
	}
	for _, m := range a.Modifiers {
		if m.Operation == OpAddMultipliedTotal {
			total += total * m.Amount
		}
	}
	if total < a.Min {
		total = a.Min
	}
	if total > a.Max {
		total = a.Max
	}
	return total
}

// Attributes is the named attribute table attached to an Entity (e.g.
// "minecraft:generic.movement_speed").
type Attributes struct {
	byID map[string]*Attribute
}

// Get returns the attribute named id, creating a zero-valued one (Max set to
// 1<<30) the first time it is requested, matching the server's behaviour of
// sending attribute updates only for attributes that differ from their
// default.
func (a *Attributes) Get(id string) *Attribute {
	if a.byID == nil {
		a.byID = map[string]*Attribute{}
	}
	attr, ok := a.byID[id]
	if !ok {
		attr = &Attribute{Max: 1 << 30}
		a.byID[id] = attr
	}
	return attr
}

// Set replaces the attribute named id wholesale, as happens when an
// UpdateAttributes packet arrives.
func (a *Attributes) Set(id string, attr Attribute) {
	if a.byID == nil {
		a.byID = map[string]*Attribute{}
	}
	a.byID[id] = &attr
}

const (
	AttributeMovementSpeed = "minecraft:generic.movement_speed"
	AttributeMaxHealth     = "minecraft:generic.max_health"
	AttributeJumpStrength  = "minecraft:generic.jump_strength"
	AttributeStepHeight    = "minecraft:generic.step_height"
	AttributeGravity       = "minecraft:generic.gravity"
	AttributeBlockReach    = "minecraft:player.block_interaction_range"
)
