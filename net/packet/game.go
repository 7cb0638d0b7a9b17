package packet

import (
	"fmt"
	"io"

	"github.com/dragonfly-bot/azalea/codec"
	"github.com/dragonfly-bot/azalea/codec/nbt"
	"github.com/dragonfly-bot/azalea/net"
)

// Metadata type ids this project decodes structurally. MetadataValue's
// ReadFrom and WriteTo return an error for any other type id.
const (
	MetadataByte       = 0
	MetadataVarInt     = 1
	MetadataVarLong    = 2
	MetadataFloat      = 3
	MetadataString     = 4
	MetadataBoolean    = 8
	MetadataOptVarInt  = 20
	MetadataPose       = 21
)

// MetadataValue is one typed entity-metadata value, per spec.md section
// 4.7's "apply metadata items by index into the entity's per-kind metadata
// schema". Only the scalar kinds a bot actually reasons about (on-fire,
// sneaking/sprinting flag byte, pose, air supply, ...) are decoded into
// Byte/Int/Long/Float32/Str/Bool; any other type id makes ReadFrom return
// an error.
type MetadataValue struct {
	Type int32

	Byte byte
	Int  int32
	Long int64
	Float32 float32
	Str  string
	Bool bool

	// Raw is neither set by ReadFrom nor written by WriteTo.
	Raw []byte
}

func (v *MetadataValue) ReadFrom(r io.Reader) error {
	t, _, err := codec.ReadVarInt(r)
	if err != nil {
		return err
	}
	v.Type = t
	switch t {
	case MetadataByte:
		b, err := codec.ReadUint8(r)
		v.Byte = b
		return err
	case MetadataVarInt, MetadataOptVarInt:
		n, _, err := codec.ReadVarInt(r)
		v.Int = n
		return err
	case MetadataVarLong:
		n, _, err := codec.ReadVarLong(r)
		v.Long = n
		return err
	case MetadataFloat:
		f, err := codec.ReadFloat32(r)
		v.Float32 = f
		return err
	case MetadataString:
		s, err := codec.ReadString(r, 32767)
		v.Str = s
		return err
	case MetadataBoolean:
		b, err := codec.ReadBool(r)
		v.Bool = b
		return err
	case MetadataPose:
		n, _, err := codec.ReadVarInt(r)
		v.Int = n
		return err
	default:
		return fmt.Errorf("packet: metadata type %d has no structural decoder; implement it or drop the entry", t)
	}
}

func (v *MetadataValue) WriteTo(w io.Writer) error {
	if _, err := codec.WriteVarInt(w, v.Type); err != nil {
		return err
	}
	switch v.Type {
	case MetadataByte:
		return codec.WriteUint8(w, v.Byte)
	case MetadataVarInt, MetadataOptVarInt, MetadataPose:
		_, err := codec.WriteVarInt(w, v.Int)
		return err
	case MetadataVarLong:
		_, err := codec.WriteVarLong(w, v.Long)
		return err
	case MetadataFloat:
		return codec.WriteFloat32(w, v.Float32)
	case MetadataString:
		return codec.WriteString(w, v.Str, 32767)
	case MetadataBoolean:
		return codec.WriteBool(w, v.Bool)
	default:
		return fmt.Errorf("packet: metadata type %d has no structural encoder", v.Type)
	}
}

// MetadataEntry pairs an index with its value; a stream of these terminates
// with an index byte of 0xff rather than a count prefix.
type MetadataEntry struct {
	Index uint8
	Value MetadataValue
}

// MetadataEntries is a []MetadataEntry framed with the 0xff terminator
// convention, implementing Reader/Writer directly since it's neither a
// count-prefixed list nor a byte slice.
type MetadataEntries []MetadataEntry

func (m *MetadataEntries) ReadFrom(r io.Reader) error {
	for {
		idx, err := codec.ReadUint8(r)
		if err != nil {
			return err
		}
		if idx == 0xff {
			return nil
		}
		var val MetadataValue
		if err := val.ReadFrom(r); err != nil {
			return fmt.Errorf("packet: metadata entry index %d: %w", idx, err)
		}
		*m = append(*m, MetadataEntry{Index: idx, Value: val})
	}
}

func (m MetadataEntries) WriteTo(w io.Writer) error {
	for _, e := range m {
		if err := codec.WriteUint8(w, e.Index); err != nil {
			return err
		}
		if err := e.Value.WriteTo(w); err != nil {
			return err
		}
	}
	return codec.WriteUint8(w, 0xff)
}

// Login (play state) assigns the local player's entity id and the common
// spawn info the physics/world layers need before any chunk can be placed,
// per spec.md section 4.7 "Game.Login(entity_id, spawn_info,...)".
type Login struct {
	EntityID         int32  `mc:""`
	IsHardcore       bool   `mc:""`
	DimensionNames   DimensionNameList
	MaxPlayers       int32 `mc:"varint"`
	ViewDistance     int32 `mc:"varint"`
	SimulationDistance int32 `mc:"varint"`
	ReducedDebugInfo bool  `mc:""`
	RespawnScreen    bool  `mc:""`
	LimitedCrafting  bool  `mc:""`
	DimensionType    string `mc:"limit=32767"`
	DimensionName    string `mc:"limit=32767"`
	HashedSeed       int64  `mc:""`
	GameMode         uint8  `mc:""`
	PreviousGameMode int8   `mc:""`
	IsDebug          bool   `mc:""`
	IsFlat           bool   `mc:""`
	HasDeathLocation bool   `mc:""`
	PortalCooldown   int32  `mc:"varint"`
	SeaLevel         int32  `mc:"varint"`
	EnforcesSecureChat bool `mc:""`
}

// DimensionNameList is the varint-counted list of dimension identifier
// strings Login carries; a generic []string isn't one of the struct
// framer's supported slice kinds, so it gets the same Reader/Writer escape
// hatch RegistryData uses.
type DimensionNameList []string

func (d *DimensionNameList) ReadFrom(r io.Reader) error {
	names, err := codec.ReadList(r, 4096, func(r io.Reader) (string, error) {
		return codec.ReadString(r, 32767)
	})
	*d = names
	return err
}

func (d DimensionNameList) WriteTo(w io.Writer) error {
	return codec.WriteList(w, []string(d), func(w io.Writer, s string) error {
		return codec.WriteString(w, s, 32767)
	})
}

// LevelChunkWithLight carries one chunk column's block/biome data plus
// lighting, per spec.md section 4.2/4.7. The Data payload is handed to
// chunk.DecodeLevelChunkData as-is; lighting and block-entity sub-streams
// are kept raw since the physics/pathfinder core only consumes block
// states, not light levels or tile-entity payloads.
type LevelChunkWithLight struct {
	ChunkX      int32 `mc:""`
	ChunkZ      int32 `mc:""`
	Heightmaps  *nbt.Compound
	Data        []byte `mc:"limit=2097152"`
	BlockEntities []byte
	Light       []byte
}

func (p *LevelChunkWithLight) WriteTo(w io.Writer) error {
	if err := codec.WriteInt32(w, p.ChunkX); err != nil {
		return err
	}
	if err := codec.WriteInt32(w, p.ChunkZ); err != nil {
		return err
	}
	if err := nbt.EncodeUnnamed(w, p.Heightmaps); err != nil {
		return err
	}
	if err := codec.WriteByteArray(w, p.Data); err != nil {
		return err
	}
	if _, err := w.Write(p.BlockEntities); err != nil {
		return err
	}
	_, err := w.Write(p.Light)
	return err
}

func (p *LevelChunkWithLight) ReadFrom(r io.Reader) error {
	x, err := codec.ReadInt32(r)
	if err != nil {
		return err
	}
	z, err := codec.ReadInt32(r)
	if err != nil {
		return err
	}
	hm, err := nbt.DecodeUnnamed(r)
	if err != nil {
		return fmt.Errorf("packet: chunk heightmaps: %w", err)
	}
	data, err := codec.ReadByteArray(r, 2097152)
	if err != nil {
		return fmt.Errorf("packet: chunk data: %w", err)
	}
	rest, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("packet: chunk light/block-entities tail: %w", err)
	}
	p.ChunkX, p.ChunkZ, p.Heightmaps, p.Data = x, z, hm, data
	p.BlockEntities, p.Light = nil, rest
	return nil
}

// SetEntityData applies a batch of metadata entries to an already-known
// entity, per spec.md section 4.7 "Game.SetEntityData(entity_id, items)".
type SetEntityData struct {
	EntityID int32 `mc:"varint"`
	Items    MetadataEntries
}

// AddEntity announces a newly-visible entity and its spawn transform, per
// spec.md section 4.7's entity lifecycle. EntityType is the registry id of
// the entity's kind, resolved against the entity_type registry.
type AddEntity struct {
	EntityID   int32      `mc:"varint"`
	UUID       codec.UUID `mc:""`
	EntityType int32      `mc:"varint"`
	X, Y, Z    float64    `mc:""`
	Pitch      int8       `mc:""`
	Yaw        int8       `mc:""`
	HeadYaw    int8       `mc:""`
	Data       int32      `mc:"varint"`
	VelX, VelY, VelZ int16 `mc:""`
}

// RemoveEntities despawns a batch of entities by id, per spec.md section
// 4.7; the handler drops them from the per-world/per-client indices and
// decrements their "loaded-by" reference counts.
type RemoveEntities struct {
	EntityIDs EntityIDList
}

// EntityIDList is a varint-counted []int32, framed the same way
// DimensionNameList is for strings.
type EntityIDList []int32

func (e *EntityIDList) ReadFrom(r io.Reader) error {
	ids, err := codec.ReadList(r, 65536, func(r io.Reader) (int32, error) {
		v, _, err := codec.ReadVarInt(r)
		return v, err
	})
	*e = ids
	return err
}

func (e EntityIDList) WriteTo(w io.Writer) error {
	return codec.WriteList(w, []int32(e), func(w io.Writer, v int32) error {
		_, err := codec.WriteVarInt(w, v)
		return err
	})
}

// KeepAlive (play variant) must be echoed back verbatim with the same id,
// per spec.md section 4.7 "Game.KeepAlive(id): reply with the same id."
type KeepAlive struct {
	ID int64 `mc:""`
}

// Slot is one inventory/container slot: either empty, or an item id, count,
// and an opaque component patch this project does not need to interpret.
type Slot struct {
	Present bool
	ItemID  int32
	Count   int32
	// ComponentsToAdd/ComponentsToRemove are read past and discarded
	// (ReadFrom leaves ComponentBytes nil) since no mandatory behaviour in
	// spec.md section 4.7 inspects item component data; the handler only needs slot identity and count
	// to track inventory state for the local player.
	ComponentBytes []byte
}

func (s *Slot) ReadFrom(r io.Reader) error {
	count, _, err := codec.ReadVarInt(r)
	if err != nil {
		return err
	}
	if count <= 0 {
		s.Present, s.ItemID, s.Count, s.ComponentBytes = false, 0, 0, nil
		return nil
	}
	itemID, _, err := codec.ReadVarInt(r)
	if err != nil {
		return err
	}
	addCount, _, err := codec.ReadVarInt(r)
	if err != nil {
		return err
	}
	removeCount, _, err := codec.ReadVarInt(r)
	if err != nil {
		return err
	}
	// Component structural contents aren't interpreted; skip by
	// re-consuming them through the registry-data NBT reader where a
	// component carries NBT, since components are (type-id varint, NBT)
	// pairs for "add" and bare type-ids for "remove".
	var raw []byte
	for i := int32(0); i < addCount; i++ {
		if _, _, err := codec.ReadVarInt(r); err != nil {
			return fmt.Errorf("packet: slot component %d type: %w", i, err)
		}
		c, err := nbt.DecodeUnnamed(r)
		if err != nil {
			return fmt.Errorf("packet: slot component %d data: %w", i, err)
		}
		_ = c
	}
	for i := int32(0); i < removeCount; i++ {
		if _, _, err := codec.ReadVarInt(r); err != nil {
			return fmt.Errorf("packet: slot removed-component %d type: %w", i, err)
		}
	}
	s.Present, s.ItemID, s.Count, s.ComponentBytes = true, itemID, count, raw
	return nil
}

func (s Slot) WriteTo(w io.Writer) error {
	if !s.Present {
		_, err := codec.WriteVarInt(w, 0)
		return err
	}
	if _, err := codec.WriteVarInt(w, s.Count); err != nil {
		return err
	}
	if _, err := codec.WriteVarInt(w, s.ItemID); err != nil {
		return err
	}
	if _, err := codec.WriteVarInt(w, 0); err != nil { // components-to-add count
		return err
	}
	_, err := codec.WriteVarInt(w, 0) // components-to-remove count
	return err
}

// SlotList is a varint-counted []Slot.
type SlotList []Slot

func (s *SlotList) ReadFrom(r io.Reader) error {
	slots, err := codec.ReadList(r, 256, func(r io.Reader) (Slot, error) {
		var sl Slot
		err := sl.ReadFrom(r)
		return sl, err
	})
	*s = slots
	return err
}

func (s SlotList) WriteTo(w io.Writer) error {
	return codec.WriteList(w, []Slot(s), func(w io.Writer, sl Slot) error {
		return sl.WriteTo(w)
	})
}

// ContainerSetContent replaces an entire open menu's slot contents at once,
// per spec.md section 4.7 "update the active menu; bump the state-id".
type ContainerSetContent struct {
	WindowID int32 `mc:"varint"`
	StateID  int32 `mc:"varint"`
	Slots    SlotList
	CarriedItem Slot
}

// SetSlot updates a single slot of an open menu (or -1/0 for the player's
// own cursor-held item).
type SetSlot struct {
	WindowID int8  `mc:""`
	StateID  int32 `mc:"varint"`
	Slot     int16 `mc:""`
	Item     Slot
}

// Ping (play variant) is an opaque id the client echoes back unchanged,
// distinct from the status-state PingRequest/PongResponse pair.
type Ping struct {
	ID int32 `mc:""`
}

// Transfer instructs the client to disconnect and reconnect to a different
// host/port, per spec.md section 4.7; it is one of the "interrupting"
// packets listed in section 5's ordering guarantees.
type Transfer struct {
	Host string `mc:"limit=32767"`
	Port int32  `mc:"varint"`
}

// StartConfiguration asks the client to return to the configuration state
// mid-game (e.g. before a resource-pack reload); it interrupts decoding the
// same way Transfer and Disconnect do.
type StartConfiguration struct{}

// AcknowledgeStartConfiguration is the client's reply, the packet that
// actually flips the connection's State back to Configuration.
type AcknowledgeStartConfiguration struct{}

// Disconnect (play variant) carries a text-component reason for a
// mid-game kick.
type Disconnect struct {
	Reason *nbt.Compound
}

func (p *Disconnect) WriteTo(w io.Writer) error {
	return nbt.EncodeUnnamed(w, p.Reason)
}

func (p *Disconnect) ReadFrom(r io.Reader) error {
	c, err := nbt.DecodeUnnamed(r)
	p.Reason = c
	return err
}

func init() {
	Register(net.StateGame, S2C, 0x2B, &Login{})
	Register(net.StateGame, S2C, 0x27, &LevelChunkWithLight{})
	Register(net.StateGame, S2C, 0x58, &SetEntityData{})
	Register(net.StateGame, S2C, 0x01, &AddEntity{})
	Register(net.StateGame, S2C, 0x42, &RemoveEntities{})
	Register(net.StateGame, S2C, 0x26, &KeepAlive{})
	Register(net.StateGame, C2S, 0x1A, &KeepAlive{})
	Register(net.StateGame, S2C, 0x12, &ContainerSetContent{})
	Register(net.StateGame, S2C, 0x15, &SetSlot{})
	Register(net.StateGame, S2C, 0x37, &Ping{})
	Register(net.StateGame, C2S, 0x31, &Ping{})
	Register(net.StateGame, S2C, 0x76, &Transfer{})
	Register(net.StateGame, S2C, 0x0F, &StartConfiguration{})
	Register(net.StateGame, C2S, 0x0C, &AcknowledgeStartConfiguration{})
	Register(net.StateGame, S2C, 0x1D, &Disconnect{})
}
