package handler

import (
	"fmt"

	"github.com/dragonfly-bot/azalea/command"
	"github.com/dragonfly-bot/azalea/entity"
	azalnet "github.com/dragonfly-bot/azalea/net"
	"github.com/dragonfly-bot/azalea/net/packet"
	"github.com/dragonfly-bot/azalea/world/chunk"
	"github.com/go-gl/mathgl/mgl64"
)

func init() {
	Register(&packet.Commands{}, handleCommands)
	Register(&packet.Login{}, handleLogin)
	Register(&packet.LevelChunkWithLight{}, handleLevelChunkWithLight)
	Register(&packet.SetEntityData{}, handleSetEntityData)
	Register(&packet.AddEntity{}, handleAddEntity)
	Register(&packet.RemoveEntities{}, handleRemoveEntities)
	Register(&packet.KeepAlive{}, handleKeepAlive)
	Register(&packet.Ping{}, handlePing)
	Register(&packet.Transfer{}, handleTransfer)
	Register(&packet.StartConfiguration{}, handleStartConfiguration)
	Register(&packet.Disconnect{}, handleDisconnect)
	Register(&packet.ContainerSetContent{}, handleContainerSetContent)
	Register(&packet.SetSlot{}, handleSetSlot)
}

// handleCommands decodes the server's command graph, per spec.md section
// 4.8. A malformed graph only disables tab-completion/parsing, so errors are
// logged rather than propagated.
func handleCommands(ctx Context, p any) error {
	pk := p.(*packet.Commands)
	tree, err := command.Decode(pk)
	if err != nil {
		ctx.Log().Warn("discarding malformed command tree", "err", err)
		return nil
	}
	ctx.SetCommandTree(tree)
	return nil
}

// handleLogin assigns the local player's entity id and sets the dimension
// from the packet's dimension name and dimension-type key. The game mode is
// only logged; sea level and the flat/debug flags are not applied.
func handleLogin(ctx Context, p any) error {
	pk := p.(*packet.Login)
	lp := ctx.Player()
	lp.EntityID = pk.EntityID
	ctx.SetDimension(pk.DimensionName, pk.DimensionType)
	ctx.Log().Info("entered game", "entity_id", pk.EntityID, "dimension", pk.DimensionName, "game_mode", pk.GameMode)
	return nil
}

// handleLevelChunkWithLight decodes a chunk column and installs it, per
// spec.md section 4.7 "Game.LevelChunkWithLight(x,z,data,light): decode
// sections into a new chunk; insert at (x,z); emit ReceiveChunk event."
func handleLevelChunkWithLight(ctx Context, p any) error {
	pk := p.(*packet.LevelChunkWithLight)
	w := ctx.World()
	if w == nil {
		return fmt.Errorf("handler: level chunk arrived before Game.Login set a dimension")
	}
	pos := chunk.Pos{X: pk.ChunkX, Z: pk.ChunkZ}
	c, err := chunk.DecodeLevelChunkData(pk.Data, w.SectionCount(), w.AirID(), w.DefaultBiomeID(), w.MinY())
	if err != nil {
		return fmt.Errorf("handler: decode chunk (%d,%d): %w", pk.ChunkX, pk.ChunkZ, err)
	}
	w.SetChunk(pos, c)
	ctx.EmitChunk(pos)
	return nil
}

// handleSetEntityData looks up the entity by its server id and applies
// metadata items by index, per spec.md section 4.7 "Game.SetEntityData
// (entity_id, items): look up entity; apply metadata items by index into
// the entity's per-kind metadata schema."
func handleSetEntityData(ctx Context, p any) error {
	pk := p.(*packet.SetEntityData)
	h, ok := ctx.ResolveEntity(pk.EntityID)
	if !ok {
		return nil
	}
	ent, ok := ctx.World().Entity(h)
	if !ok {
		return nil
	}
	e, ok := ent.(*entity.Entity)
	if !ok {
		if lp, ok := ent.(*entity.LocalPlayer); ok {
			e = lp.Entity
		} else {
			return nil
		}
	}
	for _, item := range pk.Items {
		e.Data[int(item.Index)] = item.Value
	}
	return nil
}

// handleAddEntity spawns a fresh Entity and binds the server-assigned id to
// it, per spec.md section 4.7 "Game.AddEntity / RemoveEntities: maintain
// the per-client id index, the per-world id index, per-chunk entity set,
// and loaded-by reference counts."
func handleAddEntity(ctx Context, p any) error {
	pk := p.(*packet.AddEntity)
	kind := entity.Kind(fmt.Sprintf("entity_type:%d", pk.EntityType))
	e := entity.NewEntity(kind, [16]byte(pk.UUID))
	e.Position = mgl64.Vec3{pk.X, pk.Y, pk.Z}
	e.Yaw = float64(pk.Yaw) * 360.0 / 256.0
	e.Pitch = float64(pk.Pitch) * 360.0 / 256.0
	e.HeadYaw = float64(pk.HeadYaw) * 360.0 / 256.0
	h := ctx.World().SpawnEntity(e, observerKey(ctx))
	ctx.BindEntity(pk.EntityID, h)
	return nil
}

// observerKey derives a stable per-client observer key from the local
// player's UUID, used as the "loaded-by" identity in World.SpawnEntity /
// ObserveEntity / UnobserveEntity.
func observerKey(ctx Context) string {
	u := ctx.Player().UUID
	return fmt.Sprintf("%x", u[:])
}

func handleRemoveEntities(ctx Context, p any) error {
	pk := p.(*packet.RemoveEntities)
	for _, id := range pk.EntityIDs {
		if h, ok := ctx.ResolveEntity(id); ok {
			ctx.World().UnobserveEntity(h, observerKey(ctx))
		}
		ctx.UnbindEntity(id)
	}
	return nil
}

// handleKeepAlive echoes the id back unchanged, per spec.md section 4.7
// "Game.KeepAlive(id): reply with the same id."
func handleKeepAlive(ctx Context, p any) error {
	pk := p.(*packet.KeepAlive)
	return ctx.Send(&packet.KeepAlive{ID: pk.ID})
}

// handlePing echoes the id back unchanged, per spec.md section 4.7
// "Game.Ping: reply with matching id."
func handlePing(ctx Context, p any) error {
	pk := p.(*packet.Ping)
	return ctx.Send(&packet.Ping{ID: pk.ID})
}

// handleTransfer, handleStartConfiguration and handleDisconnect are the
// remaining state-changing packets named in spec.md section 4.7
// ("Game.Transfer / StartConfiguration / Disconnect: state transitions;
// these packets must interrupt packet-batch processing").
func handleTransfer(ctx Context, p any) error {
	pk := p.(*packet.Transfer)
	ctx.Log().Info("server requested transfer", "host", pk.Host, "port", pk.Port)
	return &StateChangeError{To: azalnet.StateHandshake}
}

func handleStartConfiguration(ctx Context, p any) error {
	if err := ctx.Send(&packet.AcknowledgeStartConfiguration{}); err != nil {
		return err
	}
	if err := ctx.Conn().Transition(azalnet.StateConfiguration); err != nil {
		return fmt.Errorf("handler: start configuration: %w", err)
	}
	return &StateChangeError{To: azalnet.StateConfiguration}
}

func handleDisconnect(ctx Context, p any) error {
	pk := p.(*packet.Disconnect)
	ctx.Log().Warn("disconnected", "reason", textOf(pk.Reason))
	return &StateChangeError{To: azalnet.StateHandshake}
}

// handleContainerSetContent and handleSetSlot copy slot contents into the
// local player's inventory when the window id is 0. Packets for any other
// window are ignored, and no container state id is tracked.
func handleContainerSetContent(ctx Context, p any) error {
	pk := p.(*packet.ContainerSetContent)
	lp := ctx.Player()
	if pk.WindowID == 0 {
		for i, slot := range pk.Slots {
			if i >= len(lp.Inventory) {
				break
			}
			lp.Inventory[i] = entity.InventorySlot{Present: slot.Present, ItemID: slot.ItemID, Count: slot.Count}
		}
	}
	return nil
}

func handleSetSlot(ctx Context, p any) error {
	pk := p.(*packet.SetSlot)
	lp := ctx.Player()
	if pk.WindowID == 0 && pk.Slot >= 0 && int(pk.Slot) < len(lp.Inventory) {
		lp.Inventory[pk.Slot] = entity.InventorySlot{Present: pk.Item.Present, ItemID: pk.Item.ItemID, Count: pk.Item.Count}
	}
	return nil
}
