// Package handler implements per-packet-type behaviours for the Game,
// Configuration and Login states, one file per state.
//
// Grounded on server/session/handler_emote.go's one-handler-per-packet-type
// convention (a `Handle(p packet.Packet, ...) error` method keyed by
// concrete packet type), generalised from a session serving many remote
// players to a client driving a single local player.
package handler

import (
	"log/slog"
	"reflect"

	"github.com/dragonfly-bot/azalea/codec/nbt"
	"github.com/dragonfly-bot/azalea/command"
	"github.com/dragonfly-bot/azalea/entity"
	azalnet "github.com/dragonfly-bot/azalea/net"
	"github.com/dragonfly-bot/azalea/world"
	"github.com/dragonfly-bot/azalea/world/chunk"
	"github.com/dragonfly-bot/azalea/world/registry"
)

// Context is the surface a handler needs from the client runtime. Client
// implements this directly; the interface exists so this package doesn't
// import azalea/client (which imports this package to dispatch on).
type Context interface {
	Log() *slog.Logger
	Conn() *azalnet.Conn
	Holder() *registry.Holder
	World() *world.World
	Player() *entity.LocalPlayer
	Send(p any) error

	// ResolveEntity maps a server-assigned entity id to a world.Handle.
	ResolveEntity(serverID int32) (world.Handle, bool)
	BindEntity(serverID int32, h world.Handle)
	UnbindEntity(serverID int32)

	// SetDimension (re)creates the World for the dimension/dimension-type
	// pair carried by Game.Login, per spec.md section 4.7.
	SetDimension(dimensionName, dimensionType string)

	// EmitChunk notifies any interested observers that a chunk finished
	// decoding, per spec.md section 4.7 "emit ReceiveChunk event".
	EmitChunk(pos chunk.Pos)

	// SetCommandTree installs the decoded command graph carried by the
	// Commands packet, per spec.md section 4.8.
	SetCommandTree(t *command.Tree)
}

// StateChangeError is returned by handlers of packets that interrupt batch
// decoding (LoginFinished, FinishConfiguration, Transfer,
// StartConfiguration, Disconnect), per spec.md section 4.7/5: the caller
// must stop decoding further queued frames until the next update tick.
type StateChangeError struct{ To azalnet.State }

func (e *StateChangeError) Error() string { return "handler: state changed to " + e.To.String() }

// Handler handles one decoded packet.
type Handler func(ctx Context, p any) error

var registry_ = map[reflect.Type]Handler{}

// Register associates a Handler with the concrete packet type of sample
// (a zero value or pointer, as used with net/packet.Register).
func Register(sample any, h Handler) {
	registry_[reflect.TypeOf(sample)] = h
}

// Dispatch looks up and invokes the handler for p's concrete type. Unknown
// packet types are silently ignored, since a bot need not react to every
// packet the wire protocol defines.
func Dispatch(ctx Context, p any) error {
	h, ok := registry_[reflect.TypeOf(p)]
	if !ok {
		return nil
	}
	return h(ctx, p)
}

// textOf extracts a readable string from a text-component NBT compound
// (either a plain "text" string or, failing that, the compound rendered as
// its tag names) good enough for logging a disconnect reason.
func textOf(c *nbt.Compound) string {
	if c == nil {
		return ""
	}
	if v, ok := c.Get("text"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "<non-text reason>"
}
