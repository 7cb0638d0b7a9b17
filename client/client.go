// Package client implements the local-player bot runtime: dialing a
// server, driving the login/configuration/game handshake, and running the
// fixed-rate game tick plus variable-rate update loop spec.md section 4.10
// describes.
//
// Grounded on server/conf.go's Config/UserConfig pair (see config.go) and
// server/world/tick.go's ticker.tickLoop (fixed time.NewTicker, staged
// dispatch), generalised from "the world's tick loop" to "this local
// player's game-tick/update-loop pair".
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/dragonfly-bot/azalea/client/handler"
	"github.com/dragonfly-bot/azalea/codec"
	"github.com/dragonfly-bot/azalea/command"
	"github.com/dragonfly-bot/azalea/entity"
	azalnet "github.com/dragonfly-bot/azalea/net"
	"github.com/dragonfly-bot/azalea/net/packet"
	"github.com/dragonfly-bot/azalea/pathfinder"
	"github.com/dragonfly-bot/azalea/swarm"
	"github.com/dragonfly-bot/azalea/world"
	"github.com/dragonfly-bot/azalea/world/chunk"
	"github.com/dragonfly-bot/azalea/world/registry"
	"github.com/google/uuid"
)

const (
	defaultGameTickInterval   = 50 * time.Millisecond // 20 Hz, per spec.md section 4.10.
	defaultUpdateTickInterval = 10 * time.Millisecond
)

// Events is the set of broadcast-style notifications a caller may subscribe
// to, analogous to dragonfly's Viewer callbacks but expressed as channels
// since there is exactly one local player driving each Client.
type Events struct {
	// Chunk fires once per successfully decoded LevelChunkWithLight, per
	// spec.md section 4.7 "emit ReceiveChunk event".
	Chunk chan chunk.Pos
	// Disconnected fires once, with the reason the connection ended.
	Disconnected chan error
}

func newEvents() *Events {
	return &Events{
		Chunk:        make(chan chunk.Pos, 64),
		Disconnected: make(chan error, 1),
	}
}

// Client is one local player's connection, world view, and tick scheduler.
// It implements handler.Context directly so registered handlers can act on
// it without this package and client/handler importing each other.
type Client struct {
	log  *slog.Logger
	conf Config

	conn   *azalnet.Conn
	holder *registry.Holder
	events *Events

	mu          sync.RWMutex
	world       *world.World
	player      *entity.LocalPlayer
	selfHandle  world.Handle
	entityIndex map[int32]world.Handle
	commands    *command.Tree
	swarm       *swarm.Swarm

	activePath    *pathfinder.Path
	activeProcess string
	digSequence   int32
}

// UseSwarm joins this Client to s, so a later SetDimension call adopts a
// world shared with every other member that reports the same dimension
// name, per spec.md section 4.10. Call before Connect.
func (c *Client) UseSwarm(s *swarm.Swarm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.swarm = s
}

// Dimension satisfies swarm.Member: the dimension name of the World this
// Client currently occupies, or its configured default before Game.Login.
func (c *Client) Dimension() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.world != nil {
		return c.world.Dimension()
	}
	return c.conf.DimensionName
}

// AdoptWorld satisfies swarm.Member, installing w as this Client's World and
// (re)spawning its local player entity into it.
func (c *Client) AdoptWorld(w *world.World) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.world = w
	c.selfHandle = w.SpawnEntity(c.player, c.observerKey())
}

// ChatIndex satisfies swarm.Member, exposing the local player's chat
// watermark for the swarm's queue-trimming pass.
func (c *Client) ChatIndex() int32 { return c.player.ChatIndex }

// New constructs a Client from conf; call Connect to dial and log in.
func New(conf Config) *Client {
	if conf.Log == nil {
		conf.Log = slog.Default()
	}
	if conf.GameTickInterval == 0 {
		conf.GameTickInterval = defaultGameTickInterval
	}
	if conf.UpdateTickInterval == 0 {
		conf.UpdateTickInterval = defaultUpdateTickInterval
	}
	if conf.UUID == uuid.Nil {
		conf.UUID = uuid.New()
	}
	self := entity.NewEntity(entity.Kind("minecraft:player"), [16]byte(conf.UUID))
	lp := entity.NewLocalPlayer(self)
	return &Client{
		log:         conf.Log,
		conf:        conf,
		holder:      registry.NewHolder(conf.Log),
		events:      newEvents(),
		player:      lp,
		entityIndex: map[int32]world.Handle{},
	}
}

// Events returns the channel set this Client publishes notifications on.
func (c *Client) Events() *Events { return c.events }

// Log, Conn, Holder, World, Player, Send, ResolveEntity, BindEntity,
// UnbindEntity, SetDimension, EmitChunk together satisfy handler.Context.
func (c *Client) Log() *slog.Logger     { return c.log }
func (c *Client) Conn() *azalnet.Conn   { return c.conn }
func (c *Client) Holder() *registry.Holder { return c.holder }
func (c *Client) Player() *entity.LocalPlayer { return c.player }

func (c *Client) World() *world.World {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.world
}

func (c *Client) SetDimension(dimensionName, dimensionType string) {
	c.mu.Lock()
	sw := c.swarm
	c.mu.Unlock()
	if sw != nil {
		sw.Join(c, dimensionName, dimensionType, c.holder)
		return
	}
	c.AdoptWorld(world.New(dimensionName, dimensionType, c.holder, 0, 0))
}

// SelfHandle returns the local player's own Handle in World(), valid once
// SetDimension has run (i.e. after Game.Login has been handled).
func (c *Client) SelfHandle() world.Handle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selfHandle
}

func (c *Client) ResolveEntity(serverID int32) (world.Handle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.entityIndex[serverID]
	return h, ok
}

func (c *Client) BindEntity(serverID int32, h world.Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entityIndex[serverID] = h
}

func (c *Client) UnbindEntity(serverID int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entityIndex, serverID)
}

// SetCommandTree installs the tree decoded from the latest Commands packet.
func (c *Client) SetCommandTree(t *command.Tree) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commands = t
}

// Commands returns the most recently decoded command tree, or nil if none
// has arrived yet.
func (c *Client) Commands() *command.Tree {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.commands
}

func (c *Client) EmitChunk(pos chunk.Pos) {
	select {
	case c.events.Chunk <- pos:
	default:
		c.log.Warn("dropped ReceiveChunk event, channel full", "pos", pos)
	}
}

func (c *Client) observerKey() string {
	u := c.player.UUID
	return fmt.Sprintf("%x", u[:])
}

// Send encodes p and hands its frame to the writer pump.
func (c *Client) Send(p any) error {
	body, err := packet.Encode(p)
	if err != nil {
		return fmt.Errorf("client: encode %T: %w", p, err)
	}
	id, err := packetID(c.conn.State(), p)
	if err != nil {
		return err
	}
	return c.conn.Send(id, body)
}

// packetID resolves the wire id for an outbound packet by round-tripping
// packet.New against every plausible id is wasteful; instead each packet
// file's init() already populated the registry keyed by concrete type, so
// packet exposes a lookup the other direction via EncodeID.
func packetID(state azalnet.State, p any) (int32, error) {
	id, ok := packet.EncodeID(state, packet.C2S, p)
	if !ok {
		return 0, fmt.Errorf("client: no registered outbound id for %T in state %s", p, state)
	}
	return id, nil
}

// Connect dials addr, runs the handshake/login sequence, and leaves the
// connection in the Configuration state, ready for Run.
func (c *Client) Connect(ctx context.Context) error {
	var d net.Dialer
	raw, err := d.DialContext(ctx, "tcp", c.conf.Address)
	if err != nil {
		return fmt.Errorf("client: dial: %w", err)
	}
	c.conn = azalnet.NewConn(raw, c.log)
	c.conn.Start()

	host, port := splitHostPort(c.conf.Address)
	if err := c.Send(&packet.Handshake{
		ProtocolVersion: c.conf.ProtocolVersion,
		ServerAddress:   host,
		ServerPort:      port,
		NextState:       packet.IntentLogin,
	}); err != nil {
		return err
	}
	if err := c.conn.Transition(azalnet.StateLogin); err != nil {
		return err
	}
	uid := codec.UUID(c.player.UUID)
	if err := c.Send(&packet.Hello{Name: c.conf.Username, UUID: uid}); err != nil {
		return err
	}

	// Drain the login state until LoginFinished flips us to Configuration;
	// StateChangeError from the LoginFinished handler is the expected exit.
	for c.conn.State() == azalnet.StateLogin {
		if err := c.dispatchOne(); err != nil {
			var sce *handler.StateChangeError
			if errors.As(err, &sce) {
				break
			}
			return err
		}
	}
	if err := c.Send(&packet.ClientInformation{
		Locale:       "en_us",
		ViewDistance: c.conf.ViewDistance,
		MainHand:     1,
	}); err != nil {
		return err
	}
	return nil
}

// dispatchOne blocks for exactly one inbound frame, decodes it, and runs
// its handler.
func (c *Client) dispatchOne() error {
	frame, ok := <-c.conn.Inbound()
	if !ok {
		return fmt.Errorf("client: connection closed: %w", c.conn.Err())
	}
	return c.decodeAndHandle(frame)
}

func (c *Client) decodeAndHandle(frame azalnet.Frame) error {
	p, err := packet.Decode(frame, c.conn.State(), packet.S2C)
	if err != nil {
		return fmt.Errorf("client: decode: %w", err)
	}
	return handler.Dispatch(c, p)
}

// Run drives the game tick (20 Hz, physics/pathfinder/outbound traffic) and
// the update loop (inbound decoding/dispatch) until ctx is cancelled or the
// connection ends, per spec.md section 4.10 and section 5's scheduling
// model. Packet interruption (section 4.7/5) is implemented by draining at
// most one state-changing packet per update iteration: the handler's
// StateChangeError breaks out of that iteration's drain loop and leaves any
// remaining bytes on the channel for the next one, under the new state.
func (c *Client) Run(ctx context.Context, onTick func()) error {
	gameTick := time.NewTicker(c.conf.GameTickInterval)
	defer gameTick.Stop()
	updateTick := time.NewTicker(c.conf.UpdateTickInterval)
	defer updateTick.Stop()

	for {
		select {
		case <-ctx.Done():
			c.conn.Close()
			return ctx.Err()
		case <-updateTick.C:
			if err := c.drainInbound(); err != nil {
				c.events.Disconnected <- err
				return err
			}
		case <-gameTick.C:
			c.tickPhysics()
			if onTick != nil {
				onTick()
			}
		}
	}
}

// drainInbound decodes and handles every frame currently queued, per
// spec.md section 5's "Packet bytes emitted by the server are decoded in
// the order received," stopping early on a state-changing packet.
func (c *Client) drainInbound() error {
	for {
		select {
		case frame, ok := <-c.conn.Inbound():
			if !ok {
				return fmt.Errorf("client: connection closed: %w", c.conn.Err())
			}
			if err := c.decodeAndHandle(frame); err != nil {
				var sce *handler.StateChangeError
				if errors.As(err, &sce) {
					return nil
				}
				return err
			}
		default:
			return nil
		}
	}
}

func splitHostPort(addr string) (string, int16) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 25565
	}
	var port int
	fmt.Sscanf(portStr, "%d", &port)
	return host, int16(port)
}
