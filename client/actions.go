package client

import (
	"fmt"
	"time"

	"github.com/dragonfly-bot/azalea/net/packet"
	"github.com/dragonfly-bot/azalea/pathfinder"
)

// Goto starts the pathfinder toward target under opt, replacing any
// in-progress path, per spec.md section 4.9's host-facing control surface.
// The resulting path is driven one tick at a time by Run's game-tick stage;
// Goto itself only runs the (bounded-time) search.
func (c *Client) Goto(target pathfinder.Pos, opt pathfinder.Options) error {
	c.mu.RLock()
	w := c.world
	pos := c.player.Position
	c.mu.RUnlock()
	if w == nil {
		return fmt.Errorf("client: Goto: no world adopted yet")
	}

	q := pathfinder.NewWorldQuery(w)
	start := blockPos(pos)
	path := pathfinder.FindPath(q, start, pathfinder.GoalBlock(target), pathfinder.Manhattan(target), opt,
		pathfinder.DefaultMinTimeout, pathfinder.DefaultMaxTimeout)
	if path == nil {
		return fmt.Errorf("client: Goto: no path found from %v to %v", start, target)
	}

	c.mu.Lock()
	c.activePath = path
	c.mu.Unlock()
	return nil
}

// StopPathfinding cancels any in-progress path; the next game tick runs
// travel physics with no pathfinder-driven input.
func (c *Client) StopPathfinding() {
	c.mu.Lock()
	c.activePath = nil
	c.mu.Unlock()
}

// Pathfinding reports whether a path is currently being executed.
func (c *Client) Pathfinding() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.activePath != nil
}

// SetActiveProcess records name as the host's label for whatever
// high-level task is currently driving this client (e.g. "mine_diamonds"),
// surfaced back via ActiveProcess for logging/diagnostics; it has no effect
// on tick behaviour by itself.
func (c *Client) SetActiveProcess(name string) {
	c.mu.Lock()
	c.activeProcess = name
	c.mu.Unlock()
}

// ActiveProcess returns the label last set by SetActiveProcess, or "" if
// none has been set.
func (c *Client) ActiveProcess() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.activeProcess
}

// nextDigSequence hands out the world-interaction sequence numbers
// PlayerAction/BlockChangedAck thread together.
func (c *Client) nextDigSequence() int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.digSequence++
	return c.digSequence
}

// StartMiningBlock sends the start-digging PlayerAction for pos, per
// spec.md section 4.9's execution system emitting a start-mining event for
// a MoveMine edge (see pathfinder/execution.go's Intent.StartMining, wired
// through applyPathfinderIntent in tick.go). Face is always "up" (1): this
// project does not reason about which block face is actually exposed,
// matching the pathfinder's full-cube collision model.
func (c *Client) StartMiningBlock(pos pathfinder.Pos) error {
	return c.Send(&packet.PlayerAction{
		Status:   packet.DiggingStart,
		X:        pos.X,
		Y:        pos.Y,
		Z:        pos.Z,
		Face:     1,
		Sequence: c.nextDigSequence(),
	})
}

// ContainerClickEvent sends a single container-menu click, per spec.md
// section 4.9's ContainerClickEvent. It always reports an empty changed-
// slots delta and an empty carried item; multi-slot drag gestures are not
// supported (see net/packet/interaction.go's ClickContainer doc comment).
func (c *Client) ContainerClickEvent(windowID, stateID int32, slot int16, button int8, mode int32) error {
	return c.Send(&packet.ClickContainer{
		WindowID: windowID,
		StateID:  stateID,
		Slot:     slot,
		Button:   button,
		Mode:     mode,
	})
}

// CloseContainerEvent sends the close-menu notification for windowID, per
// spec.md section 4.9's CloseContainerEvent.
func (c *Client) CloseContainerEvent(windowID int32) error {
	return c.Send(&packet.CloseContainer{WindowID: windowID})
}

// ChatKind distinguishes a plain chat line from a slash command, the two
// outgoing-chat shapes spec.md section 4.9 names separately
// (SendChatEvent/SendChatKindEvent).
type ChatKind int

const (
	ChatKindMessage ChatKind = iota
	ChatKindCommand
)

// SendChatEvent sends message as an ordinary (unsigned) chat line; shorthand
// for SendChatKindEvent(ChatKindMessage, message).
func (c *Client) SendChatEvent(message string) error {
	return c.SendChatKindEvent(ChatKindMessage, message)
}

// SendChatKindEvent sends text as either a chat message or a slash command
// depending on kind, bumping the local player's ChatIndex watermark per
// spec.md section 4.9. Both wire forms are sent unsigned/unacknowledged
// (see net/packet/interaction.go): account/session authentication is an
// external collaborator this project does not implement.
func (c *Client) SendChatKindEvent(kind ChatKind, text string) error {
	c.mu.Lock()
	idx := c.player.ChatIndex
	c.player.ChatIndex++
	c.mu.Unlock()

	ts := time.Now().UnixMilli()
	if kind == ChatKindCommand {
		return c.Send(&packet.ChatCommand{
			Command:      text,
			Timestamp:    ts,
			MessageCount: idx,
		})
	}
	return c.Send(&packet.ChatMessage{
		Message:      text,
		Timestamp:    ts,
		MessageCount: idx,
	})
}
