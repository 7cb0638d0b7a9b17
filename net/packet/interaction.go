package packet

import (
	"io"

	"github.com/dragonfly-bot/azalea/codec"
	"github.com/dragonfly-bot/azalea/net"
)

// Digging status values carried by PlayerAction, per spec.md section 4.7's
// mining interaction ("start digging", "cancel", "finish digging").
const (
	DiggingStart  = 0
	DiggingCancel = 1
	DiggingFinish = 2
)

// PlayerAction reports a digging state change at a block position, per
// spec.md section 4.9's "execute(ctx) ... emits ... start-mining events" —
// this is the packet that event turns into on the wire. Position/Face use
// the packed BlockPos wire form; Sequence is the world-interaction sequence
// number the server echoes back in BlockChangedAck.
type PlayerAction struct {
	Status   int32
	X, Y, Z  int32
	Face     int8
	Sequence int32
}

func (p *PlayerAction) WriteTo(w io.Writer) error {
	if _, err := codec.WriteVarInt(w, p.Status); err != nil {
		return err
	}
	if err := codec.WriteBlockPos(w, p.X, p.Y, p.Z); err != nil {
		return err
	}
	if err := codec.WriteInt8(w, p.Face); err != nil {
		return err
	}
	_, err := codec.WriteVarInt(w, p.Sequence)
	return err
}

func (p *PlayerAction) ReadFrom(r io.Reader) error {
	status, _, err := codec.ReadVarInt(r)
	if err != nil {
		return err
	}
	x, y, z, err := codec.ReadBlockPos(r)
	if err != nil {
		return err
	}
	face, err := codec.ReadInt8(r)
	if err != nil {
		return err
	}
	seq, _, err := codec.ReadVarInt(r)
	if err != nil {
		return err
	}
	p.Status, p.X, p.Y, p.Z, p.Face, p.Sequence = status, x, y, z, face, seq
	return nil
}

// chatAckWidth is the fixed size of the "last seen" acknowledgment bitset
// chat/command packets carry, per the vanilla 20-entry chat-signature
// window. This project never signs chat (account/session authentication is
// treated as an external collaborator, per spec.md's non-goals), so every
// outgoing Acknowledged bitset this client sends is all-zero: it claims no
// prior signed messages seen rather than fabricating signatures for ones it
// never received signed.
const chatAckWidth = 20

// ChatMessage sends an unsigned chat line, per spec.md section 4.9's
// SendChatEvent. HasSignature is always written false: this client has no
// session key to sign with, so it never claims a signature it doesn't have.
type ChatMessage struct {
	Message      string
	Timestamp    int64
	Salt         int64
	MessageCount int32
	Acknowledged *codec.FixedBitSet
}

func (p *ChatMessage) WriteTo(w io.Writer) error {
	if err := codec.WriteString(w, p.Message, 256); err != nil {
		return err
	}
	if err := codec.WriteInt64(w, p.Timestamp); err != nil {
		return err
	}
	if err := codec.WriteInt64(w, p.Salt); err != nil {
		return err
	}
	if err := codec.WriteBool(w, false); err != nil { // has-signature
		return err
	}
	if _, err := codec.WriteVarInt(w, p.MessageCount); err != nil {
		return err
	}
	ack := p.Acknowledged
	if ack == nil {
		ack = codec.NewFixedBitSet(chatAckWidth)
	}
	return codec.WriteFixedBitSet(w, ack)
}

func (p *ChatMessage) ReadFrom(r io.Reader) error {
	msg, err := codec.ReadString(r, 256)
	if err != nil {
		return err
	}
	ts, err := codec.ReadInt64(r)
	if err != nil {
		return err
	}
	salt, err := codec.ReadInt64(r)
	if err != nil {
		return err
	}
	if _, err := codec.ReadBool(r); err != nil { // has-signature, discarded
		return err
	}
	count, _, err := codec.ReadVarInt(r)
	if err != nil {
		return err
	}
	ack, err := codec.ReadFixedBitSet(r, chatAckWidth)
	if err != nil {
		return err
	}
	p.Message, p.Timestamp, p.Salt, p.MessageCount, p.Acknowledged = msg, ts, salt, count, ack
	return nil
}

// ChatCommand sends an unsigned slash-command line, per spec.md section
// 4.9's SendChatKindEvent (the "/command" variant of outgoing chat). The
// argument-signature map is always empty for the same reason ChatMessage's
// signature is always absent.
type ChatCommand struct {
	Command      string
	Timestamp    int64
	Salt         int64
	MessageCount int32
	Acknowledged *codec.FixedBitSet
}

func (p *ChatCommand) WriteTo(w io.Writer) error {
	if err := codec.WriteString(w, p.Command, 256); err != nil {
		return err
	}
	if err := codec.WriteInt64(w, p.Timestamp); err != nil {
		return err
	}
	if err := codec.WriteInt64(w, p.Salt); err != nil {
		return err
	}
	if _, err := codec.WriteVarInt(w, 0); err != nil { // argument-signature count
		return err
	}
	if _, err := codec.WriteVarInt(w, p.MessageCount); err != nil {
		return err
	}
	ack := p.Acknowledged
	if ack == nil {
		ack = codec.NewFixedBitSet(chatAckWidth)
	}
	return codec.WriteFixedBitSet(w, ack)
}

func (p *ChatCommand) ReadFrom(r io.Reader) error {
	cmd, err := codec.ReadString(r, 256)
	if err != nil {
		return err
	}
	ts, err := codec.ReadInt64(r)
	if err != nil {
		return err
	}
	salt, err := codec.ReadInt64(r)
	if err != nil {
		return err
	}
	sigCount, _, err := codec.ReadVarInt(r)
	if err != nil {
		return err
	}
	for i := int32(0); i < sigCount; i++ {
		if _, err := codec.ReadString(r, 256); err != nil {
			return err
		}
		if _, err := io.CopyN(io.Discard, r, 256); err != nil {
			return err
		}
	}
	count, _, err := codec.ReadVarInt(r)
	if err != nil {
		return err
	}
	ack, err := codec.ReadFixedBitSet(r, chatAckWidth)
	if err != nil {
		return err
	}
	p.Command, p.Timestamp, p.Salt, p.MessageCount, p.Acknowledged = cmd, ts, salt, count, ack
	return nil
}

// ClickContainer reports a single click in an open menu, per spec.md
// section 4.9's ContainerClickEvent. ChangedSlots/CarriedItem describe the
// click's resulting slot deltas; this client always sends an empty
// ChangedSlots list and an empty CarriedItem, matching the common
// single-slot click case and leaving multi-slot drag gestures unsupported,
// since nothing in spec.md's scenarios exercises drag-splitting.
type ClickContainer struct {
	WindowID int32
	StateID  int32
	Slot     int16
	Button   int8
	Mode     int32
	Changed  SlotIndexList
	Carried  Slot
}

// SlotIndexList is the varint-counted list of (slot-index, Slot) pairs a
// ClickContainer carries, framed as a hashmap over the wire.
type SlotIndexList []SlotIndex

type SlotIndex struct {
	Index int16
	Item  Slot
}

func (p *ClickContainer) WriteTo(w io.Writer) error {
	if _, err := codec.WriteVarInt(w, p.WindowID); err != nil {
		return err
	}
	if _, err := codec.WriteVarInt(w, p.StateID); err != nil {
		return err
	}
	if err := codec.WriteInt16(w, p.Slot); err != nil {
		return err
	}
	if err := codec.WriteInt8(w, p.Button); err != nil {
		return err
	}
	if _, err := codec.WriteVarInt(w, p.Mode); err != nil {
		return err
	}
	if err := codec.WriteList(w, []SlotIndex(p.Changed), func(w io.Writer, si SlotIndex) error {
		if err := codec.WriteInt16(w, si.Index); err != nil {
			return err
		}
		return si.Item.WriteTo(w)
	}); err != nil {
		return err
	}
	return p.Carried.WriteTo(w)
}

func (p *ClickContainer) ReadFrom(r io.Reader) error {
	windowID, _, err := codec.ReadVarInt(r)
	if err != nil {
		return err
	}
	stateID, _, err := codec.ReadVarInt(r)
	if err != nil {
		return err
	}
	slot, err := codec.ReadInt16(r)
	if err != nil {
		return err
	}
	button, err := codec.ReadInt8(r)
	if err != nil {
		return err
	}
	mode, _, err := codec.ReadVarInt(r)
	if err != nil {
		return err
	}
	changed, err := codec.ReadList(r, 256, func(r io.Reader) (SlotIndex, error) {
		idx, err := codec.ReadInt16(r)
		if err != nil {
			return SlotIndex{}, err
		}
		var sl Slot
		err = sl.ReadFrom(r)
		return SlotIndex{Index: idx, Item: sl}, err
	})
	if err != nil {
		return err
	}
	var carried Slot
	if err := carried.ReadFrom(r); err != nil {
		return err
	}
	p.WindowID, p.StateID, p.Slot, p.Button, p.Mode, p.Changed, p.Carried =
		windowID, stateID, slot, button, mode, changed, carried
	return nil
}

// CloseContainer notifies the server the player closed a menu (including
// their own inventory, WindowID 0), per spec.md section 4.9's
// CloseContainerEvent.
type CloseContainer struct {
	WindowID int32 `mc:"varint"`
}

func init() {
	Register(net.StateGame, C2S, 0x24, &PlayerAction{})
	Register(net.StateGame, C2S, 0x06, &ChatMessage{})
	Register(net.StateGame, C2S, 0x04, &ChatCommand{})
	Register(net.StateGame, C2S, 0x11, &ClickContainer{})
	Register(net.StateGame, C2S, 0x12, &CloseContainer{})
}
