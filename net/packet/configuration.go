package packet

import (
	"fmt"
	"io"

	"github.com/dragonfly-bot/azalea/codec"
	"github.com/dragonfly-bot/azalea/codec/nbt"
	"github.com/dragonfly-bot/azalea/net"
)

// RegistryDataEntry is one (entry-id, optional NBT) pair inside a
// RegistryData packet, per spec.md section 4.3.
type RegistryDataEntry struct {
	ID   string
	Data *nbt.Compound // nil if HasData was false on the wire
}

// RegistryData ships one registry's worth of entries during configuration
// (and occasionally during play, for dynamic registries), per spec.md
// section 4.3/4.7. Implements Reader/Writer directly rather than leaning on
// the `mc`-tag struct framer, since a slice of (string, optional NBT) pairs
// isn't one of the framer's generic slice cases (codec/struct.go only
// special-cases []byte slices; anything else must implement the interfaces
// itself, as this type does here).
type RegistryData struct {
	RegistryID string
	Entries    []RegistryDataEntry
}

func (p *RegistryData) WriteTo(w io.Writer) error {
	if err := codec.WriteString(w, p.RegistryID, 32767); err != nil {
		return err
	}
	if _, err := codec.WriteVarInt(w, int32(len(p.Entries))); err != nil {
		return err
	}
	for _, e := range p.Entries {
		if err := codec.WriteString(w, e.ID, 32767); err != nil {
			return err
		}
		if err := codec.WriteBool(w, e.Data != nil); err != nil {
			return err
		}
		if e.Data != nil {
			if err := nbt.EncodeUnnamed(w, e.Data); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *RegistryData) ReadFrom(r io.Reader) error {
	id, err := codec.ReadString(r, 32767)
	if err != nil {
		return err
	}
	p.RegistryID = id
	n, _, err := codec.ReadVarInt(r)
	if err != nil {
		return err
	}
	p.Entries = make([]RegistryDataEntry, 0, n)
	for i := int32(0); i < n; i++ {
		entryID, err := codec.ReadString(r, 32767)
		if err != nil {
			return fmt.Errorf("packet: registry data entry %d: %w", i, err)
		}
		hasData, err := codec.ReadBool(r)
		if err != nil {
			return err
		}
		var data *nbt.Compound
		if hasData {
			data, err = nbt.DecodeUnnamed(r)
			if err != nil {
				return fmt.Errorf("packet: registry data entry %d NBT: %w", i, err)
			}
		}
		p.Entries = append(p.Entries, RegistryDataEntry{ID: entryID, Data: data})
	}
	return nil
}

// FinishConfiguration is the server's empty signal that configuration is
// complete; the client acknowledges with the identically-empty
// AcknowledgeFinishConfiguration to move to the game state.
type FinishConfiguration struct{}

// AcknowledgeFinishConfiguration is the client's reply to FinishConfiguration.
type AcknowledgeFinishConfiguration struct{}

// ClientInformation carries locale/render-distance/chat-mode settings the
// client announces both at the start of configuration and whenever the
// player changes them in-game.
type ClientInformation struct {
	Locale              string `mc:"limit=16"`
	ViewDistance        int8   `mc:""`
	ChatMode            int32  `mc:"varint"`
	ChatColors          bool   `mc:""`
	DisplayedSkinParts  uint8  `mc:""`
	MainHand            int32  `mc:"varint"`
	EnableTextFiltering bool   `mc:""`
	AllowServerListings bool   `mc:""`
	ParticleStatus      int32  `mc:"varint"`
}

// ConfigurationKeepAlive is the configuration-state keep-alive echoed back
// verbatim by the client.
type ConfigurationKeepAlive struct {
	ID int64 `mc:""`
}

func init() {
	Register(net.StateConfiguration, S2C, 0x07, &RegistryData{})
	Register(net.StateConfiguration, S2C, 0x03, &FinishConfiguration{})
	Register(net.StateConfiguration, C2S, 0x03, &AcknowledgeFinishConfiguration{})
	Register(net.StateConfiguration, C2S, 0x00, &ClientInformation{})
	Register(net.StateConfiguration, S2C, 0x04, &ConfigurationKeepAlive{})
	Register(net.StateConfiguration, C2S, 0x04, &ConfigurationKeepAlive{})
}
