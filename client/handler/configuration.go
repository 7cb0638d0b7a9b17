package handler

import (
	"fmt"

	"github.com/dragonfly-bot/azalea/codec/nbt"
	azalnet "github.com/dragonfly-bot/azalea/net"
	"github.com/dragonfly-bot/azalea/net/packet"
)

func init() {
	Register(&packet.RegistryData{}, handleRegistryData)
	Register(&packet.FinishConfiguration{}, handleFinishConfiguration)
	Register(&packet.ConfigurationKeepAlive{}, handleConfigurationKeepAlive)
}

// handleRegistryData appends the shipped entries to the registry holder,
// per spec.md section 4.7 "Configuration.RegistryData(id, entries): append
// to registry holder."
func handleRegistryData(ctx Context, p any) error {
	pk := p.(*packet.RegistryData)
	entries := make(map[string]*nbt.Compound, len(pk.Entries))
	for _, e := range pk.Entries {
		entries[e.ID] = e.Data
	}
	ctx.Holder().Append(pk.RegistryID, entries)
	return nil
}

// handleFinishConfiguration acknowledges and transitions to Game. It does
// not attach any components: the local player's Attributes and Abilities
// are created together with the LocalPlayer, not here. A state-changing
// packet.
func handleFinishConfiguration(ctx Context, p any) error {
	if err := ctx.Send(&packet.AcknowledgeFinishConfiguration{}); err != nil {
		return err
	}
	if err := ctx.Conn().Transition(azalnet.StateGame); err != nil {
		return fmt.Errorf("handler: finish configuration: %w", err)
	}
	return &StateChangeError{To: azalnet.StateGame}
}

func handleConfigurationKeepAlive(ctx Context, p any) error {
	pk := p.(*packet.ConfigurationKeepAlive)
	return ctx.Send(&packet.ConfigurationKeepAlive{ID: pk.ID})
}
