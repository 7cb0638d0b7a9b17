package client

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml"
)

// Config holds everything needed to start a Client, mirroring dragonfly's
// Config/UserConfig split: Config is the fully-resolved, code-facing form;
// UserConfig is what gets loaded from a TOML file on disk.
type Config struct {
	Log *slog.Logger

	// Address is "host:port" of the server to dial.
	Address string
	// Username is the offline-mode (or pre-auth) display name sent in Hello.
	Username string
	// UUID identifies this bot across reconnects; generated if zero.
	UUID uuid.UUID
	// ProtocolVersion is sent in the Handshake packet.
	ProtocolVersion int32

	// ViewDistance is announced in ClientInformation.
	ViewDistance int8
	// GameTickInterval overrides the 20Hz default game tick, primarily for
	// tests; zero means 50ms (spec.md section 4.10's fixed-rate game tick).
	GameTickInterval time.Duration
	// UpdateTickInterval overrides the variable-rate update loop's period;
	// zero means 10ms.
	UpdateTickInterval time.Duration

	// DimensionName groups this Client into a swarm.Swarm world by name, per
	// spec.md section 4.10.
	DimensionName string
}

// UserConfig is the TOML-serialisable user configuration for a Client,
// converted to a Config via UserConfig.Config(log). Grounded on
// server/conf.go's UserConfig pattern (grouped sections, sensible zero-value
// defaults filled in by the conversion rather than by the zero value itself).
type UserConfig struct {
	Network struct {
		Address string
	}
	Bot struct {
		Username        string
		UUID            string
		ProtocolVersion int32
		ViewDistance    int8
		Dimension       string
	}
}

// DefaultUserConfig returns a UserConfig with the default values filled out,
// the same role server.DefaultConfig plays for the server.
func DefaultUserConfig() UserConfig {
	var uc UserConfig
	uc.Network.Address = "localhost:25565"
	uc.Bot.Username = "azaleabot"
	uc.Bot.ProtocolVersion = 770
	uc.Bot.ViewDistance = 10
	uc.Bot.Dimension = "overworld"
	return uc
}

// Config converts a UserConfig to a Config usable by New.
func (uc UserConfig) Config(log *slog.Logger) (Config, error) {
	if log == nil {
		log = slog.Default()
	}
	id := uuid.New()
	if uc.Bot.UUID != "" {
		parsed, err := uuid.Parse(uc.Bot.UUID)
		if err != nil {
			return Config{}, fmt.Errorf("client: parse bot uuid: %w", err)
		}
		id = parsed
	}
	return Config{
		Log:             log,
		Address:         uc.Network.Address,
		Username:        uc.Bot.Username,
		UUID:            id,
		ProtocolVersion: uc.Bot.ProtocolVersion,
		ViewDistance:    uc.Bot.ViewDistance,
		DimensionName:   uc.Bot.Dimension,
	}, nil
}

// LoadUserConfig reads a TOML configuration file from path, creating it with
// default values first if it does not yet exist, mirroring the
// read-or-create convention dragonfly's cmd entrypoint uses for its own
// config.toml.
func LoadUserConfig(path string) (UserConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		data, err := toml.Marshal(DefaultUserConfig())
		if err != nil {
			return UserConfig{}, fmt.Errorf("client: marshal default config: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return UserConfig{}, fmt.Errorf("client: write default config: %w", err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return UserConfig{}, fmt.Errorf("client: read config: %w", err)
	}
	var uc UserConfig
	if err := toml.Unmarshal(data, &uc); err != nil {
		return UserConfig{}, fmt.Errorf("client: parse config: %w", err)
	}
	return uc, nil
}

// randomSharedSecret produces the 16-byte AES key a client proposes during
// the encryption handshake, the size vanilla's own client generates.
func randomSharedSecret() ([]byte, error) {
	b := make([]byte, 16)
	_, err := rand.Read(b)
	return b, err
}
