package packet

import (
	"github.com/dragonfly-bot/azalea/codec"
	"github.com/dragonfly-bot/azalea/net"
)

// Hello is the first login-state packet the client sends: its chosen
// username and (for online-mode) a pre-assigned UUID, per spec.md section
// 4.7.
type Hello struct {
	Name string    `mc:"limit=16"`
	UUID codec.UUID `mc:""`
}

// EncryptionRequest is sent by the server to begin the online-mode
// encryption handshake; the client responds with an encrypted shared
// secret. Mojang session verification is out of scope; the login handler
// answers with a random shared secret and verify token encrypted under the
// server's public key, then enables encryption.
type EncryptionRequest struct {
	ServerID    string `mc:"limit=20"`
	PublicKey   []byte `mc:"limit=512"`
	VerifyToken []byte `mc:"limit=512"`
}

// EncryptionResponse carries the client's RSA-encrypted shared secret and
// verify token back to the server.
type EncryptionResponse struct {
	SharedSecret []byte `mc:"limit=512"`
	VerifyToken  []byte `mc:"limit=512"`
}

// LoginCompression switches on packet compression with the given byte
// threshold (negative disables it), per spec.md section 4.6.
type LoginCompression struct {
	Threshold int32 `mc:"varint"`
}

// LoginFinished (formerly "Login Success") completes the login state; the
// client must acknowledge it before the server moves to configuration.
type LoginFinished struct {
	UUID     codec.UUID `mc:""`
	Username string     `mc:"limit=16"`
}

// LoginAcknowledged is the client's empty acknowledgement of LoginFinished,
// the packet that actually switches the connection to the configuration
// state (spec.md section 4.6).
type LoginAcknowledged struct{}

// Disconnect (login variant) carries a JSON text-component reason, sent if
// the server rejects the login attempt outright.
type LoginDisconnect struct {
	Reason string `mc:"limit=262144"`
}

func init() {
	Register(net.StateLogin, C2S, 0x00, &Hello{})
	Register(net.StateLogin, S2C, 0x01, &EncryptionRequest{})
	Register(net.StateLogin, C2S, 0x01, &EncryptionResponse{})
	Register(net.StateLogin, S2C, 0x03, &LoginCompression{})
	Register(net.StateLogin, S2C, 0x02, &LoginFinished{})
	Register(net.StateLogin, C2S, 0x03, &LoginAcknowledged{})
	Register(net.StateLogin, S2C, 0x00, &LoginDisconnect{})
}
