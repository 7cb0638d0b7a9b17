package packet

import "github.com/dragonfly-bot/azalea/net"

// Handshake is the single handshake-state packet, sent once by the client
// to select the next state (status or login) and supply the server address
// it dialled, per spec.md section 4.7.
type Handshake struct {
	ProtocolVersion int32  `mc:"varint"`
	ServerAddress   string `mc:"limit=255"`
	ServerPort      int16  `mc:""`
	NextState       int32  `mc:"varint"`
}

// Intents a Handshake's NextState may carry.
const (
	IntentStatus = 1
	IntentLogin  = 2
	IntentTransfer = 3
)

func init() {
	Register(net.StateHandshake, C2S, 0x00, &Handshake{})
}
