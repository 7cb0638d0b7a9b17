package packet

import "github.com/dragonfly-bot/azalea/net"

// StatusRequest has no fields; the client sends it to ask for a server-list
// ping response.
type StatusRequest struct{}

// StatusResponse carries the JSON status document (server version,
// player count, MOTD).
type StatusResponse struct {
	JSON string `mc:"limit=32767"`
}

// PingRequest/PongResponse carry an opaque payload the server echoes back,
// used to measure round-trip latency during the status handshake.
type PingRequest struct {
	Payload int64 `mc:""`
}

type PongResponse struct {
	Payload int64 `mc:""`
}

func init() {
	Register(net.StateStatus, C2S, 0x00, &StatusRequest{})
	Register(net.StateStatus, S2C, 0x00, &StatusResponse{})
	Register(net.StateStatus, C2S, 0x01, &PingRequest{})
	Register(net.StateStatus, S2C, 0x01, &PongResponse{})
}
