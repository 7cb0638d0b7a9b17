// Package packet declares the wire schema for every packet this client
// needs to send or handle, keyed by protocol state and direction, per
// spec.md section 4.7 "Mandatory packets".
//
// Grounded on
// other_examples/925be944_go-mclib-protocol__java_protocol-packets-c2s_configuration.go.go's
// per-packet `var XPacket = jp.NewPacket(jp.StateConfiguration, jp.C2S, 0x00)`
// declaration convention, adapted into a `State × Direction × ID -> factory`
// map so a frame can be dispatched to the right empty struct before
// `codec.DecodeStruct` fills it in, matching dragonfly's map-based packet
// dispatch idiom used throughout `server/session`.
package packet

import (
	"fmt"
	"reflect"

	"github.com/dragonfly-bot/azalea/net"
)

// Direction distinguishes packets sent by the client (C2S) from ones it
// receives (S2C).
type Direction int

const (
	C2S Direction = iota
	S2C
)

type key struct {
	state net.State
	dir   Direction
	id    int32
}

var registry = map[key]reflect.Type{}

// idKey is the reverse of key: a registered wire type plus the
// state/direction it was registered under, used by EncodeID to recover the
// packet id a caller must frame an outbound packet with.
type idKey struct {
	state net.State
	dir   Direction
	typ   reflect.Type
}

var idIndex = map[idKey]int32{}

// Register associates (state, dir, id) with the wire type of a zero-valued
// instance of p, used both to decode incoming frames and to validate
// outgoing ones. Called from the init functions of the sibling
// packet-definition files (registration-by-side-effect, the same
// pattern dragonfly's block/item registries use).
func Register(state net.State, dir Direction, id int32, p any) {
	t := reflect.TypeOf(p).Elem()
	registry[key{state, dir, id}] = t
	idIndex[idKey{state, dir, t}] = id
}

// EncodeID returns the wire id p was registered under for (state, dir), so
// a caller sending p only needs to know its Go type, not its numeric id.
func EncodeID(state net.State, dir Direction, p any) (int32, bool) {
	t := reflect.TypeOf(p)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	id, ok := idIndex[idKey{state, dir, t}]
	return id, ok
}

// New allocates a zero-valued packet for (state, dir, id), or nil, false if
// no packet is registered there.
func New(state net.State, dir Direction, id int32) (any, bool) {
	t, ok := registry[key{state, dir, id}]
	if !ok {
		return nil, false
	}
	return reflect.New(t).Interface(), true
}

// errUnknownPacket builds the error returned when decoding a frame whose
// (state, dir, id) has no registered schema.
func errUnknownPacket(state net.State, dir Direction, id int32) error {
	return fmt.Errorf("packet: no schema registered for state=%s dir=%d id=0x%02x", state, dir, id)
}
