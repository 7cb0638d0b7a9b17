package packet

import (
	"fmt"
	"io"

	"github.com/dragonfly-bot/azalea/codec"
	"github.com/dragonfly-bot/azalea/net"
)

// Node flag-byte bits, per spec.md section 4.8: low 2 bits are the node
// kind, the remaining bits are independent flags.
const (
	NodeKindMask     = 0x03
	NodeKindRoot     = 0
	NodeKindLiteral  = 1
	NodeKindArgument = 2

	NodeFlagExecutable       = 0x04
	NodeFlagRedirect         = 0x08
	NodeFlagCustomSuggestions = 0x10
)

// RawNode is one wire-format command node, decoded structurally but with its
// parser descriptor kept uninterpreted beyond the identifier string, per
// spec.md section 4.8: "Argument nodes carry a parser descriptor ... numeric
// variants carry optional min/max bounds via a leading bitset of two flags."
// command.Tree re-reads Properties against Parser to recover typed bounds;
// splitting decode this way keeps the wire schema (this file) independent of
// the parser-descriptor vocabulary (command package).
type RawNode struct {
	Flags             uint8
	Children          []int32
	RedirectNode      int32
	HasRedirect       bool
	Name              string
	Parser            string
	Properties        []byte
	SuggestionsType   string
}

func (n *RawNode) ReadFrom(r io.Reader) error {
	flags, err := codec.ReadUint8(r)
	if err != nil {
		return err
	}
	n.Flags = flags
	children, err := codec.ReadList(r, 4096, func(r io.Reader) (int32, error) {
		v, _, err := codec.ReadVarInt(r)
		return v, err
	})
	if err != nil {
		return fmt.Errorf("packet: command node children: %w", err)
	}
	n.Children = children
	if flags&NodeFlagRedirect != 0 {
		v, _, err := codec.ReadVarInt(r)
		if err != nil {
			return fmt.Errorf("packet: command node redirect: %w", err)
		}
		n.RedirectNode, n.HasRedirect = v, true
	}
	kind := flags & NodeKindMask
	if kind == NodeKindLiteral || kind == NodeKindArgument {
		name, err := codec.ReadString(r, 32767)
		if err != nil {
			return fmt.Errorf("packet: command node name: %w", err)
		}
		n.Name = name
	}
	if kind == NodeKindArgument {
		parser, err := codec.ReadString(r, 32767)
		if err != nil {
			return fmt.Errorf("packet: command node parser: %w", err)
		}
		n.Parser = parser
		props, err := readParserProperties(r, parser)
		if err != nil {
			return fmt.Errorf("packet: command node %q properties: %w", n.Name, err)
		}
		n.Properties = props
		if flags&NodeFlagCustomSuggestions != 0 {
			s, err := codec.ReadString(r, 32767)
			if err != nil {
				return fmt.Errorf("packet: command node suggestions type: %w", err)
			}
			n.SuggestionsType = s
		}
	}
	return nil
}

// readParserProperties consumes exactly the property bytes the named parser
// carries, so the node stream stays correctly positioned for the next node
// even for parsers this project's command package doesn't interpret
// further. Bounded numeric parsers lead with a one-byte flag bitset (bit 0 =
// has-min, bit 1 = has-max) per spec.md section 4.8.
func readParserProperties(r io.Reader, parser string) ([]byte, error) {
	switch parser {
	case "brigadier:double":
		return readBoundedNumeric(r, 8)
	case "brigadier:float":
		return readBoundedNumeric(r, 4)
	case "brigadier:integer":
		return readBoundedNumeric(r, 4)
	case "brigadier:long":
		return readBoundedNumeric(r, 8)
	case "brigadier:string":
		b, err := codec.ReadUint8(r)
		return []byte{b}, err
	case "minecraft:entity":
		b, err := codec.ReadUint8(r)
		return []byte{b}, err
	case "minecraft:score_holder":
		b, err := codec.ReadUint8(r)
		return []byte{b}, err
	case "minecraft:resource", "minecraft:resource_or_tag", "minecraft:resource_key":
		s, err := codec.ReadString(r, 32767)
		return []byte(s), err
	default:
		// Unbounded parsers (bool, block_pos, vec3, item_stack, ...) carry no
		// extra properties in this protocol revision.
		return nil, nil
	}
}

// readBoundedNumeric reads the flag byte plus zero, one, or two
// width-sized values, returning the raw bytes consumed (flag included) so
// Properties round-trips through WriteTo unchanged.
func readBoundedNumeric(r io.Reader, width int) ([]byte, error) {
	flags, err := codec.ReadUint8(r)
	if err != nil {
		return nil, err
	}
	buf := []byte{flags}
	read := func(has bool) error {
		if !has {
			return nil
		}
		b := make([]byte, width)
		_, err := io.ReadFull(r, b)
		buf = append(buf, b...)
		return err
	}
	if err := read(flags&0x01 != 0); err != nil {
		return nil, err
	}
	if err := read(flags&0x02 != 0); err != nil {
		return nil, err
	}
	return buf, nil
}

// Commands carries the server's full command graph as a flat node array
// plus the index of the root, per spec.md section 4.8's decoding rules.
type Commands struct {
	Nodes []RawNode
	Root  int32
}

func (c *Commands) ReadFrom(r io.Reader) error {
	nodes, err := codec.ReadList(r, 65536, func(r io.Reader) (RawNode, error) {
		var n RawNode
		err := n.ReadFrom(r)
		return n, err
	})
	if err != nil {
		return fmt.Errorf("packet: commands nodes: %w", err)
	}
	root, _, err := codec.ReadVarInt(r)
	if err != nil {
		return fmt.Errorf("packet: commands root: %w", err)
	}
	c.Nodes, c.Root = nodes, root
	return nil
}

func (c *Commands) WriteTo(w io.Writer) error {
	return fmt.Errorf("packet: Commands is a server-to-client packet only, not encodable")
}

func init() {
	Register(net.StateGame, S2C, 0x11, &Commands{})
}
