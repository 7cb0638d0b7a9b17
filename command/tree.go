// Package command decodes the server's Brigadier-like command graph and
// parses typed player input against it client-side, per spec.md section 4.8.
//
// Grounded on server/cmd/execute.go's ExecuteLine/ByAlias dispatch shape and
// server/cmd/builtin's literal/argument node vocabulary, generalised from a
// server-authored tree that executes commands to a client-received tree
// that only parses them (for tab-completion/suggestion purposes — this
// client never executes a command locally, per spec.md section 4.8's final
// paragraph).
package command

import (
	"fmt"
	"strings"

	"github.com/dragonfly-bot/azalea/net/packet"
)

// Kind mirrors the node-kind bits packet.RawNode.Flags carries.
type Kind int

const (
	KindRoot Kind = iota
	KindLiteral
	KindArgument
)

// Node is one decoded command-tree node, with Children resolved to pointers
// (rather than indices) so Parse can walk the graph directly.
type Node struct {
	Kind       Kind
	Name       string
	Parser     string
	Properties []byte
	Executable bool
	Redirect   *Node

	// Children is ordered exactly as the server sent it; spec.md section 4.8
	// specifies picking "the unique literal child whose name prefixes the
	// remaining input, or trying argument children in insertion order",
	// which requires preserving wire order rather than a name-keyed map.
	Children []*Node
}

// Tree is the decoded command graph rooted at Root.
type Tree struct {
	Root *Node
}

// Decode builds a Tree from a Commands packet, resolving child/redirect
// indices into Node pointers. Cyclic redirects (a node redirecting into an
// ancestor) are left as-is: Parse only follows a redirect once per step, so
// a cycle can only loop if the input keeps matching, which terminates with
// the input exhausted.
func Decode(pk *packet.Commands) (*Tree, error) {
	if int(pk.Root) >= len(pk.Nodes) || pk.Root < 0 {
		return nil, fmt.Errorf("command: root index %d out of range (%d nodes)", pk.Root, len(pk.Nodes))
	}
	nodes := make([]*Node, len(pk.Nodes))
	for i, raw := range pk.Nodes {
		n := &Node{
			Name:       raw.Name,
			Parser:     raw.Parser,
			Properties: raw.Properties,
			Executable: raw.Flags&packet.NodeFlagExecutable != 0,
		}
		switch raw.Flags & packet.NodeKindMask {
		case packet.NodeKindLiteral:
			n.Kind = KindLiteral
		case packet.NodeKindArgument:
			n.Kind = KindArgument
		default:
			n.Kind = KindRoot
		}
		nodes[i] = n
	}
	for i, raw := range pk.Nodes {
		for _, c := range raw.Children {
			if int(c) >= len(nodes) || c < 0 {
				return nil, fmt.Errorf("command: node %d child index %d out of range", i, c)
			}
			nodes[i].Children = append(nodes[i].Children, nodes[c])
		}
		if raw.HasRedirect {
			if int(raw.RedirectNode) >= len(nodes) || raw.RedirectNode < 0 {
				return nil, fmt.Errorf("command: node %d redirect index %d out of range", i, raw.RedirectNode)
			}
			nodes[i].Redirect = nodes[raw.RedirectNode]
		}
	}
	return &Tree{Root: nodes[pk.Root]}, nil
}

// ByAlias walks the root's direct literal children for name, the
// client-side analogue of dragonfly's server-side ByAlias lookup.
func (t *Tree) ByAlias(name string) (*Node, bool) {
	for _, c := range t.Root.Children {
		if c.Kind == KindLiteral && c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// ParseResult is the outcome of walking a command line against a Tree: the
// node chain matched and the typed arguments collected along the way.
type ParseResult struct {
	Nodes     []*Node
	Args      map[string]string
	Executable bool
	Remainder string
}

// Parse walks line from t.Root per spec.md section 4.8: "at each step
// picking the unique literal child whose name prefixes the remaining input,
// or trying argument children in insertion order ... A redirect behaves as
// a jump to the redirect target's children set while keeping the
// accumulated parsed arguments. An executable node terminates matching if
// input is exhausted or only whitespace remains."
func Parse(t *Tree, line string) (*ParseResult, error) {
	res := &ParseResult{Args: map[string]string{}}
	node := t.Root
	remaining := strings.TrimPrefix(line, "/")
	for {
		remaining = strings.TrimLeft(remaining, " ")
		if node.Redirect != nil {
			node = node.Redirect
		}
		if remaining == "" {
			res.Executable = node.Executable
			res.Remainder = remaining
			return res, nil
		}
		next, consumed, err := matchChild(node, remaining)
		if err != nil {
			return nil, err
		}
		if next == nil {
			res.Remainder = remaining
			return res, nil
		}
		res.Nodes = append(res.Nodes, next)
		if next.Kind == KindArgument {
			res.Args[next.Name] = consumed
		}
		remaining = remaining[len(consumed):]
		node = next
	}
}

// matchChild picks the literal child whose name prefixes remaining, else
// the first argument child, consuming exactly the token/value it matched.
func matchChild(node *Node, remaining string) (*Node, string, error) {
	var literals, arguments []*Node
	for _, c := range node.Children {
		switch c.Kind {
		case KindLiteral:
			literals = append(literals, c)
		case KindArgument:
			arguments = append(arguments, c)
		}
	}
	word, _, _ := strings.Cut(remaining, " ")
	for _, c := range literals {
		if c.Name == word {
			return c, word, nil
		}
	}
	for _, c := range arguments {
		consumed, err := consumeArgument(c, remaining)
		if err != nil {
			return nil, "", fmt.Errorf("command: argument %q: %w", c.Name, err)
		}
		if consumed != "" {
			return c, consumed, nil
		}
	}
	return nil, "", nil
}

// consumeArgument returns the substring of remaining the named parser would
// consume. minecraft:message and greedy brigadier:string consume the rest
// of the line; a quotable brigadier:string starting with a quote consumes
// the quoted span; every other parser consumes a single space-delimited
// word, per spec.md's "Argument parsing consumes input per its parser".
func consumeArgument(n *Node, remaining string) (string, error) {
	if n.Parser == "minecraft:message" {
		return remaining, nil
	}
	if n.Parser == "brigadier:string" {
		switch mode := stringMode(n.Properties); {
		case mode == stringModeGreedy:
			return remaining, nil
		case mode == stringModeQuotable && strings.HasPrefix(remaining, `"`):
			return consumeQuoted(remaining)
		}
	}
	word, _, _ := strings.Cut(remaining, " ")
	return word, nil
}

const (
	stringModeSingle = iota
	stringModeQuotable
	stringModeGreedy
)

func stringMode(props []byte) int {
	if len(props) == 0 {
		return stringModeSingle
	}
	v, _, err := readVarIntBytes(props)
	if err != nil {
		return stringModeSingle
	}
	return int(v)
}

// readVarIntBytes decodes a single LEB128 varint from the start of b,
// mirroring codec.ReadVarInt without requiring an io.Reader wrapper.
func readVarIntBytes(b []byte) (int32, int, error) {
	var v int32
	for i := 0; i < len(b) && i < 5; i++ {
		v |= int32(b[i]&0x7f) << uint(7*i)
		if b[i]&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	return 0, 0, fmt.Errorf("command: truncated varint in parser properties")
}

func consumeQuoted(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' {
		return "", fmt.Errorf("expected opening quote")
	}
	for i := 1; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i] == '"' {
			return s[:i+1], nil
		}
	}
	return "", fmt.Errorf("unterminated quoted string")
}
