package commandtree

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// DefaultPrefix is the prefix a node requires when none is configured.
const DefaultPrefix = "!"

// BarePrefix marks a node that is invocable without any prefix as well as
// with "^" itself.
const BarePrefix = "^"

// Node is one registered command, or one subcommand nested under another.
type Node struct {
	Value Value
	// AdminOnly restricts invocation to admins.
	AdminOnly bool
	// SuperOnly narrows AdminOnly to the superuser. Ignored unless AdminOnly.
	SuperOnly bool
	Hidden    bool
	// Sound names an audio resource played after a StringResponse reply.
	Sound string
	// Prefix is the exact trigger a message must carry; see BarePrefix.
	Prefix   string
	Editable bool
	// Subcommands are matched case-sensitively against the next token.
	Subcommands map[string]*Node
}

// NewNode returns a public node with every field at its default.
//
// Postcondition: SuperOnly and Editable are true, Prefix is DefaultPrefix.
func NewNode(v Value) *Node {
	return &Node{
		Value:     v,
		SuperOnly: true,
		Prefix:    DefaultPrefix,
		Editable:  true,
	}
}

// NewEasterNode returns a hidden public node.
func NewEasterNode(v Value) *Node {
	n := NewNode(v)
	n.Hidden = true
	return n
}

// NewPrivateNode returns a hidden node only the superuser may invoke.
func NewPrivateNode(v Value) *Node {
	n := NewNode(v)
	n.Hidden = true
	n.AdminOnly = true
	return n
}

// WithPrefix sets the node prefix unless prefix is empty, and returns n.
func (n *Node) WithPrefix(prefix string) *Node {
	if prefix != "" {
		n.Prefix = prefix
	}
	return n
}

// AddSubcommand nests child under name, replacing any previous entry.
func (n *Node) AddSubcommand(name string, child *Node) *Node {
	if n.Subcommands == nil {
		n.Subcommands = make(map[string]*Node)
	}
	n.Subcommands[name] = child
	return n
}

// nodeJSON is the persisted shape. Pointer fields are nil when the field
// holds its default, so defaults are omitted on write and restored on read.
type nodeJSON struct {
	Value       *Value           `json:"value"`
	AdminOnly   *bool            `json:"admin_only,omitempty"`
	SuperOnly   *bool            `json:"super_only,omitempty"`
	Subcommands map[string]*Node `json:"subcommands,omitempty"`
	Hidden      *bool            `json:"hidden,omitempty"`
	Sound       string           `json:"sound,omitempty"`
	Prefix      *string          `json:"prefix,omitempty"`
	Editable    *bool            `json:"editable,omitempty"`
}

func boolIf(v, def bool) *bool {
	if v == def {
		return nil
	}
	return &v
}

// MarshalJSON writes only the fields that differ from their defaults.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := nodeJSON{
		Value:     &n.Value,
		AdminOnly: boolIf(n.AdminOnly, false),
		SuperOnly: boolIf(n.SuperOnly, true),
		Hidden:    boolIf(n.Hidden, false),
		Sound:     n.Sound,
		Editable:  boolIf(n.Editable, true),
	}
	if len(n.Subcommands) > 0 {
		out.Subcommands = n.Subcommands
	}
	if n.Prefix != DefaultPrefix {
		p := n.Prefix
		out.Prefix = &p
	}
	return json.MarshalNoEscape(out)
}

// UnmarshalJSON reads a node, applying defaults for every absent field.
//
// Postcondition: Returns an error if "value" is missing or malformed.
func (n *Node) UnmarshalJSON(data []byte) error {
	var in nodeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Value == nil {
		return fmt.Errorf("command node is missing its value")
	}
	*n = *NewNode(*in.Value)
	if in.AdminOnly != nil {
		n.AdminOnly = *in.AdminOnly
	}
	if in.SuperOnly != nil {
		n.SuperOnly = *in.SuperOnly
	}
	if in.Hidden != nil {
		n.Hidden = *in.Hidden
	}
	if in.Prefix != nil {
		n.Prefix = *in.Prefix
	}
	if in.Editable != nil {
		n.Editable = *in.Editable
	}
	n.Sound = in.Sound
	for name, child := range in.Subcommands {
		if child == nil {
			return fmt.Errorf("subcommand %q must not be null", name)
		}
	}
	if len(in.Subcommands) > 0 {
		n.Subcommands = in.Subcommands
	}
	return nil
}
