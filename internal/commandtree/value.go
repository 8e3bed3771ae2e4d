package commandtree

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	// KindStringResponse is a literal reply template.
	KindStringResponse Kind = iota
	// KindAlias redirects resolution to another command name.
	KindAlias
	// KindGeneric names a handler routine; the tree never interprets it.
	KindGeneric
)

var kindNames = [...]string{
	KindStringResponse: "StringResponse",
	KindAlias:          "Alias",
	KindGeneric:        "Generic",
}

// String returns the persisted variant name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Value is the tagged payload of a Node.
//
// Invariant: Kind is one of KindStringResponse, KindAlias, KindGeneric.
type Value struct {
	Kind Kind
	// Text is the reply template, alias target or handler tag depending on Kind.
	Text string
}

// StringResponse returns a literal reply value.
func StringResponse(text string) Value { return Value{Kind: KindStringResponse, Text: text} }

// Alias returns a value redirecting to target.
func Alias(target string) Value { return Value{Kind: KindAlias, Text: target} }

// Generic returns a value carrying an opaque handler tag.
func Generic(tag string) Value { return Value{Kind: KindGeneric, Text: tag} }

// String renders the value as Kind(Text) for logs.
func (v Value) String() string {
	return fmt.Sprintf("%s(%s)", v.Kind, v.Text)
}

// MarshalJSON encodes the value as a single-key object such as
// {"Alias":"target"}.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.Kind < 0 || int(v.Kind) >= len(kindNames) {
		return nil, fmt.Errorf("marshalling command value: unknown kind %d", int(v.Kind))
	}
	return json.MarshalNoEscape(map[string]string{kindNames[v.Kind]: v.Text})
}

// UnmarshalJSON decodes a single-key variant object.
//
// Postcondition: Returns an error unless data holds exactly one known variant
// with a string payload.
func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return fmt.Errorf("command value must not be null")
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding command value: %w", err)
	}
	if len(raw) != 1 {
		return fmt.Errorf("command value must have exactly one variant, got %d", len(raw))
	}
	for name, text := range raw {
		for k, kn := range kindNames {
			if kn == name {
				*v = Value{Kind: Kind(k), Text: text}
				return nil
			}
		}
		return fmt.Errorf("unknown command value variant %q", name)
	}
	return nil
}
