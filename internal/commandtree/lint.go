package commandtree

import (
	"fmt"
	"strings"
	"unicode"
)

// Lint lists problems that would make commands unreachable: keys with
// uppercase letters, and aliases that dangle or loop. Problems are returned
// in key order.
func (t *Tree) Lint() []string {
	var problems []string
	for _, name := range t.Names() {
		if strings.IndexFunc(name, unicode.IsUpper) >= 0 {
			problems = append(problems, fmt.Sprintf("%s: key is not lowercase", name))
		}
		node := t.commands[name]
		if node.Value.Kind != KindAlias {
			continue
		}
		if _, ok := t.FindRecurse(name, map[string]struct{}{name: {}}); !ok {
			if t.Contains(node.Value.Text) {
				problems = append(problems, fmt.Sprintf("%s: alias loops back through %q", name, node.Value.Text))
			} else {
				problems = append(problems, fmt.Sprintf("%s: alias target %q does not exist", name, node.Value.Text))
			}
		}
	}
	return problems
}
