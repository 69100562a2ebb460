package dfs

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/cgm/core"
)

// Ancestors returns every proper ancestor of name, sorted ascending.
//
// Errors:
//   - ErrGraphNil for a nil graph.
//   - ErrVariableNotFound if name is not in g.
//
// Complexity: O(V + E).
func Ancestors(g *core.Graph, name string) ([]string, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	if !g.HasVariable(name) {
		return nil, fmt.Errorf("%w: %q", ErrVariableNotFound, name)
	}

	seen := map[string]struct{}{name: {}}
	stack := []string{name}
	out := make([]string, 0)
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		parents, err := g.Parents(top)
		if err != nil {
			return nil, err
		}
		for _, p := range parents {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
			stack = append(stack, p)
		}
	}
	sort.Strings(out)

	return out, nil
}
