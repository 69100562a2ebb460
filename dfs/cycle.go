package dfs

import "github.com/katalvlaran/cgm/core"

// FindCycle returns one directed cycle of g as a closed walk
// [v0, v1, ..., v0], or nil when g is acyclic. The search starts from the
// smallest name and explores children in name order, so the result is
// deterministic.
//
// Complexity: O(V + E).
func FindCycle(g *core.Graph) ([]string, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	names := g.Names()
	state := make(map[string]int, len(names))
	path := make([]string, 0, len(names))

	var visit func(name string) ([]string, error)
	visit = func(name string) ([]string, error) {
		state[name] = Gray
		path = append(path, name)

		children, err := g.Children(name)
		if err != nil {
			return nil, err
		}
		for _, c := range children {
			switch state[c] {
			case White:
				cyc, err := visit(c)
				if err != nil || cyc != nil {
					return cyc, err
				}
			case Gray:
				// close the cycle from the first occurrence of c on the path
				var k int
				for k = len(path) - 1; k >= 0 && path[k] != c; k-- {
				}
				cyc := make([]string, 0, len(path)-k+1)
				cyc = append(cyc, path[k:]...)
				cyc = append(cyc, c)

				return cyc, nil
			}
		}

		state[name] = Black
		path = path[:len(path)-1]

		return nil, nil
	}

	for _, name := range names {
		if state[name] != White {
			continue
		}
		cyc, err := visit(name)
		if err != nil || cyc != nil {
			return cyc, err
		}
	}

	return nil, nil
}
