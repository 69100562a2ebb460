// Package core provides a thread-safe, in-memory directed graph whose nodes are
// typed variables.
//
// A Variable is either Discrete (with an ordered list of named categories) or
// Continuous. The kind is a tag fixed at creation, so every structure built
// on a Graph can branch on it once instead of inspecting node types later.
//
// What:
//
//   - Variable lifecycle: AddVariable, ReplaceVariable, RemoveVariable.
//   - Directed edges: AddEdge, RemoveEdge, HasEdge, Edges.
//   - Queries: Variable, Variables, VariablesOfKind, Names, Parents, Children.
//   - Projections: Clone, Subgraph (induced by a set of names).
//
// Determinism:
//
//   - Names(), Variables(), Parents(), Children() and Edges() are sorted by
//     name, so row and slot addressing derived from them is stable.
//
// Concurrency:
//
//   - One sync.RWMutex guards the catalog and both adjacency maps.
//   - Returned Variables are copies; mutating them does not affect the graph.
//
// Errors:
//
//	ErrNilVariable, ErrEmptyName, ErrBadKind, ErrVariableNotFound,
//	ErrDuplicateVariable, ErrKindChanged, ErrEdgeNotFound, ErrDuplicateEdge,
//	ErrLoopNotAllowed.
//
// Complexity:
//
//   - AddVariable, AddEdge, RemoveEdge, HasEdge: O(1)
//   - Parents/Children: O(d log d)
//   - Clone: O(V + E); Subgraph: O(|S| + E_S)
package core
