// Package dfs implements depth-first order queries on a core.Graph of
// variables: topological sort, acyclicity, one-cycle extraction and
// ancestor sets.
//
// What:
//
//   - TopologicalSort: a linear order in which every parent precedes its
//     children, or ErrCycleDetected.
//   - IsAcyclic: convenience wrapper around TopologicalSort.
//   - FindCycle: one directed cycle as a closed walk, for error reporting.
//   - Ancestors: all proper ancestors of a variable.
//
// Why:
//   - Forward simulation visits variables in causal order.
//   - Intercepts of conditional Gaussians are only defined on acyclic graphs.
//
// Complexity:
//
//   - TopologicalSort: Time O(V+E), Memory O(V)
//   - FindCycle:       Time O(V+E), Memory O(V)
//   - Ancestors:       Time O(V+E), Memory O(V)
//
// Errors:
//
//   - ErrGraphNil          graph pointer is nil
//   - ErrVariableNotFound  start variable not in graph
//   - ErrCycleDetected     cycle discovered where a DAG is required
//   - context.Canceled     sort canceled via WithCancelContext
package dfs
