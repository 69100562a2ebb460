// Package bayes is the categorical sub-model: conditional probability tables
// over a graph of discrete variables.
//
// A Pm fixes the node order (by name), each node's parents (by name) and the
// mixed-radix enumeration of parent configurations (RowIndex, RowValues).
// An Im stores one probability per (node, row, category) in a tensor.Arena.
// Estimate computes maximum-likelihood tables from a dataset; rows without
// support are NaN.
//
// Proposition and DataProbs give conditional probabilities of partial
// assignments directly from data, P(assertion | condition), again NaN when
// the condition has no support.
package bayes
