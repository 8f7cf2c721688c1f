// Package divergence computes dissimilarities between discrete distributions.
//
// Three metrics are provided, all returning 0 for identical inputs:
//
//	KL(p, q)     = Σ p_i (ln p_i - ln q_i)
//	JS(p, q)     = (KL(p, q) + KL(q, p)) / 2
//	SqDiff(p, q) = Σ (p_i - q_i)²
//
// JS here is the symmetrised Kullback-Leibler divergence, not the mixture
// based Jensen-Shannon divergence of gonum's stat.JensenShannon.
//
// # Preconditions
//
// Inputs must have equal length and, for KL and JS, strictly positive
// entries wherever the other side is positive. Nothing here guards against
// zeros: a zero q_i under a positive p_i yields +Inf or NaN, which then
// propagates through any clustering run. Floor every table first with
// mixw.NormFloor.
//
// # Batches
//
// Evaluate and EvaluateParallel score one distribution against many
// candidates in a single call, which is the access pattern of the
// clustering engine.
package divergence
