// Package cluster builds merge trees by greedy agglomerative clustering.
//
// The Engine keeps a pool of active clusters, one per input item at the
// start. A scan walks the pool by position: the cluster at the current
// position is the pivot, every active cluster is scored by the divergence
// from the pivot's centroid to the midpoint between the pivot and the
// candidate, and the pivot is merged with the lowest-scoring candidate whose
// score is strictly positive. The merged cluster takes the pivot's slot, the
// partner's slot is removed and the scan moves to the next position. Scans
// repeat from position 0 until one cluster is left.
//
// The merge rule is position dependent and asymmetric. It is reproduced
// exactly, including its tie-breaking, because it decides the tree shape
// that downstream consumers were tuned on.
//
// Multi-feature items are scored per feature and the per-feature scores are
// averaged with equal weight.
//
// Inputs must be floored with mixw.NormFloor before clustering; zero mass
// turns KL-based scores into NaN or +Inf and the resulting tree is
// meaningless.
package cluster
