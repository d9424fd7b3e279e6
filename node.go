package tree23

// A node is either a 2-node (one key, two children) or a 3-node (two
// keys, three children), discriminated by nkeys. A nil *node is a leaf.
// Invariants maintained by every mutation:
//   - keys in left < k1 < keys in mid < k2 < keys in right
//   - every leaf sits at the same depth
//   - children are all nil or all non-nil
type node[K, V any] struct {
	left, mid, right *node[K, V]
	k1, k2           K
	v1, v2           V
	nkeys            int8
}

func two[K, V any](l *node[K, V], k K, v V, r *node[K, V]) *node[K, V] {
	return &node[K, V]{nkeys: 1, left: l, k1: k, v1: v, right: r}
}

func three[K, V any](l *node[K, V], k1 K, v1 V, m *node[K, V], k2 K, v2 V, r *node[K, V]) *node[K, V] {
	return &node[K, V]{nkeys: 2, left: l, k1: k1, v1: v1, mid: m, k2: k2, v2: v2, right: r}
}

// terminal reports whether the node's children are all leaves.
func (n *node[K, V]) terminal() bool {
	return n.left == nil
}
