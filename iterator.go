package tree23

import "iter"

// All returns an in-order iterator over the map: keys are yielded in
// strictly ascending order. The map must not be modified during
// iteration.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		m.root.walk(yield)
	}
}

func (n *node[K, V]) walk(yield func(K, V) bool) bool {
	if n == nil {
		return true
	}
	if !n.left.walk(yield) || !yield(n.k1, n.v1) {
		return false
	}
	if n.nkeys == 1 {
		return n.right.walk(yield)
	}
	return n.mid.walk(yield) && yield(n.k2, n.v2) && n.right.walk(yield)
}
