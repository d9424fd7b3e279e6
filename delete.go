package tree23

// Deletion descends like lookup, but a removal at the bottom can leave
// a subtree one level shorter than its siblings. That deficit is
// carried up as a "short" flag and repaired by the immediate parent:
// a 3-node sibling donates a key and child across the separator
// (rotation, deficit resolved), while a 2-node sibling merges with the
// deficient child and the separator into one 3-node. A merge inside a
// 2-node parent leaves the parent itself short; inside a 3-node parent
// it is absorbed by demoting the parent to a 2-node.
//
// When the key to delete is a separator stored in an internal node, it
// is replaced by the minimum of the subtree immediately to its right,
// extracted with deleteMin. The predecessor is never used, so tree
// shapes are deterministic for a given operation sequence.

// deleteRec returns:
//   - (n, false, false)       -> key absent, subtree unchanged
//   - (newNode, true, false)  -> key removed, height preserved
//   - (newNode, true, true)   -> key removed, subtree one level short
func (m *Map[K, V]) deleteRec(n *node[K, V], key K) (*node[K, V], bool, bool) {
	if n == nil {
		return nil, false, false
	}

	if n.terminal() {
		if n.nkeys == 1 {
			if m.cmp(key, n.k1) == 0 {
				return nil, true, true
			}
			return n, false, false
		}
		// a 3-node demotes to a 2-node and never goes short
		switch {
		case m.cmp(key, n.k1) == 0:
			return two(nil, n.k2, n.v2, nil), true, false
		case m.cmp(key, n.k2) == 0:
			return two(nil, n.k1, n.v1, nil), true, false
		default:
			return n, false, false
		}
	}

	if n.nkeys == 1 {
		switch c := m.cmp(key, n.k1); {
		case c < 0:
			child, removed, short := m.deleteRec(n.left, key)
			if !removed {
				return n, false, false
			}
			rep, short := repairLeft2(child, short, n.k1, n.v1, n.right)
			return rep, true, short
		case c > 0:
			child, removed, short := m.deleteRec(n.right, key)
			if !removed {
				return n, false, false
			}
			rep, short := repairRight2(n.left, n.k1, n.v1, child, short)
			return rep, true, short
		default:
			// separator: pull the minimum of the right subtree up
			child, mk, mv, short := m.deleteMin(n.right)
			rep, short := repairRight2(n.left, mk, mv, child, short)
			return rep, true, short
		}
	}

	switch c := m.cmp(key, n.k1); {
	case c < 0:
		child, removed, short := m.deleteRec(n.left, key)
		if !removed {
			return n, false, false
		}
		return repairLeft3(child, short, n.k1, n.v1, n.mid, n.k2, n.v2, n.right), true, false
	case c == 0:
		child, mk, mv, short := m.deleteMin(n.mid)
		return repairMid3(n.left, mk, mv, child, short, n.k2, n.v2, n.right), true, false
	}

	switch c := m.cmp(key, n.k2); {
	case c < 0:
		child, removed, short := m.deleteRec(n.mid, key)
		if !removed {
			return n, false, false
		}
		return repairMid3(n.left, n.k1, n.v1, child, short, n.k2, n.v2, n.right), true, false
	case c > 0:
		child, removed, short := m.deleteRec(n.right, key)
		if !removed {
			return n, false, false
		}
		return repairRight3(n.left, n.k1, n.v1, n.mid, n.k2, n.v2, child, short), true, false
	default:
		child, mk, mv, short := m.deleteMin(n.right)
		return repairRight3(n.left, n.k1, n.v1, n.mid, mk, mv, child, short), true, false
	}
}

// deleteMin removes the smallest entry of a non-empty subtree and
// returns the replacement, the extracted pair, and whether the
// replacement is one level short.
func (m *Map[K, V]) deleteMin(n *node[K, V]) (*node[K, V], K, V, bool) {
	if n.terminal() {
		if n.nkeys == 1 {
			return nil, n.k1, n.v1, true
		}
		return two(nil, n.k2, n.v2, nil), n.k1, n.v1, false
	}
	child, k, v, short := m.deleteMin(n.left)
	if n.nkeys == 1 {
		rep, short := repairLeft2(child, short, n.k1, n.v1, n.right)
		return rep, k, v, short
	}
	return repairLeft3(child, short, n.k1, n.v1, n.mid, n.k2, n.v2, n.right), k, v, false
}

// repairLeft2 rebuilds a 2-node whose left child may be short.
func repairLeft2[K, V any](l *node[K, V], short bool, k K, v V, r *node[K, V]) (*node[K, V], bool) {
	if !short {
		return two(l, k, v, r), false
	}
	if r.nkeys == 2 {
		// rotation: the sibling's leftmost key and child move across
		return two(two(l, k, v, r.left), r.k1, r.v1, two(r.mid, r.k2, r.v2, r.right)), false
	}
	// merge: the result is this node's only child-equivalent, so the
	// deficit propagates
	return three(l, k, v, r.left, r.k1, r.v1, r.right), true
}

// repairRight2 rebuilds a 2-node whose right child may be short.
func repairRight2[K, V any](l *node[K, V], k K, v V, r *node[K, V], short bool) (*node[K, V], bool) {
	if !short {
		return two(l, k, v, r), false
	}
	if l.nkeys == 2 {
		return two(two(l.left, l.k1, l.v1, l.mid), l.k2, l.v2, two(l.right, k, v, r)), false
	}
	return three(l.left, l.k1, l.v1, l.right, k, v, r), true
}

// repairLeft3 rebuilds a 3-node whose left child may be short,
// repairing against the mid sibling. A 3-node parent always absorbs
// the deficit, so no short flag is returned.
func repairLeft3[K, V any](l *node[K, V], short bool, k1 K, v1 V, m *node[K, V], k2 K, v2 V, r *node[K, V]) *node[K, V] {
	if !short {
		return three(l, k1, v1, m, k2, v2, r)
	}
	if m.nkeys == 2 {
		return three(two(l, k1, v1, m.left), m.k1, m.v1, two(m.mid, m.k2, m.v2, m.right), k2, v2, r)
	}
	return two(three(l, k1, v1, m.left, m.k1, m.v1, m.right), k2, v2, r)
}

// repairMid3 rebuilds a 3-node whose mid child may be short, repairing
// against the right sibling.
func repairMid3[K, V any](l *node[K, V], k1 K, v1 V, m *node[K, V], short bool, k2 K, v2 V, r *node[K, V]) *node[K, V] {
	if !short {
		return three(l, k1, v1, m, k2, v2, r)
	}
	if r.nkeys == 2 {
		return three(l, k1, v1, two(m, k2, v2, r.left), r.k1, r.v1, two(r.mid, r.k2, r.v2, r.right))
	}
	return two(l, k1, v1, three(m, k2, v2, r.left, r.k1, r.v1, r.right))
}

// repairRight3 rebuilds a 3-node whose right child may be short,
// repairing against the mid sibling.
func repairRight3[K, V any](l *node[K, V], k1 K, v1 V, m *node[K, V], k2 K, v2 V, r *node[K, V], short bool) *node[K, V] {
	if !short {
		return three(l, k1, v1, m, k2, v2, r)
	}
	if m.nkeys == 2 {
		return three(l, k1, v1, two(m.left, m.k1, m.v1, m.mid), m.k2, m.v2, two(m.right, k2, v2, r))
	}
	return two(l, k1, v1, three(m.left, m.k1, m.v1, m.right, k2, v2, r))
}
