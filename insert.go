package tree23

// overflow carries a subtree that grew one level taller than its
// siblings: a promoted key-value pair flanked by two equal-height
// children. The parent must absorb it, either by widening into a
// 3-node or by splitting and overflowing in turn.
type overflow[K, V any] struct {
	left  *node[K, V]
	key   K
	val   V
	right *node[K, V]
}

// insertRec returns:
//   - (newNode, nil, updated) -> same-height replacement; updated is
//     true when an existing key's value was overwritten
//   - (nil, overflow, false)  -> subtree grew, parent must absorb
func (m *Map[K, V]) insertRec(n *node[K, V], key K, val V) (*node[K, V], *overflow[K, V], bool) {
	if n == nil {
		// inserting into an empty position is the minimal overflow
		return nil, &overflow[K, V]{key: key, val: val}, false
	}

	if n.nkeys == 1 {
		switch c := m.cmp(key, n.k1); {
		case c < 0:
			child, of, updated := m.insertRec(n.left, key, val)
			if of == nil {
				n.left = child
				return n, nil, updated
			}
			// absorb the promoted pair by widening into a 3-node
			return three(of.left, of.key, of.val, of.right, n.k1, n.v1, n.right), nil, false
		case c > 0:
			child, of, updated := m.insertRec(n.right, key, val)
			if of == nil {
				n.right = child
				return n, nil, updated
			}
			return three(n.left, n.k1, n.v1, of.left, of.key, of.val, of.right), nil, false
		default:
			n.v1 = val
			return n, nil, true
		}
	}

	// 3-node: no room for a third key, so an overflowing child splits
	// this node into two 2-nodes and promotes one of its own keys
	switch c := m.cmp(key, n.k1); {
	case c < 0:
		child, of, updated := m.insertRec(n.left, key, val)
		if of == nil {
			n.left = child
			return n, nil, updated
		}
		return nil, &overflow[K, V]{
			left:  two(of.left, of.key, of.val, of.right),
			key:   n.k1,
			val:   n.v1,
			right: two(n.mid, n.k2, n.v2, n.right),
		}, false
	case c == 0:
		n.v1 = val
		return n, nil, true
	}

	switch c := m.cmp(key, n.k2); {
	case c < 0:
		child, of, updated := m.insertRec(n.mid, key, val)
		if of == nil {
			n.mid = child
			return n, nil, updated
		}
		return nil, &overflow[K, V]{
			left:  two(n.left, n.k1, n.v1, of.left),
			key:   of.key,
			val:   of.val,
			right: two(of.right, n.k2, n.v2, n.right),
		}, false
	case c > 0:
		child, of, updated := m.insertRec(n.right, key, val)
		if of == nil {
			n.right = child
			return n, nil, updated
		}
		return nil, &overflow[K, V]{
			left:  two(n.left, n.k1, n.v1, n.mid),
			key:   n.k2,
			val:   n.v2,
			right: two(of.left, of.key, of.val, of.right),
		}, false
	default:
		n.v2 = val
		return n, nil, true
	}
}
