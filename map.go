// Package tree23 implements an in-memory ordered key-value map backed
// by a 2-3 tree: every internal node holds one or two keys, and every
// leaf sits at the same depth at all times, so lookup, insert and
// delete are O(log n) worst case with no amortization.
package tree23

import "cmp"

// Map is an ordered map from K to V. The zero value is not usable; use
// New or NewFunc.
//
// A Map is not safe for concurrent use. Callers that share a Map across
// goroutines must serialize access themselves; no operation blocks or
// performs I/O, so a plain mutex around each call suffices.
type Map[K, V any] struct {
	root *node[K, V]
	cmp  func(K, K) int
	size int
}

// New returns an empty map ordered by the natural ordering of K.
func New[K cmp.Ordered, V any]() *Map[K, V] {
	return &Map[K, V]{cmp: cmp.Compare[K]}
}

// NewFunc returns an empty map ordered by cmp. cmp must implement a
// strict total order over K; behavior is undefined for comparators
// that are inconsistent or non-deterministic.
func NewFunc[K, V any](cmp func(K, K) int) *Map[K, V] {
	return &Map[K, V]{cmp: cmp}
}

// Get returns the value stored under key and whether it is present.
func (m *Map[K, V]) Get(key K) (V, bool) {
	n := m.root
	for n != nil {
		switch c := m.cmp(key, n.k1); {
		case c < 0:
			n = n.left
			continue
		case c == 0:
			return n.v1, true
		}
		if n.nkeys == 1 {
			n = n.right
			continue
		}
		switch c := m.cmp(key, n.k2); {
		case c < 0:
			n = n.mid
		case c > 0:
			n = n.right
		default:
			return n.v2, true
		}
	}
	var zero V
	return zero, false
}

// Set stores value under key, overwriting any previous value, and
// reports whether the key was already present. An overwrite never
// changes the tree's shape.
func (m *Map[K, V]) Set(key K, value V) bool {
	n, of, updated := m.insertRec(m.root, key, value)
	if of != nil {
		// overflow reached the root: the tree grows by one level
		n = two(of.left, of.key, of.val, of.right)
	}
	m.root = n
	if !updated {
		m.size++
	}
	return updated
}

// Delete removes key from the map and reports whether it was present.
// Deleting an absent key leaves the map unchanged.
func (m *Map[K, V]) Delete(key K) bool {
	n, removed, _ := m.deleteRec(m.root, key)
	// an underflow surfacing here has no parent to repair against; the
	// short replacement becomes the root and the tree shrinks one level
	m.root = n
	if removed {
		m.size--
	}
	return removed
}

// Len returns the number of keys in the map.
func (m *Map[K, V]) Len() int { return m.size }

// Height returns the number of internal levels. Every leaf is at the
// same depth, so walking the left spine measures the whole tree.
func (m *Map[K, V]) Height() int {
	h := 0
	for n := m.root; n != nil; n = n.left {
		h++
	}
	return h
}

// Min returns the smallest key and its value, or false if the map is
// empty.
func (m *Map[K, V]) Min() (K, V, bool) {
	n := m.root
	if n == nil {
		var zk K
		var zv V
		return zk, zv, false
	}
	for n.left != nil {
		n = n.left
	}
	return n.k1, n.v1, true
}

// Max returns the largest key and its value, or false if the map is
// empty.
func (m *Map[K, V]) Max() (K, V, bool) {
	n := m.root
	if n == nil {
		var zk K
		var zv V
		return zk, zv, false
	}
	for n.right != nil {
		n = n.right
	}
	if n.nkeys == 2 {
		return n.k2, n.v2, true
	}
	return n.k1, n.v1, true
}
