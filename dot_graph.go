package tree23

import (
	"fmt"

	"github.com/emicklei/dot"
)

// RenderDotGraph renders the tree's shape in graphviz dot format, one
// graph node per tree node labeled with its keys.
func RenderDotGraph[K, V any](m *Map[K, V]) string {
	graph := dot.NewGraph(dot.Directed)
	if m.root == nil {
		return graph.String()
	}

	seq := 0
	var traverse func(n *node[K, V], parent *dot.Node, direction string)
	traverse = func(n *node[K, V], parent *dot.Node, direction string) {
		if n == nil {
			return
		}
		var label string
		if n.nkeys == 1 {
			label = fmt.Sprintf("#%d %v", seq, n.k1)
		} else {
			label = fmt.Sprintf("#%d %v | %v", seq, n.k1, n.k2)
		}
		seq++

		gn := graph.Node(label)
		if parent != nil {
			parent.Edge(gn, direction)
		}
		traverse(n.left, &gn, "l")
		if n.nkeys == 2 {
			traverse(n.mid, &gn, "m")
		}
		traverse(n.right, &gn, "r")
	}
	traverse(m.root, nil, "")

	return graph.String()
}
