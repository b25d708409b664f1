package treesitter

import (
	"iter"
	"slices"
)

// All yields n and its descendants depth-first, in document order. A nil or
// null node yields nothing.
func All(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		walk(n, yield)
	}
}

func walk(n Node, yield func(Node) bool) bool {
	if n == nil || n.IsNull() {
		return true
	}
	if !yield(n) {
		return false
	}
	for i := range n.ChildCount() {
		if !walk(n.Child(i), yield) {
			return false
		}
	}
	return true
}

// FindByType returns the nodes under n whose grammar type is one of types,
// in document order.
func FindByType(n Node, types ...string) []Node {
	var out []Node
	for node := range All(n) {
		if slices.Contains(types, node.Type()) {
			out = append(out, node)
		}
	}
	return out
}

// NamedChildren returns the named children of n.
func NamedChildren(n Node) []Node {
	if n == nil || n.IsNull() {
		return nil
	}
	var out []Node
	for i := range n.NamedChildCount() {
		if child := n.NamedChild(i); child != nil {
			out = append(out, child)
		}
	}
	return out
}

// HasErrors reports whether the tree under n holds an error or missing
// node. Tree.HasError is cheaper when the backend tracks it.
func HasErrors(n Node) bool {
	for node := range All(n) {
		if node.IsError() || node.IsMissing() {
			return true
		}
	}
	return false
}
