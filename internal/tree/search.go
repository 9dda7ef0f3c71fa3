package tree

import "strings"

// NodesOfLabel returns the leaves of every subtree whose root carries label,
// left to right. Matching subtrees are not searched further.
func NodesOfLabel(n *Node, label string) []string {
	if n == nil {
		return nil
	}
	if n.Label == label {
		return n.Leaves()
	}
	var res []string
	for _, c := range n.Children {
		res = append(res, NodesOfLabel(c, label)...)
	}
	return res
}

// SubtreesOfLabel returns the lowest subtrees carrying label: a match that
// contains another match is replaced by the nested ones.
func SubtreesOfLabel(n *Node, label string) []*Node {
	if n == nil {
		return nil
	}
	if n.Label == label && !hasDescendant(n, label) {
		return []*Node{n}
	}
	var res []*Node
	for _, c := range n.Children {
		res = append(res, SubtreesOfLabel(c, label)...)
	}
	return res
}

func hasDescendant(n *Node, label string) bool {
	for _, c := range n.Children {
		if c.Label == label || hasDescendant(c, label) {
			return true
		}
	}
	return false
}

// Smallest returns the deepest node carrying label that covers every given
// token position, or nil.
func Smallest(n *Node, label string, positions ...int) *Node {
	if !n.Covers(positions...) {
		return nil
	}
	for _, c := range n.Children {
		if m := Smallest(c, label, positions...); m != nil {
			return m
		}
	}
	if n.Label == label {
		return n
	}
	return nil
}

// HasLabel reports whether any node of the tree carries one of labels
func HasLabel(n *Node, labels ...string) bool {
	if n == nil {
		return false
	}
	for _, l := range labels {
		if n.Label == l {
			return true
		}
	}
	for _, c := range n.Children {
		if HasLabel(c, labels...) {
			return true
		}
	}
	return false
}

// ContainsFold reports whether words holds w, ignoring case
func ContainsFold(words []string, w string) bool {
	for _, x := range words {
		if strings.EqualFold(x, w) {
			return true
		}
	}
	return false
}

// FirstOccurring returns whichever of a and b appears first in tokens,
// comparing only the first word of each. Returns "" when neither appears.
func FirstOccurring(a, b string, tokens []string) string {
	fa := firstWord(a)
	fb := firstWord(b)
	for _, t := range tokens {
		if t == fa {
			return a
		}
		if t == fb {
			return b
		}
	}
	return ""
}

func firstWord(s string) string {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}
