package tree

import "strings"

// Dependency is one (head, relation, dependent) triple. A HeadIndex of -1
// marks the artificial root.
type Dependency struct {
	Head           string `json:"head"`
	HeadIndex      int    `json:"head_index"`
	Relation       string `json:"relation"`
	Dependent      string `json:"dependent"`
	DependentIndex int    `json:"dependent_index"`
}

// LinkedTokens returns every token connected to word by a dependency, in
// either direction. The match on word ignores case.
func LinkedTokens(deps []Dependency, word string) []string {
	var res []string
	for _, d := range deps {
		if d.HeadIndex < 0 {
			continue
		}
		if strings.EqualFold(d.Head, word) {
			res = append(res, d.Dependent)
		} else if strings.EqualFold(d.Dependent, word) {
			res = append(res, d.Head)
		}
	}
	return res
}

// ProjectDeps keeps the triples whose ends both fall in [start, end) and
// rebases their indices to start at 0. Root attachments inside the range are
// kept as root attachments.
func ProjectDeps(deps []Dependency, start, end int) []Dependency {
	var out []Dependency
	in := func(i int) bool { return i >= start && i < end }
	for _, d := range deps {
		if !in(d.DependentIndex) {
			continue
		}
		if d.HeadIndex >= 0 && !in(d.HeadIndex) {
			continue
		}
		p := d
		p.DependentIndex -= start
		if p.HeadIndex >= 0 {
			p.HeadIndex -= start
		}
		out = append(out, p)
	}
	return out
}

// Project returns a copy of n restricted to the tokens in [start, end), with
// token positions rebased to start at 0. Phrases left empty are dropped.
func Project(n *Node, start, end int) *Node {
	if n == nil {
		return nil
	}
	if n.IsPreterminal() {
		if n.Index < start || n.Index >= end {
			return nil
		}
		return &Node{Label: n.Label, Word: n.Word, Index: n.Index - start}
	}
	p := &Node{Label: n.Label, Index: -1}
	for _, c := range n.Children {
		if pc := Project(c, start, end); pc != nil {
			p.Children = append(p.Children, pc)
		}
	}
	if len(p.Children) == 0 {
		return nil
	}
	return p
}
