// Package tree holds the constituency tree and dependency graph types produced
// by the external annotators, and the traversal helpers every extractor uses.
package tree

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Node is a constituency tree node. A preterminal carries exactly one token
// (Word, Index); a phrase carries an ordered list of children.
type Node struct {
	Label    string
	Word     string
	Index    int // token position for preterminals, -1 for phrases
	Children []*Node
}

// IsPreterminal reports whether the node wraps a single token
func (n *Node) IsPreterminal() bool {
	return n != nil && n.Index >= 0 && len(n.Children) == 0
}

// Leaves returns the tokens under the node, left to right
func (n *Node) Leaves() []string {
	var leaves []string
	for _, p := range n.Preterminals() {
		leaves = append(leaves, p.Word)
	}
	return leaves
}

// Indices returns the token positions under the node, left to right
func (n *Node) Indices() []int {
	var idx []int
	for _, p := range n.Preterminals() {
		idx = append(idx, p.Index)
	}
	return idx
}

// Preterminals returns the token-bearing nodes under n in tree order
func (n *Node) Preterminals() []*Node {
	if n == nil {
		return nil
	}
	if n.IsPreterminal() {
		return []*Node{n}
	}
	var out []*Node
	for _, c := range n.Children {
		out = append(out, c.Preterminals()...)
	}
	return out
}

// Covers reports whether every given token position lies under n
func (n *Node) Covers(positions ...int) bool {
	if n == nil || len(positions) == 0 {
		return false
	}
	under := make(map[int]bool)
	for _, i := range n.Indices() {
		under[i] = true
	}
	for _, p := range positions {
		if !under[p] {
			return false
		}
	}
	return true
}

// String renders the node in bracketed notation
func (n *Node) String() string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	b.WriteByte('(')
	b.WriteString(n.Label)
	if n.IsPreterminal() {
		b.WriteByte(' ')
		b.WriteString(n.Word)
	}
	for _, c := range n.Children {
		b.WriteByte(' ')
		c.write(b)
	}
	b.WriteByte(')')
}

// MarshalJSON encodes the tree as its bracketed string
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.String())
}

// UnmarshalJSON decodes a bracketed string
func (n *Node) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*n = *parsed
	return nil
}

// Parse reads a bracketed constituency tree such as
// "(ROOT (NP (JJ Top) (CD 10) (NNS countries)))" and numbers its tokens from 0.
func Parse(s string) (*Node, error) {
	r := &reader{toks: lex(s)}
	if len(r.toks) == 0 {
		return nil, fmt.Errorf("parse tree: empty input")
	}
	root, err := r.node()
	if err != nil {
		return nil, fmt.Errorf("parse tree: %w", err)
	}
	if r.pos != len(r.toks) {
		return nil, fmt.Errorf("parse tree: trailing input at token %d", r.pos)
	}
	next := 0
	number(root, &next)
	return root, nil
}

func number(n *Node, next *int) {
	if len(n.Children) == 0 && n.Word != "" {
		n.Index = *next
		*next++
		return
	}
	n.Index = -1
	for _, c := range n.Children {
		number(c, next)
	}
}

type reader struct {
	toks []string
	pos  int
}

func (r *reader) peek() string {
	if r.pos >= len(r.toks) {
		return ""
	}
	return r.toks[r.pos]
}

func (r *reader) expect(tok string) error {
	if r.peek() != tok {
		return fmt.Errorf("expected %q at token %d, got %q", tok, r.pos, r.peek())
	}
	r.pos++
	return nil
}

func (r *reader) node() (*Node, error) {
	if err := r.expect("("); err != nil {
		return nil, err
	}
	n := &Node{Index: -1}
	if tok := r.peek(); tok != "(" && tok != ")" && tok != "" {
		n.Label = tok
		r.pos++
	}

	// (TAG word)
	if tok := r.peek(); tok != "(" && tok != ")" && tok != "" {
		n.Word = tok
		r.pos++
		return n, r.expect(")")
	}

	for r.peek() == "(" {
		child, err := r.node()
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, r.expect(")")
}

func lex(s string) []string {
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '(' || r == ')':
			flush()
			toks = append(toks, string(r))
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}
