package compare

import "fmt"

// ErrorKind names one way a comparative sentence can be structurally invalid
type ErrorKind int

const (
	// DanglingThan: a "than" with no comparative word before it
	DanglingThan ErrorKind = iota + 1
	// ClauseMismatch: splitting gave a different number of clauses than
	// comparators, or a comparator fell in the wrong clause
	ClauseMismatch
	// MissingThan: a comparative word whose clause has no "than"
	MissingThan
	// IllegalScope: a country where only regions may scope the query, or a
	// region where one country is required
	IllegalScope
	// NoThreshold: a threshold word with no number in its phrase
	NoThreshold
	// TooManyReferents: more places or years than the construction allows
	TooManyReferents
)

var kindNames = map[ErrorKind]string{
	DanglingThan:     "dangling than",
	ClauseMismatch:   "clause mismatch",
	MissingThan:      "missing than",
	IllegalScope:     "illegal scope",
	NoThreshold:      "no threshold",
	TooManyReferents: "too many referents",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// StructuralError aborts extraction for one sentence. Clause is the index of
// the offending clause, -1 when the error concerns the whole sentence.
type StructuralError struct {
	Kind   ErrorKind
	Clause int
	Detail string
}

func (e *StructuralError) Error() string {
	if e.Clause < 0 {
		return fmt.Sprintf("comparison: %s: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("comparison: %s in clause %d: %s", e.Kind, e.Clause, e.Detail)
}

func structural(kind ErrorKind, clause int, format string, args ...any) *StructuralError {
	return &StructuralError{Kind: kind, Clause: clause, Detail: fmt.Sprintf(format, args...)}
}
