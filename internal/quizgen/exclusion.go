package quizgen

import "strings"

// ExclusionSet is an insertion-ordered set of question texts. Membership is
// exact and case-sensitive. A nil *ExclusionSet is empty.
type ExclusionSet struct {
	texts []string
	index map[string]struct{}
}

// NewExclusionSet returns a set holding texts, duplicates dropped.
func NewExclusionSet(texts ...string) *ExclusionSet {
	e := &ExclusionSet{index: make(map[string]struct{}, len(texts))}
	for _, t := range texts {
		e.Add(t)
	}
	return e
}

// Add inserts text and reports whether it was new.
func (e *ExclusionSet) Add(text string) bool {
	if _, ok := e.index[text]; ok {
		return false
	}
	if e.index == nil {
		e.index = make(map[string]struct{})
	}
	e.index[text] = struct{}{}
	e.texts = append(e.texts, text)
	return true
}

// Contains reports whether text is in the set.
func (e *ExclusionSet) Contains(text string) bool {
	if e == nil {
		return false
	}
	_, ok := e.index[text]
	return ok
}

func (e *ExclusionSet) Len() int {
	if e == nil {
		return 0
	}
	return len(e.texts)
}

// Texts returns the members in insertion order.
func (e *ExclusionSet) Texts() []string {
	if e == nil {
		return nil
	}
	out := make([]string, len(e.texts))
	copy(out, e.texts)
	return out
}

// Clone returns an independent copy.
func (e *ExclusionSet) Clone() *ExclusionSet {
	return NewExclusionSet(e.Texts()...)
}

// render formats the set as the quoted bracketed list used in prompts:
// "[first, second]".
func (e *ExclusionSet) render() string {
	return `"[` + strings.Join(e.Texts(), ", ") + `]"`
}
