package quizgen

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/abhisek/studydesk/internal/llm"
	"github.com/abhisek/studydesk/internal/logger"
)

var errEmptyCompletion = errors.New("completion is empty")

// payloadStart finds where the quiz payload begins inside surrounding prose:
// an array of objects, a keyed record, or a bare key such as "3": when the
// model dropped the record's opening brace.
var payloadStart = regexp.MustCompile(`\[\s*\{|\{\s*"\d+"\s*:|"\d+"\s*:`)

// repair is one ordered step of the sanitizer. apply must leave valid JSON
// untouched.
type repair struct {
	name  string
	apply func(string) string
}

// repairs run in this order; later steps assume the text has been trimmed
// to the payload and that record boundaries already carry a comma.
var repairs = []repair{
	{"pre-clean", preClean},
	{"separate-records", separateRecords},
	{"collapse-commas", collapseCommas},
	{"wrap-numeric-keys", wrapNumericKeys},
	{"drop-excess-closers", dropExcessClosers},
	{"wrap-array", wrapArray},
	{"strip-trailing-commas", stripTrailingCommas},
}

// Normalizer coerces a loosely formatted completion into the quiz payload:
// a JSON array of single-key objects keyed by question index.
type Normalizer struct {
	log     *logger.Logger
	verbose bool
}

// NewNormalizer returns a Normalizer. With verbose set, every repair that
// changes the text is logged at debug level.
func NewNormalizer(log *logger.Logger, verbose bool) *Normalizer {
	if log == nil {
		log = logger.Nop()
	}
	return &Normalizer{log: log, verbose: verbose}
}

// Normalize repairs raw with a quiet Normalizer.
func Normalize(raw string) (string, error) {
	return NewNormalizer(nil, false).Normalize(raw)
}

// Normalize applies the repairs in order and returns valid JSON, or a
// *ParseError carrying the repaired text when the result still does not
// parse or is not an array of objects.
func (n *Normalizer) Normalize(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", &ParseError{Raw: raw, Err: errEmptyCompletion}
	}

	s := raw
	for _, r := range repairs {
		next := r.apply(s)
		if n.verbose && next != s {
			n.log.Debug("normalize step", "step", r.name, "text", next)
		}
		s = next
	}

	if !json.Valid([]byte(s)) {
		var v any
		err := json.Unmarshal([]byte(s), &v)
		return "", &ParseError{Raw: raw, Repaired: s, Err: fmt.Errorf("invalid JSON after repair: %w", err)}
	}
	if err := llm.ValidateJSON(payloadSchema, json.RawMessage(s)); err != nil {
		return "", &ParseError{Raw: raw, Repaired: s, Err: err}
	}
	return s, nil
}

// cursor tracks whether a byte scan is inside a JSON string literal.
type cursor struct {
	inString bool
	escaped  bool
}

// step consumes b and reports whether it is structural, i.e. outside any
// string literal. Quote characters themselves are not structural.
func (c *cursor) step(b byte) bool {
	if c.inString {
		switch {
		case c.escaped:
			c.escaped = false
		case b == '\\':
			c.escaped = true
		case b == '"':
			c.inString = false
		}
		return false
	}
	if b == '"' {
		c.inString = true
		return false
	}
	return true
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\r' || b == '\t'
}

// nextSignificant returns the index of the first non-whitespace byte at or
// after i, or len(s).
func nextSignificant(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

// preClean trims markdown fences and surrounding prose down to the payload
// and drops the outer array brackets, which wrapArray restores. The payload
// starts at the first `[{`, `{"<n>":` or bare `"<n>":` and ends at the
// last closer before any trailing prose.
func preClean(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		} else {
			s = ""
		}
		if end := strings.LastIndex(s, "```"); end >= 0 {
			s = s[:end]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexAny(s, "{[")
	if loc := payloadStart.FindStringIndex(s); loc != nil {
		start = loc[0]
	}
	if start > 0 {
		s = s[start:]
	}
	if start >= 0 {
		s = cutTrailingProse(s)
	}
	if last := strings.LastIndexAny(s, "}]"); last >= 0 && start >= 0 {
		s = s[:last+1]
	}
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "[") {
		s = s[1:]
	}
	if strings.HasSuffix(s, "]") {
		s = s[:len(s)-1]
	}
	return s
}

// cutTrailingProse ends s at the first structural closer that is followed by
// a word, e.g. `}}]` then `I hope this helps`.
func cutTrailingProse(s string) string {
	var c cursor
	for i := 0; i < len(s); i++ {
		if !c.step(s[i]) || (s[i] != '}' && s[i] != ']') {
			continue
		}
		if j := nextSignificant(s, i+1); j < len(s) && isProse(s[j]) {
			return s[:i+1]
		}
	}
	return s
}

func isProse(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || b >= 0x80
}

// separateRecords inserts one comma after a closing brace that is directly
// followed by another record, e.g. `}}} {"2":` or `}} "2":`.
func separateRecords(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	var c cursor
	for i := 0; i < len(s); i++ {
		structural := c.step(s[i])
		b.WriteByte(s[i])
		if !structural || s[i] != '}' {
			continue
		}
		if j := nextSignificant(s, i+1); j < len(s) && (s[j] == '{' || s[j] == '"') {
			b.WriteByte(',')
		}
	}
	return b.String()
}

// collapseCommas drops a comma that follows another comma or an opening
// bracket, whitespace between them included.
func collapseCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var c cursor
	var prev byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		structural := c.step(ch)
		if structural && isSpace(ch) {
			b.WriteByte(ch)
			continue
		}
		if structural && ch == ',' && (prev == 0 || prev == ',' || prev == '[' || prev == '{') {
			continue
		}
		b.WriteByte(ch)
		prev = ch
	}
	return b.String()
}

type frame struct {
	ch        byte
	synthetic bool
}

// wrapNumericKeys gives a bare `"3": {...}` record at array level its own
// object, producing `{"3": {...}}`.
func wrapNumericKeys(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)
	var c cursor
	var stack []frame
	for i := 0; i < len(s); i++ {
		ch := s[i]
		wasString := c.inString
		structural := c.step(ch)

		if !wasString && ch == '"' && arrayLevel(stack) && isNumericRecordKey(s, i) {
			b.WriteByte('{')
			stack = append(stack, frame{ch: '{', synthetic: true})
		}
		b.WriteByte(ch)
		if !structural {
			continue
		}

		switch ch {
		case '{', '[':
			stack = append(stack, frame{ch: ch})
		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if len(stack) > 0 && stack[len(stack)-1].synthetic {
				b.WriteByte('}')
				stack = stack[:len(stack)-1]
			}
		}
	}
	return b.String()
}

func arrayLevel(stack []frame) bool {
	return len(stack) == 0 || stack[len(stack)-1].ch == '['
}

// isNumericRecordKey reports whether the string starting at s[i] is a
// digits-only key whose value is an object.
func isNumericRecordKey(s string, i int) bool {
	j := i + 1
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == i+1 || j >= len(s) || s[j] != '"' {
		return false
	}
	j = nextSignificant(s, j+1)
	if j >= len(s) || s[j] != ':' {
		return false
	}
	j = nextSignificant(s, j+1)
	return j < len(s) && s[j] == '{'
}

// dropExcessClosers removes closing brackets that have nothing to close,
// such as the fourth brace of `}}}}` ending a record.
func dropExcessClosers(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var c cursor
	depth := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if c.step(ch) {
			switch ch {
			case '{', '[':
				depth++
			case '}', ']':
				if depth == 0 {
					continue
				}
				depth--
			}
		}
		b.WriteByte(ch)
	}
	return b.String()
}

func wrapArray(s string) string {
	return "[" + s + "]"
}

// stripTrailingCommas removes commas directly before a closing bracket.
func stripTrailingCommas(s string) string {
	for {
		changed := false
		var b strings.Builder
		b.Grow(len(s))
		var c cursor
		for i := 0; i < len(s); i++ {
			if c.step(s[i]) && s[i] == ',' {
				if j := nextSignificant(s, i+1); j < len(s) && (s[j] == '}' || s[j] == ']') {
					changed = true
					continue
				}
			}
			b.WriteByte(s[i])
		}
		if !changed {
			return s
		}
		s = b.String()
	}
}
