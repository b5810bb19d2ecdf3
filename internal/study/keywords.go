package study

import (
	"sort"
	"strings"
	"unicode"
)

var stopWords = toSet(`a about above after again against ain all am an and any are aren
as at be because been before being below between both but by can couldn d did didn do
does doesn doing don down during each few for from further had hadn has hasn have haven
having he her here hers herself him himself his how i if in into is isn it its itself
just ll m ma me mightn more most mustn my myself needn no nor not now o of off on once
only or other our ours ourselves out over own re s same shan she should shouldn so some
such t than that the their theirs them themselves then there these they this those
through to too under until up ve very was wasn we were weren what when where which while
who whom why will with won wouldn y you your yours yourself yourselves`)

func toSet(words string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(words) {
		set[w] = struct{}{}
	}
	return set
}

// Keywords returns the distinct two-word phrases of the questions after
// stop words and punctuation are removed, sorted and comma-separated.
func Keywords(questions []string) string {
	seen := make(map[string]struct{})
	for _, q := range questions {
		tokens := tokenize(q)
		for i := 0; i+1 < len(tokens); i++ {
			seen[tokens[i]+" "+tokens[i+1]] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}

func tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '\''
	})
	var tokens []string
	for _, w := range words {
		w = strings.Trim(w, "-'")
		if w == "" {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}
