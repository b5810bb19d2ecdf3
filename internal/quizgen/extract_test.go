package quizgen

import (
	"fmt"
	"sort"
	"strings"
	"testing"
)

// fullRecord returns a well-formed record with five options where A and C
// are correct.
func fullRecord(key, question string) string {
	return recordWith(key, question, map[string][3]string{
		"A": {"Chlorophyll", "It absorbs light", "True"},
		"B": {"Nitrogen", "It is a nutrient, not a pigment", "False"},
		"C": {"Carotene", "An accessory pigment", "true"},
		"D": {"Water", "A reactant, not a pigment", "False"},
		"E": {"Oxygen", "A product", "False"},
	})
}

// recordWith builds `{"key": {"Question": ..., "Options": {...}}}` with
// options in A-E order followed by any extra letters.
func recordWith(key, question string, options map[string][3]string) string {
	var letters []string
	for l := range options {
		letters = append(letters, l)
	}
	sort.Slice(letters, func(i, j int) bool { return letterLess(letters[i], letters[j]) })

	var parts []string
	for _, l := range letters {
		o := options[l]
		parts = append(parts, fmt.Sprintf(`%q: {"Text": %q, "Reason": %q, "Correct": %q}`, l, o[0], o[1], o[2]))
	}
	return fmt.Sprintf(`{%q: {"Question": %q, "Options": {%s}}}`, key, question, strings.Join(parts, ", "))
}

func TestExtract_FullRecord(t *testing.T) {
	payload := "[" + fullRecord("1", "Which are pigments?") + "]"

	got, skipped, err := Extract(payload, 7, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped != 0 || len(got) != 1 {
		t.Fatalf("got %d candidates, %d skipped", len(got), skipped)
	}
	c := got[0]
	if c.ConversationID != 7 || c.Text != "Which are pigments?" {
		t.Errorf("unexpected candidate: %+v", c)
	}
	if c.CorrectAnswer != "AC" || !c.MultipleChoice {
		t.Errorf("correct = %q, multiple = %v", c.CorrectAnswer, c.MultipleChoice)
	}
	var letters string
	for _, o := range c.Options {
		letters += o.Letter
	}
	if letters != "ABCDE" {
		t.Errorf("option order = %s", letters)
	}
	if c.Reasons[1].Letter != "B" || c.Reasons[1].Reason != "It is a nutrient, not a pigment" {
		t.Errorf("reasons = %+v", c.Reasons)
	}
	if c.RawResponse != payload {
		t.Errorf("raw response not kept")
	}
}

func TestExtract_SkipsInvalidRecords(t *testing.T) {
	good := map[string][3]string{
		"A": {"a", "ra", "True"},
		"B": {"b", "rb", "False"},
		"C": {"c", "rc", "False"},
		"D": {"d", "rd", "False"},
		"E": {"e", "re", "False"},
	}
	with := func(letter string, field int, value string) map[string][3]string {
		out := make(map[string][3]string, len(good))
		for k, v := range good {
			out[k] = v
		}
		if letter != "" {
			o := out[letter]
			o[field] = value
			out[letter] = o
		}
		return out
	}
	four := with("", 0, "")
	delete(four, "E")
	six := with("", 0, "")
	six["F"] = [3]string{"f", "rf", "False"}
	labelled := make(map[string][3]string, len(good))
	for k, v := range good {
		labelled["Option "+k] = v
	}
	repeated := with("", 0, "")
	delete(repeated, "E")
	repeated["a"] = [3]string{"a2", "ra2", "False"}
	skipsE := with("", 0, "")
	delete(skipsE, "E")
	skipsE["Z"] = [3]string{"z", "rz", "False"}

	tests := []struct {
		name   string
		record string
	}{
		{"empty question", recordWith("1", "  ", good)},
		{"empty option text", recordWith("1", "Q", with("C", 0, ""))},
		{"empty option reason", recordWith("1", "Q", with("A", 1, ""))},
		{"empty correct flag", recordWith("1", "Q", with("E", 2, ""))},
		{"four options", recordWith("1", "Q", four)},
		{"six options", recordWith("1", "Q", six)},
		{"word option keys", recordWith("1", "Q", labelled)},
		{"letter repeated after upper-casing", recordWith("1", "Q", repeated)},
		{"letter outside A-E", recordWith("1", "Q", skipsE)},
		{"options not an object", `{"1": {"Question": "Q", "Options": "A, B, C"}}`},
		{"value not an object", `{"1": "Q"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, skipped, err := Extract("["+tt.record+"]", 1, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != 0 || skipped != 1 {
				t.Errorf("got %d candidates, %d skipped; want 0, 1", len(got), skipped)
			}
		})
	}
}

func TestExtract_NormalizesOptionLetters(t *testing.T) {
	record := recordWith("1", "Which gas do plants release?", map[string][3]string{
		"a":   {"Oxygen", "Released in photosynthesis", "True"},
		" b ": {"Helium", "Not produced", "False"},
		"c":   {"Argon", "Not produced", "False"},
		"d":   {"Neon", "Not produced", "False"},
		"e":   {"Xenon", "Not produced", "False"},
	})

	got, skipped, err := Extract("["+record+"]", 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped != 0 || len(got) != 1 {
		t.Fatalf("got %d candidates, %d skipped", len(got), skipped)
	}
	c := got[0]
	var letters string
	for _, o := range c.Options {
		letters += o.Letter
	}
	if letters != "ABCDE" {
		t.Errorf("option letters = %q, want ABCDE", letters)
	}
	if c.CorrectAnswer != "A" || c.MultipleChoice {
		t.Errorf("correct = %q, multiple = %v", c.CorrectAnswer, c.MultipleChoice)
	}
}

func TestOptionLettersValidator(t *testing.T) {
	v := &OptionLettersValidator{Letters: "ABCDE"}
	rec := func(letters ...string) *Record {
		r := &Record{Key: "1"}
		for _, l := range letters {
			r.Options = append(r.Options, RecordOption{Letter: l})
		}
		return r
	}
	if err := v.Validate(rec("A", "B", "C", "D", "E"), nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, letters := range [][]string{
		{"A", "B", "C", "D"},
		{"A", "B", "C", "D", "Option E"},
		{"A", "A", "C", "D", "E"},
		{"A", "B", "C", "D", "e"},
	} {
		if err := v.Validate(rec(letters...), nil); err == nil {
			t.Errorf("letters %v: expected an error", letters)
		}
	}
}

func TestExtract_AlwaysFiveOptions(t *testing.T) {
	var records []string
	for n := 1; n <= 7; n++ {
		opts := map[string][3]string{}
		for i := 0; i < n; i++ {
			l := string(rune('A' + i))
			opts[l] = [3]string{"t" + l, "r" + l, "False"}
		}
		records = append(records, recordWith(fmt.Sprint(n), fmt.Sprintf("Q%d", n), opts))
	}

	got, skipped, err := Extract("["+strings.Join(records, ",")+"]", 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || skipped != 6 {
		t.Fatalf("got %d candidates, %d skipped", len(got), skipped)
	}
	for _, c := range got {
		if len(c.Options) != RequiredOptions {
			t.Errorf("%q has %d options", c.Text, len(c.Options))
		}
	}
	if got[0].Text != "Q5" {
		t.Errorf("kept %q, want Q5", got[0].Text)
	}
}

func TestExtract_Exclusion(t *testing.T) {
	payload := "[" + fullRecord("1", "Old question") + "," + fullRecord("2", "old question") + "]"

	got, skipped, err := Extract(payload, 1, NewExclusionSet("Old question"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || skipped != 1 {
		t.Fatalf("got %d candidates, %d skipped", len(got), skipped)
	}
	if got[0].Text != "old question" {
		t.Errorf("match should be case-sensitive, kept %q", got[0].Text)
	}
}

func TestExtract_InPayloadDuplicates(t *testing.T) {
	payload := "[" + fullRecord("1", "Same") + "," + fullRecord("2", "Same") + "]"
	exclusion := NewExclusionSet("Other")

	got, skipped, err := Extract(payload, 1, exclusion)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || skipped != 1 {
		t.Fatalf("got %d candidates, %d skipped", len(got), skipped)
	}
	if exclusion.Len() != 1 {
		t.Errorf("caller's exclusion set was modified: %v", exclusion.Texts())
	}
}

func TestExtract_MultipleChoiceFlag(t *testing.T) {
	tests := []struct {
		correct    [5]string
		wantAnswer string
		wantMulti  bool
	}{
		{[5]string{"True", "False", "False", "False", "False"}, "A", false},
		{[5]string{"false", "TRUE", "False", "true", "False"}, "BD", true},
		{[5]string{"False", "False", "False", "False", "False"}, "", false},
		{[5]string{"True", "True", "True", "True", "True"}, "ABCDE", true},
		{[5]string{"yes", "False", "False", "False", "False"}, "", false},
	}

	for _, tt := range tests {
		opts := map[string][3]string{}
		for i, flag := range tt.correct {
			l := string(rune('A' + i))
			opts[l] = [3]string{"t", "r", flag}
		}
		got, _, err := Extract("["+recordWith("1", "Q", opts)+"]", 1, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("expected 1 candidate for %v", tt.correct)
		}
		c := got[0]
		if c.CorrectAnswer != tt.wantAnswer {
			t.Errorf("%v: answer = %q, want %q", tt.correct, c.CorrectAnswer, tt.wantAnswer)
		}
		if c.MultipleChoice != tt.wantMulti || c.MultipleChoice != (len(c.CorrectAnswer) > 1) {
			t.Errorf("%v: multiple = %v", tt.correct, c.MultipleChoice)
		}
	}
}

func TestExtract_CorrectAcceptsBooleans(t *testing.T) {
	payload := `[{"1": {"Question": "Q", "Options": {
		"E": {"Text": "e", "Reason": "re", "Correct": false},
		"A": {"Text": "a", "Reason": "ra", "Correct": true},
		"C": {"Text": "c", "Reason": "rc", "Correct": false},
		"B": {"Text": "b", "Reason": "rb", "Correct": true},
		"D": {"Text": "d", "Reason": "rd", "Correct": 0}}}}]`

	got, _, err := Extract(payload, 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].CorrectAnswer != "AB" {
		t.Fatalf("got %+v", got)
	}
}

func TestExtract_NullCorrectIsEmpty(t *testing.T) {
	payload := `[{"1": {"Question": "Q", "Options": {
		"A": {"Text": "a", "Reason": "ra", "Correct": null},
		"B": {"Text": "b", "Reason": "rb", "Correct": "True"},
		"C": {"Text": "c", "Reason": "rc", "Correct": "False"},
		"D": {"Text": "d", "Reason": "rd", "Correct": "False"},
		"E": {"Text": "e", "Reason": "re", "Correct": "False"}}}}]`

	got, skipped, err := Extract(payload, 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 || skipped != 1 {
		t.Fatalf("got %d candidates, %d skipped", len(got), skipped)
	}
}

func TestExtract_KeyOrder(t *testing.T) {
	payload := "[" + strings.Join([]string{
		`{"10": ` + innerOf(fullRecord("10", "Q10")) + `, "2": ` + innerOf(fullRecord("2", "Q2")) + `, "x": ` + innerOf(fullRecord("x", "Qx")) + `}`,
		fullRecord("1", "Q1"),
	}, ",") + "]"

	got, _, err := Extract(payload, 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var texts []string
	for _, c := range got {
		texts = append(texts, c.Text)
	}
	if strings.Join(texts, ",") != "Q2,Q10,Qx,Q1" {
		t.Errorf("order = %v", texts)
	}
}

// innerOf strips the `{"key": ` prefix and trailing brace from a record.
func innerOf(record string) string {
	start := strings.Index(record, ": ") + 2
	return record[start : len(record)-1]
}

func TestExtract_RejectsNonArray(t *testing.T) {
	if _, _, err := Extract(`{"1": {}}`, 1, nil); err == nil {
		t.Fatal("expected error for non-array payload")
	}
}

type rejectAll struct{}

func (rejectAll) Name() string { return "reject-all" }

func (rejectAll) Validate(r *Record, _ *ExclusionSet) *ValidationError {
	return &ValidationError{Validator: "reject-all", Key: r.Key, Message: "no"}
}

func TestExtractor_CustomValidators(t *testing.T) {
	e := NewExtractor(nil, rejectAll{})
	got, skipped, err := e.Extract("["+fullRecord("1", "Q")+"]", 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 || skipped != 1 {
		t.Errorf("got %d candidates, %d skipped", len(got), skipped)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := (&OptionCountValidator{Want: 5}).Validate(&Record{Key: "3"}, nil)
	if err == nil || err.Error() != `record 3: validator "option-count": expected 5 options, got 0` {
		t.Errorf("unexpected error: %v", err)
	}
}
