package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

var optionSchema = &Schema{
	Name:        "test-quiz-option",
	Description: "One answer option of a quiz question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"Text":    map[string]any{"type": "string", "minLength": 1},
			"Reason":  map[string]any{"type": "string"},
			"Correct": map[string]any{"type": "string", "enum": []any{"True", "False"}},
			"Weight":  map[string]any{"type": "integer", "minimum": 0},
		},
		"required": []any{"Text", "Correct"},
	},
}

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"complete", `{"Text": "Chlorophyll", "Reason": "absorbs light", "Correct": "True", "Weight": 2}`, true},
		{"optional fields missing", `{"Text": "Chlorophyll", "Correct": "False"}`, true},
		{"required field missing", `{"Text": "Chlorophyll"}`, false},
		{"empty text", `{"Text": "", "Correct": "True"}`, false},
		{"enum violated", `{"Text": "Chlorophyll", "Correct": "Maybe"}`, false},
		{"integer expected", `{"Text": "Chlorophyll", "Correct": "True", "Weight": 1.5}`, false},
		{"not JSON", `{Text: Chlorophyll}`, false},
		{"empty", ``, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON(optionSchema, json.RawMessage(tt.raw))
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			var inv *ErrInvalidResponse
			assert.ErrorAs(t, err, &inv)
		})
	}
}

func TestValidateJSONNilSchema(t *testing.T) {
	assert.NoError(t, ValidateJSON(nil, json.RawMessage(`not even json`)))
}

func TestValidateJSONArrayItems(t *testing.T) {
	schema := &Schema{
		Name: "test-option-list",
		Definition: map[string]any{
			"type":     "array",
			"minItems": 1,
			"items":    optionSchema.Definition,
		},
	}
	assert.NoError(t, ValidateJSON(schema, json.RawMessage(`[{"Text": "a", "Correct": "True"}]`)))
	assert.Error(t, ValidateJSON(schema, json.RawMessage(`[]`)))
	assert.Error(t, ValidateJSON(schema, json.RawMessage(`[{"Text": "a", "Correct": true}]`)))
}
