package quizgen

import "github.com/abhisek/studydesk/internal/llm"

// payloadSchema checks the outer shape of a normalized completion. Records
// are only required to be objects; their contents are checked per record by
// the Extractor so that one bad record does not discard the others.
var payloadSchema = &llm.Schema{
	Name:        "quiz-payload",
	Description: "An array of single-key objects keyed by question index",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
		},
	},
}
