package quizgen

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed prompt.yaml
var defaultPromptYAML []byte

// Prompt is the request template sent to the completion service.
// Template may use {count}, {topic} and {format}.
type Prompt struct {
	Template string `yaml:"template"`
	Format   string `yaml:"format"`
}

// DefaultPrompt returns the embedded prompt.
func DefaultPrompt() Prompt {
	p, err := parsePrompt(defaultPromptYAML)
	if err != nil {
		panic(fmt.Sprintf("quizgen: embedded prompt: %v", err))
	}
	return p
}

// LoadPrompt reads a YAML prompt file. Keys missing from the file keep
// their embedded defaults.
func LoadPrompt(path string) (Prompt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Prompt{}, fmt.Errorf("read prompt file: %w", err)
	}
	override, err := parsePrompt(data)
	if err != nil {
		return Prompt{}, fmt.Errorf("prompt file %s: %w", path, err)
	}

	p := DefaultPrompt()
	if override.Template != "" {
		p.Template = override.Template
	}
	if override.Format != "" {
		p.Format = override.Format
	}
	if !strings.Contains(p.Template, "{topic}") {
		return Prompt{}, fmt.Errorf("prompt file %s: template must contain {topic}", path)
	}
	return p, nil
}

func parsePrompt(data []byte) (Prompt, error) {
	var p Prompt
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return Prompt{}, nil
		}
		return Prompt{}, err
	}
	return p, nil
}

// Build renders the prompt for topic. A non-empty exclusion set is appended
// to the format as a quoted bracketed list.
func (p Prompt) Build(topic string, count int, exclusion *ExclusionSet) string {
	format := p.Format
	if exclusion.Len() > 0 {
		format += ". Excluding the following questions: " + exclusion.render()
	}
	r := strings.NewReplacer(
		"{count}", strconv.Itoa(count),
		"{topic}", topic,
		"{format}", format,
	)
	return r.Replace(p.Template)
}
