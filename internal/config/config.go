package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration shared by the CLI and the server.
// LLM credentials are not part of it; see llm.ConfigFromEnv.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Quiz     QuizConfig     `yaml:"quiz"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	JWTSecret   string   `yaml:"jwt_secret"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	// DSN is a SQLite file path / URI or a postgres:// URL.
	// Empty means the default per-user database file.
	DSN string `yaml:"dsn"`
}

type LogConfig struct {
	Mode string `yaml:"mode"`
}

type QuizConfig struct {
	Questions   int     `yaml:"questions"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	PromptFile  string  `yaml:"prompt_file"`
	Verbose     bool    `yaml:"verbose"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr: ":8080",
			CORSOrigins: []string{
				"http://localhost:3000",
				"http://localhost:5173",
				"http://127.0.0.1:3000",
				"http://127.0.0.1:5173",
			},
		},
		Log: LogConfig{Mode: "dev"},
		Quiz: QuizConfig{
			Questions:   5,
			MaxTokens:   2048,
			Temperature: 0.1,
		},
	}
}

// Load reads the YAML file at path on top of the defaults and then applies
// STUDYDESK_* environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		cfg, err = Parse(data)
		if err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes a single YAML document over the defaults. Unknown keys are
// rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	var extra yaml.Node
	if err := decoder.Decode(&extra); err != io.EOF {
		if err == nil {
			return Config{}, fmt.Errorf("parse config: multiple YAML documents are not supported")
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("STUDYDESK_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("STUDYDESK_JWT_SECRET"); v != "" {
		c.Server.JWTSecret = v
	}
	if v := os.Getenv("STUDYDESK_CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("STUDYDESK_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("STUDYDESK_LOG_MODE"); v != "" {
		c.Log.Mode = v
	}
	if v := os.Getenv("STUDYDESK_QUIZ_PROMPT_FILE"); v != "" {
		c.Quiz.PromptFile = v
	}
	if v := os.Getenv("STUDYDESK_QUIZ_VERBOSE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("STUDYDESK_QUIZ_VERBOSE: %w", err)
		}
		c.Quiz.Verbose = b
	}
	return nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Quiz.Questions < 1 {
		return fmt.Errorf("quiz.questions must be at least 1, got %d", c.Quiz.Questions)
	}
	if c.Quiz.MaxTokens < 0 {
		return fmt.Errorf("quiz.max_tokens must not be negative, got %d", c.Quiz.MaxTokens)
	}
	if c.Quiz.Temperature < 0 || c.Quiz.Temperature > 2 {
		return fmt.Errorf("quiz.temperature must be within [0, 2], got %v", c.Quiz.Temperature)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
