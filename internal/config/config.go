package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Tools       ToolsConfig       `yaml:"tools"`
	Whisper     WhisperConfig     `yaml:"whisper"`
	Summary     SummaryConfig     `yaml:"summary"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`

	// Completion-API credentials come from the environment, not the file.
	// Either, both, or neither may be set.
	OpenAIKey string `yaml:"-"`
	GeminiKey string `yaml:"-"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type ToolsConfig struct {
	YTDLP   string `yaml:"ytdlp"`
	FFmpeg  string `yaml:"ffmpeg"`
	Whisper string `yaml:"whisper"`
}

type WhisperConfig struct {
	ModelDir        string `yaml:"model_dir"`
	DefaultModel    string `yaml:"default_model"`
	DefaultLanguage string `yaml:"default_language"`
	Threads         int    `yaml:"threads"`
}

type SummaryConfig struct {
	DefaultType string `yaml:"default_type"`
	Language    string `yaml:"language"`
	OpenAIModel string `yaml:"openai_model"`
	GeminiModel string `yaml:"gemini_model"`
}

type PathsConfig struct {
	Temp        string `yaml:"temp"`
	WatchInput  string `yaml:"watch_input"`
	WatchOutput string `yaml:"watch_output"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// Load reads a yaml config file, merges environment credentials, and
// applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	cfg.GeminiKey = os.Getenv("GEMINI_API_KEY")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Tools.YTDLP == "" {
		c.Tools.YTDLP = "yt-dlp"
	}
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = "ffmpeg"
	}
	if c.Tools.Whisper == "" {
		c.Tools.Whisper = "whisper-cli"
	}
	if c.Whisper.ModelDir == "" {
		return fmt.Errorf("whisper.model_dir is required")
	}
	if c.Whisper.DefaultModel == "" {
		c.Whisper.DefaultModel = "base"
	}
	if c.Whisper.DefaultLanguage == "" {
		c.Whisper.DefaultLanguage = "auto"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 4
	}
	if c.Summary.DefaultType == "" {
		c.Summary.DefaultType = "brief"
	}
	if c.Summary.Language == "" {
		c.Summary.Language = "pt"
	}
	if c.Summary.OpenAIModel == "" {
		c.Summary.OpenAIModel = "gpt-4o-mini"
	}
	if c.Summary.GeminiModel == "" {
		c.Summary.GeminiModel = "gemini-2.5-flash"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	return nil
}
