package config

import (
	"os"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: Config{
				Whisper: WhisperConfig{ModelDir: "models"},
			},
			wantErr: false,
		},
		{
			name:    "missing model dir",
			config:  Config{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{Whisper: WhisperConfig{ModelDir: "models"}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, want %q", cfg.Server.Addr, ":8080")
	}
	if cfg.Tools.YTDLP != "yt-dlp" {
		t.Errorf("YTDLP = %q, want %q", cfg.Tools.YTDLP, "yt-dlp")
	}
	if cfg.Whisper.DefaultModel != "base" {
		t.Errorf("DefaultModel = %q, want %q", cfg.Whisper.DefaultModel, "base")
	}
	if cfg.Summary.DefaultType != "brief" {
		t.Errorf("DefaultType = %q, want %q", cfg.Summary.DefaultType, "brief")
	}
	if cfg.Summary.Language != "pt" {
		t.Errorf("Language = %q, want %q", cfg.Summary.Language, "pt")
	}
	if cfg.Paths.Temp != "data/temp" {
		t.Errorf("Temp = %q, want %q", cfg.Paths.Temp, "data/temp")
	}
	if cfg.Performance.MaxConcurrent != 2 {
		t.Errorf("MaxConcurrent = %d, want 2", cfg.Performance.MaxConcurrent)
	}
}

func TestLoad(t *testing.T) {
	tmpfile, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}

	content := `
server:
  addr: ":9090"

tools:
  ytdlp: "/opt/bin/yt-dlp"

whisper:
  model_dir: "models"
  default_language: "pt"

summary:
  language: "pt"

paths:
  temp: "t"

logging:
  level: "debug"
`
	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %q, want %q", cfg.Server.Addr, ":9090")
	}
	if cfg.Tools.YTDLP != "/opt/bin/yt-dlp" {
		t.Errorf("YTDLP = %q, want %q", cfg.Tools.YTDLP, "/opt/bin/yt-dlp")
	}
	if cfg.Whisper.DefaultLanguage != "pt" {
		t.Errorf("DefaultLanguage = %q, want %q", cfg.Whisper.DefaultLanguage, "pt")
	}
	if cfg.OpenAIKey != "sk-test" {
		t.Errorf("OpenAIKey = %q, want %q", cfg.OpenAIKey, "sk-test")
	}
	if cfg.GeminiKey != "" {
		t.Errorf("GeminiKey = %q, want empty", cfg.GeminiKey)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	if _, err := Load("nonexistent.yaml"); err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}
