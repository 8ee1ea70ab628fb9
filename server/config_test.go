package server

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v, want nil", err)
	}
	if cfg.Listen != ":8080" {
		t.Errorf("Listen = %q, want %q", cfg.Listen, ":8080")
	}
	if time.Duration(cfg.FrameInterval) <= 0 {
		t.Errorf("FrameInterval = %v, want > 0", time.Duration(cfg.FrameInterval))
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfigFile(t, `
listen: ":9999"
frameInterval: "20ms"
animationDuration: "0s"
zoom:
  min: 0.5
  max: 4
allowedOrigins:
  - "https://app.example.com"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Listen != ":9999" {
		t.Errorf("Listen = %q, want %q", cfg.Listen, ":9999")
	}
	if got := time.Duration(cfg.FrameInterval); got != 20*time.Millisecond {
		t.Errorf("FrameInterval = %v, want 20ms", got)
	}
	if got := time.Duration(cfg.AnimationDuration); got != 0 {
		t.Errorf("AnimationDuration = %v, want 0", got)
	}
	if cfg.Zoom.Min != 0.5 || cfg.Zoom.Max != 4 {
		t.Errorf("Zoom = %+v, want min 0.5 max 4", cfg.Zoom)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://app.example.com" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

// The file only overrides what it names; everything else keeps its
// default.
func TestLoadConfigPartialFile(t *testing.T) {
	path := writeConfigFile(t, `listen: ":7070"`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Listen != ":7070" {
		t.Errorf("Listen = %q, want %q", cfg.Listen, ":7070")
	}
	def := DefaultConfig()
	if cfg.FrameInterval != def.FrameInterval {
		t.Errorf("FrameInterval = %v, want default %v", cfg.FrameInterval, def.FrameInterval)
	}
	if cfg.Zoom != def.Zoom {
		t.Errorf("Zoom = %+v, want default %+v", cfg.Zoom, def.Zoom)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `listen: ":9999"`)
	t.Setenv("SPROTTY_LISTEN", ":6666")
	t.Setenv("SPROTTY_ANIMATION_DURATION", "125ms")
	t.Setenv("SPROTTY_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Listen != ":6666" {
		t.Errorf("Listen = %q, want env override %q", cfg.Listen, ":6666")
	}
	if got := time.Duration(cfg.AnimationDuration); got != 125*time.Millisecond {
		t.Errorf("AnimationDuration = %v, want 125ms", got)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != want[0] || cfg.AllowedOrigins[1] != want[1] {
		t.Errorf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad duration", `frameInterval: "fast"`},
		{"bad yaml", `listen: [`},
		{"invalid value", `listen: ""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)
			if _, err := LoadConfig(path); err == nil {
				t.Error("LoadConfig succeeded, want error")
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("LoadConfig succeeded, want error")
		}
	})

	t.Run("bad env duration", func(t *testing.T) {
		t.Setenv("SPROTTY_FRAME_INTERVAL", "soon")
		if _, err := LoadConfig(""); err == nil {
			t.Error("LoadConfig succeeded, want error")
		}
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty listen", func(c *Config) { c.Listen = "" }, "listen"},
		{"zero frame interval", func(c *Config) { c.FrameInterval = 0 }, "frame interval"},
		{"negative duration", func(c *Config) { c.AnimationDuration = -1 }, "animation duration"},
		{"negative zoom", func(c *Config) { c.Zoom.Min = -1 }, "zoom"},
		{"min above max", func(c *Config) { c.Zoom.Min = 5; c.Zoom.Max = 2 }, "zoom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %q, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestDurationYAMLRoundtrip(t *testing.T) {
	type wrapper struct {
		D Duration `yaml:"d"`
	}
	in := wrapper{D: Duration(250 * time.Millisecond)}
	data, err := yaml.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), "250ms") {
		t.Errorf("Marshal = %q, want the Go duration syntax", data)
	}
	var out wrapper
	if err := yaml.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.D != in.D {
		t.Errorf("roundtrip = %v, want %v", time.Duration(out.D), time.Duration(in.D))
	}
}
