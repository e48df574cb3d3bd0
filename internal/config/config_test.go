package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Layout.LinkDistance != 100 {
		t.Errorf("expected link distance 100, got %v", cfg.Layout.LinkDistance)
	}
	if cfg.Layout.ChargeStrength != -300 {
		t.Errorf("expected charge -300, got %v", cfg.Layout.ChargeStrength)
	}
	if cfg.Style.Solid.Fill != "#10b981" {
		t.Errorf("expected solid fill #10b981, got %q", cfg.Style.Solid.Fill)
	}
	if cfg.UI.TickInterval.Duration != 16*time.Millisecond {
		t.Errorf("expected 16ms ticks, got %v", cfg.UI.TickInterval)
	}
	if cfg.Source.Kind != "demo" {
		t.Errorf("expected demo source, got %q", cfg.Source.Kind)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg")
	if dir := ConfigDir(); dir != "/tmp/test-xdg/synapse" {
		t.Errorf("expected /tmp/test-xdg/synapse, got %q", dir)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, _ := os.UserHomeDir()
	if dir, want := ConfigDir(), filepath.Join(home, ".config", "synapse"); dir != want {
		t.Errorf("expected %q, got %q", want, dir)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Layout.LinkDistance = 140
	cfg.UI.TickInterval = Duration{33 * time.Millisecond}
	cfg.Source = SourceConfig{Kind: "file", Path: "/tmp/graph.json", Watch: true}
	if err := Save(cfg, ""); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Layout.LinkDistance != 140 {
		t.Errorf("link distance = %v, want 140", loaded.Layout.LinkDistance)
	}
	if loaded.UI.TickInterval.Duration != 33*time.Millisecond {
		t.Errorf("tick interval = %v, want 33ms", loaded.UI.TickInterval)
	}
	if !loaded.Source.Watch || loaded.Source.Path != "/tmp/graph.json" {
		t.Errorf("source = %+v", loaded.Source)
	}
	if loaded.Layout.AlphaDecay != cfg.Layout.AlphaDecay {
		t.Errorf("alpha decay not preserved")
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	doc := `
[layout]
charge_strength = -120

[style.ghost]
fill = "#cccccc"
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Layout.ChargeStrength != -120 {
		t.Errorf("charge = %v", cfg.Layout.ChargeStrength)
	}
	if cfg.Layout.LinkDistance != 100 {
		t.Errorf("link distance lost its default: %v", cfg.Layout.LinkDistance)
	}
	if cfg.Style.Ghost.Fill != "#cccccc" || cfg.Style.Ghost.Dash != "5,5" {
		t.Errorf("ghost style = %+v", cfg.Style.Ghost)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source.Kind != "demo" {
		t.Errorf("expected defaults, got %+v", cfg.Source)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"bad toml":      "[layout\n",
		"bad layout":    "[layout]\nalpha_decay = 2.0\n",
		"unknown kind":  "[source]\nkind = \"ftp\"\n",
		"file w/o path": "[source]\nkind = \"file\"\n",
		"bad duration":  "[ui]\ntick_interval = \"soon\"\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.toml")
			if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEnsureExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	if err := EnsureExists(path); err != nil {
		t.Fatalf("EnsureExists: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not created: %v", err)
	}
	// Second call leaves the file alone.
	if err := os.WriteFile(path, []byte("[layout]\nlink_distance = 50\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := EnsureExists(path); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout.LinkDistance != 50 {
		t.Errorf("EnsureExists overwrote the file")
	}
}
