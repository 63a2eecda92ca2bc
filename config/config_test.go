package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"go.uber.org/zap/zapcore"

	"termtoe/board"
)

// useTempXDG points the XDG base directories at a fresh temporary tree.
func useTempXDG(t *testing.T) (configHome, stateHome string) {
	t.Helper()
	root := t.TempDir()
	configHome = filepath.Join(root, "config")
	stateHome = filepath.Join(root, "state")
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_CONFIG_DIRS", filepath.Join(root, "etc"))
	t.Setenv("XDG_STATE_HOME", stateHome)
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	xdg.Reload()
	return configHome, stateHome
}

func writeConfig(t *testing.T, configHome, content string) {
	t.Helper()
	path := filepath.Join(configHome, cfgFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	c := DefaultConfig
	if err := c.Validate(); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
}

func TestInitConfigDefaults(t *testing.T) {
	_, stateHome := useTempXDG(t)
	c, err := InitConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(stateHome, logFile); c.Log.Path != want {
		t.Errorf("expected log path %q, got %q", want, c.Log.Path)
	}
	if c.Game != DefaultConfig.Game || c.Keypad != DefaultConfig.Keypad {
		t.Errorf("expected defaults, got %+v %+v", c.Game, c.Keypad)
	}
	if want := filepath.Join(xdg.DataHome, recordDir); !c.Record.Enabled || c.Record.Dir != want {
		t.Errorf("expected recording into %q, got %+v", want, c.Record)
	}
}

func TestInitConfigRecordOverrides(t *testing.T) {
	configHome, _ := useTempXDG(t)
	writeConfig(t, configHome, "record:\n  dir: /tmp/rounds\n")
	t.Setenv("TERMTOE_RECORD_ENABLED", "false")

	c, err := InitConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Record.Enabled || c.Record.Dir != "/tmp/rounds" {
		t.Errorf("record overrides not applied: %+v", c.Record)
	}
}

func TestInitConfigReadsFile(t *testing.T) {
	configHome, _ := useTempXDG(t)
	writeConfig(t, configHome, `
game:
  opponent: hard
  symbol: o
keypad:
  debounce_ms: 10
theme:
  symbols:
    x: "✕"
`)
	c, err := InitConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Game.Opponent != "hard" || c.Keypad.DebounceMs != 10 {
		t.Errorf("file values not applied: %+v %+v", c.Game, c.Keypad)
	}
	if c.Theme.Symbols.X != "✕" || c.Theme.Symbols.O != DefaultTheme.Symbols.O {
		t.Errorf("expected partial theme override, got %+v", c.Theme.Symbols)
	}
	if c.Game.ThinkMs != DefaultConfig.Game.ThinkMs {
		t.Errorf("expected unset fields to keep defaults, got %d", c.Game.ThinkMs)
	}
	side, err := c.Game.Side()
	if err != nil || side != board.O {
		t.Errorf("expected side O, got %v (%v)", side, err)
	}
}

func TestInitConfigRejectsBrokenFile(t *testing.T) {
	configHome, _ := useTempXDG(t)
	writeConfig(t, configHome, "game: [unterminated")
	_, err := InitConfig()
	var invalid *InvalidConfig
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidConfig, got %v", err)
	}
}

func TestInitConfigEnvOverrides(t *testing.T) {
	configHome, _ := useTempXDG(t)
	writeConfig(t, configHome, "game:\n  think_ms: 5\n")
	t.Setenv("TERMTOE_GAME_THINK_MS", "250")
	t.Setenv("TERMTOE_GAME_OPPONENT", "easy")
	t.Setenv("TERMTOE_KEYPAD_BUFFER", "4")
	t.Setenv("TERMTOE_LOG_LEVEL", "debug")
	t.Setenv("TERMTOE_THEME_ANYTHING", "ignored")

	c, err := InitConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Game.ThinkMs != 250 || c.Game.Opponent != "easy" || c.Keypad.Buffer != 4 {
		t.Errorf("env values not applied: %+v %+v", c.Game, c.Keypad)
	}
	level, err := c.Log.ZapLevel()
	if err != nil || level != zapcore.DebugLevel {
		t.Errorf("expected debug level, got %v (%v)", level, err)
	}
}

func TestApplyEnvRejectsUnknownField(t *testing.T) {
	c := DefaultConfig
	err := c.ApplyEnv([]string{"TERMTOE_GAME_COLOUR=red"})
	var invalid *InvalidConfig
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidConfig, got %v", err)
	}
}

func TestApplyEnvRejectsBadNumber(t *testing.T) {
	c := DefaultConfig
	if err := c.ApplyEnv([]string{"TERMTOE_KEYPAD_DEBOUNCE_MS=soon"}); err == nil {
		t.Fatal("expected an error for a non-numeric delay")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"control symbol", func(c *Config) { c.Theme.Symbols.X = "\t" }},
		{"long symbol", func(c *Config) { c.Theme.Symbols.O = "OO" }},
		{"empty symbol", func(c *Config) { c.Theme.Symbols.Empty = "" }},
		{"short layout", func(c *Config) { c.Keypad.Layout = "123" }},
		{"duplicate layout", func(c *Config) { c.Keypad.Layout = "1234567890abcdee" }},
		{"unknown opponent", func(c *Config) { c.Game.Opponent = "grandmaster" }},
		{"unknown symbol", func(c *Config) { c.Game.Symbol = "z" }},
		{"negative think", func(c *Config) { c.Game.ThinkMs = -1 }},
		{"negative debounce", func(c *Config) { c.Keypad.DebounceMs = -1 }},
		{"zero buffer", func(c *Config) { c.Keypad.Buffer = 0 }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig
			tt.modify(&c)
			var invalid *InvalidConfig
			if err := c.Validate(); !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidConfig, got %v", err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	useTempXDG(t)
	c := DefaultConfig
	c.Game.Opponent = "medium"
	c.Keypad.Layout = "qwerasdfzxcvuiop"
	path, err := c.Save()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file at %s: %v", path, err)
	}

	loaded, err := InitConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Game.Opponent != "medium" || loaded.Keypad.Layout != "qwerasdfzxcvuiop" {
		t.Fatalf("saved values not loaded back: %+v %+v", loaded.Game, loaded.Keypad)
	}
}
