package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/adrg/xdg"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v2"

	"termtoe/board"
	"termtoe/keypad"
	"termtoe/strategy"
)

var (
	cfgFile   = "termtoe/config.yaml"
	logFile   = "termtoe/debug.log"
	recordDir = "termtoe/rounds"
)

// EnvPrefix starts every environment override, e.g. TERMTOE_GAME_OPPONENT=hard.
const EnvPrefix = "TERMTOE_"

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ConfigColors struct {
	BoardColor        int `yaml:"board"`
	LineColor         int `yaml:"line"`
	XColor            int `yaml:"x"`
	OColor            int `yaml:"o"`
	CursorColorFG     int `yaml:"cursor_fg"`
	CursorColorBG     int `yaml:"cursor_bg"`
	LastPlayedColorBG int `yaml:"last_played_bg"`
	WinColorBG        int `yaml:"win_bg"`
	DisplayColorFG    int `yaml:"display_fg"`
	DisplayColorBG    int `yaml:"display_bg"`
	SegmentColor      int `yaml:"segment"`
}

type ConfigSymbols struct {
	X     string `yaml:"x"`
	O     string `yaml:"o"`
	Empty string `yaml:"empty"`
}

type Theme struct {
	DrawCursorBackground     bool          `yaml:"draw_cursor_bg"`
	DrawLastPlayedBackground bool          `yaml:"draw_last_played_bg"`
	Colors                   ConfigColors  `yaml:"colors"`
	Symbols                  ConfigSymbols `yaml:"symbols"`
}

// GameConfig holds the settings of the game loop.
type GameConfig struct {
	// Opponent skips the opponent prompt of the first session: human, easy, medium or hard.
	Opponent string `yaml:"opponent"`
	// Symbol skips the symbol prompt of every round: x or o.
	Symbol      string `yaml:"symbol"`
	AfterGameMs int    `yaml:"after_game_ms"`
	ThinkMs     int    `yaml:"think_ms"`
}

type KeypadConfig struct {
	Layout     string `yaml:"layout"`
	DebounceMs int    `yaml:"debounce_ms"`
	Buffer     int    `yaml:"buffer"`
}

type LogConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// RecordConfig controls the SGF files written for every round.
type RecordConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

type Config struct {
	Theme  Theme        `yaml:"theme"`
	Game   GameConfig   `yaml:"game"`
	Keypad KeypadConfig `yaml:"keypad"`
	Log    LogConfig    `yaml:"log"`
	Record RecordConfig `yaml:"record"`
}

func InitConfig() (*Config, error) {
	config := DefaultConfig
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		if err = readCfgFile(absPath, &config); err != nil {
			return nil, err
		}
	}
	if err = config.ApplyEnv(os.Environ()); err != nil {
		return nil, err
	}
	if config.Log.Path == "" {
		if config.Log.Path, err = xdg.StateFile(logFile); err != nil {
			return nil, err
		}
	}
	if config.Record.Dir == "" {
		config.Record.Dir = filepath.Join(xdg.DataHome, recordDir)
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// ApplyEnv overrides the game, keypad, log and record sections from TERMTOE_<SECTION>_<FIELD>
// variables in env, given as "key=value" pairs.
func (c *Config) ApplyEnv(env []string) error {
	sections := map[string]interface{}{}
	for _, kv := range env {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		section, field, ok := strings.Cut(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "_")
		if !ok {
			continue
		}
		switch section {
		case "game", "keypad", "log", "record":
		default:
			continue
		}
		fields, ok := sections[section].(map[string]interface{})
		if !ok {
			fields = map[string]interface{}{}
			sections[section] = fields
		}
		fields[field] = value
	}
	if len(sections) == 0 {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "yaml",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           c,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(sections); err != nil {
		return &InvalidConfig{fmt.Sprintf("environment: %v", err)}
	}
	return nil
}

func (c *Config) Validate() error {
	for _, s := range []string{c.Theme.Symbols.X, c.Theme.Symbols.O, c.Theme.Symbols.Empty} {
		if utf8.RuneCountInString(s) != 1 {
			return &InvalidConfig{fmt.Sprintf("symbol %q must be a single character", s)}
		}
		r, _ := utf8.DecodeRuneInString(s)
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	if _, err := keypad.ParseLayout(c.Keypad.Layout); err != nil {
		return &InvalidConfig{err.Error()}
	}
	if c.Game.Opponent != "" {
		if _, err := strategy.ParseLevel(c.Game.Opponent); err != nil {
			return &InvalidConfig{fmt.Sprintf("game opponent: %v", err)}
		}
	}
	if _, err := c.Game.Side(); err != nil {
		return err
	}
	if c.Game.AfterGameMs < 0 || c.Game.ThinkMs < 0 || c.Keypad.DebounceMs < 0 {
		return &InvalidConfig{"delays must not be negative"}
	}
	if c.Keypad.Buffer <= 0 {
		return &InvalidConfig{"keypad buffer must be positive"}
	}
	if _, err := c.Log.ZapLevel(); err != nil {
		return err
	}
	return nil
}

// Side returns the configured symbol of the first player, or board.Empty if it is asked every round.
func (g GameConfig) Side() (board.Cell, error) {
	switch strings.ToLower(g.Symbol) {
	case "":
		return board.Empty, nil
	case "x":
		return board.X, nil
	case "o":
		return board.O, nil
	}
	return board.Empty, &InvalidConfig{fmt.Sprintf("game symbol %q is neither x nor o", g.Symbol)}
}

func (g GameConfig) AfterGame() time.Duration {
	return time.Duration(g.AfterGameMs) * time.Millisecond
}

func (g GameConfig) Think() time.Duration {
	return time.Duration(g.ThinkMs) * time.Millisecond
}

func (k KeypadConfig) Debounce() time.Duration {
	return time.Duration(k.DebounceMs) * time.Millisecond
}

func (l LogConfig) ZapLevel() (zapcore.Level, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return level, &InvalidConfig{fmt.Sprintf("log level: %v", err)}
	}
	return level, nil
}

// Save writes c to the user's config file.
func (c *Config) Save() (string, error) {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return "", err
	}
	return absPath, saveCfgFile(absPath, c, 0664)
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	yamlData, err := yaml.Marshal(a)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, yamlData, perm)
}

func readCfgFile(filePath string, a interface{}) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	if err = yaml.Unmarshal(data, a); err != nil {
		return &InvalidConfig{fmt.Sprintf("%s: %v", filePath, err)}
	}
	return nil
}
