// Package config loads dragboard settings from a YAML file and DRAGBOARD_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory and then
// in the data directory.
const FileName = "dragboard.yaml"

type Board struct {
	SquareSize  int    `yaml:"square_size"`
	MarginLeft  int    `yaml:"margin_left"`
	MarginTop   int    `yaml:"margin_top"`
	Orientation string `yaml:"orientation"` // white | side_to_move
}

type Assets struct {
	Dir string `yaml:"dir"`
}

type Theme struct {
	Mode       string `yaml:"mode"`       // auto | light | dark
	Brightness int    `yaml:"brightness"` // initial host brightness, 0-255
}

type Promotion struct {
	Auto string `yaml:"auto"` // "" asks; q, r, b or n promotes without asking
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // legacy | console | json
	File   string `yaml:"file"`
}

type Storage struct {
	Dir      string `yaml:"dir"`
	Disabled bool   `yaml:"disabled"`
}

// Config is the full settings tree.
type Config struct {
	Board     Board     `yaml:"board"`
	Assets    Assets    `yaml:"assets"`
	Theme     Theme     `yaml:"theme"`
	Promotion Promotion `yaml:"promotion"`
	Sound     bool      `yaml:"sound"`
	Log       Log       `yaml:"log"`
	Storage   Storage   `yaml:"storage"`

	// Path is the file the config was read from, empty for defaults.
	Path string `yaml:"-"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Board: Board{
			SquareSize:  80,
			MarginLeft:  30,
			MarginTop:   10,
			Orientation: "white",
		},
		Assets:    Assets{Dir: filepath.Join("assets", "pieces", "default")},
		Theme:     Theme{Mode: "auto", Brightness: 255},
		Promotion: Promotion{Auto: ""},
		Sound:     true,
		Log:       Log{Level: "info", Format: "legacy"},
	}
}

// Load reads path, or the first existing default location when path is
// empty, then applies environment overrides. A missing file is not an error.
func Load(path string, searchDirs ...string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = find(append([]string{"."}, searchDirs...))
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			path = ""
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("decode config %s: %w", path, err)
			}
		}
	}
	cfg.Path = path

	applyEnv(&cfg, os.Getenv)
	cfg.correct()
	return &cfg, nil
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func find(dirs []string) string {
	for _, d := range dirs {
		if d == "" {
			continue
		}
		p := filepath.Join(d, FileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func applyEnv(c *Config, getenv func(string) string) {
	env := func(key string) (string, bool) {
		v := strings.TrimSpace(getenv("DRAGBOARD_" + key))
		return v, v != ""
	}
	atoi := func(key string, dst *int) {
		if v, ok := env(key); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	str := func(key string, dst *string) {
		if v, ok := env(key); ok {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := env(key); ok {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	atoi("SQUARE_SIZE", &c.Board.SquareSize)
	str("ORIENTATION", &c.Board.Orientation)
	str("ASSETS_DIR", &c.Assets.Dir)
	str("THEME", &c.Theme.Mode)
	atoi("BRIGHTNESS", &c.Theme.Brightness)
	str("AUTO_PROMOTE", &c.Promotion.Auto)
	boolean("SOUND", &c.Sound)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("LOG_FILE", &c.Log.File)
	str("DATA_DIR", &c.Storage.Dir)
	boolean("NO_STORAGE", &c.Storage.Disabled)
}

// correct replaces out-of-range values with defaults.
func (c *Config) correct() {
	def := Default()
	if c.Board.SquareSize < 16 || c.Board.SquareSize > 512 {
		c.Board.SquareSize = def.Board.SquareSize
	}
	if c.Board.MarginLeft < 0 {
		c.Board.MarginLeft = def.Board.MarginLeft
	}
	if c.Board.MarginTop < 0 {
		c.Board.MarginTop = def.Board.MarginTop
	}
	switch strings.ToLower(c.Board.Orientation) {
	case "white", "white_at_bottom", "side_to_move", "turn":
		c.Board.Orientation = strings.ToLower(c.Board.Orientation)
	default:
		c.Board.Orientation = def.Board.Orientation
	}
	if c.Assets.Dir == "" {
		c.Assets.Dir = def.Assets.Dir
	}
	switch strings.ToLower(c.Theme.Mode) {
	case "auto", "light", "dark":
		c.Theme.Mode = strings.ToLower(c.Theme.Mode)
	default:
		c.Theme.Mode = def.Theme.Mode
	}
	if c.Theme.Brightness < 0 || c.Theme.Brightness > 255 {
		c.Theme.Brightness = def.Theme.Brightness
	}
	switch strings.ToLower(c.Promotion.Auto) {
	case "", "q", "r", "b", "n":
		c.Promotion.Auto = strings.ToLower(c.Promotion.Auto)
	default:
		c.Promotion.Auto = def.Promotion.Auto
	}
	switch c.Log.Format {
	case "legacy", "console", "json":
	default:
		c.Log.Format = def.Log.Format
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}
