// Package config loads the viewer configuration from TOML.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type Window struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

// Shaders names the SPIR-V binaries under the resources shaders directory.
type Shaders struct {
	Vertex   string `toml:"vertex"`
	Fragment string `toml:"fragment"`
}

type Config struct {
	// ResourcesRoot holds the models, textures and shaders directories.
	ResourcesRoot string `toml:"resources_root"`
	// Scene is a YAML scene description. Relative paths resolve against
	// ResourcesRoot.
	Scene      string     `toml:"scene"`
	LogLevel   string     `toml:"log_level"`
	ClearColor [4]float64 `toml:"clear_color"`
	Window     Window     `toml:"window"`
	Shaders    Shaders    `toml:"shaders"`
}

func Default() Config {
	return Config{
		ResourcesRoot: "resources",
		Scene:         "scene.yaml",
		LogLevel:      "info",
		ClearColor:    [4]float64{0.01, 0.01, 0.01, 1},
		Window: Window{
			Width:  800,
			Height: 600,
			Title:  "dsk",
		},
		Shaders: Shaders{
			Vertex:   "simple_shader.vert.spv",
			Fragment: "simple_shader.frag.spv",
		},
	}
}

// Load reads path over Default. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Shaders.Vertex == "" || c.Shaders.Fragment == "" {
		return fmt.Errorf("both shaders must be named")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel as a slog level name.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
