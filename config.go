package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	SaveDirectory    string  `toml:"save_directory"`
	CanvasWidth      int     `toml:"canvas_width"`
	CanvasHeight     int     `toml:"canvas_height"`
	PalettePath      string  `toml:"palette_path"`
	PalettePolicy    string  `toml:"palette_policy"`
	Distinctness     float64 `toml:"distinctness"`
	Whiteness        float64 `toml:"whiteness"`
	MaxColorAttempts int     `toml:"max_color_attempts"`
	PanStep          float64 `toml:"pan_step"`
	RepeatInterval   string  `toml:"repeat_interval"`
	LogFile          string  `toml:"log_file"`
}

func defaultConfig() *Config {
	return &Config{
		CanvasWidth:      defaultCanvasWidth,
		CanvasHeight:     defaultCanvasHeight,
		PalettePath:      defaultPalettePath,
		PalettePolicy:    PolicyHashed.String(),
		Distinctness:     defaultDistinctness,
		Whiteness:        defaultWhiteness,
		MaxColorAttempts: defaultMaxColorAttempts,
		PanStep:          defaultPanStep,
		RepeatInterval:   defaultRepeatInterval.String(),
		LogFile:          filepath.Join(os.TempDir(), defaultLogName),
	}
}

// loadConfig reads path, or ~/.clustervizrc when path is empty. A missing
// file yields the defaults.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	homeDir, _ := os.UserHomeDir()
	if path == "" {
		if homeDir == "" {
			return config, nil
		}
		path = filepath.Join(homeDir, ".clustervizrc")
	}

	if _, err := toml.DecodeFile(path, config); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		return config, fmt.Errorf("config %s: %w", path, err)
	}

	config.SaveDirectory = expandPath(config.SaveDirectory, homeDir)
	config.PalettePath = expandPath(config.PalettePath, homeDir)
	config.LogFile = expandPath(config.LogFile, homeDir)
	if config.CanvasWidth <= 0 {
		config.CanvasWidth = defaultCanvasWidth
	}
	if config.CanvasHeight <= 0 {
		config.CanvasHeight = defaultCanvasHeight
	}
	if _, err := ParsePalettePolicy(config.PalettePolicy); err != nil {
		return config, fmt.Errorf("config %s: %w", path, err)
	}
	if _, err := time.ParseDuration(config.RepeatInterval); err != nil {
		return config, fmt.Errorf("config %s: repeat_interval: %w", path, err)
	}
	return config, nil
}

func expandPath(value, homeDir string) string {
	if value == "" {
		return value
	}
	if strings.HasPrefix(value, "~") && homeDir != "" {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

func (c *Config) repeatInterval() time.Duration {
	d, err := time.ParseDuration(c.RepeatInterval)
	if err != nil {
		return defaultRepeatInterval
	}
	return d
}

func (c *Config) paletteOptions() PaletteOptions {
	policy, _ := ParsePalettePolicy(c.PalettePolicy)
	return PaletteOptions{
		Policy:       policy,
		Distinctness: c.Distinctness,
		Whiteness:    c.Whiteness,
		MaxAttempts:  c.MaxColorAttempts,
	}
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}
