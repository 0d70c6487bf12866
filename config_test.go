package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clustervizrc")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
canvas_width = 640
palette_policy = "random"
distinctness = 80.5
pan_step = 10
repeat_interval = "150ms"
`)
	config, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if config.CanvasWidth != 640 || config.CanvasHeight != defaultCanvasHeight {
		t.Errorf("canvas = %dx%d", config.CanvasWidth, config.CanvasHeight)
	}
	if config.repeatInterval() != 150*time.Millisecond {
		t.Errorf("repeat interval = %v", config.repeatInterval())
	}
	opts := config.paletteOptions()
	if opts.Policy != PolicyRandom || opts.Distinctness != 80.5 || opts.Whiteness != defaultWhiteness {
		t.Errorf("palette options = %+v", opts)
	}
	if config.PanStep != 10 {
		t.Errorf("pan step = %v", config.PanStep)
	}
	if got := config.GetSavePath("frame_0001.png"); got != "frame_0001.png" {
		t.Errorf("GetSavePath = %q", got)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	config, err := loadConfig(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatal(err)
	}
	if config.CanvasWidth != defaultCanvasWidth || config.PalettePolicy != "hashed" {
		t.Errorf("defaults = %+v", config)
	}
	if config.repeatInterval() != defaultRepeatInterval {
		t.Errorf("repeat interval = %v", config.repeatInterval())
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad policy", `palette_policy = "rainbow"`},
		{"bad interval", `repeat_interval = "soon"`},
		{"bad toml", `canvas_width = `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadConfig(writeConfig(t, tt.body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	if got := expandPath("~/frames", "/home/u"); got != "/home/u/frames" {
		t.Errorf("expandPath = %q", got)
	}
	if got := expandPath("", "/home/u"); got != "" {
		t.Errorf("empty path expanded to %q", got)
	}
}
