package main

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/fsnotify/fsnotify"
	"github.com/lucasb-eyer/go-colorful"
)

// AppState is everything one render reads. The controller owns it.
type AppState struct {
	Dataset     *Dataset
	Viewport    *Viewport
	Selection   *Selection
	Palette     *Palette
	Frame       int
	MaxFrame    int
	GotoValue   int
	PointRadius float64
	Panel       Panel
}

func NewAppState(width, height float64, palette *Palette) *AppState {
	return &AppState{
		Viewport:    NewViewport(width, height),
		Selection:   NewSelection(),
		Palette:     palette,
		PointRadius: defaultPointRadius,
	}
}

type Status int

const (
	StatusNone Status = iota
	StatusPass
	StatusFail
)

// Panel is the text shown beside the canvas.
type Panel struct {
	Loaded      bool
	TotalFrames int
	TotalPoints int
	Selected    *Vec
	Info        string
	Status      Status
	Diagnostic  string
}

type model struct {
	width          int
	height         int
	mode           Mode
	ctrl           *Controller
	surface        *ggSurface
	config         *Config
	logger         *slog.Logger
	keys           keyMap
	help           help.Model
	gotoInput      textinput.Model
	pathInput      textinput.Model
	dataPath       string
	palettePath    string
	watch          bool
	watcher        *fsnotify.Watcher
	watchedPath    string
	heldArrow      string
	lastArrow      time.Time
	lastTick       time.Time
	repeatToken    uint64
	errorMessage   string
	successMessage string
}

type importedMsg struct {
	token uint64
	path  string
	data  []byte
	err   error
}

type paletteLoadedMsg struct {
	path   string
	colors []colorful.Color
	err    error
}

type repeatMsg struct {
	token uint64
}

type fileChangedMsg struct {
	watcher *fsnotify.Watcher
	path    string
}

type watchErrMsg struct {
	watcher *fsnotify.Watcher
	err     error
}

type exportedMsg struct {
	path string
	err  error
}
