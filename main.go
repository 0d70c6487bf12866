// clusterviz is a terminal viewer for per-frame point clustering runs.
//
// It loads a JSON dataset of points with one cluster label per frame plus
// per-frame proximity metadata, and draws the current frame on a pannable,
// zoomable canvas.
//
// Usage:
//
//	clusterviz -data run.json            # import on start
//	clusterviz -data run.json.zst -watch # re-import whenever the file changes
//	clusterviz -palette color.csv        # palette file, one hex color per line
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lmittmann/tint"
)

var Version = "dev"

func main() {
	dataPath := flag.String("data", "", "dataset to import on start (.json or zstd-compressed)")
	palettePath := flag.String("palette", "", "palette file, one hex color per line (default from config)")
	configPath := flag.String("config", "", "config file (default ~/.clustervizrc)")
	watch := flag.Bool("watch", false, "re-import the dataset when it changes on disk")
	logPath := flag.String("log", "", "log file (default from config)")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("clusterviz %s\n", Version)
		os.Exit(0)
	}

	config, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clusterviz: %v\n", err)
		os.Exit(1)
	}
	if *palettePath != "" {
		config.PalettePath = *palettePath
	}
	if *logPath != "" {
		config.LogFile = *logPath
	}

	logger, closeLog, err := openLogger(config.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clusterviz: %v\n", err)
		os.Exit(1)
	}
	defer closeLog.Close()

	m := newModel(config, logger)
	m.dataPath = *dataPath
	m.watch = *watch && *dataPath != ""

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		logger.Error("program exited", "err", err)
		fmt.Fprintf(os.Stderr, "clusterviz: %v\n", err)
		// os.Exit skips deferred calls.
		closeLog.Close()
		os.Exit(1)
	}
}

func openLogger(path string) (*slog.Logger, io.Closer, error) {
	if path == "" {
		return slog.New(tint.NewHandler(io.Discard, nil)), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	logger := slog.New(
		tint.NewHandler(f, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: "15:04:05",
			NoColor:    true,
		}),
	)
	return logger, f, nil
}

func newModel(config *Config, logger *slog.Logger) model {
	surface := newGGSurface(config.CanvasWidth, config.CanvasHeight)
	palette := NewPalette(config.paletteOptions(), logger)
	state := NewAppState(float64(config.CanvasWidth), float64(config.CanvasHeight), palette)
	ctrl := NewController(state, NewRenderer(surface, logger), ControllerOptions{
		PanStep:        config.PanStep,
		RepeatInterval: config.repeatInterval(),
	}, logger)

	gotoInput := textinput.New()
	gotoInput.Prompt = "goto frame: "
	gotoInput.CharLimit = 9

	pathInput := textinput.New()
	pathInput.Prompt = "import: "

	return model{
		mode:        ModeNormal,
		ctrl:        ctrl,
		surface:     surface,
		config:      config,
		logger:      logger,
		keys:        keys,
		help:        help.New(),
		gotoInput:   gotoInput,
		pathInput:   pathInput,
		palettePath: config.PalettePath,
	}
}

func (m model) Init() tea.Cmd {
	if m.dataPath == "" {
		return loadPaletteCmd(m.palettePath)
	}
	// The palette has to be in place before the first frame assigns colors.
	return tea.Sequence(loadPaletteCmd(m.palettePath), m.startImport(m.dataPath))
}

// startImport clears current state right away; the read completes later
// as an importedMsg.
func (m *model) startImport(path string) tea.Cmd {
	m.releaseArrow()
	token := m.ctrl.BeginImport()
	m.logger.Info("import started", "path", path, "token", token)
	return readDatasetCmd(token, path)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case paletteLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("palette unavailable, using generated colors", "path", msg.path, "err", msg.err)
			return m, nil
		}
		m.ctrl.SetPalette(msg.colors)
		if m.ctrl.State().Dataset != nil {
			m.ctrl.render()
		}
		return m, nil

	case importedMsg:
		err := m.ctrl.CompleteImport(msg.token, msg.data, msg.err)
		switch {
		case errors.Is(err, ErrStaleImport):
			return m, nil
		case err != nil:
			m.errorMessage = err.Error()
			m.successMessage = ""
		default:
			m.errorMessage = ""
			m.successMessage = "Imported " + msg.path
		}
		// A failed file stays watched so fixing it on disk re-imports it.
		m.dataPath = msg.path
		return m, m.rewatch(msg.path)

	case fileChangedMsg:
		if !m.currentChange(msg) {
			m.logger.Debug("ignoring change to a file no longer shown", "path", msg.path)
			return m, nil
		}
		m.logger.Info("dataset changed on disk", "path", msg.path)
		return m, tea.Batch(m.startImport(msg.path), waitForChange(m.watcher, msg.path))

	case watchErrMsg:
		if msg.watcher != m.watcher || m.watcher == nil {
			return m, nil
		}
		m.logger.Warn("watch error", "err", msg.err)
		return m, waitForChange(m.watcher, m.watchedPath)

	case repeatMsg:
		return m, m.handleRepeat(msg, time.Now())

	case exportedMsg:
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			m.successMessage = ""
			m.logger.Error("export failed", "path", msg.path, "err", msg.err)
		} else {
			m.errorMessage = ""
			m.successMessage = "Saved " + msg.path
			m.logger.Info("exported frame", "path", msg.path)
		}
		return m, nil

	case tea.MouseMsg:
		if m.mode == ModeNormal {
			m.handleMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeGotoInput:
			return m.updateGotoInput(msg)
		case ModeImportInput:
			return m.updateImportInput(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errorMessage = ""
	m.successMessage = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.stopWatching()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Step):
		return m, m.handleArrow(msg.String(), time.Now())
	case key.Matches(msg, m.keys.Prev):
		m.ctrl.Prev()
	case key.Matches(msg, m.keys.Next):
		m.ctrl.Next()
	case key.Matches(msg, m.keys.Pan):
		m.ctrl.KeyDown(KeyEvent{Key: msg.String()})
	case key.Matches(msg, m.keys.Goto):
		m.mode = ModeGotoInput
		m.gotoInput.SetValue(strconv.Itoa(m.ctrl.State().GotoValue))
		m.gotoInput.CursorEnd()
		return m, m.gotoInput.Focus()
	case key.Matches(msg, m.keys.Import):
		m.mode = ModeImportInput
		m.pathInput.SetValue(m.dataPath)
		m.pathInput.CursorEnd()
		return m, m.pathInput.Focus()
	case key.Matches(msg, m.keys.Clear):
		m.releaseArrow()
		m.ctrl.Clear()
		m.logger.Info("cleared")
	case key.Matches(msg, m.keys.Export):
		st := m.ctrl.State()
		return m, exportCmd(m.surface, st, m.config.GetSavePath(exportFilename(st.Frame)))
	case key.Matches(msg, m.keys.Copy):
		if err := copySelection(m.ctrl.State()); err != nil {
			m.errorMessage = err.Error()
		} else {
			m.successMessage = "Copied selection"
		}
	}
	return m, nil
}

func (m model) updateGotoInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.gotoInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.ctrl.SetGotoInput(m.gotoInput.Value())
		m.ctrl.Goto()
		m.gotoInput.SetValue(strconv.Itoa(m.ctrl.State().GotoValue))
		m.mode = ModeNormal
		m.gotoInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.gotoInput, cmd = m.gotoInput.Update(msg)
	if clamped := m.ctrl.SetGotoInput(m.gotoInput.Value()); clamped != m.gotoInput.Value() {
		m.gotoInput.SetValue(clamped)
		m.gotoInput.CursorEnd()
	}
	return m, cmd
}

func (m model) updateImportInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.pathInput.Blur()
		return m, nil
	case tea.KeyEnter:
		path := strings.TrimSpace(m.pathInput.Value())
		m.mode = ModeNormal
		m.pathInput.Blur()
		if path == "" {
			return m, nil
		}
		return m, m.startImport(path)
	}
	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

var (
	panelStyle = lipgloss.NewStyle().
			Width(panelWidth).
			PaddingLeft(1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true)
	labelStyle = lipgloss.NewStyle().Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5fd787"))
	swatchBase = lipgloss.NewStyle().Width(panelWidth - 2).Align(lipgloss.Center).Bold(true)
)

func (m model) View() string {
	if m.width == 0 {
		return "loading..."
	}
	cols, rows := m.canvasCells()
	canvas := strings.Join(renderHalfBlocks(m.surface.Image(), cols, rows), "\n")
	body := lipgloss.JoinHorizontal(lipgloss.Top, canvas, m.panelView(rows))

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m model) panelView(rows int) string {
	st := m.ctrl.State()
	p := st.Panel
	var b strings.Builder

	if p.Loaded {
		fmt.Fprintf(&b, "%s %d\n", labelStyle.Render("Total Frames:"), p.TotalFrames)
		fmt.Fprintf(&b, "%s %d\n", labelStyle.Render("Total Points:"), p.TotalPoints)
		fmt.Fprintf(&b, "%s %d\n", labelStyle.Render("Frame:"), st.Frame)
		fmt.Fprintf(&b, "%s %.2f\n", labelStyle.Render("Zoom:"), st.Viewport.Zoom)
	}
	b.WriteString(labelStyle.Render("Selected Point:"))
	if p.Selected != nil {
		fmt.Fprintf(&b, " (%.2f, %.2f)", p.Selected.X, p.Selected.Y)
	}
	b.WriteString("\n")
	if st.Selection.HasCluster {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Selected Cluster:"), st.Selection.Cluster)
	}
	b.WriteString("\n")
	b.WriteString(m.swatchView(p.Status))
	b.WriteString("\n\n")
	if text := extractTextFromHTML(p.Info); text != "" {
		b.WriteString(text)
		b.WriteString("\n")
	}
	if p.Diagnostic != "" {
		b.WriteString(errorStyle.Render(p.Diagnostic))
		b.WriteString("\n")
	}
	if m.mode == ModeGotoInput {
		b.WriteString("\n" + m.gotoInput.View())
	}
	if m.mode == ModeImportInput {
		b.WriteString("\n" + m.pathInput.View())
	}
	return panelStyle.Height(rows).MaxHeight(rows).Render(b.String())
}

func (m model) swatchView(s Status) string {
	switch s {
	case StatusPass:
		return swatchBase.Background(lipgloss.Color("#B3FFCA")).Foreground(lipgloss.Color("#000000")).Render("PASS")
	case StatusFail:
		return swatchBase.Background(lipgloss.Color("#ff8989")).Foreground(lipgloss.Color("#000000")).Render("FAIL")
	}
	return swatchBase.Render("-")
}

func (m model) statusLine() string {
	st := m.ctrl.State()
	status := fmt.Sprintf("Frame %d/%d", st.Frame, st.MaxFrame)
	if m.ctrl.Repeating() {
		status += " | playing"
	}
	if m.successMessage != "" {
		status += " | " + okStyle.Render(m.successMessage)
	}
	if m.errorMessage != "" {
		status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
	}
	return status
}
