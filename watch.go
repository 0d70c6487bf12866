package main

import (
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// newWatcher watches the directory holding path; editors often replace
// files instead of writing them in place.
func newWatcher(path string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

// waitForChange blocks until path is written or recreated. Re-issue it
// after every fileChangedMsg.
func waitForChange(w *fsnotify.Watcher, path string) tea.Cmd {
	target := filepath.Clean(path)
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) == target && ev.Has(fsnotify.Write|fsnotify.Create) {
					return fileChangedMsg{watcher: w, path: path}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return nil
				}
				return watchErrMsg{watcher: w, err: err}
			}
		}
	}
}

// rewatch points the watcher at path, replacing a watcher armed for any
// other file.
func (m *model) rewatch(path string) tea.Cmd {
	if !m.watch {
		return nil
	}
	if m.watcher != nil && samePath(m.watchedPath, path) {
		return nil
	}
	m.stopWatching()
	w, err := newWatcher(path)
	if err != nil {
		m.logger.Warn("watch disabled", "path", path, "err", err)
		m.watch = false
		return nil
	}
	m.watcher = w
	m.watchedPath = path
	m.logger.Debug("watching", "path", path)
	return waitForChange(w, path)
}

func (m *model) stopWatching() {
	if m.watcher == nil {
		return
	}
	m.watcher.Close()
	m.watcher = nil
	m.watchedPath = ""
}

// currentChange reports whether a change event came from the live watcher
// and concerns the dataset on screen.
func (m *model) currentChange(msg fileChangedMsg) bool {
	return msg.watcher != nil && msg.watcher == m.watcher && samePath(msg.path, m.dataPath)
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}

func readDatasetCmd(token uint64, path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		return importedMsg{token: token, path: path, data: data, err: err}
	}
}

func loadPaletteCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return paletteLoadedMsg{path: path, err: err}
		}
		defer f.Close()
		colors, err := LoadPalette(f)
		return paletteLoadedMsg{path: path, colors: colors, err: err}
	}
}

// exportCmd copies the frame now and encodes it off the UI goroutine.
func exportCmd(surface *ggSurface, st *AppState, path string) tea.Cmd {
	snap, err := snapshotFrame(surface, st)
	return func() tea.Msg {
		if err != nil {
			return exportedMsg{path: path, err: err}
		}
		return exportedMsg{path: path, err: snap.writePNG(path)}
	}
}
