package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 250 * time.Millisecond

// Watch reloads the configuration whenever one of the search-path files is
// written, created, renamed or removed, then calls onChange. Editors emit
// bursts of events, so reloads are debounced. A reload that fails
// validation keeps the previous tree. Watch blocks until ctx is done.
func (m *Manager) Watch(ctx context.Context, onChange func(*Manager)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer w.Close()

	watched := map[string]bool{}
	targets := map[string]bool{}
	for _, p := range m.Paths() {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		targets[abs] = true
		dir := filepath.Dir(abs)
		if watched[dir] {
			continue
		}
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := w.Add(dir); err != nil {
			m.log.Warn().Err(err).Str("dir", dir).Msg("config watch add failed")
			continue
		}
		watched[dir] = true
	}
	if len(watched) == 0 {
		m.log.Debug().Msg("no config directories to watch")
	}

	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	reload := func() {
		if err := m.Reload(); err != nil {
			m.log.Warn().Err(err).Msg("config reload rejected")
			return
		}
		m.log.Info().Strs("files", m.LoadedFiles()).Msg("config reloaded")
		if onChange != nil {
			onChange(m)
		}
	}
	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !targets[abs] {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			m.log.Debug().Str("path", abs).Str("op", ev.Op.String()).Msg("config change detected")
			timerMu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, reload)
			timerMu.Unlock()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			m.log.Warn().Err(err).Msg("config watcher error")
		}
	}
}
