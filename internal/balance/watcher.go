package balance

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/theo/champion-teams-website/internal/scoring"
)

// Watcher serves the balance table from a file and reloads it whenever the
// file changes. Each successful reload bumps the version; a failed reload
// keeps the previous snapshot so a half-written file never poisons scoring.
type Watcher struct {
	path     string
	onReload func(Snapshot)

	mu      sync.RWMutex
	snap    Snapshot
	version int64

	fw   *fsnotify.Watcher
	done chan struct{}
}

// NewWatcher loads the file once and starts watching its directory
// (editors and config tools usually replace files rather than write in
// place). onReload may be nil.
func NewWatcher(path string, onReload func(Snapshot)) (*Watcher, error) {
	constants, err := Load(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create balance watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch balance dir: %w", err)
	}

	w := &Watcher{
		path:     path,
		onReload: onReload,
		snap:     Snapshot{Constants: constants, Version: "v1"},
		version:  1,
		fw:       fw,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) Current() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snap
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}

func (w *Watcher) run() {
	target := filepath.Clean(w.path)
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			log.Printf("WARN [Balance.Watcher]: watch error: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	constants, err := Load(w.path)
	if err != nil {
		log.Printf("WARN [Balance.Watcher]: reload failed, keeping %s: %v", w.Current().Version, err)
		return
	}

	w.mu.Lock()
	w.version++
	w.snap = Snapshot{Constants: constants, Version: fmt.Sprintf("v%d", w.version)}
	snap := w.snap
	w.mu.Unlock()

	log.Printf("INFO [Balance.Watcher]: reloaded balance file as %s", snap.Version)
	if w.onReload != nil {
		w.onReload(snap)
	}
}

// FromFile builds a Source for the optional balance file: a live Watcher
// when a path is configured, shipped defaults otherwise. The returned
// closer is a no-op for the static case.
func FromFile(path string) (Source, func() error, error) {
	if path == "" {
		return NewStatic(scoring.DefaultConstants()), func() error { return nil }, nil
	}
	w, err := NewWatcher(path, nil)
	if err != nil {
		return nil, nil, err
	}
	return w, w.Close, nil
}
