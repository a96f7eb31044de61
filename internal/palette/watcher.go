package palette

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind describes the type of palette file change detected.
type ChangeKind int

const (
	ChangeModified ChangeKind = iota // palette file written or created
	ChangeRemoved                    // palette file deleted or no longer valid
)

// String returns a lowercase name for the kind.
func (k ChangeKind) String() string {
	if k == ChangeRemoved {
		return "removed"
	}
	return "modified"
}

// Change reports a palette file the watcher reloaded into, or removed from,
// the store.
type Change struct {
	Kind    ChangeKind
	Palette string // empty when the file never held a loaded palette
	File    string
	Err     error // set when a modified file failed to load
}

// Watcher keeps a Store in step with its palette directory using fsnotify.
type Watcher struct {
	Changes <-chan Change

	store    *Store
	changes  chan Change
	done     chan struct{}
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// NewWatcher creates a watcher for the store's palette directory.
func NewWatcher(store *Store) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan Change, 16)
	return &Watcher{
		Changes:  ch,
		store:    store,
		changes:  ch,
		done:     make(chan struct{}),
		watcher:  fw,
		debounce: 100 * time.Millisecond,
	}, nil
}

// Start begins watching the palette directory.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.store.Dir()); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Editors write in bursts; act once per file after it settles.
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				for file := range pending {
					w.reload(file)
				}
				return
			}
			if !w.isPaletteFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending[event.Name] = time.Now()
			}

		case <-ticker.C:
			now := time.Now()
			for file, t := range pending {
				if now.Sub(t) >= w.debounce {
					w.reload(file)
					delete(pending, file)
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) isPaletteFile(name string) bool {
	base := filepath.Base(name)
	if base == w.store.fileMapName {
		return false
	}
	return isPaletteFile(base)
}

func (w *Watcher) reload(file string) {
	p, err := w.store.LoadFile(file)
	if err == nil {
		w.changes <- Change{Kind: ChangeModified, Palette: p.Name, File: file}
		return
	}

	// Removed, or rewritten into something that no longer parses.
	name, _ := w.store.forgetFile(file)
	change := Change{Kind: ChangeRemoved, Palette: name, File: file}
	if fileExists(file) {
		change.Err = err
	}
	w.changes <- change
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
