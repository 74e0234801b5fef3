package datatable

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/playforge/gamecore/internal/logging"
)

// defaultDebounce coalesces editor save bursts (many editors write a file
// several times per save) into one regeneration.
const defaultDebounce = 500 * time.Millisecond

// Watcher regenerates a manifest's tables whenever the manifest or one of
// its CSV sources changes.
type Watcher struct {
	manifestPath string
	debounce     time.Duration

	watcher *fsnotify.Watcher

	// changed carries a coalesced "something changed" signal from the event
	// loop to the regeneration loop. Buffered by one so bursts collapse.
	changed chan struct{}
}

// NewWatcher creates a Watcher for the manifest at path. A non-positive
// debounce falls back to the default.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving manifest path: %w", err)
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	return &Watcher{
		manifestPath: abs,
		debounce:     debounce,
		watcher:      fw,
		changed:      make(chan struct{}, 1),
	}, nil
}

// Start runs one generation pass, begins watching, and returns. Watching
// stops when ctx is canceled. Directories are watched rather than files:
// editors that replace files on save would otherwise drop the watch.
func (w *Watcher) Start(ctx context.Context) error {
	m, err := LoadManifest(w.manifestPath)
	if err != nil {
		return err
	}

	dirs := map[string]struct{}{filepath.Dir(w.manifestPath): {}}
	baseDir := filepath.Dir(w.manifestPath)
	for _, table := range m.Tables {
		dirs[filepath.Dir(resolve(baseDir, table.Source))] = struct{}{}
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	if err := Generate(w.manifestPath); err != nil {
		logging.Logger().Error("initial generation failed", "error", err)
	}

	go w.eventLoop(ctx)
	go w.regenLoop(ctx)

	logging.Logger().Info("watching data tables",
		"manifest", w.manifestPath, "dirs", len(dirs))
	return nil
}

// Close stops the underlying file watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// eventLoop filters raw filesystem events down to the coalesced changed
// signal.
func (w *Watcher) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			select {
			case w.changed <- struct{}{}:
			default: // a regeneration is already pending
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Logger().Warn("file watcher error", "error", err)
		}
	}
}

// regenLoop debounces changed signals and reruns Generate. Generation
// failures are logged and watching continues; a broken CSV mid-edit is
// normal.
func (w *Watcher) regenLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.changed:
		}

		timer := time.NewTimer(w.debounce)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if err := Generate(w.manifestPath); err != nil {
			logging.Logger().Error("regeneration failed", "error", err)
		}
	}
}

// relevant reports whether a filesystem event should trigger regeneration:
// writes, creates, renames, and removals of CSV sources or manifest files.
func relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	switch filepath.Ext(ev.Name) {
	case ".csv", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
