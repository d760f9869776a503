// Package watch implements "watch" command: skeletons are regenerated every
// time watched templates change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// FileWatcherConfig contains configuration for the file watcher.
type FileWatcherConfig struct {
	// Path is the file or directory to watch.
	Path string
	// Debounce is the quiet period after last change before callback fires.
	Debounce time.Duration
	// Accept selects files of interest by name. Nil accepts everything.
	Accept func(name string) bool
	// SkipHidden ignores files and directories starting with dot.
	SkipHidden bool
}

// FileWatcher watches templates and calls back with the changed file path.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	log      *zap.Logger
	config   FileWatcherConfig
	debounce *Debouncer

	// when watching single file its directory is watched and events are
	// filtered by name, editors often replace files instead of writing them
	single string

	mu      sync.Mutex
	running bool
}

func NewFileWatcher(config FileWatcherConfig, log *zap.Logger) (*FileWatcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if config.Path == "" {
		return nil, errors.New("nothing to watch")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &FileWatcher{
		watcher:  w,
		log:      log,
		config:   config,
		debounce: NewDebouncer(config.Debounce),
	}, nil
}

// Watch blocks processing file events until context is cancelled. onChange
// is called from debounce timers, possibly concurrently for different files.
func (fw *FileWatcher) Watch(ctx context.Context, onChange func(path string)) error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return errors.New("watcher already running")
	}
	fw.running = true
	fw.mu.Unlock()

	defer func() {
		fw.debounce.Stop()
		if err := fw.watcher.Close(); err != nil {
			fw.log.Warn("Unable to close file watcher", zap.Error(err))
		}
	}()

	if err := fw.addPath(fw.config.Path); err != nil {
		return fmt.Errorf("failed to watch path: %w", err)
	}

	fw.log.Info("File watcher started", zap.String("path", fw.config.Path), zap.Duration("debounce", fw.config.Debounce))

	for {
		select {
		case <-ctx.Done():
			fw.log.Info("File watcher stopped")
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}

			if event.Has(fsnotify.Create) && fw.single == "" {
				fw.watchNewDirectory(event.Name)
			}
			if !fw.shouldProcessEvent(event) {
				continue
			}

			fw.log.Debug("File event detected", zap.String("path", event.Name), zap.Stringer("op", event.Op))

			path := event.Name
			fw.debounce.Trigger(path, func() {
				if ctx.Err() != nil {
					return
				}
				onChange(path)
			})

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			// continue watching despite errors
			fw.log.Error("File watcher error", zap.Error(err))
		}
	}
}

func (fw *FileWatcher) addPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fw.addDirectory(path)
	}
	fw.single = filepath.Clean(path)
	return fw.watcher.Add(filepath.Dir(fw.single))
}

// addDirectory adds a directory and all subdirectories to the watcher.
func (fw *FileWatcher) addDirectory(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && fw.hidden(path) {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		fw.log.Debug("Watching directory", zap.String("path", path))
		return nil
	})
}

func (fw *FileWatcher) watchNewDirectory(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || fw.hidden(path) {
		return
	}
	if err := fw.addDirectory(path); err != nil {
		fw.log.Warn("Unable to watch new directory", zap.String("path", path), zap.Error(err))
	}
}

func (fw *FileWatcher) hidden(path string) bool {
	return fw.config.SkipHidden && strings.HasPrefix(filepath.Base(path), ".")
}

// shouldProcessEvent determines if an event should trigger regeneration.
func (fw *FileWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		// removals, renames and attribute changes leave nothing to render
		return false
	}
	if fw.single != "" {
		return filepath.Clean(event.Name) == fw.single
	}
	if fw.hidden(event.Name) {
		return false
	}
	return fw.config.Accept == nil || fw.config.Accept(event.Name)
}
