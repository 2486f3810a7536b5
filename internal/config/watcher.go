// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last write before
// reloading.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a config file whenever it changes on disk and publishes
// each successfully validated result on Updates.
//
// The parent directory is watched rather than the file itself so that
// editors which replace the file through a rename are still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	updates  chan *Config

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Watch starts watching path. The returned Watcher runs until ctx is done
// or Close is called.
func Watch(ctx context.Context, path string, debounce time.Duration) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(absPath), err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		path:     absPath,
		debounce: debounce,
		watcher:  fsw,
		updates:  make(chan *Config, 1),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go w.run(ctx)
	return w, nil
}

// Updates delivers reloaded configurations. It is closed when the watcher stops.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		w.cancel()
		<-w.done
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	defer close(w.updates)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("CONFIG_WATCH_ERROR | path=%s err=%v", w.path, err)

		case <-fire:
			fire = nil
			cfg, err := LoadFromPath(w.path)
			if err != nil {
				log.Printf("CONFIG_RELOAD_FAILED | path=%s err=%v", w.path, err)
				continue
			}
			log.Printf("CONFIG_RELOADED | path=%s model=%s", w.path, cfg.Generation.Model)
			w.publish(ctx, cfg)
		}
	}
}

// publish replaces any unread update so the consumer always sees the latest.
func (w *Watcher) publish(ctx context.Context, cfg *Config) {
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- cfg:
	case <-ctx.Done():
	}
}
