package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the config at path whenever it is written or replaced.
// Every successful reload is sent on the first channel; load and watcher
// errors go to the second and watching continues. Both channels close when
// ctx is done.
//
// The parent directory is watched rather than the file so editors that save
// by renaming a temp file over the original are still seen.
func Watch(ctx context.Context, path string) (<-chan Config, <-chan error, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, fmt.Errorf("watch %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, nil, fmt.Errorf("watch %s: %w", path, err)
	}

	cfgC := make(chan Config, 1)
	errC := make(chan error, 1)
	go func() {
		defer close(errC)
		defer close(cfgC)
		defer w.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := Load(abs)
				if err != nil {
					// A half-written file often fails to parse; the next
					// write event retries.
					send(ctx, errC, err)
					continue
				}
				send(ctx, cfgC, cfg)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				send(ctx, errC, err)
			}
		}
	}()

	return cfgC, errC, nil
}

// send delivers v unless ctx ends first.
func send[T any](ctx context.Context, c chan<- T, v T) {
	select {
	case c <- v:
	case <-ctx.Done():
	}
}
