// ABOUTME: Re-reads a dive plan file whenever it is saved
// ABOUTME: Invalid edits are reported and the previous plan stays in effect

package diveplan

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange with the reloaded plan each time the file at path is
// written, until ctx is cancelled. A reload that fails is passed to onError
// and onChange is not called.
//
// The parent directory is watched rather than the file, so editors that save
// by renaming a temp file over the original keep triggering reloads.
func Watch(ctx context.Context, path string, onChange func(*Plan), onError func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			plan, err := Load(target)
			if err != nil {
				if onError != nil {
					onError(err)
				}
				continue
			}
			onChange(plan)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if onError != nil {
				onError(err)
			}
		}
	}
}
