package filesystem

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/chorus-search/chorus/internal/logger"
)

// Watch emits the paths of files that change under the configured
// root. The channel closes when ctx is cancelled. Subdirectories are
// watched recursively; directories created while watching are added
// on the fly.
func (c *Connector) Watch(ctx context.Context) (<-chan string, error) {
	if err := c.ValidateCredentials(ctx); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Register the root and every non-hidden subdirectory.
	err = filepath.WalkDir(c.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if path != c.root && strings.HasPrefix(entry.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
	if err != nil {
		watcher.Close()
		return nil, err
	}

	changes := make(chan string)
	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op.Has(fsnotify.Create) {
					// New directories need their own watch.
					if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
						if addErr := watcher.Add(event.Name); addErr != nil {
							logger.Warn("Cannot watch %s: %v", event.Name, addErr)
						}
						continue
					}
				}
				if c.ignore(filepath.Base(event.Name), nil) {
					continue
				}
				select {
				case changes <- event.Name:
				case <-ctx.Done():
					return
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watcher error under %s: %v", c.root, err)
			}
		}
	}()

	return changes, nil
}
