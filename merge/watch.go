package merge

import (
	"context"
	"fmt"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/jsphweid/scorexml/file"
	"github.com/jsphweid/scorexml/logger"
)

// Watch calls run once, then again whenever a page file in dir is written,
// created, removed or renamed. Bursts of events within delay collapse into
// one call. ignore and its .mxl sibling are never treated as pages, so run
// may write into dir.
// Watch returns when ctx is done.
func Watch(ctx context.Context, dir, ignore string, suffixes []string, delay time.Duration, run func()) error {
	log := logger.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	log.Info("watching pages", "dir", dir, "suffixes", suffixes)

	debounced := debounce.New(delay)
	run()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isPageEvent(event, ignore, suffixes) {
				continue
			}
			log.Debug("page changed", "path", event.Name, "op", event.Op.String())
			debounced(run)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("file watcher error", "error", err)
		}
	}
}

func isPageEvent(event fsnotify.Event, ignore string, suffixes []string) bool {
	if !file.HasPageSuffix(event.Name, suffixes...) {
		return false
	}
	if file.IsOutput(event.Name, ignore) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
