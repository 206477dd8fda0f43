package server

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/clubadmin/clubadmin/internal/debounce"
)

const (
	devWatcherInterval = 500 * time.Millisecond
	// editors write files in several steps, wait for them to settle
	devWatcherSettle = 300 * time.Millisecond
)

// startDevWatcher polls roots for changes and tells all reload subscribers
// once the files stopped changing. The returned func stops the watcher.
func startDevWatcher(notifier *reloadNotifier, roots ...string) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())

	reload := debounce.New(devWatcherSettle, notifier.Notify)

	go func() {
		defer reload.Cancel()

		lastFingerprint, err := directoriesFingerprint(roots)
		if err != nil {
			slog.Error("Dev watcher failed to read directories", slog.Any("roots", roots), slog.Any("err", err))
		}

		ticker := time.NewTicker(devWatcherInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fp, err := directoriesFingerprint(roots)
				if err != nil {
					slog.Error("Dev watcher failed to scan directories", slog.Any("roots", roots), slog.Any("err", err))
					continue
				}

				if fp != lastFingerprint {
					lastFingerprint = fp
					reload.Trigger()
				}
			}
		}
	}()

	return cancel
}

// directoriesFingerprint hashes path, size and modification time of every
// file below roots.
func directoriesFingerprint(roots []string) (string, error) {
	hasher := sha1.New()

	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(hasher, "%s:%d:%d;", path, info.ModTime().UnixNano(), info.Size())
			return err
		})
		if err != nil {
			return "", err
		}
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
