package predictor

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"housingd/internal/artifact"
	"housingd/internal/common/fsutil"
)

// defaultWatchDebounce coalesces the burst of events a single artifact
// write produces.
const defaultWatchDebounce = 500 * time.Millisecond

// Watch reloads the model whenever an artifact under the configured model
// path is created or rewritten. It blocks until ctx is done. A failed
// reload keeps the current model.
func (p *Predictor) Watch(ctx context.Context) error {
	return p.watch(ctx, defaultWatchDebounce)
}

func (p *Predictor) watch(ctx context.Context, debounce time.Duration) error {
	abs, err := fsutil.AbsPath(p.modelPath)
	if err != nil {
		return err
	}
	dir, only := abs, ""
	if !fsutil.IsDir(abs) {
		dir, only = filepath.Dir(abs), filepath.Base(abs)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating file watcher")
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return errors.Wrapf(err, "watching %s", dir)
	}
	p.log.Info().Str("dir", dir).Msg("watching model artifacts")

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, only) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
			pending = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			p.log.Warn().Err(err).Msg("file watcher error")
		case <-pending:
			pending = nil
			if err := p.Reload(ctx); err != nil {
				p.log.Warn().Err(err).Msg("reload after change failed; keeping current model")
			}
		}
	}
}

// relevant keeps create/write events on visible artifacts, optionally
// restricted to one file name.
func relevant(ev fsnotify.Event, only string) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return false
	}
	name := filepath.Base(ev.Name)
	if strings.HasPrefix(name, ".") {
		return false
	}
	if only != "" {
		return name == only
	}
	return strings.EqualFold(filepath.Ext(name), artifact.Ext)
}
