// Package watch re-renders a trace whenever its file is rewritten.
// UPPAAL regenerates .xtr files on every query run, so watching the
// containing directory and re-decoding on change gives a live view of
// the latest trace.
package watch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"xtrace/internal/model"
	"xtrace/internal/render"
	"xtrace/internal/trace"
)

// Runner watches one trace file and renders it against a fixed model.
type Runner struct {
	Model    *model.Model
	Path     string
	Out      io.Writer
	Opts     render.Options
	Debounce time.Duration
	Log      *zap.Logger
}

// Run renders the trace once, then blocks re-rendering on every change
// to the file until the context is cancelled. A trace that fails to
// decode (typically because it is mid-write) is logged and skipped, not
// fatal; the next write gets another chance.
func (r *Runner) Run(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch the directory, not the file: most writers replace the
	// file, which would drop a file-level watch.
	if err := w.Add(filepath.Dir(r.Path)); err != nil {
		return err
	}

	r.renderOnce()

	// Trailing-edge debounce: a burst of events (truncate, partial
	// writes, the final write) marks one render as pending, and the
	// ticker fires it once the burst has gone quiet. The last event of
	// a burst therefore always produces a render.
	interval := r.Debounce
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	target, _ := filepath.Abs(r.Path)
	var pending bool
	var lastEvent time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, _ := filepath.Abs(ev.Name)
			if name != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = true
			lastEvent = time.Now()
		case <-ticker.C:
			if pending && time.Since(lastEvent) >= r.Debounce {
				pending = false
				r.renderOnce()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.Log.Warn("watcher error", zap.Error(err))
		}
	}
}

func (r *Runner) renderOnce() {
	run := uuid.NewString()
	log := r.Log.With(zap.String("run", run), zap.String("path", r.Path))

	f, err := os.Open(r.Path)
	if err != nil {
		log.Warn("open trace", zap.Error(err))
		return
	}
	defer f.Close()

	tr, err := trace.NewDecoder(r.Model, f).Trace()
	if err != nil {
		log.Warn("decode trace", zap.Error(err))
		return
	}
	if err := render.New(r.Model, r.Opts).Trace(r.Out, tr); err != nil {
		log.Warn("render trace", zap.Error(err))
		return
	}
	log.Info("trace rendered", zap.Int("steps", len(tr.Steps)))
}
