// Package watch re-runs build tasks when site sources change.
//
// Each source category (stylesheets, templates, posts, images) is a
// directory plus file name globs mapped to the task that rebuilds it.
// Events are debounced and runs never overlap: changes made during a run
// are batched into a single follow-up run.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/tasks"
)

// RunFunc runs tasks after a change.
type RunFunc func(ctx context.Context, ts ...tasks.Task) error

// Rule maps files under Dir whose base name matches one of Patterns to Task.
type Rule struct {
	Name     string
	Dir      string
	Patterns []string
	Task     tasks.Task
}

// Match reports whether path (absolute) falls under the rule.
func (r Rule) Match(path string) bool {
	if !fileutil.IsWithin(path, r.Dir) {
		return false
	}
	base := filepath.Base(path)
	for _, p := range r.Patterns {
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
	}
	return false
}

// Rules derives the watch rules from cfg, with absolute directories.
func Rules(cfg *config.Config) ([]Rule, error) {
	stylesDir := cfg.Styles.Source
	if !fileutil.DirExists(stylesDir) {
		stylesDir = filepath.Dir(stylesDir)
	}

	rules := []Rule{
		{Name: "styles", Dir: stylesDir, Patterns: []string{"*.scss", "*.sass", "*.css"}, Task: tasks.Styles},
		{Name: "templates", Dir: cfg.Templates.Dir, Patterns: []string{"*.html"}, Task: tasks.Posts},
		{Name: "posts", Dir: cfg.Input.PostsDir, Patterns: []string{"*.md", "*.markdown"}, Task: tasks.Posts},
		{Name: "images", Dir: cfg.Assets.Images, Patterns: []string{"*"}, Task: tasks.Images},
	}
	for i := range rules {
		abs, err := filepath.Abs(rules[i].Dir)
		if err != nil {
			return nil, fmt.Errorf("resolving %s dir: %w", rules[i].Name, err)
		}
		rules[i].Dir = abs
	}
	return rules, nil
}

// Watcher watches source directories and runs the matching tasks.
type Watcher struct {
	rules    []Rule
	ignore   []string
	debounce time.Duration
	run      RunFunc
	logger   *slog.Logger

	mu      sync.Mutex
	pending []tasks.Task
	timer   *time.Timer
	request chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithDebounce sets how long the watcher waits for changes to settle.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithIgnore excludes directories, typically the output directory.
func WithIgnore(dirs ...string) Option {
	return func(w *Watcher) {
		for _, d := range dirs {
			if abs, err := filepath.Abs(d); err == nil {
				w.ignore = append(w.ignore, abs)
			}
		}
	}
}

// New creates a Watcher over rules.
func New(rules []Rule, run RunFunc, opts ...Option) *Watcher {
	w := &Watcher{
		rules:    rules,
		debounce: config.DefaultDebounce,
		run:      run,
		logger:   slog.New(slog.DiscardHandler),
		request:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is done. Task failures are logged, not returned:
// the next change gets another chance.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fw.Close() }()

	for _, dir := range w.roots() {
		w.addDirsRecursive(fw, dir)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.worker(ctx)
	}()
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fw, ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// roots returns the existing rule directories, nested ones dropped.
func (w *Watcher) roots() []string {
	var dirs []string
	for _, r := range w.rules {
		if fileutil.DirExists(r.Dir) && !slices.Contains(dirs, r.Dir) {
			dirs = append(dirs, r.Dir)
		}
	}
	slices.Sort(dirs)
	var roots []string
	for _, d := range dirs {
		if len(roots) > 0 && fileutil.IsWithin(d, roots[len(roots)-1]) {
			continue
		}
		roots = append(roots, d)
	}
	return roots
}

func (w *Watcher) addDirsRecursive(fw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && fileutil.IsHidden(d.Name()) || w.ignored(path) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			w.logger.Warn("watch add failed", "dir", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event) {
	if ev.Op == fsnotify.Chmod || shouldIgnoreEvent(ev.Name) {
		return
	}
	path, err := filepath.Abs(ev.Name)
	if err != nil || w.ignored(path) {
		return
	}
	if ev.Op.Has(fsnotify.Create) {
		if fi, err := os.Stat(path); err == nil && fi.IsDir() {
			w.addDirsRecursive(fw, path)
			return
		}
	}

	ts := w.Classify(path)
	if len(ts) == 0 {
		return
	}
	w.logger.Debug("file change detected", "path", ev.Name, "op", ev.Op.String(), "tasks", ts)
	w.trigger(ts...)
}

// Classify returns the tasks a change to path (absolute) calls for.
func (w *Watcher) Classify(path string) []tasks.Task {
	if w.ignored(path) {
		return nil
	}
	var ts []tasks.Task
	for _, r := range w.rules {
		if r.Match(path) && !slices.Contains(ts, r.Task) {
			ts = append(ts, r.Task)
		}
	}
	return ts
}

func (w *Watcher) ignored(path string) bool {
	for _, d := range w.ignore {
		if fileutil.IsWithin(path, d) {
			return true
		}
	}
	return false
}

// trigger queues tasks and restarts the debounce timer.
func (w *Watcher) trigger(ts ...tasks.Task) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, t := range ts {
		if !slices.Contains(w.pending, t) {
			w.pending = append(w.pending, t)
		}
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.request <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

// worker runs queued tasks one batch at a time. Requests arriving during a
// run wait in the channel and pick up everything queued meanwhile.
func (w *Watcher) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.request:
			w.mu.Lock()
			ts := w.pending
			w.pending = nil
			w.mu.Unlock()
			if len(ts) == 0 {
				continue
			}

			w.logger.Info("change detected, rebuilding", "tasks", ts)
			if err := w.run(ctx, ts...); err != nil && ctx.Err() == nil {
				w.logger.Warn("rebuild failed", "error", err)
			}
		}
	}
}

// shouldIgnoreEvent filters hidden files and editor temp or swap files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."),
		strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasSuffix(base, ".tmp"),
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"),
		base == "Thumbs.db":
		return true
	}
	return false
}
