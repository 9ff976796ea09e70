package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/tasks"
)

// Notes:
// - Classification and batching are tested without fsnotify.
// - TestWatcher_Run uses the real fsnotify backend on a temp dir, with a
//   short debounce and generous deadlines.

// recorder is a RunFunc that records each batch.
type recorder struct {
	mu      sync.Mutex
	batches [][]tasks.Task
	calls   chan struct{}
	block   chan struct{}
}

func newRecorder() *recorder {
	return &recorder{calls: make(chan struct{}, 16)}
}

func (r *recorder) run(ctx context.Context, ts ...tasks.Task) error {
	r.mu.Lock()
	r.batches = append(r.batches, slices.Clone(ts))
	r.mu.Unlock()
	r.calls <- struct{}{}
	if r.block != nil {
		<-r.block
	}
	return nil
}

func (r *recorder) snapshot() [][]tasks.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.batches)
}

func waitCall(t *testing.T, r *recorder) {
	t.Helper()
	select {
	case <-r.calls:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a run")
	}
}

func siteRules(t *testing.T) ([]Rule, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Input.PostsDir = dir
	cfg.Output.Dir = filepath.Join(dir, "www")
	cfg.Templates.Dir = filepath.Join(dir, "templates")
	cfg.Styles.Source = filepath.Join(dir, "scss", "main.scss")
	cfg.Assets.Images = filepath.Join(dir, "images")

	rules, err := Rules(cfg)
	if err != nil {
		t.Fatalf("Rules() error = %v", err)
	}
	return rules, dir
}

// ---------------------------------------------------------------------------
// TestClassify
// ---------------------------------------------------------------------------

func TestClassify(t *testing.T) {
	t.Parallel()

	rules, dir := siteRules(t)
	w := New(rules, nil, WithIgnore(filepath.Join(dir, "www")))

	tests := []struct {
		path string
		want []tasks.Task
	}{
		{"scss/main.scss", []tasks.Task{tasks.Styles}},
		{"scss/_vars.scss", []tasks.Task{tasks.Styles}},
		{"templates/a-post.html", []tasks.Task{tasks.Posts}},
		{"a.md", []tasks.Task{tasks.Posts}},
		{"2024/trip.markdown", []tasks.Task{tasks.Posts}},
		{"images/logo.png", []tasks.Task{tasks.Images}},
		{"images/notes.md", []tasks.Task{tasks.Posts, tasks.Images}},
		{"www/a.html", nil},
		{"www/draft.md", nil},
		{"README.txt", nil},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			got := w.Classify(filepath.Join(dir, filepath.FromSlash(tt.path)))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Classify(%s) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestRules_StyleDirectorySource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cssDir := filepath.Join(dir, "css")
	if err := os.Mkdir(cssDir, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.Styles.Source = cssDir

	rules, err := Rules(cfg)
	if err != nil {
		t.Fatalf("Rules() error = %v", err)
	}
	if rules[0].Dir != cssDir {
		t.Errorf("styles dir = %q, want %q", rules[0].Dir, cssDir)
	}
}

func TestShouldIgnoreEvent(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"post.md":            false,
		".post.md.swp":       true,
		"post.md~":           true,
		"#post.md#":          true,
		".a.html-123.tmp":    true,
		"images/Thumbs.db":   true,
		"scss/_partial.scss": false,
	}
	for in, want := range tests {
		if got := shouldIgnoreEvent(in); got != want {
			t.Errorf("shouldIgnoreEvent(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRoots_DropsNested(t *testing.T) {
	t.Parallel()

	rules, dir := siteRules(t)
	for _, sub := range []string{"templates", "images"} {
		if err := os.Mkdir(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	w := New(rules, nil)
	if got := w.roots(); !slices.Equal(got, []string{dir}) {
		t.Errorf("roots() = %v, want [%s]", got, dir)
	}
}

// ---------------------------------------------------------------------------
// TestWatcher_Batching - Debounce and no overlapping runs
// ---------------------------------------------------------------------------

func TestWatcher_DebounceCoalesces(t *testing.T) {
	t.Parallel()

	rec := newRecorder()
	w := New(nil, rec.run, WithDebounce(30*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.worker(ctx)

	w.trigger(tasks.Posts)
	w.trigger(tasks.Styles)
	w.trigger(tasks.Posts)
	waitCall(t, rec)

	batches := rec.snapshot()
	if len(batches) != 1 || !slices.Equal(batches[0], []tasks.Task{tasks.Posts, tasks.Styles}) {
		t.Errorf("batches = %v, want [[posts styles]]", batches)
	}
}

func TestWatcher_ChangesDuringRunQueueOneFollowUp(t *testing.T) {
	t.Parallel()

	rec := newRecorder()
	rec.block = make(chan struct{})
	w := New(nil, rec.run, WithDebounce(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.worker(ctx)

	w.trigger(tasks.Posts)
	waitCall(t, rec) // first run is now blocked

	w.trigger(tasks.Images)
	time.Sleep(30 * time.Millisecond)
	w.trigger(tasks.Styles)
	time.Sleep(30 * time.Millisecond)

	rec.block <- struct{}{} // release first run
	waitCall(t, rec)
	rec.block <- struct{}{}

	batches := rec.snapshot()
	if len(batches) != 2 {
		t.Fatalf("ran %d batches, want 2: %v", len(batches), batches)
	}
	if !slices.Equal(batches[1], []tasks.Task{tasks.Images, tasks.Styles}) {
		t.Errorf("follow-up batch = %v, want [images styles]", batches[1])
	}
}

// ---------------------------------------------------------------------------
// TestWatcher_Run - Real filesystem events
// ---------------------------------------------------------------------------

func TestWatcher_Run(t *testing.T) {
	t.Parallel()

	rules, dir := siteRules(t)
	if err := os.MkdirAll(filepath.Join(dir, "www"), 0o755); err != nil {
		t.Fatal(err)
	}

	rec := newRecorder()
	w := New(rules, rec.run,
		WithDebounce(20*time.Millisecond),
		WithIgnore(filepath.Join(dir, "www")),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register directories.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "www", "ignored.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "post.md"), []byte("# Post"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitCall(t, rec)

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	batches := rec.snapshot()
	if !slices.Equal(batches[0], []tasks.Task{tasks.Posts}) {
		t.Errorf("first batch = %v, want [posts]", batches[0])
	}
}
