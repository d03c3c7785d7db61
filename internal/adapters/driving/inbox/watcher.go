// Package inbox watches a directory and approves new photos into the cart.
// It is the file-drop acquisition path: any JPEG, PNG or WebP file written
// into the folder goes through the same edit session as an interactive capture.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/quickpass/internal/core/domain"
	"github.com/custodia-labs/quickpass/internal/core/ports/driving"
	"github.com/custodia-labs/quickpass/internal/logger"
)

// DefaultSettle is how long a file must stay quiet before it is imported.
const DefaultSettle = 300 * time.Millisecond

// ErrMissingImporter is returned when no importer is provided.
var ErrMissingImporter = errors.New("inbox: importer is required")

// Options configures what each dropped photo is approved as.
type Options struct {
	// ServiceID is the product every photo is added as.
	ServiceID string

	// Country is resolved to the preset, as if typed in the editor.
	Country string

	// Settle delays the import until writes to the file stop.
	// Zero uses DefaultSettle.
	Settle time.Duration
}

// Result reports one processed file.
type Result struct {
	Path   string
	Import driving.ImportResult
	Err    error
}

// Watcher imports image files created in a directory.
type Watcher struct {
	dir      string
	importer driving.PhotoImporter
	opts     Options

	mu      sync.Mutex
	pending map[string]*time.Timer
	done    map[string]fileStamp
	watcher *fsnotify.Watcher
}

// fileStamp identifies one version of a file so rewrites are imported again
// but duplicate events for the same write are not.
type fileStamp struct {
	size    int64
	modTime time.Time
}

// New creates a watcher for dir.
func New(dir string, importer driving.PhotoImporter, opts Options) (*Watcher, error) {
	if importer == nil {
		return nil, ErrMissingImporter
	}
	if opts.Settle <= 0 {
		opts.Settle = DefaultSettle
	}
	return &Watcher{
		dir:      dir,
		importer: importer,
		opts:     opts,
		pending:  make(map[string]*time.Timer),
		done:     make(map[string]fileStamp),
	}, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Watch starts watching and returns a channel of results.
// The channel is closed when ctx is cancelled or the watcher fails.
func (w *Watcher) Watch(ctx context.Context) (<-chan Result, error) {
	info, err := os.Stat(w.dir)
	if err != nil {
		return nil, fmt.Errorf("inbox directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, w.dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", w.dir, err)
	}

	w.mu.Lock()
	w.watcher = fsw
	w.mu.Unlock()

	ready := make(chan string, 16)
	results := make(chan Result, 16)

	go w.loop(ctx, fsw, ready, results)

	logger.Info("watching %s for new photos", w.dir)
	return results, nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, ready chan string, results chan<- Result) {
	defer close(results)
	defer w.stopPending()
	defer fsw.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if path, ok := w.handleFsEvent(event); ok {
				w.schedule(ctx, path, ready)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("inbox watcher: %v", err)

		case path := <-ready:
			res, skip := w.process(ctx, path)
			if skip {
				continue
			}
			select {
			case results <- res:
			case <-ctx.Done():
				return
			}
		}
	}
}

// handleFsEvent returns the path to import for create and write events on
// visible image files.
func (w *Watcher) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if !IsImageFile(event.Name) {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return event.Name, true
}

// schedule (re)starts the settle timer for path.
func (w *Watcher) schedule(ctx context.Context, path string, ready chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.opts.Settle, func() {
		select {
		case ready <- path:
		case <-ctx.Done():
		}
	})
}

// process imports path unless this exact version was already imported.
func (w *Watcher) process(ctx context.Context, path string) (Result, bool) {
	w.mu.Lock()
	delete(w.pending, path)
	w.mu.Unlock()

	info, err := os.Stat(path)
	if err != nil {
		// Removed before it settled.
		return Result{}, true
	}
	stamp := fileStamp{size: info.Size(), modTime: info.ModTime()}

	w.mu.Lock()
	prev, seen := w.done[path]
	w.mu.Unlock()
	if seen && prev == stamp {
		return Result{}, true
	}

	res := Result{Path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("%w: read %s: %w", domain.ErrAcquisition, path, err)
		return res, false
	}

	res.Import, res.Err = w.importer.Import(ctx, driving.ImportRequest{
		Data:      data,
		Mode:      domain.CaptureInbox,
		ServiceID: w.opts.ServiceID,
		Country:   w.opts.Country,
	})

	w.mu.Lock()
	w.done[path] = stamp
	w.mu.Unlock()

	if res.Err != nil {
		logger.Warn("inbox: %s not imported: %v", filepath.Base(path), res.Err)
	} else {
		logger.Debug("inbox: %s added as %s", filepath.Base(path), res.Import.Item.UniqueID)
	}
	return res, false
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}

// Close stops the underlying file watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher == nil {
		return nil
	}
	err := w.watcher.Close()
	w.watcher = nil
	return err
}

// IsImageFile reports whether name looks like a visible JPEG, PNG or WebP file.
func IsImageFile(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	default:
		return false
	}
}
