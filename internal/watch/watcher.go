// Package watch mirrors a local directory into an Egnyte folder. New and
// modified files are uploaded once they have been quiet for the debounce
// delay; files whose content did not change since the last upload are
// skipped.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/egnyte/pkg/egnyte"
	"github.com/bft-labs/egnyte/pkg/log"
)

// Uploader is the part of egnyte.FilesService the watcher needs.
type Uploader interface {
	CreateOrUpdateFile(ctx context.Context, path string, content io.Reader) (*egnyte.UploadedFile, error)
}

// Config holds configuration for a Watcher.
type Config struct {
	// LocalDir is the directory to watch. Subdirectories are ignored.
	LocalDir string

	// RemoteDir is the Egnyte folder files are uploaded into.
	RemoteDir string

	// Debounce is how long a file must be quiet before it is uploaded.
	// Default: 500 milliseconds
	Debounce time.Duration
}

// Watcher uploads files from Config.LocalDir as they change.
type Watcher struct {
	localDir  string
	remoteDir string
	debounce  time.Duration
	uploader  Uploader
	logger    log.Logger

	mu      sync.Mutex
	closed  bool
	timers  map[string]*time.Timer
	digests map[string]uint64
	wg      sync.WaitGroup
}

// New creates a Watcher. It does not touch the file system until Run.
func New(cfg Config, uploader Uploader, logger log.Logger) (*Watcher, error) {
	if cfg.LocalDir == "" {
		return nil, errors.New("watch: local directory is required")
	}
	if cfg.RemoteDir == "" {
		return nil, errors.New("watch: remote folder is required")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 500 * time.Millisecond
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Watcher{
		localDir:  cfg.LocalDir,
		remoteDir: cfg.RemoteDir,
		debounce:  cfg.Debounce,
		uploader:  uploader,
		logger:    logger,
		timers:    make(map[string]*time.Timer),
		digests:   make(map[string]uint64),
	}, nil
}

// Run uploads the files already in the directory, then keeps uploading
// changes until ctx is cancelled. Pending uploads finish before Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.localDir); err != nil {
		return fmt.Errorf("watch %s: %w", w.localDir, err)
	}

	if err := w.initialSync(ctx); err != nil {
		return err
	}
	w.logger.Info("watching for changes",
		log.String("local", w.localDir),
		log.String("remote", w.remoteDir),
	)

	defer w.stop()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !isRegular(event.Name) {
				continue
			}
			w.schedule(ctx, event.Name)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", log.Err(err))
		}
	}
}

func (w *Watcher) initialSync(ctx context.Context) error {
	entries, err := os.ReadDir(w.localDir)
	if err != nil {
		return fmt.Errorf("read %s: %w", w.localDir, err)
	}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		w.upload(ctx, filepath.Join(w.localDir, e.Name()))
	}
	return nil
}

// schedule (re)arms the debounce timer of localPath.
func (w *Watcher) schedule(ctx context.Context, localPath string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if t, ok := w.timers[localPath]; ok {
		t.Stop()
	}
	w.timers[localPath] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		if w.closed {
			w.mu.Unlock()
			return
		}
		delete(w.timers, localPath)
		w.wg.Add(1)
		w.mu.Unlock()

		defer w.wg.Done()
		w.upload(ctx, localPath)
	})
}

// stop cancels pending timers and waits for running uploads.
func (w *Watcher) stop() {
	w.mu.Lock()
	w.closed = true
	for p, t := range w.timers {
		t.Stop()
		delete(w.timers, p)
	}
	w.mu.Unlock()

	w.wg.Wait()
}

// upload sends localPath unless its content matches the last upload.
// Failures are logged; the next change event tries again.
func (w *Watcher) upload(ctx context.Context, localPath string) {
	remotePath := path.Join(w.remoteDir, filepath.Base(localPath))

	f, err := os.Open(localPath)
	if err != nil {
		w.logger.Warn("open failed", log.String("file", localPath), log.Err(err))
		return
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		w.logger.Warn("read failed", log.String("file", localPath), log.Err(err))
		return
	}
	sum := h.Sum64()

	w.mu.Lock()
	prev, seen := w.digests[localPath]
	w.mu.Unlock()
	if seen && prev == sum {
		w.logger.Debug("unchanged, skipping", log.String("file", localPath))
		return
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		w.logger.Warn("rewind failed", log.String("file", localPath), log.Err(err))
		return
	}

	start := time.Now()
	uploaded, err := w.uploader.CreateOrUpdateFile(ctx, remotePath, f)
	if err != nil {
		w.logger.Error("upload failed",
			log.String("file", localPath),
			log.String("remote", remotePath),
			log.Err(err),
		)
		return
	}

	w.mu.Lock()
	w.digests[localPath] = sum
	w.mu.Unlock()

	w.logger.Info("uploaded",
		log.String("file", localPath),
		log.String("remote", remotePath),
		log.String("checksum", uploaded.Checksum),
		log.Duration("elapsed", time.Since(start)),
	)
}

func isRegular(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}
