package logutil

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

const (
	logFileName  = "clarity_debug.log"
	maxSizeBytes = 10 * 1024 * 1024 // 10 MB
	maxArchives  = 3
)

var (
	mu      sync.Mutex
	current *RotatingWriter
)

// Setup enables file logging in the working directory with size-based rotation
// (10MB, max 3 archives). When disabled, logs are discarded to keep stdout clean.
func Setup(enableFileLogging bool) {
	setup(".", enableFileLogging)
}

// setup replaces the log output, closing the log file a previous call opened.
func setup(dir string, enableFileLogging bool) {
	mu.Lock()
	defer mu.Unlock()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	var out io.Writer = io.Discard
	var next *RotatingWriter
	if enableFileLogging {
		w, err := NewRotatingWriter(dir, maxSizeBytes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		} else {
			out, next = w, w
		}
	}
	log.SetOutput(out)
	if current != nil {
		_ = current.Close()
	}
	current = next
}

// RotatingWriter appends to clarity_debug.log in dir and rotates it to .1, .2, .3
// once a write would push it past maxSize.
type RotatingWriter struct {
	mu      sync.Mutex
	dir     string
	maxSize int64
	f       *os.File
}

func NewRotatingWriter(dir string, maxSize int64) (*RotatingWriter, error) {
	w := &RotatingWriter{dir: dir, maxSize: maxSize}
	w.rotateIfNeeded(0)
	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	// naive rotation check per write
	if st, err := w.f.Stat(); err == nil && st.Size()+int64(len(p)) > w.maxSize {
		_ = w.f.Close()
		w.rotateIfNeeded(int64(len(p)))
		if err := w.open(); err != nil {
			return 0, err
		}
	}
	return w.f.Write(p)
}

func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Close()
}

func (w *RotatingWriter) open() error {
	f, err := os.OpenFile(w.path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return err
	}
	w.f = f
	return nil
}

func (w *RotatingWriter) rotateIfNeeded(incoming int64) {
	// If base would exceed max size, rotate: .1, .2, .3 (oldest discarded)
	st, err := os.Stat(w.path())
	if err != nil || st.Size() == 0 || st.Size()+incoming <= w.maxSize {
		return
	}
	_ = os.Remove(w.archiveName(maxArchives))
	for i := maxArchives - 1; i >= 1; i-- {
		_ = os.Rename(w.archiveName(i), w.archiveName(i+1))
	}
	_ = os.Rename(w.path(), w.archiveName(1))
}

func (w *RotatingWriter) path() string { return filepath.Join(w.dir, logFileName) }

func (w *RotatingWriter) archiveName(n int) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s.%d", logFileName, n))
}
