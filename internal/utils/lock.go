package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFileName = "crawler.lock"

// CrawlLock guards against overlapping crawl runs over the same output
// directory. It is advisory: the serve layer checks it before kicking off a
// background crawl, and the crawl command holds it for the whole run.
type CrawlLock struct {
	lock *flock.Flock
	path string
}

// NewCrawlLock creates a lock rooted in the given output directory.
func NewCrawlLock(outputDir string) (*CrawlLock, error) {
	absDir, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("could not resolve output dir: %w", err)
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create output dir: %w", err)
	}
	lockPath := filepath.Join(absDir, lockFileName)
	return &CrawlLock{
		lock: flock.New(lockPath),
		path: lockPath,
	}, nil
}

// TryLock attempts to acquire the lock without waiting. It returns false when
// another crawl currently holds it.
func (l *CrawlLock) TryLock() (bool, error) {
	locked, err := l.lock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock on %s: %w", l.path, err)
	}
	return locked, nil
}

// Lock acquires the lock, waiting if necessary.
// It will print a message if it has to wait.
func (l *CrawlLock) Lock() error {
	locked, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", l.path, err)
	}

	if !locked {
		fmt.Fprintf(os.Stderr, "Another shopscope crawl is running, waiting for it to finish...\n")
		if err := l.lock.Lock(); err != nil {
			return fmt.Errorf("failed to acquire lock on %s after waiting: %w", l.path, err)
		}
	}
	return nil
}

// Unlock releases the lock.
func (l *CrawlLock) Unlock() error {
	if err := l.lock.Unlock(); err != nil {
		// Suppress error if the lock file doesn't exist, as it means we don't hold the lock.
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	return nil
}
