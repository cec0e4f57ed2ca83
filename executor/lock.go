// Copyright 2021, the HERVx contributors.

package executor

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// PullLockTimeout bounds how long a run waits for the shared image
// cache before giving up.
const PullLockTimeout = 10 * time.Minute

// flockRetry is the polling interval while the lock is held elsewhere.
const flockRetry = 250 * time.Millisecond

// lockPath resolves the shared image-pull lock file, from
// HERVX_PULL_LOCK when set.
func lockPath() string {
	if p := os.Getenv("HERVX_PULL_LOCK"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".hervx_pull.lock")
}

// acquireLock takes a cooperative exclusive lock on path, polling with
// LOCK_NB until timeout. The caller releases the lock by closing the
// returned file.
func acquireLock(path string, timeout time.Duration) (*os.File, error) {
	fid, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0666)
	if err != nil {
		return nil, fmt.Errorf("opening lock file %s: %w", path, err)
	}

	deadline := time.Now().Add(timeout)
	for {
		err = unix.Flock(int(fid.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return fid, nil
		}
		if err != unix.EWOULDBLOCK {
			fid.Close()
			return nil, fmt.Errorf("locking %s: %w", path, err)
		}
		if !time.Now().Before(deadline) {
			fid.Close()
			return nil, fmt.Errorf("timed out after %s waiting for image cache lock %s", timeout, path)
		}
		time.Sleep(flockRetry)
	}
}
