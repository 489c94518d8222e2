// Package instance keeps two simulators from driving the same endpoint.
package instance

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked means another process holds the lock for the endpoint.
var ErrLocked = errors.New("another simulator is attached to this endpoint")

// Lock is a held per-endpoint lock.
type Lock struct {
	fl       *flock.Flock
	endpoint string
}

// Acquire takes the lock for endpoint without blocking. Lock files live in
// dir, which is created if needed.
func Acquire(dir, endpoint string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}

	fl := flock.New(Path(dir, endpoint))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", endpoint, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, endpoint)
	}
	return &Lock{fl: fl, endpoint: endpoint}, nil
}

// Path returns the lock file used for endpoint.
func Path(dir, endpoint string) string {
	sum := sha256.Sum256([]byte(endpoint))
	return filepath.Join(dir, hex.EncodeToString(sum[:8])+".lock")
}

// Endpoint returns the endpoint this lock guards.
func (l *Lock) Endpoint() string { return l.endpoint }

// Release unlocks. The lock file is left in place for reuse.
func (l *Lock) Release() error {
	return l.fl.Unlock()
}
