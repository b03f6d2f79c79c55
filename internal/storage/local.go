package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

var _ Store = LocalStore{}

// LocalStore maps Ref.Bucket to a base directory; an empty bucket means the
// key is used as a path on its own.
type LocalStore struct{}

func (LocalStore) path(ref Ref) string {
	if ref.Bucket == "" {
		return filepath.FromSlash(ref.Key)
	}
	return filepath.Join(ref.Bucket, filepath.FromSlash(ref.Key))
}

func (l LocalStore) Read(_ context.Context, ref Ref) ([]byte, error) {
	raw, err := os.ReadFile(l.path(ref))
	if err != nil {
		return nil, fmt.Errorf("%s : %v : %w", l.path(ref), err, ErrRead)
	}
	return raw, nil
}

// Write goes through a temp file and a rename so readers never see a partial
// document.
func (l LocalStore) Write(_ context.Context, ref Ref, body []byte, _ string) error {
	target := l.path(ref)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("%s : %v : %w", target, err, ErrOutputWrite)
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), ".listing-*")
	if err != nil {
		return fmt.Errorf("%s : %v : %w", target, err, ErrOutputWrite)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("%s : %v : %w", target, err, ErrOutputWrite)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s : %v : %w", target, err, ErrOutputWrite)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("%s : %v : %w", target, err, ErrOutputWrite)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("%s : %v : %w", target, err, ErrOutputWrite)
	}
	return nil
}
