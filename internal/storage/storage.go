// Package storage reads source tables and writes listing documents, either in
// S3 or on the local filesystem.
package storage

import (
	"context"
	"errors"
)

var (
	ErrRead        = errors.New("lecture du fichier source impossible")
	ErrOutputWrite = errors.New("écriture du résultat impossible")
)

// Ref locates an object: a bucket (or base directory) and a key inside it.
type Ref struct {
	Bucket string
	Key    string
}

func (r Ref) String() string {
	if r.Bucket == "" {
		return r.Key
	}
	return r.Bucket + "/" + r.Key
}

type Source interface {
	Read(ctx context.Context, ref Ref) ([]byte, error)
}

// Sink stores a whole document in one call; there are no partial writes.
type Sink interface {
	Write(ctx context.Context, ref Ref, body []byte, contentType string) error
}

type Store interface {
	Source
	Sink
}
