// Package fetch localizes model artifact sources to local paths. Sources are
// dispatched on URI scheme: plain paths and file:// URIs are copied with
// otiai10/copy, s3:// URIs are downloaded object by object.
package fetch

import (
	"context"
	"fmt"
	"strings"
	"sync"

	cp "github.com/otiai10/copy"
)

const (
	// LocalPrefix marks an explicit local filesystem source.
	LocalPrefix = "file://"
	// S3Prefix marks an S3 object or prefix source.
	S3Prefix = "s3://"
)

// S3Options configure S3 access for s3:// sources. Zero values defer to the
// default AWS credential and region chain.
type S3Options struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Fetcher copies artifact sources into local destinations. The zero-cost
// local path is the common case; the S3 client is built lazily on first use.
type Fetcher struct {
	s3opts S3Options

	mu  sync.Mutex
	s3c s3API
}

// New returns a Fetcher with the given S3 options.
func New(opts S3Options) *Fetcher {
	return &Fetcher{s3opts: opts}
}

// Fetch makes dst an exact copy of the tree (or single file) at src.
// dst must not already exist for directory sources.
func (f *Fetcher) Fetch(ctx context.Context, src, dst string) error {
	switch {
	case strings.HasPrefix(src, S3Prefix):
		return f.fetchS3(ctx, src, dst)
	case strings.HasPrefix(src, LocalPrefix):
		return f.copyLocal(strings.TrimPrefix(src, LocalPrefix), dst)
	default:
		return f.copyLocal(src, dst)
	}
}

func (f *Fetcher) copyLocal(src, dst string) error {
	if err := cp.Copy(src, dst); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return nil
}
