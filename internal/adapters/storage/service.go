// Package storage provides S3-compatible object storage and the quote
// snapshot archive built on it.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned by DownloadFile for a missing key.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is the subset of object storage the archive needs.
type ObjectStore interface {
	// EnsureBucketExists creates the bucket if it doesn't exist.
	EnsureBucketExists(ctx context.Context, bucket string) error

	// PutObject writes body under key, replacing any previous object.
	PutObject(ctx context.Context, bucket, key, contentType string, body []byte) error

	// DownloadFile downloads a file directly from storage.
	// A missing key returns ErrObjectNotFound. The caller is responsible for closing the returned io.ReadCloser.
	DownloadFile(ctx context.Context, bucket, fileKey string) (io.ReadCloser, error)
}
