// Package storage stores catalog icons in S3, Cloud Storage or on local disk.
package storage

import (
	"context"
	"fmt"
	"io"
)

type StorageProvider interface {
	Upload(ctx context.Context, request *UploadRequest) (*UploadResponse, error)
	Delete(ctx context.Context, key string) error
	FileExists(ctx context.Context, key string) (bool, error)
}

type UploadRequest struct {
	Key          string            `json:"key"`
	Reader       io.Reader         `json:"-"`
	ContentType  string            `json:"contentType"`
	Size         int64             `json:"size"`
	Metadata     map[string]string `json:"metadata"`
	CacheControl string            `json:"cacheControl"`
}

type UploadResponse struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
	ETag string `json:"etag,omitempty"`
}

type Options struct {
	Provider string

	LocalPath string
	LocalURL  string

	AWSRegion string
	AWSBucket string

	GCPBucket          string
	GCPCredentialsFile string

	CDNDomain string
}

// New builds the provider named by opts.Provider ("local", "s3" or "gcs").
func New(ctx context.Context, opts Options) (StorageProvider, error) {
	switch opts.Provider {
	case "", "local":
		return NewLocalStorage(opts.LocalPath, opts.LocalURL)
	case "s3", "aws":
		return NewAWSS3Storage(ctx, opts.AWSRegion, opts.AWSBucket, opts.CDNDomain)
	case "gcs", "gcp":
		return NewGCPStorage(ctx, opts.GCPBucket, opts.GCPCredentialsFile, opts.CDNDomain)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", opts.Provider)
	}
}
