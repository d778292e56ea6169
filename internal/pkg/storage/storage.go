package storage

import (
	"fmt"
	"strings"
)

// URIResolver turns a storage path from an upload (e.g.
// "projects/abc/photo.jpg") into a URI the vision service can fetch.
type URIResolver interface {
	ResolveURI(storagePath string) string
}

// BucketResolver resolves paths against a cloud storage bucket.
type BucketResolver struct {
	bucket string
}

func NewBucketResolver(bucket string) *BucketResolver {
	return &BucketResolver{bucket: bucket}
}

func (r *BucketResolver) ResolveURI(storagePath string) string {
	return fmt.Sprintf("gs://%s/%s", r.bucket, strings.TrimPrefix(storagePath, "/"))
}

// LocalResolver resolves paths against a static file base URL. Used in
// development where uploads are served from local disk.
type LocalResolver struct {
	baseURL string
}

func NewLocalResolver(baseURL string) *LocalResolver {
	return &LocalResolver{baseURL: strings.TrimRight(baseURL, "/")}
}

func (r *LocalResolver) ResolveURI(storagePath string) string {
	return r.baseURL + "/" + strings.TrimPrefix(storagePath, "/")
}
