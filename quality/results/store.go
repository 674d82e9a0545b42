/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/chainguard-dev/clog"
	"google.golang.org/api/option"
)

// ErrNotFound is returned when no results store exists at the location.
var ErrNotFound = errors.New("results store not found")

// Bucket reads and writes objects in remote storage.
type Bucket interface {
	Open(ctx context.Context, bucket, object string) (io.ReadCloser, error)
	Create(ctx context.Context, bucket, object string) (io.WriteCloser, error)
}

// Store loads and saves result documents on local disk or in a Bucket.
type Store struct {
	remote     Bucket
	clientOpts []option.ClientOption
	// client is the Cloud Storage client the Store created itself, if any.
	client *storage.Client
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithBucket sets the backend used for gs:// locations.
func WithBucket(b Bucket) StoreOption {
	return func(s *Store) { s.remote = b }
}

// WithClientOptions configures the Cloud Storage client a Store creates for
// gs:// locations when no Bucket is set.
func WithClientOptions(opts ...option.ClientOption) StoreOption {
	return func(s *Store) { s.clientOpts = append(s.clientOpts, opts...) }
}

// NewStore creates a Store. Without WithBucket, a Cloud Storage client is
// created on first use of a gs:// location and released by Close.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads and decodes the results store at location.
func Load(ctx context.Context, location string) (Set, error) {
	s := NewStore()
	defer s.Close()
	return s.Load(ctx, location)
}

// Load reads and decodes the results store at location.
func (s *Store) Load(ctx context.Context, location string) (Set, error) {
	data, err := s.Read(ctx, location)
	if err != nil {
		return nil, err
	}
	set, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	clog.FromContext(ctx).With("location", location, "records", len(set)).Debug("Loaded results store")
	return set, nil
}

// Read returns the raw bytes at location. A missing file or object yields ErrNotFound.
func (s *Store) Read(ctx context.Context, location string) ([]byte, error) {
	if bucket, object, ok := ParseGCS(location); ok {
		remote, err := s.bucket(ctx)
		if err != nil {
			return nil, err
		}
		r, err := remote.Open(ctx, bucket, object)
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, location)
		} else if err != nil {
			return nil, fmt.Errorf("opening %s: %w", location, err)
		}
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", location, err)
		}
		return data, nil
	}

	data, err := os.ReadFile(location)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, location)
	} else if err != nil {
		return nil, fmt.Errorf("reading %s: %w", location, err)
	}
	return data, nil
}

// Save writes v as indented JSON to location.
func (s *Store) Save(ctx context.Context, location string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	return s.Write(ctx, location, data)
}

// Write stores data at location, creating parent directories for local paths.
func (s *Store) Write(ctx context.Context, location string, data []byte) error {
	if bucket, object, ok := ParseGCS(location); ok {
		remote, err := s.bucket(ctx)
		if err != nil {
			return err
		}
		w, err := remote.Create(ctx, bucket, object)
		if err != nil {
			return fmt.Errorf("creating %s: %w", location, err)
		}
		if _, err := w.Write(data); err != nil {
			_ = w.Close()
			return fmt.Errorf("writing %s: %w", location, err)
		}
		return w.Close()
	}

	if err := os.MkdirAll(filepath.Dir(location), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return os.WriteFile(location, data, 0o644)
}

// Join appends name to dir, which may be a local directory or a gs:// prefix.
func Join(dir, name string) string {
	if strings.HasPrefix(dir, "gs://") {
		return strings.TrimSuffix(dir, "/") + "/" + name
	}
	return filepath.Join(dir, name)
}

// Close releases the Cloud Storage client created by the Store. A Bucket
// passed with WithBucket is owned by the caller and left open.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client, s.remote = nil, nil
	return err
}

func (s *Store) bucket(ctx context.Context) (Bucket, error) {
	if s.remote == nil {
		client, err := storage.NewClient(ctx, s.clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("creating storage client: %w", err)
		}
		s.client = client
		s.remote = &GCS{Client: client}
	}
	return s.remote, nil
}

// ParseGCS splits gs://bucket/object into its parts.
func ParseGCS(location string) (bucket, object string, ok bool) {
	rest, found := strings.CutPrefix(location, "gs://")
	if !found {
		return "", "", false
	}
	bucket, object, found = strings.Cut(rest, "/")
	if !found || bucket == "" || object == "" {
		return "", "", false
	}
	return bucket, object, true
}

// GCS implements Bucket with Google Cloud Storage.
type GCS struct {
	Client *storage.Client
}

// Open implements Bucket
func (g *GCS) Open(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	return g.Client.Bucket(bucket).Object(object).NewReader(ctx)
}

// Create implements Bucket
func (g *GCS) Create(ctx context.Context, bucket, object string) (io.WriteCloser, error) {
	w := g.Client.Bucket(bucket).Object(object).NewWriter(ctx)
	w.ContentType = "application/json"
	return w, nil
}
