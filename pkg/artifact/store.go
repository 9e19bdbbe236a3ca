// Package artifact stores generated per-item files such as exported templates
// and markdown summaries.
//
// Locations are URLs understood by github.com/viant/afs. A plain path is
// treated as a local directory; mem://localhost/... keeps everything in
// memory, which tests use.
package artifact

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// Store reads and writes artifacts below a base location.
type Store struct {
	fs   afs.Service
	base string
}

// New returns a Store rooted at base.
func New(base string) *Store {
	return NewWithService(afs.New(), base)
}

// NewWithService returns a Store using fs.
func NewWithService(fs afs.Service, base string) *Store {
	return &Store{
		fs:   fs,
		base: url.Normalize(base, file.Scheme),
	}
}

// Base returns the normalized base URL.
func (s *Store) Base() string {
	return s.base
}

// URL returns the location of the artifact at the joined path elements.
func (s *Store) URL(elems ...string) string {
	return url.Join(s.base, path.Join(elems...))
}

// Exists reports whether the artifact exists.
func (s *Store) Exists(ctx context.Context, elems ...string) (bool, error) {
	u := s.URL(elems...)
	ok, err := s.fs.Exists(ctx, u)
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", u, err)
	}
	return ok, nil
}

// Read returns the content of the artifact.
func (s *Store) Read(ctx context.Context, elems ...string) ([]byte, error) {
	u := s.URL(elems...)
	data, err := s.fs.DownloadWithURL(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", u, err)
	}
	return data, nil
}

// Write stores data, replacing any existing artifact.
func (s *Store) Write(ctx context.Context, data []byte, elems ...string) error {
	u := s.URL(elems...)

	parent, _ := url.Split(u, file.Scheme)
	if ok, _ := s.fs.Exists(ctx, parent); !ok {
		if err := s.fs.Create(ctx, parent, file.DefaultDirOsMode, true); err != nil {
			return fmt.Errorf("failed to create %s: %w", parent, err)
		}
	}

	if err := s.fs.Upload(ctx, u, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", u, err)
	}
	slog.Debug("wrote artifact", "url", u, "bytes", len(data))
	return nil
}

// WriteIfAbsent stores data unless the artifact already exists. It reports
// whether it wrote.
func (s *Store) WriteIfAbsent(ctx context.Context, data []byte, elems ...string) (bool, error) {
	ok, err := s.Exists(ctx, elems...)
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}
	return true, s.Write(ctx, data, elems...)
}
