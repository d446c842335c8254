package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/hupe1980/sphkmeans/internal/fs"
	"github.com/hupe1980/sphkmeans/internal/mmap"
)

// LocalStore implements Store using the local file system.
// Names are paths relative to the root; absolute names are used as they are.
type LocalStore struct {
	root string
	fs   fs.FileSystem
}

// NewLocalStore creates a new LocalStore rooted at the given directory.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root, fs: fs.Default}
}

func (s *LocalStore) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.root, name)
}

// Open maps the file into memory for a sequential read.
func (s *LocalStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := mmap.Open(s.path(name))
	if err != nil {
		return nil, err
	}
	_ = m.Advise(mmap.AccessSequential)
	return &localReader{Reader: m.Reader(), m: m}, nil
}

type localReader struct {
	*bytes.Reader
	m *mmap.Mapping
}

func (r *localReader) Close() error {
	return r.m.Close()
}

// Create writes to a temporary file next to the target and renames it into
// place on Close, so readers never observe a partial file.
func (s *LocalStore) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.path(name)
	dir := filepath.Dir(path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	f, err := s.fs.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, err
	}
	return &localWriter{fs: s.fs, f: f, path: path}, nil
}

type localWriter struct {
	fs     fs.FileSystem
	f      fs.File
	path   string
	closed atomic.Bool
}

func (w *localWriter) Write(p []byte) (int, error) {
	return w.f.Write(p)
}

func (w *localWriter) Close() error {
	if !w.closed.CompareAndSwap(false, true) {
		return os.ErrClosed
	}
	err := w.f.Sync()
	if cerr := w.f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = w.fs.Rename(w.f.Name(), w.path)
	}
	if err != nil {
		return errors.Join(err, w.fs.Remove(w.f.Name()))
	}
	return nil
}

// Abort removes the temporary file without publishing it.
func (w *localWriter) Abort() error {
	if !w.closed.CompareAndSwap(false, true) {
		return nil
	}
	return errors.Join(w.f.Close(), w.fs.Remove(w.f.Name()))
}
