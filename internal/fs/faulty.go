package fs

import (
	"errors"
	"os"
	"sync"
)

// ErrInjected is returned by injected faults without their own error.
var ErrInjected = errors.New("injected fault error")

// Fault defines the failure behavior of a FaultyFS.
type Fault struct {
	FailAfterBytes int64 // Fail writes past this many bytes per file. 0 disables.
	FailOnSync     bool
	FailOnRename   bool
	Err            error
}

func (f Fault) err() error {
	if f.Err != nil {
		return f.Err
	}
	return ErrInjected
}

// FaultyFS is a FileSystem wrapper that injects errors.
type FaultyFS struct {
	FS    FileSystem
	fault Fault

	mu      sync.Mutex
	written int64
	removed []string
}

// NewFaultyFS wraps fs (or Default if nil) with the given fault.
func NewFaultyFS(fs FileSystem, fault Fault) *FaultyFS {
	if fs == nil {
		fs = Default
	}
	return &FaultyFS{FS: fs, fault: fault}
}

// Written returns the bytes written through all files.
func (f *FaultyFS) Written() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written
}

// Removed returns the names passed to Remove.
func (f *FaultyFS) Removed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.removed...)
}

func (f *FaultyFS) CreateTemp(dir, pattern string) (File, error) {
	file, err := f.FS.CreateTemp(dir, pattern)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, fs: f}, nil
}

func (f *FaultyFS) Rename(oldpath, newpath string) error {
	if f.fault.FailOnRename {
		return f.fault.err()
	}
	return f.FS.Rename(oldpath, newpath)
}

func (f *FaultyFS) Remove(name string) error {
	f.mu.Lock()
	f.removed = append(f.removed, name)
	f.mu.Unlock()
	return f.FS.Remove(name)
}

func (f *FaultyFS) MkdirAll(path string, perm os.FileMode) error {
	return f.FS.MkdirAll(path, perm)
}

type faultyFile struct {
	File
	fs      *FaultyFS
	written int64
}

func (ff *faultyFile) Write(p []byte) (int, error) {
	limit := ff.fs.fault.FailAfterBytes
	if limit > 0 && ff.written+int64(len(p)) > limit {
		return 0, ff.fs.fault.err()
	}

	n, err := ff.File.Write(p)
	ff.written += int64(n)

	ff.fs.mu.Lock()
	ff.fs.written += int64(n)
	ff.fs.mu.Unlock()
	return n, err
}

func (ff *faultyFile) Sync() error {
	if ff.fs.fault.FailOnSync {
		return ff.fs.fault.err()
	}
	return ff.File.Sync()
}
