// Package mmap maps corpus files into memory read-only.
//
//	m, err := mmap.Open("docs.csv")
//	if err != nil { ... }
//	defer m.Close()
//	m.Advise(mmap.AccessSequential)
//	r := m.Reader()
//
// Unix platforms use mmap(2) and madvise(2). Windows uses
// CreateFileMapping/MapViewOfFile and ignores access hints.
//
// Close is idempotent. Callers must not use Bytes or a Reader after Close.
package mmap
