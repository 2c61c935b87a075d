// Package mmap maps chunk files of a local blob store read-only into memory.
//
//	m, err := mmap.Open("dictionary/chunk-000003")
//	if err != nil { ... }
//	defer m.Close()
//
//	n, err := m.ReadAt(buf, off)
//
// On Unix the file is mapped with mmap(2) and madvise(2) hints are honored.
// Other platforms read the whole file into memory and ignore hints.
//
// A Mapping is safe for concurrent reads. Close is idempotent; callers must
// not use slices returned by Bytes after Close.
package mmap
