// Package mmap maps dataset and snapshot files read-only into memory.
//
// Datasets are read once, front to back, at startup. Mapping the file lets
// the CSV decoder stream straight out of the page cache, and the sequential
// access hint tells the kernel to read ahead aggressively.
//
//	m, err := mmap.Open("dna_sequences.csv", mmap.AccessSequential)
//	if err != nil { ... }
//	defer m.Close()
//	r := m.Reader()
//
// Unix uses mmap(2)/madvise(2); Windows uses CreateFileMapping and ignores
// access hints.
package mmap
