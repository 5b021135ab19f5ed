// Package mmap maps local dataset files read-only.
//
// The local blob store hands mapped bytes to the dataset decoder so that
// decompression reads straight from the page cache:
//
//	m, err := mmap.Open("adverse-events.json.zst")
//	if err != nil {
//		return err
//	}
//	defer m.Close()
//	_ = m.Advise(mmap.AccessSequential)
//	raw := m.Bytes()
//
// On Unix Advise maps to madvise(2). On Windows it does nothing.
package mmap
