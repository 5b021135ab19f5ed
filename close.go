package trialfacet

// Close releases the indexed collection and cached results held by this service.
// Subsequent calls fail with ErrClosed. Close is idempotent.
func (f *Facets[E]) Close() error {
	if f == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.coll = nil
	f.results.Purge()
	return nil
}
