package parallel

// Bands splits [0, n) into contiguous bands of at least minBand items, at
// most one per worker, and calls fn for each band in parallel. A nil pool
// or a single band runs fn on the calling goroutine.
func (p *WorkerPool) Bands(n, minBand int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	bands := 1
	if p != nil && p.IsRunning() {
		bands = min(p.workers, n/max(minBand, 1))
	}
	if bands <= 1 {
		fn(0, n)
		return
	}
	work := make([]func(), bands)
	for i := range bands {
		lo, hi := i*n/bands, (i+1)*n/bands
		work[i] = func() { fn(lo, hi) }
	}
	p.ExecuteAll(work)
}
