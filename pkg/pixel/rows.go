package pixel

import "sync"

// Rows splits [0, height) into contiguous bands and calls fn once per band.
// With workers <= 1 it runs fn(0, height) on the calling goroutine. Bands
// must not write outside their own rows.
func Rows(height, workers int, fn func(y0, y1 int)) {
	if height <= 0 {
		return
	}
	if workers <= 1 || height < 2 {
		fn(0, height)
		return
	}
	if workers > height {
		workers = height
	}

	band := (height + workers - 1) / workers
	var wg sync.WaitGroup
	for y0 := 0; y0 < height; y0 += band {
		y1 := y0 + band
		if y1 > height {
			y1 = height
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			fn(y0, y1)
		}(y0, y1)
	}
	wg.Wait()
}
