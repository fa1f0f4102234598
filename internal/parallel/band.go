// Package parallel provides the band scheduler used by the fractal renderer.
//
// The pixel grid is split into contiguous column bands. Each band is an
// independent unit of work; bands never share pixels, so workers write into
// the shared buffer without locks. A long-lived WorkerPool executes the
// bands and ExecuteAll joins them before returning.
package parallel

// Default scheduling parameters.
const (
	// DefaultWorkers is the number of worker goroutines.
	DefaultWorkers = 8

	// DefaultPartitions is the number of column bands per frame.
	// It is larger than DefaultWorkers so that bands crossing the set
	// boundary, which are much slower, can be balanced by work stealing.
	DefaultPartitions = 32
)

// Band is one contiguous range of pixel columns [Start, Start+Count).
type Band struct {
	Start int
	Count int
}

// End returns the first column after the band.
func (b Band) End() int {
	return b.Start + b.Count
}

// Empty reports whether the band covers no columns.
func (b Band) Empty() bool {
	return b.Count <= 0
}

// Contains reports whether column x belongs to the band.
func (b Band) Contains(x int) bool {
	return x >= b.Start && x < b.End()
}

// Partition splits width columns into n bands of near-equal size.
// Band i covers [i*width/n, (i+1)*width/n). If n <= 0, one band is returned.
// When n > width some bands are empty; they are kept so that the result
// always has n entries and its union is exactly [0, width).
func Partition(width, n int) []Band {
	if n <= 0 {
		n = 1
	}
	if width < 0 {
		width = 0
	}
	bands := make([]Band, n)
	for i := range n {
		start := i * width / n
		end := (i + 1) * width / n
		bands[i] = Band{Start: start, Count: end - start}
	}
	return bands
}
