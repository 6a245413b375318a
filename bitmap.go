package disko

import "github.com/boljen/go-bitmap"

// FindRun locates the lowest data block start (>= 1) such that blocks
// [start, start+size) are all free and start+size <= TotalBlocks. It returns
// (0, false) for size == 0 (the sentinel "no blocks needed") and (0, false)
// if no such run exists; it never returns a partial match.
//
// Generalized from the first-fit scan in the teacher's
// drivers/common/allocatormap.go Allocator.findRun, restricted here to the
// fixed 128-block geometry and the reserved block 0.
func FindRun(bm bitmap.Bitmap, size int) (int, bool) {
	if size <= 0 {
		return 0, false
	}

	runStart := 0
	runLen := 0
	for b := 1; b < TotalBlocks; b++ {
		if bm.Get(b) {
			runLen = 0
			continue
		}

		if runLen == 0 {
			runStart = b
		}
		runLen++
		if runLen == size {
			return runStart, true
		}
	}

	return 0, false
}

// MarkRun sets size consecutive bits starting at start to used (1).
func MarkRun(bm bitmap.Bitmap, start, size int) {
	for i := 0; i < size; i++ {
		bm.Set(start+i, true)
	}
}

// ClearRun clears size consecutive bits starting at start to free (0).
func ClearRun(bm bitmap.Bitmap, start, size int) {
	for i := 0; i < size; i++ {
		bm.Set(start+i, false)
	}
}
