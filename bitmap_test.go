package disko_test

import (
	"testing"

	"github.com/boljen/go-bitmap"
	"github.com/stretchr/testify/assert"

	"github.com/longfeiCA/lab3"
)

func TestFindRunSizeZeroReturnsSentinel(t *testing.T) {
	bm := bitmap.New(disko.TotalBlocks)
	start, ok := disko.FindRun(bm, 0)
	assert.False(t, ok)
	assert.Equal(t, 0, start)
}

func TestFindRunFirstFit(t *testing.T) {
	bm := bitmap.New(disko.TotalBlocks)
	bm.Set(0, true)

	start, ok := disko.FindRun(bm, 3)
	assert.True(t, ok)
	assert.Equal(t, 1, start)

	disko.MarkRun(bm, 1, 3)
	start, ok = disko.FindRun(bm, 2)
	assert.True(t, ok)
	assert.Equal(t, 4, start)
}

func TestFindRunNoneAvailable(t *testing.T) {
	bm := bitmap.New(disko.TotalBlocks)
	disko.MarkRun(bm, 0, disko.TotalBlocks)

	_, ok := disko.FindRun(bm, 1)
	assert.False(t, ok)
}

func TestFindRunExactlyFillsRemainder(t *testing.T) {
	bm := bitmap.New(disko.TotalBlocks)
	bm.Set(0, true)

	start, ok := disko.FindRun(bm, disko.TotalBlocks-1)
	assert.True(t, ok)
	assert.Equal(t, 1, start)

	_, ok = disko.FindRun(bm, disko.TotalBlocks)
	assert.False(t, ok, "a run can never include the reserved block 0")
}

func TestMarkAndClearRunRoundTrip(t *testing.T) {
	bm := bitmap.New(disko.TotalBlocks)
	disko.MarkRun(bm, 10, 5)
	for b := 10; b < 15; b++ {
		assert.True(t, bm.Get(b))
	}
	disko.ClearRun(bm, 10, 5)
	for b := 10; b < 15; b++ {
		assert.False(t, bm.Get(b))
	}
}
