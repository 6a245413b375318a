package disko_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longfeiCA/lab3"
)

// TestCreateLsDeleteLs is end-to-end scenario 2: mount a zeroed-but-consistent
// image, create a 3-block file, list it, delete it, and list again.
func TestCreateLsDeleteLs(t *testing.T) {
	mountFresh(t)

	require.NoError(t, disko.Create(disko.ToName("a"), 3))

	entries, err := disko.Ls()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, disko.DirEntry{Name: disko.ToName("."), IsDir: true, Size: 3}, entries[0])
	assert.Equal(t, disko.DirEntry{Name: disko.ToName(".."), IsDir: true, Size: 3}, entries[1])
	assert.Equal(t, disko.ToName("a"), entries[2].Name)
	assert.False(t, entries[2].IsDir)
	assert.Equal(t, 3, entries[2].Size)

	sbBytes, err := disko.CurrentSuperblockBytes()
	require.NoError(t, err)
	sb, err := disko.DecodeSuperblock(sbBytes)
	require.NoError(t, err)

	idx, ok := sb.FindChild(disko.RootDir, disko.ToName("a"))
	require.True(t, ok)
	inode := sb.Inode(idx)
	assert.Equal(t, 3, inode.Size())
	assert.Equal(t, 1, inode.StartBlock())
	assert.Equal(t, disko.RootDir, inode.Parent())
	for _, b := range []int{0, 1, 2, 3} {
		assert.True(t, sb.Bitmap.Get(b))
	}

	require.NoError(t, disko.Delete(disko.ToName("a")))

	entries, err = disko.Ls()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, disko.DirEntry{Name: disko.ToName("."), IsDir: true, Size: 2}, entries[0])
	assert.Equal(t, disko.DirEntry{Name: disko.ToName(".."), IsDir: true, Size: 2}, entries[1])
}

func TestRootParentIsItself(t *testing.T) {
	mountFresh(t)

	require.NoError(t, disko.Cd(disko.ToName("..")))

	entries, err := disko.Ls()
	require.NoError(t, err)
	assert.Equal(t, entries[0], entries[1], "at the root, . and .. must report the same child count")
}

func TestCdDotIsNoop(t *testing.T) {
	mountFresh(t)
	require.NoError(t, disko.Create(disko.ToName("d"), 0))
	require.NoError(t, disko.Cd(disko.ToName("d")))

	before, err := disko.CurrentDir()
	require.NoError(t, err)

	require.NoError(t, disko.Cd(disko.ToName(".")))

	after, err := disko.CurrentDir()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCdIntoFileIsRejected(t *testing.T) {
	mountFresh(t)
	require.NoError(t, disko.Create(disko.ToName("f"), 1))

	err := disko.Cd(disko.ToName("f"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory not found")
}

func TestCdIntoMissingNameIsRejected(t *testing.T) {
	mountFresh(t)

	err := disko.Cd(disko.ToName("ghost"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory not found")
}

func TestCdUpAndDownRoundTrip(t *testing.T) {
	mountFresh(t)
	require.NoError(t, disko.Create(disko.ToName("d"), 0))
	require.NoError(t, disko.Cd(disko.ToName("d")))
	require.NoError(t, disko.Create(disko.ToName("x"), 1))
	require.NoError(t, disko.Cd(disko.ToName("..")))

	entries, err := disko.Ls()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, disko.ToName("d"), entries[2].Name)
	assert.True(t, entries[2].IsDir)
	assert.Equal(t, 3, entries[2].Size) // ".", "..", "x" -> 1 child + 2
}
