package disko

import (
	"bytes"

	"github.com/boljen/go-bitmap"
)

// consistencyFailure carries the numbered check (1-6, per section 4.2 of the
// spec) that first failed during Verify.
type consistencyFailure struct {
	code int
}

func (c *consistencyFailure) Error() string {
	return "file system is inconsistent"
}

func failCheck(code int) error {
	return &consistencyFailure{code: code}
}

// FailureCode extracts the numbered check from a Verify error, returning
// (0, false) for any other error (including nil).
func FailureCode(err error) (int, bool) {
	cf, ok := err.(*consistencyFailure)
	if !ok {
		return 0, false
	}
	return cf.code, true
}

// Verify runs the six numbered structural checks in fixed order and returns
// the first failure. A single image with multiple defects always reports the
// lowest-numbered one. A nil return means the image is mountable.
func (sb *Superblock) Verify() error {
	checks := []func() error{
		sb.checkFreeInodesZero,
		sb.checkFileExtents,
		sb.checkDirectoryShape,
		sb.checkParentValidity,
		sb.checkNameUniqueness,
		sb.checkBitmapAgreement,
	}
	for i, check := range checks {
		if err := check(); err != nil {
			return failCheck(i + 1)
		}
	}
	return nil
}

// check 1: every inode with the in-use flag clear must have all eight bytes zero.
func (sb *Superblock) checkFreeInodesZero() error {
	for i := 0; i < NumInodes; i++ {
		inode := sb.Inode(i)
		if !inode.InUse() && !inode.IsZero() {
			return failCheck(1)
		}
	}
	return nil
}

// check 2: every in-use file inode has 1 <= start_block and
// start_block + size - 1 in [1, 127].
func (sb *Superblock) checkFileExtents() error {
	for i := 0; i < NumInodes; i++ {
		inode := sb.Inode(i)
		if !inode.InUse() || inode.IsDirectory() {
			continue
		}
		start := inode.StartBlock()
		size := inode.Size()
		last := start + size - 1
		if start < 1 || start > MaxFileBlocks || last < 1 || last > MaxFileBlocks {
			return failCheck(2)
		}
	}
	return nil
}

// check 3: every in-use directory inode has start_block = 0 and size = 0.
func (sb *Superblock) checkDirectoryShape() error {
	for i := 0; i < NumInodes; i++ {
		inode := sb.Inode(i)
		if inode.InUse() && inode.IsDirectory() {
			if inode.StartBlock() != 0 || inode.Size() != 0 {
				return failCheck(3)
			}
		}
	}
	return nil
}

// check 4: every in-use inode's parent is 127, or an in-use directory index
// in [0, 125]. The raw value 126 is always invalid.
func (sb *Superblock) checkParentValidity() error {
	for i := 0; i < NumInodes; i++ {
		inode := sb.Inode(i)
		if !inode.InUse() {
			continue
		}
		raw := inode.RawParent()
		if raw == rootParentSentinel {
			continue
		}
		if raw == reservedParentValue || raw >= NumInodes {
			return failCheck(4)
		}
		parentInode := sb.Inode(raw)
		if !parentInode.InUse() || !parentInode.IsDirectory() {
			return failCheck(4)
		}
	}
	return nil
}

// check 5: within the set of children of any given parent, names are unique
// under byte-exact comparison.
func (sb *Superblock) checkNameUniqueness() error {
	seen := make(map[int]map[[NameLength]byte]bool)
	for i := 0; i < NumInodes; i++ {
		inode := sb.Inode(i)
		if !inode.InUse() {
			continue
		}
		parent := inode.RawParent()
		names, ok := seen[parent]
		if !ok {
			names = make(map[[NameLength]byte]bool)
			seen[parent] = names
		}
		name := inode.Name()
		if names[name] {
			return failCheck(5)
		}
		names[name] = true
	}
	return nil
}

// check 6: the bitmap built from "block 0 used, plus each in-use file's run"
// must equal the stored bitmap byte-for-byte, and no block may be claimed by
// more than one file.
func (sb *Superblock) checkBitmapAgreement() error {
	expected := bitmap.New(TotalBlocks)
	expected.Set(0, true)

	for i := 0; i < NumInodes; i++ {
		inode := sb.Inode(i)
		if !inode.InUse() || inode.IsDirectory() {
			continue
		}
		start := inode.StartBlock()
		size := inode.Size()
		for b := start; b < start+size; b++ {
			if b < 0 || b >= TotalBlocks || expected.Get(b) {
				return failCheck(6)
			}
			expected.Set(b, true)
		}
	}

	if !bytes.Equal(expected[:BitmapBytes], sb.raw[0:BitmapBytes]) {
		return failCheck(6)
	}
	return nil
}
