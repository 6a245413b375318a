package disko

import (
	"fmt"

	diskoerrors "github.com/longfeiCA/lab3/errors"
)

// Create adds a new file (size > 0) or directory (size == 0) named name as a
// child of the current directory. Grounded on the create() algorithm of
// section 4.3: reject a same-named sibling, reject with no free inode slot,
// first-fit allocate a contiguous run for files, then populate and flush.
func Create(name [NameLength]byte, size int) error {
	v, err := requireMounted()
	if err != nil {
		return err
	}

	if size < 0 || size > MaxFileBlocks {
		return diskoerrors.ErrOutOfRangeBlock.WithMessage(
			fmt.Sprintf("size %d out of range", size))
	}

	if _, exists := v.superblock.FindChild(v.currentDir, name); exists {
		return diskoerrors.ErrNameCollision.WithDetailf(nameString(name))
	}

	idx, ok := v.superblock.FindFreeInode()
	if !ok {
		return diskoerrors.ErrNoFreeInode
	}

	start := 0
	if size > 0 {
		runStart, found := FindRun(v.superblock.Bitmap, size)
		if !found {
			return diskoerrors.ErrNoFreeRun.WithDetailf(size)
		}
		start = runStart
	}

	inode := v.superblock.Inode(idx)
	inode.Zero()
	inode.SetName(name)
	inode.SetInUse(true)
	inode.SetSize(size)
	inode.SetStartBlock(start)
	inode.SetDirectory(size == 0)
	inode.SetParent(v.currentDir)

	if size > 0 {
		MarkRun(v.superblock.Bitmap, start, size)
	}

	return v.flushSuperblock()
}

// Delete removes name from the current directory. Directories are removed
// recursively, depth-first, collecting each level's children before
// recursing so the traversal tolerates the inode table being zeroed out from
// under it as deletion proceeds (section 4.3's "Delete" algorithm).
func Delete(name [NameLength]byte) error {
	v, err := requireMounted()
	if err != nil {
		return err
	}

	idx, ok := v.superblock.FindChild(v.currentDir, name)
	if !ok {
		return diskoerrors.ErrNotFound.WithDetailf(nameString(name))
	}

	if err := v.deleteInode(idx); err != nil {
		return err
	}
	return v.flushSuperblock()
}

func (v *Volume) deleteInode(idx int) error {
	inode := v.superblock.Inode(idx)

	if inode.IsDirectory() {
		for _, child := range v.superblock.Children(idx) {
			if err := v.deleteInode(child); err != nil {
				return err
			}
		}
	} else if size := inode.Size(); size > 0 {
		start := inode.StartBlock()
		if err := v.zeroBlocks(start, size); err != nil {
			return err
		}
		ClearRun(v.superblock.Bitmap, start, size)
	}

	inode.Zero()
	return nil
}

// Read loads the block'th data block of the file name (0-indexed, relative to
// the current directory) into the shared I/O buffer. It does not touch the
// superblock.
func Read(name [NameLength]byte, block int) error {
	v, err := requireMounted()
	if err != nil {
		return err
	}

	inode, rerr := v.lookupFile(name)
	if rerr != nil {
		return rerr
	}
	if block < 0 || block >= inode.Size() {
		return diskoerrors.ErrOutOfRangeBlock.WithDetailf(block, nameString(name))
	}

	data, err := v.readBlock(inode.StartBlock() + block)
	if err != nil {
		return err
	}
	v.buffer = [BlockSize]byte(data)
	return nil
}

// Write stores the shared I/O buffer into the block'th data block of the file
// name. It does not touch the superblock.
func Write(name [NameLength]byte, block int) error {
	v, err := requireMounted()
	if err != nil {
		return err
	}

	inode, rerr := v.lookupFile(name)
	if rerr != nil {
		return rerr
	}
	if block < 0 || block >= inode.Size() {
		return diskoerrors.ErrOutOfRangeBlock.WithDetailf(block, nameString(name))
	}

	buf := v.buffer
	return v.writeBlock(inode.StartBlock()+block, buf[:])
}

// lookupFile resolves name to a file child of the current directory,
// rejecting a missing name or one that resolves to a directory.
func (v *Volume) lookupFile(name [NameLength]byte) (RawInode, error) {
	idx, ok := v.superblock.FindChild(v.currentDir, name)
	if !ok {
		return nil, diskoerrors.ErrNotFound.WithDetailf(nameString(name))
	}
	inode := v.superblock.Inode(idx)
	if inode.IsDirectory() {
		return nil, diskoerrors.ErrNotFound.WithDetailf(nameString(name))
	}
	return inode, nil
}

// Resize changes the size of file name to newSize blocks (section 4.3's
// "Resize" algorithm):
//
//   - Growing tries in-place extension first (the blocks immediately after the
//     current run must be free); failing that, it relocates to a new run,
//     copying data and zeroing the vacated blocks.
//   - Shrinking zeroes and frees the blocks beyond the new size.
//
// Resize never changes the inode's index, name, or parent.
func Resize(name [NameLength]byte, newSize int) error {
	v, err := requireMounted()
	if err != nil {
		return err
	}

	idx, ok := v.superblock.FindChild(v.currentDir, name)
	if !ok {
		return diskoerrors.ErrNotFound.WithDetailf(nameString(name))
	}
	inode := v.superblock.Inode(idx)
	if inode.IsDirectory() {
		return diskoerrors.ErrNotFound.WithDetailf(nameString(name))
	}
	if newSize < 0 || newSize > MaxFileBlocks {
		return diskoerrors.ErrOutOfRangeBlock.WithDetailf(newSize, nameString(name))
	}

	cur := inode.Size()
	start := inode.StartBlock()

	switch {
	case newSize > cur:
		grow := newSize - cur
		if v.canExtendInPlace(start, cur, grow) {
			MarkRun(v.superblock.Bitmap, start+cur, grow)
		} else {
			newStart, found := FindRun(v.superblock.Bitmap, newSize)
			if !found {
				return diskoerrors.ErrCannotExpand.WithDetailf(nameString(name), newSize)
			}
			if err := v.moveBlocks(start, newStart, cur); err != nil {
				return err
			}
			ClearRun(v.superblock.Bitmap, start, cur)
			MarkRun(v.superblock.Bitmap, newStart, newSize)
			inode.SetStartBlock(newStart)
		}
	case newSize < cur:
		shrinkBy := cur - newSize
		if err := v.zeroBlocks(start+newSize, shrinkBy); err != nil {
			return err
		}
		ClearRun(v.superblock.Bitmap, start+newSize, shrinkBy)
	}

	inode.SetSize(newSize)
	return v.flushSuperblock()
}

func (v *Volume) canExtendInPlace(start, curSize, grow int) bool {
	for i := 0; i < grow; i++ {
		b := start + curSize + i
		if b >= TotalBlocks || v.superblock.Bitmap.Get(b) {
			return false
		}
	}
	return true
}
