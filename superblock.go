package disko

import (
	"fmt"

	"github.com/boljen/go-bitmap"
)

// Fixed geometry of the simulated volume. The image is always exactly
// TotalBlocks blocks of BlockSize bytes; block 0 is the superblock and the
// remainder are data blocks available to files.
const (
	BlockSize      = 1024
	TotalBlocks    = 128
	DiskImageSize  = BlockSize * TotalBlocks
	NumInodes      = 126
	InodeSize      = 8
	NameLength     = 5
	BitmapBytes    = 16
	SuperblockSize = BlockSize
	// MaxFileBlocks is the largest size a file inode can hold; the run
	// [start, start+size) must fit in [1, TotalBlocks).
	MaxFileBlocks = TotalBlocks - 1
)

// RootDir is the in-memory sentinel for "the root directory". It is never a
// valid inode index (those span [0, NumInodes)), so it is distinguishable
// from every real inode at a glance. It is translated to and from the on-disk
// parent sentinel (127) only by RawInode.Parent/SetParent.
const RootDir = -1

const rootParentSentinel = 0x7f // 127: "this inode's parent is the root"
const reservedParentValue = 0x7e // 126: never a legal parent value

const flagInUse = 0x80
const sizeMask = 0x7f
const flagIsDirectory = 0x80
const parentMask = 0x7f

// RawInode is an 8-byte view directly into a Superblock's backing array:
// name[5], used_size, start_block, dir_parent. Mutating it through any setter
// mutates the superblock bytes in place; there is no separate encode step.
type RawInode []byte

// Name returns the raw 5-byte name field, including any embedded zero bytes.
func (n RawInode) Name() [NameLength]byte {
	var name [NameLength]byte
	copy(name[:], n[0:NameLength])
	return name
}

func (n RawInode) SetName(name [NameLength]byte) {
	copy(n[0:NameLength], name[:])
}

func (n RawInode) InUse() bool {
	return n[5]&flagInUse != 0
}

func (n RawInode) SetInUse(used bool) {
	if used {
		n[5] |= flagInUse
	} else {
		n[5] &^= flagInUse
	}
}

// Size returns the file size in blocks. Always 0 for directories.
func (n RawInode) Size() int {
	return int(n[5] & sizeMask)
}

func (n RawInode) SetSize(size int) {
	n[5] = (n[5] & flagInUse) | byte(size&sizeMask)
}

// StartBlock returns the first data block owned by a file, or 0 for a
// directory or a free inode.
func (n RawInode) StartBlock() int {
	return int(n[6])
}

func (n RawInode) SetStartBlock(block int) {
	n[6] = byte(block)
}

func (n RawInode) IsDirectory() bool {
	return n[7]&flagIsDirectory != 0
}

func (n RawInode) SetDirectory(isDir bool) {
	if isDir {
		n[7] |= flagIsDirectory
	} else {
		n[7] &^= flagIsDirectory
	}
}

// RawParent returns the lower 7 bits of dir_parent unmodified: an index in
// [0, 125], the root sentinel 127, or the always-invalid 126.
func (n RawInode) RawParent() int {
	return int(n[7] & parentMask)
}

// Parent returns the decoded parent: RootDir for the sentinel 127, or the raw
// inode index otherwise (including the reserved, always-invalid 126 - callers
// that care must use RawParent to distinguish it).
func (n RawInode) Parent() int {
	raw := n.RawParent()
	if raw == rootParentSentinel {
		return RootDir
	}
	return raw
}

func (n RawInode) SetParent(parent int) {
	raw := rootParentSentinel
	if parent != RootDir {
		raw = parent & parentMask
	}
	n[7] = (n[7] & flagIsDirectory) | byte(raw)
}

// IsZero reports whether all eight bytes of the inode are zero, the required
// shape of a free inode (invariant 1 / consistency check 1).
func (n RawInode) IsZero() bool {
	for _, b := range n {
		if b != 0 {
			return false
		}
	}
	return true
}

// Zero clears every byte of the inode, returning it to the free state.
func (n RawInode) Zero() {
	for i := range n {
		n[i] = 0
	}
}

// Superblock is the decoded in-memory form of block 0: a 128-bit free-block
// bitmap followed by 126 fixed-size inode slots. Bitmap and the per-inode
// RawInode views share the same backing array returned by Bytes, so mutating
// either is reflected immediately in the byte image ready to flush to disk.
type Superblock struct {
	raw    []byte
	Bitmap bitmap.Bitmap
}

// NewSuperblock returns an all-zero superblock with only bit 0 (the
// superblock's own block) marked used, as required of a freshly formatted,
// consistent, empty image.
func NewSuperblock() *Superblock {
	raw := make([]byte, SuperblockSize)
	sb := &Superblock{raw: raw, Bitmap: bitmap.Bitmap(raw[0:BitmapBytes])}
	sb.Bitmap.Set(0, true)
	return sb
}

// DecodeSuperblock copies data (which must be exactly SuperblockSize bytes)
// into a freshly allocated backing array and wraps it as a Superblock.
func DecodeSuperblock(data []byte) (*Superblock, error) {
	if len(data) != SuperblockSize {
		return nil, fmt.Errorf(
			"superblock must be exactly %d bytes, got %d", SuperblockSize, len(data))
	}
	raw := make([]byte, SuperblockSize)
	copy(raw, data)
	return &Superblock{raw: raw, Bitmap: bitmap.Bitmap(raw[0:BitmapBytes])}, nil
}

// Bytes returns the superblock's 1024-byte backing array, suitable for
// writing verbatim to block 0 of the image.
func (sb *Superblock) Bytes() []byte {
	return sb.raw
}

// Inode returns a view of inode slot i. i must be in [0, NumInodes).
func (sb *Superblock) Inode(i int) RawInode {
	offset := BitmapBytes + i*InodeSize
	return RawInode(sb.raw[offset : offset+InodeSize])
}
