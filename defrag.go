package disko

import "sort"

// Defragment performs a stable, ascending-start-order compaction: every file
// is moved so that its new start block equals a watermark that begins at
// block 1 and advances by each file's size as it is placed, in order of
// ascending current start block. Directories are untouched. The result is a
// single maximal free suffix and a layout that mirrors first-fit allocation
// order, per section 4.4.
func Defragment() error {
	v, err := requireMounted()
	if err != nil {
		return err
	}

	type fileRun struct {
		inode RawInode
		start int
		size  int
	}

	var files []fileRun
	for i := 0; i < NumInodes; i++ {
		inode := v.superblock.Inode(i)
		if inode.InUse() && !inode.IsDirectory() && inode.Size() > 0 {
			files = append(files, fileRun{inode: inode, start: inode.StartBlock(), size: inode.Size()})
		}
	}

	sort.SliceStable(files, func(a, b int) bool {
		return files[a].start < files[b].start
	})

	watermark := 1
	for _, f := range files {
		if f.start != watermark {
			if err := v.moveBlocks(f.start, watermark, f.size); err != nil {
				return err
			}
			ClearRun(v.superblock.Bitmap, f.start, f.size)
			MarkRun(v.superblock.Bitmap, watermark, f.size)
			f.inode.SetStartBlock(watermark)
		}
		watermark += f.size
	}

	return v.flushSuperblock()
}
