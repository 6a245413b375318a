package disko

// FindFreeInode returns the index of the lowest-numbered free inode slot, or
// (0, false) if every slot is in use.
func (sb *Superblock) FindFreeInode() (int, bool) {
	for i := 0; i < NumInodes; i++ {
		if !sb.Inode(i).InUse() {
			return i, true
		}
	}
	return 0, false
}

// FindChild returns the in-use inode whose parent field equals parent and
// whose name matches exactly (all 5 bytes), or (0, false) if none exists.
func (sb *Superblock) FindChild(parent int, name [NameLength]byte) (int, bool) {
	for i := 0; i < NumInodes; i++ {
		inode := sb.Inode(i)
		if inode.InUse() && inode.Parent() == parent && inode.Name() == name {
			return i, true
		}
	}
	return 0, false
}

// Children returns, in ascending inode-index order, every in-use inode whose
// parent field equals parent.
func (sb *Superblock) Children(parent int) []int {
	var children []int
	for i := 0; i < NumInodes; i++ {
		inode := sb.Inode(i)
		if inode.InUse() && inode.Parent() == parent {
			children = append(children, i)
		}
	}
	return children
}
