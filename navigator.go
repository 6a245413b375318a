package disko

import (
	"fmt"

	diskoerrors "github.com/longfeiCA/lab3/errors"
)

// Cd changes the current directory per section 4.5:
//
//   - "."  is a no-op.
//   - ".." moves to the parent, or stays at the root if already there.
//   - anything else must name an in-use directory child of the current
//     directory; a file with that name is rejected the same as a missing one.
func Cd(name [NameLength]byte) error {
	v, err := requireMounted()
	if err != nil {
		return err
	}

	switch name {
	case dotName:
		return nil
	case dotDotName:
		if v.currentDir == RootDir {
			return nil
		}
		v.currentDir = v.superblock.Inode(v.currentDir).Parent()
		return nil
	}

	idx, ok := v.superblock.FindChild(v.currentDir, name)
	if !ok || !v.superblock.Inode(idx).IsDirectory() {
		return diskoerrors.ErrDirectoryNotFound.WithDetailf(nameString(name))
	}
	v.currentDir = idx
	return nil
}

// DirEntry is one line of Ls output.
type DirEntry struct {
	Name  [NameLength]byte
	IsDir bool
	Size  int // child count + 2 for directories, size in KB for files
}

// String renders an entry the way section 4.5 specifies: the name left
// justified in a 5-wide field, followed by either a directory's bare child
// count or "n KB" for a file's size.
func (e DirEntry) String() string {
	if e.IsDir {
		return fmt.Sprintf("%-5s %d", nameString(e.Name), e.Size)
	}
	return fmt.Sprintf("%-5s %d KB", nameString(e.Name), e.Size)
}

// Ls lists the current directory: "." and ".." first (with the child counts
// of the current directory and its parent, each +2), then every child in
// ascending inode-index order. The root's parent is itself.
func Ls() ([]DirEntry, error) {
	v, err := requireMounted()
	if err != nil {
		return nil, err
	}

	entries := make([]DirEntry, 0, 2+len(v.superblock.Children(v.currentDir)))

	selfCount := len(v.superblock.Children(v.currentDir))
	entries = append(entries, DirEntry{Name: dotName, IsDir: true, Size: selfCount + 2})

	parent := v.currentDir
	if v.currentDir != RootDir {
		parent = v.superblock.Inode(v.currentDir).Parent()
	}
	parentCount := len(v.superblock.Children(parent))
	entries = append(entries, DirEntry{Name: dotDotName, IsDir: true, Size: parentCount + 2})

	for _, idx := range v.superblock.Children(v.currentDir) {
		inode := v.superblock.Inode(idx)
		if inode.IsDirectory() {
			childCount := len(v.superblock.Children(idx))
			entries = append(entries, DirEntry{Name: inode.Name(), IsDir: true, Size: childCount + 2})
		} else {
			entries = append(entries, DirEntry{Name: inode.Name(), IsDir: false, Size: inode.Size()})
		}
	}

	return entries, nil
}
