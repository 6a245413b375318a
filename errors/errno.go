// Package errors defines the sentinel error values the simulator's operations
// report. Operations report their defined failures with one of these,
// optionally decorated with operation-specific detail via WithMessage; I/O
// errors from the backing image are returned as they are.
package errors

import (
	"fmt"
)

type DiskoError string

// ErrNotMounted is returned by every operation but Mount when no volume is
// currently mounted.
const ErrNotMounted = DiskoError("no file system is mounted")

// ErrImageUnreadable is returned by Mount when the backing image file cannot
// be opened or its 1024-byte superblock cannot be read. The total image size
// is not checked.
const ErrImageUnreadable = DiskoError("cannot open file system image")

// ErrImageInconsistent is returned by Mount when the image opened but failed
// one of the six numbered consistency checks.
const ErrImageInconsistent = DiskoError("File system in %s is inconsistent (error code: %d)")

// ErrNameCollision is returned by Create when the current directory already
// has a child with the requested name.
const ErrNameCollision = DiskoError("File or directory %s already exists")

// ErrNoFreeInode is returned by Create when every inode slot is in use.
const ErrNoFreeInode = DiskoError("superblock full")

// ErrNoFreeRun is returned by Create or Resize when no contiguous span of
// free blocks of the requested length exists.
const ErrNoFreeRun = DiskoError("cannot allocate %d blocks")

// ErrNotFound is returned by Delete, Read, Write, and Resize when the named
// child does not exist in the current directory, or exists but is the wrong
// kind (e.g. Read/Write against a directory).
const ErrNotFound = DiskoError("%s: no such file or directory")

// ErrOutOfRangeBlock is returned by Read and Write when the block index is
// negative or beyond the file's current size.
const ErrOutOfRangeBlock = DiskoError("block %d is out of range for %s")

// ErrCannotExpand is returned by Resize when a file cannot be extended
// in-place and no relocation run of the new size exists either.
const ErrCannotExpand = DiskoError("cannot expand %s to %d blocks")

// ErrDirectoryNotFound is returned by Cd when the named child does not exist,
// or exists but is not a directory.
const ErrDirectoryNotFound = DiskoError("%s: directory not found")

func (e DiskoError) Error() string {
	return string(e)
}

// WithMessage returns a new error carrying message as its display text while
// still satisfying errors.Is against e.
func (e DiskoError) WithMessage(message string) DriverError {
	return customDriverError{
		message:       message,
		originalError: e,
	}
}

// WithDetailf is a convenience wrapper that formats e's own template string
// with args, i.e. fmt.Sprintf(string(e), args...), and attaches the result via
// WithMessage. Use this for the error classes whose text embeds operation
// detail, such as ErrImageInconsistent or ErrNoFreeRun.
func (e DiskoError) WithDetailf(args ...any) DriverError {
	return e.WithMessage(fmt.Sprintf(string(e), args...))
}

func (e DiskoError) WrapError(err error) DriverError {
	return customDriverError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: err,
	}
}
