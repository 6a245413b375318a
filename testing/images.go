// Package testing provides fixture builders for disko's own tests: in-memory
// disk images wrapped as an io.ReadWriteSeeker, the same way the teacher's
// testing package wraps decompressed fixture bytes with bytesextra.
package testing

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"

	"github.com/longfeiCA/lab3"
)

// NewConsistentImage returns a fresh DiskImageSize-byte image - an empty,
// consistent superblock followed by zeroed data blocks - wrapped as a stream
// tests can pass to disko.MountStream.
func NewConsistentImage(t *testing.T) io.ReadWriteSeeker {
	t.Helper()
	raw := make([]byte, disko.DiskImageSize)
	sb := disko.NewSuperblock()
	copy(raw[0:disko.SuperblockSize], sb.Bytes())
	return bytesextra.NewReadWriteSeeker(raw)
}

// NewRawImage wraps exactly disko.DiskImageSize bytes of arbitrary caller-
// supplied content as a stream, for building the deliberately-inconsistent
// fixtures the consistency-checker tests need. It fails the test if data is
// the wrong length.
func NewRawImage(t *testing.T, data []byte) io.ReadWriteSeeker {
	t.Helper()
	require.Len(t, data, disko.DiskImageSize, "fixture image must be exactly DiskImageSize bytes")
	raw := make([]byte, len(data))
	copy(raw, data)
	return bytesextra.NewReadWriteSeeker(raw)
}
