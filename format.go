package disko

import (
	"os"

	"github.com/noxer/bytewriter"
)

// Format creates a fresh DiskImageSize-byte image file at path: an all-zero
// superblock except for bit 0 of the bitmap (marking the superblock's own
// block used), followed by 127 zeroed data blocks. The result always passes
// Verify. Grounded on the teacher's file_systems/unixv1/format.go, simplified
// to this format's single fixed geometry.
func Format(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	image := make([]byte, DiskImageSize)
	writer := bytewriter.New(image)

	sb := NewSuperblock()
	if _, err := writer.Write(sb.Bytes()); err != nil {
		return err
	}

	_, err = file.Write(image)
	return err
}
