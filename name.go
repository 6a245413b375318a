package disko

import "strings"

// ToName packs s into the fixed 5-byte name field, truncating anything past
// the fifth byte and zero-padding anything shorter. The command driver is
// expected to do this once per argument before calling an operation.
func ToName(s string) [NameLength]byte {
	var name [NameLength]byte
	copy(name[:], s)
	return name
}

// nameString renders a raw 5-byte name field for use in diagnostics: trailing
// zero bytes are trimmed since they're padding, not part of the name.
func nameString(name [NameLength]byte) string {
	return strings.TrimRight(string(name[:]), "\x00")
}

var dotName = ToName(".")
var dotDotName = ToName("..")
