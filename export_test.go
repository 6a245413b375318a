package disko

// ResetForTest clears the process-wide mounted volume singleton, so a test
// can observe the genuine Unmounted state without depending on test
// execution order across files. It is compiled only into this package's
// tests; the external disko_test files in this directory call it directly as
// disko.ResetForTest.
func ResetForTest() {
	current = nil
}
