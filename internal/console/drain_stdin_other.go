//go:build !unix

package console

// drainStdin does nothing where stdin cannot be switched to non-blocking
// reads. Stray cursor reports are still stripped by sanitizeConsoleInput.
func drainStdin() {}
