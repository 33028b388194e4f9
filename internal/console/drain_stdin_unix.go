//go:build unix

package console

import (
	"os"
	"syscall"

	"golang.org/x/term"
)

// drainStdin discards whatever the terminal has queued on stdin without
// blocking.
func drainStdin() {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return
	}
	if err := syscall.SetNonblock(fd, true); err != nil {
		return
	}
	defer func() { _ = syscall.SetNonblock(fd, false) }()
	buf := make([]byte, 256)
	for {
		n, err := syscall.Read(fd, buf)
		if err != nil || n <= 0 {
			return
		}
	}
}
