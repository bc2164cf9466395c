//go:build !windows

package main

import (
	"os"
	"sync"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// muteInterruptEcho clears ECHOCTL on f so ctrl+c does not print "^C" over the progress output.
// the returned restore is safe to call more than once.
func muteInterruptEcho(f *os.File) (restore func()) {
	fd := int(f.Fd()) //nolint:gosec // fd fits int on supported platforms
	if !term.IsTerminal(fd) {
		return func() {}
	}

	saved, err := unix.IoctlGetTermios(fd, termiosGet)
	if err != nil {
		return func() {}
	}
	muted := *saved
	muted.Lflag &^= unix.ECHOCTL
	if err := unix.IoctlSetTermios(fd, termiosSet, &muted); err != nil {
		return func() {}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = unix.IoctlSetTermios(fd, termiosSet, saved)
		})
	}
}

func disableCtrlCEcho() func() { return muteInterruptEcho(os.Stdin) }
