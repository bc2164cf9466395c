//go:build windows

package main

// disableCtrlCEcho does nothing, windows consoles don't echo ^C.
func disableCtrlCEcho() func() { return func() {} }
