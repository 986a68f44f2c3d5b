// Windows signal handling for graceful daemon shutdown.
//
// Compiled only on Windows. Windows has no POSIX SIGTERM, so only
// [os.Interrupt] is registered; the Go runtime maps CTRL_BREAK_EVENT and
// console-close events to os.Interrupt as well.

//go:build windows

package main

import (
	"os"
	"os/signal"
)

// signalChannel returns a buffered channel that receives os.Interrupt
// (Ctrl+C). The buffer of 1 ensures the signal is not lost if the receiver
// is briefly busy when it arrives.
func signalChannel() <-chan os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	return ch
}
