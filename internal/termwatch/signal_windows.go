//go:build windows

package termwatch

import "os"

// Windows consoles have no resize signal; only the initial observation is
// delivered.
func notifyResize(chan<- os.Signal) {}
