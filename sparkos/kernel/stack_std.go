//go:build !tinygo

package kernel

import (
	"bytes"
	"runtime/debug"
)

// captureStack returns the current goroutine's stack with the recovery
// frames above the panic call removed.
func captureStack() []byte {
	st := debug.Stack()
	header := bytes.IndexByte(st, '\n')
	at := bytes.Index(st, []byte("\npanic("))
	if header < 0 || at < header {
		return st
	}
	out := make([]byte, 0, header+1+len(st)-at-1)
	out = append(out, st[:header+1]...)
	return append(out, st[at+1:]...)
}
