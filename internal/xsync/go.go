// Package xsync runs functions in goroutines and hands their
// error back on a channel.
package xsync

import (
	"fmt"
)

// Go runs fn in a new goroutine and sends its error, or the value of a
// recovered panic, on the returned channel.
func Go(fn func() error) <-chan error {
	errs := make(chan error, 1)
	go func() {
		defer func() {
			r := recover()
			if r != nil {
				errs <- fmt.Errorf("panic in go fn: %v", r)
			}
		}()
		errs <- fn()
	}()
	return errs
}
