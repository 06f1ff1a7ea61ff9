// Package source produces the raw line streams fed into the processor:
// an already-open reader (normally a pipe from `ping -D`), or a growing
// file written by `tee`.
package source

import (
	"bufio"
	"context"
	"io"
)

// FromReader streams lines from r on the returned channel, closing it on
// end of input or when ctx is cancelled.
func FromReader(ctx context.Context, r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case ch <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
