package main

import (
	"fmt"
	"io"
	"time"

	oi "github.com/reiver/go-oi"
	telnet "github.com/reiver/go-telnet"
)

// probeCaller watches the stream for the first escape byte, proof that
// frames are flowing, then quits the animation politely.
type probeCaller struct {
	timeout time.Duration
	err     error
}

func (caller *probeCaller) CallTELNET(ctx telnet.Context, w telnet.Writer, r telnet.Reader) {
	seen := make(chan error, 1)
	go func(reader io.Reader) {
		var buffer [1]byte // Seems like the length of the buffer needs to be small, otherwise will have to wait for buffer to fill up.
		p := buffer[:]

		for {
			// Read 1 byte.
			n, err := reader.Read(p)
			if n <= 0 && err == nil {
				continue
			} else if n <= 0 && err != nil {
				seen <- err
				return
			}

			if p[0] == 0x1b {
				seen <- nil
				return
			}
		}
	}(r)

	select {
	case err := <-seen:
		caller.err = err
	case <-time.After(caller.timeout):
		caller.err = fmt.Errorf("no frame within %v", caller.timeout)
		return
	}
	if caller.err != nil {
		return
	}

	if _, err := oi.LongWrite(w, []byte{'q'}); err != nil {
		caller.err = err
	}
	// Wait a bit so the q reaches the server before the connection drops.
	time.Sleep(3 * time.Millisecond)
}
