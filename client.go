package main

import (
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"golang.org/x/term"

	"moul.io/wavetel/pkg/telnet"
)

// client mirrors the animation on the local terminal, answering the server
// negotiation with the real window dimensions.
func client(addr string) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("client requires a terminal (try: telnet %s)", addr)
	}

	rawConn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return err
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		_ = rawConn.Close()
		return err
	}
	defer func() {
		_ = term.Restore(fd, oldState)
		fmt.Print("\r\n")
	}()

	conn := telnet.NewClientConn(rawConn, func() (cols, rows int) {
		cols, rows, err := term.GetSize(fd)
		if err != nil {
			return 80, 24
		}
		return cols, rows
	})
	defer conn.Close()

	// Keypresses go to the server; ctrl-c still quits in raw mode.
	go func() {
		var buffer [1]byte
		p := buffer[:]
		for {
			n, err := os.Stdin.Read(p)
			if n > 0 {
				if p[0] == 0x03 {
					_ = conn.Close()
					return
				}
				if _, werr := conn.Write(p[:n]); werr != nil {
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()

	_, _ = io.Copy(os.Stdout, conn)
	return nil
}
