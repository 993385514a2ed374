// Package lobby drives animation sessions: one goroutine per connected
// terminal, a shared frame cache behind them, and a registry so the server
// can kick idlers and say goodbye on shutdown.
package lobby // import "moul.io/wavetel/pkg/lobby"

import (
	"context"
	"io"
	"net"
	"time"

	"moul.io/wavetel/pkg/telnet"
)

// Fallback geometry for clients that never report their window size.
const (
	DefaultRows = 24
	DefaultCols = 80
)

// DefaultNegotiationGrace is how long the telnet negotiator waits for the
// client to report its window size before settling on the defaults. One
// bounded wait, no retries; a report arriving later is ignored.
const DefaultNegotiationGrace = 500 * time.Millisecond

// Terminal is the transport side of a session: a byte stream to a remote
// terminal plus a way to learn its dimensions once, at startup.
type Terminal interface {
	io.ReadWriteCloser

	// Negotiate performs whatever capability exchange the transport
	// supports and returns the terminal dimensions, falling back to
	// DefaultRows x DefaultCols. It blocks at most for a bounded grace
	// period and never fails the session.
	Negotiate(ctx context.Context) (rows, cols int)

	RemoteAddr() net.Addr
}

type telnetTerminal struct {
	*telnet.Conn
	grace time.Duration
}

// NewTerminal wraps a telnet conn as a session Terminal. A grace of zero or
// less selects DefaultNegotiationGrace.
func NewTerminal(conn *telnet.Conn, grace time.Duration) Terminal {
	if grace <= 0 {
		grace = DefaultNegotiationGrace
	}
	return &telnetTerminal{Conn: conn, grace: grace}
}

func (t *telnetTerminal) Negotiate(ctx context.Context) (rows, cols int) {
	// The option set sent on connect: report your window size, suppress
	// go-ahead, let the server echo, and negotiate line mode.
	requests := [][2]byte{
		{telnet.DO, telnet.WindowSize},
		{telnet.DO, telnet.SuppressGoAhead},
		{telnet.WILL, telnet.Echo},
		{telnet.DO, telnet.Linemode},
	}
	for _, req := range requests {
		if err := t.SendCommand(req[0], req[1]); err != nil {
			return DefaultRows, DefaultCols
		}
	}

	timer := time.NewTimer(t.grace)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}

	cols, rows, ok := t.WindowSize()
	if !ok {
		return DefaultRows, DefaultCols
	}
	return rows, cols
}
