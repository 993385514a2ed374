package telnet

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"net"
	"sync"
)

// SizeFunc reports the local terminal dimensions, used by client conns to
// answer a window-size request.
type SizeFunc func() (cols, rows int)

// Conn frames a net.Conn with the telnet escaping rules. Reads strip IAC
// sequences from the data stream and harvest window-size reports on the
// side; writes escape IAC bytes in the payload. A conn built with
// NewClientConn additionally answers the negotiation requests a server
// sends, which is enough to watch the animation without a real telnet
// binary at hand.
//
// Reads must come from a single goroutine. Writes are serialized
// internally, since negotiation answers race with regular payload writes.
type Conn struct {
	conn net.Conn
	r    *bufio.Reader

	wmu sync.Mutex

	sizeMu  sync.Mutex
	cols    int
	rows    int
	hasSize bool

	localSize SizeFunc
}

// NewConn wraps a server-side connection. Window-size reports arriving from
// the client are recorded; other negotiation answers are consumed and
// dropped, the server already said everything it wanted at session start.
func NewConn(conn net.Conn) *Conn {
	return &Conn{conn: conn, r: bufio.NewReader(conn)}
}

// NewClientConn wraps a client-side connection. size is consulted when the
// server asks for the window dimensions; nil disables the report.
func NewClientConn(conn net.Conn, size SizeFunc) *Conn {
	return &Conn{conn: conn, r: bufio.NewReader(conn), localSize: size}
}

// Read fills p with data bytes, consuming any interleaved negotiation.
// It blocks until at least one data byte is available, then returns what
// the buffer already holds instead of waiting for len(p).
func (c *Conn) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if n > 0 && c.r.Buffered() == 0 {
			break
		}
		b, err := c.r.ReadByte()
		if err != nil {
			return n, err
		}
		if b != IAC {
			p[n] = b
			n++
			continue
		}
		cmd, err := c.r.ReadByte()
		if err != nil {
			return n, err
		}
		switch cmd {
		case IAC: // escaped data byte
			p[n] = IAC
			n++
		case WILL, WONT, DO, DONT:
			opt, err := c.r.ReadByte()
			if err != nil {
				return n, err
			}
			c.negotiate(cmd, opt)
		case SB:
			if err := c.subnegotiate(); err != nil {
				return n, err
			}
		default:
			// GA, NOP and the other bare commands carry no payload.
		}
	}
	return n, nil
}

// Write sends payload bytes, escaping IAC per the protocol.
func (c *Conn) Write(p []byte) (int, error) {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if bytes.IndexByte(p, IAC) < 0 {
		return c.conn.Write(p)
	}
	escaped := bytes.ReplaceAll(p, []byte{IAC}, []byte{IAC, IAC})
	if _, err := c.conn.Write(escaped); err != nil {
		return 0, err
	}
	return len(p), nil
}

// SendCommand writes a raw IAC command sequence, bypassing data escaping.
func (c *Conn) SendCommand(cmd, opt byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_, err := c.conn.Write([]byte{IAC, cmd, opt})
	return err
}

// WindowSize returns the dimensions most recently reported by the peer.
// ok is false until a usable report arrived.
func (c *Conn) WindowSize() (cols, rows int, ok bool) {
	c.sizeMu.Lock()
	defer c.sizeMu.Unlock()
	return c.cols, c.rows, c.hasSize
}

func (c *Conn) Close() error         { return c.conn.Close() }
func (c *Conn) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

func (c *Conn) negotiate(cmd, opt byte) {
	if c.localSize == nil {
		return
	}
	switch {
	case cmd == DO && opt == WindowSize:
		_ = c.SendCommand(WILL, WindowSize)
		cols, rows := c.localSize()
		_ = c.sendWindowSize(cols, rows)
	case cmd == DO && opt == SuppressGoAhead:
		_ = c.SendCommand(WILL, SuppressGoAhead)
	case cmd == WILL && opt == Echo:
		_ = c.SendCommand(DO, Echo)
	case cmd == WILL && opt == SuppressGoAhead:
		_ = c.SendCommand(DO, SuppressGoAhead)
	case cmd == DO:
		_ = c.SendCommand(WONT, opt)
	case cmd == WILL:
		_ = c.SendCommand(DONT, opt)
	}
}

// subnegotiate consumes an option payload up to IAC SE. Window-size
// payloads are decoded, everything else is discarded.
func (c *Conn) subnegotiate() error {
	opt, err := c.r.ReadByte()
	if err != nil {
		return err
	}
	var payload []byte
	for {
		b, err := c.r.ReadByte()
		if err != nil {
			return err
		}
		if b != IAC {
			payload = append(payload, b)
			continue
		}
		next, err := c.r.ReadByte()
		if err != nil {
			return err
		}
		if next == IAC {
			payload = append(payload, IAC)
			continue
		}
		if next == SE {
			break
		}
		// Stray command inside a subnegotiation, skip it.
	}
	if opt == WindowSize && len(payload) >= 4 {
		cols := int(binary.BigEndian.Uint16(payload[0:2]))
		rows := int(binary.BigEndian.Uint16(payload[2:4]))
		// RFC 1073 reserves zero for "unspecified".
		if cols > 0 && rows > 0 {
			c.sizeMu.Lock()
			c.cols, c.rows, c.hasSize = cols, rows, true
			c.sizeMu.Unlock()
		}
	}
	return nil
}

func (c *Conn) sendWindowSize(cols, rows int) error {
	var dims [4]byte
	binary.BigEndian.PutUint16(dims[0:2], uint16(cols))
	binary.BigEndian.PutUint16(dims[2:4], uint16(rows))
	buf := []byte{IAC, SB, WindowSize}
	for _, b := range dims {
		if b == IAC {
			buf = append(buf, IAC, IAC)
			continue
		}
		buf = append(buf, b)
	}
	buf = append(buf, IAC, SE)
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_, err := c.conn.Write(buf)
	return err
}
