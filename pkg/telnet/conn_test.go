package telnet

import (
	"io"
	"net"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestConnRead(t *testing.T) {
	Convey("Testing Conn.Read", t, func() {
		server, peer := net.Pipe()
		defer server.Close()
		defer peer.Close()
		conn := NewConn(server)
		buf := make([]byte, 64)

		Convey("passes plain data through", func() {
			go peer.Write([]byte("hello"))
			n, err := conn.Read(buf)
			So(err, ShouldBeNil)
			So(string(buf[:n]), ShouldEqual, "hello")
		})
		Convey("unescapes a doubled IAC", func() {
			go peer.Write([]byte{'a', IAC, IAC, 'b'})
			n, err := conn.Read(buf)
			So(err, ShouldBeNil)
			So(buf[:n], ShouldResemble, []byte{'a', IAC, 'b'})
		})
		Convey("swallows negotiation interleaved with data", func() {
			go peer.Write([]byte{IAC, WILL, Echo, 'h', IAC, WONT, WindowSize, 'i', IAC, GA})
			n, err := conn.Read(buf)
			So(err, ShouldBeNil)
			So(string(buf[:n]), ShouldEqual, "hi")
		})
		Convey("captures a window-size report", func() {
			go peer.Write([]byte{IAC, SB, WindowSize, 0, 80, 0, 24, IAC, SE, 'x'})
			n, err := conn.Read(buf)
			So(err, ShouldBeNil)
			So(string(buf[:n]), ShouldEqual, "x")
			cols, rows, ok := conn.WindowSize()
			So(ok, ShouldBeTrue)
			So(cols, ShouldEqual, 80)
			So(rows, ShouldEqual, 24)
		})
		Convey("unescapes IAC inside a window-size payload", func() {
			go peer.Write([]byte{IAC, SB, WindowSize, 0, IAC, IAC, 0, 24, IAC, SE, 'x'})
			_, err := conn.Read(buf)
			So(err, ShouldBeNil)
			cols, rows, ok := conn.WindowSize()
			So(ok, ShouldBeTrue)
			So(cols, ShouldEqual, 255)
			So(rows, ShouldEqual, 24)
		})
		Convey("ignores an unspecified window size", func() {
			go peer.Write([]byte{IAC, SB, WindowSize, 0, 0, 0, 0, IAC, SE, 'x'})
			_, err := conn.Read(buf)
			So(err, ShouldBeNil)
			_, _, ok := conn.WindowSize()
			So(ok, ShouldBeFalse)
		})
		Convey("keeps the latest of several reports", func() {
			go peer.Write([]byte{
				IAC, SB, WindowSize, 0, 80, 0, 24, IAC, SE,
				IAC, SB, WindowSize, 0, 40, 0, 12, IAC, SE,
				'x',
			})
			_, err := conn.Read(buf)
			So(err, ShouldBeNil)
			cols, rows, _ := conn.WindowSize()
			So(cols, ShouldEqual, 40)
			So(rows, ShouldEqual, 12)
		})
		Convey("propagates the peer going away", func() {
			go peer.Close()
			_, err := conn.Read(buf)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestConnWrite(t *testing.T) {
	Convey("Testing Conn.Write", t, func() {
		server, peer := net.Pipe()
		defer server.Close()
		defer peer.Close()
		conn := NewConn(server)

		Convey("escapes IAC in the payload", func() {
			got := make([]byte, 4)
			done := make(chan error, 1)
			go func() {
				_, err := io.ReadFull(peer, got)
				done <- err
			}()
			n, err := conn.Write([]byte{1, IAC, 2})
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 3)
			So(<-done, ShouldBeNil)
			So(got, ShouldResemble, []byte{1, IAC, IAC, 2})
		})
		Convey("sends commands unescaped", func() {
			got := make([]byte, 3)
			done := make(chan error, 1)
			go func() {
				_, err := io.ReadFull(peer, got)
				done <- err
			}()
			So(conn.SendCommand(DO, WindowSize), ShouldBeNil)
			So(<-done, ShouldBeNil)
			So(got, ShouldResemble, []byte{IAC, DO, WindowSize})
		})
	})
}

func TestClientConn(t *testing.T) {
	Convey("Testing client-side negotiation", t, func() {
		clientEnd, serverEnd := net.Pipe()
		defer clientEnd.Close()
		defer serverEnd.Close()
		conn := NewClientConn(clientEnd, func() (int, int) { return 132, 43 })

		// Keep a read pending so negotiation gets processed.
		readDone := make(chan struct{})
		go func() {
			defer close(readDone)
			buf := make([]byte, 8)
			_, _ = conn.Read(buf)
		}()

		Convey("answers a window-size request with the local dimensions", func() {
			_, err := serverEnd.Write([]byte{IAC, DO, WindowSize})
			So(err, ShouldBeNil)
			reply := make([]byte, 12)
			_, err = io.ReadFull(serverEnd, reply)
			So(err, ShouldBeNil)
			So(reply, ShouldResemble, []byte{
				IAC, WILL, WindowSize,
				IAC, SB, WindowSize, 0, 132, 0, 43, IAC, SE,
			})
		})
		Convey("accepts echo and go-ahead suppression", func() {
			_, err := serverEnd.Write([]byte{IAC, WILL, Echo, IAC, DO, SuppressGoAhead})
			So(err, ShouldBeNil)
			reply := make([]byte, 6)
			_, err = io.ReadFull(serverEnd, reply)
			So(err, ShouldBeNil)
			So(reply, ShouldResemble, []byte{IAC, DO, Echo, IAC, WILL, SuppressGoAhead})
		})
		Convey("refuses options it does not support", func() {
			_, err := serverEnd.Write([]byte{IAC, DO, Linemode, IAC, WILL, TerminalType})
			So(err, ShouldBeNil)
			reply := make([]byte, 6)
			_, err = io.ReadFull(serverEnd, reply)
			So(err, ShouldBeNil)
			So(reply, ShouldResemble, []byte{IAC, WONT, Linemode, IAC, DONT, TerminalType})
		})

		// Unblock the pending read before the pipe closes.
		_, _ = serverEnd.Write([]byte{'x'})
		<-readDone
	})
}
