// Package telnet implements the slice of the TELNET protocol the animation
// service needs: IAC escaping on the data stream, option negotiation
// commands, and capture of the client's NAWS window-size reports.
//
// Negotiation is consumed inline with the data, never interpreted beyond
// that. Unknown options are refused on the client side and ignored on the
// server side, and nothing here ever retries.
package telnet // import "moul.io/wavetel/pkg/telnet"

// Protocol command bytes.
const (
	IAC  = 255 // Interpret As Command
	DONT = 254
	DO   = 253
	WONT = 252
	WILL = 251
	SB   = 250 // Subnegotiation Begin
	GA   = 249 // Go Ahead
	NOP  = 241 // No Operation
	SE   = 240 // Subnegotiation End
)

// Option codes the service negotiates.
const (
	Echo            = 1
	SuppressGoAhead = 3
	TerminalType    = 24
	WindowSize      = 31 // NAWS, RFC 1073
	Linemode        = 34
)
