package lobby

import (
	"context"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	oi "github.com/reiver/go-oi"

	"moul.io/wavetel/pkg/wave"
)

// DefaultFPS paces the animation when the config leaves it unset.
const DefaultFPS = 10

// State names the phases of a session lifecycle.
type State string

const (
	StateConnecting  State = "connecting"
	StateNegotiating State = "negotiating"
	StateAnimating   State = "animating"
	StateClosing     State = "closing"
	StateClosed      State = "closed"
)

// CloseReason records why a session ended.
type CloseReason string

const (
	// ReasonFinished means the frame budget ran out.
	ReasonFinished CloseReason = "finished"
	// ReasonQuit means the client pressed q.
	ReasonQuit CloseReason = "quit"
	// ReasonDisconnected means the transport dropped mid-animation.
	ReasonDisconnected CloseReason = "disconnected"
	// ReasonKicked means the registry severed an idle session.
	ReasonKicked CloseReason = "kicked"
	// ReasonShutdown means the server context was canceled.
	ReasonShutdown CloseReason = "shutdown"
)

// Config tunes a session. FPS of zero selects DefaultFPS, a Duration of
// zero streams until the client quits or is kicked.
type Config struct {
	FPS              int
	Duration         time.Duration
	NegotiationGrace time.Duration
}

// Session animates one connected terminal. Create with NewSession, drive
// with Run; accessors are safe to call from other goroutines while Run is
// in flight, which is what the registry and the server logs do.
type Session struct {
	name  string
	term  Terminal
	cache *wave.Cache
	cfg   Config

	mu        sync.Mutex
	state     State
	reason    CloseReason
	rows      int
	cols      int
	frame     int
	started   time.Time
	lastInput time.Time
	kicked    bool

	bytesSent uint64

	done      chan struct{}
	closeOnce sync.Once
}

func NewSession(name string, term Terminal, cache *wave.Cache, cfg Config) *Session {
	if cfg.FPS <= 0 {
		cfg.FPS = DefaultFPS
	}
	now := time.Now()
	return &Session{
		name:      name,
		term:      term,
		cache:     cache,
		cfg:       cfg,
		state:     StateConnecting,
		rows:      DefaultRows,
		cols:      DefaultCols,
		started:   now,
		lastInput: now,
		done:      make(chan struct{}),
	}
}

// Run drives the session to completion and reports why it ended. The
// terminal is closed on the way out no matter what.
func (s *Session) Run(ctx context.Context) CloseReason {
	defer s.close()

	// The pump starts before negotiation: it is the only reader of the
	// transport, so it also consumes the window-size report the grace
	// period waits for.
	keys := make(chan byte, 1)
	go s.pumpInput(keys)

	s.setState(StateNegotiating)
	rows, cols := s.term.Negotiate(ctx)
	if rows < 1 {
		rows = DefaultRows
	}
	if cols < 1 {
		cols = DefaultCols
	}
	s.mu.Lock()
	s.rows, s.cols = rows, cols
	s.mu.Unlock()

	s.setState(StateAnimating)
	period := time.Second / time.Duration(s.cfg.FPS)
	budget := -1
	if s.cfg.Duration > 0 {
		budget = int(s.cfg.Duration.Seconds() * float64(s.cfg.FPS))
	}

	if _, err := io.WriteString(s.term, wave.ClearScreen); err != nil {
		return s.finish(s.disconnectReason())
	}

	for budget < 0 || s.Frames() < budget {
		frame := s.Frames()
		text := s.cache.Frame(rows, cols, frame%wave.PatternLen)
		text = strings.Replace(text, wave.ColorToken, wave.PaletteColor(frame), 1)
		n, err := oi.LongWrite(s.term, []byte(text))
		atomic.AddUint64(&s.bytesSent, uint64(n))
		if err != nil {
			return s.finish(s.disconnectReason())
		}
		s.advance()

		timer := time.NewTimer(period)
		select {
		case b, ok := <-keys:
			timer.Stop()
			if !ok {
				return s.finish(s.disconnectReason())
			}
			s.markInput()
			if b == 'q' {
				s.setState(StateClosing)
				return s.finish(ReasonQuit)
			}
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			s.setState(StateClosing)
			return s.finish(ReasonShutdown)
		}
	}

	s.setState(StateClosing)
	return s.finish(ReasonFinished)
}

// pumpInput forwards keypresses to the session loop, one at a time.
func (s *Session) pumpInput(keys chan<- byte) {
	defer close(keys)
	var buffer [1]byte
	p := buffer[:]
	for {
		n, err := s.term.Read(p)
		if n > 0 {
			select {
			case keys <- p[0]:
			case <-s.done:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// kick marks the session as evicted and severs its transport; Run unwinds
// through its usual error path.
func (s *Session) kick() {
	s.mu.Lock()
	s.kicked = true
	s.mu.Unlock()
	s.close()
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.term.Close()
	})
}

func (s *Session) finish(reason CloseReason) CloseReason {
	s.close()
	s.mu.Lock()
	s.reason = reason
	s.state = StateClosed
	s.mu.Unlock()
	return reason
}

func (s *Session) disconnectReason() CloseReason {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kicked {
		return ReasonKicked
	}
	return ReasonDisconnected
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Session) markInput() {
	s.mu.Lock()
	s.lastInput = time.Now()
	s.mu.Unlock()
}

func (s *Session) advance() {
	s.mu.Lock()
	s.frame++
	s.mu.Unlock()
}

func (s *Session) Name() string { return s.name }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Reason() CloseReason {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

// Frames reports how many frames were fully written so far.
func (s *Session) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

func (s *Session) BytesSent() uint64 { return atomic.LoadUint64(&s.bytesSent) }

// Size reports the negotiated terminal geometry.
func (s *Session) Size() (rows, cols int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows, s.cols
}

// IdleFor reports how long ago the client last sent anything.
func (s *Session) IdleFor() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastInput)
}

func (s *Session) Uptime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.started)
}
