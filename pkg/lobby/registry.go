package lobby

import (
	"io"
	"log"
	"sync"
	"time"
)

// Registry tracks live sessions. The server adds on connect and removes on
// disconnect; iteration happens only for the idle kick, the shutdown
// broadcast and the summary table.
type Registry struct {
	mu       sync.Mutex
	sessions map[*Session]struct{}
}

func NewRegistry() *Registry {
	return &Registry{sessions: map[*Session]struct{}{}}
}

func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s] = struct{}{}
}

func (r *Registry) Remove(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, s)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sessions returns a point-in-time snapshot, safe to iterate without the
// registry lock.
func (r *Registry) Sessions() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	ret := make([]*Session, 0, len(r.sessions))
	for s := range r.sessions {
		ret = append(ret, s)
	}
	return ret
}

// KickIdle severs every session whose client has been silent longer than
// maxIdle and reports how many were kicked.
func (r *Registry) KickIdle(maxIdle time.Duration) int {
	kicked := 0
	for _, s := range r.Sessions() {
		if s.IdleFor() <= maxIdle {
			continue
		}
		log.Printf("info: kicking idle client: name=%q remote=%q idle=%v", s.Name(), s.term.RemoteAddr(), s.IdleFor().Round(time.Second))
		s.kick()
		kicked++
	}
	return kicked
}

// Broadcast writes msg to every live session terminal, best effort. Frame
// writes and broadcasts are serialized per connection by the transport, so
// the worst outcome is a message landing between two frames.
func (r *Registry) Broadcast(msg string) {
	for _, s := range r.Sessions() {
		_, _ = io.WriteString(s.term, msg)
	}
}
