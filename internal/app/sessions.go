package app

import (
	"sync"

	"github.com/dkeye/clustchat/internal/domain"
)

// Conn is the slice of a live connection the Sessions registry and Fanout
// need: write one already-formatted line to the socket. Connection Session
// adapters implement this directly on their net.Conn wrapper.
type Conn interface {
	WriteLine(line string) error
}

// Sessions is the per-node registry of user_number -> live connection
// (spec §4.7). The Command Dispatcher binds an entry on LOGIN and clears
// it on LOG OUT / connection close; Fanout consults it to find who on this
// node can actually receive a broadcast right now.
type Sessions struct {
	mu    sync.RWMutex
	conns map[domain.UserNumber]Conn
}

func NewSessions() *Sessions {
	return &Sessions{conns: make(map[domain.UserNumber]Conn)}
}

func (s *Sessions) Bind(number domain.UserNumber, conn Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[number] = conn
}

func (s *Sessions) Unbind(number domain.UserNumber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, number)
}

func (s *Sessions) Get(number domain.UserNumber) (Conn, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.conns[number]
	return c, ok
}
