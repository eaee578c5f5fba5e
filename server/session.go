package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ardnew/smscr/rctx"
)

// SessionCookie is the name of the cookie carrying the session id.
const SessionCookie = "sid"

type session struct {
	id      string
	expires time.Time
	params  *rctx.Params
}

// sessions is the set of live sessions. Expired sessions are removed lazily
// when a lookup happens at least one timeout after the previous sweep.
type sessions struct {
	mu      sync.Mutex
	m       map[string]*session
	timeout time.Duration
	swept   time.Time
	now     func() time.Time
}

func newSessions(timeout time.Duration) *sessions {
	return &sessions{
		m:       make(map[string]*session),
		timeout: timeout,
		now:     time.Now,
	}
}

// acquire returns the live session with id sid and extends its lifetime.
// If there is none, a new session is created and created is true.
func (s *sessions) acquire(sid string) (sess *session, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	if now.Sub(s.swept) >= s.timeout {
		for id, e := range s.m {
			if now.After(e.expires) {
				delete(s.m, id)
			}
		}

		s.swept = now
	}

	if e, ok := s.m[sid]; ok && !now.After(e.expires) {
		e.expires = now.Add(s.timeout)

		return e, false
	}

	delete(s.m, sid)

	e := &session{
		id:      uuid.NewString(),
		expires: now.Add(s.timeout),
		params:  new(rctx.Params),
	}
	s.m[e.id] = e

	return e, true
}

func (s *sessions) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.m)
}
