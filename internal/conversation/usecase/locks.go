package usecase

import (
	"context"
	"sync"
)

// sessionLocks hands out one mutex per session. Entries are dropped when unused.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	ch   chan struct{}
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

// acquire blocks until the session lock is held or ctx is done.
func (s *sessionLocks) acquire(ctx context.Context, id string) (func(), error) {
	s.mu.Lock()
	lk, ok := s.locks[id]
	if !ok {
		lk = &sessionLock{ch: make(chan struct{}, 1)}
		s.locks[id] = lk
	}
	lk.refs++
	s.mu.Unlock()

	select {
	case lk.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-lk.ch
				s.release(id, lk)
			})
		}, nil
	case <-ctx.Done():
		s.release(id, lk)
		return nil, ctx.Err()
	}
}

func (s *sessionLocks) release(id string, lk *sessionLock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lk.refs--
	if lk.refs == 0 {
		delete(s.locks, id)
	}
}

func (s *sessionLocks) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}
