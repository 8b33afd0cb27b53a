package usecase

import "sync"

type sessionLock struct {
	sync.Mutex
	refs int
}

// sessionLocks hands out one mutex per session id and forgets it once nobody holds it.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

func (that *sessionLocks) lock(id string) func() {
	that.mu.Lock()
	entry, ok := that.locks[id]
	if !ok {
		entry = &sessionLock{}
		that.locks[id] = entry
	}
	entry.refs++
	that.mu.Unlock()

	entry.Lock()

	return func() {
		entry.Unlock()

		that.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(that.locks, id)
		}
		that.mu.Unlock()
	}
}

func (that *sessionLocks) size() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.locks)
}
