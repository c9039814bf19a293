package repository

import "sync"

// AccountLocker serializes work on one account inside this process. The row
// lock taken by AccountRepository.GetForUpdate covers other processes.
type AccountLocker interface {
	Lock(userID string) (unlock func())
}

type accountLocker struct {
	mu    sync.Mutex
	locks map[string]*accountLock
}

type accountLock struct {
	mu      sync.Mutex
	waiters int
}

func NewAccountLocker() AccountLocker {
	return &accountLocker{locks: make(map[string]*accountLock)}
}

func (l *accountLocker) Lock(userID string) func() {
	l.mu.Lock()
	lock, ok := l.locks[userID]
	if !ok {
		lock = &accountLock{}
		l.locks[userID] = lock
	}
	lock.waiters++
	l.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		l.mu.Lock()
		lock.waiters--
		if lock.waiters == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}
