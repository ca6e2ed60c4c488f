// Package lock provides per-account mutexes so concurrent settlement and
// withdrawal calls for the same account serialize before touching the
// database transaction.
package lock

import (
	"sync"
)

type AccountLock struct {
	locks sync.Map // map[int]*sync.Mutex
}

func New() *AccountLock {
	return &AccountLock{}
}

func (l *AccountLock) get(accountID int) *sync.Mutex {
	if v, ok := l.locks.Load(accountID); ok {
		return v.(*sync.Mutex)
	}
	actual, _ := l.locks.LoadOrStore(accountID, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// WithLock runs fn while holding the account's mutex.
func (l *AccountLock) WithLock(accountID int, fn func() error) error {
	mu := l.get(accountID)
	mu.Lock()
	defer mu.Unlock()
	return fn()
}
