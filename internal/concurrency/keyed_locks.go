package concurrency

import "sync"

// KeyedLocks hands out one mutex per key. The zombie-item service uses it to
// serialize the per-owner capacity check, which is otherwise a check-then-act
// race under concurrent creations for the same owner.
//
// Mutexes are never evicted; the key space here is owner ids, which is small
// and bounded by the zombie collection.
type KeyedLocks struct {
	locks sync.Map
}

// NewKeyedLocks creates an empty lock set.
func NewKeyedLocks() *KeyedLocks {
	return &KeyedLocks{}
}

// Acquire locks the mutex for key and returns its release function.
func (kl *KeyedLocks) Acquire(key string) (release func()) {
	lock, _ := kl.locks.LoadOrStore(key, &sync.Mutex{})
	mu := lock.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
