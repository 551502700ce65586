package utils

import "sync"

// KeyedMutex serializes critical sections per key. Reservation uses it keyed
// by schedule id so concurrent reserve calls for the same screening cannot
// interleave between seat read and seat write, while independent screenings
// proceed fully in parallel.
//
// Mutex entries are never evicted; the key space is bounded by live schedules.
type KeyedMutex struct {
	locks sync.Map // key -> *sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{}
}

func (k *KeyedMutex) Lock(key string) {
	mu, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
}

func (k *KeyedMutex) Unlock(key string) {
	mu, ok := k.locks.Load(key)
	if !ok {
		panic("utils: unlock of unknown key " + key)
	}
	mu.(*sync.Mutex).Unlock()
}
