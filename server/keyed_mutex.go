package server

import "sync"

// keyedMutex serializes requests per client key. Each client drives a single
// simulation, so its state-changing requests must not interleave; different
// clients stay fully concurrent.
type keyedMutex struct {
	locks sync.Map // client key -> *sync.Mutex
}

func (k *keyedMutex) Lock(key string) {
	lock, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	lock.(*sync.Mutex).Lock()
}

func (k *keyedMutex) Unlock(key string) {
	lock, ok := k.locks.Load(key)
	if !ok {
		return
	}
	lock.(*sync.Mutex).Unlock()
}
