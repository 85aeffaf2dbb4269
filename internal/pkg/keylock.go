package pkg

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

const DefaultLockShards = 256

// KeyLock serialises work per key. Keys are hashed onto a fixed set of
// mutexes, so two keys may share a shard but one key always maps to the same one.
type KeyLock struct {
	shards []sync.Mutex
}

func NewKeyLock(shards int) *KeyLock {
	if shards <= 0 {
		shards = DefaultLockShards
	}

	return &KeyLock{shards: make([]sync.Mutex, shards)}
}

// Lock acquires the mutex for key and returns the function releasing it.
func (that *KeyLock) Lock(key string) func() {
	mu := &that.shards[that.shard(key)]
	mu.Lock()

	return mu.Unlock
}

func (that *KeyLock) shard(key string) uint64 {
	return xxhash.Sum64String(key) % uint64(len(that.shards))
}
