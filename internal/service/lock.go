package service

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// stripedMutex hands out one of a fixed set of mutexes per key. Distinct
// keys may share a stripe; the same key always maps to the same stripe, so
// holders of one key are mutually exclusive. Bounded memory regardless of
// how many keys pass through.
type stripedMutex struct {
	stripes [lockStripes]sync.Mutex
}

func (m *stripedMutex) lock(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key))
	mu := &m.stripes[h.Sum32()%lockStripes]
	mu.Lock()
	return mu
}
