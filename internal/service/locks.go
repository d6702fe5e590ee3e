package service

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// keyedMutex serializes work per ticket id using striped locks. Two tickets
// may share a stripe; that only costs throughput, never correctness.
type keyedMutex struct {
	stripes [lockStripes]sync.Mutex
}

func (k *keyedMutex) lock(key string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	m := &k.stripes[h.Sum32()%lockStripes]
	m.Lock()
	return m
}
