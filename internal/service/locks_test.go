package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomLocksReturnSameMutexForSameRoom(t *testing.T) {
	locks := newRoomLocks()
	assert.Same(t, locks.get(1), locks.get(1))
	assert.NotSame(t, locks.get(1), locks.get(2))
}

func TestRoomLocksConcurrentGet(t *testing.T) {
	locks := newRoomLocks()

	// 並發取同一把鎖必須拿到同一個實例，否則臨界區就失效了
	results := make([]*sync.Mutex, 50)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n] = locks.get(7)
		}(i)
	}
	wg.Wait()

	for _, m := range results[1:] {
		assert.Same(t, results[0], m)
	}
}

func TestRoomLocksForget(t *testing.T) {
	locks := newRoomLocks()
	before := locks.get(3)
	locks.forget(3)
	assert.NotSame(t, before, locks.get(3))
}

func TestRoomLockSerializesCriticalSection(t *testing.T) {
	locks := newRoomLocks()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lock := locks.get(9)
			lock.Lock()
			counter++
			lock.Unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, counter)
}
