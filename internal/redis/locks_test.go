package redis

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_LockUnlock(t *testing.T) {
	km := newKeyedMutex()

	unlock := km.Lock("post/1")
	assert.Equal(t, 1, km.size())

	unlock()
	assert.Equal(t, 0, km.size(), "entry must be removed on release")
}

func TestKeyedMutex_DifferentKeysDoNotBlock(t *testing.T) {
	km := newKeyedMutex()

	unlockA := km.Lock("post/1")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := km.Lock("post/2")
		unlockB()
		close(done)
	}()

	<-done // would deadlock if post/2 waited on post/1
}

func TestKeyedMutex_SameKeySerializes(t *testing.T) {
	km := newKeyedMutex()

	var mu sync.Mutex
	var active, maxActive int

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("comment/42")
			defer unlock()

			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxActive, "at most one holder per key")
	assert.Equal(t, 0, km.size(), "no leaked entries after all releases")
}

func TestClassifySide(t *testing.T) {
	assert.Equal(t, sideAbsent, classifySide(false, false))
	assert.Equal(t, sideSet, classifySide(true, false))
	assert.Equal(t, sideEmptyVerified, classifySide(false, true))
	// a set wins over a stale sentinel
	assert.Equal(t, sideSet, classifySide(true, true))

	assert.False(t, sideAbsent.hydrated())
	assert.True(t, sideSet.hydrated())
	assert.True(t, sideEmptyVerified.hydrated())
}
