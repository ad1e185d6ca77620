package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	store := NewMemoryStore()

	assert.False(t, store.Valid("sid"))
	store.Create("sid")
	assert.True(t, store.Valid("sid"))
	store.Revoke("sid")
	assert.False(t, store.Valid("sid"))

	// Revoking an unknown id is a no-op.
	store.Revoke("never-created")
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("sid-%d", n)
			store.Create(id)
			store.Valid(id)
			store.Revoke(id)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		assert.False(t, store.Valid(fmt.Sprintf("sid-%d", i)))
	}
}
