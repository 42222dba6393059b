package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/arbor"
)

func TestKey_CaseInsensitiveCompany(t *testing.T) {
	assert.Equal(t, Key("Acme Corp", "generate_report"), Key("acme corp", "generate_report"))
	assert.NotEqual(t, Key("Acme Corp", "generate_report"), Key("Acme Corp", "other_action"))
	assert.NotEqual(t, Key("Acme Corp", "generate_report"), Key("Other Corp", "generate_report"))
}

func TestStartCompleteLifecycle(t *testing.T) {
	service := NewService(arbor.NewLogger())
	key := Key("Acme", "generate_report")

	started, sessionID := service.Start(key, "session_1")
	assert.True(t, started)
	assert.Equal(t, "session_1", sessionID)
	assert.True(t, service.IsActive(key))

	// A second request for the same key is suppressed and handed the
	// original session ID.
	started, sessionID = service.Start(key, "session_2")
	assert.False(t, started)
	assert.Equal(t, "session_1", sessionID)

	service.Complete(key)
	assert.False(t, service.IsActive(key))

	started, _ = service.Start(key, "session_3")
	assert.True(t, started)
}

func TestStart_ConcurrentSingleWinner(t *testing.T) {
	service := NewService(arbor.NewLogger())
	key := Key("Acme", "generate_report")

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if started, _ := service.Start(key, "session_n"); started {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, 1, service.ActiveCount())
}
