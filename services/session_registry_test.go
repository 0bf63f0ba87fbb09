package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vnkhanh/sloka-backend/models"
)

func TestSessionRegistryAddRemoveClear(t *testing.T) {
	r := NewSessionRegistry()
	r.Add("s1")
	r.Add("s2")
	assert.Equal(t, 2, r.Size())
	assert.True(t, r.Contains("s1"))

	assert.True(t, r.Remove("s1"))
	assert.False(t, r.Remove("s1"))
	assert.Equal(t, 1, r.Size())

	assert.Equal(t, 1, r.Clear())
	assert.Equal(t, 0, r.Size())
}

func TestSessionRegistryConcurrentAccess(t *testing.T) {
	r := NewSessionRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i)
			r.Add(id)
			_ = r.Size()
			if i%2 == 0 {
				r.Remove(id)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 25, r.Size())
}

func TestSessionRegistryPrune(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewSessionRegistry()
	r.now = func() time.Time { return base }
	r.Add("old")
	r.now = func() time.Time { return base.Add(50 * time.Minute) }
	r.Add("new")

	r.now = func() time.Time { return base.Add(61 * time.Minute) }
	assert.Equal(t, 1, r.Prune(time.Hour))
	assert.False(t, r.Contains("old"))
	assert.True(t, r.Contains("new"))
}

func TestNewSessionID(t *testing.T) {
	at := time.Unix(1700000000, 250000000)
	assert.Equal(t, "student_a@x.com_1700000000.250000", NewSessionID(models.KindStudent, "a@x.com", at))
}
