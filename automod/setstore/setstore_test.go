package setstore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemSetStoreBasics(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s := NewMemSetStore()

	out, err := s.InSet(ctx, AllowListSetName, "123")
	assert.NoError(err)
	assert.False(out)

	assert.NoError(s.AddToSet(ctx, AllowListSetName, "123"))
	out, err = s.InSet(ctx, AllowListSetName, "123")
	assert.NoError(err)
	assert.True(out)

	assert.NoError(s.RemoveFromSet(ctx, AllowListSetName, "123"))
	out, err = s.InSet(ctx, AllowListSetName, "123")
	assert.NoError(err)
	assert.False(out)

	// removing an absent value is not an error
	assert.NoError(s.RemoveFromSet(ctx, AllowListSetName, "never-added"))
	assert.NoError(s.RemoveFromSet(ctx, "no-such-set", "123"))
}

func TestMemSetStoreConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemSetStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			val := fmt.Sprintf("user-%d", i)
			for j := 0; j < 100; j++ {
				_ = s.AddToSet(ctx, AllowListSetName, val)
				_, _ = s.InSet(ctx, AllowListSetName, val)
				_ = s.RemoveFromSet(ctx, AllowListSetName, val)
			}
		}(i)
	}
	wg.Wait()
}
