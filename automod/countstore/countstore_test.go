package countstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemCountStoreBasics(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s := NewMemCountStore()

	c, err := s.GetCount(ctx, "violations", "user-1", PeriodTotal)
	assert.NoError(err)
	assert.Equal(0, c)

	assert.NoError(s.Increment(ctx, "violations", "user-1"))
	assert.NoError(s.Increment(ctx, "violations", "user-1"))

	for _, period := range []string{PeriodTotal, PeriodDay, PeriodHour} {
		c, err = s.GetCount(ctx, "violations", "user-1", period)
		assert.NoError(err)
		assert.Equal(2, c)
	}

	c, err = s.GetCount(ctx, "violations", "user-2", PeriodTotal)
	assert.NoError(err)
	assert.Equal(0, c)
}

func TestMemCountStoreDistinct(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s := NewMemCountStore()

	assert.NoError(s.IncrementDistinct(ctx, "targets", "user-1", "chan-a"))
	assert.NoError(s.IncrementDistinct(ctx, "targets", "user-1", "chan-a"))
	assert.NoError(s.IncrementDistinct(ctx, "targets", "user-1", "chan-b"))

	c, err := s.GetCountDistinct(ctx, "targets", "user-1", PeriodTotal)
	assert.NoError(err)
	assert.Equal(2, c)
}
