package hostutil_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aarroyoc/esgueva/internal/hostutil"
)

func TestWithTimeoutReturnsFnResultWhenFnFinishesFirst(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := hostutil.WithTimeout(ctx, "quick", func() error { return nil })
	assert.NoError(t, err)
}

func TestWithTimeoutPropagatesFnError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	boom := errors.New("boom")
	err := hostutil.WithTimeout(ctx, "failing", func() error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestWithTimeoutReturnsDeadlineExceededWhenFnIsSlow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	err := hostutil.WithTimeout(ctx, "slow query", func() error {
		<-done
		return nil
	})
	close(done)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWithTimeoutHonorsExplicitCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		cancel()
	}()

	err := hostutil.WithTimeout(ctx, "cancelled", func() error {
		<-done
		return nil
	})
	close(done)

	assert.ErrorIs(t, err, context.Canceled)
}
