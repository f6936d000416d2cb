package cleanup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOnceExecutesAllTasks(t *testing.T) {
	s := NewSweeper("*/5 * * * *")

	var ran []string
	s.Register("first", func(ctx context.Context) error {
		ran = append(ran, "first")
		return nil
	})
	s.Register("second", func(ctx context.Context) error {
		ran = append(ran, "second")
		return nil
	})

	require.NoError(t, s.RunOnce(context.Background()))
	assert.Equal(t, []string{"first", "second"}, ran)
}

func TestRunOnceContinuesPastFailures(t *testing.T) {
	s := NewSweeper("*/5 * * * *")

	boom := errors.New("boom")
	var secondRan bool
	s.Register("failing", func(ctx context.Context) error {
		return boom
	})
	s.Register("surviving", func(ctx context.Context) error {
		secondRan = true
		return nil
	})

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, secondRan, "later tasks must still run after a failure")
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := NewSweeper("not a schedule")

	err := s.Start(context.Background())
	require.Error(t, err)
}
