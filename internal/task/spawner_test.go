package task

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnerExpectedEqualsReceived(t *testing.T) {
	s := NewSpawner(8)
	s.Spawn("a", CommitDetails, func() (any, error) { return 1, nil })
	s.Spawn("b", AheadBehind, func() (any, error) { return 2, nil })
	s.CloseWhenDrained()

	count := 0
	for range s.Results() {
		count++
	}
	assert.Equal(t, 2, count)
	assert.True(t, s.Completion())
	assert.Equal(t, s.ExpectedCount(), s.ReceivedCount())
}

func TestSpawnerRecoversPanicAsSentinel(t *testing.T) {
	s := NewSpawner(4)
	s.Spawn("a", Status, func() (any, error) { panic("boom") })
	s.CloseWhenDrained()

	var got Result
	select {
	case got = <-s.Results():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for result")
	}
	require.Error(t, got.Err)
	assert.Contains(t, got.Err.Error(), "boom")
	assert.True(t, s.Completion())
}

func TestSpawnerPropagatesError(t *testing.T) {
	s := NewSpawner(4)
	wantErr := errors.New("upstream missing")
	s.Spawn("a", Upstream, func() (any, error) { return nil, wantErr })
	s.CloseWhenDrained()

	r := <-s.Results()
	assert.Equal(t, wantErr, r.Err)
}
