package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocal_Delivers(t *testing.T) {
	delivered := make(chan Payload, 1)
	s := NewLocal(zap.NewNop(), func(p Payload) { delivered <- p })

	id, err := s.ScheduleAt(context.Background(), "t1", time.Now().Add(10*time.Millisecond), Payload{TaskID: "t1", Title: "Essay"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	select {
	case p := <-delivered:
		assert.Equal(t, "t1", p.TaskID)
	case <-time.After(2 * time.Second):
		t.Fatal("reminder was not delivered")
	}
	assert.Eventually(t, func() bool { return s.Pending() == 0 }, time.Second, 10*time.Millisecond)
}

func TestLocal_Cancel(t *testing.T) {
	delivered := make(chan Payload, 1)
	s := NewLocal(zap.NewNop(), func(p Payload) { delivered <- p })

	id, err := s.ScheduleAt(context.Background(), "t1", time.Now().Add(50*time.Millisecond), Payload{TaskID: "t1"})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Pending())

	require.NoError(t, s.Cancel(id))
	assert.Equal(t, 0, s.Pending())

	select {
	case <-delivered:
		t.Fatal("cancelled reminder was delivered")
	case <-time.After(150 * time.Millisecond):
	}

	// Cancelling twice or an unknown handle is harmless
	assert.NoError(t, s.Cancel(id))
	assert.NoError(t, s.Cancel("unknown"))
}

func TestLocal_PastTime(t *testing.T) {
	s := NewLocal(zap.NewNop(), nil)
	_, err := s.ScheduleAt(context.Background(), "t1", time.Now().Add(-time.Minute), Payload{})
	assert.ErrorIs(t, err, ErrPastTime)
}

func TestLocal_CancelledContext(t *testing.T) {
	s := NewLocal(zap.NewNop(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ScheduleAt(ctx, "t1", time.Now().Add(time.Hour), Payload{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocal_Stop(t *testing.T) {
	s := NewLocal(zap.NewNop(), nil)
	for i := 0; i < 3; i++ {
		_, err := s.ScheduleAt(context.Background(), "t", time.Now().Add(time.Hour), Payload{})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, s.Pending())

	s.Stop()
	assert.Equal(t, 0, s.Pending())
}
