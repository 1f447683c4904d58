package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-equitysite/pkg/contact"
	"github.com/goliatone/go-equitysite/pkg/dom"
	"github.com/goliatone/go-equitysite/pkg/testsupport"
)

func TestSessionStore_SweepEvictsIdle(t *testing.T) {
	h := newHarness(t, WithSessionTTL(time.Minute))
	store := h.srv.Sessions()

	idle, err := store.Create()
	require.NoError(t, err)
	h.clock.Advance(45 * time.Second)
	active, err := store.Create()
	require.NoError(t, err)

	h.clock.Advance(30 * time.Second)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())

	_, ok := store.Get(idle.ID)
	assert.False(t, ok)
	_, ok = store.Get(active.ID)
	assert.True(t, ok)

	assert.Equal(t, 0, idle.Page.Window.ListenerCount(dom.EventScroll))
	assert.Equal(t, 0, idle.Page.Document.ListenerCount(dom.EventClick))
	assert.True(t, idle.Form.Disposed())
}

func TestSessionStore_GetRefreshesIdleClock(t *testing.T) {
	h := newHarness(t, WithSessionTTL(time.Minute))
	store := h.srv.Sessions()

	sess, err := store.Create()
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		h.clock.Advance(40 * time.Second)
		_, ok := store.Get(sess.ID)
		require.True(t, ok)
	}
	assert.Equal(t, 0, store.Sweep())
}

func TestSessionStore_EvictionCancelsPendingReset(t *testing.T) {
	h := newHarness(t, WithSessionTTL(time.Minute))
	store := h.srv.Sessions()

	sess, err := store.Create()
	require.NoError(t, err)

	data := testsupport.ValidFormData()
	values := map[contact.Field]string{}
	for _, field := range contact.Fields() {
		values[field] = data.Get(field)
	}
	sess.Do(func() {
		if err = sess.Form.Apply(values); err == nil {
			_, err = sess.Form.Submit(context.Background())
		}
	})
	require.NoError(t, err)

	h.clock.Advance(2 * time.Second)
	store.Delete(sess.ID)
	h.clock.Advance(contact.ResetDelay)

	// a disposed form never leaves Submitted
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, contact.StateSubmitted, sess.Form.Snapshot().State)
}

func TestSessionStore_RunSweepsAndClosesOnCancel(t *testing.T) {
	h := newHarness(t, WithSessionTTL(time.Minute))
	store := h.srv.Sessions()

	_, err := store.Create()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.Run(ctx, 30*time.Second)
		close(done)
	}()

	require.NoError(t, h.clock.BlockUntilContext(ctx, 1))
	testsupport.Eventually(t, time.Second, func() bool {
		h.clock.Advance(30 * time.Second)
		return store.Len() == 0
	}, "idle session should be swept")

	_, err = store.Create()
	require.NoError(t, err)
	cancel()
	<-done
	assert.Equal(t, 0, store.Len())
}
