package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-equitysite/pkg/contact"
	"github.com/goliatone/go-equitysite/pkg/testsupport"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "data", "submissions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func submission(at time.Time) contact.Submission {
	return contact.Submission{
		ID:         uuid.New(),
		ReceivedAt: at,
		Data:       testsupport.ValidFormData(),
	}
}

func TestStore_AcceptAndGet(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	sub := submission(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, store.Accept(ctx, sub))

	got, err := store.Get(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, got.ID)
	assert.True(t, sub.ReceivedAt.Equal(got.ReceivedAt))
	assert.Equal(t, sub.Data, got.Data)
}

func TestStore_KeepsRawText(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	cases := map[string]string{
		"markup name":       "<b>",
		"angle brackets":    "ratio x<y>z matters",
		"script and entity": `<script>alert("x")</script>Need help & advice`,
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			sub := submission(time.Now())
			sub.Data.Name = value
			sub.Data.Message = value
			require.NoError(t, store.Accept(ctx, sub))

			got, err := store.Get(ctx, sub.ID)
			require.NoError(t, err)
			assert.Equal(t, value, got.Data.Name)
			assert.Equal(t, value, got.Data.Message)
		})
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		sub := submission(base.Add(time.Duration(i) * time.Minute))
		ids = append(ids, sub.ID)
		require.NoError(t, store.Accept(ctx, sub))
	}

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID)
	assert.Equal(t, ids[0], all[2].ID)

	limited, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// half a second apart inside the same wall-clock second
	whole := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	older := submission(whole)
	newer := submission(whole.Add(500 * time.Millisecond))
	require.NoError(t, store.Accept(ctx, newer))
	require.NoError(t, store.Accept(ctx, older))

	latest, err := store.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, newer.ID, latest[0].ID)
	assert.True(t, newer.ReceivedAt.Equal(latest[0].ReceivedAt))
}

func TestStore_DuplicateIDRejected(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	sub := submission(time.Now())
	require.NoError(t, store.Accept(ctx, sub))
	assert.Error(t, store.Accept(ctx, sub))
}

func TestStore_GetUnknown(t *testing.T) {
	store := setupStore(t)
	_, err := store.Get(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_Closed(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	ctx := context.Background()
	assert.ErrorIs(t, store.Accept(ctx, submission(time.Now())), ErrClosed)
	_, err := store.List(ctx, 0)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = store.Count(ctx)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestStore_AsFormSink(t *testing.T) {
	store, err := Open(MemoryPath)
	require.NoError(t, err)
	defer store.Close()

	form := contact.NewForm(contact.WithSink(store), contact.WithClock(testsupport.FakeClock()))
	values := map[contact.Field]string{}
	data := testsupport.ValidFormData()
	for _, field := range contact.Fields() {
		values[field] = data.Get(field)
	}
	require.NoError(t, form.Apply(values))

	errs, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, errs.Empty())

	list, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, form.Snapshot().Last.ID, list[0].ID)
	assert.Equal(t, testsupport.FakeClock().Now().UTC(), list[0].ReceivedAt)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
