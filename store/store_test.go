package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"montage/gentime"
	"montage/project"
	"montage/timeline"
)

// NewTestStore creates a new in-memory store with a fake clock
func NewTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(":memory:")
	require.NoError(t, err, "failed to open test store")
	require.NoError(t, s.Migrate(context.Background()), "failed to run migrations")

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func newDocument(t *testing.T, name string, clips int) *project.Document {
	t.Helper()
	d := project.New(name, gentime.Rate25)
	require.NoError(t, d.Media.Add(timeline.NewMedia("m", "m", "/m.mov", gentime.Seconds(100), true, true)))
	track := d.AddTrack(timeline.KindVideo)
	for i := 0; i < clips; i++ {
		c, err := d.NewClip("m", gentime.Seconds(int64(i*10)), gentime.Zero, gentime.Seconds(5))
		require.NoError(t, err)
		require.True(t, track.AddClip(c, false))
	}
	return d
}

func TestMigrateIsRepeatable(t *testing.T) {
	s := NewTestStore(t)
	require.NoError(t, s.Migrate(context.Background()))

	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='snapshots'").Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestSaveAndLatest(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()

	first, err := s.Save(ctx, "reel", newDocument(t, "reel", 1))
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	require.Positive(t, first.Size)

	second, err := s.Save(ctx, "reel", newDocument(t, "reel", 3))
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
	require.True(t, second.CreatedAt.After(first.CreatedAt))

	_, err = s.Save(ctx, "other", newDocument(t, "other", 2))
	require.NoError(t, err)

	doc, err := s.Latest(ctx, "reel")
	require.NoError(t, err)
	require.Equal(t, "reel", doc.Name)
	require.Len(t, doc.Clips(), 3)
	require.True(t, doc.Length().Equal(gentime.Seconds(25)))

	older, err := s.Get(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, older.Clips(), 1)

	_, err = s.Latest(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListAndDelete(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()

	a, err := s.Save(ctx, "a", newDocument(t, "a", 1))
	require.NoError(t, err)
	b, err := s.Save(ctx, "b", newDocument(t, "b", 1))
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, b.ID, list[0].ID)
	require.Equal(t, a.ID, list[1].ID)
	require.Equal(t, a.Size, list[1].Size)
	require.True(t, a.CreatedAt.Equal(list[1].CreatedAt))

	require.NoError(t, s.Delete(ctx, a.ID))
	require.ErrorIs(t, s.Delete(ctx, a.ID), ErrNotFound)

	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "b", list[0].Name)
}

func TestFileBackedStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "montage.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Migrate(ctx))
	saved, err := s.Save(ctx, "reel", newDocument(t, "reel", 2))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	doc, err := reopened.Get(ctx, saved.ID)
	require.NoError(t, err)
	require.Len(t, doc.Clips(), 2)
}
