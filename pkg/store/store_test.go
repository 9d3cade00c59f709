package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	store "github.com/mutablelogic/go-filebox/pkg/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	dir := t.TempDir()
	s, err := store.New(context.Background(),
		store.WithDir(filepath.Join(dir, "files")),
		store.WithMetadataPath(filepath.Join(dir, "meta.json")),
	)
	require.NoError(t, err)
	return s
}

func TestAddGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Add(ctx, "a.txt", []byte("HELLO"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	body, name, err := s.Get(ctx, store.ByID(id))
	require.NoError(t, err)
	assert.Equal(t, "a.txt", name)
	assert.Equal(t, []byte("HELLO"), body)
}

func TestAddDuplicateNameFails(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Add(ctx, "a.txt", []byte("x"))
	require.NoError(t, err)
	_, err = s.Add(ctx, "a.txt", []byte("y"))
	require.Error(t, err)
}

func TestRenameThenGetByNewName(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Add(ctx, "a.txt", []byte("x"))
	require.NoError(t, err)

	_, err = s.Rename(ctx, store.ByID(id), "b.txt")
	require.NoError(t, err)

	byName, _, err := s.Get(ctx, store.ByName("b.txt"))
	require.NoError(t, err)
	byID, _, err := s.Get(ctx, store.ByID(id))
	require.NoError(t, err)
	assert.Equal(t, byName, byID)
}

func TestRenameCollisionFails(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Add(ctx, "a.txt", []byte("x"))
	require.NoError(t, err)
	_, err = s.Add(ctx, "b.txt", []byte("y"))
	require.NoError(t, err)

	_, err = s.Rename(ctx, store.ByID(id), "b.txt")
	require.Error(t, err)
}

func TestDeleteThenAddSameNameGetsNextID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id1, err := s.Add(ctx, "a.txt", []byte("x"))
	require.NoError(t, err)
	_, err = s.Delete(ctx, store.ByID(id1))
	require.NoError(t, err)

	id2, err := s.Add(ctx, "a.txt", []byte("y"))
	require.NoError(t, err)
	assert.Equal(t, id1+1, id2)

	_, _, err = s.Get(ctx, store.ByID(id1))
	require.Error(t, err)
}

func TestOverrideUpdatesSize(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Add(ctx, "a.txt", []byte("x"))
	require.NoError(t, err)

	entry, err := s.Override(ctx, store.ByID(id), []byte("xyz"))
	require.NoError(t, err)
	assert.Equal(t, "0 kb (3 bytes)", entry.Size)

	body, _, err := s.Get(ctx, store.ByID(id))
	require.NoError(t, err)
	assert.Equal(t, []byte("xyz"), body)
}

func TestListAllAndQuery(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id1, err := s.Add(ctx, "report.txt", []byte("x"))
	require.NoError(t, err)
	_, err = s.Add(ctx, "photo.png", []byte("y"))
	require.NoError(t, err)

	all, err := s.List(ctx, "all")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byName, err := s.List(ctx, "report")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, id1, byName[0].ID)
}

func TestFlushAndReload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	metaPath := filepath.Join(dir, "meta.json")
	filesDir := filepath.Join(dir, "files")

	s1, err := store.New(ctx, store.WithDir(filesDir), store.WithMetadataPath(metaPath))
	require.NoError(t, err)
	id, err := s1.Add(ctx, "a.txt", []byte("HELLO"))
	require.NoError(t, err)
	require.NoError(t, s1.Flush(ctx))

	s2, err := store.New(ctx, store.WithDir(filesDir), store.WithMetadataPath(metaPath))
	require.NoError(t, err)
	entry, err := s2.View(ctx, store.ByID(id))
	require.NoError(t, err)
	assert.Equal(t, "a.txt", entry.Name)
}

func TestTypeTag(t *testing.T) {
	assert.Equal(t, "<TXT>", store.TypeTag("a.txt"))
	assert.Equal(t, "<NULL>", store.TypeTag("README"))
	assert.Equal(t, "<JPEG>", store.TypeTag("photo.jpeg"))
}

func TestTotalSizeReflectsReload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	metaPath := filepath.Join(dir, "meta.json")
	filesDir := filepath.Join(dir, "files")

	s1, err := store.New(ctx, store.WithDir(filesDir), store.WithMetadataPath(metaPath))
	require.NoError(t, err)
	_, err = s1.Add(ctx, "a.txt", []byte("HELLO"))
	require.NoError(t, err)
	require.Equal(t, "5 B", s1.TotalSize())
	require.NoError(t, s1.Flush(ctx))

	s2, err := store.New(ctx, store.WithDir(filesDir), store.WithMetadataPath(metaPath))
	require.NoError(t, err)
	assert.Equal(t, "5 B", s2.TotalSize())
}
