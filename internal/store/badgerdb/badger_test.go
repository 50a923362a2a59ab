package badgerdb_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"news_portal/internal/models"
	"news_portal/internal/store"
	"news_portal/internal/store/badgerdb"
	"news_portal/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := badgerdb.OpenInMemory()
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestStore_PersistsPasswordHashOnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := badgerdb.Open(dir)
	require.NoError(t, err)
	u := &models.User{Username: "auth", PasswordHash: "$2a$10$hash"}
	require.NoError(t, s.CreateUser(ctx, u))
	require.NoError(t, s.Close())

	s, err = badgerdb.Open(dir)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetUserByUsername(ctx, "auth")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, "$2a$10$hash", got.PasswordHash)
	require.NoError(t, s.Ping(ctx))
}

func TestStore_ConcurrentSameSlug(t *testing.T) {
	ctx := context.Background()
	s, err := badgerdb.OpenInMemory()
	require.NoError(t, err)
	defer s.Close()

	author := &models.User{Username: "author", PasswordHash: "x"}
	require.NoError(t, s.CreateUser(ctx, author))

	const writers = 8
	errs := make([]error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.CreateNote(ctx, &models.Note{
				Title:    fmt.Sprintf("Заметка %d", i),
				Text:     "Текст",
				Slug:     "same-slug",
				AuthorID: author.ID,
			})
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, store.ErrDuplicate)
	}
	assert.Equal(t, 1, created)

	n, err := s.CountNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
