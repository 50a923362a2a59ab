// Package storetest - общий набор проверок для реализаций store.Store.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"news_portal/internal/models"
	"news_portal/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory возвращает пустое хранилище. Закрывать его должен сам Factory через t.Cleanup.
type Factory func(t *testing.T) store.Store

// Run прогоняет все проверки против хранилища из newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"Users", testUsers},
		{"NewsOrdering", testNewsOrdering},
		{"NewsSourceLink", testNewsSourceLink},
		{"Comments", testComments},
		{"CommentIntegrity", testCommentIntegrity},
		{"DeleteNewsCascades", testDeleteNewsCascades},
		{"Notes", testNotes},
		{"NoteSlugUnique", testNoteSlugUnique},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

func createUser(t *testing.T, s store.Store, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, PasswordHash: "x"}
	require.NoError(t, s.CreateUser(context.Background(), u))
	require.NotZero(t, u.ID)
	return u
}

func createNews(t *testing.T, s store.Store, title string, date time.Time) *models.News {
	t.Helper()
	n := &models.News{Title: title, Text: "Текст", Date: date}
	require.NoError(t, s.CreateNews(context.Background(), n))
	require.NotZero(t, n.ID)
	return n
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := createUser(t, s, "Автор")

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Автор", got.Username)
	assert.False(t, got.CreatedAt.IsZero())

	got, err = s.GetUserByUsername(ctx, "Автор")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	err = s.CreateUser(ctx, &models.User{Username: "Автор", PasswordHash: "y"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	_, err = s.GetUser(ctx, u.ID+100)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testNewsOrdering(t *testing.T, s store.Store) {
	ctx := context.Background()
	today := time.Now().UTC().Truncate(time.Second)
	const pageSize = 10

	for i := 0; i <= pageSize; i++ {
		createNews(t, s, fmt.Sprintf("Новость %d", i), today.AddDate(0, 0, -i))
	}

	count, err := s.CountNews(ctx)
	require.NoError(t, err)
	assert.Equal(t, pageSize+1, count)

	list, err := s.ListNews(ctx, pageSize, 0)
	require.NoError(t, err)
	require.Len(t, list, pageSize)
	assert.Equal(t, "Новость 0", list[0].Title)
	for i := 1; i < len(list); i++ {
		assert.True(t, list[i-1].Date.After(list[i].Date), "news must be newest first")
	}

	rest, err := s.ListNews(ctx, pageSize, pageSize)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, fmt.Sprintf("Новость %d", pageSize), rest[0].Title)

	got, err := s.GetNews(ctx, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, list[0].Title, got.Title)
	assert.True(t, list[0].Date.Equal(got.Date))

	_, err = s.GetNews(ctx, 100000)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testNewsSourceLink(t *testing.T, s store.Store) {
	ctx := context.Background()
	n := &models.News{Title: "RSS", Text: "t", SourceLink: "http://example.com/1"}
	require.NoError(t, s.CreateNews(ctx, n))
	assert.False(t, n.Date.IsZero())

	got, err := s.GetNewsBySourceLink(ctx, "http://example.com/1")
	require.NoError(t, err)
	assert.Equal(t, n.ID, got.ID)

	err = s.CreateNews(ctx, &models.News{Title: "RSS again", Text: "t", SourceLink: "http://example.com/1"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	// пустая ссылка не участвует в уникальности
	createNews(t, s, "a", time.Now())
	createNews(t, s, "b", time.Now())

	_, err = s.GetNewsBySourceLink(ctx, "http://example.com/2")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testComments(t *testing.T, s store.Store) {
	ctx := context.Background()
	author := createUser(t, s, "Автор")
	news := createNews(t, s, "Заголовок", time.Now())
	now := time.Now().UTC().Truncate(time.Second)

	// создаём в обратном порядке, чтобы сортировка была заметна
	for i := 1; i >= 0; i-- {
		c := &models.Comment{
			NewsID:   news.ID,
			AuthorID: author.ID,
			Text:     fmt.Sprintf("Текст %d", i),
			Created:  now.AddDate(0, 0, i),
		}
		require.NoError(t, s.CreateComment(ctx, c))
		assert.Equal(t, "Автор", c.Author)
	}

	comments, err := s.ListComments(ctx, news.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.True(t, comments[0].Created.Before(comments[1].Created))
	assert.Equal(t, "Текст 0", comments[0].Text)
	assert.Equal(t, "Автор", comments[0].Author)

	first := comments[0]
	first.Text = "Обновлённый комментарий"
	require.NoError(t, s.UpdateComment(ctx, first))

	got, err := s.GetComment(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Обновлённый комментарий", got.Text)
	assert.Equal(t, author.ID, got.AuthorID)
	assert.Equal(t, news.ID, got.NewsID)

	count, err := s.CountComments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, s.DeleteComment(ctx, first.ID))
	_, err = s.GetComment(ctx, first.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteComment(ctx, first.ID), store.ErrNotFound)
	assert.ErrorIs(t, s.UpdateComment(ctx, first), store.ErrNotFound)

	count, err = s.CountComments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func testCommentIntegrity(t *testing.T, s store.Store) {
	ctx := context.Background()
	author := createUser(t, s, "Автор")
	news := createNews(t, s, "Заголовок", time.Now())

	err := s.CreateComment(ctx, &models.Comment{NewsID: news.ID + 100, AuthorID: author.ID, Text: "t"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.CreateComment(ctx, &models.Comment{NewsID: news.ID, AuthorID: author.ID + 100, Text: "t"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	count, err := s.CountComments(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func testDeleteNewsCascades(t *testing.T, s store.Store) {
	ctx := context.Background()
	author := createUser(t, s, "Автор")
	news := createNews(t, s, "Заголовок", time.Now())
	other := createNews(t, s, "Другая", time.Now())

	require.NoError(t, s.CreateComment(ctx, &models.Comment{NewsID: news.ID, AuthorID: author.ID, Text: "a"}))
	require.NoError(t, s.CreateComment(ctx, &models.Comment{NewsID: other.ID, AuthorID: author.ID, Text: "b"}))

	require.NoError(t, s.DeleteNews(ctx, news.ID))
	assert.ErrorIs(t, s.DeleteNews(ctx, news.ID), store.ErrNotFound)

	count, err := s.CountComments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	comments, err := s.ListComments(ctx, news.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func testNotes(t *testing.T, s store.Store) {
	ctx := context.Background()
	author := createUser(t, s, "auth")
	reader := createUser(t, s, "reader")

	note := &models.Note{Title: "Title", Text: "Text", Slug: "slug", AuthorID: author.ID}
	require.NoError(t, s.CreateNote(ctx, note))
	require.NotZero(t, note.ID)
	require.NoError(t, s.CreateNote(ctx, &models.Note{Title: "Other", Text: "Text", Slug: "other", AuthorID: reader.ID}))

	got, err := s.GetNoteBySlug(ctx, "slug")
	require.NoError(t, err)
	assert.Equal(t, "Title", got.Title)
	assert.Equal(t, author.ID, got.AuthorID)

	mine, err := s.ListNotesByAuthor(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "slug", mine[0].Slug)

	got.Text = "New text"
	got.Slug = "new-slug"
	require.NoError(t, s.UpdateNote(ctx, got))
	_, err = s.GetNoteBySlug(ctx, "slug")
	assert.ErrorIs(t, err, store.ErrNotFound)
	updated, err := s.GetNoteBySlug(ctx, "new-slug")
	require.NoError(t, err)
	assert.Equal(t, "New text", updated.Text)

	count, err := s.CountNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, s.DeleteNote(ctx, updated.ID))
	assert.ErrorIs(t, s.DeleteNote(ctx, updated.ID), store.ErrNotFound)
	assert.ErrorIs(t, s.UpdateNote(ctx, updated), store.ErrNotFound)

	count, err = s.CountNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func testNoteSlugUnique(t *testing.T, s store.Store) {
	ctx := context.Background()
	author := createUser(t, s, "auth")

	first := &models.Note{Title: "Title", Text: "Text", Slug: "slug", AuthorID: author.ID}
	require.NoError(t, s.CreateNote(ctx, first))

	err := s.CreateNote(ctx, &models.Note{Title: "title", Text: "text", Slug: "slug", AuthorID: author.ID})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	second := &models.Note{Title: "Second", Text: "Text", Slug: "second", AuthorID: author.ID}
	require.NoError(t, s.CreateNote(ctx, second))

	// обновление без смены slug допустимо, захват чужого - нет
	first.Text = "changed"
	require.NoError(t, s.UpdateNote(ctx, first))
	second.Slug = "slug"
	assert.ErrorIs(t, s.UpdateNote(ctx, second), store.ErrDuplicate)

	count, err := s.CountNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	err = s.CreateNote(ctx, &models.Note{Title: "t", Text: "t", Slug: "orphan", AuthorID: author.ID + 100})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
