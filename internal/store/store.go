// Package store описывает хранилище портала. Реализации: memory, postgres, badgerdb.
package store

import (
	"context"
	"errors"

	"news_portal/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type UserStore interface {
	// CreateUser возвращает ErrDuplicate, если имя пользователя занято.
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type NewsStore interface {
	CreateNews(ctx context.Context, n *models.News) error
	GetNews(ctx context.Context, id int64) (*models.News, error)
	GetNewsBySourceLink(ctx context.Context, link string) (*models.News, error)
	// ListNews возвращает новости от новых к старым.
	ListNews(ctx context.Context, limit, offset int) ([]*models.News, error)
	CountNews(ctx context.Context) (int, error)
	// DeleteNews удаляет новость вместе с комментариями.
	DeleteNews(ctx context.Context, id int64) error

	// CreateComment возвращает ErrNotFound, если нет новости или автора.
	CreateComment(ctx context.Context, c *models.Comment) error
	GetComment(ctx context.Context, id int64) (*models.Comment, error)
	// ListComments возвращает комментарии новости от старых к новым.
	ListComments(ctx context.Context, newsID int64) ([]*models.Comment, error)
	UpdateComment(ctx context.Context, c *models.Comment) error
	DeleteComment(ctx context.Context, id int64) error
	CountComments(ctx context.Context) (int, error)
}

type NoteStore interface {
	// CreateNote возвращает ErrDuplicate, если slug занят.
	CreateNote(ctx context.Context, n *models.Note) error
	GetNoteBySlug(ctx context.Context, slug string) (*models.Note, error)
	ListNotesByAuthor(ctx context.Context, authorID int64) ([]*models.Note, error)
	UpdateNote(ctx context.Context, n *models.Note) error
	DeleteNote(ctx context.Context, id int64) error
	CountNotes(ctx context.Context) (int, error)
}

// Store объединяет все репозитории одного бэкенда.
type Store interface {
	UserStore
	NewsStore
	NoteStore
	Ping(ctx context.Context) error
	Close() error
}
