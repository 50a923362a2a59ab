// Package memory хранит данные портала в памяти процесса.
// Используется в тестах и при storage.driver = "memory".
package memory

import (
	"context"
	"sync"

	"news_portal/internal/models"
	"news_portal/internal/paginate"
	"news_portal/internal/store"
)

type Store struct {
	mutex sync.RWMutex

	users    map[int64]*models.User
	news     map[int64]*models.News
	comments map[int64]*models.Comment
	notes    map[int64]*models.Note

	// порядок вставки нужен для стабильной сортировки
	newsOrder    []int64
	commentOrder []int64
	noteOrder    []int64

	nextUserID    int64
	nextNewsID    int64
	nextCommentID int64
	nextNoteID    int64
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:    make(map[int64]*models.User),
		news:     make(map[int64]*models.News),
		comments: make(map[int64]*models.Comment),
		notes:    make(map[int64]*models.Note),
	}
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close() error { return nil }

// Users

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, existing := range s.users {
		if existing.Username == u.Username {
			return store.ErrDuplicate
		}
	}
	u.BeforeCreate()
	s.nextUserID++
	u.ID = s.nextUserID
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

// News

func (s *Store) CreateNews(ctx context.Context, n *models.News) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if n.SourceLink != "" {
		for _, existing := range s.news {
			if existing.SourceLink == n.SourceLink {
				return store.ErrDuplicate
			}
		}
	}
	n.BeforeCreate()
	s.nextNewsID++
	n.ID = s.nextNewsID
	cp := *n
	s.news[n.ID] = &cp
	s.newsOrder = append(s.newsOrder, n.ID)
	return nil
}

func (s *Store) GetNews(ctx context.Context, id int64) (*models.News, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	n, ok := s.news[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (s *Store) GetNewsBySourceLink(ctx context.Context, link string) (*models.News, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if link == "" {
		return nil, store.ErrNotFound
	}
	for _, n := range s.news {
		if n.SourceLink == link {
			cp := *n
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListNews(ctx context.Context, limit, offset int) ([]*models.News, error) {
	s.mutex.RLock()
	all := make([]*models.News, 0, len(s.newsOrder))
	for _, id := range s.newsOrder {
		cp := *s.news[id]
		all = append(all, &cp)
	}
	s.mutex.RUnlock()

	return paginate.Window(paginate.Newest(all, 0), limit, offset), nil
}

func (s *Store) CountNews(ctx context.Context) (int, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.news), nil
}

func (s *Store) DeleteNews(ctx context.Context, id int64) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.news[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.news, id)
	s.newsOrder = remove(s.newsOrder, id)

	for cid, c := range s.comments {
		if c.NewsID == id {
			delete(s.comments, cid)
			s.commentOrder = remove(s.commentOrder, cid)
		}
	}
	return nil
}

// Comments

func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.news[c.NewsID]; !ok {
		return store.ErrNotFound
	}
	author, ok := s.users[c.AuthorID]
	if !ok {
		return store.ErrNotFound
	}
	c.Author = author.Username
	c.BeforeCreate()
	s.nextCommentID++
	c.ID = s.nextCommentID
	cp := *c
	s.comments[c.ID] = &cp
	s.commentOrder = append(s.commentOrder, c.ID)
	return nil
}

func (s *Store) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Store) ListComments(ctx context.Context, newsID int64) ([]*models.Comment, error) {
	s.mutex.RLock()
	var out []*models.Comment
	for _, id := range s.commentOrder {
		if c := s.comments[id]; c.NewsID == newsID {
			cp := *c
			out = append(out, &cp)
		}
	}
	s.mutex.RUnlock()

	return paginate.Oldest(out), nil
}

func (s *Store) UpdateComment(ctx context.Context, c *models.Comment) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	existing, ok := s.comments[c.ID]
	if !ok {
		return store.ErrNotFound
	}
	existing.Text = c.Text
	*c = *existing
	return nil
}

func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.comments[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.comments, id)
	s.commentOrder = remove(s.commentOrder, id)
	return nil
}

func (s *Store) CountComments(ctx context.Context) (int, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.comments), nil
}

// Notes

func (s *Store) CreateNote(ctx context.Context, n *models.Note) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.users[n.AuthorID]; !ok {
		return store.ErrNotFound
	}
	if s.slugTaken(n.Slug, 0) {
		return store.ErrDuplicate
	}
	s.nextNoteID++
	n.ID = s.nextNoteID
	cp := *n
	s.notes[n.ID] = &cp
	s.noteOrder = append(s.noteOrder, n.ID)
	return nil
}

func (s *Store) GetNoteBySlug(ctx context.Context, slug string) (*models.Note, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, n := range s.notes {
		if n.Slug == slug {
			cp := *n
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListNotesByAuthor(ctx context.Context, authorID int64) ([]*models.Note, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var out []*models.Note
	for _, id := range s.noteOrder {
		if n := s.notes[id]; n.AuthorID == authorID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) UpdateNote(ctx context.Context, n *models.Note) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	existing, ok := s.notes[n.ID]
	if !ok {
		return store.ErrNotFound
	}
	if s.slugTaken(n.Slug, n.ID) {
		return store.ErrDuplicate
	}
	existing.Title = n.Title
	existing.Text = n.Text
	existing.Slug = n.Slug
	*n = *existing
	return nil
}

func (s *Store) DeleteNote(ctx context.Context, id int64) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.notes[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.notes, id)
	s.noteOrder = remove(s.noteOrder, id)
	return nil
}

func (s *Store) CountNotes(ctx context.Context) (int, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.notes), nil
}

// slugTaken вызывается под блокировкой.
func (s *Store) slugTaken(slug string, exceptID int64) bool {
	for id, n := range s.notes {
		if n.Slug == slug && id != exceptID {
			return true
		}
	}
	return false
}

func remove(ids []int64, id int64) []int64 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
