package badgerdb

import (
	"context"
	"encoding/json"

	"news_portal/internal/models"
	"news_portal/internal/paginate"
	"news_portal/internal/store"

	"github.com/dgraph-io/badger/v4"
)

func (s *Store) CreateNews(ctx context.Context, n *models.News) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		if n.SourceLink != "" {
			if ok, err := exists(txn, indexKey(linkIndex, n.SourceLink)); err != nil {
				return err
			} else if ok {
				return store.ErrDuplicate
			}
		}

		id, err := nextID(txn, newsSeq)
		if err != nil {
			return err
		}
		n.ID = id
		n.BeforeCreate()

		if err := set(txn, key(newsPrefix, n.ID), n); err != nil {
			return err
		}
		if n.SourceLink != "" {
			return set(txn, indexKey(linkIndex, n.SourceLink), n.ID)
		}
		return nil
	})
}

func (s *Store) GetNews(ctx context.Context, id int64) (*models.News, error) {
	var n models.News
	err := s.db.View(func(txn *badger.Txn) error {
		return get(txn, key(newsPrefix, id), &n)
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *Store) GetNewsBySourceLink(ctx context.Context, link string) (*models.News, error) {
	var n models.News
	err := s.db.View(func(txn *badger.Txn) error {
		id, err := lookup(txn, indexKey(linkIndex, link))
		if err != nil {
			return err
		}
		return get(txn, key(newsPrefix, id), &n)
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListNews читает все новости и сортирует их в памяти: Badger не умеет
// индексировать по дате без отдельного ключа.
func (s *Store) ListNews(ctx context.Context, limit, offset int) ([]*models.News, error) {
	var all []*models.News
	err := s.db.View(func(txn *badger.Txn) error {
		return each(txn, newsPrefix, func(val []byte) error {
			var n models.News
			if err := json.Unmarshal(val, &n); err != nil {
				return err
			}
			all = append(all, &n)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return paginate.Window(paginate.Newest(all, 0), limit, offset), nil
}

func (s *Store) CountNews(ctx context.Context) (int, error) {
	var n int
	err := s.db.View(func(txn *badger.Txn) error {
		n = count(txn, newsPrefix)
		return nil
	})
	return n, err
}

func (s *Store) DeleteNews(ctx context.Context, id int64) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		var n models.News
		if err := get(txn, key(newsPrefix, id), &n); err != nil {
			return err
		}

		var orphaned []int64
		err := each(txn, commentPrefix, func(val []byte) error {
			var c models.Comment
			if err := json.Unmarshal(val, &c); err != nil {
				return err
			}
			if c.NewsID == id {
				orphaned = append(orphaned, c.ID)
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, cid := range orphaned {
			if err := txn.Delete(key(commentPrefix, cid)); err != nil {
				return err
			}
		}

		if n.SourceLink != "" {
			if err := txn.Delete(indexKey(linkIndex, n.SourceLink)); err != nil {
				return err
			}
		}
		return txn.Delete(key(newsPrefix, id))
	})
}

// CreateComment проверяет существование новости и автора в той же транзакции.
func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		if ok, err := exists(txn, key(newsPrefix, c.NewsID)); err != nil {
			return err
		} else if !ok {
			return store.ErrNotFound
		}
		author, err := getUser(txn, c.AuthorID)
		if err != nil {
			return err
		}

		id, err := nextID(txn, commentSeq)
		if err != nil {
			return err
		}
		c.ID = id
		c.Author = author.Username
		c.BeforeCreate()
		return set(txn, key(commentPrefix, c.ID), c)
	})
}

func (s *Store) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	var c models.Comment
	err := s.db.View(func(txn *badger.Txn) error {
		return get(txn, key(commentPrefix, id), &c)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) ListComments(ctx context.Context, newsID int64) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := s.db.View(func(txn *badger.Txn) error {
		return each(txn, commentPrefix, func(val []byte) error {
			var c models.Comment
			if err := json.Unmarshal(val, &c); err != nil {
				return err
			}
			if c.NewsID == newsID {
				comments = append(comments, &c)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return paginate.Oldest(comments), nil
}

// UpdateComment меняет только текст комментария.
func (s *Store) UpdateComment(ctx context.Context, c *models.Comment) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		var existing models.Comment
		if err := get(txn, key(commentPrefix, c.ID), &existing); err != nil {
			return err
		}
		existing.Text = c.Text
		*c = existing
		return set(txn, key(commentPrefix, c.ID), existing)
	})
}

func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		return del(txn, key(commentPrefix, id))
	})
}

func (s *Store) CountComments(ctx context.Context) (int, error) {
	var n int
	err := s.db.View(func(txn *badger.Txn) error {
		n = count(txn, commentPrefix)
		return nil
	})
	return n, err
}
