package badgerdb

import (
	"context"
	"encoding/json"

	"news_portal/internal/models"
	"news_portal/internal/store"

	"github.com/dgraph-io/badger/v4"
)

func (s *Store) CreateNote(ctx context.Context, n *models.Note) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		if ok, err := exists(txn, key(userPrefix, n.AuthorID)); err != nil {
			return err
		} else if !ok {
			return store.ErrNotFound
		}
		idx := indexKey(slugIndex, n.Slug)
		if ok, err := exists(txn, idx); err != nil {
			return err
		} else if ok {
			return store.ErrDuplicate
		}

		id, err := nextID(txn, noteSeq)
		if err != nil {
			return err
		}
		n.ID = id
		if err := set(txn, key(notePrefix, n.ID), n); err != nil {
			return err
		}
		return set(txn, idx, n.ID)
	})
}

func (s *Store) GetNoteBySlug(ctx context.Context, slug string) (*models.Note, error) {
	var n models.Note
	err := s.db.View(func(txn *badger.Txn) error {
		id, err := lookup(txn, indexKey(slugIndex, slug))
		if err != nil {
			return err
		}
		return get(txn, key(notePrefix, id), &n)
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *Store) ListNotesByAuthor(ctx context.Context, authorID int64) ([]*models.Note, error) {
	var notes []*models.Note
	err := s.db.View(func(txn *badger.Txn) error {
		return each(txn, notePrefix, func(val []byte) error {
			var n models.Note
			if err := json.Unmarshal(val, &n); err != nil {
				return err
			}
			if n.AuthorID == authorID {
				notes = append(notes, &n)
			}
			return nil
		})
	})
	return notes, err
}

// UpdateNote переносит индекс slug, если он изменился.
func (s *Store) UpdateNote(ctx context.Context, n *models.Note) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		var existing models.Note
		if err := get(txn, key(notePrefix, n.ID), &existing); err != nil {
			return err
		}

		if existing.Slug != n.Slug {
			idx := indexKey(slugIndex, n.Slug)
			if ok, err := exists(txn, idx); err != nil {
				return err
			} else if ok {
				return store.ErrDuplicate
			}
			if err := txn.Delete(indexKey(slugIndex, existing.Slug)); err != nil {
				return err
			}
			if err := set(txn, idx, n.ID); err != nil {
				return err
			}
		}

		existing.Title = n.Title
		existing.Text = n.Text
		existing.Slug = n.Slug
		*n = existing
		return set(txn, key(notePrefix, n.ID), existing)
	})
}

func (s *Store) DeleteNote(ctx context.Context, id int64) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		var n models.Note
		if err := get(txn, key(notePrefix, id), &n); err != nil {
			return err
		}
		if err := txn.Delete(indexKey(slugIndex, n.Slug)); err != nil {
			return err
		}
		return txn.Delete(key(notePrefix, id))
	})
}

func (s *Store) CountNotes(ctx context.Context) (int, error) {
	var n int
	err := s.db.View(func(txn *badger.Txn) error {
		n = count(txn, notePrefix)
		return nil
	})
	return n, err
}
