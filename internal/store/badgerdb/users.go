package badgerdb

import (
	"context"

	"news_portal/internal/models"
	"news_portal/internal/store"

	"github.com/dgraph-io/badger/v4"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		idx := indexKey(usernameIndex, u.Username)
		if ok, err := exists(txn, idx); err != nil {
			return err
		} else if ok {
			return store.ErrDuplicate
		}

		id, err := nextID(txn, userSeq)
		if err != nil {
			return err
		}
		u.ID = id
		u.BeforeCreate()

		rec := userRecord{User: *u, PasswordHash: u.PasswordHash}
		if err := set(txn, key(userPrefix, u.ID), rec); err != nil {
			return err
		}
		return set(txn, idx, u.ID)
	})
}

// userRecord нужен, потому что models.User скрывает хеш пароля в JSON.
type userRecord struct {
	models.User
	PasswordHash string `json:"password_hash"`
}

func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var u *models.User
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		u, err = getUser(txn, id)
		return err
	})
	return u, err
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u *models.User
	err := s.db.View(func(txn *badger.Txn) error {
		id, err := lookup(txn, indexKey(usernameIndex, username))
		if err != nil {
			return err
		}
		u, err = getUser(txn, id)
		return err
	})
	return u, err
}

func getUser(txn *badger.Txn, id int64) (*models.User, error) {
	var rec userRecord
	if err := get(txn, key(userPrefix, id), &rec); err != nil {
		return nil, err
	}
	u := rec.User
	u.PasswordHash = rec.PasswordHash
	return &u, nil
}
