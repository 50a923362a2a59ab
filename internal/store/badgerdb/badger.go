// Package badgerdb хранит данные портала во встроенной базе BadgerDB.
// Записи лежат в JSON под ключами с префиксом сущности; уникальные поля
// (имя пользователя, slug, ссылка на источник) продублированы индексными ключами.
package badgerdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"news_portal/internal/store"

	"github.com/dgraph-io/badger/v4"
)

const (
	userPrefix    = "user:"
	newsPrefix    = "news:"
	commentPrefix = "comment:"
	notePrefix    = "note:"

	usernameIndex = "idx:username:"
	linkIndex     = "idx:news_link:"
	slugIndex     = "idx:note_slug:"

	userSeq    = "seq:user"
	newsSeq    = "seq:news"
	commentSeq = "seq:comment"
	noteSeq    = "seq:note"
)

type Store struct {
	db *badger.DB
}

var _ store.Store = (*Store)(nil)

// Open открывает (или создаёт) базу в каталоге path.
func Open(path string) (*Store, error) {
	return open(badger.DefaultOptions(path))
}

// OpenInMemory открывает базу без записи на диск.
func OpenInMemory() (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts.WithLogger(nil).WithNumVersionsToKeep(1))
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger is closed")
	}
	return ctx.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// maxConflictRetries ограничивает повторы транзакции после badger.ErrConflict.
const maxConflictRetries = 16

// update выполняет fn в пишущей транзакции и повторяет её, пока конкурентный
// писатель мешает закоммитить. Повтор перечитывает индексы, поэтому гонка
// за один slug или имя заканчивается store.ErrDuplicate, а не ErrConflict.
func (s *Store) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("badger update: %w", err)
}

// key строит ключ записи; ID дополняется нулями, чтобы итерация шла в порядке вставки.
func key(prefix string, id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", prefix, id))
}

func indexKey(prefix, value string) []byte {
	return []byte(prefix + value)
}

// nextID увеличивает счётчик seqKey внутри транзакции.
func nextID(txn *badger.Txn, seqKey string) (int64, error) {
	var id uint64
	item, err := txn.Get([]byte(seqKey))
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
	case err != nil:
		return 0, err
	default:
		err = item.Value(func(val []byte) error {
			id = binary.BigEndian.Uint64(val)
			return nil
		})
		if err != nil {
			return 0, err
		}
	}
	id++

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, id)
	if err := txn.Set([]byte(seqKey), buf); err != nil {
		return 0, err
	}
	return int64(id), nil
}

func get(txn *badger.Txn, k []byte, v any) error {
	item, err := txn.Get(k)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return store.ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func set(txn *badger.Txn, k []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}
	return txn.Set(k, data)
}

// lookup читает ID, на который указывает индексный ключ.
func lookup(txn *badger.Txn, k []byte) (int64, error) {
	var id int64
	err := get(txn, k, &id)
	return id, err
}

func exists(txn *badger.Txn, k []byte) (bool, error) {
	_, err := txn.Get(k)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

func del(txn *badger.Txn, k []byte) error {
	if ok, err := exists(txn, k); err != nil {
		return err
	} else if !ok {
		return store.ErrNotFound
	}
	return txn.Delete(k)
}

// each вызывает fn для каждого значения с префиксом prefix в порядке ключей.
func each(txn *badger.Txn, prefix string, fn func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}

func count(txn *badger.Txn, prefix string) int {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	n := 0
	for it.Rewind(); it.Valid(); it.Next() {
		n++
	}
	return n
}
