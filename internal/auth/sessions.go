package auth

import (
	"context"
	"net/http"
	"time"

	"news_portal/internal/access"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
)

const (
	keyUserID   = "user_id"
	keyUsername = "username"

	cleanupInterval = time.Minute
)

// Sessions хранит сессии в памяти процесса через scs: токен из cookie → пользователь.
// Просроченные сессии удаляет фоновая очистка memstore.
type Sessions struct {
	manager *scs.SessionManager
	store   *memstore.MemStore
}

func NewSessions(cookieName string, ttl time.Duration) *Sessions {
	return newSessions(cookieName, ttl, cleanupInterval)
}

func newSessions(cookieName string, ttl, cleanup time.Duration) *Sessions {
	st := memstore.NewWithCleanupInterval(cleanup)

	manager := scs.New()
	manager.Store = st
	manager.Lifetime = ttl
	manager.Cookie.Name = cookieName
	manager.Cookie.Path = "/"
	manager.Cookie.HttpOnly = true
	manager.Cookie.SameSite = http.SameSiteLaxMode

	return &Sessions{manager: manager, store: st}
}

// LoadAndSave загружает сессию запроса и сохраняет её изменения в ответ.
func (s *Sessions) LoadAndSave(next http.Handler) http.Handler {
	return s.manager.LoadAndSave(next)
}

// Create заводит сессию вне запроса и возвращает её токен.
func (s *Sessions) Create(ctx context.Context, id access.Identity) (string, error) {
	ctx, err := s.manager.Load(ctx, "")
	if err != nil {
		return "", err
	}
	s.put(ctx, id)
	token, _, err := s.manager.Commit(ctx)
	return token, err
}

// Lookup возвращает пользователя сессии token или Anonymous.
func (s *Sessions) Lookup(ctx context.Context, token string) access.Identity {
	ctx, err := s.manager.Load(ctx, token)
	if err != nil {
		return access.Anonymous
	}
	return s.Identify(ctx)
}

// Cookie строит cookie с токеном сессии.
func (s *Sessions) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     s.manager.Cookie.Name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// Login привязывает сессию запроса к пользователю и меняет её токен.
// ctx должен пройти через LoadAndSave.
func (s *Sessions) Login(ctx context.Context, id access.Identity) error {
	if err := s.manager.RenewToken(ctx); err != nil {
		return err
	}
	s.put(ctx, id)
	return nil
}

// Logout уничтожает сессию запроса; LoadAndSave сотрёт cookie.
func (s *Sessions) Logout(ctx context.Context) error {
	return s.manager.Destroy(ctx)
}

// Identify возвращает пользователя загруженной сессии или Anonymous.
func (s *Sessions) Identify(ctx context.Context) access.Identity {
	id := s.manager.GetInt64(ctx, keyUserID)
	if id == 0 {
		return access.Anonymous
	}
	return access.Identity{ID: id, Username: s.manager.GetString(ctx, keyUsername)}
}

func (s *Sessions) put(ctx context.Context, id access.Identity) {
	s.manager.Put(ctx, keyUserID, id.ID)
	s.manager.Put(ctx, keyUsername, id.Username)
}
