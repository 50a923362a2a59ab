package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"news_portal/internal/access"
	"news_portal/internal/models"
	"news_portal/internal/render"
	"news_portal/internal/store"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
)

// Service регистрирует и аутентифицирует пользователей и ведёт их сессии.
type Service struct {
	users    store.UserStore
	sessions *Sessions
	loginURL string
	cost     int
}

func NewService(users store.UserStore, sessions *Sessions, loginURL string) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		loginURL: loginURL,
		cost:     bcrypt.DefaultCost,
	}
}

// WithCost меняет стоимость bcrypt; в тестах удобно bcrypt.MinCost.
func (s *Service) WithCost(cost int) *Service {
	s.cost = cost
	return s
}

func (s *Service) Sessions() *Sessions { return s.sessions }

func (s *Service) LoginURL() string { return s.loginURL }

// Register создаёт пользователя с хешем пароля.
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{Username: username, PasswordHash: string(hash)}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return u, nil
}

// Authenticate проверяет пароль. Неизвестное имя и неверный пароль неразличимы.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IdentityOf переводит пользователя в access.Identity.
func IdentityOf(u *models.User) access.Identity {
	return access.Identity{ID: u.ID, Username: u.Username}
}

type ctxKey struct{}

// IdentityFrom возвращает пользователя запроса, положенного Middleware.
func IdentityFrom(ctx context.Context) access.Identity {
	id, ok := ctx.Value(ctxKey{}).(access.Identity)
	if !ok {
		return access.Anonymous
	}
	return id
}

// WithIdentity кладёт пользователя в контекст.
func WithIdentity(ctx context.Context, id access.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// Middleware загружает сессию по cookie и определяет пользователя.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return s.sessions.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := s.sessions.Identify(r.Context())
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	}))
}

// RequireLogin отправляет анонимов на страницу входа.
func (s *Service) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IdentityFrom(r.Context()).Authenticated() {
			s.RedirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RedirectToLogin отвечает 302 на страницу входа с next=<исходный адрес>.
func (s *Service) RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, LoginRedirectURL(s.loginURL, r.URL.RequestURI()), http.StatusFound)
}

// LoginRedirectURL строит адрес входа; «/» в next не экранируется.
func LoginRedirectURL(loginURL, next string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
	return loginURL + "?next=" + escaped
}

// SafeNext возвращает next, только если это локальный путь.
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

// WithUser добавляет текущего пользователя в контекст каждой страницы.
func WithUser(next render.Renderer) render.Renderer {
	return userRenderer{next: next}
}

type userRenderer struct {
	next render.Renderer
}

func (u userRenderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, data render.Context) {
	if data == nil {
		data = render.Context{}
	}
	if _, ok := data["user"]; !ok {
		data["user"] = IdentityFrom(r.Context())
	}
	u.next.Render(w, r, status, page, data)
}
