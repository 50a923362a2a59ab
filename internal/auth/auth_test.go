package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"news_portal/internal/access"
	"news_portal/internal/auth"
	"news_portal/internal/render"
	"news_portal/internal/store/memory"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	svc     *auth.Service
	capture *render.Capture
	router  *mux.Router
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.New()
	svc := auth.NewService(st, auth.NewSessions("sessionid", time.Hour), "/auth/login/").WithCost(bcrypt.MinCost)
	capture := &render.Capture{}

	router := mux.NewRouter()
	router.Use(svc.Middleware)
	auth.NewHandlers(svc, auth.WithUser(capture)).Register(router)
	return &fixture{svc: svc, capture: capture, router: router}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestService_RegisterAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.svc.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.NotEqual(t, "s3cret", u.PasswordHash)

	_, err = f.svc.Register(ctx, "alice", "other")
	assert.ErrorIs(t, err, auth.ErrUsernameTaken)

	got, err := f.svc.Authenticate(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = f.svc.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.svc.Authenticate(ctx, "bob", "s3cret")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginRedirectURL(t *testing.T) {
	testCases := []struct {
		next string
		want string
	}{
		{"/notes/", "/auth/login/?next=/notes/"},
		{"/edit/my-note/", "/auth/login/?next=/edit/my-note/"},
		{"/news/1/?page=2", "/auth/login/?next=/news/1/%3Fpage%3D2"},
	}
	for _, tc := range testCases {
		t.Run(tc.next, func(t *testing.T) {
			assert.Equal(t, tc.want, auth.LoginRedirectURL("/auth/login/", tc.next))
		})
	}
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/notes/", auth.SafeNext("/notes/"))
	assert.Equal(t, "/", auth.SafeNext(""))
	assert.Equal(t, "/", auth.SafeNext("https://evil.example/"))
	assert.Equal(t, "/", auth.SafeNext("//evil.example/"))
	assert.Equal(t, "/", auth.SafeNext("/\\evil.example/"))
}

func TestRequireLogin(t *testing.T) {
	f := newFixture(t)
	protected := f.svc.Middleware(f.svc.RequireLogin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(auth.IdentityFrom(r.Context()).Username))
	})))

	w := httptest.NewRecorder()
	protected.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notes/", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=/notes/", w.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/notes/", nil)
	token, err := f.svc.Sessions().Create(req.Context(), access.Identity{ID: 5, Username: "alice"})
	require.NoError(t, err)
	req.AddCookie(f.svc.Sessions().Cookie(token))
	w = httptest.NewRecorder()
	protected.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", w.Body.String())
}

func TestPages_AvailableToAnonymous(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{auth.RouteLogin, auth.RouteLogout, auth.RouteSignup} {
		t.Run(name, func(t *testing.T) {
			u, err := f.router.Get(name).URL()
			require.NoError(t, err)

			w := f.do(httptest.NewRequest(http.MethodGet, u.String(), nil))
			assert.Equal(t, http.StatusOK, w.Code)

			page, ok := f.capture.Last()
			require.True(t, ok)
			assert.Equal(t, access.Anonymous, page.Context["user"])
		})
	}
}

func TestSignupThenLogin(t *testing.T) {
	f := newFixture(t)

	w := f.do(postForm("/auth/signup/", url.Values{
		"username":  {"alice"},
		"password1": {"s3cret"},
		"password2": {"s3cret"},
	}))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/", w.Header().Get("Location"))

	w = f.do(postForm("/auth/login/", url.Values{
		"username": {"alice"},
		"password": {"s3cret"},
		"next":     {"/notes/"},
	}))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/notes/", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/auth/signup/", nil)
	req.AddCookie(cookies[0])
	f.do(req)
	page, ok := f.capture.Last()
	require.True(t, ok)
	user := page.Context["user"].(access.Identity)
	assert.Equal(t, "alice", user.Username)
}

func TestSignup_Errors(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Register(context.Background(), "taken", "pw")
	require.NoError(t, err)

	testCases := []struct {
		name  string
		form  url.Values
		field string
	}{
		{"missing username", url.Values{"password1": {"a"}, "password2": {"a"}}, "username"},
		{"password mismatch", url.Values{"username": {"bob"}, "password1": {"a"}, "password2": {"b"}}, "password2"},
		{"username taken", url.Values{"username": {"taken"}, "password1": {"a"}, "password2": {"a"}}, "username"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := f.do(postForm("/auth/signup/", tc.form))
			assert.Equal(t, http.StatusOK, w.Code)

			page, ok := f.capture.Last()
			require.True(t, ok)
			assert.Equal(t, "users/signup", page.Name)
			form := page.Context["form"].(interface{ FieldErrors(string) []string })
			assert.NotEmpty(t, form.FieldErrors(tc.field))
		})
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Register(context.Background(), "alice", "s3cret")
	require.NoError(t, err)

	w := f.do(postForm("/auth/login/", url.Values{"username": {"alice"}, "password": {"nope"}}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Result().Cookies())

	page, ok := f.capture.Last()
	require.True(t, ok)
	assert.Equal(t, "users/login", page.Name)
}

func TestLogin_UnsafeNextFallsBackToRoot(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Register(context.Background(), "alice", "s3cret")
	require.NoError(t, err)

	w := f.do(postForm("/auth/login/", url.Values{
		"username": {"alice"},
		"password": {"s3cret"},
		"next":     {"https://evil.example/"},
	}))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestLogout_ClearsSession(t *testing.T) {
	f := newFixture(t)
	token, err := f.svc.Sessions().Create(context.Background(), access.Identity{ID: 1, Username: "alice"})
	require.NoError(t, err)

	req := postForm("/auth/logout/", nil)
	req.AddCookie(f.svc.Sessions().Cookie(token))
	w := f.do(req)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, access.Anonymous, f.svc.Sessions().Lookup(context.Background(), token))

	page, ok := f.capture.Last()
	require.True(t, ok)
	assert.Equal(t, access.Anonymous, page.Context["user"])
}
