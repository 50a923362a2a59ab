package auth

import (
	"errors"
	"net/http"

	"news_portal/internal/access"
	"news_portal/internal/forms"
	"news_portal/internal/logger"
	"news_portal/internal/models"
	"news_portal/internal/render"

	"github.com/gorilla/mux"
)

const (
	RouteLogin  = "users:login"
	RouteLogout = "users:logout"
	RouteSignup = "users:signup"
)

const (
	msgInvalidLogin  = "Пожалуйста, введите правильные имя пользователя и пароль."
	msgUsernameTaken = "Пользователь с таким именем уже существует."
	msgPasswordMatch = "Введённые пароли не совпадают."
)

// Handlers обслуживает вход, выход и регистрацию.
type Handlers struct {
	svc    *Service
	render render.Renderer
}

func NewHandlers(svc *Service, r render.Renderer) *Handlers {
	return &Handlers{svc: svc, render: r}
}

// Register вешает маршруты /auth/... на router.
func (h *Handlers) Register(router *mux.Router) {
	router.HandleFunc("/auth/login/", h.Login).Methods(http.MethodGet, http.MethodPost).Name(RouteLogin)
	router.HandleFunc("/auth/logout/", h.Logout).Methods(http.MethodGet, http.MethodPost).Name(RouteLogout)
	router.HandleFunc("/auth/signup/", h.Signup).Methods(http.MethodGet, http.MethodPost).Name(RouteSignup)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		form := forms.New(nil)
		form.Set("next", r.URL.Query().Get("next"))
		h.render.Render(w, r, http.StatusOK, "users/login", render.Context{"form": form})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	form := forms.New(r.PostForm)
	username, password := form.Get("username"), form.Values.Get("password")
	if username == "" {
		form.AddError("username", "Обязательное поле.")
	}
	if password == "" {
		form.AddError("password", "Обязательное поле.")
	}
	if !form.Valid() {
		h.render.Render(w, r, http.StatusOK, "users/login", render.Context{"form": form})
		return
	}

	u, err := h.svc.Authenticate(r.Context(), username, password)
	if errors.Is(err, ErrInvalidCredentials) {
		form.AddError(forms.NonField, msgInvalidLogin)
		h.render.Render(w, r, http.StatusOK, "users/login", render.Context{"form": form})
		return
	}
	if err != nil {
		logger.FromContext(r.Context()).WithError(err).Error("Authentication failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := h.svc.Sessions().Login(r.Context(), IdentityOf(u)); err != nil {
		logger.FromContext(r.Context()).WithError(err).Error("Failed to start session")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	logger.FromContext(r.Context()).WithField("user_id", u.ID).Info("User logged in")

	next := form.Get("next")
	if next == "" {
		next = r.URL.Query().Get("next")
	}
	http.Redirect(w, r, SafeNext(next), http.StatusFound)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Sessions().Logout(r.Context()); err != nil {
		logger.FromContext(r.Context()).WithError(err).Error("Failed to end session")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	r = r.WithContext(WithIdentity(r.Context(), access.Anonymous))
	h.render.Render(w, r, http.StatusOK, "users/logout", render.Context{})
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render.Render(w, r, http.StatusOK, "users/signup", render.Context{"form": forms.New(nil)})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	form := forms.New(r.PostForm)
	password1, password2 := form.Values.Get("password1"), form.Values.Get("password2")

	form.Validate(&models.User{Username: form.Get("username")})
	if password1 == "" {
		form.AddError("password1", "Обязательное поле.")
	}
	if password2 == "" {
		form.AddError("password2", "Обязательное поле.")
	}
	if password1 != "" && password2 != "" && password1 != password2 {
		form.AddError("password2", msgPasswordMatch)
	}
	if !form.Valid() {
		h.render.Render(w, r, http.StatusOK, "users/signup", render.Context{"form": form})
		return
	}

	u, err := h.svc.Register(r.Context(), form.Get("username"), password1)
	if errors.Is(err, ErrUsernameTaken) {
		form.AddError("username", msgUsernameTaken)
		h.render.Render(w, r, http.StatusOK, "users/signup", render.Context{"form": form})
		return
	}
	if err != nil {
		logger.FromContext(r.Context()).WithError(err).Error("Failed to register user")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	logger.FromContext(r.Context()).WithField("user_id", u.ID).Info("User registered")
	http.Redirect(w, r, h.svc.LoginURL(), http.StatusFound)
}
