// Package notes - приложение личных заметок. Заметки видит и меняет
// только автор; чужие заметки для него не существуют (404).
package notes

import (
	"errors"
	"net/http"

	"news_portal/internal/access"
	"news_portal/internal/auth"
	"news_portal/internal/forms"
	"news_portal/internal/logger"
	"news_portal/internal/metrics"
	"news_portal/internal/models"
	"news_portal/internal/render"
	"news_portal/internal/store"

	"github.com/gorilla/mux"
	"github.com/gosimple/slug"
)

const (
	RouteHome    = "notes:home"
	RouteList    = "notes:list"
	RouteAdd     = "notes:add"
	RouteSuccess = "notes:success"
	RouteDetail  = "notes:detail"
	RouteEdit    = "notes:edit"
	RouteDelete  = "notes:delete"
)

const successURL = "/done/"

type Handlers struct {
	store       store.NoteStore
	auth        *auth.Service
	render      render.Renderer
	slugWarning string
}

func NewHandlers(st store.NoteStore, svc *auth.Service, r render.Renderer, slugWarning string) *Handlers {
	return &Handlers{store: st, auth: svc, render: r, slugWarning: slugWarning}
}

// Register вешает маршруты заметок. Методы, не перечисленные у маршрута,
// получают 405 от mux раньше проверки входа.
func (h *Handlers) Register(router *mux.Router) {
	login := h.auth.RequireLogin

	router.HandleFunc("/", h.Home).Methods(http.MethodGet).Name(RouteHome)
	router.Handle("/notes/", login(http.HandlerFunc(h.List))).Methods(http.MethodGet).Name(RouteList)
	router.Handle("/add/", login(http.HandlerFunc(h.Add))).Methods(http.MethodGet, http.MethodPost).Name(RouteAdd)
	router.Handle("/done/", login(http.HandlerFunc(h.Success))).Methods(http.MethodGet).Name(RouteSuccess)
	router.Handle("/note/{slug}/", login(http.HandlerFunc(h.Detail))).Methods(http.MethodGet).Name(RouteDetail)
	router.Handle("/edit/{slug}/", login(http.HandlerFunc(h.Edit))).Methods(http.MethodGet, http.MethodPost).Name(RouteEdit)
	router.Handle("/delete/{slug}/", login(http.HandlerFunc(h.Delete))).
		Methods(http.MethodGet, http.MethodPost, http.MethodDelete).Name(RouteDelete)
}

// Slugify строит slug из заголовка: транслитерация и обрезка до SlugMaxLength.
func Slugify(title string) string {
	s := slug.Make(title)
	if len(s) > models.SlugMaxLength {
		s = s[:models.SlugMaxLength]
	}
	return s
}

func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "notes/home", render.Context{})
}

func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	requester := auth.IdentityFrom(r.Context())
	items, err := h.store.ListNotesByAuthor(r.Context(), requester.ID)
	if err != nil {
		h.fail(w, r, err, "Failed to list notes")
		return
	}
	h.render.Render(w, r, http.StatusOK, "notes/list", render.Context{"object_list": items})
}

func (h *Handlers) Success(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "notes/success", render.Context{})
}

func (h *Handlers) Add(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render.Render(w, r, http.StatusOK, "notes/form", render.Context{"form": forms.New(nil)})
		return
	}

	form, ok := h.parse(w, r)
	if !ok {
		return
	}
	note := h.bind(form)
	note.AuthorID = auth.IdentityFrom(r.Context()).ID

	if h.validate(form, note) {
		err := h.store.CreateNote(r.Context(), note)
		if err == nil {
			metrics.Notes.WithLabelValues(metrics.OutcomeCreated).Inc()
			logger.FromContext(r.Context()).WithField("slug", note.Slug).Info("Note created")
			http.Redirect(w, r, successURL, http.StatusFound)
			return
		}
		if !h.duplicate(form, note, err) {
			h.fail(w, r, err, "Failed to create note")
			return
		}
	}

	metrics.Notes.WithLabelValues(metrics.OutcomeRejected).Inc()
	h.render.Render(w, r, http.StatusOK, "notes/form", render.Context{"form": form})
}

func (h *Handlers) Detail(w http.ResponseWriter, r *http.Request) {
	note, ok := h.ownNote(w, r, access.ViewOwn)
	if !ok {
		return
	}
	h.render.Render(w, r, http.StatusOK, "notes/detail", render.Context{"note": note})
}

func (h *Handlers) Edit(w http.ResponseWriter, r *http.Request) {
	note, ok := h.ownNote(w, r, access.Edit)
	if !ok {
		return
	}

	if r.Method == http.MethodGet {
		form := forms.New(nil)
		form.Set("title", note.Title)
		form.Set("text", note.Text)
		form.Set("slug", note.Slug)
		h.render.Render(w, r, http.StatusOK, "notes/form", render.Context{"form": form, "note": note})
		return
	}

	form, ok := h.parse(w, r)
	if !ok {
		return
	}
	updated := h.bind(form)
	updated.ID = note.ID
	updated.AuthorID = note.AuthorID

	if h.validate(form, updated) {
		err := h.store.UpdateNote(r.Context(), updated)
		if err == nil {
			metrics.Notes.WithLabelValues(metrics.OutcomeUpdated).Inc()
			http.Redirect(w, r, successURL, http.StatusFound)
			return
		}
		if !h.duplicate(form, updated, err) {
			h.fail(w, r, err, "Failed to update note")
			return
		}
	}

	metrics.Notes.WithLabelValues(metrics.OutcomeRejected).Inc()
	h.render.Render(w, r, http.StatusOK, "notes/form", render.Context{"form": form, "note": note})
}

// Delete показывает подтверждение на GET и удаляет заметку на POST или DELETE.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	note, ok := h.ownNote(w, r, access.Delete)
	if !ok {
		return
	}

	if r.Method == http.MethodGet {
		h.render.Render(w, r, http.StatusOK, "notes/delete", render.Context{"note": note})
		return
	}

	if err := h.store.DeleteNote(r.Context(), note.ID); err != nil {
		h.fail(w, r, err, "Failed to delete note")
		return
	}
	metrics.Notes.WithLabelValues(metrics.OutcomeDeleted).Inc()
	logger.FromContext(r.Context()).WithField("slug", note.Slug).Info("Note deleted")
	http.Redirect(w, r, successURL, http.StatusFound)
}

// ownNote загружает заметку по slug из пути и проверяет право action.
func (h *Handlers) ownNote(w http.ResponseWriter, r *http.Request, action access.Action) (*models.Note, bool) {
	requester := auth.IdentityFrom(r.Context())

	note, err := h.store.GetNoteBySlug(r.Context(), mux.Vars(r)["slug"])
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return nil, false
	}
	if err != nil {
		h.fail(w, r, err, "Failed to load note")
		return nil, false
	}

	switch access.Check(action, requester, access.Identity{ID: note.AuthorID}) {
	case access.Allow:
		return note, true
	case access.Login:
		h.auth.RedirectToLogin(w, r)
	default:
		http.NotFound(w, r)
	}
	return nil, false
}

func (h *Handlers) parse(w http.ResponseWriter, r *http.Request) (*forms.Form, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return nil, false
	}
	return forms.New(r.PostForm), true
}

// bind переносит поля формы в заметку. Пустой slug строится из заголовка.
func (h *Handlers) bind(form *forms.Form) *models.Note {
	note := &models.Note{
		Title: form.Get("title"),
		Text:  form.Get("text"),
		Slug:  form.Get("slug"),
	}
	if note.Slug == "" && note.Title != "" {
		note.Slug = Slugify(note.Title)
		form.Set("slug", note.Slug)
	}
	return note
}

func (h *Handlers) validate(form *forms.Form, note *models.Note) bool {
	form.Validate(note)
	return form.Valid()
}

// duplicate превращает ErrDuplicate в ошибку поля slug.
func (h *Handlers) duplicate(form *forms.Form, note *models.Note, err error) bool {
	if !errors.Is(err, store.ErrDuplicate) {
		return false
	}
	form.AddError("slug", note.Slug+h.slugWarning)
	return true
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	logger.FromContext(r.Context()).WithError(err).Error(msg)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
