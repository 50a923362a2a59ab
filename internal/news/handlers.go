// Package news - приложение новостей: лента, страница новости с
// комментариями, редактирование и удаление своих комментариев.
package news

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"news_portal/internal/access"
	"news_portal/internal/auth"
	"news_portal/internal/censor"
	"news_portal/internal/forms"
	"news_portal/internal/logger"
	"news_portal/internal/metrics"
	"news_portal/internal/models"
	"news_portal/internal/paginate"
	"news_portal/internal/render"
	"news_portal/internal/store"

	"github.com/gorilla/mux"
)

const (
	RouteHome   = "news:home"
	RouteDetail = "news:detail"
	RouteEdit   = "news:edit"
	RouteDelete = "news:delete"
)

// Handlers хранит зависимости обработчиков новостей.
type Handlers struct {
	store    store.NewsStore
	auth     *auth.Service
	censor   *censor.Filter
	render   render.Renderer
	pageSize int
}

func NewHandlers(st store.NewsStore, svc *auth.Service, filter *censor.Filter, r render.Renderer, pageSize int) *Handlers {
	return &Handlers{store: st, auth: svc, censor: filter, render: r, pageSize: pageSize}
}

func (h *Handlers) Register(router *mux.Router) {
	router.HandleFunc("/", h.Home).Methods(http.MethodGet).Name(RouteHome)
	router.HandleFunc("/news/{id:[0-9]+}/", h.Detail).Methods(http.MethodGet, http.MethodPost).Name(RouteDetail)
	router.HandleFunc("/edit_comment/{id:[0-9]+}/", h.EditComment).Methods(http.MethodGet, http.MethodPost).Name(RouteEdit)
	router.HandleFunc("/delete_comment/{id:[0-9]+}/", h.DeleteComment).Methods(http.MethodGet, http.MethodPost).Name(RouteDelete)
}

// Home выводит последние новости, pageSize штук на страницу.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	params := paginate.ParseParams(r.URL.Query(), h.pageSize, h.pageSize)

	total, err := h.store.CountNews(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to count news")
		return
	}
	items, err := h.store.ListNews(r.Context(), params.PageSize, params.Offset())
	if err != nil {
		h.fail(w, r, err, "Failed to list news")
		return
	}

	h.render.Render(w, r, http.StatusOK, "news/home", render.Context{
		"object_list": items,
		"pagination":  paginate.NewResponse(total, params),
	})
}

// Detail показывает новость с комментариями; POST добавляет комментарий.
func (h *Handlers) Detail(w http.ResponseWriter, r *http.Request) {
	requester := auth.IdentityFrom(r.Context())
	if r.Method == http.MethodPost && !requester.Authenticated() {
		h.auth.RedirectToLogin(w, r)
		return
	}

	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	item, err := h.store.GetNews(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.fail(w, r, err, "Failed to load news")
		return
	}

	var form *forms.Form
	if requester.Authenticated() {
		form = forms.New(nil)
	}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		form = forms.New(r.PostForm)
		comment := &models.Comment{NewsID: item.ID, AuthorID: requester.ID, Text: form.Get("text")}
		if h.validate(form, comment) {
			if err := h.store.CreateComment(r.Context(), comment); err != nil {
				h.fail(w, r, err, "Failed to create comment")
				return
			}
			metrics.Comments.WithLabelValues(metrics.OutcomeCreated).Inc()
			logger.FromContext(r.Context()).WithFields(logger.Fields{
				"news_id":    item.ID,
				"comment_id": comment.ID,
			}).Info("Comment created")
			http.Redirect(w, r, commentsURL(item.ID), http.StatusFound)
			return
		}
		metrics.Comments.WithLabelValues(metrics.OutcomeRejected).Inc()
	}

	comments, err := h.store.ListComments(r.Context(), item.ID)
	if err != nil {
		h.fail(w, r, err, "Failed to list comments")
		return
	}

	data := render.Context{
		"news":      item,
		"comments":  comments,
		"login_url": h.auth.LoginURL(),
	}
	if form != nil {
		data["form"] = form
	}
	h.render.Render(w, r, http.StatusOK, "news/detail", data)
}

func (h *Handlers) EditComment(w http.ResponseWriter, r *http.Request) {
	comment, ok := h.ownComment(w, r, access.Edit)
	if !ok {
		return
	}

	if r.Method == http.MethodGet {
		form := forms.New(nil)
		form.Set("text", comment.Text)
		h.render.Render(w, r, http.StatusOK, "news/edit", render.Context{"comment": comment, "form": form})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	form := forms.New(r.PostForm)
	updated := *comment
	updated.Text = form.Get("text")
	if !h.validate(form, &updated) {
		metrics.Comments.WithLabelValues(metrics.OutcomeRejected).Inc()
		h.render.Render(w, r, http.StatusOK, "news/edit", render.Context{"comment": comment, "form": form})
		return
	}

	if err := h.store.UpdateComment(r.Context(), &updated); err != nil {
		h.fail(w, r, err, "Failed to update comment")
		return
	}
	metrics.Comments.WithLabelValues(metrics.OutcomeUpdated).Inc()
	http.Redirect(w, r, commentsURL(comment.NewsID), http.StatusFound)
}

func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	comment, ok := h.ownComment(w, r, access.Delete)
	if !ok {
		return
	}

	if r.Method == http.MethodGet {
		h.render.Render(w, r, http.StatusOK, "news/delete", render.Context{"comment": comment})
		return
	}

	if err := h.store.DeleteComment(r.Context(), comment.ID); err != nil {
		h.fail(w, r, err, "Failed to delete comment")
		return
	}
	metrics.Comments.WithLabelValues(metrics.OutcomeDeleted).Inc()
	logger.FromContext(r.Context()).WithField("comment_id", comment.ID).Info("Comment deleted")
	http.Redirect(w, r, commentsURL(comment.NewsID), http.StatusFound)
}

// ownComment загружает комментарий из пути и проверяет право action.
// При отказе ответ уже записан и ok=false.
func (h *Handlers) ownComment(w http.ResponseWriter, r *http.Request, action access.Action) (*models.Comment, bool) {
	requester := auth.IdentityFrom(r.Context())
	if !requester.Authenticated() {
		h.auth.RedirectToLogin(w, r)
		return nil, false
	}

	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}
	comment, err := h.store.GetComment(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return nil, false
	}
	if err != nil {
		h.fail(w, r, err, "Failed to load comment")
		return nil, false
	}

	switch access.Check(action, requester, access.Identity{ID: comment.AuthorID}) {
	case access.Allow:
		return comment, true
	case access.Login:
		h.auth.RedirectToLogin(w, r)
	default:
		http.NotFound(w, r)
	}
	return nil, false
}

// validate проверяет обязательные поля и запрещённые слова.
func (h *Handlers) validate(form *forms.Form, c *models.Comment) bool {
	form.Validate(c)
	var v *censor.Violation
	if err := h.censor.Check(c.Text); errors.As(err, &v) {
		form.AddError("text", v.Message)
	}
	return form.Valid()
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	logger.FromContext(r.Context()).WithError(err).Error(msg)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil && id > 0
}

func commentsURL(newsID int64) string {
	return fmt.Sprintf("/news/%d/#comments", newsID)
}
