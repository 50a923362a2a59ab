package render_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"news_portal/internal/access"
	"news_portal/internal/forms"
	"news_portal/internal/models"
	"news_portal/internal/paginate"
	"news_portal/internal/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTML_RendersEveryPage(t *testing.T) {
	h, err := render.NewHTML()
	require.NoError(t, err)

	author := access.Identity{ID: 1, Username: "Автор"}
	news := &models.News{ID: 7, Title: "Заголовок", Text: "Текст новости", Date: time.Now()}
	comment := &models.Comment{ID: 3, NewsID: 7, AuthorID: 1, Author: "Автор", Text: "Текст комментария", Created: time.Now()}
	note := &models.Note{ID: 1, Title: "Title", Text: "Text", Slug: "slug", AuthorID: 1}
	form := forms.New(url.Values{"text": {"черновик"}})
	form.AddError("text", "Не ругайтесь!")

	pages := map[string]render.Context{
		"news/home": {
			"user":        access.Anonymous,
			"object_list": []*models.News{news},
			"pagination":  paginate.NewResponse(11, paginate.Params{Page: 1, PageSize: 10}),
		},
		"news/detail":   {"user": author, "news": news, "comments": []*models.Comment{comment}, "form": form},
		"news/edit":     {"user": author, "comment": comment, "form": form},
		"news/delete":   {"user": author, "comment": comment},
		"notes/home":    {"user": author},
		"notes/list":    {"user": author, "object_list": []*models.Note{note}},
		"notes/form":    {"user": author, "form": forms.New(nil)},
		"notes/detail":  {"user": author, "note": note},
		"notes/delete":  {"user": author, "note": note},
		"notes/success": {"user": author},
		"users/login":   {"user": access.Anonymous, "form": forms.New(nil)},
		"users/logout":  {"user": access.Anonymous},
		"users/signup":  {"user": access.Anonymous, "form": forms.New(nil)},
	}

	for page, data := range pages {
		t.Run(page, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			w := httptest.NewRecorder()

			h.Render(w, req, http.StatusOK, page, data)

			assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
			assert.Contains(t, w.Body.String(), "<main>")
		})
	}
}

func TestHTML_DetailShowsWarningAndOwnLinks(t *testing.T) {
	h, err := render.NewHTML()
	require.NoError(t, err)

	form := forms.New(nil)
	form.AddError("text", "Не ругайтесь!")
	comment := &models.Comment{ID: 3, NewsID: 7, AuthorID: 1, Author: "Автор", Text: "Текст", Created: time.Now()}

	req := httptest.NewRequest(http.MethodGet, "/news/7/", nil)
	w := httptest.NewRecorder()
	h.Render(w, req, http.StatusOK, "news/detail", render.Context{
		"user":     access.Identity{ID: 1, Username: "Автор"},
		"news":     &models.News{ID: 7, Title: "Заголовок", Text: "Текст", Date: time.Now()},
		"comments": []*models.Comment{comment},
		"form":     form,
	})

	body := w.Body.String()
	assert.Contains(t, body, "Не ругайтесь!")
	assert.Contains(t, body, `href="/edit_comment/3/"`)
}

func TestHTML_UnknownPage(t *testing.T) {
	h, err := render.NewHTML()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.Render(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "nope", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestNegotiate(t *testing.T) {
	capture := &render.Capture{}
	r := render.Negotiate(capture, render.JSON{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	r.Render(w, req, http.StatusCreated, "news/home", render.Context{"count": 2})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var body map[string]int
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, 2, body["count"])
	_, ok := capture.Last()
	assert.False(t, ok)

	w = httptest.NewRecorder()
	r.Render(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "news/home", render.Context{"count": 3})
	page, ok := capture.Last()
	require.True(t, ok)
	assert.Equal(t, "news/home", page.Name)
	assert.Equal(t, 3, page.Context["count"])

	capture.Reset()
	_, ok = capture.Last()
	assert.False(t, ok)
}
