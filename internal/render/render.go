// Package render выводит страницы портала: HTML-шаблоны для браузера,
// JSON для API-клиентов и Capture для тестов.
package render

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"

	"news_portal/internal/logger"
)

// Context - данные страницы, аналог контекста шаблона.
type Context map[string]any

type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, page string, data Context)
}

//go:embed templates
var templateFS embed.FS

var funcs = template.FuncMap{
	"date": func(layout string, v interface{ Format(string) string }) string {
		return v.Format(layout)
	},
	"join": strings.Join,
}

// HTML рендерит страницы из встроенных шаблонов. Каждая страница
// собирается из layout.html и своего файла, определяющего "content".
type HTML struct {
	pages map[string]*template.Template
}

func NewHTML() (*HTML, error) {
	h := &HTML{pages: make(map[string]*template.Template)}
	err := fs.WalkDir(templateFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path == "templates/layout.html" {
			return err
		}
		name := strings.TrimSuffix(strings.TrimPrefix(path, "templates/"), ".html")
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", path)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		h.pages[name] = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (h *HTML) Render(w http.ResponseWriter, r *http.Request, status int, page string, data Context) {
	tmpl, ok := h.pages[page]
	if !ok {
		logger.FromContext(r.Context()).Errorf("Unknown template %q", page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		logger.FromContext(r.Context()).WithError(err).Errorf("Template %q failed", page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// JSON отдаёт контекст страницы как JSON-объект.
type JSON struct{}

func (JSON) Render(w http.ResponseWriter, r *http.Request, status int, page string, data Context) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).WithError(err).Error("Failed to encode response")
	}
}

// Negotiate выбирает JSON для запросов с Accept: application/json, иначе HTML.
func Negotiate(html, api Renderer) Renderer {
	return negotiator{html: html, api: api}
}

type negotiator struct {
	html, api Renderer
}

func (n negotiator) Render(w http.ResponseWriter, r *http.Request, status int, page string, data Context) {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		n.api.Render(w, r, status, page, data)
		return
	}
	n.html.Render(w, r, status, page, data)
}

// Page - одна запись Capture.
type Page struct {
	Name    string
	Status  int
	Context Context
}

// Capture запоминает отрендеренные страницы, чтобы тесты могли проверить контекст.
type Capture struct {
	mu    sync.Mutex
	pages []Page
}

func (c *Capture) Render(w http.ResponseWriter, r *http.Request, status int, page string, data Context) {
	c.mu.Lock()
	c.pages = append(c.pages, Page{Name: page, Status: status, Context: data})
	c.mu.Unlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprint(w, page)
}

// Last возвращает последнюю страницу; ok=false, если ничего не рендерилось.
func (c *Capture) Last() (Page, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pages) == 0 {
		return Page{}, false
	}
	return c.pages[len(c.pages)-1], true
}

func (c *Capture) Reset() {
	c.mu.Lock()
	c.pages = nil
	c.mu.Unlock()
}
