// Package importer наполняет ленту новостей из RSS.
package importer

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"news_portal/internal/logger"
	"news_portal/internal/metrics"
	"news_portal/internal/models"
	"news_portal/internal/store"
)

// Importer сохраняет публикации лент как новости. Повторно ссылка не импортируется.
type Importer struct {
	store  store.NewsStore
	client *http.Client
}

func New(st store.NewsStore, client *http.Client) *Importer {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Importer{store: st, client: client}
}

// ImportFeed загружает ленту и возвращает число новых новостей.
func (imp *Importer) ImportFeed(ctx context.Context, url string) (int, error) {
	log := logger.FromContext(ctx).WithField("url", url)

	log.Debug("Fetching RSS feed")
	rss, err := FetchRSS(ctx, imp.client, url)
	if err != nil {
		return 0, err
	}

	log = log.WithField("items_count", len(rss.Channel.Items))
	log.Info("Processing RSS feed")

	imported := 0
	for _, item := range rss.Channel.Items {
		ok, err := imp.importItem(ctx, log, item)
		if err != nil {
			return imported, err
		}
		if ok {
			imported++
		}
	}
	metrics.NewsImported.Add(float64(imported))
	log.Infof("Imported %d items", imported)
	return imported, nil
}

// importItem возвращает ошибку только при сбое хранилища.
// Битые и уже известные публикации пропускаются.
func (imp *Importer) importItem(ctx context.Context, log *logger.Entry, item Item) (bool, error) {
	pubDate, err := time.Parse(time.RFC1123Z, strings.TrimSpace(item.PubDate))
	if err != nil {
		log.Warnf("Failed to parse date '%s': %v", item.PubDate, err)
		return false, nil
	}

	n := &models.News{
		Title:      strings.TrimSpace(item.Title),
		Text:       strings.TrimSpace(item.Description),
		Date:       pubDate.UTC(),
		SourceLink: strings.TrimSpace(item.Link),
	}
	if n.Text == "" {
		n.Text = n.Title
	}
	if err := models.Validate(n); err != nil {
		log.Warnf("Skipping invalid item '%s': %v", item.Link, err)
		return false, nil
	}

	if n.SourceLink != "" {
		_, err := imp.store.GetNewsBySourceLink(ctx, n.SourceLink)
		if err == nil {
			return false, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return false, err
		}
	}

	err = imp.store.CreateNews(ctx, n)
	if errors.Is(err, store.ErrDuplicate) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
