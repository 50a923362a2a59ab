package importer_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"news_portal/internal/importer"
	"news_portal/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Feed</title>
    <item>
      <title>First</title>
      <description>First text</description>
      <pubDate>Wed, 03 May 2023 15:04:05 +0000</pubDate>
      <link>http://example.com/1</link>
    </item>
    <item>
      <title>Second</title>
      <pubDate>Thu, 04 May 2023 10:00:00 +0300</pubDate>
      <link>http://example.com/2</link>
    </item>
    <item>
      <title>Bad date</title>
      <description>Skipped</description>
      <pubDate>yesterday</pubDate>
      <link>http://example.com/3</link>
    </item>
    <item>
      <title>First again</title>
      <description>Same link</description>
      <pubDate>Wed, 03 May 2023 16:04:05 +0000</pubDate>
      <link>http://example.com/1</link>
    </item>
  </channel>
</rss>`

func feedServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.Write([]byte(feed))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestImportFeed(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	server := feedServer(t, nil)
	imp := importer.New(st, server.Client())

	n, err := imp.ImportFeed(ctx, server.URL)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	first, err := st.GetNewsBySourceLink(ctx, "http://example.com/1")
	require.NoError(t, err)
	assert.Equal(t, "First", first.Title)
	assert.Equal(t, "First text", first.Text)
	assert.True(t, first.Date.Equal(time.Date(2023, 5, 3, 15, 4, 5, 0, time.UTC)))

	second, err := st.GetNewsBySourceLink(ctx, "http://example.com/2")
	require.NoError(t, err)
	assert.Equal(t, "Second", second.Text, "empty description falls back to title")

	items, err := st.ListNews(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Second", items[0].Title)

	n, err = imp.ImportFeed(ctx, server.URL)
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := st.CountNews(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestImportFeed_FetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	_, err := importer.New(memory.New(), server.Client()).ImportFeed(context.Background(), server.URL)
	require.Error(t, err)
}

func TestStartPolling(t *testing.T) {
	var hits atomic.Int32
	server := feedServer(t, &hits)
	st := memory.New()
	imp := importer.New(st, server.Client())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		importer.StartPolling(ctx, imp, []string{server.URL}, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return hits.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancel")
	}

	count, err := st.CountNews(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
