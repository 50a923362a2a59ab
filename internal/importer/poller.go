package importer

import (
	"context"
	"sync"
	"time"

	"news_portal/internal/logger"
)

// StartPolling импортирует все ленты сразу и затем каждые interval,
// пока не отменён ctx. Цикл ждёт завершения всех лент.
func StartPolling(ctx context.Context, imp *Importer, urls []string, interval time.Duration) {
	log := logger.FromContext(ctx).WithFields(logger.Fields{
		"service":  "poller",
		"interval": interval.String(),
	})

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		log.Info("Starting new polling cycle")
		imp.importAll(ctx, urls)

		select {
		case <-ticker.C:
		case <-ctx.Done():
			log.Info("Stopping poller by context")
			return
		}
	}
}

func (imp *Importer) importAll(ctx context.Context, urls []string) {
	var wg sync.WaitGroup
	for _, url := range urls {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			if _, err := imp.ImportFeed(ctx, url); err != nil {
				logger.FromContext(ctx).WithField("url", url).Errorf("Failed to import RSS: %v", err)
			}
		}(url)
	}
	wg.Wait()
}
