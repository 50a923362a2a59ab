package memory_test

import (
	"testing"

	"news_portal/internal/store"
	"news_portal/internal/store/memory"
	"news_portal/internal/store/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return memory.New()
	})
}
