package access_test

import (
	"fmt"
	"testing"

	"news_portal/internal/access"

	"github.com/stretchr/testify/assert"
)

func TestIsAuthor(t *testing.T) {
	author := access.Identity{ID: 1, Username: "Автор"}
	reader := access.Identity{ID: 2, Username: "Читатель"}

	assert.True(t, access.IsAuthor(author, author))
	assert.False(t, access.IsAuthor(reader, author))
	assert.False(t, access.IsAuthor(access.Anonymous, author))
	assert.False(t, access.IsAuthor(access.Anonymous, access.Anonymous))
}

func TestCheck(t *testing.T) {
	author := access.Identity{ID: 1, Username: "Автор"}
	reader := access.Identity{ID: 2, Username: "Читатель"}

	tests := []struct {
		action    access.Action
		requester access.Identity
		want      access.Decision
	}{
		{access.View, access.Anonymous, access.Allow},
		{access.View, reader, access.Allow},
		{access.View, author, access.Allow},

		{access.Create, access.Anonymous, access.Login},
		{access.Create, reader, access.Allow},

		{access.ViewOwn, access.Anonymous, access.Login},
		{access.ViewOwn, reader, access.NotFound},
		{access.ViewOwn, author, access.Allow},

		{access.Edit, access.Anonymous, access.Login},
		{access.Edit, reader, access.NotFound},
		{access.Edit, author, access.Allow},

		{access.Delete, access.Anonymous, access.Login},
		{access.Delete, reader, access.NotFound},
		{access.Delete, author, access.Allow},
	}

	for _, tt := range tests {
		name := fmt.Sprintf("%s by %q", tt.action, tt.requester.Username)
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, access.Check(tt.action, tt.requester, author))
		})
	}
}
