package censor_test

import (
	"errors"
	"testing"

	"news_portal/internal/censor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const warning = "Не ругайтесь!"

var badWords = []string{"редиска", "негодяй"}

func TestCheck(t *testing.T) {
	f := censor.New(badWords, warning, false)

	tests := []struct {
		name     string
		text     string
		wantWord string
	}{
		{name: "clean", text: "Текст комментария"},
		{name: "exact word", text: "редиска", wantWord: "редиска"},
		{name: "inside sentence", text: "Какой-то текст, негодяй, еще текст", wantWord: "негодяй"},
		{name: "part of longer word", text: "редиски на грядке", wantWord: ""},
		{name: "substring of unrelated word", text: "негодяйство", wantWord: "негодяй"},
		{name: "different case passes", text: "РЕДИСКА", wantWord: ""},
		{name: "empty", text: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.Check(tt.text)
			if tt.wantWord == "" {
				assert.NoError(t, err)
				return
			}
			var v *censor.Violation
			require.True(t, errors.As(err, &v))
			assert.Equal(t, tt.wantWord, v.Word)
			assert.Equal(t, warning, v.Message)
		})
	}
}

func TestCheck_FoldCase(t *testing.T) {
	f := censor.New([]string{"Редиска"}, warning, true)

	assert.Error(t, f.Check("Ты РЕДИСКА"))
	assert.Error(t, f.Check("ты редиска"))
	assert.NoError(t, f.Check("ты морковка"))
}

func TestNew_SkipsEmptyWords(t *testing.T) {
	f := censor.New([]string{"", "spam"}, warning, false)

	assert.NoError(t, f.Check("anything"))
	assert.Error(t, f.Check("spam"))
	assert.Equal(t, warning, f.Warning())
}
