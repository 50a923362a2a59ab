package censor

import (
	"fmt"
	"strings"
)

// Violation сообщает, какое запрещённое слово найдено в тексте.
type Violation struct {
	Word    string
	Message string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("text contains disallowed word %q", v.Word)
}

// Filter отклоняет тексты, содержащие запрещённые подстроки.
// Проверка - простое вхождение подстроки, без учёта границ слов.
type Filter struct {
	words    []string
	warning  string
	foldCase bool
}

// New создаёт фильтр. Пустые слова игнорируются.
// При foldCase текст и слова сравниваются в нижнем регистре.
func New(words []string, warning string, foldCase bool) *Filter {
	f := &Filter{warning: warning, foldCase: foldCase}
	for _, w := range words {
		if w == "" {
			continue
		}
		if foldCase {
			w = strings.ToLower(w)
		}
		f.words = append(f.words, w)
	}
	return f
}

// Warning возвращает текст предупреждения для поля формы.
func (f *Filter) Warning() string {
	return f.warning
}

// Check возвращает *Violation для первого найденного слова или nil.
func (f *Filter) Check(text string) error {
	if f.foldCase {
		text = strings.ToLower(text)
	}
	for _, word := range f.words {
		if strings.Contains(text, word) {
			return &Violation{Word: word, Message: f.warning}
		}
	}
	return nil
}
