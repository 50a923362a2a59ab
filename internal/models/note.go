package models

// SlugMaxLength - максимальная длина slug заметки.
const SlugMaxLength = 100

// Note - личная заметка пользователя. Slug уникален среди всех заметок.
type Note struct {
	ID       int64  `json:"id"`
	Title    string `json:"title" form:"title" validate:"required,max=100"`
	Text     string `json:"text" form:"text" validate:"required"`
	Slug     string `json:"slug" form:"slug" validate:"required,max=100,slug"`
	AuthorID int64  `json:"author_id" validate:"required,gt=0"`
}
