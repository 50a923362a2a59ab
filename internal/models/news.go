package models

import "time"

// News представляет новость ленты.
// SourceLink заполняется импортом RSS и уникален, если не пуст.
type News struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title" form:"title" validate:"required,max=250"`
	Text       string    `json:"text" form:"text" validate:"required"`
	Date       time.Time `json:"date"`
	SourceLink string    `json:"source_link,omitempty" validate:"omitempty,url,max=2048"`
}

// Timestamp возвращает дату, по которой сортируется лента.
func (n *News) Timestamp() time.Time {
	return n.Date
}

// BeforeCreate проставляет дату публикации, если она не задана.
func (n *News) BeforeCreate() {
	if n.Date.IsZero() {
		n.Date = time.Now().UTC()
	}
}

// Comment - комментарий к новости.
type Comment struct {
	ID       int64     `json:"id"`
	NewsID   int64     `json:"news_id" validate:"required,gt=0"`
	AuthorID int64     `json:"author_id" validate:"required,gt=0"`
	Author   string    `json:"author"`
	Text     string    `json:"text" form:"text" validate:"required"`
	Created  time.Time `json:"created"`
}

// Timestamp возвращает время создания комментария.
func (c *Comment) Timestamp() time.Time {
	return c.Created
}

func (c *Comment) BeforeCreate() {
	if c.Created.IsZero() {
		c.Created = time.Now().UTC()
	}
}
