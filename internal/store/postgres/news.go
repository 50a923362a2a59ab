package postgres

import (
	"context"

	"news_portal/internal/models"

	"github.com/jackc/pgx/v5"
)

// CreateNews сохраняет новость. Пустой SourceLink хранится как NULL,
// поэтому уникальность ссылки на него не распространяется.
func (db *Database) CreateNews(ctx context.Context, n *models.News) error {
	n.BeforeCreate()
	err := db.Pool.QueryRow(ctx, `
        INSERT INTO news (title, text, date, source_link)
        VALUES ($1, $2, $3, NULLIF($4, ''))
        RETURNING id
    `, n.Title, n.Text, n.Date, n.SourceLink).Scan(&n.ID)
	return translate(err)
}

const newsColumns = `id, title, text, date, COALESCE(source_link, '')`

func scanNews(row pgx.Row) (*models.News, error) {
	var n models.News
	if err := row.Scan(&n.ID, &n.Title, &n.Text, &n.Date, &n.SourceLink); err != nil {
		return nil, translate(err)
	}
	return &n, nil
}

func (db *Database) GetNews(ctx context.Context, id int64) (*models.News, error) {
	return scanNews(db.Pool.QueryRow(ctx, `SELECT `+newsColumns+` FROM news WHERE id = $1`, id))
}

func (db *Database) GetNewsBySourceLink(ctx context.Context, link string) (*models.News, error) {
	return scanNews(db.Pool.QueryRow(ctx, `SELECT `+newsColumns+` FROM news WHERE source_link = $1`, link))
}

// ListNews возвращает новости по убыванию даты; при равной дате - в порядке вставки.
// limit <= 0 снимает ограничение.
func (db *Database) ListNews(ctx context.Context, limit, offset int) ([]*models.News, error) {
	var lim any
	if limit > 0 {
		lim = limit
	}
	rows, err := db.Pool.Query(ctx, `
        SELECT `+newsColumns+`
        FROM news
        ORDER BY date DESC, id ASC
        LIMIT $1 OFFSET $2
    `, lim, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var news []*models.News
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		news = append(news, n)
	}
	return news, rows.Err()
}

func (db *Database) CountNews(ctx context.Context) (int, error) {
	return db.count(ctx, "news")
}

// DeleteNews удаляет новость; комментарии удаляются каскадом.
func (db *Database) DeleteNews(ctx context.Context, id int64) error {
	return affected(db.Pool.Exec(ctx, `DELETE FROM news WHERE id = $1`, id))
}

// CreateComment сохраняет комментарий и подставляет имя автора.
// Нарушение внешнего ключа (нет новости или автора) даёт store.ErrNotFound.
func (db *Database) CreateComment(ctx context.Context, c *models.Comment) error {
	c.BeforeCreate()
	err := db.Pool.QueryRow(ctx, `
        WITH inserted AS (
            INSERT INTO comments (news_id, author_id, text, created)
            VALUES ($1, $2, $3, $4)
            RETURNING id, author_id
        )
        SELECT i.id, u.username FROM inserted i JOIN users u ON u.id = i.author_id
    `, c.NewsID, c.AuthorID, c.Text, c.Created).Scan(&c.ID, &c.Author)
	return translate(err)
}

const commentSelect = `
    SELECT c.id, c.news_id, c.author_id, u.username, c.text, c.created
    FROM comments c
    JOIN users u ON u.id = c.author_id
`

func scanComment(row pgx.Row) (*models.Comment, error) {
	var c models.Comment
	if err := row.Scan(&c.ID, &c.NewsID, &c.AuthorID, &c.Author, &c.Text, &c.Created); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (db *Database) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	return scanComment(db.Pool.QueryRow(ctx, commentSelect+` WHERE c.id = $1`, id))
}

func (db *Database) ListComments(ctx context.Context, newsID int64) ([]*models.Comment, error) {
	rows, err := db.Pool.Query(ctx, commentSelect+`
        WHERE c.news_id = $1
        ORDER BY c.created ASC, c.id ASC
    `, newsID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// UpdateComment меняет только текст; новость, автор и время создания сохраняются.
func (db *Database) UpdateComment(ctx context.Context, c *models.Comment) error {
	return affected(db.Pool.Exec(ctx, `UPDATE comments SET text = $2 WHERE id = $1`, c.ID, c.Text))
}

func (db *Database) DeleteComment(ctx context.Context, id int64) error {
	return affected(db.Pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id))
}

func (db *Database) CountComments(ctx context.Context) (int, error) {
	return db.count(ctx, "comments")
}
