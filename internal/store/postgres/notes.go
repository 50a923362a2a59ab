package postgres

import (
	"context"

	"news_portal/internal/models"

	"github.com/jackc/pgx/v5"
)

func (db *Database) CreateNote(ctx context.Context, n *models.Note) error {
	err := db.Pool.QueryRow(ctx, `
        INSERT INTO notes (title, text, slug, author_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `, n.Title, n.Text, n.Slug, n.AuthorID).Scan(&n.ID)
	return translate(err)
}

func scanNote(row pgx.Row) (*models.Note, error) {
	var n models.Note
	if err := row.Scan(&n.ID, &n.Title, &n.Text, &n.Slug, &n.AuthorID); err != nil {
		return nil, translate(err)
	}
	return &n, nil
}

func (db *Database) GetNoteBySlug(ctx context.Context, slug string) (*models.Note, error) {
	return scanNote(db.Pool.QueryRow(ctx, `
        SELECT id, title, text, slug, author_id FROM notes WHERE slug = $1
    `, slug))
}

func (db *Database) ListNotesByAuthor(ctx context.Context, authorID int64) ([]*models.Note, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT id, title, text, slug, author_id
        FROM notes
        WHERE author_id = $1
        ORDER BY id
    `, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*models.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (db *Database) UpdateNote(ctx context.Context, n *models.Note) error {
	return affected(db.Pool.Exec(ctx, `
        UPDATE notes SET title = $2, text = $3, slug = $4 WHERE id = $1
    `, n.ID, n.Title, n.Text, n.Slug))
}

func (db *Database) DeleteNote(ctx context.Context, id int64) error {
	return affected(db.Pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id))
}

func (db *Database) CountNotes(ctx context.Context) (int, error) {
	return db.count(ctx, "notes")
}
