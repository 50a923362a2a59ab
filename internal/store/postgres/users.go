package postgres

import (
	"context"

	"news_portal/internal/models"
)

func (db *Database) CreateUser(ctx context.Context, u *models.User) error {
	u.BeforeCreate()
	err := db.Pool.QueryRow(ctx, `
        INSERT INTO users (username, password_hash, created_at)
        VALUES ($1, $2, $3)
        RETURNING id
    `, u.Username, u.PasswordHash, u.CreatedAt).Scan(&u.ID)
	return translate(err)
}

func (db *Database) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := db.Pool.QueryRow(ctx, `
        SELECT id, username, password_hash, created_at FROM users WHERE id = $1
    `, id).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (db *Database) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := db.Pool.QueryRow(ctx, `
        SELECT id, username, password_hash, created_at FROM users WHERE username = $1
    `, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}
