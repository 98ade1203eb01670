package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/inkpost/internal/model"
)

var (
	ErrPostNotFound = errors.New("post not found")
)

const postColumns = `id, created_at, updated_at, author_id, author, title, content, image_url`

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	ByID(ctx context.Context, id string) (*model.Post, error)
	ByAuthor(ctx context.Context, authorID string, offset, limit int) ([]*model.Post, error)
	Recent(ctx context.Context, offset, limit int) ([]*model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id, authorID string) error
}

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// Create assigns id and created_at; callers never choose them.
func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	post.ID = uuid.New().String()
	post.CreatedAt = time.Now().UTC()
	post.UpdatedAt = nil

	query := `INSERT INTO posts (` + postColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		post.ID,
		post.CreatedAt,
		post.UpdatedAt,
		post.AuthorID,
		post.Author,
		post.Title,
		post.Content,
		post.ImageURL,
	)

	return err
}

func (r *postRepository) ByID(ctx context.Context, id string) (*model.Post, error) {
	post := &model.Post{}
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	err := r.db.GetContext(ctx, post, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	return post, nil
}

func (r *postRepository) ByAuthor(ctx context.Context, authorID string, offset, limit int) ([]*model.Post, error) {
	posts := []*model.Post{}
	query := `SELECT ` + postColumns + ` FROM posts WHERE author_id = $1
	          ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	err := r.db.SelectContext(ctx, &posts, query, authorID, limit, offset)
	if err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepository) Recent(ctx context.Context, offset, limit int) ([]*model.Post, error) {
	posts := []*model.Post{}
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	err := r.db.SelectContext(ctx, &posts, query, limit, offset)
	if err != nil {
		return nil, err
	}

	return posts, nil
}

// Update stamps updated_at and only touches rows owned by post.AuthorID.
func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	now := time.Now().UTC()
	query := `UPDATE posts
	          SET title = $1, author = $2, content = $3, image_url = $4, updated_at = $5
	          WHERE id = $6 AND author_id = $7`

	result, err := r.db.ExecContext(ctx, query,
		post.Title,
		post.Author,
		post.Content,
		post.ImageURL,
		now,
		post.ID,
		post.AuthorID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrPostNotFound
	}

	post.UpdatedAt = &now
	return nil
}

// Delete is scoped to (id, authorID): a non-owner's request matches no row.
func (r *postRepository) Delete(ctx context.Context, id, authorID string) error {
	query := `DELETE FROM posts WHERE id = $1 AND author_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, authorID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrPostNotFound
	}

	return nil
}
