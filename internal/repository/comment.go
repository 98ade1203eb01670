package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/inkpost/internal/model"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	ByPost(ctx context.Context, postID string) ([]*model.Comment, error)
}

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	comment.ID = uuid.New().String()
	comment.CreatedAt = time.Now().UTC()

	query := `INSERT INTO comments (id, post_id, author_id, author_name, body, image_url, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		comment.ID,
		comment.PostID,
		comment.AuthorID,
		comment.AuthorName,
		comment.Body,
		comment.ImageURL,
		comment.CreatedAt,
	)

	return err
}

func (r *commentRepository) ByPost(ctx context.Context, postID string) ([]*model.Comment, error) {
	comments := []*model.Comment{}
	query := `SELECT id, post_id, author_id, author_name, body, image_url, created_at
	          FROM comments WHERE post_id = $1 ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &comments, query, postID)
	if err != nil {
		return nil, err
	}

	return comments, nil
}
