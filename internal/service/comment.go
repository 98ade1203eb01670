package service

import (
	"context"
	"strings"

	"github.com/templui/inkpost/internal/model"
	"github.com/templui/inkpost/internal/repository"
	"github.com/templui/inkpost/internal/validation"
)

type CommentService struct {
	repo repository.CommentRepository
}

func NewCommentService(repo repository.CommentRepository) *CommentService {
	return &CommentService{
		repo: repo,
	}
}

// ListCommentsByPost returns the post's comments, newest first.
func (s *CommentService) ListCommentsByPost(ctx context.Context, postID string) ([]*model.Comment, error) {
	comments, err := s.repo.ByPost(ctx, postID)
	if err != nil {
		return nil, backendError("list comments", err)
	}
	return comments, nil
}

// CreateComment inserts a comment. The body may be empty when an attachment
// URL is given. The display name comes from the author's email.
func (s *CommentService) CreateComment(ctx context.Context, postID, body string, attachmentURL *string, author *model.Identity) (*model.Comment, error) {
	if author == nil || author.ID == "" {
		return nil, ErrAuthRequired
	}

	hasAttachment := attachmentURL != nil && *attachmentURL != ""
	if err := validation.ValidateComment(body, hasAttachment); err != nil {
		return nil, &ValidationError{Field: "body", Message: err.Error()}
	}
	if !hasAttachment {
		attachmentURL = nil
	}

	comment := &model.Comment{
		PostID:     postID,
		AuthorID:   author.ID,
		AuthorName: DisplayName(author.Email),
		Body:       strings.TrimSpace(body),
		ImageURL:   attachmentURL,
	}

	err := s.repo.Create(ctx, comment)
	if err != nil {
		return nil, backendError("create comment", err)
	}

	return comment, nil
}

// DisplayName is the local part of an email address.
func DisplayName(email string) string {
	name, _, found := strings.Cut(email, "@")
	if !found || name == "" {
		return email
	}
	return name
}
