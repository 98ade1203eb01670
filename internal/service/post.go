package service

import (
	"context"
	"errors"
	"strings"

	"github.com/templui/inkpost/internal/model"
	"github.com/templui/inkpost/internal/repository"
	"github.com/templui/inkpost/internal/validation"
)

// PostPage is one page of a post listing.
type PostPage struct {
	Posts   []*model.Post
	Page    model.Page
	HasMore bool // inferred from a full page, not counted
}

// PostService is the client's view of the "posts" collection. Every list call
// goes to the backend; nothing is cached here.
type PostService struct {
	repo repository.PostRepository
}

func NewPostService(repo repository.PostRepository) *PostService {
	return &PostService{
		repo: repo,
	}
}

func (s *PostService) GetPost(ctx context.Context, id string) (*model.Post, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrNotFound
	}

	post, err := s.repo.ByID(ctx, id)
	if errors.Is(err, repository.ErrPostNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, backendError("get post", err)
	}

	return post, nil
}

// ListPostsByAuthor returns a page of the author's posts, newest first.
func (s *PostService) ListPostsByAuthor(ctx context.Context, authorID string, page model.Page) (*PostPage, error) {
	if authorID == "" {
		return nil, ErrAuthRequired
	}
	page = normalizePage(page)

	posts, err := s.repo.ByAuthor(ctx, authorID, page.Offset(), page.Size)
	if err != nil {
		return nil, backendError("list posts", err)
	}

	return &PostPage{Posts: posts, Page: page, HasMore: page.HasMore(len(posts))}, nil
}

// ListRecentPosts returns a page of everyone's posts, newest first.
func (s *PostService) ListRecentPosts(ctx context.Context, page model.Page) (*PostPage, error) {
	page = normalizePage(page)

	posts, err := s.repo.Recent(ctx, page.Offset(), page.Size)
	if err != nil {
		return nil, backendError("list posts", err)
	}

	return &PostPage{Posts: posts, Page: page, HasMore: page.HasMore(len(posts))}, nil
}

// ValidatePostFields runs the form checks without touching the backend.
func ValidatePostFields(fields model.PostFields) error {
	err := validation.ValidatePost(fields.Title, fields.Author, fields.Content)
	if err != nil {
		var fe *validation.FieldError
		if errors.As(err, &fe) {
			return &ValidationError{Field: fe.Field, Message: fe.Message}
		}
		return &ValidationError{Message: err.Error()}
	}
	return nil
}

// CreatePost validates locally first; an invalid form never reaches the backend.
func (s *PostService) CreatePost(ctx context.Context, fields model.PostFields, authorID string) (*model.Post, error) {
	if err := ValidatePostFields(fields); err != nil {
		return nil, err
	}
	if authorID == "" {
		return nil, ErrAuthRequired
	}

	post := &model.Post{
		AuthorID: authorID,
		Author:   strings.TrimSpace(fields.Author),
		Title:    strings.TrimSpace(fields.Title),
		Content:  fields.Content,
		ImageURL: fields.ImageURL,
	}

	err := s.repo.Create(ctx, post)
	if err != nil {
		return nil, backendError("create post", err)
	}

	return post, nil
}

// UpdatePost is only attempted for the post's author.
func (s *PostService) UpdatePost(ctx context.Context, id string, fields model.PostFields, callerID string) (*model.Post, error) {
	if err := ValidatePostFields(fields); err != nil {
		return nil, err
	}
	if callerID == "" {
		return nil, ErrAuthRequired
	}

	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if !post.OwnedBy(callerID) {
		return nil, ErrForbidden
	}

	post.Title = strings.TrimSpace(fields.Title)
	post.Author = strings.TrimSpace(fields.Author)
	post.Content = fields.Content
	post.ImageURL = fields.ImageURL

	err = s.repo.Update(ctx, post)
	if errors.Is(err, repository.ErrPostNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, backendError("update post", err)
	}

	return post, nil
}

// DeletePost is scoped to (id, callerID), so the backend ignores a
// non-owner's request even if the client-side check was skipped.
// Callers must have confirmed the deletion with the user.
func (s *PostService) DeletePost(ctx context.Context, id, callerID string) error {
	if callerID == "" {
		return ErrAuthRequired
	}

	err := s.repo.Delete(ctx, id, callerID)
	if errors.Is(err, repository.ErrPostNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return backendError("delete post", err)
	}

	return nil
}

func normalizePage(page model.Page) model.Page {
	if page.Size <= 0 {
		page.Size = model.DefaultPageSize
	}
	if page.Number < 1 {
		page.Number = 1
	}
	return page
}
