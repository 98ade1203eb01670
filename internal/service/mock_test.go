package service

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/templui/inkpost/internal/model"
)

type mockPostRepo struct {
	mock.Mock
}

func (m *mockPostRepo) Create(ctx context.Context, post *model.Post) error {
	args := m.Called(post)
	if args.Error(0) == nil {
		post.ID = "generated-id"
	}
	return args.Error(0)
}

func (m *mockPostRepo) ByID(ctx context.Context, id string) (*model.Post, error) {
	args := m.Called(id)
	post, _ := args.Get(0).(*model.Post)
	return post, args.Error(1)
}

func (m *mockPostRepo) ByAuthor(ctx context.Context, authorID string, offset, limit int) ([]*model.Post, error) {
	args := m.Called(authorID, offset, limit)
	posts, _ := args.Get(0).([]*model.Post)
	return posts, args.Error(1)
}

func (m *mockPostRepo) Recent(ctx context.Context, offset, limit int) ([]*model.Post, error) {
	args := m.Called(offset, limit)
	posts, _ := args.Get(0).([]*model.Post)
	return posts, args.Error(1)
}

func (m *mockPostRepo) Update(ctx context.Context, post *model.Post) error {
	return m.Called(post).Error(0)
}

func (m *mockPostRepo) Delete(ctx context.Context, id, authorID string) error {
	return m.Called(id, authorID).Error(0)
}

type mockCommentRepo struct {
	mock.Mock
}

func (m *mockCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	return m.Called(comment).Error(0)
}

func (m *mockCommentRepo) ByPost(ctx context.Context, postID string) ([]*model.Comment, error) {
	args := m.Called(postID)
	comments, _ := args.Get(0).([]*model.Comment)
	return comments, args.Error(1)
}

func posts(n int) []*model.Post {
	out := make([]*model.Post, n)
	for i := range out {
		out[i] = &model.Post{ID: string(rune('a' + i))}
	}
	return out
}
