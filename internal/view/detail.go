package view

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/templui/inkpost/internal/model"
	"github.com/templui/inkpost/internal/service"
	"github.com/templui/inkpost/internal/session"
	"github.com/templui/inkpost/internal/validation"
	"golang.org/x/sync/errgroup"
)

// DetailState is a snapshot of the post page.
type DetailState struct {
	Status   Status
	Post     *model.Post
	Comments []*model.Comment
	Error    string

	DraftBody       string
	DraftAttachment *model.PendingAttachment
	Submitting      bool
	CommentError    string
}

// PostDetailController backs "/blogs/:id": one post and its comments.
type PostDetailController struct {
	posts       *service.PostService
	comments    *service.CommentService
	attachments *service.AttachmentService
	store       *session.Store

	mu         sync.Mutex
	state      DetailState
	generation uint64
	closed     bool
}

func NewPostDetailController(posts *service.PostService, comments *service.CommentService, attachments *service.AttachmentService, store *session.Store) *PostDetailController {
	return &PostDetailController{
		posts:       posts,
		comments:    comments,
		attachments: attachments,
		store:       store,
		state:       DetailState{Status: StatusIdle},
	}
}

func (c *PostDetailController) State() DetailState {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Comments = slices.Clone(c.state.Comments)
	return s
}

// Load fetches the post and its comments concurrently. A missing post
// leaves the page empty.
func (c *PostDetailController) Load(ctx context.Context, postID string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.generation++
	gen := c.generation
	c.state.Status = StatusLoading
	c.state.Error = ""
	c.mu.Unlock()

	var (
		post     *model.Post
		comments []*model.Comment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		post, err = c.posts.GetPost(gctx, postID)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = c.comments.ListCommentsByPost(gctx, postID)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.generation {
		return nil
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		c.state.Status = StatusEmpty
		c.state.Post = nil
		c.state.Comments = nil
		return err
	case err != nil:
		slog.Error("failed to load post", "post_id", postID, "error", err)
		c.state.Status = StatusError
		c.state.Error = service.Message(err)
		return err
	}

	c.state.Status = StatusPopulated
	c.state.Post = post
	c.state.Comments = comments
	return nil
}

// CanEdit reports whether the signed-in user owns the post.
func (c *PostDetailController) CanEdit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Post != nil && c.state.Post.OwnedBy(c.store.UserID())
}

// LastUpdated is the post's most recent edit time, if it was ever edited.
func (c *PostDetailController) LastUpdated() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Post == nil {
		return time.Time{}, false
	}
	return c.state.Post.LastUpdated()
}

func (c *PostDetailController) SetDraft(body string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.DraftBody = body
	c.state.CommentError = ""
}

func (c *PostDetailController) SetDraftAttachment(att *model.PendingAttachment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.DraftAttachment = att
	c.state.CommentError = ""
}

// SubmitComment validates the draft, uploads its attachment if any, inserts
// the comment and prepends it locally. The draft is kept on failure.
func (c *PostDetailController) SubmitComment(ctx context.Context) (*model.Comment, error) {
	c.mu.Lock()
	if c.state.Submitting {
		c.mu.Unlock()
		return nil, ErrSubmitting
	}
	post := c.state.Post
	body := c.state.DraftBody
	att := c.state.DraftAttachment
	c.state.Submitting = true
	c.state.CommentError = ""
	c.mu.Unlock()

	comment, err := c.submitComment(ctx, post, body, att)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Submitting = false
	if c.closed {
		return comment, err
	}
	if err != nil {
		c.state.CommentError = service.Message(err)
		return nil, err
	}

	c.state.Comments = append([]*model.Comment{comment}, c.state.Comments...)
	c.state.DraftBody = ""
	c.state.DraftAttachment = nil
	return comment, nil
}

func (c *PostDetailController) submitComment(ctx context.Context, post *model.Post, body string, att *model.PendingAttachment) (*model.Comment, error) {
	if post == nil {
		return nil, service.ErrNotFound
	}

	identity := c.store.Get()
	if identity == nil {
		return nil, service.ErrAuthRequired
	}

	if err := validation.ValidateComment(body, att != nil); err != nil {
		return nil, &service.ValidationError{Field: "body", Message: err.Error()}
	}
	if att != nil {
		if err := c.attachments.Validate(att); err != nil {
			return nil, err
		}
	}

	var url *string
	if att != nil {
		u, err := c.attachments.Upload(ctx, service.Namespace{Kind: service.KindComment, OwnerID: post.ID}, att)
		if err != nil {
			return nil, err
		}
		url = &u
	}

	comment, err := c.comments.CreateComment(ctx, post.ID, strings.TrimSpace(body), url, identity)
	if err != nil {
		if url != nil {
			c.attachments.Orphaned(*url, err)
		}
		return nil, err
	}

	return comment, nil
}

// Unmount drops any in-flight responses.
func (c *PostDetailController) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}
