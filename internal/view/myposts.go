package view

import (
	"context"
	"sync"

	"github.com/templui/inkpost/internal/model"
	"github.com/templui/inkpost/internal/service"
	"github.com/templui/inkpost/internal/session"
)

// MyPostsController backs "/yourblogs": the signed-in user's posts.
// It reloads from page 1 whenever the identity changes.
type MyPostsController struct {
	*postList

	posts   *service.PostService
	store   *session.Store
	confirm ConfirmFunc

	unsubscribe func()
	reloads     sync.WaitGroup
}

func NewMyPostsController(posts *service.PostService, store *session.Store, confirm ConfirmFunc, pageSize int) *MyPostsController {
	c := &MyPostsController{
		posts:   posts,
		store:   store,
		confirm: confirm,
	}
	c.postList = newPostList("my-posts", pageSize, func(ctx context.Context, page model.Page) (*service.PostPage, error) {
		return posts.ListPostsByAuthor(ctx, store.UserID(), page)
	})
	return c
}

// Mount subscribes to identity changes and loads page 1 if signed in.
func (c *MyPostsController) Mount(ctx context.Context) error {
	c.unsubscribe = c.store.Subscribe(func(identity *model.Identity) {
		if identity == nil {
			c.reset()
			return
		}
		c.reloads.Add(1)
		go func() {
			defer c.reloads.Done()
			_ = c.load(context.WithoutCancel(ctx), model.FirstPage(c.State().Page.Size))
		}()
	})

	if !c.store.IsAuthenticated() {
		return nil
	}
	return c.load(ctx, model.FirstPage(c.State().Page.Size))
}

// Unmount stops following the session; in-flight responses are dropped.
func (c *MyPostsController) Unmount() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
	c.unmount()
}

// Wait blocks until reloads triggered by identity changes have finished.
func (c *MyPostsController) Wait() {
	c.reloads.Wait()
}

// Inserted puts a just-created post at the top without refetching.
func (c *MyPostsController) Inserted(post *model.Post) {
	c.prepend(post)
}

// Delete removes one of the caller's posts after confirmation. Nothing is
// sent to the backend for a post the caller does not own or when the user
// declines.
func (c *MyPostsController) Delete(ctx context.Context, postID string) error {
	post := c.Find(postID)
	if post == nil {
		return service.ErrNotFound
	}

	callerID := c.store.UserID()
	if callerID == "" {
		return service.ErrAuthRequired
	}
	if !post.OwnedBy(callerID) {
		return service.ErrForbidden
	}

	if c.confirm == nil || !c.confirm(DeletePrompt(post.Title)) {
		return service.ErrCancelled
	}

	err := c.posts.DeletePost(ctx, postID, callerID)
	if err != nil {
		c.setError(err)
		return err
	}

	c.remove(postID)
	return nil
}

func (c *MyPostsController) setError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Error = service.Message(err)
}
