package view

import (
	"context"

	"github.com/templui/inkpost/internal/model"
	"github.com/templui/inkpost/internal/service"
)

// HomeController backs "/": everyone's posts, newest first.
type HomeController struct {
	*postList
}

func NewHomeController(posts *service.PostService, pageSize int) *HomeController {
	return &HomeController{
		postList: newPostList("home", pageSize, posts.ListRecentPosts),
	}
}

func (c *HomeController) Mount(ctx context.Context) error {
	return c.load(ctx, model.FirstPage(c.State().Page.Size))
}

func (c *HomeController) Unmount() {
	c.unmount()
}
