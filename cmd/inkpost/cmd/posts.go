package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/inkpost/internal/model"
	"github.com/templui/inkpost/internal/routes"
	"github.com/templui/inkpost/internal/service"
	"github.com/templui/inkpost/internal/view"
)

func PostsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Read and write posts",
	}

	cmd.AddCommand(postsMineCmd(rt))
	cmd.AddCommand(postsShowCmd(rt))
	cmd.AddCommand(postsNewCmd(rt))
	cmd.AddCommand(postsEditCmd(rt))
	cmd.AddCommand(postsDeleteCmd(rt))
	return cmd
}

// pager is the subset of the list controllers used to reach a page.
type pager interface {
	State() view.ListState
	NextPage(ctx context.Context) error
}

// gotoPage advances from page 1 until page n or the last full page.
func gotoPage(ctx context.Context, p pager, n int) error {
	for p.State().Page.Number < n && p.State().HasMore {
		if err := p.NextPage(ctx); err != nil {
			return err
		}
	}
	return nil
}

func feedCmd(rt *runtime) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "List recent posts from everyone",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := navigate(a, routes.Home); err != nil {
				return err
			}

			c := view.NewHomeController(a.PostService, a.Cfg.PageSize)
			defer c.Unmount()

			if err := c.Mount(cmd.Context()); err != nil {
				return err
			}
			if err := gotoPage(cmd.Context(), c, page); err != nil {
				return err
			}

			printList(cmd.OutOrStdout(), c.State())
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")

	return cmd
}

func postsMineCmd(rt *runtime) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "mine",
		Short: "List your posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := navigate(a, routes.MyPosts); err != nil {
				return err
			}

			c := view.NewMyPostsController(a.PostService, a.Store, nil, a.Cfg.PageSize)
			defer c.Unmount()

			if err := c.Mount(cmd.Context()); err != nil {
				return err
			}
			if err := gotoPage(cmd.Context(), c, page); err != nil {
				return err
			}

			printList(cmd.OutOrStdout(), c.State())
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")

	return cmd
}

func postsShowCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a post and its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := navigate(a, routes.Build(routes.ShowPost, "id", args[0])); err != nil {
				return err
			}

			c := view.NewPostDetailController(a.PostService, a.CommentService, a.AttachmentService, a.Store)
			defer c.Unmount()

			err = c.Load(cmd.Context(), args[0])
			if err != nil && !errors.Is(err, service.ErrNotFound) {
				return err
			}

			printDetail(cmd.OutOrStdout(), c.State(), c.CanEdit())
			return nil
		},
	}
}

type postForm struct {
	title   string
	author  string
	content string
	image   string
}

func (f *postForm) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "post title")
	cmd.Flags().StringVar(&f.author, "author", "", "author name shown on the post")
	cmd.Flags().StringVar(&f.content, "content", "", "post content")
	cmd.Flags().StringVar(&f.image, "image", "", "path to an image to attach")
}

// apply copies the flags that were set onto fields.
func (f *postForm) apply(cmd *cobra.Command, fields model.PostFields) model.PostFields {
	if cmd.Flags().Changed("title") {
		fields.Title = f.title
	}
	if cmd.Flags().Changed("author") {
		fields.Author = f.author
	}
	if cmd.Flags().Changed("content") {
		fields.Content = f.content
	}
	return fields
}

func (f *postForm) attachment() (*model.PendingAttachment, error) {
	if f.image == "" {
		return nil, nil
	}
	return model.PendingAttachmentFromFile(f.image)
}

func postsNewCmd(rt *runtime) *cobra.Command {
	var form postForm

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Write a new post",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := navigate(a, routes.NewPost); err != nil {
				return err
			}

			c := view.NewEditorController(a.PostService, a.AttachmentService, a.Store, a.Navigator)
			defer c.Unmount()

			if err := c.MountNew(cmd.Context()); err != nil {
				return err
			}

			att, err := form.attachment()
			if err != nil {
				return err
			}
			c.SetFields(form.apply(cmd, model.PostFields{}))
			c.SetAttachment(att)

			post, err := c.Submit(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created post %s\n", post.ID)
			return nil
		},
	}
	form.bind(cmd)

	return cmd
}

func postsEditCmd(rt *runtime) *cobra.Command {
	var form postForm

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit one of your posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := navigate(a, routes.Build(routes.EditPost, "id", args[0])); err != nil {
				return err
			}

			c := view.NewEditorController(a.PostService, a.AttachmentService, a.Store, a.Navigator)
			defer c.Unmount()

			if err := c.MountEdit(cmd.Context(), args[0]); err != nil {
				return err
			}

			att, err := form.attachment()
			if err != nil {
				return err
			}
			c.SetFields(form.apply(cmd, c.State().Fields))
			c.SetAttachment(att)

			post, err := c.Submit(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated post %s\n", post.ID)
			return nil
		},
	}
	form.bind(cmd)

	return cmd
}

func postsDeleteCmd(rt *runtime) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := navigate(a, routes.MyPosts); err != nil {
				return err
			}

			confirm := stdinConfirm(cmd.InOrStdin(), cmd.OutOrStdout())
			if yes {
				confirm = func(string) bool { return true }
			}

			c := view.NewMyPostsController(a.PostService, a.Store, confirm, a.Cfg.PageSize)
			defer c.Unmount()

			if err := c.Mount(cmd.Context()); err != nil {
				return err
			}

			// Page through the list until the post shows up
			for c.Find(args[0]) == nil && c.State().HasMore {
				if err := c.NextPage(cmd.Context()); err != nil {
					return err
				}
			}

			if c.Find(args[0]) == nil {
				// Tell a missing post apart from someone else's
				post, err := a.PostService.GetPost(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !post.OwnedBy(a.Store.UserID()) {
					return service.ErrForbidden
				}
				return service.ErrNotFound
			}

			err = c.Delete(cmd.Context(), args[0])
			if errors.Is(err, service.ErrCancelled) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted post %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
