package cmd

import (
	"github.com/spf13/cobra"
	"github.com/templui/inkpost/internal/model"
	"github.com/templui/inkpost/internal/routes"
	"github.com/templui/inkpost/internal/view"
)

func CommentsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Comment on posts",
	}

	cmd.AddCommand(commentsAddCmd(rt))
	return cmd
}

func commentsAddCmd(rt *runtime) *cobra.Command {
	var (
		body  string
		image string
	)

	cmd := &cobra.Command{
		Use:   "add <post-id>",
		Short: "Comment on a post",
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

			if err := c.Load(cmd.Context(), args[0]); err != nil {
				return err
			}

			c.SetDraft(body)
			if image != "" {
				att, err := model.PendingAttachmentFromFile(image)
				if err != nil {
					return err
				}
				c.SetDraftAttachment(att)
			}

			comment, err := c.SubmitComment(cmd.Context())
			if err != nil {
				return err
			}

			printComment(cmd.OutOrStdout(), comment)
			return nil
		},
	}
	cmd.Flags().StringVar(&body, "body", "", "comment text")
	cmd.Flags().StringVar(&image, "image", "", "path to an image to attach")

	return cmd
}
