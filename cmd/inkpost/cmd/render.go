package cmd

import (
	"fmt"
	"io"

	"github.com/templui/inkpost/internal/model"
	"github.com/templui/inkpost/internal/view"
)

const dateLayout = "Jan 2, 2006 15:04"

func printList(w io.Writer, state view.ListState) {
	switch state.Status {
	case view.StatusEmpty:
		fmt.Fprintln(w, "No posts yet.")
		return
	case view.StatusError:
		fmt.Fprintf(w, "Could not load posts: %s\n", state.Error)
		return
	}

	for _, p := range state.Posts {
		fmt.Fprintf(w, "%s\n  %s by %s, %s\n  %s\n\n", p.ID, p.Title, p.Author, p.CreatedAt.Local().Format(dateLayout), p.Excerpt(model.ExcerptLength))
	}

	fmt.Fprintf(w, "Page %d", state.Page.Number)
	if state.HasMore {
		fmt.Fprintf(w, " (next: --page %d)", state.Page.Number+1)
	}
	fmt.Fprintln(w)
}

func printDetail(w io.Writer, state view.DetailState, canEdit bool) {
	p := state.Post
	if p == nil {
		fmt.Fprintln(w, "Post not found.")
		return
	}

	fmt.Fprintf(w, "%s\nby %s, %s\n", p.Title, p.Author, p.CreatedAt.Local().Format(dateLayout))
	if updated, ok := p.LastUpdated(); ok {
		fmt.Fprintf(w, "Last updated %s\n", updated.Local().Format(dateLayout))
	}
	if p.ImageURL != nil {
		fmt.Fprintf(w, "Image: %s\n", *p.ImageURL)
	}
	fmt.Fprintf(w, "\n%s\n", p.Content)
	if canEdit {
		fmt.Fprintf(w, "\nEdit: inkpost posts edit %s\n", p.ID)
	}

	fmt.Fprintf(w, "\nComments (%d)\n", len(state.Comments))
	for _, c := range state.Comments {
		printComment(w, c)
	}
}

func printComment(w io.Writer, c *model.Comment) {
	fmt.Fprintf(w, "- %s, %s", c.AuthorName, c.CreatedAt.Local().Format(dateLayout))
	if c.Body != "" {
		fmt.Fprintf(w, ": %s", c.Body)
	}
	fmt.Fprintln(w)
	if c.ImageURL != nil {
		fmt.Fprintf(w, "  Image: %s\n", *c.ImageURL)
	}
}
