package view

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/templui/inkpost/internal/model"
	"github.com/templui/inkpost/internal/service"
)

// ListState is a snapshot of a paginated post list.
type ListState struct {
	Status  Status
	Posts   []*model.Post
	Page    model.Page
	HasMore bool
	Error   string
}

type fetchFunc func(ctx context.Context, page model.Page) (*service.PostPage, error)

// postList implements the list state machine shared by the home feed and
// the author's own list. Every load bumps the generation; a response for
// an older generation, or one arriving after Unmount, is dropped.
type postList struct {
	name  string
	fetch fetchFunc

	mu         sync.Mutex
	state      ListState
	generation uint64
	closed     bool
}

func newPostList(name string, pageSize int, fetch fetchFunc) *postList {
	return &postList{
		name:  name,
		fetch: fetch,
		state: ListState{Status: StatusIdle, Page: model.FirstPage(pageSize)},
	}
}

// State returns a copy of the current state.
func (l *postList) State() ListState {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := l.state
	s.Posts = slices.Clone(l.state.Posts)
	return s
}

func (l *postList) load(ctx context.Context, page model.Page) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.generation++
	gen := l.generation
	l.state.Status = StatusLoading
	l.state.Page = page
	l.state.Error = ""
	l.mu.Unlock()

	result, err := l.fetch(ctx, page)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || gen != l.generation {
		return nil
	}

	if err != nil {
		slog.Error("failed to load posts", "list", l.name, "page", page.Number, "error", err)
		l.state.Status = StatusError
		l.state.Error = service.Message(err)
		l.state.Posts = nil
		l.state.HasMore = false
		return err
	}

	l.state.Posts = result.Posts
	l.state.Page = result.Page
	l.state.HasMore = result.HasMore
	if len(result.Posts) == 0 {
		l.state.Status = StatusEmpty
	} else {
		l.state.Status = StatusPopulated
	}
	return nil
}

// NextPage loads the following page, but only when the current one was full.
func (l *postList) NextPage(ctx context.Context) error {
	l.mu.Lock()
	hasMore := l.state.HasMore && l.state.Status == StatusPopulated
	next := l.state.Page.Next()
	l.mu.Unlock()

	if !hasMore {
		return nil
	}
	return l.load(ctx, next)
}

// PrevPage loads the previous page, staying on page 1 at the start.
func (l *postList) PrevPage(ctx context.Context) error {
	l.mu.Lock()
	prev := l.state.Page.Prev()
	l.mu.Unlock()

	return l.load(ctx, prev)
}

// Refresh reloads the current page from the backend.
func (l *postList) Refresh(ctx context.Context) error {
	l.mu.Lock()
	page := l.state.Page
	l.mu.Unlock()

	return l.load(ctx, page)
}

// reset drops the list and any in-flight response.
func (l *postList) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.generation++
	l.state = ListState{Status: StatusIdle, Page: model.FirstPage(l.state.Page.Size)}
}

func (l *postList) unmount() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
}

func (l *postList) prepend(post *model.Post) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	l.state.Posts = append([]*model.Post{post}, l.state.Posts...)
	l.state.Status = StatusPopulated
}

func (l *postList) remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	l.state.Posts = slices.DeleteFunc(slices.Clone(l.state.Posts), func(p *model.Post) bool {
		return p.ID == id
	})
	if len(l.state.Posts) == 0 {
		l.state.Status = StatusEmpty
	}
}

// Find returns the listed post with id, or nil.
func (l *postList) Find(id string) *model.Post {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, p := range l.state.Posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}
