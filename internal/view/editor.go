package view

import (
	"context"
	"errors"
	"sync"

	"github.com/templui/inkpost/internal/model"
	"github.com/templui/inkpost/internal/routes"
	"github.com/templui/inkpost/internal/service"
	"github.com/templui/inkpost/internal/session"
)

type EditorMode int

const (
	ModeCreate EditorMode = iota
	ModeEdit
)

// EditorState is a snapshot of the post form.
type EditorState struct {
	Mode       EditorMode
	Mounted    bool
	PostID     string
	Fields     model.PostFields
	Attachment *model.PendingAttachment
	Submitting bool
	Error      string
}

// EditorController backs "/newblog" and "/yourblogs/:id/edit". The form is
// only mounted for a signed-in caller, and in edit mode only for the post's
// author. If the identity changes while the form is open it is unmounted.
type EditorController struct {
	posts       *service.PostService
	attachments *service.AttachmentService
	store       *session.Store
	nav         Navigator

	mu          sync.Mutex
	state       EditorState
	owner       *model.Identity
	unsubscribe func()
}

func NewEditorController(posts *service.PostService, attachments *service.AttachmentService, store *session.Store, nav Navigator) *EditorController {
	return &EditorController{
		posts:       posts,
		attachments: attachments,
		store:       store,
		nav:         nav,
	}
}

func (c *EditorController) State() EditorState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// MountNew opens an empty form.
func (c *EditorController) MountNew(ctx context.Context) error {
	identity := c.store.Get()
	if identity == nil {
		c.nav.Navigate(routes.SignIn)
		return service.ErrAuthRequired
	}

	c.mount(identity, EditorState{Mode: ModeCreate, Mounted: true})
	return nil
}

// MountEdit opens the form prefilled with the post. Missing posts and posts
// owned by someone else send the caller home.
func (c *EditorController) MountEdit(ctx context.Context, postID string) error {
	identity := c.store.Get()
	if identity == nil {
		c.nav.Navigate(routes.SignIn)
		return service.ErrAuthRequired
	}

	post, err := c.posts.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.nav.Navigate(routes.Home)
		}
		return err
	}

	if !post.OwnedBy(identity.ID) {
		c.nav.Navigate(routes.Home)
		return service.ErrForbidden
	}

	c.mount(identity, EditorState{
		Mode:    ModeEdit,
		Mounted: true,
		PostID:  post.ID,
		Fields:  post.Fields(),
	})
	return nil
}

func (c *EditorController) mount(identity *model.Identity, state EditorState) {
	c.mu.Lock()
	c.state = state
	c.owner = identity
	c.mu.Unlock()

	unsubscribe := c.store.Subscribe(func(next *model.Identity) {
		c.mu.Lock()
		owner := c.owner
		c.mu.Unlock()

		if owner.Equal(next) {
			return
		}
		c.Unmount()
		if next != nil {
			c.nav.Navigate(routes.Home)
		}
	})

	c.mu.Lock()
	c.unsubscribe = unsubscribe
	c.mu.Unlock()
}

// Unmount closes the form and stops following the session.
func (c *EditorController) Unmount() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.state.Mounted = false
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (c *EditorController) SetFields(fields model.PostFields) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// The image URL is only ever set by an upload.
	fields.ImageURL = c.state.Fields.ImageURL
	c.state.Fields = fields
	c.state.Error = ""
}

func (c *EditorController) SetAttachment(att *model.PendingAttachment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Attachment = att
	c.state.Error = ""
}

// Submit validates the form, uploads the attachment if one is pending, then
// creates or updates the post. After a create it navigates home, after an
// update to the post page.
func (c *EditorController) Submit(ctx context.Context) (*model.Post, error) {
	c.mu.Lock()
	if !c.state.Mounted {
		c.mu.Unlock()
		return nil, service.ErrAuthRequired
	}
	if c.state.Submitting {
		c.mu.Unlock()
		return nil, ErrSubmitting
	}
	state := c.state
	c.state.Submitting = true
	c.state.Error = ""
	c.mu.Unlock()

	post, err := c.submit(ctx, state)

	c.mu.Lock()
	c.state.Submitting = false
	mounted := c.state.Mounted
	if err != nil {
		c.state.Error = service.Message(err)
	} else {
		c.state.Attachment = nil
		c.state.Fields = post.Fields()
	}
	c.mu.Unlock()

	if err != nil {
		return nil, err
	}

	if mounted {
		if state.Mode == ModeCreate {
			c.nav.Navigate(routes.Home)
		} else {
			c.nav.Navigate(routes.Build(routes.ShowPost, "id", post.ID))
		}
	}
	return post, nil
}

func (c *EditorController) submit(ctx context.Context, state EditorState) (*model.Post, error) {
	identity := c.store.Get()
	if identity == nil {
		return nil, service.ErrAuthRequired
	}

	if err := service.ValidatePostFields(state.Fields); err != nil {
		return nil, err
	}
	if state.Attachment != nil {
		if err := c.attachments.Validate(state.Attachment); err != nil {
			return nil, err
		}
	}

	fields := state.Fields
	var uploaded string
	if state.Attachment != nil {
		ns := service.Namespace{Kind: service.KindPost, OwnerID: identity.ID}
		if state.Mode == ModeEdit {
			ns.OwnerID = state.PostID
		}

		url, err := c.attachments.Upload(ctx, ns, state.Attachment)
		if err != nil {
			return nil, err
		}
		uploaded = url
		fields.ImageURL = &url
	}

	var (
		post *model.Post
		err  error
	)
	if state.Mode == ModeCreate {
		post, err = c.posts.CreatePost(ctx, fields, identity.ID)
	} else {
		post, err = c.posts.UpdatePost(ctx, state.PostID, fields, identity.ID)
	}
	if err != nil {
		if uploaded != "" {
			c.attachments.Orphaned(uploaded, err)
		}
		return nil, err
	}

	return post, nil
}
