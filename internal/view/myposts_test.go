package view

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/inkpost/internal/model"
	"github.com/templui/inkpost/internal/service"
)

func TestMyPosts_Pagination(t *testing.T) {
	f := newFixture(t)
	seeded := f.seed(t, f.alice, 7)
	f.seed(t, f.bob, 1)
	f.signIn(f.alice)

	c := NewMyPostsController(f.posts, f.store, nil, 5)
	require.NoError(t, c.Mount(context.Background()))
	defer c.Unmount()

	state := c.State()
	assert.Equal(t, StatusPopulated, state.Status)
	require.Len(t, state.Posts, 5)
	assert.Equal(t, seeded[0].ID, state.Posts[0].ID)
	assert.True(t, state.HasMore)

	require.NoError(t, c.NextPage(context.Background()))
	state = c.State()
	assert.Equal(t, 2, state.Page.Number)
	assert.Len(t, state.Posts, 2)
	assert.False(t, state.HasMore)

	// No further page is fetched once a short page was seen.
	require.NoError(t, c.NextPage(context.Background()))
	assert.Equal(t, 2, c.State().Page.Number)

	require.NoError(t, c.PrevPage(context.Background()))
	assert.Equal(t, 1, c.State().Page.Number)
	require.NoError(t, c.PrevPage(context.Background()))
	assert.Equal(t, 1, c.State().Page.Number)
}

func TestMyPosts_Empty(t *testing.T) {
	f := newFixture(t)
	f.signIn(f.bob)

	c := NewMyPostsController(f.posts, f.store, nil, 5)
	require.NoError(t, c.Mount(context.Background()))
	defer c.Unmount()

	assert.Equal(t, StatusEmpty, c.State().Status)
	assert.False(t, c.State().HasMore)
}

func TestMyPosts_ReloadsOnIdentityChange(t *testing.T) {
	f := newFixture(t)
	f.seed(t, f.alice, 2)
	bobs := f.seed(t, f.bob, 1)

	c := NewMyPostsController(f.posts, f.store, nil, 5)
	require.NoError(t, c.Mount(context.Background()))
	defer c.Unmount()
	assert.Equal(t, StatusIdle, c.State().Status)

	f.signIn(f.alice)
	c.Wait()
	assert.Len(t, c.State().Posts, 2)

	f.signIn(f.bob)
	c.Wait()
	state := c.State()
	require.Len(t, state.Posts, 1)
	assert.Equal(t, bobs[0].ID, state.Posts[0].ID)

	f.store.Clear()
	assert.Equal(t, StatusIdle, c.State().Status)
	assert.Empty(t, c.State().Posts)
}

func TestMyPosts_DeleteRequiresConfirmation(t *testing.T) {
	f := newFixture(t)
	seeded := f.seed(t, f.alice, 3)
	f.signIn(f.alice)

	var prompts []string
	answer := false
	confirm := func(prompt string) bool {
		prompts = append(prompts, prompt)
		return answer
	}

	c := NewMyPostsController(f.posts, f.store, confirm, 5)
	require.NoError(t, c.Mount(context.Background()))
	defer c.Unmount()

	target := seeded[1]
	err := c.Delete(context.Background(), target.ID)
	require.ErrorIs(t, err, service.ErrCancelled)
	assert.Len(t, c.State().Posts, 3)
	assert.Equal(t, []string{`Delete "Post B"? This cannot be undone.`}, prompts)

	answer = true
	require.NoError(t, c.Delete(context.Background(), target.ID))

	state := c.State()
	require.Len(t, state.Posts, 2)
	for _, p := range state.Posts {
		assert.NotEqual(t, target.ID, p.ID)
	}

	_, err = f.posts.GetPost(context.Background(), target.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestMyPosts_DeleteNotOwnedNeverAttempted(t *testing.T) {
	f := newFixture(t)
	bobs := f.seed(t, f.bob, 1)
	f.signIn(f.alice)

	confirmed := false
	c := NewMyPostsController(f.posts, f.store, func(string) bool { confirmed = true; return true }, 5)
	require.NoError(t, c.Mount(context.Background()))
	defer c.Unmount()

	c.Inserted(bobs[0])

	err := c.Delete(context.Background(), bobs[0].ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
	assert.False(t, confirmed)

	_, err = f.posts.GetPost(context.Background(), bobs[0].ID)
	assert.NoError(t, err)
}

func TestMyPosts_DeleteLastPostEmpties(t *testing.T) {
	f := newFixture(t)
	seeded := f.seed(t, f.alice, 1)
	f.signIn(f.alice)

	c := NewMyPostsController(f.posts, f.store, func(string) bool { return true }, 5)
	require.NoError(t, c.Mount(context.Background()))
	defer c.Unmount()

	require.NoError(t, c.Delete(context.Background(), seeded[0].ID))
	assert.Equal(t, StatusEmpty, c.State().Status)
}

func TestMyPosts_InsertedPrepends(t *testing.T) {
	f := newFixture(t)
	f.signIn(f.alice)

	c := NewMyPostsController(f.posts, f.store, nil, 5)
	require.NoError(t, c.Mount(context.Background()))
	defer c.Unmount()
	assert.Equal(t, StatusEmpty, c.State().Status)

	c.Inserted(&model.Post{ID: "new", AuthorID: f.alice.ID})

	state := c.State()
	assert.Equal(t, StatusPopulated, state.Status)
	require.Len(t, state.Posts, 1)
	assert.Equal(t, "new", state.Posts[0].ID)
}

func TestHome_RecentPosts(t *testing.T) {
	f := newFixture(t)
	f.seed(t, f.alice, 3)
	f.seed(t, f.bob, 3)

	c := NewHomeController(f.posts, 5)
	require.NoError(t, c.Mount(context.Background()))
	defer c.Unmount()

	state := c.State()
	assert.Len(t, state.Posts, 5)
	assert.True(t, state.HasMore)

	require.NoError(t, c.NextPage(context.Background()))
	assert.Len(t, c.State().Posts, 1)
}
