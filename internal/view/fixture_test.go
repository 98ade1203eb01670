package view

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/templui/inkpost/internal/model"
	"github.com/templui/inkpost/internal/repository"
	"github.com/templui/inkpost/internal/routes"
	"github.com/templui/inkpost/internal/service"
	"github.com/templui/inkpost/internal/session"
	"github.com/templui/inkpost/internal/testutil"
)

type fixture struct {
	store       *session.Store
	storage     *testutil.MemoryStorage
	posts       *service.PostService
	comments    *service.CommentService
	attachments *service.AttachmentService
	nav         *routes.Navigator

	alice *model.User
	bob   *model.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	database := testutil.NewDB(t)
	storage := testutil.NewMemoryStorage()
	store := session.NewStore()
	nav := routes.NewNavigator(store, routes.Home)
	t.Cleanup(nav.Close)

	return &fixture{
		store:       store,
		storage:     storage,
		posts:       service.NewPostService(repository.NewPostRepository(database)),
		comments:    service.NewCommentService(repository.NewCommentRepository(database)),
		attachments: service.NewAttachmentService(storage, 0),
		nav:         nav,
		alice:       testutil.CreateUser(t, database, "alice@example.com"),
		bob:         testutil.CreateUser(t, database, "bob@example.com"),
	}
}

func (f *fixture) signIn(user *model.User) {
	f.store.Set(user.Identity())
}

// seed creates n posts for user, oldest first, and returns them newest first.
func (f *fixture) seed(t *testing.T, user *model.User, n int) []*model.Post {
	t.Helper()

	out := make([]*model.Post, n)
	for i := range n {
		post, err := f.posts.CreatePost(context.Background(), model.PostFields{
			Title:   "Post " + string(rune('A'+i)),
			Author:  "Author",
			Content: "Body",
		}, user.ID)
		require.NoError(t, err)
		out[n-1-i] = post
		time.Sleep(2 * time.Millisecond)
	}
	return out
}
