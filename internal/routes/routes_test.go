package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/inkpost/internal/model"
	"github.com/templui/inkpost/internal/session"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		path   string
		name   string
		params map[string]string
	}{
		{"/", "home", map[string]string{}},
		{"/signin", "signin", map[string]string{}},
		{"/yourblogs/", "my-posts", map[string]string{}},
		{"/blogs/42", "show-post", map[string]string{"id": "42"}},
		{"/yourblogs/42/edit", "edit-post", map[string]string{"id": "42"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			route, params, ok := Match(tt.path)
			require.True(t, ok)
			assert.Equal(t, tt.name, route.Name)
			assert.Equal(t, tt.params, params)
		})
	}

	_, _, ok := Match("/blogs")
	assert.False(t, ok)
	_, _, ok = Match("/nope/at/all")
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		path          string
		authenticated bool
		want          string
	}{
		{"/yourblogs", false, "/signin"},
		{"/yourblogs", true, "/yourblogs"},
		{"/newblog", false, "/signin"},
		{"/yourblogs/7/edit", false, "/signin"},
		{"/signin", true, "/"},
		{"/signup", true, "/"},
		{"/signup", false, "/signup"},
		{"/blogs/7", false, "/blogs/7"},
		{"/unknown", false, "/"},
		{"/unknown", true, "/"},
	}

	for _, tt := range tests {
		loc := Resolve(tt.path, tt.authenticated)
		assert.Equal(t, tt.want, loc.Path, "%s (authenticated=%v)", tt.path, tt.authenticated)
	}
}

func TestResolve_Params(t *testing.T) {
	loc := Resolve("/blogs/abc", false)
	assert.Equal(t, "show-post", loc.Route.Name)
	assert.Equal(t, "abc", loc.Param("id"))
}

func TestBuild(t *testing.T) {
	assert.Equal(t, "/blogs/42", Build(ShowPost, "id", "42"))
	assert.Equal(t, "/yourblogs/42/edit", Build(EditPost, "id", "42"))
}

func TestNavigator_RedirectsOnSignOut(t *testing.T) {
	store := session.NewStore()
	store.Set(&model.Identity{ID: "u1", Email: "u1@example.com"})

	nav := NewNavigator(store, "/yourblogs")
	defer nav.Close()
	require.Equal(t, "/yourblogs", nav.Current().Path)

	var seen []string
	nav.OnChange(func(loc Location) { seen = append(seen, loc.Path) })

	store.Clear()

	assert.Equal(t, "/signin", nav.Current().Path)
	assert.Equal(t, []string{"/signin"}, seen)
}

func TestNavigator_SignInLeavesSignInPage(t *testing.T) {
	store := session.NewStore()

	nav := NewNavigator(store, "/signin")
	defer nav.Close()

	store.Set(&model.Identity{ID: "u1"})
	assert.Equal(t, "/", nav.Current().Path)
}

func TestNavigator_Navigate(t *testing.T) {
	store := session.NewStore()
	nav := NewNavigator(store, "/")
	defer nav.Close()

	loc := nav.Navigate("/newblog")
	assert.Equal(t, "/signin", loc.Path)

	nav.Close()
	store.Set(&model.Identity{ID: "u1"})
	assert.Equal(t, "/signin", nav.Current().Path)
}
