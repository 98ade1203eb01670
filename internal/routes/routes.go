// Package routes holds the route table and resolves paths against the guards.
package routes

import (
	"strings"

	"github.com/templui/inkpost/internal/guard"
)

const (
	Home     = "/"
	SignIn   = "/signin"
	SignUp   = "/signup"
	MyPosts  = "/yourblogs"
	NewPost  = "/newblog"
	EditPost = "/yourblogs/:id/edit"
	ShowPost = "/blogs/:id"
)

type Route struct {
	Name    string
	Pattern string
	Guard   guard.Func // nil for open routes
}

// Table is the full route surface.
var Table = []Route{
	{Name: "home", Pattern: Home},
	{Name: "signin", Pattern: SignIn, Guard: guard.RequiresAnonymous},
	{Name: "signup", Pattern: SignUp, Guard: guard.RequiresAnonymous},
	{Name: "my-posts", Pattern: MyPosts, Guard: guard.RequiresAuth},
	{Name: "new-post", Pattern: NewPost, Guard: guard.RequiresAuth},
	{Name: "edit-post", Pattern: EditPost, Guard: guard.RequiresAuth},
	{Name: "show-post", Pattern: ShowPost},
}

// Location is a resolved path with its route and parameters.
type Location struct {
	Path   string
	Route  Route
	Params map[string]string
}

func (l Location) Param(name string) string {
	return l.Params[name]
}

// Match finds the route for path.
func Match(path string) (Route, map[string]string, bool) {
	segments := split(path)

	for _, route := range Table {
		params, ok := matchPattern(split(route.Pattern), segments)
		if ok {
			return route, params, true
		}
	}
	return Route{}, nil, false
}

// Resolve follows guard redirects until a path is allowed. Unmatched paths
// go home.
func Resolve(path string, isAuthenticated bool) Location {
	// Every redirect target is an allowed route, so this settles quickly;
	// the bound only protects against a misconfigured table.
	for range len(Table) + 1 {
		route, params, ok := Match(path)
		if !ok {
			path = Home
			continue
		}

		if route.Guard != nil {
			decision := route.Guard(isAuthenticated)
			if !decision.Allowed {
				path = decision.Redirect
				continue
			}
		}

		return Location{Path: normalize(path), Route: route, Params: params}
	}

	route, _, _ := Match(Home)
	return Location{Path: Home, Route: route}
}

// Build fills a pattern's parameters, e.g. Build(ShowPost, "id", "42").
func Build(pattern string, pairs ...string) string {
	path := pattern
	for i := 0; i+1 < len(pairs); i += 2 {
		path = strings.Replace(path, ":"+pairs[i], pairs[i+1], 1)
	}
	return path
}

func matchPattern(pattern, segments []string) (map[string]string, bool) {
	if len(pattern) != len(segments) {
		return nil, false
	}

	params := map[string]string{}
	for i, p := range pattern {
		if name, ok := strings.CutPrefix(p, ":"); ok {
			if segments[i] == "" {
				return nil, false
			}
			params[name] = segments[i]
			continue
		}
		if p != segments[i] {
			return nil, false
		}
	}
	return params, true
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func normalize(path string) string {
	return "/" + strings.Join(split(path), "/")
}
