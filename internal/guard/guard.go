// Package guard decides whether a navigation may proceed.
package guard

const (
	SignInPath = "/signin"
	HomePath   = "/"
)

// Decision is the outcome of a guard. Redirect is set when Allowed is false.
type Decision struct {
	Allowed  bool
	Redirect string
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func RedirectTo(path string) Decision {
	return Decision{Redirect: path}
}

// Func evaluates a guard against the current session state.
type Func func(isAuthenticated bool) Decision

// RequiresAuth sends anonymous visitors to the sign-in page.
func RequiresAuth(isAuthenticated bool) Decision {
	if isAuthenticated {
		return Allow()
	}
	return RedirectTo(SignInPath)
}

// RequiresAnonymous sends signed-in users home.
func RequiresAnonymous(isAuthenticated bool) Decision {
	if !isAuthenticated {
		return Allow()
	}
	return RedirectTo(HomePath)
}
