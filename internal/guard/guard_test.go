package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiresAuth(t *testing.T) {
	assert.Equal(t, Decision{Allowed: true}, RequiresAuth(true))
	assert.Equal(t, Decision{Redirect: "/signin"}, RequiresAuth(false))
}

func TestRequiresAnonymous(t *testing.T) {
	assert.Equal(t, Decision{Allowed: true}, RequiresAnonymous(false))
	assert.Equal(t, Decision{Redirect: "/"}, RequiresAnonymous(true))
}

func TestGuardsArePure(t *testing.T) {
	for range 3 {
		assert.False(t, RequiresAuth(false).Allowed)
		assert.True(t, RequiresAuth(true).Allowed)
	}
}
