package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGravatarURL_Deterministic(t *testing.T) {
	url := GravatarURL("user@example.com")

	assert.True(t, strings.HasPrefix(url, "https://www.gravatar.com/avatar/"))
	// Normalization: case and surrounding whitespace do not change the hash.
	assert.Equal(t, url, GravatarURL("  User@Example.COM  "))
	assert.NotEqual(t, url, GravatarURL("other@example.com"))
}
