package auth

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// GravatarURL builds the deterministic placeholder avatar for an email,
// per the gravatar convention (md5 of the trimmed, lowercased address).
func GravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x", hash)
}
