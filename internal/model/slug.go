package model

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// Slugify turns a display name into a lowercase ASCII, hyphen separated slug
func Slugify(s string) string {
	s = strings.ToLower(unidecode.Unidecode(s))

	var b strings.Builder
	pendingDash := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingDash = false
			continue
		}
		pendingDash = true
	}
	return b.String()
}
