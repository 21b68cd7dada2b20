package util

import (
	"github.com/gosimple/slug"
)

// Slugify converts a display name into a URL-safe slug.
func Slugify(name string) string {
	return slug.Make(name)
}
