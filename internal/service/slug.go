package service

import (
	"fmt"
	"strings"
	"unicode"
)

// Slugify lowercases the input and collapses anything that is not a
// letter or digit into single hyphens.
func Slugify(input string) string {
	var b strings.Builder
	lastHyphen := true // swallow leading separators
	for _, r := range strings.ToLower(strings.TrimSpace(input)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// slugChecker reports whether a slug is already taken.
type slugChecker interface {
	SlugExists(slug string) (bool, error)
}

// UniqueSlug derives a slug from title. When the base slug is taken it
// probes "base-2", "base-3", ... until a free one turns up, so gaps
// left by renames and deletes cannot hand out a colliding slug.
func UniqueSlug(checker slugChecker, title string) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = "untitled"
	}
	candidate := base
	for n := 2; ; n++ {
		taken, err := checker.SlugExists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
