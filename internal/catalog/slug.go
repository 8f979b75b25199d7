package catalog

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	reNonSlug   = regexp.MustCompile(`[^\w\s-]`)
	reSpaceRun  = regexp.MustCompile(`\s+`)
	reHyphenRun = regexp.MustCompile(`-+`)
)

// foldDiacritics maps compatibility forms and drops combining marks (é -> e).
func foldDiacritics(s string) string {
	decomp := norm.NFD.String(norm.NFKC.String(s))
	var b strings.Builder
	b.Grow(len(decomp))
	for _, r := range decomp {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// TitleToSlug derives the URL identifier for a title.
// The result only holds lowercase word characters and single hyphens.
func TitleToSlug(title string) string {
	s := strings.TrimSpace(strings.ToLower(foldDiacritics(title)))
	s = reNonSlug.ReplaceAllString(s, "")
	s = reSpaceRun.ReplaceAllString(s, "-")
	s = reHyphenRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SlugToTitle is a lossy display fallback; it never resolves games.
func SlugToTitle(slug string) string {
	parts := strings.Split(slug, "-")
	out := parts[:0]
	for _, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		out = append(out, string(runes))
	}
	return strings.Join(out, " ")
}
