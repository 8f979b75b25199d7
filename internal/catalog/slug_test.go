package catalog

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleToSlug(t *testing.T) {
	cases := map[string]string{
		"The Legend of Zelda: BotW!": "the-legend-of-zelda-botw",
		"  Halo   3  ":               "halo-3",
		"Spider-Man -- Miles":        "spider-man-miles",
		"Pokémon Légendes":           "pokemon-legendes",
		"!!!":                        "",
		"":                           "",
		"Final Fantasy VII_Remake":   "final-fantasy-vii_remake",
		"Ｆｕｌｌｗｉｄｔｈ":                  "fullwidth",
	}
	for title, want := range cases {
		assert.Equal(t, want, TitleToSlug(title), "title %q", title)
	}
}

func TestTitleToSlugShape(t *testing.T) {
	shape := regexp.MustCompile(`^([a-z0-9_]+(-[a-z0-9_]+)*)?$`)
	titles := []string{
		"Ori and the Will of the Wisps",
		"- leading and trailing -",
		"Tabs\tand\nnewlines",
		"Mixed---Hyphens  and   Spaces",
		"Ratchet & Clank: Rift Apart",
		"¡Olé!",
	}
	for _, title := range titles {
		slug := TitleToSlug(title)
		assert.Regexp(t, shape, slug, "title %q", title)
		assert.Equal(t, slug, TitleToSlug(slug), "slug of a slug must be stable")
	}
}

func TestSlugToTitle(t *testing.T) {
	assert.Equal(t, "The Legend Of Zelda Botw", SlugToTitle("the-legend-of-zelda-botw"))
	assert.Equal(t, "Halo 3", SlugToTitle("halo--3-"))
	assert.Equal(t, "", SlugToTitle(""))
}
