package models

import (
	"encoding/json"
	"time"
)

// Category values as stored in the CMS
const (
	CategoryCollection = "Collection"
	CategoryWishlist   = "Wishlist"
	CategoryGame       = "Game"
	CategoryFriends    = "Friends"
)

// Game represents one catalog entry
type Game struct {
	ID            string          `json:"id" yaml:"id"`
	Title         string          `json:"title" yaml:"title"`
	Platform      string          `json:"platform,omitempty" yaml:"platform"`
	Rating        *float64        `json:"rating,omitempty" yaml:"rating"` // nil = not completed
	Masterpiece   bool            `json:"masterpiece" yaml:"masterpiece"`
	Category      string          `json:"category,omitempty" yaml:"category"` // empty = Collection
	Friends       []string        `json:"friends,omitempty" yaml:"friends"`
	CoverURL      string          `json:"cover_url,omitempty" yaml:"cover_url"`
	Article       json.RawMessage `json:"article,omitempty" yaml:"-"`     // Contentful rich text document
	Review        string          `json:"review,omitempty" yaml:"review"` // Markdown, local entries only
	ExternalLinks []string        `json:"external_links,omitempty" yaml:"external_links"`
	VideoReviews  []string        `json:"video_reviews,omitempty" yaml:"video_reviews"`
	UpdatedAt     time.Time       `json:"updated_at" yaml:"updated_at"`
}

// HasRating reports whether the game has been completed and scored
func (g *Game) HasRating() bool {
	return g.Rating != nil
}

// HasFriend reports whether any of names is attached to the game
func (g *Game) HasFriend(names []string) bool {
	for _, f := range g.Friends {
		for _, n := range names {
			if f == n {
				return true
			}
		}
	}
	return false
}

// GameCreate is the request body for the admin create form
type GameCreate struct {
	Title         string   `json:"title"`
	CoverAssetID  string   `json:"cover_asset_id,omitempty"` // Contentful asset
	CoverURL      string   `json:"cover_url,omitempty"`      // local snapshot
	Rating        *float64 `json:"rating,omitempty"`
	Masterpiece   bool     `json:"masterpiece"`
	Platform      string   `json:"platform,omitempty"`
	Category      string   `json:"category,omitempty"`
	Friends       []string `json:"friends,omitempty"`
	ExternalLinks []string `json:"external_links,omitempty"`
	VideoReviews  []string `json:"video_reviews,omitempty"`
	Review        string   `json:"review,omitempty"`
}

// GameCard is the gallery representation of a game
type GameCard struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Platform    string   `json:"platform,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	RatingColor string   `json:"rating_color,omitempty"`
	Masterpiece bool     `json:"masterpiece"`
	CoverURL    string   `json:"cover_url,omitempty"`
}

// GameDetail is the detail page representation of a game
type GameDetail struct {
	GameCard
	Category      string   `json:"category,omitempty"`
	Friends       []string `json:"friends,omitempty"`
	ArticleHTML   string   `json:"article_html,omitempty"`
	ExternalLinks []string `json:"external_links,omitempty"`
	VideoReviews  []string `json:"video_reviews,omitempty"`
}
