package contentful

import (
	"encoding/json"
	"time"
)

// Sys is the metadata block carried by every Contentful object and link
type Sys struct {
	ID        string    `json:"id"`
	Type      string    `json:"type,omitempty"`
	LinkType  string    `json:"linkType,omitempty"`
	Version   int       `json:"version,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Link points at another entry or asset
type Link struct {
	Sys Sys `json:"sys"`
}

// Entry is a game page entry as returned by the Delivery API
type Entry struct {
	Sys    Sys         `json:"sys"`
	Fields EntryFields `json:"fields"`
}

// EntryFields mirrors the gamePage content type. Fields were added to the
// content type over time, so every one but title may be absent.
type EntryFields struct {
	Title         string          `json:"title"`
	Cover         *Link           `json:"cover,omitempty"`
	Article       json.RawMessage `json:"article,omitempty"`
	Rating        *float64        `json:"rating,omitempty"`
	Masterpiece   bool            `json:"masterpiece,omitempty"`
	Platform      string          `json:"platform,omitempty"`
	Category      string          `json:"category,omitempty"`
	Friends       []string        `json:"friends,omitempty"`
	ExternalLink1 string          `json:"externalLink1,omitempty"`
	ExternalLink2 string          `json:"externalLink2,omitempty"`
	VideoReview   string          `json:"videoReview,omitempty"`
	VideoReview2  string          `json:"videoReview2,omitempty"`
	VideoReview3  string          `json:"videoReview3,omitempty"`
}

// Asset is a media file
type Asset struct {
	Sys    Sys `json:"sys"`
	Fields struct {
		Title string `json:"title"`
		File  struct {
			URL         string `json:"url"`
			ContentType string `json:"contentType"`
		} `json:"file"`
	} `json:"fields"`
}

// EntriesResponse is one page of a collection query
type EntriesResponse struct {
	Total    int     `json:"total"`
	Skip     int     `json:"skip"`
	Limit    int     `json:"limit"`
	Items    []Entry `json:"items"`
	Includes struct {
		Asset []Asset `json:"Asset"`
	} `json:"includes"`
}

// ErrorResponse is the body of a failed API call
type ErrorResponse struct {
	Sys       Sys    `json:"sys"`
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
}
