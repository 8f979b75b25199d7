package models

// ListCounts holds the number of games in each logical list
type ListCounts struct {
	Collection int `json:"collection"`
	Wishlist   int `json:"wishlist"`
	Completed  int `json:"completed"`
	Friends    int `json:"friends"`
}

// CatalogPage is the gallery response for a session
type CatalogPage struct {
	ViewState        ViewState  `json:"view_state"`
	Items            []GameCard `json:"items"`
	TotalCount       int        `json:"total_count"`
	ListCount        int        `json:"list_count"`
	MasterpieceCount int        `json:"masterpiece_count"`
	Counts           ListCounts `json:"counts"`
	Friends          []string   `json:"friends"`
}
