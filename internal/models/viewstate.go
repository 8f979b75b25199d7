package models

// ViewMode selects which logical list is active
type ViewMode string

const (
	ViewCollection ViewMode = "collection"
	ViewWishlist   ViewMode = "wishlist"
	ViewCompleted  ViewMode = "completed"
	ViewFriends    ViewMode = "friends"
)

// Valid reports whether m is one of the known view modes
func (m ViewMode) Valid() bool {
	switch m {
	case ViewCollection, ViewWishlist, ViewCompleted, ViewFriends:
		return true
	}
	return false
}

// ViewState holds a session's filter and view selections
type ViewState struct {
	SearchQuery       string   `json:"search_query"`
	SelectedPlatforms []string `json:"selected_platforms"`
	ViewMode          ViewMode `json:"view_mode"`
	SelectedFriends   []string `json:"selected_friends"`
	ShowCompleted     bool     `json:"show_completed"`
	ShowNotCompleted  bool     `json:"show_not_completed"`
	ShowMasterpiece   bool     `json:"show_masterpiece"`
}

// ViewStateUpdate is the request body for replacing view state fields.
// Nil fields are left untouched.
type ViewStateUpdate struct {
	SearchQuery       *string   `json:"search_query,omitempty"`
	SelectedPlatforms *[]string `json:"selected_platforms,omitempty"`
	ViewMode          *ViewMode `json:"view_mode,omitempty"`
	SelectedFriends   *[]string `json:"selected_friends,omitempty"`
	ShowCompleted     *bool     `json:"show_completed,omitempty"`
	ShowNotCompleted  *bool     `json:"show_not_completed,omitempty"`
	ShowMasterpiece   *bool     `json:"show_masterpiece,omitempty"`
}

// DefaultViewState returns the first-load selections with every platform selected
func DefaultViewState(platforms []string) ViewState {
	selected := make([]string, len(platforms))
	copy(selected, platforms)
	return ViewState{
		SearchQuery:       "",
		SelectedPlatforms: selected,
		ViewMode:          ViewCollection,
		SelectedFriends:   []string{},
		ShowCompleted:     true,
		ShowNotCompleted:  true,
		ShowMasterpiece:   false,
	}
}

// Clone returns a deep copy of the view state
func (vs ViewState) Clone() ViewState {
	out := vs
	out.SelectedPlatforms = cloneStrings(vs.SelectedPlatforms)
	out.SelectedFriends = cloneStrings(vs.SelectedFriends)
	return out
}

// cloneStrings copies s, returning an empty (non-nil) slice for nil input
func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// DefaultPlatforms returns the platform labels known to the catalog
func DefaultPlatforms() []string {
	return []string{
		"PS5", "PS4", "PS3", "PS2", "PS1", "PSP", "PS Vita",
		"Switch", "Wii U", "Wii", "GameCube", "N64", "SNES", "NES",
		"3DS", "DS", "GBA", "Game Boy",
		"Xbox Series", "Xbox One", "Xbox 360", "Xbox",
		"PC", "Mega Drive", "Dreamcast",
	}
}
