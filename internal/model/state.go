package model

// QueryState is the search and pagination state of one list view.
type QueryState struct {
	Resource string `json:"resource"`
	// Parent and ParentID scope a games list to one entity, e.g. the games
	// of genre 4.
	Parent   string `json:"parent,omitempty"`
	ParentID int    `json:"parent_id,omitempty"`
	Search   string `json:"search"`
	Page     int    `json:"page"`
}

// WithSearch returns the state filtered by search. A changed search always
// starts again from the first page.
func (s QueryState) WithSearch(search string) QueryState {
	if search != s.Search {
		s.Search = search
		s.Page = 1
	}
	return s.Normalize()
}

// WithPage returns the state moved to page, keeping the search text.
func (s QueryState) WithPage(page int) QueryState {
	s.Page = page
	return s.Normalize()
}

// Normalize clamps the page to the first page.
func (s QueryState) Normalize() QueryState {
	if s.Page < 1 {
		s.Page = 1
	}
	return s
}
