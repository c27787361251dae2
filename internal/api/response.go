package api

// Page is the envelope every RAWG list endpoint returns. Next holds the
// continuation URL and is empty on the last page.
type Page[T any] struct {
	Count    int    `json:"count"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
	Results  []T    `json:"results"`
}

func (p Page[T]) HasNext() bool {
	return p.Next != ""
}

// Items never returns nil so callers can range and render without checks.
func (p Page[T]) Items() []T {
	if p.Results == nil {
		return []T{}
	}
	return p.Results
}
