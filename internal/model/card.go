package model

// Card is the display form of any catalog record.
type Card struct {
	ID       int
	Kind     string
	Title    string
	Image    string
	Subtitle string
	Meta     []string
	Excerpt  string
	Link     string
}
