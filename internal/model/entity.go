package model

// Named is the id/name pair the API nests inside other records.
type Named struct {
	ID   int    `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// ParentPlatform wraps a platform family reference on a game.
type ParentPlatform struct {
	Platform Named `json:"platform"`
}

// GameStore links a game to a store listing.
type GameStore struct {
	ID    int `json:"id"`
	Store struct {
		ID     int    `json:"id"`
		Name   string `json:"name"`
		Domain string `json:"domain"`
	} `json:"store"`
}

type Game struct {
	ID              int              `json:"id"`
	Slug            string           `json:"slug"`
	Name            string           `json:"name"`
	Released        string           `json:"released"`
	BackgroundImage string           `json:"background_image"`
	Rating          float64          `json:"rating"`
	Metacritic      int              `json:"metacritic"`
	Playtime        int              `json:"playtime"`
	Description     string           `json:"description"`
	Website         string           `json:"website"`
	ParentPlatforms []ParentPlatform `json:"parent_platforms"`
	Genres          []Named          `json:"genres"`
	Stores          []GameStore      `json:"stores"`
	Developers      []Named          `json:"developers"`
	Publishers      []Named          `json:"publishers"`
}

// Entity covers every non-game resource: genres, platforms, stores, tags,
// publishers, creators and developers share most of their fields.
type Entity struct {
	ID              int     `json:"id"`
	Slug            string  `json:"slug"`
	Name            string  `json:"name"`
	GamesCount      int     `json:"games_count"`
	ImageBackground string  `json:"image_background"`
	Image           string  `json:"image"`
	Description     string  `json:"description"`
	Domain          string  `json:"domain"`
	Language        string  `json:"language"`
	YearStart       int     `json:"year_start"`
	YearEnd         int     `json:"year_end"`
	Positions       []Named `json:"positions"`
}

type Screenshot struct {
	ID    int    `json:"id"`
	Image string `json:"image"`
}

type Trailer struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Preview string `json:"preview"`
	Data    struct {
		Low string `json:"480"`
		Max string `json:"max"`
	} `json:"data"`
}

type Achievement struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Percent     string `json:"percent"`
}
