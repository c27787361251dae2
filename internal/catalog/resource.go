package catalog

import (
	"errors"
	"strconv"
	"strings"

	"playpedia/internal/model"
)

var ErrUnknownResource = errors.New("unknown resource")

const excerptLength = 160

// Resource describes one kind of catalog record: where it is listed, how
// its games are filtered and how a record maps to a card.
type Resource struct {
	Kind     string
	Endpoint string
	// Filter is the games list parameter selecting this resource's games.
	Filter   string
	Title    string
	Singular string
	Label    string
	card     func(model.Entity) model.Card
}

// IsGames reports whether the resource lists games rather than entities.
func (r Resource) IsGames() bool {
	return r.Kind == KindGames
}

func (r Resource) Card(e model.Entity) model.Card {
	if r.card == nil {
		return entityCard(r.Kind, e)
	}
	return r.card(e)
}

const (
	KindGames      = "games"
	KindGenres     = "genres"
	KindPlatforms  = "platforms"
	KindStores     = "stores"
	KindTags       = "tags"
	KindPublishers = "publishers"
	KindCreators   = "creators"
	KindDevelopers = "developers"
)

var resources = []Resource{
	{Kind: KindGames, Endpoint: "games", Title: "Games", Singular: "Game", Label: "🎮 Games"},
	{Kind: KindGenres, Endpoint: "genres", Filter: "genres", Title: "Genres", Singular: "Genre", Label: "🧩 Genres"},
	{Kind: KindPlatforms, Endpoint: "platforms", Filter: "platforms", Title: "Platforms", Singular: "Platform", Label: "🕹 Platforms", card: platformCard},
	{Kind: KindStores, Endpoint: "stores", Filter: "stores", Title: "Stores", Singular: "Store", Label: "🛒 Stores", card: storeCard},
	{Kind: KindTags, Endpoint: "tags", Filter: "tags", Title: "Tags", Singular: "Tag", Label: "🏷 Tags", card: tagCard},
	{Kind: KindPublishers, Endpoint: "publishers", Filter: "publishers", Title: "Publishers", Singular: "Publisher", Label: "🏢 Publishers"},
	{Kind: KindCreators, Endpoint: "creators", Filter: "creators", Title: "Creators", Singular: "Creator", Label: "🎨 Creators", card: creatorCard},
	{Kind: KindDevelopers, Endpoint: "developers", Filter: "developers", Title: "Developers", Singular: "Developer", Label: "🛠 Developers"},
}

// Resources lists every resource in menu order.
func Resources() []Resource {
	out := make([]Resource, len(resources))
	copy(out, resources)
	return out
}

func Lookup(kind string) (Resource, error) {
	for _, r := range resources {
		if r.Kind == kind {
			return r, nil
		}
	}
	return Resource{}, ErrUnknownResource
}

// LookupLabel finds the resource whose menu label is label.
func LookupLabel(label string) (Resource, bool) {
	for _, r := range resources {
		if r.Label == label {
			return r, true
		}
	}
	return Resource{}, false
}

func link(kind string, id int) string {
	return "/" + kind + "/" + strconv.Itoa(id)
}

func GameCard(g model.Game) model.Card {
	var platforms []string
	for _, p := range g.ParentPlatforms {
		if len(platforms) == 4 {
			break
		}
		platforms = append(platforms, p.Platform.Name)
	}

	var meta []string
	if g.Rating > 0 {
		meta = append(meta, Stars(g.Rating))
	}
	if released := ReleaseDate(g.Released); released != "" {
		meta = append(meta, "Released: "+released)
	}
	if len(g.Genres) > 0 {
		meta = append(meta, names(g.Genres))
	}

	return model.Card{
		ID:       g.ID,
		Kind:     KindGames,
		Title:    g.Name,
		Image:    g.BackgroundImage,
		Subtitle: strings.Join(platforms, ", "),
		Meta:     meta,
		Link:     link(KindGames, g.ID),
	}
}

func entityCard(kind string, e model.Entity) model.Card {
	image := e.ImageBackground
	if image == "" {
		image = e.Image
	}
	return model.Card{
		ID:      e.ID,
		Kind:    kind,
		Title:   e.Name,
		Image:   image,
		Meta:    []string{GamesCount(e.GamesCount)},
		Excerpt: Excerpt(PlainText(e.Description), excerptLength),
		Link:    link(kind, e.ID),
	}
}

func platformCard(e model.Entity) model.Card {
	c := entityCard(KindPlatforms, e)
	if years := YearRange(e.YearStart, e.YearEnd); years != "" {
		c.Meta = append(c.Meta, "Released: "+years)
	}
	return c
}

func storeCard(e model.Entity) model.Card {
	c := entityCard(KindStores, e)
	c.Subtitle = e.Domain
	return c
}

func tagCard(e model.Entity) model.Card {
	c := entityCard(KindTags, e)
	c.Subtitle = e.Language
	return c
}

func creatorCard(e model.Entity) model.Card {
	c := entityCard(KindCreators, e)
	if e.Image != "" {
		c.Image = e.Image
	}
	c.Subtitle = names(e.Positions)
	return c
}

func names(items []model.Named) string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return strings.Join(out, ", ")
}
