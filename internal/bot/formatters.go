package bot

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"unicode/utf8"

	"playpedia/internal/api"
	"playpedia/internal/catalog"
	"playpedia/internal/model"
)

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit-3]) + "..."
}

func formatListHeader(view catalog.ListView) string {
	title := view.State.Resource
	if res, err := catalog.Lookup(view.State.Resource); err == nil {
		title = res.Label
	}
	if parent, err := catalog.Lookup(view.State.Parent); err == nil {
		title = "🎮 Games in this " + strings.ToLower(parent.Singular)
	}

	header := "<b>" + html.EscapeString(title) + "</b>"
	if view.State.Search != "" {
		header += fmt.Sprintf(" · search “%s”", html.EscapeString(view.State.Search))
	}
	return header + " · page " + strconv.Itoa(view.State.Page)
}

func formatCardLine(index int, card model.Card) string {
	line := fmt.Sprintf("%d. <b>%s</b>", index, html.EscapeString(card.Title))
	if card.Subtitle != "" {
		line += " (" + html.EscapeString(card.Subtitle) + ")"
	}
	if len(card.Meta) > 0 {
		line += "\n    " + html.EscapeString(strings.Join(card.Meta, " · "))
	}
	return line
}

func formatList(view catalog.ListView) string {
	var b strings.Builder
	b.WriteString(formatListHeader(view))
	b.WriteString("\n\n")
	if len(view.Cards) == 0 {
		b.WriteString("Nothing found. Try adjusting your search.")
		return b.String()
	}
	for i, card := range view.Cards {
		line := formatCardLine(i+1, card) + "\n"
		if b.Len()+len(line) > telegramMessageLimit {
			break
		}
		b.WriteString(line)
	}
	return b.String()
}

func formatGameCaption(d catalog.GameDetail) string {
	var lines []string
	lines = append(lines, "🎮 "+d.Game.Name)
	if d.Card.Subtitle != "" {
		lines = append(lines, "🕹 "+d.Card.Subtitle)
	}
	lines = append(lines, d.Card.Meta...)
	if d.Description != "" {
		lines = append(lines, "", d.Description)
	}
	return truncate(strings.Join(lines, "\n"), telegramCaptionLimit)
}

// formatGameSections renders the secondary sections. Empty sections are
// left out entirely.
func formatGameSections(d catalog.GameDetail) string {
	var b strings.Builder
	if len(d.Stores) > 0 {
		b.WriteString("<b>Available at</b>\n")
		for _, s := range d.Stores {
			if s.Link == "" {
				fmt.Fprintf(&b, "• %s\n", html.EscapeString(s.Title))
				continue
			}
			fmt.Fprintf(&b, "• <a href=\"%s\">%s</a>\n", html.EscapeString(s.Link), html.EscapeString(s.Title))
		}
		b.WriteString("\n")
	}
	if len(d.Trailers) > 0 {
		b.WriteString("<b>Trailers</b>\n")
		for _, t := range d.Trailers {
			if t.Data.Max == "" {
				continue
			}
			fmt.Fprintf(&b, "• <a href=\"%s\">%s</a>\n", html.EscapeString(t.Data.Max), html.EscapeString(t.Name))
		}
		b.WriteString("\n")
	}
	if len(d.Achievements) > 0 {
		b.WriteString("<b>Achievements</b>\n")
		for _, a := range d.Achievements {
			fmt.Fprintf(&b, "• <b>%s</b>: %s\n", html.EscapeString(a.Name), html.EscapeString(a.Description))
		}
	}
	return truncateHTMLLines(strings.TrimSpace(b.String()), telegramMessageLimit)
}

// truncateHTMLLines drops whole lines so no tag is cut in half.
func truncateHTMLLines(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		if b.Len()+len(line)+1 > limit-4 {
			b.WriteString("…")
			break
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func formatEntityDetail(d catalog.EntityDetail) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("<b>%s: %s</b>", html.EscapeString(d.Resource.Singular), html.EscapeString(d.Entity.Name)))
	if d.Card.Subtitle != "" {
		lines = append(lines, html.EscapeString(d.Card.Subtitle))
	}
	lines = append(lines, html.EscapeString(strings.Join(d.Card.Meta, " · ")))
	if d.Description != "" {
		lines = append(lines, "", html.EscapeString(catalog.Excerpt(d.Description, 800)))
	}
	return strings.Join(lines, "\n")
}

func formatError(err error) string {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) && statusErr.NotFound() {
		return "⚠️ Not found. It may have been removed from the catalog."
	}
	if errors.Is(err, catalog.ErrUnknownResource) {
		return "⚠️ Unknown section."
	}
	return "⚠️ Error loading data. Please try again later."
}
