package catalog

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// blockAtoms end a line when their tag opens or closes.
var blockAtoms = map[atom.Atom]bool{
	atom.P: true, atom.Br: true, atom.Div: true, atom.Li: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Ul: true, atom.Ol: true,
}

// PlainText renders the HTML fragments the API returns in descriptions as
// plain paragraphs separated by a blank line.
func PlainText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var (
		paragraphs []string
		current    strings.Builder
	)
	flush := func() {
		text := strings.Join(strings.Fields(current.String()), " ")
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
		current.Reset()
	}

	for {
		switch z.Next() {
		case html.ErrorToken:
			flush()
			return strings.Join(paragraphs, "\n\n")
		case html.TextToken:
			current.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if blockAtoms[atom.Lookup(name)] {
				flush()
			} else {
				current.WriteByte(' ')
			}
		}
	}
}

// Excerpt cuts s to at most limit runes on a word boundary.
func Excerpt(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)[:limit]
	for i := len(runes) - 1; i > limit/2; i-- {
		if runes[i] == ' ' {
			runes = runes[:i]
			break
		}
	}
	return strings.TrimRight(string(runes), " .,;:") + "…"
}

// GamesCount formats a games total with thousands separators.
func GamesCount(n int) string {
	if n == 1 {
		return "1 game"
	}
	return printer.Sprintf("%d games", n)
}

// Stars draws a rating on a five star scale followed by its value.
func Stars(rating float64) string {
	full := int(math.Floor(rating))
	if full > 5 {
		full = 5
	}
	if full < 0 {
		full = 0
	}
	return strings.Repeat("★", full) + strings.Repeat("☆", 5-full) + " " + strconv.FormatFloat(rating, 'f', 1, 64)
}

// ReleaseDate turns the API's 2006-01-02 dates into Jan 2, 2006.
func ReleaseDate(released string) string {
	if released == "" {
		return ""
	}
	t, err := time.Parse(time.DateOnly, released)
	if err != nil {
		return released
	}
	return t.Format("Jan 2, 2006")
}

func YearRange(start, end int) string {
	switch {
	case start == 0:
		return ""
	case end == 0 || end == start:
		return strconv.Itoa(start)
	default:
		return strconv.Itoa(start) + " - " + strconv.Itoa(end)
	}
}
