package hunt

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/aptscout/aptscout/internal/model"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// sanitize folds diacritics and strips anything that is not valid UTF-8 so
// listing titles scraped from arbitrary HTML never break the chat sink.
func sanitize(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return folded
}

// FormatMessage renders an accepted listing and its commute options as the
// chat message body. One header line for the listing, one line per commuter.
func FormatMessage(listing model.Listing, ann model.Annotation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s | $%.0f | %s | <%s>", ann.Area, listing.Price, sanitize(listing.Name), listing.URL)

	for _, opt := range ann.Commutes {
		b.WriteString("\n")
		b.WriteString(formatOption(opt))
	}
	return b.String()
}

func formatOption(opt model.CommuteOption) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s | %d steps | $%.2f | Total:%.0f", sanitize(opt.Commuter), opt.TransitSteps(), opt.Fare, opt.TotalMin)

	modes := make([]string, 0, len(opt.TimeMin))
	for mode := range opt.TimeMin {
		modes = append(modes, mode)
	}
	sort.Strings(modes)
	for _, mode := range modes {
		fmt.Fprintf(&b, " %s:%.0f", mode, opt.TimeMin[mode])
	}

	fmt.Fprintf(&b, " Extra:%.0f", opt.ExtraMin)
	if opt.MapsURL != "" {
		fmt.Fprintf(&b, " | <%s|map>", opt.MapsURL)
	}
	return b.String()
}
