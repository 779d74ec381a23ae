package source

import (
	"cmp"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/lysyi3m/regwatch/app/classify"
	"github.com/lysyi3m/regwatch/app/feed"
	"github.com/lysyi3m/regwatch/app/normalize"
)

const (
	summaryBudget = 300
	linkSuffixLen = 12
)

// Provider document types kept by the actionable filter regardless of
// whether a deadline was found.
var actionableTypes = map[string]bool{
	"rule":          true,
	"proposed rule": true,
	"notice":        true,
}

// builder turns one source's entries into items. It holds a single "now"
// so every item of a pass is classified against the same clock.
type builder struct {
	config     *feed.Config
	profile    feed.Profile
	classifier *classify.Classifier
	filterer   *feed.Filterer
	now        time.Time
}

// build considers at most MaxItems upstream entries, in upstream order.
func (b *builder) build(entries []feed.Entry, actionable bool) []feed.Item {
	if limit := b.config.Settings.MaxItems; limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	entries = b.filterer.Run(entries, b.config)

	items := make([]feed.Item, 0, len(entries))
	for _, entry := range entries {
		if item, ok := b.item(entry, len(items)+1, actionable); ok {
			items = append(items, item)
		}
	}
	return items
}

func (b *builder) item(entry feed.Entry, ordinal int, actionable bool) (feed.Item, bool) {
	title := normalize.Text(entry.Title)
	link := normalize.URL(b.resolveLink(entry.Link))
	if title == "" || link == "" {
		return feed.Item{}, false
	}

	summary := normalize.Text(cmp.Or(entry.Description, entry.Content))
	text := strings.TrimSpace(title + " " + summary)

	if !b.classifier.Relevant(text) {
		return feed.Item{}, false
	}

	deadline := entry.Deadline
	if deadline == nil {
		deadline = b.classifier.Deadline(text)
	}

	if actionable && deadline == nil && !actionableTypes[strings.ToLower(strings.TrimSpace(entry.DocumentType))] {
		return feed.Item{}, false
	}

	item := feed.Item{
		ID:          itemID(b.config.Name, ordinal, link),
		Title:       title,
		Summary:     normalize.Truncate(summary, summaryBudget),
		Link:        link,
		Source:      b.config.Name,
		PublishedAt: entry.PublishedAt,
		Category:    b.classifier.Category(text),
		Location:    b.classifier.Location(text),
		Deadline:    deadline,
	}

	if b.profile.DeadlineAware() {
		item.Impact = b.classifier.ImpactWithDeadline(text, deadline, b.now)
		item.Type = b.classifier.DocType(strings.TrimSpace(text + " " + entry.DocumentType))
	} else {
		item.Impact = b.classifier.Impact(text)
	}

	item.Tags = b.classifier.Tags(text, item, b.config.Settings.Federal)

	return item, true
}

// resolveLink makes relative links absolute against the source URL. It
// returns "" for links that cannot become an http(s) URL.
func (b *builder) resolveLink(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}

	ref, err := url.Parse(link)
	if err != nil {
		return ""
	}

	if ref.IsAbs() {
		if !isWebURL(ref) {
			return ""
		}
		return link
	}

	base, err := url.Parse(b.config.URL)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if !isWebURL(resolved) {
		return ""
	}
	return resolved.String()
}

func isWebURL(u *url.URL) bool {
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func itemID(sourceName string, ordinal int, link string) string {
	return slug(sourceName) + "-" + strconv.Itoa(ordinal) + "-" + linkSuffix(link)
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
		} else if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func linkSuffix(link string) string {
	var alnum []rune
	for _, r := range link {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			alnum = append(alnum, r)
		}
	}
	if len(alnum) > linkSuffixLen {
		alnum = alnum[len(alnum)-linkSuffixLen:]
	}
	return string(alnum)
}
