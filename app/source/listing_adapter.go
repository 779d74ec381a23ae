package source

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"

	"github.com/lysyi3m/regwatch/app/feed"
)

// ListingAdapter scrapes an agency news or notice listing page for sources
// that publish no feed. Selectors come from the source configuration.
type ListingAdapter struct {
	base
}

func (a *ListingAdapter) Fetch(ctx context.Context) ([]feed.Item, error) {
	data, err := a.fetch(ctx, a.config.URL, "text/html")
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return a.builder().build(a.entries(doc), false), nil
}

func (a *ListingAdapter) entries(doc *goquery.Document) []feed.Entry {
	sel := a.config.Listing

	var entries []feed.Entry
	doc.Find(sel.Item).Each(func(_ int, node *goquery.Selection) {
		title := strings.TrimSpace(node.Find(sel.Title).First().Text())

		linkNode := node.Find(sel.Link).First()
		href, _ := linkNode.Attr("href")
		if goquery.NodeName(node) == "a" && href == "" {
			href, _ = node.Attr("href")
		}
		if title == "" {
			title = strings.TrimSpace(linkNode.Text())
		}

		if title == "" || href == "" {
			return
		}

		entry := feed.Entry{
			GUID:  href,
			Title: title,
			Link:  href,
		}

		if sel.Summary != "" {
			if summaryHTML, err := node.Find(sel.Summary).First().Html(); err == nil {
				entry.Description = summaryHTML
			}
		}

		if sel.Date != "" {
			if t, ok := listingDate(node.Find(sel.Date).First()); ok {
				entry.PublishedAt = &t
			}
		}

		entries = append(entries, entry)
	})

	return entries
}

// listingDate prefers a machine-readable datetime attribute over the text.
func listingDate(node *goquery.Selection) (time.Time, bool) {
	candidates := []string{strings.TrimSpace(node.Text())}
	if datetime, ok := node.Attr("datetime"); ok {
		candidates = append([]string{strings.TrimSpace(datetime)}, candidates...)
	}

	for _, c := range candidates {
		if c == "" {
			continue
		}
		if t, err := dateparse.ParseIn(c, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
