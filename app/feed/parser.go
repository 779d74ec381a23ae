package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

// Parser is safe for concurrent use. gofeed parsers cache their
// translators on first use, so each Run builds its own.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Run parses an RSS, Atom or JSON Feed document into entries in upstream order.
func (p *Parser) Run(data []byte) ([]Entry, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, p.normalizeItem(item))
	}

	return entries, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) Entry {
	entry := Entry{
		GUID:        cmp.Or(item.GUID, item.Link),
		Title:       item.Title,
		Link:        strings.TrimSpace(item.Link),
		Description: item.Description,
		Content:     item.Content,
	}

	// Some agency feeds only carry an updated stamp
	if item.PublishedParsed != nil {
		published := *item.PublishedParsed
		entry.PublishedAt = &published
	} else if item.UpdatedParsed != nil {
		updated := *item.UpdatedParsed
		entry.PublishedAt = &updated
	}

	// Atom entries sometimes put the permalink in GUID only
	if entry.Link == "" && p.isURL(item.GUID) {
		entry.Link = item.GUID
	}

	entry.Authors = p.extractAuthors(item)

	if item.Categories != nil {
		entry.Categories = item.Categories
	}

	return entry
}

func (p *Parser) extractAuthors(item *gofeed.Item) []string {
	var authors []string

	if len(item.Authors) > 0 {
		for _, author := range item.Authors {
			if author != nil {
				authorStr := p.formatAuthor(author.Name, author.Email)
				if authorStr != "" {
					authors = append(authors, authorStr)
				}
			}
		}
	} else if item.Author != nil {
		authorStr := p.formatAuthor(item.Author.Name, item.Author.Email)
		if authorStr != "" {
			authors = append(authors, authorStr)
		}
	}

	return authors
}

func (p *Parser) formatAuthor(name, email string) string {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name != "" && email != "" {
		return fmt.Sprintf("%s (%s)", email, name)
	} else if name != "" {
		return name
	} else if email != "" {
		return email
	}

	return ""
}

func (p *Parser) isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
