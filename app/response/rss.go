package response

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/lysyi3m/regwatch/app/feed"
)

var channelTitles = map[feed.Profile]string{
	feed.ProfileNews:       "Texas Environmental News",
	feed.ProfileRegulatory: "Texas Regulatory Actions",
}

var channelDescriptions = map[feed.Profile]string{
	feed.ProfileNews:       "Environmental and natural-resource news from Texas agencies and newsrooms",
	feed.ProfileRegulatory: "Permits, rules, notices and enforcement actions affecting Texas, with comment deadlines",
}

// Generator renders a payload as RSS 2.0. Classification is carried in
// <category> elements and the deadline is prepended to the description.
type Generator struct {
	version string
}

func NewGenerator(version string) *Generator {
	return &Generator{version: version}
}

func (g *Generator) Run(payload Payload, selfLink, siteLink string) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", channelTitles[payload.Profile], 4)
	g.writeElement(&buf, "link", siteLink, 4)
	g.writeElement(&buf, "description", channelDescriptions[payload.Profile], 4)

	if selfLink != "" {
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(selfLink)))
	}

	lastBuildDate, err := time.Parse(time.RFC3339, payload.GeneratedAt)
	if err != nil {
		return "", fmt.Errorf("failed to parse generation time: %w", err)
	}

	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("regwatch/%s", g.version), 4)
	g.writeElement(&buf, "language", "en-us", 4)

	for _, item := range payload.Items {
		g.writeItem(&buf, item)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, item feed.Item) {
	buf.WriteString("    <item>\n")

	buf.WriteString("      <guid isPermaLink=\"false\">")
	xml.EscapeText(buf, []byte(item.ID))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", item.Title, 6)
	g.writeElement(buf, "link", item.Link, 6)
	g.writeElement(buf, "description", description(item), 6)

	if item.PublishedAt != nil {
		g.writeElement(buf, "pubDate", item.PublishedAt.Format(time.RFC1123Z), 6)
	}

	for _, category := range categories(item) {
		g.writeElement(buf, "category", category, 6)
	}

	buf.WriteString("    </item>\n")
}

func description(item feed.Item) string {
	var parts []string
	if item.Deadline != nil {
		parts = append(parts, "Deadline: "+item.Deadline.Format(feed.DateLayout)+".")
	}
	if item.Summary != "" {
		parts = append(parts, item.Summary)
	}
	if len(parts) == 0 {
		return "No description available"
	}
	return strings.Join(parts, " ")
}

func categories(item feed.Item) []string {
	cats := []string{
		item.Category.String(),
		item.Location.String(),
		"impact:" + string(item.Impact),
	}
	if item.Type != "" {
		cats = append(cats, "type:"+string(item.Type))
	}
	return append(cats, item.Tags...)
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
