// Package normalize turns upstream titles, summaries and links into the
// plain, comparable forms used by classification and deduplication.
package normalize

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
)

var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "td": true, "th": true, "table": true, "blockquote": true,
	"section": true, "article": true, "header": true, "footer": true, "hr": true,
}

// Upstreams sometimes double-encode, so a literal entity can survive the
// HTML parser. Smart quotes are flattened to ASCII.
var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&#039;", "'",
	"&apos;", "'",
	"&lsquo;", "'",
	"&rsquo;", "'",
	"&ldquo;", `"`,
	"&rdquo;", `"`,
	"&#8216;", "'",
	"&#8217;", "'",
	"&#8220;", `"`,
	"&#8221;", `"`,
	"\u2018", "'",
	"\u2019", "'",
	"\u201c", `"`,
	"\u201d", `"`,
	"\u00a0", " ",
)

// Text strips markup and entities from s and collapses whitespace.
// Malformed markup degrades to whatever text the HTML parser recovers.
func Text(s string) string {
	if s == "" {
		return ""
	}

	if strings.ContainsAny(s, "<&") {
		s = stripMarkup(s)
	}

	s = entityReplacer.Replace(s)

	return strings.Join(strings.Fields(s), " ")
}

func stripMarkup(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}

	doc.Find("script, style, noscript, template").Remove()

	var b strings.Builder
	writeText(doc.Selection, &b)
	return b.String()
}

func writeText(sel *goquery.Selection, b *strings.Builder) {
	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		name := goquery.NodeName(child)
		if name == "#text" {
			b.WriteString(child.Text())
			return
		}

		block := blockElements[name]
		if block {
			b.WriteByte(' ')
		}
		writeText(child, b)
		if block {
			b.WriteByte(' ')
		}
	})
}

// Truncate shortens s to at most limit runes, cutting at a word boundary
// when one is close enough, and marks the cut with "...".
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	if limit <= 3 {
		return string([]rune(s)[:limit])
	}

	cut := string([]rune(s)[:limit-3])
	if i := strings.LastIndexByte(cut, ' '); i > len(cut)/2 {
		cut = cut[:i]
	}

	return strings.TrimRight(cut, " ,;:.-") + "..."
}

// Fold returns the case-folded form of s used for keyword matching and
// comparison keys. A cases.Caser is not safe for concurrent use, so one is
// built per call.
func Fold(s string) string {
	return cases.Fold().String(s)
}
