// Package classify assigns category, location, impact, document type and
// tags to normalized item text using ordered keyword tables.
package classify

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lysyi3m/regwatch/app/feed"
	"github.com/lysyi3m/regwatch/app/normalize"
)

// Short tokens such as "epa" or "bay" only match whole words.
const shortTokenLen = 3

type matcher struct {
	keyword string
	word    *regexp.Regexp
}

func (m matcher) match(folded string) bool {
	if m.word != nil {
		return m.word.MatchString(folded)
	}
	return strings.Contains(folded, m.keyword)
}

type compiledRule[T any] struct {
	value    T
	matchers []matcher
}

// Classifier is safe for concurrent use; it never mutates its tables.
type Classifier struct {
	tables *Tables

	categories []compiledRule[feed.Category]
	locations  []compiledRule[feed.Location]
	docTypes   []compiledRule[feed.DocType]
	tags       []compiledRule[string]

	high    []matcher
	medium  []matcher
	noise   []matcher
	topical []matcher
	federal []matcher
}

func New(tables *Tables) *Classifier {
	return &Classifier{
		tables:     tables,
		categories: compileRules(tables.Categories),
		locations:  compileRules(tables.Locations),
		docTypes:   compileRules(tables.DocTypes),
		tags:       compileRules(tables.Tags),
		high:       compile(tables.HighImpact),
		medium:     compile(tables.MediumImpact),
		noise:      compile(tables.Noise),
		topical:    append(compile(tables.Topical), compileWords(tables.TopicalWords)...),
		federal:    compile(tables.Federal),
	}
}

func compile(keywords []string) []matcher {
	matchers := make([]matcher, 0, len(keywords))
	for _, k := range keywords {
		k = normalize.Fold(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		m := matcher{keyword: k}
		if utf8.RuneCountInString(k) <= shortTokenLen {
			m.word = regexp.MustCompile(`\b` + regexp.QuoteMeta(k) + `\b`)
		}
		matchers = append(matchers, m)
	}
	return matchers
}

// compileWords matches each keyword as a whole word with an optional
// plural suffix.
func compileWords(keywords []string) []matcher {
	matchers := make([]matcher, 0, len(keywords))
	for _, k := range keywords {
		k = normalize.Fold(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		matchers = append(matchers, matcher{
			keyword: k,
			word:    regexp.MustCompile(`\b` + regexp.QuoteMeta(k) + `(?:s|es)?\b`),
		})
	}
	return matchers
}

func compileRules[T any](rules []Rule[T]) []compiledRule[T] {
	compiled := make([]compiledRule[T], 0, len(rules))
	for _, r := range rules {
		compiled = append(compiled, compiledRule[T]{value: r.Value, matchers: compile(r.Keywords)})
	}
	return compiled
}

func anyMatch(matchers []matcher, folded string) bool {
	for _, m := range matchers {
		if m.match(folded) {
			return true
		}
	}
	return false
}

func firstMatch[T any](rules []compiledRule[T], folded string) (T, bool) {
	for _, r := range rules {
		if anyMatch(r.matchers, folded) {
			return r.value, true
		}
	}
	var zero T
	return zero, false
}

// Category returns the first matching category, or the unset value.
func (c *Classifier) Category(text string) feed.Category {
	category, _ := firstMatch(c.categories, normalize.Fold(text))
	return category
}

// Location returns the first matching location, or the unset value.
func (c *Classifier) Location(text string) feed.Location {
	location, _ := firstMatch(c.locations, normalize.Fold(text))
	return location
}

// DocType returns the first matching document type, or general.
func (c *Classifier) DocType(text string) feed.DocType {
	if docType, ok := firstMatch(c.docTypes, normalize.Fold(text)); ok {
		return docType
	}
	return feed.DocTypeGeneral
}

func (c *Classifier) Impact(text string) feed.Impact {
	folded := normalize.Fold(text)

	if anyMatch(c.high, folded) || (c.tables.Monetary != nil && c.tables.Monetary.MatchString(text)) {
		return feed.ImpactHigh
	}
	if anyMatch(c.medium, folded) {
		return feed.ImpactMedium
	}
	return feed.ImpactLow
}

// ImpactWithDeadline promotes impact by deadline proximity before falling
// back to keywords: within [-1, 14] days of now is high, within [-1, 30]
// days is medium.
func (c *Classifier) ImpactWithDeadline(text string, deadline *time.Time, now time.Time) feed.Impact {
	if deadline != nil {
		days := DaysUntil(*deadline, now)
		switch {
		case days >= -1 && days <= 14:
			return feed.ImpactHigh
		case days >= -1 && days <= 30:
			return feed.ImpactMedium
		}
	}
	return c.Impact(text)
}

// DaysUntil counts calendar days from now to deadline in UTC.
func DaysUntil(deadline, now time.Time) int {
	today := dateOnly(now.UTC())
	return int(dateOnly(deadline.UTC()).Sub(today).Hours() / 24)
}

// Relevant drops noise first, then requires at least one topical keyword.
func (c *Classifier) Relevant(text string) bool {
	folded := normalize.Fold(text)
	if anyMatch(c.noise, folded) {
		return false
	}
	return anyMatch(c.topical, folded)
}

// Federal reports whether text mentions a federal agency or process.
func (c *Classifier) Federal(text string) bool {
	return anyMatch(c.federal, normalize.Fold(text))
}

// Tags derives the item labels. The item must already carry its impact
// and deadline.
func (c *Classifier) Tags(text string, item feed.Item, federalSource bool) []string {
	folded := normalize.Fold(text)

	var tags []string
	if item.Impact == feed.ImpactHigh {
		tags = append(tags, "urgent")
	}
	if item.Deadline != nil {
		tags = append(tags, "deadline")
	}
	if federalSource || anyMatch(c.federal, folded) {
		tags = append(tags, "federal")
	}
	for _, r := range c.tags {
		if anyMatch(r.matchers, folded) {
			tags = append(tags, r.value)
		}
	}
	return tags
}
