package classify

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DeadlinePattern pairs a phrase pattern with the parser for its first
// capture group.
type DeadlinePattern struct {
	Name    string
	Pattern *regexp.Regexp
	Parse   func(string) (time.Time, error)
}

const (
	monthDate   = `(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}`
	numericDate = `\d{1,2}/\d{1,2}/\d{4}`
	isoDate     = `\d{4}-\d{2}-\d{2}`
	anyDate     = `(` + monthDate + `|` + numericDate + `|` + isoDate + `)`
)

// DefaultDeadlinePatterns lists the deadline phrasings in the order they are
// tried. The first pattern that matches and parses wins.
func DefaultDeadlinePatterns() []DeadlinePattern {
	return []DeadlinePattern{
		{
			Name:    "comments-due",
			Pattern: regexp.MustCompile(`(?i)comments?\s+(?:are\s+|must\s+be\s+)?(?:due|received|accepted)\s+(?:by\s+|on\s+|until\s+|through\s+|no\s+later\s+than\s+)?` + anyDate),
			Parse:   ParseDate,
		},
		{
			Name:    "deadline",
			Pattern: regexp.MustCompile(`(?i)deadline(?:\s+is|\s+of|\s*:)?\s+` + anyDate),
			Parse:   ParseDate,
		},
		{
			Name:    "closes",
			Pattern: regexp.MustCompile(`(?i)\b(?:closes|close|ends|end|expires)\s+(?:on\s+)?` + anyDate),
			Parse:   ParseDate,
		},
		{
			Name:    "by-date",
			Pattern: regexp.MustCompile(`(?i)\b(?:by|before|until|through)\s+` + anyDate),
			Parse:   ParseDate,
		},
	}
}

var (
	ordinalSuffix = regexp.MustCompile(`(?i)(\d{1,2})(?:st|nd|rd|th)\b`)
	septAbbrev    = regexp.MustCompile(`(?i)\bsept\b`)
)

var dateLayouts = []string{
	"January 2 2006",
	"Jan 2 2006",
	"1/2/2006",
	"2006-01-02",
}

// ParseDate parses the date forms captured by the deadline patterns and
// returns the calendar day at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	cleaned := ordinalSuffix.ReplaceAllString(s, "$1")
	cleaned = strings.NewReplacer(",", " ", ".", " ").Replace(cleaned)
	cleaned = septAbbrev.ReplaceAllString(cleaned, "Sep")
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return dateOnly(t), nil
		}
	}

	t, err := dateparse.ParseIn(strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", s, err)
	}
	return dateOnly(t), nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Deadline returns the first deadline found in text, or nil.
func (c *Classifier) Deadline(text string) *time.Time {
	for _, p := range c.tables.Deadlines {
		for _, m := range p.Pattern.FindAllStringSubmatch(text, -1) {
			if len(m) < 2 {
				continue
			}
			if t, err := p.Parse(m[1]); err == nil {
				return &t
			}
		}
	}
	return nil
}
