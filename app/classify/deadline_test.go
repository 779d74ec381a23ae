package classify

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/regwatch/app/feed"
)

func TestClassifier_Deadline(t *testing.T) {
	c := newTestClassifier()

	testCases := []struct {
		name     string
		text     string
		expected string
	}{
		{"comments due", "Comments are due by April 15, 2026 on the draft plan", "2026-04-15"},
		{"comments received no later than", "Comments must be received no later than 5/1/2026.", "2026-05-01"},
		{"deadline colon", "Application deadline: June 30, 2026", "2026-06-30"},
		{"closes", "Comment period closes March 3, 2026", "2026-03-03"},
		{"ends on iso", "The public notice period ends on 2026-07-04", "2026-07-04"},
		{"by date", "Submit requests by Jan. 9, 2027", "2027-01-09"},
		{"ordinal and abbreviation", "Nominations accepted until Sept. 21st, 2026", "2026-09-21"},
		{"lowercase month", "deadline is october 1 2026", "2026-10-01"},
		{"no deadline", "TCEQ announces new director", ""},
		{"date without cue", "Published March 3, 2026", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			deadline := c.Deadline(tc.text)
			if tc.expected == "" {
				assert.Nil(t, deadline)
				return
			}
			require.NotNil(t, deadline)
			assert.Equal(t, tc.expected, deadline.Format(feed.DateLayout))
			assert.Equal(t, time.UTC, deadline.Location())
		})
	}
}

func TestClassifier_DeadlinePatternOrder(t *testing.T) {
	c := newTestClassifier()

	// "comments due" is tried before "by <date>" even though it appears later.
	text := "Register by May 1, 2026. Comments due June 2, 2026."
	deadline := c.Deadline(text)
	require.NotNil(t, deadline)
	assert.Equal(t, "2026-06-02", deadline.Format(feed.DateLayout))
}

func TestClassifier_DeadlineSkipsUnparseableMatch(t *testing.T) {
	tables := DefaultTables()
	tables.Deadlines = append([]DeadlinePattern{{
		Name:    "always-fails",
		Pattern: regexp.MustCompile(`(?i)closes\s+(\S+)`),
		Parse: func(string) (time.Time, error) {
			return time.Time{}, assert.AnError
		},
	}}, tables.Deadlines...)

	deadline := New(tables).Deadline("Comment period closes March 3, 2026")
	require.NotNil(t, deadline)
	assert.Equal(t, "2026-03-03", deadline.Format(feed.DateLayout))
}

func TestParseDate(t *testing.T) {
	testCases := map[string]string{
		"March 3, 2026":    "2026-03-03",
		"Mar 3 2026":       "2026-03-03",
		"Mar. 3, 2026":     "2026-03-03",
		"June 2nd, 2026":   "2026-06-02",
		"Sept. 9, 2026":    "2026-09-09",
		"September 9 2026": "2026-09-09",
		"12/31/2026":       "2026-12-31",
		"2026-12-31":       "2026-12-31",
	}

	for input, expected := range testCases {
		t.Run(input, func(t *testing.T) {
			got, err := ParseDate(input)
			require.NoError(t, err)
			assert.Equal(t, expected, got.Format(feed.DateLayout))
		})
	}

	_, err := ParseDate("Smarch 40, 2026")
	assert.Error(t, err)
}
