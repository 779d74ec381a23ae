package feed

import (
	"fmt"
	"strings"
)

// Filterer applies the per-source include/exclude rules from the source
// registry. Excludes are checked first; a filter with includes then requires
// at least one of them.
type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run returns the entries that pass every filter, preserving order.
func (f *Filterer) Run(entries []Entry, sourceConfig *Config) []Entry {
	if len(sourceConfig.Filters) == 0 {
		return entries
	}

	kept := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if rejected, _ := f.Check(entry, sourceConfig.Filters); !rejected {
			kept = append(kept, entry)
		}
	}

	return kept
}

// Check reports whether the entry is rejected and why.
func (f *Filterer) Check(entry Entry, filters []ConfigFilter) (bool, string) {
	for _, filter := range filters {
		value := f.getFieldValue(entry, filter.Field)

		for _, exclude := range filter.Excludes {
			if f.matchesFilter(value, exclude) {
				return true, fmt.Sprintf("Excluded by %s filter: contains '%s'", filter.Field, exclude)
			}
		}

		if len(filter.Includes) > 0 {
			matched := false
			for _, include := range filter.Includes {
				if f.matchesFilter(value, include) {
					matched = true
					break
				}
			}
			if !matched {
				return true, fmt.Sprintf("Excluded by %s filter: does not contain any of %v", filter.Field, filter.Includes)
			}
		}
	}

	return false, ""
}

func (f *Filterer) matchesFilter(value, pattern string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

func (f *Filterer) getFieldValue(entry Entry, field string) string {
	switch field {
	case "title":
		return entry.Title
	case "description":
		return entry.Description
	case "content":
		return entry.Content
	case "authors":
		return strings.Join(entry.Authors, " ")
	case "link":
		return entry.Link
	case "categories":
		return strings.Join(entry.Categories, " ")
	case "agency":
		return entry.Agency
	case "document_type":
		return entry.DocumentType
	default:
		return ""
	}
}
