package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	jsoniter "github.com/json-iterator/go"

	"github.com/lysyi3m/regwatch/app/feed"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var errNoDocumentList = errors.New("response has no document list")

// Candidate field names per logical field, tried in order. The first
// non-empty value wins. Attributes nested under "attributes" take precedence
// over top-level keys.
var (
	recordKeys      = []string{"data", "results", "documents", "items"}
	idFields        = []string{"id", "documentId", "document_number", "objectId"}
	titleFields     = []string{"title", "documentTitle", "name"}
	summaryFields   = []string{"summary", "abstract", "description", "excerpt", "highlightedContent"}
	linkFields      = []string{"html_url", "htmlUrl", "documentUrl", "url", "link"}
	publishedFields = []string{"postedDate", "publication_date", "publishedDate", "published", "date", "lastModifiedDate"}
	deadlineFields  = []string{"commentEndDate", "comments_close_on", "commentDueDate", "comment_date", "deadline"}
	typeFields      = []string{"documentType", "document_type", "type", "subtype"}
	agencyFields    = []string{"agencyId", "agency", "agency_names", "agencies"}
)

// DocketAdapter reads a JSON regulatory-document API such as
// regulations.gov or the Federal Register.
type DocketAdapter struct {
	base
}

func (a *DocketAdapter) Fetch(ctx context.Context) ([]feed.Item, error) {
	requestURL, err := a.requestURL()
	if err != nil {
		return nil, err
	}

	data, err := a.fetch(ctx, requestURL, "application/json")
	if err != nil {
		return nil, err
	}

	entries, err := a.parse(data)
	if err != nil {
		return nil, err
	}

	actionable := a.profile == feed.ProfileRegulatory && a.config.Docket.ActionableOnly
	return a.builder().build(entries, actionable), nil
}

func (a *DocketAdapter) requestURL() (string, error) {
	u, err := url.Parse(a.config.URL)
	if err != nil {
		return "", fmt.Errorf("failed to parse docket URL: %w", err)
	}

	opts := a.config.Docket
	q := u.Query()
	if opts.SearchTerm != "" {
		q.Set(opts.SearchParam, opts.SearchTerm)
	}
	q.Set(opts.SizeParam, strconv.Itoa(opts.PageSize))
	if opts.Sort != "" {
		q.Set(opts.SortParam, opts.Sort)
	}
	for k, v := range opts.Params {
		q.Set(k, v)
	}
	if opts.UseAPIKey && a.deps.DocketAPIKey != "" {
		q.Set(opts.APIKeyParam, a.deps.DocketAPIKey)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (a *DocketAdapter) parse(data []byte) ([]feed.Entry, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	records, ok := documentList(doc)
	if !ok {
		return nil, errNoDocumentList
	}

	entries := make([]feed.Entry, 0, len(records))
	for _, r := range records {
		record, ok := r.(map[string]any)
		if !ok {
			continue
		}
		entries = append(entries, a.entry(flatten(record)))
	}
	return entries, nil
}

func (a *DocketAdapter) entry(fields map[string]any) feed.Entry {
	id := pickString(fields, idFields)

	link := pickString(fields, linkFields)
	if link == "" && id != "" && a.config.Docket.LinkTemplate != "" {
		link = strings.ReplaceAll(a.config.Docket.LinkTemplate, "{id}", url.PathEscape(id))
	}

	entry := feed.Entry{
		GUID:         id,
		Title:        pickString(fields, titleFields),
		Link:         link,
		Description:  pickString(fields, summaryFields),
		DocumentType: pickString(fields, typeFields),
		Agency:       pickString(fields, agencyFields),
	}

	if t, ok := pickTime(fields, publishedFields); ok {
		entry.PublishedAt = &t
	}
	if t, ok := pickTime(fields, deadlineFields); ok {
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		entry.Deadline = &d
	}

	return entry
}

func documentList(doc any) ([]any, bool) {
	switch v := doc.(type) {
	case []any:
		return v, true
	case map[string]any:
		for _, key := range recordKeys {
			if list, ok := v[key].([]any); ok {
				return list, true
			}
		}
	}
	return nil, false
}

func flatten(record map[string]any) map[string]any {
	fields := make(map[string]any, len(record))
	for k, v := range record {
		fields[k] = v
	}
	if attrs, ok := record["attributes"].(map[string]any); ok {
		for k, v := range attrs {
			if !isEmpty(v) {
				fields[k] = v
			}
		}
	}
	return fields
}

func isEmpty(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	}
	return false
}

func pickString(fields map[string]any, names []string) string {
	for _, name := range names {
		if s := stringValue(fields[name]); s != "" {
			return s
		}
	}
	return ""
}

func stringValue(v any) string {
	switch v := v.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case map[string]any:
		return stringValue(v["name"])
	case []any:
		parts := make([]string, 0, len(v))
		for _, elem := range v {
			if s := stringValue(elem); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

func pickTime(fields map[string]any, names []string) (time.Time, bool) {
	for _, name := range names {
		s := stringValue(fields[name])
		if s == "" {
			continue
		}
		if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
