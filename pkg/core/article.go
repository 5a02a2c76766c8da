package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Metadata represents one flat field map, as returned by a store or a dataset.
type Metadata map[string]any

// Field names understood by Article. Everything else is carried in Extra.
const (
	KeyID            = "article_id"
	KeyAuthor        = "author"
	KeyAuthorURL     = "authorUrl"
	KeyBody          = "body"
	KeyCategory      = "category"
	KeyPublishedOn   = "publishedOn"
	KeyTitle         = "title"
	KeyDaysAgo       = "daysAgo"
	KeyPublishStatus = "publishStatus"
)

type fieldMask uint16

const (
	hasID fieldMask = 1 << iota
	hasAuthor
	hasAuthorURL
	hasBody
	hasCategory
	hasPublishedOn
	hasTitle
	hasDerived
)

// Article is the central entity of the domain.
// It carries the known article fields typed and keeps every other field
// of its source map in Extra, so the original shape survives a round trip.
type Article struct {
	ID          string
	Author      string
	AuthorURL   string
	Body        string
	Category    string
	Title       string
	PublishedOn string // empty means draft

	// Presentation fields, set by Derive.
	DaysAgo       int
	PublishStatus string

	Extra Metadata

	present       fieldMask
	rawID         any
	publishedNull bool
}

// NewArticle copies every field of raw onto a new Article.
// No field is validated, renamed or dropped.
func NewArticle(raw Metadata) *Article {
	a := &Article{Extra: make(Metadata)}
	for k, v := range raw {
		if !a.claim(k, v) {
			a.Extra[k] = v
		}
	}
	return a
}

func (a *Article) claim(key string, v any) bool {
	switch key {
	case KeyID:
		id, ok := formatID(v)
		if !ok {
			return false
		}
		a.ID, a.rawID = id, v
		a.present |= hasID
		return true
	case KeyPublishedOn:
		switch t := v.(type) {
		case nil:
			a.publishedNull = true
		case string:
			a.PublishedOn = t
		default:
			return false
		}
		a.present |= hasPublishedOn
		return true
	}

	s, ok := v.(string)
	if !ok {
		return false
	}
	switch key {
	case KeyAuthor:
		a.Author = s
		a.present |= hasAuthor
	case KeyAuthorURL:
		a.AuthorURL = s
		a.present |= hasAuthorURL
	case KeyBody:
		a.Body = s
		a.present |= hasBody
	case KeyCategory:
		a.Category = s
		a.present |= hasCategory
	case KeyTitle:
		a.Title = s
		a.present |= hasTitle
	default:
		return false
	}
	return true
}

// formatID accepts the identifier shapes stores actually produce.
func formatID(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		if t != float64(int64(t)) {
			return "", false
		}
		return strconv.FormatInt(int64(t), 10), true
	}
	return "", false
}

// Fields rebuilds the flat field map of the article.
// A known field is emitted when it was present in the source map or has been set since.
func (a *Article) Fields() Metadata {
	out := make(Metadata, len(a.Extra)+9)
	for k, v := range a.Extra {
		out[k] = v
	}

	if a.present&hasID != 0 || a.ID != "" {
		out[KeyID] = a.ID
		if id, ok := formatID(a.rawID); ok && id == a.ID {
			out[KeyID] = a.rawID
		}
	}
	emit := func(bit fieldMask, key, val string) {
		if a.present&bit != 0 || val != "" {
			out[key] = val
		}
	}
	emit(hasAuthor, KeyAuthor, a.Author)
	emit(hasAuthorURL, KeyAuthorURL, a.AuthorURL)
	emit(hasBody, KeyBody, a.Body)
	emit(hasCategory, KeyCategory, a.Category)
	emit(hasTitle, KeyTitle, a.Title)

	if a.present&hasPublishedOn != 0 || a.PublishedOn != "" {
		if a.PublishedOn == "" && a.publishedNull {
			out[KeyPublishedOn] = nil
		} else {
			out[KeyPublishedOn] = a.PublishedOn
		}
	}

	if a.present&hasDerived != 0 {
		if _, ok := a.Published(); ok {
			out[KeyDaysAgo] = a.DaysAgo
		}
		out[KeyPublishStatus] = a.PublishStatus
	}
	return out
}

// Projection returns the fixed set of fields sent to a store on create and update.
func (a *Article) Projection() Metadata {
	var published any
	if a.PublishedOn != "" {
		published = a.PublishedOn
	}
	return Metadata{
		KeyAuthor:      a.Author,
		KeyAuthorURL:   a.AuthorURL,
		KeyBody:        a.Body,
		KeyCategory:    a.Category,
		KeyPublishedOn: published,
		KeyTitle:       a.Title,
	}
}

var publishedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Published parses the publication timestamp.
// It reports false for drafts and for values no known layout accepts.
func (a *Article) Published() (time.Time, bool) {
	return ParseTimestamp(a.PublishedOn)
}

// ParseTimestamp parses a publication timestamp in UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range publishedLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// String implements fmt.Stringer.
func (a *Article) String() string {
	if a.ID == "" {
		return fmt.Sprintf("%q (unsaved)", a.Title)
	}
	return fmt.Sprintf("%s %q", a.ID, a.Title)
}

// MarshalJSON encodes the article as its flat field map.
func (a *Article) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Fields())
}

// UnmarshalJSON decodes a flat field map into the article.
func (a *Article) UnmarshalJSON(data []byte) error {
	var raw Metadata
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid article json: %w", err)
	}
	*a = *NewArticle(raw)
	return nil
}
