package core

import (
	"fmt"
	"time"
)

// DraftStatus is the publish status of an article without a publication timestamp.
const DraftStatus = "(draft)"

// Markdown converts raw article text into HTML. Text that is already HTML passes through.
type Markdown interface {
	Render(src string) string
}

// MarkdownFunc adapts a plain function to Markdown.
type MarkdownFunc func(src string) string

// Render implements Markdown.
func (f MarkdownFunc) Render(src string) string { return f(src) }

// Derive computes the presentation fields of a and returns it.
// The article is mutated: DaysAgo, PublishStatus and Body are overwritten,
// as are any Extra entries with the same names. A nil md leaves Body as is.
func Derive(a *Article, now time.Time, md Markdown) *Article {
	if published, ok := a.Published(); ok {
		a.DaysAgo = DaysBetween(published, now)
		a.PublishStatus = fmt.Sprintf("published %d days ago", a.DaysAgo)
	} else {
		a.DaysAgo = 0
		a.PublishStatus = DraftStatus
	}
	delete(a.Extra, KeyDaysAgo)
	delete(a.Extra, KeyPublishStatus)
	a.present |= hasDerived

	if md != nil {
		a.Body = md.Render(a.Body)
		a.present |= hasBody
		delete(a.Extra, KeyBody)
	}
	return a
}

// DaysBetween returns the whole days elapsed from t to now, truncated toward zero.
func DaysBetween(t, now time.Time) int {
	return int(now.Sub(t) / (24 * time.Hour))
}
