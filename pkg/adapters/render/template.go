package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/aretw0/folio/pkg/core"
)

//go:embed templates/*.tmpl
var templates embed.FS

// view is what the templates see. Body is trusted: it is the output of the
// markdown converter, which lets the author's HTML through.
type view struct {
	ID            string
	Title         string
	Author        string
	AuthorURL     template.URL
	Category      string
	PublishedOn   string
	PublishStatus string
	Body          template.HTML
}

// Renderer executes the article templates.
type Renderer struct {
	tmpl *template.Template
	md   core.Markdown
}

// New parses the embedded templates. A nil md uses goldmark.
func New(md core.Markdown) (*Renderer, error) {
	tmpl, err := template.ParseFS(templates, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if md == nil {
		md = NewMarkdown()
	}
	return &Renderer{tmpl: tmpl, md: md}, nil
}

// Article writes one article. a itself is not modified; the derived
// fields are computed on a copy.
func (r *Renderer) Article(w io.Writer, a *core.Article, now time.Time) error {
	return r.tmpl.ExecuteTemplate(w, "article", r.view(a, now))
}

// Page writes a full HTML document listing articles in the given order.
func (r *Renderer) Page(w io.Writer, title string, articles []*core.Article, now time.Time) error {
	views := make([]view, len(articles))
	for i, a := range articles {
		views[i] = r.view(a, now)
	}
	return r.tmpl.ExecuteTemplate(w, "page", struct {
		Title    string
		Articles []view
	}{title, views})
}

func (r *Renderer) view(a *core.Article, now time.Time) view {
	d := core.Derive(core.NewArticle(a.Fields()), now, r.md)
	return view{
		ID:            d.ID,
		Title:         d.Title,
		Author:        d.Author,
		AuthorURL:     safeURL(d.AuthorURL),
		Category:      d.Category,
		PublishedOn:   d.PublishedOn,
		PublishStatus: d.PublishStatus,
		Body:          template.HTML(d.Body),
	}
}

// safeURL keeps http(s) links and drops anything else.
func safeURL(u string) template.URL {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return template.URL(u)
	}
	return ""
}
