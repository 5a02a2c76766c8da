package fs

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/folio/pkg/core"
)

func TestSerializers(t *testing.T) {
	fields := core.Metadata{
		core.KeyTitle:       "Test Title",
		core.KeyAuthor:      "Kevin Bacon",
		core.KeyPublishedOn: "2015-02-17",
		core.KeyBody:        "# Hello\n\nWorld\n",
		"tags":              []any{"a", "b"},
	}

	for ext, s := range DefaultSerializers(false) {
		t.Run(ext, func(t *testing.T) {
			data, err := s.Serialize(fields)
			if err != nil {
				t.Fatalf("Serialize failed: %v", err)
			}
			parsed, err := s.Parse(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			for _, key := range []string{core.KeyTitle, core.KeyAuthor, core.KeyPublishedOn, core.KeyBody} {
				if parsed[key] != fields[key] {
					t.Errorf("%s mismatch: want %q, got %#v", key, fields[key], parsed[key])
				}
			}
			tags, ok := parsed["tags"].([]any)
			if !ok || len(tags) != 2 {
				t.Errorf("tags mismatch: got %#v", parsed["tags"])
			}
		})
	}
}

func TestSerializers_NullPublishedOn(t *testing.T) {
	fields := core.Metadata{core.KeyTitle: "draft", core.KeyPublishedOn: nil}

	for ext, s := range DefaultSerializers(false) {
		t.Run(ext, func(t *testing.T) {
			data, err := s.Serialize(fields)
			if err != nil {
				t.Fatalf("Serialize failed: %v", err)
			}
			parsed, err := s.Parse(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			v, ok := parsed[core.KeyPublishedOn]
			if !ok || v != nil {
				t.Errorf("expected explicit null publishedOn, got %#v (present=%v)", v, ok)
			}
		})
	}
}

func TestMarkdownSerializer(t *testing.T) {
	s := &MarkdownSerializer{}

	t.Run("Body Only", func(t *testing.T) {
		parsed, err := s.Parse(strings.NewReader("just text"))
		if err != nil {
			t.Fatal(err)
		}
		if parsed[core.KeyBody] != "just text" {
			t.Errorf("unexpected body %#v", parsed[core.KeyBody])
		}
	})

	t.Run("Unclosed Frontmatter", func(t *testing.T) {
		if _, err := s.Parse(strings.NewReader("---\ntitle: x\n")); err == nil {
			t.Error("expected error for unclosed frontmatter")
		}
	})

	t.Run("Body Keeps Horizontal Rules", func(t *testing.T) {
		in := "---\ntitle: x\n---\nabove\n\n---\n\nbelow"
		parsed, err := s.Parse(strings.NewReader(in))
		if err != nil {
			t.Fatal(err)
		}
		if parsed[core.KeyBody] != "above\n\n---\n\nbelow" {
			t.Errorf("unexpected body %q", parsed[core.KeyBody])
		}
	})

	t.Run("Timestamps Stay Strings", func(t *testing.T) {
		parsed, err := s.Parse(strings.NewReader("---\npublishedOn: 2015-02-17\n---\n"))
		if err != nil {
			t.Fatal(err)
		}
		if parsed[core.KeyPublishedOn] != "2015-02-17" {
			t.Errorf("expected string date, got %#v", parsed[core.KeyPublishedOn])
		}
	})
}

func TestSerializers_Strict(t *testing.T) {
	parsed, err := (&YAMLSerializer{Strict: true}).Parse(strings.NewReader("views: 9007199254740993\n"))
	if err != nil {
		t.Fatal(err)
	}
	if parsed["views"] != json.Number("9007199254740993") {
		t.Errorf("expected json.Number, got %#v", parsed["views"])
	}

	data, err := (&YAMLSerializer{}).Serialize(core.Metadata{"views": json.Number("12")})
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "views: 12" {
		t.Errorf("expected unquoted number, got %q", data)
	}
}
