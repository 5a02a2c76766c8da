package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/folio/pkg/core"
)

// Serializer reads and writes the fields of one article in a file format.
type Serializer interface {
	Parse(r io.Reader) (core.Metadata, error)
	Serialize(fields core.Metadata) ([]byte, error)
}

// DefaultSerializers returns the serializers keyed by file extension.
// Strict keeps numbers as json.Number instead of float64/int.
func DefaultSerializers(strict bool) map[string]Serializer {
	return map[string]Serializer{
		".json": &JSONSerializer{Strict: strict},
		".yaml": &YAMLSerializer{Strict: strict},
		".yml":  &YAMLSerializer{Strict: strict},
		".md":   &MarkdownSerializer{Strict: strict},
	}
}

// --- JSON Serializer ---

// JSONSerializer stores an article as a flat JSON object.
type JSONSerializer struct {
	Strict bool
}

func (s *JSONSerializer) Parse(r io.Reader) (core.Metadata, error) {
	dec := json.NewDecoder(r)
	if s.Strict {
		dec.UseNumber()
	}
	var fields core.Metadata
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if fields == nil {
		fields = make(core.Metadata)
	}
	return fields, nil
}

func (s *JSONSerializer) Serialize(fields core.Metadata) ([]byte, error) {
	data, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// --- YAML Serializer ---

// YAMLSerializer stores an article as a flat YAML mapping.
type YAMLSerializer struct {
	Strict bool
}

func (s *YAMLSerializer) Parse(r io.Reader) (core.Metadata, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	fields := make(core.Metadata)
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	return Normalize(fields, s.Strict), nil
}

func (s *YAMLSerializer) Serialize(fields core.Metadata) ([]byte, error) {
	return encodeYAML(fields)
}

// --- Markdown Serializer ---

// MarkdownSerializer stores the body as markdown and every other field
// as YAML frontmatter.
type MarkdownSerializer struct {
	Strict bool
}

func (s *MarkdownSerializer) Parse(r io.Reader) (core.Metadata, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	fields := make(core.Metadata)
	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		fields[core.KeyBody] = string(data)
		return fields, nil
	}

	parts := bytes.SplitN(data[3:], []byte("\n---"), 2)
	if len(parts) == 1 {
		return nil, errors.New("frontmatter started but no closing delimiter found")
	}
	if err := yaml.Unmarshal(parts[0], &fields); err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	body := strings.TrimPrefix(string(parts[1]), "\r")
	body = strings.TrimPrefix(body, "\n")
	fields[core.KeyBody] = body
	return Normalize(fields, s.Strict), nil
}

func (s *MarkdownSerializer) Serialize(fields core.Metadata) ([]byte, error) {
	front := make(core.Metadata, len(fields))
	for k, v := range fields {
		if k != core.KeyBody {
			front[k] = v
		}
	}

	var buf bytes.Buffer
	if len(front) > 0 {
		data, err := encodeYAML(front)
		if err != nil {
			return nil, err
		}
		buf.WriteString("---\n")
		buf.Write(data)
		buf.WriteString("---\n")
	}
	if body, ok := fields[core.KeyBody]; ok && body != nil {
		fmt.Fprint(&buf, body)
	}
	return buf.Bytes(), nil
}

// --- Helpers ---

// encodeYAML turns json.Number back into plain numbers so they are not quoted.
func encodeYAML(fields core.Metadata) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(plain(fields)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func plain(val any) any {
	switch v := val.(type) {
	case core.Metadata:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[k] = plain(val)
		}
		return m
	case map[string]any:
		return plain(core.Metadata(v))
	case []any:
		l := make([]any, len(v))
		for i, val := range v {
			l[i] = plain(val)
		}
		return l
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	default:
		return v
	}
}

// Normalize converts YAML timestamps back to strings and, in strict mode,
// numbers to json.Number so every source decodes alike.
func Normalize(fields core.Metadata, strict bool) core.Metadata {
	out := make(core.Metadata, len(fields))
	for k, v := range fields {
		out[k] = normalizeValue(v, strict)
	}
	return out
}

func normalizeValue(val any, strict bool) any {
	switch v := val.(type) {
	case map[string]any:
		return map[string]any(Normalize(v, strict))
	case []any:
		l := make([]any, len(v))
		for i, val := range v {
			l[i] = normalizeValue(val, strict)
		}
		return l
	case time.Time:
		if v.Equal(v.Truncate(24 * time.Hour)) {
			return v.Format("2006-01-02")
		}
		return v.Format(time.RFC3339Nano)
	case int:
		if strict {
			return json.Number(strconv.Itoa(v))
		}
	case int64:
		if strict {
			return json.Number(strconv.FormatInt(v, 10))
		}
	case uint64:
		if strict {
			return json.Number(strconv.FormatUint(v, 10))
		}
	case float64:
		if strict {
			return json.Number(strconv.FormatFloat(v, 'f', -1, 64))
		}
	}
	return val
}
