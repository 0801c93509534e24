// Package metadata parses and renders the YAML frontmatter block that
// declares a note's logical type.
//
// Field order and unknown keys survive a Parse/Render round-trip: the
// block is decoded through yaml.Node rather than a plain map, so notes
// carrying keys this tool knows nothing about are never damaged.
package metadata

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const delim = "---"

// Field is one frontmatter key-value pair.
type Field struct {
	Key   string
	Value any
}

// Fields is an ordered frontmatter mapping. The zero value is an empty
// block.
type Fields struct {
	pairs []Field
}

// Len returns the number of fields.
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.pairs)
}

// Get returns the value for key and whether it is present.
func (f *Fields) Get(key string) (any, bool) {
	if f == nil {
		return nil, false
	}
	for _, p := range f.pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Set replaces the value for key, appending the field if absent.
func (f *Fields) Set(key string, value any) {
	for i, p := range f.pairs {
		if p.Key == key {
			f.pairs[i].Value = value
			return
		}
	}
	f.pairs = append(f.pairs, Field{Key: key, Value: value})
}

// Pairs returns the fields in declaration order.
func (f *Fields) Pairs() []Field {
	if f == nil {
		return nil
	}
	out := make([]Field, len(f.pairs))
	copy(out, f.pairs)
	return out
}

// Type returns the declared note type, or empty string when the field
// is absent or not a scalar string.
func (f *Fields) Type() string {
	v, ok := f.Get("type")
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// Status returns the "status" field as a string, if present.
func (f *Fields) Status() string {
	v, ok := f.Get("status")
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Tags returns the "tags" field normalised to a string slice. Both a
// YAML list and a single scalar are accepted.
func (f *Fields) Tags() []string {
	v, ok := f.Get("tags")
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
	case []any:
		var out []string
		for _, item := range t {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	}
	return nil
}

// Parse splits text into frontmatter fields and body.
//
// A file without a leading "---" delimiter has no metadata: empty
// Fields, the whole text as body, no error. A block that opens but does
// not close, or whose YAML fails to decode as a mapping, is a parse
// error; callers classify such notes as malformed rather than failing
// the whole pass.
func Parse(text string) (*Fields, string, error) {
	trimmed := strings.TrimLeft(text, "\n\r")
	if !strings.HasPrefix(trimmed, delim) {
		return &Fields{}, text, nil
	}

	rest := trimmed[len(delim):]
	idx := strings.Index(rest, "\n"+delim)
	if idx < 0 {
		return nil, "", fmt.Errorf("metadata: unterminated frontmatter block")
	}

	block := rest[:idx]
	body := strings.TrimLeft(rest[idx+1+len(delim):], "\n\r")

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(block), &doc); err != nil {
		return nil, "", fmt.Errorf("metadata: invalid yaml: %w", err)
	}
	if len(doc.Content) == 0 {
		// Empty block between delimiters.
		return &Fields{}, body, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, "", fmt.Errorf("metadata: frontmatter is not a key-value mapping")
	}

	fields := &Fields{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		var value any
		if err := root.Content[i+1].Decode(&value); err != nil {
			return nil, "", fmt.Errorf("metadata: decode field %q: %w", key, err)
		}
		fields.pairs = append(fields.pairs, Field{Key: key, Value: value})
	}
	return fields, body, nil
}

// Render re-emits a note as text: frontmatter in declaration order,
// then the body. Empty fields produce the body alone, with no empty
// delimiter block.
func Render(fields *Fields, body string) string {
	if fields.Len() == 0 {
		return body
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, p := range fields.pairs {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: p.Key}
		valNode := &yaml.Node{}
		if err := valNode.Encode(p.Value); err != nil {
			// Unencodable values should not silently drop the field.
			valNode = &yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprint(p.Value)}
		}
		root.Content = append(root.Content, keyNode, valNode)
	}

	out, err := yaml.Marshal(root)
	if err != nil {
		return body
	}

	var b strings.Builder
	b.WriteString(delim)
	b.WriteString("\n")
	b.Write(out)
	b.WriteString(delim)
	b.WriteString("\n\n")
	b.WriteString(body)
	return b.String()
}
