package ast

import (
	"strings"
)

// Attribute is one key=value pair of an attribute block.
type Attribute struct {
	Key   string
	Value string
}

// Attributes is a parsed {#id .class key=value} block.
type Attributes struct {
	ID      string
	Classes []string
	Pairs   []Attribute
	// Raw is the format of a raw attribute such as {=html}.
	Raw string
}

// ParseAttributes parses the text of an ATTRIBUTE token, braces included.
// Unrecognised words are ignored.
func ParseAttributes(s string) Attributes {
	var attrs Attributes
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "{"), "}")

	for _, word := range splitAttributeWords(s) {
		switch {
		case strings.HasPrefix(word, "="):
			attrs.Raw = word[1:]
		case strings.HasPrefix(word, "#"):
			attrs.ID = word[1:]
		case strings.HasPrefix(word, "."):
			attrs.Classes = append(attrs.Classes, word[1:])
		case strings.Contains(word, "="):
			key, value, _ := strings.Cut(word, "=")
			attrs.Pairs = append(attrs.Pairs, Attribute{Key: key, Value: unquote(value)})
		}
	}
	return attrs
}

// Get returns the value of key.
func (a Attributes) Get(key string) (string, bool) {
	for _, p := range a.Pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// HasClass reports whether class is present.
func (a Attributes) HasClass(class string) bool {
	for _, c := range a.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// String renders the attributes in canonical order: id, classes, pairs.
func (a Attributes) String() string {
	var parts []string
	if a.Raw != "" {
		parts = append(parts, "="+a.Raw)
	}
	if a.ID != "" {
		parts = append(parts, "#"+a.ID)
	}
	for _, c := range a.Classes {
		parts = append(parts, "."+c)
	}
	for _, p := range a.Pairs {
		value := p.Value
		if value == "" || strings.ContainsAny(value, " \t\"'{}") {
			value = `"` + strings.ReplaceAll(value, `"`, `\"`) + `"`
		}
		parts = append(parts, p.Key+"="+value)
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// splitAttributeWords splits on whitespace outside quotes.
func splitAttributeWords(s string) []string {
	var (
		words []string
		cur   strings.Builder
		quote byte
	)
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' && i+1 < len(s) {
				cur.WriteByte(c)
				i++
				cur.WriteByte(s[i])
				continue
			}
			if c == quote {
				quote = 0
			}
			cur.WriteByte(c)
		case c == '"' || c == '\'':
			quote = c
			cur.WriteByte(c)
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return words
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		inner := s[1 : len(s)-1]
		return strings.ReplaceAll(inner, `\`+string(s[0]), string(s[0]))
	}
	return s
}
