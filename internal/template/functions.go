// Package template provides the text/template functions available to the
// template output format.
package template

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"
	"text/template"
	"time"
	"unicode"

	"github.com/google/uuid"
)

func FuncMap() template.FuncMap {
	return template.FuncMap{
		"uuidv4": generateUUIDv4,
		"uuid":   generateUUIDv4, // Alias for uuidv4

		"now":     timeNow,
		"rfc3339": timeNow,

		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"title": titleCase,
		"trim":  strings.TrimSpace,

		"quote":  strconv.Quote,
		"json":   toJSON,
		"base64": base64Encode,

		"replace": replace,
		"indent":  indent,
	}
}

func generateUUIDv4() string {
	return uuid.New().String()
}

func timeNow() string {
	return time.Now().Format(time.RFC3339)
}

// titleCase uses proper Unicode word boundaries.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			runes := []rune(word)
			runes[0] = unicode.ToUpper(runes[0])
			words[i] = string(runes)
		}
	}
	return strings.Join(words, " ")
}

// toJSON renders v as compact JSON. Leaf values use their own JSON form.
func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func base64Encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// replace takes the subject last so it can be piped: {{ .Path | replace "/" "." }}.
func replace(old, replacement, s string) string {
	return strings.ReplaceAll(s, old, replacement)
}

// indent repeats the string width times, e.g. {{ indent "  " .Depth }}.
func indent(unit string, width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat(unit, width)
}

func NewTemplate(name string) *template.Template {
	return template.New(name).Option("missingkey=error").Funcs(FuncMap())
}

// Parse parses text into a template with FuncMap installed.
func Parse(name, text string) (*template.Template, error) {
	return NewTemplate(name).Parse(text)
}

// MustParse panics if the template cannot be parsed.
func MustParse(name, text string) *template.Template {
	return template.Must(Parse(name, text))
}

func Apply(tmplStr string, data any) (string, error) {
	return ApplyWithName("", tmplStr, data)
}

// ApplyWithName is useful for debugging template errors.
func ApplyWithName(name, tmplStr string, data any) (string, error) {
	if tmplStr == "" {
		return "", nil
	}

	tmpl, err := Parse(name, tmplStr)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
