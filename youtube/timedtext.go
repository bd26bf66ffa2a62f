package youtube

import (
	"encoding/xml"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
)

// Snippet is one timed line of transcript text.
type Snippet struct {
	// Text is the spoken line, entity-unescaped and with markup stripped.
	Text string `json:"text"`
	// Start is the offset from the beginning of the video, in seconds.
	Start float64 `json:"start"`
	// Duration is how long the line is displayed, in seconds.
	Duration float64 `json:"duration"`
}

// formattingTags is the allow-list of inline tags kept when formatting
// preservation is requested. Every other tag is stripped either way.
var formattingTags = map[string]bool{
	"strong": true,
	"em":     true,
	"b":      true,
	"i":      true,
	"mark":   true,
	"small":  true,
	"del":    true,
	"ins":    true,
	"sub":    true,
	"sup":    true,
}

var (
	tagPattern     = regexp.MustCompile(`<[^>]*>`)
	tagNamePattern = regexp.MustCompile(`^</?\s*([a-zA-Z0-9]+)`)
)

// timedTextParser converts a timed-text caption document into snippets.
type timedTextParser struct {
	// preserveFormatting keeps allow-listed inline tags instead of stripping
	// all markup.
	preserveFormatting bool
}

// timedTextElement is one element of the caption document. Formatting tags
// arrive entity-escaped inside the text content, so they survive XML decoding
// and are handled by the tag filter after a second unescape pass.
type timedTextElement struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Body  string `xml:",chardata"`
}

// parse converts the raw caption document into ordered snippets. Elements
// with no text content are dropped entirely. The root element name varies
// between caption endpoints and is deliberately not matched.
func (p timedTextParser) parse(raw []byte) ([]Snippet, error) {
	var doc struct {
		XMLName xml.Name
		Texts   []timedTextElement `xml:"text"`
	}
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse timed text document: %w", err)
	}

	snippets := make([]Snippet, 0, len(doc.Texts))
	for _, el := range doc.Texts {
		if el.Body == "" {
			continue
		}

		start, err := strconv.ParseFloat(el.Start, 64)
		if err != nil {
			return nil, fmt.Errorf("parse start attribute %q: %w", el.Start, err)
		}

		duration := 0.0
		if el.Dur != "" {
			duration, err = strconv.ParseFloat(el.Dur, 64)
			if err != nil {
				return nil, fmt.Errorf("parse dur attribute %q: %w", el.Dur, err)
			}
		}

		snippets = append(snippets, Snippet{
			Text:     p.filterTags(html.UnescapeString(el.Body)),
			Start:    start,
			Duration: duration,
		})
	}

	return snippets, nil
}

// filterTags removes markup from a snippet line. With formatting preservation
// enabled, opening and closing tags of allow-listed inline elements are kept.
func (p timedTextParser) filterTags(s string) string {
	return tagPattern.ReplaceAllStringFunc(s, func(tag string) string {
		if !p.preserveFormatting {
			return ""
		}
		match := tagNamePattern.FindStringSubmatch(tag)
		if match != nil && formattingTags[strings.ToLower(match[1])] {
			return tag
		}
		return ""
	})
}
