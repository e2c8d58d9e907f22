package formats

import (
	"strings"

	"github.com/mosaicviz/mosaic/pkg/errors"
)

// contentKeys are tried in order when looking for document text in a JSON
// object.
var contentKeys = []string{"content", "markdown", "text", "body", "doc"}

// NormalizeDoc converts a raw agent response into a document payload.
//
// JSON objects are searched for a content field (content/markdown/text/
// body/doc), unwrapping envelopes as needed; a bare JSON string is its own
// content. Anything else is passed through as plain text. NormalizeDoc
// fails only when the input is empty or whitespace.
func NormalizeDoc(raw []byte) (*DocPayload, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return nil, errors.New(errors.ErrCodeInvalidPayload, "response is empty")
	}

	if v, ok := decodeLoose(raw); ok {
		if p, ok := docFromValue(v, 0); ok {
			return p, nil
		}
	}

	return &DocPayload{Content: text}, nil
}

func docFromValue(v any, depth int) (*DocPayload, bool) {
	switch val := v.(type) {
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, false
		}
		return &DocPayload{Content: val}, true
	case map[string]any:
		for _, key := range contentKeys {
			if content, ok := asString(val[key]); ok && strings.TrimSpace(content) != "" {
				p := &DocPayload{Content: content}
				p.Title, _ = asString(val["title"])
				return p, true
			}
		}
		if depth < maxEnvelopeDepth {
			if inner, ok := unwrap(val); ok {
				if p, ok := docFromValue(inner, depth+1); ok {
					if p.Title == "" {
						p.Title, _ = asString(val["title"])
					}
					return p, true
				}
			}
		}
	}
	return nil, false
}
