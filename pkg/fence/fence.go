// Package fence extracts machine-readable JSON from free-form model output.
//
// Models are asked to answer with a fenced ```json block, but in practice
// responses mix prose, partial fences and bare objects. The helpers here
// implement the fallback ladder used by every pipeline: json fence, generic
// fence, raw text, then anchored scans for a trailing or key-bearing object.
package fence

import (
	"encoding/json"
	"maps"
	"regexp"
	"strings"
)

// Block returns the body of the first fenced code block. A ```json fence is
// preferred; otherwise the first generic ``` fence is used. The second value
// is false when the text contains no complete fence.
func Block(text string) (string, bool) {
	if body, ok := between(text, "```json"); ok {
		return body, true
	}
	return between(text, "```")
}

func between(text, open string) (string, bool) {
	start := strings.Index(text, open)
	if start < 0 {
		return "", false
	}
	rest := text[start+len(open):]
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// Object parses the first fenced JSON object in text. When no fence is
// present the whole text is tried as raw JSON.
func Object(text string) (map[string]any, bool) {
	body, ok := Block(text)
	if !ok {
		body = strings.TrimSpace(text)
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return nil, false
	}
	return out, true
}

// ObjectOr parses like Object and shallow-merges the result over defaults,
// so every expected key is present even when the model omits some. The
// defaults map is never mutated. Unparseable text returns a copy of defaults.
func ObjectOr(text string, defaults map[string]any) map[string]any {
	out := maps.Clone(defaults)
	if out == nil {
		out = map[string]any{}
	}
	parsed, ok := Object(text)
	if !ok {
		return out
	}
	for k, v := range parsed {
		out[k] = v
	}
	return out
}

// LastObject scans backwards for the last '{' ... '}' span and parses it.
// Useful when the model appends a summary object after unfenced prose.
func LastObject(text string) (map[string]any, bool) {
	start := strings.LastIndex(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, false
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &out); err != nil {
		return nil, false
	}
	return out, true
}

// ObjectWithKey finds the first flat JSON object containing the given key.
// Only non-nested objects are matched.
func ObjectWithKey(text, key string) (map[string]any, bool) {
	re, err := regexp.Compile(`\{[^{}]*"` + regexp.QuoteMeta(key) + `"[^{}]*\}`)
	if err != nil {
		return nil, false
	}
	match := re.FindString(text)
	if match == "" {
		return nil, false
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(match), &out); err != nil {
		return nil, false
	}
	return out, true
}
