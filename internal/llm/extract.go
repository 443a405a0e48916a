package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fencedJSONRe = regexp.MustCompile("(?is)```json\\s*(.*?)\\s*```")
	fencedAnyRe  = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
	singleQuotRe = regexp.MustCompile(`'(.*?)'`)
	trailCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractJSON parses a JSON object out of raw model output. Models wrap
// their JSON in prose, markdown fences, single quotes or trailing commas no
// matter how firmly the prompt forbids it, so the extractor tries
// progressively looser readings before giving up:
//
//  1. the text as-is
//  2. the inside of a ```json (or bare ```) fence, with a quote/comma repair retry
//  3. the slice between the first '{' and the last '}'
func ExtractJSON(text string, v interface{}) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("empty model output")
	}

	// Plain JSON
	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}

	// Fenced block
	if m := firstFence(text); m != "" {
		if err := json.Unmarshal([]byte(m), v); err == nil {
			return nil
		}
		fixed := trailCommaRe.ReplaceAllString(singleQuotRe.ReplaceAllString(m, `"$1"`), "$1")
		if err := json.Unmarshal([]byte(fixed), v); err == nil {
			return nil
		}
	}

	// Slice between first { and last }
	s, e := strings.Index(text, "{"), strings.LastIndex(text, "}")
	if s != -1 && e > s {
		if err := json.Unmarshal([]byte(text[s:e+1]), v); err == nil {
			return nil
		}
	}

	return fmt.Errorf("no parseable JSON in model output")
}

func firstFence(text string) string {
	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := fencedAnyRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
