// Package render converts raw message content (a Markdown dialect) into
// sanitized display HTML and scans content for the derived index tokens:
// #hashtags and @-mentions. It is a pure library: no logging, no storage,
// deterministic output for a given input.
package render

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// markdown is a stock CommonMark renderer. Raw HTML in the source is
	// left to the sanitizer rather than being escaped twice.
	markdown = goldmark.New()

	// policy allows the usual user-generated-content subset and strips
	// everything else (scripts, event handlers, style).
	policy = bluemonday.UGCPolicy()

	hashtagRE = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)
	mentionRE = regexp.MustCompile(`@([\p{L}\p{N}_]+)`)

	// tagCaser folds hashtag keys locale-independently so #Gopher and
	// #gopher land in the same index entry.
	tagCaser = cases.Lower(language.Und)
)

// HTML renders raw Markdown content to sanitized HTML.
func HTML(raw string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(raw), &buf); err != nil {
		return "", err
	}
	return policy.Sanitize(buf.String()), nil
}

// HTMLWithMention renders raw content and reports whether the rendered
// output still contains mentionedUser. The scan is a bounds-safe substring
// check: an empty mentionedUser never matches, and short content yields
// no-match rather than an error.
func HTMLWithMention(raw, mentionedUser string) (string, bool, error) {
	html, err := HTML(raw)
	if err != nil {
		return "", false, err
	}
	if mentionedUser == "" {
		return html, false, nil
	}
	return html, strings.Contains(html, mentionedUser), nil
}

// Hashtags returns the distinct hashtag keys found in raw content, case
// folded, in first-occurrence order. "#" itself is not part of the key.
func Hashtags(raw string) []string {
	return scan(hashtagRE, raw, true)
}

// Mentions returns the distinct usernames @-mentioned in raw content, in
// first-occurrence order. Mention keys keep their case: usernames are
// case-sensitive.
func Mentions(raw string) []string {
	return scan(mentionRE, raw, false)
}

// MentionedUser returns the first @-mentioned username in raw content,
// or "" when there is none.
func MentionedUser(raw string) string {
	if m := mentionRE.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return ""
}

func scan(re *regexp.Regexp, raw string, fold bool) []string {
	matches := re.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		key := m[1]
		if fold {
			key = tagCaser.String(key)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
