package render

import (
	"strings"
	"testing"
)

func TestHTML_RendersMarkdown(t *testing.T) {
	html, err := HTML("hello **world**")
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.Contains(html, "<strong>world</strong>") {
		t.Fatalf("markdown not rendered: %q", html)
	}
}

func TestHTML_StripsScripts(t *testing.T) {
	html, err := HTML(`hi <script>alert("x")</script> there`)
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if strings.Contains(html, "<script") || strings.Contains(html, "alert") {
		t.Fatalf("script survived sanitization: %q", html)
	}
}

func TestHTMLWithMention_Found(t *testing.T) {
	_, found, err := HTMLWithMention("ping @alice about the plan", "alice")
	if err != nil {
		t.Fatalf("HTMLWithMention: %v", err)
	}
	if !found {
		t.Fatalf("expected mention of alice to be flagged")
	}
}

func TestHTMLWithMention_ShortContentNoMatch(t *testing.T) {
	// Content shorter than the username must read as no-match, never a
	// bounds failure.
	html, found, err := HTMLWithMention("hi", "someverylongusername")
	if err != nil {
		t.Fatalf("HTMLWithMention: %v", err)
	}
	if found {
		t.Fatalf("unexpected match in %q", html)
	}
}

func TestHTMLWithMention_EmptyUserNeverMatches(t *testing.T) {
	_, found, err := HTMLWithMention("anything at all", "")
	if err != nil {
		t.Fatalf("HTMLWithMention: %v", err)
	}
	if found {
		t.Fatalf("empty mentioned user must not match")
	}
}

func TestHashtags_DedupAndFold(t *testing.T) {
	got := Hashtags("try #Gopher and #gopher plus #go_1 again #go_1")
	want := []string{"gopher", "go_1"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestHashtags_None(t *testing.T) {
	if got := Hashtags("no tags here"); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestMentions_CaseSensitiveKeys(t *testing.T) {
	got := Mentions("cc @Alice and @alice")
	if len(got) != 2 || got[0] != "Alice" || got[1] != "alice" {
		t.Fatalf("unexpected mentions: %v", got)
	}
}

func TestMentionedUser_FirstOrEmpty(t *testing.T) {
	if got := MentionedUser("hey @bob and @carol"); got != "bob" {
		t.Fatalf("expected bob, got %q", got)
	}
	if got := MentionedUser("nobody here"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
