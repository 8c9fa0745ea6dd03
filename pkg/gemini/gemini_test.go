package gemini

import (
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	prompt, err := buildPrompt([]string{"piano", "doomscrolling"}, "ship the compiler")
	if err != nil {
		t.Fatalf("buildPrompt: %v", err)
	}
	for _, want := range []string{
		"ship the compiler",
		`["piano","doomscrolling"]`,
		"Return JSON only",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptEmptyGoals(t *testing.T) {
	prompt, err := buildPrompt([]string{"piano"}, "   ")
	if err != nil {
		t.Fatalf("buildPrompt: %v", err)
	}
	if !strings.Contains(prompt, "Goals context:\nnone") {
		t.Error("empty goals should render as none")
	}
}

func TestParseObject(t *testing.T) {
	tests := []struct {
		text    string
		want    map[string]string
		wantErr bool
	}{
		{text: `{"piano":"peripheral"}`, want: map[string]string{"piano": "peripheral"}},
		{
			text: "Here you go:\n```json\n{\"tv\": \"waste\"}\n```",
			want: map[string]string{"tv": "waste"},
		},
		{text: "sorry, I cannot do that", wantErr: true},
		{text: `["not","an","object"]`, wantErr: true},
	}
	for _, tc := range tests {
		got, err := parseObject(tc.text)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseObject(%q) succeeded with %v", tc.text, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseObject(%q): %v", tc.text, err)
			continue
		}
		for k, v := range tc.want {
			if got[k] != v {
				t.Errorf("parseObject(%q)[%s] = %q, want %q", tc.text, k, got[k], v)
			}
		}
	}
}

func TestIsTransient(t *testing.T) {
	transient := []string{
		"rpc error: 503 service unavailable",
		"Get https://x: context deadline exceeded",
		"HTTP 429: rate limited",
	}
	for _, msg := range transient {
		if !isTransient(errMsg(msg)) {
			t.Errorf("isTransient(%q) = false", msg)
		}
	}
	if isTransient(errMsg("invalid API key")) {
		t.Error("auth failure treated as transient")
	}
}

type errMsg string

func (e errMsg) Error() string { return string(e) }
