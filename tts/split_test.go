package tts

import (
	"strings"
	"testing"
)

func TestBuildSplitPrompt(t *testing.T) {
	prompt := BuildSplitPrompt("some long text", 500)

	if !strings.Contains(prompt, "500") {
		t.Error("prompt does not mention the length limit")
	}
	if !strings.Contains(prompt, SplitDelimiter) {
		t.Error("prompt does not mention the delimiter")
	}
	if !strings.Contains(prompt, "some long text") {
		t.Error("prompt does not contain the text to split")
	}
}

func TestParseSplitReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  []string
	}{
		{
			name:  "simple",
			reply: "first|||second|||third",
			want:  []string{"first", "second", "third"},
		},
		{
			name:  "whitespace around pieces",
			reply: "first ||| second\n|||\nthird",
			want:  []string{"first", "second", "third"},
		},
		{
			name:  "empty pieces dropped",
			reply: "|||first||||||second|||",
			want:  []string{"first", "second"},
		},
		{
			name:  "no delimiter",
			reply: "just one passage",
			want:  []string{"just one passage"},
		},
		{
			name:  "blank reply",
			reply: "   ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSplitReply(tt.reply)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("piece %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSpansForPieces(t *testing.T) {
	text := "First sentence. Second sentence. Third sentence."

	spans, err := SpansForPieces(text, []string{
		"First sentence.",
		"Second sentence.",
		"Third sentence.",
	})
	if err != nil {
		t.Fatalf("SpansForPieces: %v", err)
	}
	if len(spans) != 3 {
		t.Fatalf("expected 3 spans, got %d", len(spans))
	}

	want := []string{"First sentence.", "Second sentence.", "Third sentence."}
	for i, span := range spans {
		if got := text[span.Start:span.End]; got != want[i] {
			t.Errorf("span %d maps to %q, want %q", i, got, want[i])
		}
	}
	for i := 1; i < len(spans); i++ {
		if spans[i].Start < spans[i-1].End {
			t.Errorf("span %d overlaps the previous span", i)
		}
	}
}

func TestSpansForPiecesRejectsRewrites(t *testing.T) {
	text := "First sentence. Second sentence."

	tests := []struct {
		name   string
		pieces []string
	}{
		{"rewritten text", []string{"First phrase.", "Second sentence."}},
		{"skipped text", []string{"Second sentence."}},
		{"missing tail", []string{"First sentence."}},
		{"no pieces", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SpansForPieces(text, tt.pieces); err == nil {
				t.Error("expected contract violation error")
			}
		})
	}
}
