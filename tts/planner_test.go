package tts

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubSegmenter struct {
	spans []Span
	err   error
	calls int
}

func (s *stubSegmenter) Split(context.Context, string, int) ([]Span, error) {
	s.calls++
	return s.spans, s.err
}

func TestPlanEmptyInput(t *testing.T) {
	seg := &stubSegmenter{}

	for _, input := range []string{"", "   ", "\n\t  \n"} {
		_, err := plan(context.Background(), input, 500, seg)
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("plan(%q): expected ErrEmptyInput, got %v", input, err)
		}
	}
	if seg.calls != 0 {
		t.Errorf("segmenter called %d times for empty input", seg.calls)
	}
}

func TestPlanDirectMode(t *testing.T) {
	seg := &stubSegmenter{err: errors.New("should not be called")}

	segments, err := plan(context.Background(), "  Hello, world.  ", 500, seg)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if segments[0].Text != "Hello, world." {
		t.Errorf("expected trimmed text, got %q", segments[0].Text)
	}
	if segments[0].Index != 0 {
		t.Errorf("expected index 0, got %d", segments[0].Index)
	}
	if seg.calls != 0 {
		t.Errorf("segmenter called %d times in direct mode", seg.calls)
	}
}

func TestPlanDirectModeCountsRunes(t *testing.T) {
	// 10 runes, 30 bytes. A byte-based length check would split this.
	text := strings.Repeat("中", 10)
	seg := &stubSegmenter{err: errors.New("should not be called")}

	segments, err := plan(context.Background(), text, 10, seg)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(segments) != 1 {
		t.Errorf("expected direct mode at exactly maxLen runes, got %d segments", len(segments))
	}
	if seg.calls != 0 {
		t.Errorf("segmenter called %d times at the boundary", seg.calls)
	}
}

func TestPlanSegmented(t *testing.T) {
	text := "first part here. second part there."
	seg := &stubSegmenter{spans: []Span{{Start: 0, End: 16}, {Start: 17, End: 35}}}

	segments, err := plan(context.Background(), text, 20, seg)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if seg.calls != 1 {
		t.Fatalf("expected 1 segmenter call, got %d", seg.calls)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}

	want := []string{"first part here.", "second part there."}
	for i, s := range segments {
		if s.Index != i {
			t.Errorf("segment %d has index %d", i, s.Index)
		}
		if s.Text != want[i] {
			t.Errorf("segment %d: got %q, want %q", i, s.Text, want[i])
		}
		if s.Status() != StatusPending {
			t.Errorf("segment %d: expected pending status, got %s", i, s.Status())
		}
	}
}

func TestPlanSegmenterError(t *testing.T) {
	cause := errors.New("model unavailable")
	seg := &stubSegmenter{err: cause}

	_, err := plan(context.Background(), strings.Repeat("word ", 10), 20, seg)
	var convErr *Error
	if !errors.As(err, &convErr) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if convErr.Stage != StageSegmentation {
		t.Errorf("expected segmentation stage, got %s", convErr.Stage)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected wrapped cause, got %v", err)
	}
}

func TestValidateSpans(t *testing.T) {
	text := "one two three four"

	tests := []struct {
		name    string
		spans   []Span
		want    []string
		wantErr bool
	}{
		{
			name:  "full coverage",
			spans: []Span{{0, 7}, {8, 18}},
			want:  []string{"one two", "three four"},
		},
		{
			name:  "single span",
			spans: []Span{{0, 18}},
			want:  []string{"one two three four"},
		},
		{
			name:  "whitespace slices coalesced",
			spans: []Span{{0, 3}, {3, 4}, {4, 18}},
			want:  []string{"one", "two three four"},
		},
		{
			name:    "no spans",
			spans:   nil,
			wantErr: true,
		},
		{
			name:    "end out of bounds",
			spans:   []Span{{0, 99}},
			wantErr: true,
		},
		{
			name:    "negative start",
			spans:   []Span{{-1, 7}},
			wantErr: true,
		},
		{
			name:    "inverted span",
			spans:   []Span{{7, 3}},
			wantErr: true,
		},
		{
			name:    "not monotonic",
			spans:   []Span{{8, 18}, {0, 7}},
			wantErr: true,
		},
		{
			name:    "overlapping",
			spans:   []Span{{0, 10}, {5, 18}},
			wantErr: true,
		},
		{
			name:    "drops interior text",
			spans:   []Span{{0, 3}, {8, 18}},
			wantErr: true,
		},
		{
			name:    "drops tail",
			spans:   []Span{{0, 7}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validateSpans(text, tt.spans)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d texts, want %d: %v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("text %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSegmentStatusString(t *testing.T) {
	statuses := map[SegmentStatus]string{
		StatusPending:   "pending",
		StatusInFlight:  "in-flight",
		StatusRetrying:  "retrying",
		StatusCompleted: "completed",
		StatusFailed:    "failed",
	}
	for status, want := range statuses {
		if got := status.String(); got != want {
			t.Errorf("status %d: got %q, want %q", status, got, want)
		}
	}
}
