package model_test

import (
	"strings"
	"testing"

	"github.com/docformat-toolkit/docformat/pkg/errors"
	"github.com/docformat-toolkit/docformat/pkg/model"
)

func TestNewWordLimit(t *testing.T) {
	tests := []struct {
		n       int
		wantErr bool
	}{
		{99, true},
		{100, false},
		{2000, false},
		{10000, false},
		{10001, true},
		{-1, true},
	}

	for _, tt := range tests {
		_, err := model.NewWordLimit(tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewWordLimit(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
		if err != nil && !errors.IsKind(err, errors.KindOutOfRange) {
			t.Errorf("NewWordLimit(%d) kind = %v, want out_of_range", tt.n, err)
		}
	}
}

func TestNewChunkPosition(t *testing.T) {
	tests := []struct {
		name           string
		current, total int
		wantErr        bool
	}{
		{"single", 1, 1, false},
		{"first of many", 1, 3, false},
		{"last of many", 3, 3, false},
		{"current zero", 0, 3, true},
		{"current past total", 4, 3, true},
		{"total zero", 1, 0, true},
		{"negative total", -1, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.NewChunkPosition(tt.current, tt.total)
			if (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestChunkPositionPredicates(t *testing.T) {
	tests := []struct {
		current, total                    int
		first, last, single, continuation bool
	}{
		{1, 1, true, true, true, false},
		{1, 3, true, false, false, false},
		{2, 3, false, false, false, true},
		{3, 3, false, true, false, true},
	}

	for _, tt := range tests {
		p, err := model.NewChunkPosition(tt.current, tt.total)
		if err != nil {
			t.Fatalf("NewChunkPosition(%d, %d): %v", tt.current, tt.total, err)
		}
		if p.IsFirst() != tt.first || p.IsLast() != tt.last || p.IsSingle() != tt.single ||
			p.NeedsContinuationHeader() != tt.continuation {
			t.Errorf("%s: first=%v last=%v single=%v continuation=%v", p,
				p.IsFirst(), p.IsLast(), p.IsSingle(), p.NeedsContinuationHeader())
		}
	}
}

func TestNewDocument(t *testing.T) {
	doc, err := model.NewDocument("one two\n\tthree  four", "message.md")
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}
	if doc.WordCount() != 4 {
		t.Errorf("WordCount = %d, want 4", doc.WordCount())
	}
	if doc.Source() != "message.md" {
		t.Errorf("Source = %q", doc.Source())
	}
	if !doc.RequiresChunking(3) || doc.RequiresChunking(4) {
		t.Error("RequiresChunking is not strict greater-than")
	}

	for _, blank := range []string{"", "   ", "\n\t"} {
		if _, err := model.NewDocument(blank, ""); !errors.IsKind(err, errors.KindEmptyContent) {
			t.Errorf("NewDocument(%q) error = %v, want empty_content", blank, err)
		}
	}
}

func TestSessionID(t *testing.T) {
	if _, err := model.NewSessionID(""); err == nil {
		t.Error("expected error for empty id")
	}
	if _, err := model.NewSessionID("abc"); err == nil {
		t.Error("expected error for short id")
	}
	id, err := model.NewSessionID("0190a3b4-7c1d-7e2f")
	if err != nil {
		t.Fatalf("NewSessionID: %v", err)
	}
	if id.Short() != "0190a3b4..." {
		t.Errorf("Short() = %q", id.Short())
	}
}

func TestNewFilePath(t *testing.T) {
	if _, err := model.NewFilePath(" "); !errors.IsKind(err, errors.KindMalformedPath) {
		t.Errorf("blank path error = %v", err)
	}
	if _, err := model.NewFilePath("a\x00b"); !errors.IsKind(err, errors.KindMalformedPath) {
		t.Errorf("NUL path error = %v", err)
	}
	if p, err := model.NewFilePath("data/output.md"); err != nil || p.String() != "data/output.md" {
		t.Errorf("NewFilePath = %q, %v", p, err)
	}
}

func TestPreview(t *testing.T) {
	short := "hello"
	if got := model.Preview(short); got != short {
		t.Errorf("Preview(short) = %q", got)
	}

	long := strings.Repeat("é", 301)
	got := model.Preview(long)
	if !strings.HasSuffix(got, "...") {
		t.Error("expected ellipsis")
	}
	if n := len([]rune(strings.TrimSuffix(got, "..."))); n != 300 {
		t.Errorf("preview has %d runes, want 300", n)
	}

	exact := strings.Repeat("a", 300)
	if got := model.Preview(exact); got != exact {
		t.Error("300 character text should not be truncated")
	}
}

func TestFailureResult(t *testing.T) {
	r := model.FailureResult(errors.EmptyContent("Formatting prompt"))
	if r.Success {
		t.Error("expected failure")
	}
	if !strings.Contains(r.Message, "Formatting prompt cannot be empty") {
		t.Errorf("Message = %q", r.Message)
	}
}
