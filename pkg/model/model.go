// Package model holds the validated value types shared by the pipeline.
package model

import (
	"fmt"
	"strings"

	"github.com/docformat-toolkit/docformat/pkg/errors"
)

const (
	// DefaultWordLimit is the chunk size used when none is configured.
	DefaultWordLimit = 2000
	// MinWordLimit is the smallest accepted word limit.
	MinWordLimit = 100
	// MaxWordLimit is the largest accepted word limit.
	MaxWordLimit = 10000

	// PreviewLength is the number of characters shown from the output.
	PreviewLength = 300

	// MinSessionIDLength is the minimum session id length and the length of its short form.
	MinSessionIDLength = 8
)

// WordCount is a non-negative number of whitespace-separated words.
type WordCount int

// NewWordCount validates n.
func NewWordCount(n int) (WordCount, error) {
	if n < 0 {
		return 0, errors.InvalidValue("word_count", fmt.Sprintf("word count cannot be negative, got %d", n))
	}
	return WordCount(n), nil
}

// CountWords counts the words of text split on whitespace.
func CountWords(text string) WordCount {
	return WordCount(len(strings.Fields(text)))
}

// WordLimit is the maximum number of words per chunk.
type WordLimit int

// NewWordLimit validates n against [MinWordLimit, MaxWordLimit].
func NewWordLimit(n int) (WordLimit, error) {
	if n < MinWordLimit || n > MaxWordLimit {
		return 0, errors.OutOfRange("word_limit", n, MinWordLimit, MaxWordLimit)
	}
	return WordLimit(n), nil
}

// ChunkPosition identifies a chunk within a document, 1-based.
type ChunkPosition struct {
	Current int
	Total   int
}

// NewChunkPosition validates 1 <= current <= total.
func NewChunkPosition(current, total int) (ChunkPosition, error) {
	if total < 1 {
		return ChunkPosition{}, errors.InvalidValue("total", fmt.Sprintf("total chunks must be at least 1, got %d", total))
	}
	if current < 1 || current > total {
		return ChunkPosition{}, errors.OutOfRange("current", current, 1, total)
	}
	return ChunkPosition{Current: current, Total: total}, nil
}

// IsFirst reports whether this is the first chunk.
func (p ChunkPosition) IsFirst() bool { return p.Current == 1 }

// IsLast reports whether this is the last chunk.
func (p ChunkPosition) IsLast() bool { return p.Current == p.Total }

// IsSingle reports whether the document fits in one chunk.
func (p ChunkPosition) IsSingle() bool { return p.Total == 1 }

// NeedsContinuationHeader reports whether output for this chunk gets a continuation banner.
func (p ChunkPosition) NeedsContinuationHeader() bool {
	return !p.IsFirst() && !p.IsSingle()
}

func (p ChunkPosition) String() string {
	return fmt.Sprintf("%d/%d", p.Current, p.Total)
}

// Document is an immutable input text.
type Document struct {
	content   string
	wordCount WordCount
	source    string
}

// NewDocument creates a document. Blank content is rejected.
func NewDocument(content, source string) (*Document, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.EmptyContent("Document content")
	}
	return &Document{
		content:   content,
		wordCount: CountWords(content),
		source:    source,
	}, nil
}

// Content returns the document text.
func (d *Document) Content() string { return d.content }

// WordCount returns the number of words in the document.
func (d *Document) WordCount() WordCount { return d.wordCount }

// Source returns the file the document was read from, or "".
func (d *Document) Source() string { return d.source }

// RequiresChunking reports whether the document exceeds limit.
func (d *Document) RequiresChunking(limit WordLimit) bool {
	return int(d.wordCount) > int(limit)
}

// FilePath is a syntactically valid file path.
type FilePath string

// NewFilePath validates p.
func NewFilePath(p string) (FilePath, error) {
	if strings.TrimSpace(p) == "" {
		return "", errors.MalformedPath(p, "path cannot be empty")
	}
	if strings.ContainsRune(p, 0) {
		return "", errors.MalformedPath(p, "path contains NUL byte")
	}
	return FilePath(p), nil
}

func (p FilePath) String() string { return string(p) }

// SessionID is an opaque session identifier.
type SessionID string

// NewSessionID validates v.
func NewSessionID(v string) (SessionID, error) {
	if v == "" {
		return "", errors.InvalidValue("session_id", "session id cannot be empty")
	}
	if len(v) < MinSessionIDLength {
		return "", errors.InvalidValue("session_id", "session id too short")
	}
	return SessionID(v), nil
}

// Short returns the abbreviated form used in listings.
func (id SessionID) Short() string {
	if len(id) <= MinSessionIDLength {
		return string(id)
	}
	return string(id[:MinSessionIDLength]) + "..."
}

func (id SessionID) String() string { return string(id) }

// Result is the outcome of a formatting run.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Preview string `json:"preview,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SuccessResult builds a successful result.
func SuccessResult(message, preview string) *Result {
	return &Result{Success: true, Message: message, Preview: preview}
}

// FailureResult builds a failed result from err.
func FailureResult(err error) *Result {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return &Result{Success: false, Message: msg, Error: msg}
}

// Preview returns at most PreviewLength characters of text, with "..." appended when truncated.
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= PreviewLength {
		return text
	}
	return string(runes[:PreviewLength]) + "..."
}
