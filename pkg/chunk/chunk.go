// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package chunk splits documents into word-bounded chunks.
package chunk

import (
	"fmt"
	"strings"

	"github.com/docformat-toolkit/docformat/pkg/errors"
	"github.com/docformat-toolkit/docformat/pkg/model"
)

// Strategy names accepted by New.
const (
	StrategyEven     = "even"
	StrategySentence = "sentence"
)

// Strategy decides how a document is split.
//
// Every implementation returns the document content verbatim as a single
// chunk when it fits in the limit, and len(Chunk(d, l)) == ChunksNeeded(d, l).
type Strategy interface {
	Name() string
	ChunksNeeded(doc *model.Document, limit model.WordLimit) int
	Chunk(doc *model.Document, limit model.WordLimit) []string
}

// New returns the strategy registered under name.
func New(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyEven:
		return EvenDistribution{}, nil
	case StrategySentence:
		return SentenceBoundary{}, nil
	default:
		return nil, errors.InvalidValue("strategy",
			fmt.Sprintf("unknown chunking strategy %q (want %s or %s)", name, StrategyEven, StrategySentence))
	}
}

// Names lists the available strategies.
func Names() []string {
	return []string{StrategyEven, StrategySentence}
}

// EvenDistribution spreads words evenly over ceil(words/limit) chunks.
// Chunks are rejoined with single spaces, so original whitespace is not kept.
type EvenDistribution struct{}

// Name implements Strategy.
func (EvenDistribution) Name() string { return StrategyEven }

// ChunksNeeded implements Strategy.
func (EvenDistribution) ChunksNeeded(doc *model.Document, limit model.WordLimit) int {
	wc, l := int(doc.WordCount()), int(limit)
	if wc <= l {
		return 1
	}
	return ceilDiv(wc, l)
}

// Chunk implements Strategy.
func (e EvenDistribution) Chunk(doc *model.Document, limit model.WordLimit) []string {
	if !doc.RequiresChunking(limit) {
		return []string{doc.Content()}
	}

	words := strings.Fields(doc.Content())
	perChunk := ceilDiv(len(words), e.ChunksNeeded(doc, limit))

	chunks := make([]string, 0, e.ChunksNeeded(doc, limit))
	for i := 0; i < len(words); i += perChunk {
		end := i + perChunk
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}

// SentenceBoundary packs whole sentences into chunks of at most limit words.
// A sentence longer than the limit becomes its own oversized chunk.
type SentenceBoundary struct{}

// Name implements Strategy.
func (SentenceBoundary) Name() string { return StrategySentence }

// ChunksNeeded implements Strategy.
func (s SentenceBoundary) ChunksNeeded(doc *model.Document, limit model.WordLimit) int {
	return len(s.Chunk(doc, limit))
}

// Chunk implements Strategy.
func (SentenceBoundary) Chunk(doc *model.Document, limit model.WordLimit) []string {
	if !doc.RequiresChunking(limit) {
		return []string{doc.Content()}
	}

	var (
		chunks  []string
		current []string
		count   int
	)
	for _, sentence := range SplitSentences(doc.Content()) {
		n := int(model.CountWords(sentence))
		if count+n > int(limit) && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current, count = nil, 0
		}
		current = append(current, sentence)
		count += n
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	if len(chunks) == 0 {
		return []string{doc.Content()}
	}
	return chunks
}

// SplitSentences splits text after '.', '!' or '?' when followed by whitespace.
// The terminating punctuation stays with its sentence and the separating
// whitespace is dropped.
func SplitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) || i+1 >= len(runes) || !isSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}
		j := i + 1
		for j < len(runes) && isSpace(runes[j]) {
			j++
		}
		start = j
		i = j - 1
	}

	if start < len(runes) {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
