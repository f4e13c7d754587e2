// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package chunk

import (
	"github.com/docformat-toolkit/docformat/pkg/model"
)

// planPreviewLength bounds the excerpt stored for each planned chunk.
const planPreviewLength = 80

// Plan describes how a document would be split, without formatting it.
type Plan struct {
	Strategy   string      `json:"strategy"`
	TotalWords int         `json:"total_words"`
	WordLimit  int         `json:"word_limit"`
	Chunks     []PlanEntry `json:"chunks"`
}

// PlanEntry is one chunk of a Plan.
type PlanEntry struct {
	Index   int    `json:"index"`
	Words   int    `json:"words"`
	Excerpt string `json:"excerpt"`
}

// NewPlan splits doc with s and summarises the result.
func NewPlan(s Strategy, doc *model.Document, limit model.WordLimit) *Plan {
	chunks := s.Chunk(doc, limit)
	p := &Plan{
		Strategy:   s.Name(),
		TotalWords: int(doc.WordCount()),
		WordLimit:  int(limit),
		Chunks:     make([]PlanEntry, 0, len(chunks)),
	}
	for i, c := range chunks {
		p.Chunks = append(p.Chunks, PlanEntry{
			Index:   i + 1,
			Words:   int(model.CountWords(c)),
			Excerpt: excerpt(c),
		})
	}
	return p
}

func excerpt(s string) string {
	r := []rune(s)
	if len(r) <= planPreviewLength {
		return s
	}
	return string(r[:planPreviewLength]) + "..."
}
