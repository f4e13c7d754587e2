// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package prompt builds the text sent to the formatting service for each chunk.
package prompt

import (
	"fmt"
	"strings"

	"github.com/docformat-toolkit/docformat/pkg/model"
)

const (
	// SeparatorWidth is the width of the continuation banner rule.
	SeparatorWidth = 60
	// SectionDivider separates the content section from what precedes it.
	SectionDivider = "---"

	singleHeader       = "# Text to Format:"
	chunkHeader        = "# Text to Format (Part %d of %d):"
	continuationHeader = "# CONTINUATION (Part %d of %d)"
)

// Builder produces formatting prompts.
type Builder interface {
	// BuildPrompt composes the prompt for one piece of content. context may be
	// empty and pos may be nil when the document is not chunked.
	BuildPrompt(instructions, content, context string, pos *model.ChunkPosition) string

	// BuildContinuationHeader returns the banner placed before a non-first
	// chunk's formatted output.
	BuildContinuationHeader(pos model.ChunkPosition) string
}

// Base is the plain section-composing Builder.
type Base struct {
	separatorWidth int
}

// NewBase creates a Base builder.
func NewBase() *Base {
	return &Base{separatorWidth: SeparatorWidth}
}

// BuildPrompt implements Builder.
func (b *Base) BuildPrompt(instructions, content, context string, pos *model.ChunkPosition) string {
	var sections []string

	if context != "" {
		sections = append(sections, section("Context", context))
	}
	if instructions != "" {
		sections = append(sections, section("Instructions", instructions))
	}
	if content != "" {
		sections = append(sections, fmt.Sprintf("%s\n\n%s\n\n%s", SectionDivider, contentHeader(pos), content))
	}

	return strings.Join(sections, "\n\n")
}

// BuildContinuationHeader implements Builder.
func (b *Base) BuildContinuationHeader(pos model.ChunkPosition) string {
	rule := strings.Repeat("=", b.separatorWidth)
	return fmt.Sprintf("\n\n%s\n%s\n%s\n\n", rule, fmt.Sprintf(continuationHeader, pos.Current, pos.Total), rule)
}

func section(title, body string) string {
	return "## " + title + "\n\n" + body
}

func contentHeader(pos *model.ChunkPosition) string {
	if pos == nil || pos.IsSingle() {
		return singleHeader
	}
	return fmt.Sprintf(chunkHeader, pos.Current, pos.Total)
}

// ExtractContent returns the content section of a prompt produced by Base,
// or false when p has none. The content section is always last, so the last
// divider that starts a line wins over any copy of it in the instructions.
func ExtractContent(p string) (string, bool) {
	marker := SectionDivider + "\n\n# Text to Format"
	i := strings.LastIndex(p, "\n"+marker)
	if i >= 0 {
		i++
	} else if strings.HasPrefix(p, marker) {
		i = 0
	} else {
		return "", false
	}
	rest := p[i+len(SectionDivider)+2:]
	nl := strings.Index(rest, "\n\n")
	if nl < 0 {
		return "", false
	}
	return rest[nl+2:], true
}
