// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package prompt

import (
	"fmt"

	"github.com/docformat-toolkit/docformat/pkg/model"
)

const firstPartDirectives = `
## Important Continuity Instructions

This is part 1 of %d of a larger document that was split for processing.

**Your response MUST:**
1. Start formatting at the very first word, with no preamble
2. Establish a consistent style and tone and keep it throughout
3. Stop naturally where the excerpt ends; do NOT write a conclusion or summary
4. Never mention that the text is partial or that more will follow
5. Keep the same formatting patterns from start to finish

**Remember:** your output will be concatenated directly with the following parts.
`

const middlePartDirectives = `
## Important Continuity Instructions

This is part %d of %d of a larger document.

**Your response MUST:**
1. Resume EXACTLY where the previous part stopped
2. Begin mid-sentence if that is where the text begins; do NOT add an introduction
3. Match the style, tone and formatting established in part 1 EXACTLY
4. Stop naturally where the excerpt ends; do NOT write a conclusion
5. Never refer to this text as a continuation or as partial
6. Keep the flow of a single continuous document

**Critical:** your output will be appended directly after the previous part.
`

const lastPartDirectives = `
## Important Continuity Instructions

This is the final part (%d of %d) of a larger document.

**Your response MUST:**
1. Resume EXACTLY where the previous part stopped
2. Begin mid-sentence if that is where the text begins
3. Match the style, tone and formatting of all previous parts EXACTLY
4. Bring the document to its natural, complete conclusion
5. Never mention that the document was processed in parts
6. Make the ending follow naturally from everything before it

**Note:** this part completes the document.
`

// ContinuityInstructions returns the directive block for pos. It is empty for
// a single-chunk document.
func ContinuityInstructions(pos model.ChunkPosition) string {
	switch {
	case pos.IsSingle():
		return ""
	case pos.IsFirst():
		return fmt.Sprintf(firstPartDirectives, pos.Total)
	case pos.IsLast():
		return fmt.Sprintf(lastPartDirectives, pos.Current, pos.Total)
	default:
		return fmt.Sprintf(middlePartDirectives, pos.Current, pos.Total)
	}
}

// Continuity wraps a Builder and augments the instructions of multi-chunk
// prompts with position-specific continuity directives.
type Continuity struct {
	next Builder
}

// NewContinuity decorates next.
func NewContinuity(next Builder) *Continuity {
	return &Continuity{next: next}
}

// BuildPrompt implements Builder.
func (c *Continuity) BuildPrompt(instructions, content, context string, pos *model.ChunkPosition) string {
	if pos != nil && !pos.IsSingle() {
		if directives := ContinuityInstructions(*pos); directives != "" {
			instructions = instructions + "\n" + directives
		}
	}
	return c.next.BuildPrompt(instructions, content, context, pos)
}

// BuildContinuationHeader implements Builder.
func (c *Continuity) BuildContinuationHeader(pos model.ChunkPosition) string {
	return c.next.BuildContinuationHeader(pos)
}
