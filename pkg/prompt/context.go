// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package prompt

import (
	"strings"
)

// ContextPrompt renders cross-run context as a prompt prefix. recent holds
// one summary line per recent session, oldest first. The result is empty when
// there is nothing to say.
func ContextPrompt(conversationSummary, customInstructions string, recent []string) string {
	var parts []string

	if conversationSummary != "" {
		parts = append(parts, "Previous conversation: "+conversationSummary)
	}
	if customInstructions != "" {
		parts = append(parts, "Custom instructions: "+customInstructions)
	}
	if len(recent) > 0 {
		lines := make([]string, 0, len(recent)+1)
		lines = append(lines, "Recent processing:")
		for _, s := range recent {
			lines = append(lines, "  • "+s)
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}

	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n\n") + "\n\n" + SectionDivider + "\n\n"
}
