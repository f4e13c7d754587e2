// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package runner

// State represents the stage a formatting run has reached.
type State int

const (
	StateIdle State = iota
	StateLoadingInputs
	StateChunking
	StateProcessingChunks
	StateFinalizing
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoadingInputs:
		return "loading_inputs"
	case StateChunking:
		return "chunking"
	case StateProcessingChunks:
		return "processing_chunks"
	case StateFinalizing:
		return "finalizing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions follow s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
