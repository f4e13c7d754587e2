// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package output reports run progress and results to the user.
package output

import (
	"sync"
)

// Reporter receives user-facing progress, results and errors.
type Reporter interface {
	// Progress reports a step with optional ordered details.
	Progress(message string, details ...Detail)
	// Result reports the final outcome with an optional preview.
	Result(message, preview string)
	// Error reports a failure.
	Error(text string)
}

// Detail is one key/value line under a progress message.
type Detail struct {
	Key   string
	Value any
}

// D builds a Detail.
func D(key string, value any) Detail {
	return Detail{Key: key, Value: value}
}

// Discard is a Reporter that drops everything.
type Discard struct{}

func (Discard) Progress(string, ...Detail) {}
func (Discard) Result(string, string)      {}
func (Discard) Error(string)               {}

// EventKind identifies a recorded call.
type EventKind string

const (
	EventProgress EventKind = "progress"
	EventResult   EventKind = "result"
	EventError    EventKind = "error"
)

// Event is one call captured by a Recorder.
type Event struct {
	Kind    EventKind
	Message string
	Details []Detail
	Preview string
}

// Detail returns the value recorded under key and whether it was present.
func (e Event) Detail(key string) (any, bool) {
	for _, d := range e.Details {
		if d.Key == key {
			return d.Value, true
		}
	}
	return nil, false
}

// Recorder captures every call for later inspection.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Progress implements Reporter.
func (r *Recorder) Progress(message string, details ...Detail) {
	r.record(Event{Kind: EventProgress, Message: message, Details: append([]Detail(nil), details...)})
}

// Result implements Reporter.
func (r *Recorder) Result(message, preview string) {
	r.record(Event{Kind: EventResult, Message: message, Preview: preview})
}

// Error implements Reporter.
func (r *Recorder) Error(text string) {
	r.record(Event{Kind: EventError, Message: text})
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Messages returns the messages of events of the given kind, in order.
func (r *Recorder) Messages(kind EventKind) []string {
	var out []string
	for _, e := range r.Events() {
		if e.Kind == kind {
			out = append(out, e.Message)
		}
	}
	return out
}

// Find returns the first event of kind with the given message.
func (r *Recorder) Find(kind EventKind, message string) (Event, bool) {
	for _, e := range r.Events() {
		if e.Kind == kind && e.Message == message {
			return e, true
		}
	}
	return Event{}, false
}
