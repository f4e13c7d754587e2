// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package observability

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Metrics collects in-process counters and timings for one run.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	mu       sync.Mutex
	counters map[string]int64
	timings  map[string]*TimingStats
}

// TimingStats aggregates the durations recorded under one name.
type TimingStats struct {
	Count int64         `json:"count"`
	Total time.Duration `json:"total"`
	Min   time.Duration `json:"min"`
	Max   time.Duration `json:"max"`
}

// Average returns the mean duration, or zero with no samples.
func (s TimingStats) Average() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	Counters map[string]int64       `json:"counters"`
	Timings  map[string]TimingStats `json:"timings"`
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		counters: make(map[string]int64),
		timings:  make(map[string]*TimingStats),
	}
}

// Inc adds one to the named counter.
func (m *Metrics) Inc(name string) {
	m.Add(name, 1)
}

// Add adds n to the named counter.
func (m *Metrics) Add(name string, n int64) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name] += n
}

// Counter returns the current value of the named counter.
func (m *Metrics) Counter(name string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[name]
}

// Timing records one duration sample under name.
func (m *Metrics) Timing(name string, d time.Duration) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.timings[name]
	if !ok {
		s = &TimingStats{Min: d, Max: d}
		m.timings[name] = s
	}
	s.Count++
	s.Total += d
	s.Min = min(s.Min, d)
	s.Max = max(s.Max, d)
}

// Time starts a timer; calling the returned func records the elapsed time.
func (m *Metrics) Time(name string) func() {
	start := time.Now()
	return func() {
		m.Timing(name, time.Since(start))
	}
}

// AverageDuration returns the mean of the samples recorded under name.
func (m *Metrics) AverageDuration(name string) time.Duration {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.timings[name]; ok {
		return s.Average()
	}
	return 0
}

// Snapshot copies the current state.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{
		Counters: make(map[string]int64),
		Timings:  make(map[string]TimingStats),
	}
	if m == nil {
		return snap
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.counters {
		snap.Counters[k] = v
	}
	for k, v := range m.timings {
		snap.Timings[k] = *v
	}
	return snap
}

// LogValue renders the snapshot as a slog group, names sorted.
func (s Snapshot) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(s.Counters)+len(s.Timings))
	for _, k := range sortedKeys(s.Counters) {
		attrs = append(attrs, slog.Int64(k, s.Counters[k]))
	}
	for _, k := range sortedKeys(s.Timings) {
		t := s.Timings[k]
		attrs = append(attrs, slog.Group(k,
			slog.Int64("count", t.Count),
			slog.Duration("avg", t.Average()),
			slog.Duration("max", t.Max),
		))
	}
	return slog.GroupValue(attrs...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
