// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package output

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

const (
	colorRed   = "\033[91m"
	colorGreen = "\033[92m"
	colorBlue  = "\033[94m"
	colorReset = "\033[0m"

	maxPlainNumber = 999
)

var (
	headerRule  = strings.Repeat("=", 60)
	sectionRule = strings.Repeat("-", 50)
)

// Console writes reports to a terminal.
type Console struct {
	out    io.Writer
	errOut io.Writer
	color  bool
	quiet  bool
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithColor forces color on or off.
func WithColor(enabled bool) ConsoleOption {
	return func(c *Console) {
		c.color = enabled
	}
}

// WithQuiet suppresses progress output and result previews.
func WithQuiet(quiet bool) ConsoleOption {
	return func(c *Console) {
		c.quiet = quiet
	}
}

// NewConsole creates a Console writing to out and errOut. Color defaults to
// on when out is a terminal and NO_COLOR is unset.
func NewConsole(out, errOut io.Writer, opts ...ConsoleOption) *Console {
	c := &Console{
		out:    out,
		errOut: errOut,
		color:  isTerminal(out) && os.Getenv("NO_COLOR") == "",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Progress implements Reporter.
func (c *Console) Progress(message string, details ...Detail) {
	if c.quiet {
		return
	}
	fmt.Fprintf(c.out, "\n%s %s\n", c.prefix("[PROGRESS]", colorBlue), message)
	for _, d := range details {
		fmt.Fprintf(c.out, "  • %s: %s\n", d.Key, FormatValue(d.Value))
	}
}

// Result implements Reporter.
func (c *Console) Result(message, preview string) {
	fmt.Fprintf(c.out, "\n%s\n", headerRule)
	fmt.Fprintf(c.out, "%s %s\n", c.prefix("[SUCCESS]", colorGreen), message)
	if preview != "" && !c.quiet {
		fmt.Fprintln(c.out, sectionRule)
		fmt.Fprintln(c.out, preview)
	}
	fmt.Fprintln(c.out, headerRule)
}

// Error implements Reporter.
func (c *Console) Error(text string) {
	fmt.Fprintf(c.errOut, "\n%s %s\n", c.prefix("[ERROR]", colorRed), text)
}

func (c *Console) prefix(text, color string) string {
	if !c.color {
		return text
	}
	return color + text + colorReset
}

// FormatValue renders a detail value: booleans as Yes/No and integers
// above 999 with thousands separators.
func FormatValue(v any) string {
	switch x := v.(type) {
	case bool:
		if x {
			return "Yes"
		}
		return "No"
	case fmt.Stringer:
		return x.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return formatInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return formatInt(int64(rv.Uint()))
	default:
		return fmt.Sprint(v)
	}
}

func formatInt(n int64) string {
	if n > maxPlainNumber {
		return humanize.Comma(n)
	}
	return fmt.Sprint(n)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
