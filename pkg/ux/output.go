// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ux

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	luxlog "github.com/luxfi/log"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type UserLog struct {
	log    luxlog.Logger
	writer io.Writer
	colors bool
}

// NewUserLogger returns a logger printing user facing messages to
// [userwriter]. Colors are used only when it is a terminal.
func NewUserLogger(log luxlog.Logger, userwriter io.Writer) *UserLog {
	return &UserLog{
		log:    log,
		writer: userwriter,
		colors: IsTerminal(userwriter),
	}
}

// IsTerminal reports whether [w] is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

func (ul *UserLog) Writer() io.Writer {
	return ul.writer
}

func (ul *UserLog) IsTerminal() bool {
	return ul.colors
}

func (ul *UserLog) paint(attr color.Attribute, s string) string {
	if !ul.colors {
		return s
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(s)
}

// PrintToUser prints msg directly to the user writer.
// Does NOT log to avoid duplication
func (ul *UserLog) PrintToUser(msg string, args ...interface{}) {
	formattedMsg := fmt.Sprintf(msg, args...)
	_, _ = fmt.Fprintln(ul.writer, formattedMsg)
}

// RedXToUser prints a red X error message to the user
func (ul *UserLog) RedXToUser(msg string, args ...interface{}) {
	formattedMsg := fmt.Sprintf(msg, args...)
	_, _ = fmt.Fprintln(ul.writer, ul.paint(color.FgRed, "✗ ")+formattedMsg)
	ul.log.Error(formattedMsg)
}

// GreenCheckmarkToUser prints a green checkmark success message to the user
func (ul *UserLog) GreenCheckmarkToUser(msg string, args ...interface{}) {
	formattedMsg := fmt.Sprintf(msg, args...)
	_, _ = fmt.Fprintln(ul.writer, ul.paint(color.FgGreen, "✓ ")+formattedMsg)
	ul.log.Info(formattedMsg)
}

// PrintWarning prints a yellow warning line
func (ul *UserLog) PrintWarning(msg string, args ...interface{}) {
	formattedMsg := fmt.Sprintf(msg, args...)
	_, _ = fmt.Fprintln(ul.writer, ul.paint(color.FgYellow, "Warning: ")+formattedMsg)
	ul.log.Warn(formattedMsg)
}

// StepTracker tracks progress of multi-step operations with elapsed time
type StepTracker struct {
	stepStart    time.Time
	warnAfter    time.Duration
	warningShown bool
	stepName     string
	ul           *UserLog
}

// NewStepTracker creates a tracker that warns if a step takes longer than warnAfter
func NewStepTracker(ul *UserLog, warnAfter time.Duration) *StepTracker {
	return &StepTracker{
		ul:        ul,
		warnAfter: warnAfter,
	}
}

// Start begins tracking a new step
func (st *StepTracker) Start(stepName string) {
	st.stepStart = time.Now()
	st.stepName = stepName
	st.warningShown = false
	st.ul.PrintToUser("%s...", stepName)
}

func (st *StepTracker) Elapsed() time.Duration {
	return time.Since(st.stepStart)
}

// CheckWarn prints a warning if the step has taken longer than the threshold.
// Returns true if the warning was printed
func (st *StepTracker) CheckWarn() bool {
	if st.warningShown {
		return false
	}
	elapsed := st.Elapsed()
	if elapsed > st.warnAfter {
		st.ul.PrintWarning("%s taking longer than expected (%.1fs)...", st.stepName, elapsed.Seconds())
		st.warningShown = true
		return true
	}
	return false
}

// Complete marks the step as done with success
func (st *StepTracker) Complete(suffix string) {
	elapsed := st.Elapsed()
	if suffix != "" {
		st.ul.GreenCheckmarkToUser("%s (%.1fs) - %s", st.stepName, elapsed.Seconds(), suffix)
	} else {
		st.ul.GreenCheckmarkToUser("%s (%.1fs)", st.stepName, elapsed.Seconds())
	}
}

// Failed marks the step as failed. An empty reason prints the marker only.
func (st *StepTracker) Failed(reason string) {
	elapsed := st.Elapsed()
	if reason == "" {
		st.ul.RedXToUser("%s (%.1fs) - FAILED", st.stepName, elapsed.Seconds())
		return
	}
	st.ul.RedXToUser("%s (%.1fs) - FAILED: %s", st.stepName, elapsed.Seconds(), reason)
}

func ConvertToStringWithThousandSeparator(input uint64) string {
	p := message.NewPrinter(language.English)
	s := p.Sprintf("%d", input)
	return strings.ReplaceAll(s, ",", "_")
}
