// Copyright (c) 2025 Coinly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"os"
	"sync"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"golang.org/x/term"
)

// spinnerFrames matches the braille frames used elsewhere in the CLI.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// startSpinner shows a pterm spinner on w with the cursor hidden until the
// returned stop func runs. Nothing is drawn when w is not a terminal, so piped
// output stays free of escape codes. stop is safe to call more than once.
func startSpinner(w *os.File, text string) func() {
	if !term.IsTerminal(int(w.Fd())) {
		return func() {}
	}
	cursor.SetTarget(w)
	cursor.Hide()
	sp, err := pterm.DefaultSpinner.
		WithWriter(w).
		WithSequence(spinnerFrames...).
		WithRemoveWhenDone(true).
		Start(text)
	if err != nil {
		cursor.Show()
		return func() {}
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			_ = sp.Stop()
			cursor.Show()
		})
	}
}
