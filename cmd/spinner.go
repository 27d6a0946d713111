package cmd

import (
	"github.com/pterm/pterm"
	"golang.org/x/term"
	"os"
	"time"
)

// startSpinner shows a spinner on interactive terminals. The returned stop func is always safe to call.
func startSpinner(text string) func() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return func() {}
	}

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100 * time.Millisecond).WithRemoveWhenDone(true)

	spinnerInstance, err := spinner.Start(text)
	if err != nil {
		return func() {}
	}
	return func() {
		_ = spinnerInstance.Stop()
	}
}
