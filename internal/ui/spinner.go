package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh/spinner"
	"github.com/mattn/go-isatty"
)

// RunWithSpinner executes action while a spinner shows title.
// Without a terminal the action simply runs.
//
// Example:
//
//	var fetchErr error
//	err := RunWithSpinner("Fetching countries...", func() {
//	    fetchErr = st.FetchAll(ctx)
//	})
func RunWithSpinner(title string, action func()) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		action()
		return nil
	}

	err := spinner.New().
		Title(title).
		Action(action).
		Run()
	if err != nil {
		return fmt.Errorf("spinner error: %w", err)
	}
	return nil
}
