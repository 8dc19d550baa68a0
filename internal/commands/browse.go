package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"bkt/internal/logging"
	"bkt/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

// errNotTerminal is returned when browse is started without an interactive terminal
var errNotTerminal = errors.New("browse needs an interactive terminal; use 'bkt files' from scripts")

// openURL opens url in the system browser without writing to the terminal
func openURL(url string) error {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return browser.OpenURL(url)
}

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse [bucket]",
		Short: "Browse buckets and files interactively",
		Long: `Open the interactive file manager. With a bucket argument the file list of
that bucket opens directly; otherwise pick a bucket first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(os.Stdin.Fd()) || !term.IsTerminal(os.Stdout.Fd()) {
				return errNotTerminal
			}

			bucket := ""
			if len(args) == 1 {
				bucket = args[0]
			}

			model := ui.NewModel(commandContext(cmd), ui.Options{
				Backend:     a.client,
				Bucket:      bucket,
				DownloadDir: a.cfg.ResolvedDownloadDir(),
				Log:         logging.Log,
				OpenURL:     openURL,
			})

			logging.Log.WithField("bucket", bucket).Info("starting browser")
			if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
				return fmt.Errorf("error running terminal UI: %w", err)
			}
			return nil
		},
	}
}
