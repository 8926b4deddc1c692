package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-changenotice/internal/editor"
)

// ErrInvalidNotice is returned when the saved notice fails validation.
var ErrInvalidNotice = errors.New("changenotice: notice failed validation")

// NewRootCmd builds the command tree around app. Callers close app once the
// command returns.
func NewRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "changenotice",
		Short:        "Compose, validate and export change notification emails",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Run the local editor
  changenotice serve

  # Print the saved draft as an email body
  changenotice render --output notice.html

  # Export the change windows
  changenotice export ics --output windows.ics
`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup()
		},
	}
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "config file (default $CHANGENOTICE_CONFIG or the user config dir)")
	cmd.PersistentFlags().StringVar(&app.DraftKey, "draft", "", "draft key override (default from config)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "log level override (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCmd(app),
		newRenderCmd(app),
		newValidateCmd(app),
		newExportCmd(app),
		newEditCmd(app),
	)
	return cmd
}

// Execute runs the command tree against os.Args.
func Execute(ctx context.Context) error {
	app := &App{}
	err := NewRootCmd(app).ExecuteContext(ctx)
	if cerr := app.close(); err == nil {
		err = cerr
	}
	return err
}

// loadSaved builds a controller and loads the saved draft into it.
func loadSaved(cmd *cobra.Command, app *App, rendererName string) (*editor.Controller, error) {
	ctrl, err := app.controller(cmd.Context(), rendererName)
	if err != nil {
		return nil, err
	}
	if _, err := ctrl.Run(cmd.Context(), editor.ActionLoadDraft, editor.Payload{}); err != nil {
		return nil, err
	}
	return ctrl, nil
}

func writeOutput(cmd *cobra.Command, path string, body []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(body)
		return err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	_, err := fmt.Fprintf(cmd.ErrOrStderr(), "written to %s\n", path)
	return err
}

func printIssues(w io.Writer, report *editor.Report) {
	if report == nil {
		return
	}
	paths := make([]string, 0, len(report.Messages))
	for path := range report.Messages {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		for _, msg := range report.Messages[path] {
			fmt.Fprintf(w, "%s: %s\n", path, msg)
		}
	}
}
