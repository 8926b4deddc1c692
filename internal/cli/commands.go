package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-changenotice/internal/editor"
	"github.com/goliatone/go-changenotice/internal/prompt"
	"github.com/goliatone/go-changenotice/internal/server"
	"github.com/goliatone/go-changenotice/pkg/renderers/email"
)

func newServeCmd(app *App) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local HTTP editor",
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen == "" {
				listen = app.cfg.Listen
			}
			ctrl, err := app.controller(cmd.Context(), email.Name)
			if err != nil {
				return err
			}
			if err := ctrl.Init(cmd.Context()); err != nil {
				app.logger.Warn("starting with a blank notice", zap.Error(err))
			}
			srv, err := server.New(ctrl, server.WithLogger(app.logger))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx, listen)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config)")
	return cmd
}

func newRenderCmd(app *App) *cobra.Command {
	var output, format string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the saved draft as an email body",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := loadSaved(cmd, app, format)
			if err != nil {
				return err
			}
			outcome, err := ctrl.Run(cmd.Context(), editor.ActionPreview, editor.Payload{})
			if err != nil {
				return err
			}
			if outcome.Rejected() {
				printIssues(cmd.ErrOrStderr(), outcome.Validation)
				return ErrInvalidNotice
			}
			return writeOutput(cmd, output, outcome.Body)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&format, "format", email.Name, "renderer to use (email, text)")
	return cmd
}

func newValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the saved draft and list every problem",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := loadSaved(cmd, app, email.Name)
			if err != nil {
				return err
			}
			outcome, err := ctrl.Run(cmd.Context(), editor.ActionValidate, editor.Payload{})
			if err != nil {
				return err
			}
			if outcome.Rejected() {
				printIssues(cmd.OutOrStdout(), outcome.Validation)
				return ErrInvalidNotice
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return err
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:       "export csv|ics",
		Short:     "Export the saved schedule rows",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"csv", "ics"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := editor.ActionExportCSV
			if args[0] == "ics" {
				action = editor.ActionExportICS
			}
			ctrl, err := loadSaved(cmd, app, email.Name)
			if err != nil {
				return err
			}
			outcome, err := ctrl.Run(cmd.Context(), action, editor.Payload{})
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, outcome.Body)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit the draft interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := app.controller(cmd.Context(), email.Name)
			if err != nil {
				return err
			}
			if err := ctrl.Init(cmd.Context()); err != nil {
				return err
			}
			session, err := prompt.NewSession(prompt.NewSurveyDriver(cmd.OutOrStdout()), ctrl)
			if err != nil {
				return err
			}
			outcome, err := session.Edit(cmd.Context())
			if err != nil {
				return err
			}
			if outcome.Rejected() {
				return ErrInvalidNotice
			}
			return nil
		},
	}
}
