package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-equitysite/pkg/contact"
	"github.com/goliatone/go-equitysite/pkg/renderers/tui"
)

var (
	contactDryRun bool
	contactFormat string
)

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Take a consultation request in the terminal",
	Long: `Prompt for a consultation request with the same validation the site
uses and store it in the submissions database.

Use --dry-run to print the request instead of storing it.

Example:
  equitysite contact
  equitysite contact --dry-run --output-format pretty`,
	RunE: runContact,
}

func init() {
	contactCmd.Flags().BoolVar(&contactDryRun, "dry-run", false, "print the request instead of storing it")
	contactCmd.Flags().StringVar(&contactFormat, "output-format", string(tui.OutputFormatJSON), "dry-run output (json, form, pretty)")
}

func runContact(cmd *cobra.Command, args []string) error {
	intake := tui.New(
		tui.WithOutput(cmd.OutOrStdout()),
		tui.WithOutputFormat(tui.OutputFormat(contactFormat)),
	)

	if contactDryRun {
		data, err := intake.Collect(cmd.Context(), contact.DefaultFormData())
		if err != nil {
			return intakeError(cmd, err)
		}
		out, err := intake.Serialize(data)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	form := contact.NewForm(contact.WithSink(store))
	defer form.Dispose()

	if _, err := intake.Submit(cmd.Context(), form); err != nil {
		return intakeError(cmd, err)
	}
	return nil
}

// intakeError turns a user abort into a quiet exit.
func intakeError(cmd *cobra.Command, err error) error {
	if errors.Is(err, tui.ErrAborted) || errors.Is(err, tui.ErrDeclined) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Request not sent.")
		return nil
	}
	return err
}
