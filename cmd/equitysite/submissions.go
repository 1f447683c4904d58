package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-equitysite/pkg/contact"
)

var listLimit int

var submissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "Read stored consultation requests",
}

var submissionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List submissions, newest first",
	Long: `List stored consultation requests, newest first.

Example:
  equitysite submissions list
  equitysite submissions list --limit 10
  equitysite submissions list --json`,
	RunE: runSubmissionsList,
}

var submissionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one submission",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubmissionsShow,
}

func init() {
	submissionsListCmd.Flags().IntVar(&listLimit, "limit", 20, "maximum number of results (0 = no limit)")

	submissionsCmd.AddCommand(submissionsListCmd)
	submissionsCmd.AddCommand(submissionsShowCmd)
}

func runSubmissionsList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	subs, err := store.List(cmd.Context(), listLimit)
	if err != nil {
		return fmt.Errorf("list submissions: %w", err)
	}

	if flagJSON {
		return printJSON(cmd.OutOrStdout(), subs)
	}
	printSubmissionTable(cmd.OutOrStdout(), subs)
	return nil
}

func runSubmissionsShow(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid submission id %q: %w", args[0], err)
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

	sub, err := store.Get(cmd.Context(), id)
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), sub)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:           %s\n", sub.ID)
	fmt.Fprintf(out, "Received:     %s\n", sub.ReceivedAt.Format(time.RFC3339))
	fmt.Fprintf(out, "Name:         %s\n", sub.Data.Name)
	fmt.Fprintf(out, "Email:        %s\n", sub.Data.Email)
	fmt.Fprintf(out, "Organization: %s\n", sub.Data.Organization)
	fmt.Fprintf(out, "Service:      %s\n", sub.Data.Service.Label())
	fmt.Fprintf(out, "Timeline:     %s\n", sub.Data.Urgency.Label())
	fmt.Fprintf(out, "\n%s\n", sub.Data.Message)
	return nil
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// printSubmissionTable prints submissions in a human-readable table.
func printSubmissionTable(out io.Writer, subs []contact.Submission) {
	if len(subs) == 0 {
		fmt.Fprintln(out, "No submissions found.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tRECEIVED\tNAME\tORGANIZATION\tSERVICE\tURGENCY")
	for _, sub := range subs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			sub.ID.String()[:8],
			sub.ReceivedAt.Format("2006-01-02 15:04"),
			truncate(sub.Data.Name, 24),
			truncate(sub.Data.Organization, 28),
			sub.Data.Service,
			sub.Data.Urgency,
		)
	}
	w.Flush()
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len([]rune(s)) <= max {
		return s
	}
	return string([]rune(s)[:max-1]) + "…"
}
