package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/diagnosis/libdesk/pkg/config"
	"github.com/diagnosis/libdesk/services/desk"
)

var errRejected = errors.New("book issue rejected")

func newCheckIssueCmd() *cobra.Command {
	var check desk.IssueCheck

	cmd := &cobra.Command{
		Use:   "check-issue",
		Short: "Run the book issue date rules without a server",
		Example: `  # Defaults: issue today, return 15 days later
  libdesk check-issue --book "Dune"

  libdesk check-issue --book "Dune" --issue 2026-10-19 --return 2026-11-04`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			check.Now = time.Now()
			check.Location = cfg.Location()

			v, err := desk.CheckIssue(check)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "today %s, issue %s, return %s\n", v.Today, v.IssueDate, v.ReturnDate)
			if !v.Valid {
				fmt.Fprintf(out, "%s: %s\n", v.Code, v.Message)
				return errRejected
			}
			fmt.Fprintln(out, "OK")
			return nil
		},
	}

	cmd.Flags().StringVar(&check.BookName, "book", "", "name of the book")
	cmd.Flags().StringVar(&check.IssueDate, "issue", "", "issue date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&check.ReturnDate, "return", "", "return date, YYYY-MM-DD (default issue window end)")
	return cmd
}
