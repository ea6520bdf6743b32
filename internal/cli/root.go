package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "libdesk",
		Short: "Library circulation desk: book issue, returns and memberships",
		Long: `libdesk serves the library desk: a login gate followed by tabbed forms
for issuing books, returning books and registering memberships.

Configuration comes from the environment (a .env file is loaded if present)
and, optionally, a TOML file named by LIBDESK_CONFIG.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		SilenceUsage: true,
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newHashPasswordCmd())
	cmd.AddCommand(newCheckIssueCmd())

	return cmd
}
