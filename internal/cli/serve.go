package cli

import (
	"github.com/spf13/cobra"

	"github.com/diagnosis/libdesk/pkg/config"
	"github.com/diagnosis/libdesk/services/desk"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the desk web interface and JSON API",
		Example: `  # Start on PORT from the environment (default 8080)
  libdesk serve

  # Require real credentials from a users file
  AUTH_MODE=credentials AUTH_USERS_FILE=users.yaml libdesk serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}

			srv, err := desk.New(cfg)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "port to listen on (overrides PORT)")
	return cmd
}
