package main

import (
	"fmt"
	"strings"

	"github.com/phrazzld/smartflash/internal/api/middleware"
	"github.com/spf13/cobra"
)

func (c *cli) hashTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-token [token]",
		Short: "Print the bcrypt hash to configure as server.api_token_hash",
		Long: `Hash an API token for server.api_token_hash. The token is read from
stdin when not given as an argument, which keeps it out of shell history.`,
		Args: cobra.MaximumNArgs(1),
		// needs no configuration
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			if len(args) == 1 {
				token = args[0]
			} else {
				data, err := readInput(cmd, "-")
				if err != nil {
					return err
				}
				token = strings.TrimSpace(string(data))
			}

			hash, err := middleware.HashToken(token)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
